// Package filterkit routes declarative filter groups to backend adapters.
//
// Callers describe what to select with the filter subpackage, register
// adapters for their data sources, and resolve the adapter serving a given
// source through the Registry. Every adapter exposes the same two-operation
// contract (ApplyFilter, ApplyFilters) and returns a paginated QueryResult
// with a diagnostic trace of the query it actually executed.
//
// Bundled adapters: memory (local evaluation over a slice), postgres (SQL
// pushdown via squirrel and pgx), and mongo (document pushdown via the
// official driver).
package filterkit
