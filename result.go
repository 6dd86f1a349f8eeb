package filterkit

// QueryResult is one page of a filtered, sorted result set plus the metadata
// describing the query that produced it. It is created fresh per invocation
// and owned by the caller.
type QueryResult[T any] struct {
	Items      []T
	Page       uint
	Size       uint
	TotalItems uint

	// QueryTrace is a human-readable rendering of the executed filter, sort,
	// and pagination. Diagnostics only; never parse it.
	QueryTrace string
}

// NewQueryResult assembles a result page.
func NewQueryResult[T any](items []T, page, size, totalItems uint, trace string) *QueryResult[T] {
	return &QueryResult[T]{
		Items:      items,
		Page:       page,
		Size:       size,
		TotalItems: totalItems,
		QueryTrace: trace,
	}
}

// TotalPages derives the page count from TotalItems and Size; it is never
// stored independently.
func (r *QueryResult[T]) TotalPages() uint {
	if r.Size == 0 {
		return 0
	}

	return (r.TotalItems + r.Size - 1) / r.Size
}

// HasNext reports whether a later page exists.
func (r *QueryResult[T]) HasNext() bool { return r.Page < r.TotalPages() }

// HasPrevious reports whether an earlier page exists.
func (r *QueryResult[T]) HasPrevious() bool { return r.Page > 1 }
