package filterkit

import (
	"context"

	"github.com/architeacher/filterkit/filter"
)

// Source describes a data source: the backend kind serving it and the
// element type it yields. The Registry resolves a Source to the adapter able
// to execute filters against it.
type Source interface {
	Kind() string
	Element() ElementType
}

// Handler is the non-generic facet of an adapter, enough for capability
// dispatch.
type Handler interface {
	CanHandle(elem ElementType) bool
}

// Adapter executes compiled filters against one backend. Each call is a
// single-shot pure transformation: adapters hold only an immutable handle to
// their backing data source and may be invoked concurrently.
type Adapter[T any] interface {
	Handler

	// ApplyFilter executes a single filter group.
	ApplyFilter(ctx context.Context, group filter.Group) (*QueryResult[T], error)

	// ApplyFilters executes a list of groups chained by their group join
	// conditions.
	ApplyFilters(ctx context.Context, groups []filter.Group) (*QueryResult[T], error)
}

type sourceDesc struct {
	kind string
	elem ElementType
}

func (s sourceDesc) Kind() string         { return s.kind }
func (s sourceDesc) Element() ElementType { return s.elem }

// NewSource builds a plain source descriptor from a backend kind and an
// element type.
func NewSource(kind string, elem ElementType) Source {
	return sourceDesc{kind: kind, elem: elem}
}
