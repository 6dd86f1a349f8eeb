// Package memory evaluates compiled filter predicates locally against an
// in-memory sequence. It has no pushdown: the whole sequence is scanned,
// matches are counted, stable-sorted, and sliced into the requested page.
package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/architeacher/filterkit"
	"github.com/architeacher/filterkit/filter"
	"github.com/architeacher/filterkit/pkg/logger"
	"github.com/architeacher/filterkit/pkg/metrics"
	"github.com/architeacher/filterkit/pkg/metrics/noop"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultBatchSize = 512

	queriesMetric = "filterkit.queries.executed"
)

// Source is a materialized sequence of elements of a declared type.
type Source[T any] struct {
	items []T
	elem  filterkit.ElementType
}

// NewSource wraps a slice as a data source yielding elements of type elem.
// The slice is not copied; callers must not mutate it while adapters read it.
func NewSource[T any](items []T, elem filterkit.ElementType) *Source[T] {
	return &Source[T]{items: items, elem: elem}
}

func (s *Source[T]) Kind() string                   { return "memory" }
func (s *Source[T]) Element() filterkit.ElementType { return s.elem }
func (s *Source[T]) Items() []T                     { return s.items }

// Adapter executes filters against a Source by local evaluation.
type Adapter[T any] struct {
	filterkit.Supports

	src       *Source[T]
	accessor  filter.Accessor[T]
	log       logger.Logger
	metrics   metrics.Client
	batchSize int
}

// Option configures an Adapter.
type Option[T any] func(*Adapter[T])

// WithLogger attaches a logger for diagnostics.
func WithLogger[T any](log logger.Logger) Option[T] {
	return func(a *Adapter[T]) { a.log = log }
}

// WithBatchSize sets how many elements are scanned between cancellation
// checks.
func WithBatchSize[T any](n int) Option[T] {
	return func(a *Adapter[T]) {
		if n > 0 {
			a.batchSize = n
		}
	}
}

// WithMetrics attaches a metrics client for query counters.
func WithMetrics[T any](client metrics.Client) Option[T] {
	return func(a *Adapter[T]) { a.metrics = client }
}

// WithSupportedTypes declares additional element types the adapter serves on
// top of the source's own.
func WithSupportedTypes[T any](types ...filterkit.ElementType) Option[T] {
	return func(a *Adapter[T]) { a.Types = append(a.Types, types...) }
}

// NewAdapter builds an adapter over src reading fields through accessor.
func NewAdapter[T any](src *Source[T], accessor filter.Accessor[T], opts ...Option[T]) *Adapter[T] {
	adapter := &Adapter[T]{
		Supports:  filterkit.Supports{Types: []filterkit.ElementType{src.Element()}},
		src:       src,
		accessor:  accessor,
		log:       logger.NewTestLogger(),
		metrics:   noop.NewMetricsClient(),
		batchSize: defaultBatchSize,
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// ApplyFilter executes a single group.
func (a *Adapter[T]) ApplyFilter(ctx context.Context, group filter.Group) (*filterkit.QueryResult[T], error) {
	return a.ApplyFilters(ctx, []filter.Group{group})
}

// ApplyFilters compiles the groups, scans the backing sequence with batched
// cancellation checks, stable-sorts the matches, and slices out the
// requested page.
func (a *Adapter[T]) ApplyFilters(ctx context.Context, groups []filter.Group) (*filterkit.QueryResult[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", filterkit.ErrCancelled, err)
	}

	predicate, err := filter.Compile(a.accessor, groups...)
	if err != nil {
		return nil, err
	}

	matched := make([]T, 0)
	for i, item := range a.src.Items() {
		if i%a.batchSize == 0 && i > 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w: %v", filterkit.ErrCancelled, err)
			}
		}

		ok, err := predicate(item)
		if err != nil {
			return nil, err
		}

		if ok {
			matched = append(matched, item)
		}
	}

	page := filter.EffectivePagination(groups)
	if err := a.sortMatches(matched, page); err != nil {
		return nil, err
	}

	totalItems := uint(len(matched))
	trace := "memory: " + filter.Describe(groups, page)

	a.metrics.Inc(ctx, queriesMetric, int64(1), attribute.String("backend", "memory"))

	if page == nil || !page.Paged() {
		return filterkit.NewQueryResult(matched, 1, totalItems, totalItems, trace), nil
	}

	start := page.Offset()
	if start > totalItems {
		start = totalItems
	}

	end := start + page.Size
	if end > totalItems {
		end = totalItems
	}

	return filterkit.NewQueryResult(matched[start:end], page.Page, page.Size, totalItems, trace), nil
}

// sortMatches orders matched elements by the sort fields, primary first.
// The sort is stable: ties preserve encounter order.
func (a *Adapter[T]) sortMatches(matched []T, page *filter.Pagination) error {
	if page == nil || len(page.SortFields) == 0 {
		return nil
	}

	var sortErr error
	sort.SliceStable(matched, func(i, j int) bool {
		if sortErr != nil {
			return false
		}

		for _, field := range page.SortFields {
			left, err := a.accessor.Read(matched[i], field)
			if err != nil {
				sortErr = err

				return false
			}

			right, err := a.accessor.Read(matched[j], field)
			if err != nil {
				sortErr = err

				return false
			}

			cmp, err := filter.Compare(left, right, true)
			if err != nil {
				sortErr = &filter.TypeMismatchError{Field: field, Value: left}

				return false
			}

			if cmp != 0 {
				if page.Descending {
					return cmp > 0
				}

				return cmp < 0
			}
		}

		return false
	})

	return sortErr
}
