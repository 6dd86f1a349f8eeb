package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/architeacher/filterkit"
	"github.com/architeacher/filterkit/filter"
	"github.com/architeacher/filterkit/pkg/logger"
	"github.com/architeacher/filterkit/pkg/metrics"
	"github.com/architeacher/filterkit/pkg/metrics/noop"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mopt "go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"
)

const queriesMetric = "filterkit.queries.executed"

type (
	// Collection defines the driver operations the adapter needs.
	Collection interface {
		Find(ctx context.Context, filter any, opts ...*mopt.FindOptions) (*mongo.Cursor, error)
		CountDocuments(ctx context.Context, filter any, opts ...*mopt.CountOptions) (int64, error)
	}

	// Adapter executes filters by pushdown to a MongoDB collection.
	Adapter[T any] struct {
		filterkit.Supports

		coll       Collection
		translator *Translator
		logger     logger.Logger
		metrics    metrics.Client
	}

	// Option configures optional adapter collaborators.
	Option[T any] func(*Adapter[T])
)

// WithMetrics records query counts through the given client.
func WithMetrics[T any](client metrics.Client) Option[T] {
	return func(a *Adapter[T]) {
		a.metrics = client
	}
}

// NewAdapter builds an adapter serving documents of coll decoded into T.
func NewAdapter[T any](
	coll Collection,
	translator *Translator,
	elem filterkit.ElementType,
	log logger.Logger,
	opts ...Option[T],
) *Adapter[T] {
	adapter := &Adapter[T]{
		Supports:   filterkit.Supports{Types: []filterkit.ElementType{elem}},
		coll:       coll,
		translator: translator,
		logger:     log,
		metrics:    noop.NewMetricsClient(),
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

// ApplyFilters validates and lowers the groups, counts matching documents
// natively, then fetches only the requested page with driver-side sort,
// skip, and limit.
func (a *Adapter[T]) ApplyFilters(ctx context.Context, groups []filter.Group) (*filterkit.QueryResult[T], error) {
	if err := filter.Validate(groups...); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", filterkit.ErrCancelled, err)
	}

	predicate, err := a.translator.Predicate(groups)
	if err != nil {
		return nil, err
	}

	total, err := a.coll.CountDocuments(ctx, predicate)
	if err != nil {
		return nil, a.backendError(ctx, err)
	}

	page := filter.EffectivePagination(groups)

	findOpts := mopt.Find()
	if page != nil && len(page.SortFields) > 0 {
		order := 1
		if page.Descending {
			order = -1
		}

		sortDoc := make(bson.D, 0, len(page.SortFields))
		for _, field := range page.SortFields {
			key, err := a.translator.key(field)
			if err != nil {
				return nil, err
			}

			sortDoc = append(sortDoc, bson.E{Key: key, Value: order})
		}

		findOpts.SetSort(sortDoc)
	}

	if page != nil && page.Paged() {
		findOpts.SetSkip(int64(page.Offset())).SetLimit(int64(page.Size))
	}

	cursor, err := a.coll.Find(ctx, predicate, findOpts)
	if err != nil {
		return nil, a.backendError(ctx, err)
	}
	defer cursor.Close(ctx)

	items := make([]T, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, a.backendError(ctx, err)
	}

	trace := filter.Describe(groups, page) + " | mongo: " + renderPredicate(predicate)

	a.metrics.Inc(ctx, queriesMetric, int64(1), attribute.String("backend", "mongo"))

	totalItems := uint(total)
	if page == nil || !page.Paged() {
		return filterkit.NewQueryResult(items, 1, totalItems, totalItems, trace), nil
	}

	return filterkit.NewQueryResult(items, page.Page, page.Size, totalItems, trace), nil
}

func (a *Adapter[T]) backendError(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", filterkit.ErrCancelled, err)
	}

	a.logger.Error().
		Err(err).
		Msg("backend query failed")

	return fmt.Errorf("%w: %v", filterkit.ErrBackendExecution, err)
}

// renderPredicate renders the filter document as canonical extended JSON.
// bson.D preserves key order, so the output is deterministic.
func renderPredicate(predicate bson.D) string {
	raw, err := bson.MarshalExtJSON(predicate, true, false)
	if err != nil {
		return fmt.Sprintf("%v", predicate)
	}

	return string(raw)
}
