package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/architeacher/filterkit"
	"github.com/architeacher/filterkit/filter"
	"github.com/architeacher/filterkit/pkg/logger"
	"github.com/architeacher/filterkit/pkg/metrics"
	"github.com/architeacher/filterkit/pkg/metrics/noop"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
)

const queriesMetric = "filterkit.queries.executed"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type (
	// PoolOps defines the database operations the adapter needs.
	// This allows injecting mock implementations for testing.
	PoolOps interface {
		QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
		Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
		Ping(ctx context.Context) error
	}

	// TableSpec names the relation an adapter serves and the element type it
	// yields.
	TableSpec struct {
		Table   string
		Columns []string
		Element filterkit.ElementType
	}

	// Adapter executes filters by SQL pushdown: the filter tree lowers to a
	// WHERE clause, sort and pagination to ORDER BY / LIMIT / OFFSET, and the
	// matching-set size comes from a native COUNT.
	Adapter[T any] struct {
		filterkit.Supports

		spec       TableSpec
		pool       PoolOps
		scanner    Scanner
		translator *Translator
		logger     logger.Logger
		metrics    metrics.Client
	}

	// Option configures optional adapter collaborators.
	Option[T any] func(*Adapter[T])

	countRow struct {
		Total uint `db:"total"`
	}
)

// WithMetrics records query counts through the given client.
func WithMetrics[T any](client metrics.Client) Option[T] {
	return func(a *Adapter[T]) {
		a.metrics = client
	}
}

// NewAdapter builds an adapter serving spec.Table rows scanned into T.
func NewAdapter[T any](
	spec TableSpec,
	pool PoolOps,
	scanner Scanner,
	translator *Translator,
	log logger.Logger,
	opts ...Option[T],
) *Adapter[T] {
	adapter := &Adapter[T]{
		Supports:   filterkit.Supports{Types: []filterkit.ElementType{spec.Element}},
		spec:       spec,
		pool:       pool,
		scanner:    scanner,
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

// ApplyFilters validates and lowers the groups, counts the full matching set,
// then fetches only the requested page.
func (a *Adapter[T]) ApplyFilters(ctx context.Context, groups []filter.Group) (*filterkit.QueryResult[T], error) {
	if err := filter.Validate(groups...); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", filterkit.ErrCancelled, err)
	}

	where, err := a.translator.Predicate(groups)
	if err != nil {
		return nil, err
	}

	totalItems, err := a.countMatches(ctx, where)
	if err != nil {
		return nil, err
	}

	page := filter.EffectivePagination(groups)

	builder := psql.Select(a.spec.Columns...).From(a.spec.Table).Where(where)

	builder, err = a.translator.ApplySort(builder, page)
	if err != nil {
		return nil, err
	}

	if page != nil && page.Paged() {
		builder = builder.Limit(uint64(page.Size)).Offset(uint64(page.Offset()))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := a.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, a.backendError(ctx, err)
	}
	defer rows.Close()

	items := make([]T, 0)
	if err := a.scanner.ScanAll(&items, rows); err != nil {
		return nil, a.backendError(ctx, err)
	}

	trace := filter.Describe(groups, page) + " | sql: " + query

	a.metrics.Inc(ctx, queriesMetric, int64(1), attribute.String("backend", "postgres"))

	if page == nil || !page.Paged() {
		return filterkit.NewQueryResult(items, 1, totalItems, totalItems, trace), nil
	}

	return filterkit.NewQueryResult(items, page.Page, page.Size, totalItems, trace), nil
}

func (a *Adapter[T]) countMatches(ctx context.Context, where sq.Sqlizer) (uint, error) {
	query, args, err := psql.Select("COUNT(*) AS total").From(a.spec.Table).Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	rows, err := a.pool.Query(ctx, query, args...)
	if err != nil {
		return 0, a.backendError(ctx, err)
	}
	defer rows.Close()

	var row countRow
	if err := a.scanner.ScanOne(&row, rows); err != nil {
		if a.scanner.IsNotFound(err) {
			return 0, nil
		}

		return 0, a.backendError(ctx, err)
	}

	return row.Total, nil
}

func (a *Adapter[T]) backendError(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", filterkit.ErrCancelled, err)
	}

	a.logger.Error().
		Err(err).
		Str("table", a.spec.Table).
		Msg("backend query failed")

	return fmt.Errorf("%w: %v", filterkit.ErrBackendExecution, err)
}
