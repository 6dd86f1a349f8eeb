// Package postgres lowers filter groups to SQL and executes them with pgx.
// Filtering, sorting, and pagination are pushed down to the database; the
// adapter never materializes more than the requested page.
package postgres

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/architeacher/filterkit/filter"
	"github.com/architeacher/filterkit/pkg/logger"
)

// Translator lowers the filter model to squirrel SQL fragments using a
// field-name to column mapping.
type Translator struct {
	columns map[string]string
	logger  logger.Logger
}

// NewTranslator builds a translator over the given field→column mapping.
func NewTranslator(columns map[string]string, log logger.Logger) *Translator {
	return &Translator{columns: columns, logger: log}
}

// Predicate folds the groups into a single SQL condition. Queries chain left
// to right per their join conditions, groups chain per their group join
// conditions. Empty input compiles to TRUE.
func (t *Translator) Predicate(groups []filter.Group) (sq.Sqlizer, error) {
	if len(groups) == 0 {
		return sq.Expr("TRUE"), nil
	}

	acc, err := t.groupPredicate(groups[0])
	if err != nil {
		return nil, err
	}

	for _, group := range groups[1:] {
		next, err := t.groupPredicate(group)
		if err != nil {
			return nil, err
		}

		acc = joinSqlizer(acc, next, group.Join())
	}

	return acc, nil
}

// ApplySort appends ORDER BY clauses for the pagination spec's sort fields.
func (t *Translator) ApplySort(builder sq.SelectBuilder, page *filter.Pagination) (sq.SelectBuilder, error) {
	if page == nil || len(page.SortFields) == 0 {
		return builder, nil
	}

	direction := "ASC"
	if page.Descending {
		direction = "DESC"
	}

	for _, field := range page.SortFields {
		col, err := t.col(field)
		if err != nil {
			return builder, err
		}

		builder = builder.OrderBy(fmt.Sprintf("%s %s", col, direction))
	}

	return builder, nil
}

func (t *Translator) groupPredicate(group filter.Group) (sq.Sqlizer, error) {
	queries := group.Queries()
	if len(queries) == 0 {
		return sq.Expr("TRUE"), nil
	}

	acc, err := t.criterionPredicate(queries[0].Criterion())
	if err != nil {
		return nil, err
	}

	for _, query := range queries[1:] {
		next, err := t.criterionPredicate(query.Criterion())
		if err != nil {
			return nil, err
		}

		acc = joinSqlizer(acc, next, query.Join())
	}

	return acc, nil
}

func joinSqlizer(a, b sq.Sqlizer, join filter.Condition) sq.Sqlizer {
	if join == filter.Or {
		return sq.Or{a, b}
	}

	return sq.And{a, b}
}

// criterionPredicate lowers one leaf comparison. Case-insensitive string
// comparisons lower both sides with LOWER(); text operators use LIKE or
// ILIKE with an escaped pattern.
func (t *Translator) criterionPredicate(criterion filter.Criterion) (sq.Sqlizer, error) {
	col, err := t.col(criterion.Field())
	if err != nil {
		return nil, err
	}

	values := criterion.Values()

	switch criterion.Operator() {
	case filter.OpEq:
		return t.comparison(col, "=", values[0], criterion.CaseSensitive()), nil

	case filter.OpNotEq:
		return t.comparison(col, "<>", values[0], criterion.CaseSensitive()), nil

	case filter.OpGt:
		return t.comparison(col, ">", values[0], criterion.CaseSensitive()), nil

	case filter.OpGte:
		return t.comparison(col, ">=", values[0], criterion.CaseSensitive()), nil

	case filter.OpLt:
		return t.comparison(col, "<", values[0], criterion.CaseSensitive()), nil

	case filter.OpLte:
		return t.comparison(col, "<=", values[0], criterion.CaseSensitive()), nil

	case filter.OpIn:
		return t.membership(col, values, criterion.CaseSensitive(), true), nil

	case filter.OpNotIn:
		return t.membership(col, values, criterion.CaseSensitive(), false), nil

	case filter.OpBetween:
		return sq.And{
			t.comparison(col, ">=", values[0], criterion.CaseSensitive()),
			t.comparison(col, "<=", values[1], criterion.CaseSensitive()),
		}, nil

	case filter.OpContains:
		return t.pattern(col, "%"+escapeLike(values[0].(string))+"%", criterion.CaseSensitive()), nil

	case filter.OpStartsWith:
		return t.pattern(col, escapeLike(values[0].(string))+"%", criterion.CaseSensitive()), nil

	case filter.OpEndsWith:
		return t.pattern(col, "%"+escapeLike(values[0].(string)), criterion.CaseSensitive()), nil

	case filter.OpIsNull:
		return sq.Eq{col: nil}, nil

	case filter.OpNotNull:
		return sq.NotEq{col: nil}, nil
	}

	return nil, &filter.ValidationError{
		QueryIndex: -1,
		Operator:   criterion.Operator(),
		Field:      criterion.Field(),
		Message:    "unknown operator",
	}
}

func (t *Translator) comparison(col, op string, value any, caseSensitive bool) sq.Sqlizer {
	if s, ok := value.(string); ok && !caseSensitive {
		return sq.Expr(fmt.Sprintf("LOWER(%s) %s ?", col, op), strings.ToLower(s))
	}

	return sq.Expr(fmt.Sprintf("%s %s ?", col, op), value)
}

func (t *Translator) membership(col string, values []any, caseSensitive bool, want bool) sq.Sqlizer {
	if lowered, ok := lowerAll(values); ok && !caseSensitive {
		if want {
			return sq.Expr(fmt.Sprintf("LOWER(%s) = ANY(?)", col), lowered)
		}

		return sq.Expr(fmt.Sprintf("LOWER(%s) <> ALL(?)", col), lowered)
	}

	if want {
		return sq.Eq{col: values}
	}

	return sq.NotEq{col: values}
}

func (t *Translator) pattern(col, pattern string, caseSensitive bool) sq.Sqlizer {
	if caseSensitive {
		return sq.Like{col: pattern}
	}

	return sq.ILike{col: pattern}
}

func (t *Translator) col(field string) (string, error) {
	if col, ok := t.columns[field]; ok {
		return col, nil
	}

	t.logger.Warn().
		Str("field", field).
		Msg("filter references a field with no column mapping")

	return "", fmt.Errorf("%w: %q", filter.ErrUnknownField, field)
}

// lowerAll lowers every value when they are all strings.
func lowerAll(values []any) ([]string, bool) {
	lowered := make([]string, len(values))
	for i, value := range values {
		s, ok := value.(string)
		if !ok {
			return nil, false
		}

		lowered[i] = strings.ToLower(s)
	}

	return lowered, true
}

// escapeLike escapes LIKE wildcards in a literal search value.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)

	return s
}
