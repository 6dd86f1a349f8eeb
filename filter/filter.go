package filter

// Criterion is one leaf comparison: a field name, the ordered comparison
// values, an operator, and a case-sensitivity flag. Criteria are immutable
// value objects; construct them through the operator constructors below.
type Criterion struct {
	field         string
	values        []any
	op            Operator
	caseSensitive bool
}

func newCriterion(field string, op Operator, values ...any) Criterion {
	return Criterion{field: field, values: values, op: op}
}

// Eq matches elements whose field equals value.
func Eq(field string, value any) Criterion { return newCriterion(field, OpEq, value) }

// NotEq matches elements whose field differs from value.
func NotEq(field string, value any) Criterion { return newCriterion(field, OpNotEq, value) }

// Gt matches elements whose field is greater than value.
func Gt(field string, value any) Criterion { return newCriterion(field, OpGt, value) }

// Gte matches elements whose field is greater than or equal to value.
func Gte(field string, value any) Criterion { return newCriterion(field, OpGte, value) }

// Lt matches elements whose field is less than value.
func Lt(field string, value any) Criterion { return newCriterion(field, OpLt, value) }

// Lte matches elements whose field is less than or equal to value.
func Lte(field string, value any) Criterion { return newCriterion(field, OpLte, value) }

// In matches elements whose field equals any of the given values.
func In(field string, values ...any) Criterion { return newCriterion(field, OpIn, values...) }

// NotIn matches elements whose field equals none of the given values.
func NotIn(field string, values ...any) Criterion { return newCriterion(field, OpNotIn, values...) }

// Between matches elements whose field lies in [start, end], inclusive.
// A range with start greater than end matches nothing.
func Between(field string, start, end any) Criterion {
	return newCriterion(field, OpBetween, start, end)
}

// Contains matches string fields containing value.
func Contains(field, value string) Criterion { return newCriterion(field, OpContains, value) }

// StartsWith matches string fields beginning with value.
func StartsWith(field, value string) Criterion { return newCriterion(field, OpStartsWith, value) }

// EndsWith matches string fields ending with value.
func EndsWith(field, value string) Criterion { return newCriterion(field, OpEndsWith, value) }

// IsNull matches elements whose field is null.
func IsNull(field string) Criterion { return newCriterion(field, OpIsNull) }

// NotNull matches elements whose field is not null.
func NotNull(field string) Criterion { return newCriterion(field, OpNotNull) }

// MatchCase returns a copy of the criterion with case-sensitive comparison
// enabled. Comparisons are case-insensitive by default; the flag has no
// effect on non-textual operands.
func (c Criterion) MatchCase() Criterion {
	c.caseSensitive = true

	return c
}

func (c Criterion) Field() string       { return c.field }
func (c Criterion) Values() []any       { return c.values }
func (c Criterion) Operator() Operator  { return c.op }
func (c Criterion) CaseSensitive() bool { return c.caseSensitive }

// Query is a criterion plus the condition joining it to the previous query
// in its group. The join condition of the first query in a group is ignored.
type Query struct {
	criterion Criterion
	join      Condition
}

// NewQuery pairs a criterion with its join condition.
func NewQuery(criterion Criterion, join Condition) Query {
	return Query{criterion: criterion, join: join}
}

func (q Query) Criterion() Criterion { return q.criterion }
func (q Query) Join() Condition      { return q.join }

// Group is an ordered sequence of queries folded left to right per their join
// conditions, an optional pagination spec, and a condition describing how the
// group combines with the preceding group in a list. An empty group matches
// everything.
type Group struct {
	queries []Query
	join    Condition
	page    *Pagination
}

// NewGroup assembles a group joined to its predecessor with AND.
// Use the builder for richer composition.
func NewGroup(queries ...Query) Group {
	return Group{queries: queries, join: And}
}

func (g Group) Queries() []Query        { return g.queries }
func (g Group) Join() Condition         { return g.join }
func (g Group) Pagination() *Pagination { return g.page }
func (g Group) HasPagination() bool     { return g.page != nil }
