// Package filter defines the backend-agnostic filter model: a vocabulary of
// comparison operators and logical conditions, immutable criterion/query/group
// value objects, and a pure compiler that folds groups into an evaluable
// predicate. Backend adapters lower the same model to their native query form.
package filter

// Operator is a comparison operator applied to a single field.
type Operator string

const (
	OpEq         Operator = "eq"
	OpNotEq      Operator = "neq"
	OpGt         Operator = "gt"
	OpGte        Operator = "gte"
	OpLt         Operator = "lt"
	OpLte        Operator = "lte"
	OpIn         Operator = "in"
	OpNotIn      Operator = "not_in"
	OpBetween    Operator = "between"
	OpContains   Operator = "contains"
	OpStartsWith Operator = "starts_with"
	OpEndsWith   Operator = "ends_with"
	OpIsNull     Operator = "is_null"
	OpNotNull    Operator = "not_null"
)

// Condition joins a query to the previous query in its group, or a group to
// the preceding group in a list.
type Condition string

const (
	And Condition = "AND"
	Or  Condition = "OR"
)

// arity bounds per operator: minimum and maximum number of values.
// A max of -1 means unbounded.
type arity struct {
	min int
	max int
}

var operatorArity = map[Operator]arity{
	OpEq:         {1, 1},
	OpNotEq:      {1, 1},
	OpGt:         {1, 1},
	OpGte:        {1, 1},
	OpLt:         {1, 1},
	OpLte:        {1, 1},
	OpIn:         {1, -1},
	OpNotIn:      {1, -1},
	OpBetween:    {2, 2},
	OpContains:   {1, 1},
	OpStartsWith: {1, 1},
	OpEndsWith:   {1, 1},
	OpIsNull:     {0, 0},
	OpNotNull:    {0, 0},
}

// Valid reports whether o is a member of the closed operator set.
func (o Operator) Valid() bool {
	_, ok := operatorArity[o]

	return ok
}

// Textual reports whether o only applies to string-valued fields.
func (o Operator) Textual() bool {
	switch o {
	case OpContains, OpStartsWith, OpEndsWith:
		return true
	}

	return false
}

// AcceptsValues reports whether n values satisfy the operator's arity.
func (o Operator) AcceptsValues(n int) bool {
	bounds, ok := operatorArity[o]
	if !ok {
		return false
	}

	if n < bounds.min {
		return false
	}

	return bounds.max < 0 || n <= bounds.max
}

func (o Operator) String() string { return string(o) }

func (c Condition) String() string { return string(c) }

// Valid reports whether c is AND or OR.
func (c Condition) Valid() bool { return c == And || c == Or }
