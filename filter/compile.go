package filter

import "strings"

// Predicate is a compiled filter: it reports whether a single element
// matches, surfacing evaluation-time type mismatches as errors.
type Predicate[T any] func(T) (bool, error)

// Compile folds the given groups into a single predicate. Queries inside a
// group chain left to right per their join conditions; the per-group results
// chain the same way per each group's join condition (the first group's
// condition is ignored). An empty group, and an empty group list, compile to
// a predicate matching everything.
//
// Compilation is pure: it validates arity up front, never mutates its input,
// and holds no shared state, so it is safe to call concurrently.
func Compile[T any](accessor Accessor[T], groups ...Group) (Predicate[T], error) {
	if err := Validate(groups...); err != nil {
		return nil, err
	}

	if len(groups) == 0 {
		return matchAll[T], nil
	}

	acc, err := compileGroup(accessor, groups[0])
	if err != nil {
		return nil, err
	}

	for _, group := range groups[1:] {
		next, err := compileGroup(accessor, group)
		if err != nil {
			return nil, err
		}

		acc = combine(acc, next, group.Join())
	}

	return acc, nil
}

func compileGroup[T any](accessor Accessor[T], group Group) (Predicate[T], error) {
	queries := group.Queries()
	if len(queries) == 0 {
		return matchAll[T], nil
	}

	acc, err := compileCriterion(accessor, queries[0].Criterion())
	if err != nil {
		return nil, err
	}

	for _, query := range queries[1:] {
		next, err := compileCriterion(accessor, query.Criterion())
		if err != nil {
			return nil, err
		}

		acc = combine(acc, next, query.Join())
	}

	return acc, nil
}

func combine[T any](a, b Predicate[T], join Condition) Predicate[T] {
	if join == Or {
		return func(obj T) (bool, error) {
			ok, err := a(obj)
			if err != nil || ok {
				return ok, err
			}

			return b(obj)
		}
	}

	return func(obj T) (bool, error) {
		ok, err := a(obj)
		if err != nil || !ok {
			return ok, err
		}

		return b(obj)
	}
}

func matchAll[T any](T) (bool, error) { return true, nil }

// compileCriterion lowers one leaf comparison. The switch is exhaustive over
// the closed operator set; Validate has already rejected unknown operators.
func compileCriterion[T any](accessor Accessor[T], criterion Criterion) (Predicate[T], error) {
	field := criterion.Field()
	values := criterion.Values()
	caseSensitive := criterion.CaseSensitive()

	switch criterion.Operator() {
	case OpEq:
		return comparePredicate(accessor, criterion, func(cmp int) bool { return cmp == 0 }), nil

	case OpNotEq:
		return comparePredicate(accessor, criterion, func(cmp int) bool { return cmp != 0 }), nil

	case OpGt:
		return comparePredicate(accessor, criterion, func(cmp int) bool { return cmp > 0 }), nil

	case OpGte:
		return comparePredicate(accessor, criterion, func(cmp int) bool { return cmp >= 0 }), nil

	case OpLt:
		return comparePredicate(accessor, criterion, func(cmp int) bool { return cmp < 0 }), nil

	case OpLte:
		return comparePredicate(accessor, criterion, func(cmp int) bool { return cmp <= 0 }), nil

	case OpIn:
		return membershipPredicate(accessor, criterion, true), nil

	case OpNotIn:
		return membershipPredicate(accessor, criterion, false), nil

	case OpBetween:
		return func(obj T) (bool, error) {
			fieldValue, err := accessor.Read(obj, field)
			if err != nil {
				return false, err
			}

			lowCmp, err := Compare(fieldValue, values[0], caseSensitive)
			if err != nil {
				return false, &TypeMismatchError{Field: field, Operator: OpBetween, Value: fieldValue}
			}

			if lowCmp < 0 {
				return false, nil
			}

			highCmp, err := Compare(fieldValue, values[1], caseSensitive)
			if err != nil {
				return false, &TypeMismatchError{Field: field, Operator: OpBetween, Value: fieldValue}
			}

			return highCmp <= 0, nil
		}, nil

	case OpContains:
		return textPredicate(accessor, criterion, strings.Contains), nil

	case OpStartsWith:
		return textPredicate(accessor, criterion, strings.HasPrefix), nil

	case OpEndsWith:
		return textPredicate(accessor, criterion, strings.HasSuffix), nil

	case OpIsNull:
		return func(obj T) (bool, error) {
			fieldValue, err := accessor.Read(obj, field)
			if err != nil {
				return false, err
			}

			return isNull(fieldValue), nil
		}, nil

	case OpNotNull:
		return func(obj T) (bool, error) {
			fieldValue, err := accessor.Read(obj, field)
			if err != nil {
				return false, err
			}

			return !isNull(fieldValue), nil
		}, nil
	}

	return nil, &ValidationError{
		QueryIndex: -1,
		Operator:   criterion.Operator(),
		Field:      field,
		Message:    "unknown operator",
	}
}

func comparePredicate[T any](accessor Accessor[T], criterion Criterion, accept func(int) bool) Predicate[T] {
	field := criterion.Field()
	value := criterion.Values()[0]
	caseSensitive := criterion.CaseSensitive()

	return func(obj T) (bool, error) {
		fieldValue, err := accessor.Read(obj, field)
		if err != nil {
			return false, err
		}

		cmp, err := Compare(fieldValue, value, caseSensitive)
		if err != nil {
			return false, &TypeMismatchError{Field: field, Operator: criterion.Operator(), Value: fieldValue}
		}

		return accept(cmp), nil
	}
}

func membershipPredicate[T any](accessor Accessor[T], criterion Criterion, want bool) Predicate[T] {
	field := criterion.Field()
	values := criterion.Values()
	caseSensitive := criterion.CaseSensitive()

	return func(obj T) (bool, error) {
		fieldValue, err := accessor.Read(obj, field)
		if err != nil {
			return false, err
		}

		for _, candidate := range values {
			cmp, err := Compare(fieldValue, candidate, caseSensitive)
			if err != nil {
				return false, &TypeMismatchError{Field: field, Operator: criterion.Operator(), Value: fieldValue}
			}

			if cmp == 0 {
				return want, nil
			}
		}

		return !want, nil
	}
}

func textPredicate[T any](accessor Accessor[T], criterion Criterion, match func(s, substr string) bool) Predicate[T] {
	field := criterion.Field()
	value := criterion.Values()[0].(string)
	caseSensitive := criterion.CaseSensitive()

	if !caseSensitive {
		value = strings.ToLower(value)
	}

	return func(obj T) (bool, error) {
		fieldValue, err := accessor.Read(obj, field)
		if err != nil {
			return false, err
		}

		text, ok := asString(fieldValue)
		if !ok {
			return false, &TypeMismatchError{Field: field, Operator: criterion.Operator(), Value: fieldValue}
		}

		if !caseSensitive {
			text = strings.ToLower(text)
		}

		return match(text, value), nil
	}
}
