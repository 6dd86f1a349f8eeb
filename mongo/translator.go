// Package mongo lowers filter groups to MongoDB queries and executes them
// with the official driver. Filtering, sorting, and pagination are pushed
// down; totals come from a native CountDocuments.
package mongo

import (
	"fmt"
	"regexp"

	"github.com/architeacher/filterkit/filter"
	"github.com/architeacher/filterkit/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Translator lowers the filter model to BSON documents using a field-name to
// document-key mapping. It emits bson.D throughout so the rendered query
// trace is deterministic.
type Translator struct {
	keys   map[string]string
	logger logger.Logger
}

// NewTranslator builds a translator over the given field→key mapping.
func NewTranslator(keys map[string]string, log logger.Logger) *Translator {
	return &Translator{keys: keys, logger: log}
}

// Predicate folds the groups into a single BSON filter document. Empty input
// compiles to the match-everything document.
func (t *Translator) Predicate(groups []filter.Group) (bson.D, error) {
	if len(groups) == 0 {
		return bson.D{}, nil
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

		acc = joinDocs(acc, next, group.Join())
	}

	return acc, nil
}

func (t *Translator) groupPredicate(group filter.Group) (bson.D, error) {
	queries := group.Queries()
	if len(queries) == 0 {
		return bson.D{}, nil
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

		acc = joinDocs(acc, next, query.Join())
	}

	return acc, nil
}

func joinDocs(a, b bson.D, join filter.Condition) bson.D {
	op := "$and"
	if join == filter.Or {
		op = "$or"
	}

	return bson.D{{Key: op, Value: bson.A{a, b}}}
}

func (t *Translator) criterionPredicate(criterion filter.Criterion) (bson.D, error) {
	key, err := t.key(criterion.Field())
	if err != nil {
		return nil, err
	}

	values := criterion.Values()
	caseSensitive := criterion.CaseSensitive()

	switch criterion.Operator() {
	case filter.OpEq:
		if s, ok := values[0].(string); ok && !caseSensitive {
			return bson.D{{Key: key, Value: exactRegex(s)}}, nil
		}

		return bson.D{{Key: key, Value: values[0]}}, nil

	case filter.OpNotEq:
		if s, ok := values[0].(string); ok && !caseSensitive {
			return bson.D{{Key: key, Value: bson.D{{Key: "$not", Value: exactRegex(s)}}}}, nil
		}

		return bson.D{{Key: key, Value: bson.D{{Key: "$ne", Value: values[0]}}}}, nil

	case filter.OpGt:
		return bson.D{{Key: key, Value: bson.D{{Key: "$gt", Value: values[0]}}}}, nil

	case filter.OpGte:
		return bson.D{{Key: key, Value: bson.D{{Key: "$gte", Value: values[0]}}}}, nil

	case filter.OpLt:
		return bson.D{{Key: key, Value: bson.D{{Key: "$lt", Value: values[0]}}}}, nil

	case filter.OpLte:
		return bson.D{{Key: key, Value: bson.D{{Key: "$lte", Value: values[0]}}}}, nil

	case filter.OpIn:
		return bson.D{{Key: key, Value: bson.D{{Key: "$in", Value: membershipValues(values, caseSensitive)}}}}, nil

	case filter.OpNotIn:
		return bson.D{{Key: key, Value: bson.D{{Key: "$nin", Value: membershipValues(values, caseSensitive)}}}}, nil

	case filter.OpBetween:
		return bson.D{{Key: key, Value: bson.D{
			{Key: "$gte", Value: values[0]},
			{Key: "$lte", Value: values[1]},
		}}}, nil

	case filter.OpContains:
		return bson.D{{Key: key, Value: partialRegex(values[0].(string), "", "", caseSensitive)}}, nil

	case filter.OpStartsWith:
		return bson.D{{Key: key, Value: partialRegex(values[0].(string), "^", "", caseSensitive)}}, nil

	case filter.OpEndsWith:
		return bson.D{{Key: key, Value: partialRegex(values[0].(string), "", "$", caseSensitive)}}, nil

	case filter.OpIsNull:
		return bson.D{{Key: key, Value: bson.D{{Key: "$eq", Value: nil}}}}, nil

	case filter.OpNotNull:
		return bson.D{{Key: key, Value: bson.D{{Key: "$ne", Value: nil}}}}, nil
	}

	return nil, &filter.ValidationError{
		QueryIndex: -1,
		Operator:   criterion.Operator(),
		Field:      criterion.Field(),
		Message:    "unknown operator",
	}
}

func (t *Translator) key(field string) (string, error) {
	if key, ok := t.keys[field]; ok {
		return key, nil
	}

	t.logger.Warn().
		Str("field", field).
		Msg("filter references a field with no document key mapping")

	return "", fmt.Errorf("%w: %q", filter.ErrUnknownField, field)
}

// membershipValues turns string members into case-insensitive exact-match
// regexes when the criterion is case-insensitive; other values pass through.
func membershipValues(values []any, caseSensitive bool) bson.A {
	members := make(bson.A, len(values))
	for i, value := range values {
		if s, ok := value.(string); ok && !caseSensitive {
			members[i] = exactRegex(s)

			continue
		}

		members[i] = value
	}

	return members
}

func exactRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s) + "$", Options: "i"}
}

func partialRegex(s, prefix, suffix string, caseSensitive bool) primitive.Regex {
	options := "i"
	if caseSensitive {
		options = ""
	}

	return primitive.Regex{Pattern: prefix + regexp.QuoteMeta(s) + suffix, Options: options}
}
