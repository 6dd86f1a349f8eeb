package filter

import (
	"fmt"
	"strings"
)

// Render produces a deterministic, human-readable form of the filter tree,
// for diagnostics only. It is not meant to be parsed back.
func Render(groups ...Group) string {
	if len(groups) == 0 {
		return "*"
	}

	var sb strings.Builder
	for i, group := range groups {
		if i > 0 {
			sb.WriteString(" " + group.Join().String() + " ")
		}

		sb.WriteString(renderGroup(group))
	}

	return sb.String()
}

// Describe renders the filter together with the effective sort and page
// selection, the full query trace for adapters without a native query text.
func Describe(groups []Group, page *Pagination) string {
	var sb strings.Builder
	sb.WriteString("filter: ")
	sb.WriteString(Render(groups...))

	if page != nil && len(page.SortFields) > 0 {
		direction := "ASC"
		if page.Descending {
			direction = "DESC"
		}

		sb.WriteString(" | sort: ")
		for i, field := range page.SortFields {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(field + " " + direction)
		}
	}

	if page != nil && page.Page > 0 {
		fmt.Fprintf(&sb, " | page: %d size: %d", page.Page, page.Size)
	}

	return sb.String()
}

func renderGroup(group Group) string {
	queries := group.Queries()
	if len(queries) == 0 {
		return "(*)"
	}

	var sb strings.Builder
	sb.WriteString("(")
	for i, query := range queries {
		if i > 0 {
			sb.WriteString(" " + query.Join().String() + " ")
		}

		sb.WriteString(renderCriterion(query.Criterion()))
	}
	sb.WriteString(")")

	return sb.String()
}

func renderCriterion(criterion Criterion) string {
	field := criterion.Field()
	values := criterion.Values()

	switch criterion.Operator() {
	case OpEq:
		return fmt.Sprintf("%s = %s", field, renderValue(values[0]))
	case OpNotEq:
		return fmt.Sprintf("%s != %s", field, renderValue(values[0]))
	case OpGt:
		return fmt.Sprintf("%s > %s", field, renderValue(values[0]))
	case OpGte:
		return fmt.Sprintf("%s >= %s", field, renderValue(values[0]))
	case OpLt:
		return fmt.Sprintf("%s < %s", field, renderValue(values[0]))
	case OpLte:
		return fmt.Sprintf("%s <= %s", field, renderValue(values[0]))
	case OpIn:
		return fmt.Sprintf("%s IN %s", field, renderValues(values))
	case OpNotIn:
		return fmt.Sprintf("%s NOT IN %s", field, renderValues(values))
	case OpBetween:
		return fmt.Sprintf("%s BETWEEN %s AND %s", field, renderValue(values[0]), renderValue(values[1]))
	case OpContains:
		return fmt.Sprintf("%s CONTAINS %s", field, renderValue(values[0]))
	case OpStartsWith:
		return fmt.Sprintf("%s STARTS WITH %s", field, renderValue(values[0]))
	case OpEndsWith:
		return fmt.Sprintf("%s ENDS WITH %s", field, renderValue(values[0]))
	case OpIsNull:
		return field + " IS NULL"
	case OpNotNull:
		return field + " IS NOT NULL"
	}

	return fmt.Sprintf("%s %s ?", field, criterion.Operator())
}

func renderValues(values []any) string {
	parts := make([]string, len(values))
	for i, value := range values {
		parts[i] = renderValue(value)
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

func renderValue(value any) string {
	if s, ok := value.(string); ok {
		return fmt.Sprintf("%q", s)
	}

	return fmt.Sprintf("%v", value)
}
