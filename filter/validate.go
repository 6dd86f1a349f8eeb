package filter

import "fmt"

// Validate checks every group for arity violations, empty field names, and
// inconsistent pagination specs. It fails fast on the first violation, before
// any compilation or execution takes place.
func Validate(groups ...Group) error {
	for groupIndex, group := range groups {
		for queryIndex, query := range group.Queries() {
			criterion := query.Criterion()

			if criterion.Field() == "" {
				return &ValidationError{
					GroupIndex: groupIndex,
					QueryIndex: queryIndex,
					Operator:   criterion.Operator(),
					Message:    "empty field name",
				}
			}

			if !criterion.Operator().Valid() {
				return &ValidationError{
					GroupIndex: groupIndex,
					QueryIndex: queryIndex,
					Operator:   criterion.Operator(),
					Field:      criterion.Field(),
					Message:    "unknown operator",
				}
			}

			if !criterion.Operator().AcceptsValues(len(criterion.Values())) {
				return &ValidationError{
					GroupIndex: groupIndex,
					QueryIndex: queryIndex,
					Operator:   criterion.Operator(),
					Field:      criterion.Field(),
					Message:    fmt.Sprintf("operator %s does not accept %d value(s)", criterion.Operator(), len(criterion.Values())),
				}
			}

			if criterion.Operator().Textual() {
				if _, ok := criterion.Values()[0].(string); !ok {
					return &TypeMismatchError{
						Field:    criterion.Field(),
						Operator: criterion.Operator(),
						Value:    criterion.Values()[0],
					}
				}
			}
		}

		if err := validatePagination(groupIndex, group.Pagination()); err != nil {
			return err
		}
	}

	return nil
}

func validatePagination(groupIndex int, page *Pagination) error {
	if page == nil {
		return nil
	}

	// Page and Size must both be set or both be zero; sort-only specs are
	// fine either way.
	if (page.Page == 0) != (page.Size == 0) {
		return &ValidationError{
			GroupIndex: groupIndex,
			QueryIndex: -1,
			Message:    fmt.Sprintf("page number and page size must both be set, got page=%d size=%d", page.Page, page.Size),
		}
	}

	for _, field := range page.SortFields {
		if field == "" {
			return &ValidationError{
				GroupIndex: groupIndex,
				QueryIndex: -1,
				Message:    "empty sort field name",
			}
		}
	}

	return nil
}
