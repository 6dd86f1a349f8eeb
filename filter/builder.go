package filter

// GroupBuilder assembles a Group through a fluent interface.
//
//	group := filter.NewGroupBuilder().
//		Where(filter.Gt("age", 18)).
//		AndWhere(filter.Eq("isActive", true)).
//		SortBy("age").
//		Paginate(2, 10).
//		Build()
type GroupBuilder struct {
	queries    []Query
	join       Condition
	sortFields []string
	descending bool
	page       uint
	size       uint
}

// NewGroupBuilder returns an empty builder for a group that joins to a
// preceding group with AND.
func NewGroupBuilder() *GroupBuilder {
	return &GroupBuilder{
		queries: make([]Query, 0),
		join:    And,
	}
}

// Where appends a criterion joined to the previous one with AND.
// For the first criterion the join condition is irrelevant.
func (b *GroupBuilder) Where(criterion Criterion) *GroupBuilder {
	return b.AndWhere(criterion)
}

// AndWhere appends a criterion joined with AND.
func (b *GroupBuilder) AndWhere(criterion Criterion) *GroupBuilder {
	b.queries = append(b.queries, NewQuery(criterion, And))

	return b
}

// OrWhere appends a criterion joined with OR.
func (b *GroupBuilder) OrWhere(criterion Criterion) *GroupBuilder {
	b.queries = append(b.queries, NewQuery(criterion, Or))

	return b
}

// SortBy appends sort fields, primary first, then-by fields after.
func (b *GroupBuilder) SortBy(fields ...string) *GroupBuilder {
	b.sortFields = append(b.sortFields, fields...)

	return b
}

// Descending flips the sort direction for all sort fields.
func (b *GroupBuilder) Descending() *GroupBuilder {
	b.descending = true

	return b
}

// Paginate requests one page of the sorted result set.
func (b *GroupBuilder) Paginate(page, size uint) *GroupBuilder {
	b.page = page
	b.size = size

	return b
}

// JoinWith sets the condition combining this group with the preceding group
// in a group list. Ignored for the first group.
func (b *GroupBuilder) JoinWith(join Condition) *GroupBuilder {
	b.join = join

	return b
}

// Build materializes the group. The builder may be reused afterwards; the
// returned group holds its own copies.
func (b *GroupBuilder) Build() Group {
	group := Group{
		queries: append([]Query(nil), b.queries...),
		join:    b.join,
	}

	if b.page > 0 || b.size > 0 || len(b.sortFields) > 0 {
		group.page = &Pagination{
			Page:       b.page,
			Size:       b.size,
			SortFields: append([]string(nil), b.sortFields...),
			Descending: b.descending,
		}
	}

	return group
}
