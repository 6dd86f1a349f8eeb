package postgres_test

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/architeacher/filterkit/filter"
	"github.com/architeacher/filterkit/pkg/logger"
	"github.com/architeacher/filterkit/postgres"
	"github.com/stretchr/testify/require"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var userColumns = map[string]string{
	"id":        "id",
	"name":      "name",
	"age":       "age",
	"isActive":  "is_active",
	"createdAt": "created_at",
}

func newTranslator() *postgres.Translator {
	return postgres.NewTranslator(userColumns, logger.NewTestLogger())
}

func translateToSQL(t *testing.T, groups ...filter.Group) (string, []any) {
	t.Helper()

	where, err := newTranslator().Predicate(groups)
	require.NoError(t, err)

	sql, args, err := psql.Select("*").From("users").Where(where).ToSql()
	require.NoError(t, err)

	return sql, args
}

func TestTranslator_Comparison(t *testing.T) {
	t.Parallel()

	group := filter.NewGroupBuilder().
		Where(filter.Gt("age", 18)).
		Build()

	sql, args := translateToSQL(t, group)

	require.Contains(t, sql, "age > $1")
	require.Equal(t, []any{18}, args)
}

func TestTranslator_CaseInsensitiveEquality(t *testing.T) {
	t.Parallel()

	group := filter.NewGroupBuilder().
		Where(filter.Eq("name", "Alice")).
		Build()

	sql, args := translateToSQL(t, group)

	require.Contains(t, sql, "LOWER(name) = $1")
	require.Equal(t, []any{"alice"}, args)
}

func TestTranslator_CaseSensitiveEquality(t *testing.T) {
	t.Parallel()

	group := filter.NewGroupBuilder().
		Where(filter.Eq("name", "Alice").MatchCase()).
		Build()

	sql, args := translateToSQL(t, group)

	require.Contains(t, sql, "name = $1")
	require.NotContains(t, sql, "LOWER")
	require.Equal(t, []any{"Alice"}, args)
}

func TestTranslator_AndOrFolding(t *testing.T) {
	t.Parallel()

	group := filter.NewGroupBuilder().
		Where(filter.Gt("age", 18)).
		AndWhere(filter.Eq("isActive", true)).
		OrWhere(filter.Lt("age", 10)).
		Build()

	sql, args := translateToSQL(t, group)

	require.Contains(t, sql, "((age > $1 AND is_active = $2) OR age < $3)")
	require.Equal(t, []any{18, true, 10}, args)
}

func TestTranslator_GroupJoin(t *testing.T) {
	t.Parallel()

	adults := filter.NewGroupBuilder().
		Where(filter.Gte("age", 18)).
		Build()

	active := filter.NewGroupBuilder().
		Where(filter.Eq("isActive", true)).
		JoinWith(filter.Or).
		Build()

	sql, args := translateToSQL(t, adults, active)

	require.Contains(t, sql, "(age >= $1 OR is_active = $2)")
	require.Equal(t, []any{18, true}, args)
}

func TestTranslator_Membership(t *testing.T) {
	t.Parallel()

	group := filter.NewGroupBuilder().
		Where(filter.In("age", 20, 40)).
		Build()

	sql, args := translateToSQL(t, group)

	require.Contains(t, sql, "age IN ($1,$2)")
	require.Equal(t, []any{20, 40}, args)
}

func TestTranslator_CaseInsensitiveMembership(t *testing.T) {
	t.Parallel()

	group := filter.NewGroupBuilder().
		Where(filter.In("name", "Alice", "Bob")).
		Build()

	sql, args := translateToSQL(t, group)

	require.Contains(t, sql, "LOWER(name) = ANY($1)")
	require.Equal(t, []any{[]string{"alice", "bob"}}, args)
}

func TestTranslator_Between(t *testing.T) {
	t.Parallel()

	group := filter.NewGroupBuilder().
		Where(filter.Between("age", 18, 30)).
		Build()

	sql, args := translateToSQL(t, group)

	require.Contains(t, sql, "(age >= $1 AND age <= $2)")
	require.Equal(t, []any{18, 30}, args)
}

func TestTranslator_TextOperators(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		criterion   filter.Criterion
		expectedSQL string
		expectedArg string
	}{
		{
			name:        "contains is ILIKE by default",
			criterion:   filter.Contains("name", "Pro"),
			expectedSQL: "name ILIKE $1",
			expectedArg: "%Pro%",
		},
		{
			name:        "starts with",
			criterion:   filter.StartsWith("name", "A"),
			expectedSQL: "name ILIKE $1",
			expectedArg: "A%",
		},
		{
			name:        "ends with match case uses LIKE",
			criterion:   filter.EndsWith("name", "b").MatchCase(),
			expectedSQL: "name LIKE $1",
			expectedArg: "%b",
		},
		{
			name:        "wildcards are escaped",
			criterion:   filter.Contains("name", "50%_off"),
			expectedSQL: "name ILIKE $1",
			expectedArg: `%50\%\_off%`,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			group := filter.NewGroup(filter.NewQuery(tc.criterion, filter.And))
			sql, args := translateToSQL(t, group)

			require.Contains(t, sql, tc.expectedSQL)
			require.Equal(t, []any{tc.expectedArg}, args)
		})
	}
}

func TestTranslator_NullOperators(t *testing.T) {
	t.Parallel()

	group := filter.NewGroupBuilder().
		Where(filter.IsNull("createdAt")).
		OrWhere(filter.NotNull("name")).
		Build()

	sql, _ := translateToSQL(t, group)

	require.Contains(t, sql, "created_at IS NULL")
	require.Contains(t, sql, "name IS NOT NULL")
}

func TestTranslator_EmptyGroupIsTrue(t *testing.T) {
	t.Parallel()

	sql, _ := translateToSQL(t, filter.NewGroup())

	require.Contains(t, sql, "WHERE TRUE")
}

func TestTranslator_UnknownFieldFails(t *testing.T) {
	t.Parallel()

	group := filter.NewGroupBuilder().
		Where(filter.Eq("salary", 100)).
		Build()

	_, err := newTranslator().Predicate([]filter.Group{group})
	require.ErrorIs(t, err, filter.ErrUnknownField)
}

func TestTranslator_ApplySort(t *testing.T) {
	t.Parallel()

	page := &filter.Pagination{SortFields: []string{"age", "name"}, Descending: true}

	builder, err := newTranslator().ApplySort(psql.Select("*").From("users"), page)
	require.NoError(t, err)

	sql, _, err := builder.ToSql()
	require.NoError(t, err)
	require.Contains(t, sql, "ORDER BY age DESC, name DESC")
}
