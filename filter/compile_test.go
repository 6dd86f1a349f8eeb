package filter_test

import (
	"testing"

	"github.com/architeacher/filterkit/filter"
	"github.com/stretchr/testify/require"
)

type user struct {
	Name     string
	Age      int
	IsActive bool
	IsVip    bool
	Email    *string
}

var userAccessor = filter.FuncAccessor[user]{
	"name":     func(u user) any { return u.Name },
	"age":      func(u user) any { return u.Age },
	"isActive": func(u user) any { return u.IsActive },
	"isVip":    func(u user) any { return u.IsVip },
	"email":    func(u user) any { return u.Email },
}

func sampleUsers() []user {
	mail := "dana@example.com"

	return []user{
		{Name: "Alice", Age: 15, IsActive: false},
		{Name: "Bob", Age: 20, IsActive: true},
		{Name: "Carol", Age: 25, IsActive: true},
		{Name: "Dana", Age: 30, IsActive: true, Email: &mail},
		{Name: "Eve", Age: 40, IsActive: false},
	}
}

func matchUsers(t *testing.T, predicate filter.Predicate[user], users []user) []user {
	t.Helper()

	matched := make([]user, 0)
	for _, u := range users {
		ok, err := predicate(u)
		require.NoError(t, err)

		if ok {
			matched = append(matched, u)
		}
	}

	return matched
}

func TestCompile_AdultActiveUsers(t *testing.T) {
	t.Parallel()

	group := filter.NewGroupBuilder().
		Where(filter.Gt("age", 18)).
		AndWhere(filter.Eq("isActive", true)).
		Build()

	predicate, err := filter.Compile(userAccessor, group)
	require.NoError(t, err)

	matched := matchUsers(t, predicate, sampleUsers())
	require.Len(t, matched, 3)
	require.Equal(t, []int{20, 25, 30}, []int{matched[0].Age, matched[1].Age, matched[2].Age})
}

func TestCompile_EqualsCaseInsensitiveByDefault(t *testing.T) {
	t.Parallel()

	predicate, err := filter.Compile(userAccessor, filter.NewGroup(
		filter.NewQuery(filter.Eq("name", "alice"), filter.And),
	))
	require.NoError(t, err)

	matched := matchUsers(t, predicate, sampleUsers())
	require.Len(t, matched, 1)
	require.Equal(t, "Alice", matched[0].Name)
}

func TestCompile_EqualsMatchCase(t *testing.T) {
	t.Parallel()

	predicate, err := filter.Compile(userAccessor, filter.NewGroup(
		filter.NewQuery(filter.Eq("name", "alice").MatchCase(), filter.And),
	))
	require.NoError(t, err)

	require.Empty(t, matchUsers(t, predicate, sampleUsers()))
}

func TestCompile_GroupsJoinedWithOr(t *testing.T) {
	t.Parallel()

	// Group1 = (age >= 18 AND isActive), Group2 = (isVip AND isActive); a
	// young active VIP appears exactly once in the union.
	users := append(sampleUsers(), user{Name: "Kid", Age: 10, IsActive: true, IsVip: true})

	adults := filter.NewGroupBuilder().
		Where(filter.Gte("age", 18)).
		AndWhere(filter.Eq("isActive", true)).
		Build()

	vips := filter.NewGroupBuilder().
		Where(filter.Eq("isVip", true)).
		AndWhere(filter.Eq("isActive", true)).
		JoinWith(filter.Or).
		Build()

	predicate, err := filter.Compile(userAccessor, adults, vips)
	require.NoError(t, err)

	matched := matchUsers(t, predicate, users)
	require.Len(t, matched, 4)

	kids := 0
	for _, u := range matched {
		if u.Name == "Kid" {
			kids++
		}
	}
	require.Equal(t, 1, kids)
}

func TestCompile_BetweenInclusive(t *testing.T) {
	t.Parallel()

	predicate, err := filter.Compile(userAccessor, filter.NewGroup(
		filter.NewQuery(filter.Between("age", 20, 30), filter.And),
	))
	require.NoError(t, err)

	matched := matchUsers(t, predicate, sampleUsers())
	require.Len(t, matched, 3)
}

func TestCompile_BetweenInvertedRangeMatchesNothing(t *testing.T) {
	t.Parallel()

	predicate, err := filter.Compile(userAccessor, filter.NewGroup(
		filter.NewQuery(filter.Between("age", 30, 20), filter.And),
	))
	require.NoError(t, err)

	require.Empty(t, matchUsers(t, predicate, sampleUsers()))
}

func TestCompile_Membership(t *testing.T) {
	t.Parallel()

	in, err := filter.Compile(userAccessor, filter.NewGroup(
		filter.NewQuery(filter.In("age", 20, 40), filter.And),
	))
	require.NoError(t, err)
	require.Len(t, matchUsers(t, in, sampleUsers()), 2)

	notIn, err := filter.Compile(userAccessor, filter.NewGroup(
		filter.NewQuery(filter.NotIn("age", 20, 40), filter.And),
	))
	require.NoError(t, err)
	require.Len(t, matchUsers(t, notIn, sampleUsers()), 3)
}

func TestCompile_TextOperators(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		criterion filter.Criterion
		expected  []string
	}{
		{
			name:      "contains",
			criterion: filter.Contains("name", "ar"),
			expected:  []string{"Carol"},
		},
		{
			name:      "starts with folds case",
			criterion: filter.StartsWith("name", "a"),
			expected:  []string{"Alice"},
		},
		{
			name:      "ends with",
			criterion: filter.EndsWith("name", "b"),
			expected:  []string{"Bob"},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			predicate, err := filter.Compile(userAccessor, filter.NewGroup(
				filter.NewQuery(tc.criterion, filter.And),
			))
			require.NoError(t, err)

			matched := matchUsers(t, predicate, sampleUsers())

			names := make([]string, len(matched))
			for i, u := range matched {
				names[i] = u.Name
			}
			require.Equal(t, tc.expected, names)
		})
	}
}

func TestCompile_TextOperatorOnNumericFieldFails(t *testing.T) {
	t.Parallel()

	predicate, err := filter.Compile(userAccessor, filter.NewGroup(
		filter.NewQuery(filter.Contains("age", "2"), filter.And),
	))
	require.NoError(t, err)

	_, err = predicate(sampleUsers()[0])
	require.ErrorIs(t, err, filter.ErrTypeMismatch)

	var mismatch *filter.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, "age", mismatch.Field)
	require.Equal(t, filter.OpContains, mismatch.Operator)
}

func TestCompile_NullOperators(t *testing.T) {
	t.Parallel()

	isNull, err := filter.Compile(userAccessor, filter.NewGroup(
		filter.NewQuery(filter.IsNull("email"), filter.And),
	))
	require.NoError(t, err)
	require.Len(t, matchUsers(t, isNull, sampleUsers()), 4)

	notNull, err := filter.Compile(userAccessor, filter.NewGroup(
		filter.NewQuery(filter.NotNull("email"), filter.And),
	))
	require.NoError(t, err)

	matched := matchUsers(t, notNull, sampleUsers())
	require.Len(t, matched, 1)
	require.Equal(t, "Dana", matched[0].Name)
}

func TestCompile_EmptyGroupMatchesEverything(t *testing.T) {
	t.Parallel()

	predicate, err := filter.Compile(userAccessor, filter.NewGroup())
	require.NoError(t, err)

	require.Len(t, matchUsers(t, predicate, sampleUsers()), len(sampleUsers()))
}

func TestCompile_FoldingIsOrderIndependent(t *testing.T) {
	t.Parallel()

	forward := filter.NewGroupBuilder().
		Where(filter.Gt("age", 18)).
		AndWhere(filter.Eq("isActive", true)).
		Build()

	reversed := filter.NewGroupBuilder().
		Where(filter.Eq("isActive", true)).
		AndWhere(filter.Gt("age", 18)).
		Build()

	left, err := filter.Compile(userAccessor, forward)
	require.NoError(t, err)

	right, err := filter.Compile(userAccessor, reversed)
	require.NoError(t, err)

	require.Equal(t, matchUsers(t, left, sampleUsers()), matchUsers(t, right, sampleUsers()))
}

func TestCompile_ValidationFailsFast(t *testing.T) {
	t.Parallel()

	_, err := filter.Compile(userAccessor, filter.NewGroup(
		filter.NewQuery(filter.In("age"), filter.And),
	))
	require.ErrorIs(t, err, filter.ErrValidation)
}
