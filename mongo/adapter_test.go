package mongo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/architeacher/filterkit"
	"github.com/architeacher/filterkit/filter"
	"github.com/architeacher/filterkit/mongo"
	"github.com/architeacher/filterkit/pkg/logger"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	mdriver "go.mongodb.org/mongo-driver/mongo"
	mopt "go.mongodb.org/mongo-driver/mongo/options"
)

type userDoc struct {
	Name     string `bson:"name"`
	Age      int    `bson:"age"`
	IsActive bool   `bson:"is_active"`
}

type stubCollection struct {
	docs     []any
	total    int64
	countErr error
	findErr  error

	gotCountFilter any
	gotFindFilter  any
	gotFindOpts    *mopt.FindOptions
	findCalls      int
	countCalls     int
}

func (c *stubCollection) Find(_ context.Context, filter any, opts ...*mopt.FindOptions) (*mdriver.Cursor, error) {
	c.findCalls++
	c.gotFindFilter = filter

	if len(opts) > 0 {
		c.gotFindOpts = opts[0]
	}

	if c.findErr != nil {
		return nil, c.findErr
	}

	return mdriver.NewCursorFromDocuments(c.docs, nil, nil)
}

func (c *stubCollection) CountDocuments(_ context.Context, filter any, _ ...*mopt.CountOptions) (int64, error) {
	c.countCalls++
	c.gotCountFilter = filter

	if c.countErr != nil {
		return 0, c.countErr
	}

	return c.total, nil
}

var userElem = filterkit.Element("user", "record")

func newAdapter(coll *stubCollection) *mongo.Adapter[userDoc] {
	return mongo.NewAdapter[userDoc](coll, newTranslator(), userElem, logger.NewTestLogger())
}

func TestAdapter_AppliesFilterWithPagination(t *testing.T) {
	t.Parallel()

	coll := &stubCollection{
		docs: []any{
			userDoc{Name: "Bob", Age: 25, IsActive: true},
			userDoc{Name: "Dave", Age: 41, IsActive: true},
		},
		total: 5,
	}
	adapter := newAdapter(coll)

	group := filter.NewGroupBuilder().
		Where(filter.Gt("age", 18)).
		SortBy("age").
		Paginate(2, 2).
		Build()

	result, err := adapter.ApplyFilter(context.Background(), group)
	require.NoError(t, err)

	require.Equal(t, []userDoc{
		{Name: "Bob", Age: 25, IsActive: true},
		{Name: "Dave", Age: 41, IsActive: true},
	}, result.Items)
	require.Equal(t, uint(5), result.TotalItems)
	require.Equal(t, uint(2), result.Page)
	require.Equal(t, uint(2), result.Size)
	require.Equal(t, uint(3), result.TotalPages())
	require.Contains(t, result.QueryTrace, "mongo: ")

	expected := bson.D{{Key: "age", Value: bson.D{{Key: "$gt", Value: 18}}}}
	require.Equal(t, expected, coll.gotCountFilter)
	require.Equal(t, expected, coll.gotFindFilter)

	require.NotNil(t, coll.gotFindOpts)
	require.Equal(t, int64(2), *coll.gotFindOpts.Skip)
	require.Equal(t, int64(2), *coll.gotFindOpts.Limit)
	require.Equal(t, bson.D{{Key: "age", Value: 1}}, coll.gotFindOpts.Sort)
}

func TestAdapter_DescendingSort(t *testing.T) {
	t.Parallel()

	coll := &stubCollection{total: 1}
	adapter := newAdapter(coll)

	group := filter.NewGroupBuilder().
		Where(filter.NotNull("name")).
		SortBy("age", "name").
		Descending().
		Build()

	_, err := adapter.ApplyFilter(context.Background(), group)
	require.NoError(t, err)

	require.Equal(t, bson.D{
		{Key: "age", Value: -1},
		{Key: "name", Value: -1},
	}, coll.gotFindOpts.Sort)
}

func TestAdapter_UnpaginatedResultIsSinglePage(t *testing.T) {
	t.Parallel()

	coll := &stubCollection{
		docs:  []any{userDoc{Name: "Bob", Age: 25}},
		total: 1,
	}
	adapter := newAdapter(coll)

	group := filter.NewGroupBuilder().
		Where(filter.Eq("name", "Bob")).
		Build()

	result, err := adapter.ApplyFilter(context.Background(), group)
	require.NoError(t, err)

	require.Equal(t, uint(1), result.Page)
	require.Equal(t, uint(1), result.Size)
	require.Equal(t, uint(1), result.TotalPages())
}

func TestAdapter_CountErrorWrapsBackendExecution(t *testing.T) {
	t.Parallel()

	coll := &stubCollection{countErr: errors.New("boom")}
	adapter := newAdapter(coll)

	group := filter.NewGroupBuilder().
		Where(filter.Eq("name", "Bob")).
		Build()

	_, err := adapter.ApplyFilter(context.Background(), group)
	require.ErrorIs(t, err, filterkit.ErrBackendExecution)
	require.Zero(t, coll.findCalls)
}

func TestAdapter_FindErrorWrapsBackendExecution(t *testing.T) {
	t.Parallel()

	coll := &stubCollection{findErr: errors.New("boom")}
	adapter := newAdapter(coll)

	group := filter.NewGroupBuilder().
		Where(filter.Eq("name", "Bob")).
		Build()

	_, err := adapter.ApplyFilter(context.Background(), group)
	require.ErrorIs(t, err, filterkit.ErrBackendExecution)
}

func TestAdapter_CancelledContext(t *testing.T) {
	t.Parallel()

	coll := &stubCollection{}
	adapter := newAdapter(coll)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	group := filter.NewGroupBuilder().
		Where(filter.Eq("name", "Bob")).
		Build()

	_, err := adapter.ApplyFilter(ctx, group)
	require.ErrorIs(t, err, filterkit.ErrCancelled)
	require.Zero(t, coll.countCalls)
}

func TestAdapter_ValidatesBeforeQuerying(t *testing.T) {
	t.Parallel()

	coll := &stubCollection{}
	adapter := newAdapter(coll)

	group := filter.NewGroupBuilder().
		Where(filter.In("age")).
		Build()

	_, err := adapter.ApplyFilter(context.Background(), group)
	require.ErrorIs(t, err, filter.ErrValidation)
	require.Zero(t, coll.countCalls)
}

func TestAdapter_CanHandle(t *testing.T) {
	t.Parallel()

	adapter := newAdapter(&stubCollection{})

	require.True(t, adapter.CanHandle(filterkit.Element("user")))
	require.True(t, adapter.CanHandle(filterkit.Element("admin", "user")))
	require.False(t, adapter.CanHandle(filterkit.Element("order")))
}
