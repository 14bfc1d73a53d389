package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matte/internal/common/logger"
	"matte/internal/models"
)

type countingQuerier struct {
	calls int
	agg   *models.Aggregate
	err   error
}

func (q *countingQuerier) Query(ctx context.Context, intent models.Intent, p models.QueryParams) (*models.Aggregate, error) {
	q.calls++
	return q.agg, q.err
}

func params() models.QueryParams {
	return models.QueryParams{
		CompanyID: "co_1",
		Limit:     10,
		Range: models.DateRange{
			Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestStore_ReadThrough(t *testing.T) {
	mr, client := setupMiniredis(t)
	next := &countingQuerier{agg: &models.Aggregate{Count: 2, TotalCents: 90000, Rows: []models.Row{{Label: "Smith"}, {Label: "Jones"}}}}
	store := New(next, client, time.Minute, logger.NewTestLogger(t))

	first, err := store.Query(context.Background(), models.IntentRevenueLastMonth, params())
	require.NoError(t, err)
	second, err := store.Query(context.Background(), models.IntentRevenueLastMonth, params())
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first, second)

	key := Key(models.IntentRevenueLastMonth, params())
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))

	mr.FastForward(2 * time.Minute)
	_, err = store.Query(context.Background(), models.IntentRevenueLastMonth, params())
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestStore_TenantsDoNotShareEntries(t *testing.T) {
	_, client := setupMiniredis(t)
	next := &countingQuerier{agg: &models.Aggregate{Count: 5}}
	store := New(next, client, time.Minute, logger.NewNoOpLogger())

	other := params()
	other.CompanyID = "co_2"

	_, _ = store.Query(context.Background(), models.IntentTotalJobs, params())
	_, _ = store.Query(context.Background(), models.IntentTotalJobs, other)
	assert.Equal(t, 2, next.calls)
}

func TestStore_SkipsEmptyAndFailedResults(t *testing.T) {
	mr, client := setupMiniredis(t)

	empty := &countingQuerier{agg: &models.Aggregate{}}
	store := New(empty, client, time.Minute, logger.NewNoOpLogger())
	_, err := store.Query(context.Background(), models.IntentTotalJobs, params())
	require.NoError(t, err)
	assert.Empty(t, mr.Keys())

	failing := &countingQuerier{err: errors.New("db down")}
	store = New(failing, client, time.Minute, logger.NewNoOpLogger())
	_, err = store.Query(context.Background(), models.IntentTotalJobs, params())
	assert.EqualError(t, err, "db down")
	assert.Empty(t, mr.Keys())
}

func TestStore_DisabledPassesThrough(t *testing.T) {
	next := &countingQuerier{agg: &models.Aggregate{Count: 1}}

	store := New(next, nil, time.Minute, logger.NewNoOpLogger())
	_, _ = store.Query(context.Background(), models.IntentTotalJobs, params())
	_, _ = store.Query(context.Background(), models.IntentTotalJobs, params())
	assert.Equal(t, 2, next.calls)

	_, client := setupMiniredis(t)
	store = New(next, client, 0, logger.NewNoOpLogger())
	_, _ = store.Query(context.Background(), models.IntentTotalJobs, params())
	assert.Equal(t, 3, next.calls)
}

func TestStore_RedisErrorsFallThrough(t *testing.T) {
	client, mock := redismock.NewClientMock()
	next := &countingQuerier{agg: &models.Aggregate{Count: 3}}
	store := New(next, client, time.Minute, logger.NewNoOpLogger())
	key := Key(models.IntentTotalCustomers, params())

	mock.ExpectGet(key).SetErr(errors.New("connection refused"))
	mock.Regexp().ExpectSet(key, `.*`, time.Minute).SetErr(errors.New("connection refused"))

	agg, err := store.Query(context.Background(), models.IntentTotalCustomers, params())
	require.NoError(t, err)
	assert.Equal(t, 3, agg.Count)
	assert.Equal(t, 1, next.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_CorruptEntryIsRequeried(t *testing.T) {
	mr, client := setupMiniredis(t)
	next := &countingQuerier{agg: &models.Aggregate{Count: 4}}
	store := New(next, client, time.Minute, logger.NewNoOpLogger())

	key := Key(models.IntentTotalJobs, params())
	require.NoError(t, mr.Set(key, "{not json"))

	agg, err := store.Query(context.Background(), models.IntentTotalJobs, params())
	require.NoError(t, err)
	assert.Equal(t, 4, agg.Count)
	assert.Equal(t, 1, next.calls)
}

func TestKey(t *testing.T) {
	p := params()
	p.Subject = "Smith"

	assert.Equal(t, "matte:q:co_1:ESTIMATE_LOOKUP:smith::1709251200:1711929600:10", Key(models.IntentEstimateLookup, p))

	lower := p
	lower.Subject = "smith"
	assert.Equal(t, Key(models.IntentEstimateLookup, p), Key(models.IntentEstimateLookup, lower))

	unpaid := p
	unpaid.Relationship = models.RelationshipUnpaid
	assert.NotEqual(t, Key(models.IntentInvoiceLookup, p), Key(models.IntentInvoiceLookup, unpaid))

	early, late := params(), params()
	early.Now = time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)
	late.Now = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	assert.NotEqual(t, Key(models.IntentOverdueInvoices, early), Key(models.IntentOverdueInvoices, late))
	assert.Equal(t, Key(models.IntentTotalJobs, early), Key(models.IntentTotalJobs, late))
}
