package cache

import (
	"context"
	"testing"
	"time"

	"github.com/segyhp/fund-ledger/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRedis_Success(t *testing.T) {
	s := miniredis.RunT(t)

	c, err := OpenRedis(s.Addr(), "", 2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.Equal(t, 2, c.Options().DB)
}

func TestOpenRedis_Failure(t *testing.T) {
	_, err := OpenRedis("not-a-real-host:6379", "", 0)
	assert.Error(t, err)
}

func newTestCache(t *testing.T) (*RedisSummaryCache, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	c, err := OpenRedis(s.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return NewRedisSummaryCache(c, time.Hour), s
}

func TestRedisSummaryCache(t *testing.T) {
	ctx := context.Background()
	cache, server := newTestCache(t)

	today := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	borrow := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	summaries := []*domain.LoanSummary{{
		ProjectCode:   "E2568_001",
		ExpenseCode:   "X1",
		BorrowDate:    &borrow,
		Amount:        decimal.NewFromInt(1000),
		TotalReturned: decimal.NewFromInt(400),
		Remaining:     decimal.NewFromInt(600),
		Status:        domain.LoanStatusNotYetReturned,
	}}

	_, hit, err := cache.Get(ctx, "E2568_001", today)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.Set(ctx, "E2568_001", today, summaries))
	assert.True(t, server.Exists("advance_summary:E2568_001"))
	assert.Equal(t, time.Hour, server.TTL("advance_summary:E2568_001"))

	got, hit, err := cache.Get(ctx, "E2568_001", today)
	require.NoError(t, err)
	require.True(t, hit)
	require.Len(t, got, 1)
	assert.Equal(t, "X1", got[0].ExpenseCode)
	assert.True(t, got[0].Remaining.Equal(decimal.NewFromInt(600)))
	assert.True(t, borrow.Equal(*got[0].BorrowDate))

	t.Run("stale on the next day", func(t *testing.T) {
		_, hit, err := cache.Get(ctx, "E2568_001", today.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.False(t, hit)
	})

	t.Run("invalidate", func(t *testing.T) {
		require.NoError(t, cache.Invalidate(ctx, "E2568_001"))
		_, hit, err := cache.Get(ctx, "E2568_001", today)
		require.NoError(t, err)
		assert.False(t, hit)
	})
}

func TestRedisSummaryCache_CorruptEntry(t *testing.T) {
	cache, server := newTestCache(t)
	require.NoError(t, server.Set("advance_summary:E2568_001", "not json"))

	_, hit, err := cache.Get(context.Background(), "E2568_001", time.Now())
	assert.Error(t, err)
	assert.False(t, hit)
}

func TestNop(t *testing.T) {
	ctx := context.Background()
	var c SummaryCache = Nop{}

	require.NoError(t, c.Set(ctx, "E2568_001", time.Now(), nil))
	_, hit, err := c.Get(ctx, "E2568_001", time.Now())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, c.Invalidate(ctx, "E2568_001"))
}
