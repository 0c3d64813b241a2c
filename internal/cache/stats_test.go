package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hetulpatel/stackseed/internal/models"
)

func setupStats(t *testing.T) (StatsCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cache, err := NewRedisStatsCache(mr.Addr(), "", 0, time.Hour, "test")
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache, mr
}

func TestNewRedisStatsCache_RequiresAddr(t *testing.T) {
	_, err := NewRedisStatsCache("", "", 0, 0, "")
	assert.Error(t, err)
}

func TestStatsCache_Record(t *testing.T) {
	cache, mr := setupStats(t)
	ctx := context.Background()

	subs := []models.Submission{
		{RunID: "r1", Kind: models.KindUser, Line: 1, StatusCode: 200},
		{RunID: "r1", Kind: models.KindUser, Line: 2, StatusCode: 400},
		{RunID: "r1", Kind: models.KindUser, Line: 3, StatusCode: 200},
		{RunID: "r2", Kind: models.KindVerify, Line: 1, StatusCode: 200},
	}
	for _, s := range subs {
		require.NoError(t, cache.Record(ctx, s))
	}

	users, err := cache.Counts(ctx, models.KindUser)
	require.NoError(t, err)
	assert.Equal(t, int64(3), users.Sent)
	assert.Equal(t, map[int]int64{200: 2, 400: 1}, users.ByStatus)

	run, err := cache.RunCounts(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), run["sent"])
	assert.Equal(t, int64(2), run["status:200"])
	assert.Equal(t, int64(1), run["status:400"])
	assert.Equal(t, int64(3), run["last_line"])

	assert.True(t, mr.Exists("test:run:r1"))
	assert.Equal(t, time.Hour, mr.TTL("test:run:r1"))
	assert.Equal(t, time.Duration(0), mr.TTL("test:user:sent"))
}

func TestStatsCache_EmptyCounts(t *testing.T) {
	cache, _ := setupStats(t)

	counts, err := cache.Counts(context.Background(), models.KindQuestion)
	require.NoError(t, err)
	assert.Equal(t, int64(0), counts.Sent)
	assert.Empty(t, counts.ByStatus)
}

func TestStatsCache_Unavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	cache, err := NewRedisStatsCache(addr, "", 0, time.Hour, "test")
	require.NoError(t, err)
	defer cache.Close()

	err = cache.Record(context.Background(), models.Submission{RunID: "r", Kind: models.KindUser, StatusCode: 200})
	assert.Error(t, err)
}

func TestStatsCache_Ping(t *testing.T) {
	cache, _ := setupStats(t)
	assert.NoError(t, cache.Ping(context.Background()))
}

func TestStatsCache_PingUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	cache, err := NewRedisStatsCache(addr, "", 0, time.Hour, "test")
	require.NoError(t, err)
	defer cache.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.Error(t, cache.Ping(ctx))
}
