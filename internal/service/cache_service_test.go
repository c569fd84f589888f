package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type failingCacheRepo struct{}

func (failingCacheRepo) Get(context.Context, string, interface{}) error {
	return errors.New("redis down")
}

func (failingCacheRepo) Set(context.Context, string, interface{}, time.Duration) error {
	return errors.New("redis down")
}

func (failingCacheRepo) DeleteByPattern(context.Context, string) (int, error) {
	return 0, errors.New("redis down")
}

func TestCacheServiceRoundTrip(t *testing.T) {
	repo := newMemoryCacheRepo()
	metrics := NewMetricsService()
	cache := NewCacheService(repo, metrics, 0, nil, true)
	ctx := context.Background()

	var dest map[string]int
	hit, err := cache.Get(ctx, "analysis:202540:conflicts", &dest)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.Set(ctx, "analysis:202540:conflicts", map[string]int{"total": 3}, 0))
	hit, err = cache.Get(ctx, "analysis:202540:conflicts", &dest)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 3, dest["total"])

	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(1), snapshot.CacheHits)
	assert.Equal(t, uint64(1), snapshot.CacheMisses)
	assert.InDelta(t, 0.5, snapshot.CacheHitRatio, 1e-9)

	require.NoError(t, cache.Invalidate(ctx, "analysis:202540:*"))
	assert.Equal(t, 0, repo.len())
	assert.Equal(t, []string{"analysis:202540:*"}, repo.invalidated)
}

func TestCacheServiceDisabled(t *testing.T) {
	repo := newMemoryCacheRepo()
	cache := NewCacheService(repo, nil, time.Minute, nil, false)
	ctx := context.Background()

	assert.False(t, cache.Enabled())
	require.NoError(t, cache.Set(ctx, "k", 1, 0))
	assert.Equal(t, 0, repo.len())

	var dest int
	hit, err := cache.Get(ctx, "k", &dest)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheServiceBackendFailures(t *testing.T) {
	cache := NewCacheService(failingCacheRepo{}, nil, time.Minute, nil, true)
	ctx := context.Background()

	var dest int
	hit, err := cache.Get(ctx, "k", &dest)
	assert.Error(t, err)
	assert.False(t, hit)
	assert.Error(t, cache.Set(ctx, "k", 1, 0))
	assert.Error(t, cache.Invalidate(ctx, "k*"))
}

func TestCacheServiceLogsAnalysisFailures(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cache := NewCacheService(failingCacheRepo{}, nil, 0, zap.New(core), true)
	ctx := context.Background()

	var dest int
	_, _ = cache.Get(ctx, "analysis:202640:conflicts", &dest)
	_ = cache.Set(ctx, "analysis:202640:conflicts", 1, 0)
	_ = cache.Invalidate(ctx, "analysis:202640:*")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "analysis lookup failed", entries[0].Message)
	assert.Equal(t, "analysis_cache", entries[0].LoggerName)
	assert.Equal(t, "analysis store failed", entries[1].Message)
	assert.Equal(t, defaultAnalysisTTL, entries[1].ContextMap()["ttl"])
	assert.Equal(t, "analysis invalidation failed", entries[2].Message)
	assert.Equal(t, "analysis:202640:*", entries[2].ContextMap()["pattern"])
}
