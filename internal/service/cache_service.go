package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/jdoner02/cyber-department-schedule-sub000/pkg/errors"
)

const defaultAnalysisTTL = 10 * time.Minute

// CacheRepository is the key/value backend behind analysis results; Redis in production.
// Get reports appErrors.ErrCacheMiss for absent keys.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) (int, error)
}

// CacheService memoizes analysis responses per term. Entries live under
// "analysis:<term>:..." keys and are dropped wholesale when a term's sections change.
// A nil or disabled service behaves as a permanent miss.
type CacheService struct {
	backend CacheRepository
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
	on      bool
}

// NewCacheService wires the analysis cache. A non-positive ttl falls back to ten minutes.
func NewCacheService(backend CacheRepository, metrics *MetricsService, ttl time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if ttl <= 0 {
		ttl = defaultAnalysisTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{backend: backend, metrics: metrics, ttl: ttl, logger: logger.Named("analysis_cache"), on: enabled}
}

// Enabled reports whether results are being memoized.
func (s *CacheService) Enabled() bool {
	return s != nil && s.on && s.backend != nil
}

// Get loads a stored analysis into dest. A miss is (false, nil); a backend error is
// (false, err) and callers recompute.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	began := time.Now()
	err := s.backend.Get(ctx, key, dest)
	s.metrics.RecordCacheOperation(err == nil, time.Since(began))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, appErrors.ErrCacheMiss):
		return false, nil
	default:
		s.logger.Warn("analysis lookup failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
}

// Set stores an analysis result; ttl <= 0 uses the configured lifetime.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = s.ttl
	}
	began := time.Now()
	err := s.backend.Set(ctx, key, value, ttl)
	s.metrics.ObserveCacheWrite(time.Since(began))
	if err != nil {
		s.logger.Warn("analysis store failed", zap.String("key", key), zap.Duration("ttl", ttl), zap.Error(err))
	}
	return err
}

// Invalidate drops every analysis matching pattern, typically analysisCachePattern(term)
// after an import.
func (s *CacheService) Invalidate(ctx context.Context, pattern string) error {
	if !s.Enabled() {
		return nil
	}
	removed, err := s.backend.DeleteByPattern(ctx, pattern)
	if err != nil {
		s.logger.Warn("analysis invalidation failed", zap.String("pattern", pattern), zap.Error(err))
		return err
	}
	s.logger.Debug("analyses invalidated", zap.String("pattern", pattern), zap.Int("removed", removed))
	return nil
}
