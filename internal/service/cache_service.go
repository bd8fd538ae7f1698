package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-sched-api/internal/dto"
)

// CacheService keeps finished run summaries in Redis so status polling
// does not hit Postgres. Cache failures degrade to database reads.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCacheService builds the run-summary cache.
func NewCacheService(client *redis.Client, ttl time.Duration, logger *zap.Logger) *CacheService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{client: client, ttl: ttl, logger: logger}
}

func runSummaryKey(runID string) string {
	return "sched:run-summary:" + runID
}

// GetRunSummary returns a cached summary when present.
func (s *CacheService) GetRunSummary(ctx context.Context, runID string) (*dto.RunSummary, bool) {
	if s == nil || s.client == nil {
		return nil, false
	}
	raw, err := s.client.Get(ctx, runSummaryKey(runID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("run summary cache read failed", zap.String("run_id", runID), zap.Error(err))
		}
		return nil, false
	}
	var summary dto.RunSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		s.logger.Warn("run summary cache payload corrupt", zap.String("run_id", runID), zap.Error(err))
		return nil, false
	}
	return &summary, true
}

// SetRunSummary stores a summary with the configured TTL.
func (s *CacheService) SetRunSummary(ctx context.Context, summary *dto.RunSummary) {
	if s == nil || s.client == nil || summary == nil {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		s.logger.Warn("run summary cache encode failed", zap.String("run_id", summary.RunID), zap.Error(err))
		return
	}
	if err := s.client.Set(ctx, runSummaryKey(summary.RunID), raw, s.ttl).Err(); err != nil {
		s.logger.Warn("run summary cache write failed", zap.String("run_id", summary.RunID), zap.Error(err))
	}
}
