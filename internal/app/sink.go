package app

import (
	"context"
	"log"
	"time"

	"jobpulse/internal/infrastructure/cache"
	"jobpulse/internal/repository"
	"jobpulse/internal/ws"
)

const runReportTTL = 24 * time.Hour

// runSink fans a finished run out to connected clients and keeps the latest
// report per kind in the cache for cheap operator lookups.
type runSink struct {
	hub    *ws.Hub
	redis  *cache.Redis
	logger *log.Logger
}

func (s *runSink) RunFinished(ctx context.Context, rec repository.RunRecord) {
	ws.NotifyRunFinished(s.hub, rec)

	if s.redis == nil {
		return
	}
	key := "runs:latest:" + rec.Kind
	if err := s.redis.SetJSON(ctx, key, rec, runReportTTL); err != nil && s.logger != nil {
		s.logger.Printf("[app] cache run report %s: %v", rec.Kind, err)
	}
}

// runGuard backs the scheduler's cross-instance coordination with redis
// SETNX. With redis down the scheduler falls back to its local flags.
type runGuard struct {
	redis *cache.Redis
}

func (g *runGuard) Acquire(ctx context.Context, kind string, ttl time.Duration) (bool, error) {
	return g.redis.SetIfNotExists(ctx, "runs:guard:"+kind, "1", ttl)
}

func (g *runGuard) Release(ctx context.Context, kind string) {
	_ = g.redis.Delete(ctx, "runs:guard:"+kind)
}
