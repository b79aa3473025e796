package feed

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"jobmate/board-service/internal/model"
)

// DefaultCacheKey is where CachedSource stores the snapshot.
const DefaultCacheKey = "board:jobs:snapshot"

// CachedSource is a read-through Redis cache in front of another Source so
// several board replicas share one upstream fetch per TTL. Redis failures
// never fail a fetch; they fall through to the upstream source.
type CachedSource struct {
	upstream Source
	rdb      *redis.Client
	key      string
	ttl      time.Duration
}

// NewCachedSource wraps upstream. A non-positive ttl stores entries without expiry.
func NewCachedSource(upstream Source, rdb *redis.Client, ttl time.Duration) *CachedSource {
	if ttl < 0 {
		ttl = 0
	}
	return &CachedSource{upstream: upstream, rdb: rdb, key: DefaultCacheKey, ttl: ttl}
}

// Jobs returns the cached snapshot when present, otherwise fetches from
// upstream and stores the result. Upstream errors are not cached.
func (s *CachedSource) Jobs(ctx context.Context) ([]model.Job, error) {
	raw, err := s.rdb.Get(ctx, s.key).Bytes()
	switch {
	case err == nil:
		var jobs []model.Job
		decErr := json.Unmarshal(raw, &jobs)
		if decErr == nil {
			return jobs, nil
		}
		slog.Warn("discarding undecodable job cache entry", "key", s.key, "err", decErr)
	case !errors.Is(err, redis.Nil):
		slog.Warn("job cache read failed", "key", s.key, "err", err)
	}

	jobs, err := s.upstream.Jobs(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(jobs)
	if err != nil {
		slog.Warn("job cache encode failed", "err", err)
		return jobs, nil
	}
	if err := s.rdb.Set(ctx, s.key, payload, s.ttl).Err(); err != nil {
		slog.Warn("job cache write failed", "key", s.key, "err", err)
	}
	return jobs, nil
}

// Invalidate drops the cached snapshot so the next Jobs call goes upstream.
func (s *CachedSource) Invalidate(ctx context.Context) error {
	return s.rdb.Del(ctx, s.key).Err()
}
