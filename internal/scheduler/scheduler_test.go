package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"jobmate/board-service/internal/board"
	"jobmate/board-service/internal/model"
	"jobmate/board-service/internal/scheduler"
)

type countingSource struct{ calls atomic.Int32 }

func (s *countingSource) Jobs(context.Context) ([]model.Job, error) {
	s.calls.Add(1)
	return []model.Job{{ID: "a", Location: "Goa", JobType: "Contract"}}, nil
}

type fakeCache struct {
	invalidations atomic.Int32
	err           error
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.invalidations.Add(1)
	return c.err
}

func TestRunOnce_InvalidatesThenRefreshes(t *testing.T) {
	src := &countingSource{}
	b := board.New(src)
	cache := &fakeCache{}
	s := scheduler.New(b, cache, time.Hour)

	s.RunOnce(context.Background(), true)
	if cache.invalidations.Load() != 1 || src.calls.Load() != 1 {
		t.Errorf("invalidations=%d fetches=%d, want 1/1", cache.invalidations.Load(), src.calls.Load())
	}
	if len(b.Snapshot().Jobs) != 1 {
		t.Error("board not refreshed")
	}
}

func TestRunOnce_CacheErrorStillRefreshes(t *testing.T) {
	src := &countingSource{}
	s := scheduler.New(board.New(src), &fakeCache{err: errors.New("redis down")}, time.Hour)
	s.RunOnce(context.Background(), true)
	if src.calls.Load() != 1 {
		t.Errorf("fetches = %d, want 1", src.calls.Load())
	}
}

func TestRunOnce_NilCache(t *testing.T) {
	src := &countingSource{}
	s := scheduler.New(board.New(src), nil, time.Hour)
	s.RunOnce(context.Background(), true)
	if src.calls.Load() != 1 {
		t.Errorf("fetches = %d, want 1", src.calls.Load())
	}
}

func TestStart_RefreshesImmediately(t *testing.T) {
	src := &countingSource{}
	cache := &fakeCache{}
	s := scheduler.New(board.New(src), cache, time.Hour)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for src.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if src.calls.Load() == 0 {
		t.Fatal("Start did not trigger an initial refresh")
	}
	if cache.invalidations.Load() != 0 {
		t.Error("initial refresh should reuse the cache")
	}
}
