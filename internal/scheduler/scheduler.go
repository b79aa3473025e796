// Package scheduler wires up the cron job that periodically re-fetches the
// job collection into the board.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"jobmate/board-service/internal/board"
)

// Invalidator drops a cached snapshot before a scheduled refresh.
// feed.CachedSource satisfies it.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Scheduler wraps robfig/cron and manages the refresh loop.
type Scheduler struct {
	cron  *cron.Cron
	board *board.Board
	cache Invalidator // optional
	spec  string      // cron spec, e.g. "@every 15m"
}

// New creates a Scheduler that refreshes b every interval. cache may be nil.
func New(b *board.Board, cache Invalidator, interval time.Duration) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		board: b,
		cache: cache,
		spec:  fmt.Sprintf("@every %s", interval),
	}
}

// Start registers the job and starts the scheduler. Also refreshes once
// immediately so the board is populated without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.RunOnce(ctx, true)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started (spec %s)", s.spec)

	// The cache is left alone on the first run so a warm replica's snapshot is reused.
	go s.RunOnce(ctx, false)

	return nil
}

// Stop shuts down the scheduler and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Println("[scheduler] Cron stopped")
}

// RunOnce performs one refresh, optionally dropping the cached snapshot first.
func (s *Scheduler) RunOnce(ctx context.Context, invalidate bool) {
	if invalidate && s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			log.Printf("[scheduler] cache invalidate error: %v", err)
		}
	}

	err := s.board.Refresh(ctx)
	switch {
	case err == nil:
		log.Printf("[scheduler] Refresh complete: %d job(s)", len(s.board.Snapshot().Jobs))
	case errors.Is(err, board.ErrStale), errors.Is(err, board.ErrClosed):
		log.Printf("[scheduler] Refresh discarded: %v", err)
	default:
		log.Printf("[scheduler] Refresh failed: %v", err)
	}
}
