// Package board owns one fetched job collection and serves filtered views of it.
//
// A Board replaces its snapshot atomically on every Refresh, so a reader sees
// either the previous collection or the new one with matching option sets,
// never a mix. Sessions pair the shared Board with one user's filter state.
package board

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"jobmate/board-service/internal/feed"
	"jobmate/board-service/internal/filter"
	"jobmate/board-service/internal/model"
)

// FetchErrorMessage is the user-visible text shown instead of the list when
// the collection could not be fetched.
const FetchErrorMessage = "Failed to fetch jobs"

// ErrClosed is returned by Refresh once the board has been closed.
var ErrClosed = errors.New("board closed")

// ErrStale is returned by Refresh when a newer refresh started while this one
// was in flight; its result was discarded.
var ErrStale = errors.New("refresh superseded by a newer one")

// Snapshot is one installed collection with the option sets derived from it.
type Snapshot struct {
	Jobs      []model.Job
	Locations []string
	JobTypes  []string
	Err       string // user-visible fetch error; empty on success
	FetchedAt time.Time
}

// Result is the outcome of a query against the current snapshot.
type Result struct {
	Visible   []model.Job
	Locations []string
	JobTypes  []string
	Err       string
	Filtered  bool // the query state differs from filter.DefaultState
}

// Board holds the current snapshot. It is safe for concurrent use.
type Board struct {
	src feed.Source
	now func() time.Time

	mu     sync.RWMutex
	snap   Snapshot
	seq    uint64 // id of the most recently started refresh
	closed bool
}

// New returns a Board with an empty snapshot. Call Refresh to load it.
func New(src feed.Source) *Board {
	return &Board{
		src: src,
		now: time.Now,
		snap: Snapshot{
			Jobs:      []model.Job{},
			Locations: []string{},
			JobTypes:  []string{},
		},
	}
}

// Refresh fetches the collection and installs it. On fetch failure an empty
// collection is installed with FetchErrorMessage and the cause is returned.
// A refresh overtaken by a newer one, finishing after Close, or abandoned by
// its caller through ctx leaves the snapshot untouched.
func (b *Board) Refresh(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	b.seq++
	id := b.seq
	b.mu.Unlock()

	jobs, fetchErr := b.src.Jobs(ctx)
	if fetchErr != nil && ctx.Err() != nil {
		return fetchErr
	}

	next := Snapshot{FetchedAt: b.now()}
	if fetchErr != nil {
		next.Jobs = []model.Job{}
		next.Err = FetchErrorMessage
	} else {
		next.Jobs = jobs
	}
	next.Locations = filter.Locations(next.Jobs)
	next.JobTypes = filter.JobTypes(next.Jobs)

	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case b.closed:
		return ErrClosed
	case id != b.seq:
		return ErrStale
	}
	b.snap = next

	if fetchErr != nil {
		slog.Warn("job fetch failed; showing empty board", "err", fetchErr)
		return fetchErr
	}
	slog.Info("job board refreshed", "jobs", len(next.Jobs),
		"locations", len(next.Locations), "jobTypes", len(next.JobTypes))
	return nil
}

// Snapshot returns the installed snapshot. Its slices are shared and must not
// be modified.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snap
}

// Query applies st to the current snapshot.
func (b *Board) Query(st filter.State) Result {
	snap := b.Snapshot()
	return Result{
		Visible:   filter.Visible(snap.Jobs, st),
		Locations: snap.Locations,
		JobTypes:  snap.JobTypes,
		Err:       snap.Err,
		Filtered:  !st.IsNeutral(),
	}
}

// Close stops the board from accepting further snapshots. Refreshes still in
// flight have their results ignored.
func (b *Board) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
}
