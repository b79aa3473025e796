package board

import (
	"sync"

	"jobmate/board-service/internal/filter"
	"jobmate/board-service/internal/model"
)

// Session is one user's view of a Board: a filter Store plus read access to
// the board's visible set and option lists.
type Session struct {
	board *Board

	mu    sync.Mutex
	store *filter.Store
}

// NewSession starts a session with the default filter state.
func (b *Board) NewSession() *Session {
	return &Session{board: b, store: filter.NewStore()}
}

// State returns the session's current filter state.
func (s *Session) State() filter.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.State()
}

// Visible is the board's collection filtered by the session state.
func (s *Session) Visible() []model.Job {
	return s.board.Query(s.State()).Visible
}

// Locations are the location options of the full collection.
func (s *Session) Locations() []string { return s.board.Snapshot().Locations }

// JobTypes are the job-type options of the full collection.
func (s *Session) JobTypes() []string { return s.board.Snapshot().JobTypes }

// Err is the board's user-visible fetch error, if any.
func (s *Session) Err() string { return s.board.Snapshot().Err }

func (s *Session) update(fn func(*filter.Store)) {
	s.mu.Lock()
	fn(s.store)
	s.mu.Unlock()
}

func (s *Session) SetSearchText(text string) { s.update(func(st *filter.Store) { st.SetSearchText(text) }) }
func (s *Session) SetLocation(loc string) { s.update(func(st *filter.Store) { st.SetLocation(loc) }) }
func (s *Session) SetJobType(jobType string) { s.update(func(st *filter.Store) { st.SetJobType(jobType) }) }
func (s *Session) SetSalaryLow(n int64) { s.update(func(st *filter.Store) { st.SetSalaryLow(n) }) }
func (s *Session) SetSalaryHigh(n int64) { s.update(func(st *filter.Store) { st.SetSalaryHigh(n) }) }
func (s *Session) Reset() { s.update(func(st *filter.Store) { st.Reset() }) }
