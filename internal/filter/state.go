package filter

// Salary slider bounds used for a fresh State.
const (
	DefaultSalaryLow  int64 = 0
	DefaultSalaryHigh int64 = 2_000_000
)

// State is the set of user-chosen constraints. Empty Location and JobType act
// as wildcards. SalaryLow > SalaryHigh is a valid state that matches nothing.
type State struct {
	SearchText string `json:"searchText"`
	Location   string `json:"location"`
	JobType    string `json:"jobType"`
	SalaryLow  int64  `json:"salaryLow"`
	SalaryHigh int64  `json:"salaryHigh"`
}

// DefaultState returns the neutral state: no text, any location, any type,
// full salary range.
func DefaultState() State {
	return State{SalaryLow: DefaultSalaryLow, SalaryHigh: DefaultSalaryHigh}
}

// IsNeutral reports whether st equals DefaultState.
func (st State) IsNeutral() bool { return st == DefaultState() }

// WithSearchText returns a copy of st with SearchText replaced.
func (st State) WithSearchText(text string) State {
	st.SearchText = text
	return st
}

// WithLocation returns a copy of st with Location replaced.
func (st State) WithLocation(loc string) State {
	st.Location = loc
	return st
}

// WithJobType returns a copy of st with JobType replaced.
func (st State) WithJobType(jobType string) State {
	st.JobType = jobType
	return st
}

// WithSalaryLow returns a copy of st with SalaryLow replaced.
func (st State) WithSalaryLow(n int64) State {
	st.SalaryLow = n
	return st
}

// WithSalaryHigh returns a copy of st with SalaryHigh replaced.
func (st State) WithSalaryHigh(n int64) State {
	st.SalaryHigh = n
	return st
}

// Store holds one user's State. Each setter replaces exactly one field.
// A Store is not safe for concurrent use; board.Session adds locking.
type Store struct {
	st State
}

// NewStore returns a Store initialised to DefaultState.
func NewStore() *Store {
	return &Store{st: DefaultState()}
}

// State returns a copy of the current state.
func (s *Store) State() State { return s.st }

func (s *Store) SetSearchText(text string) { s.st.SearchText = text }
func (s *Store) SetLocation(loc string) { s.st.Location = loc }
func (s *Store) SetJobType(jobType string) { s.st.JobType = jobType }

// SetSalaryLow replaces the lower bound, leaving the upper bound untouched.
func (s *Store) SetSalaryLow(n int64) { s.st.SalaryLow = n }

// SetSalaryHigh replaces the upper bound, leaving the lower bound untouched.
func (s *Store) SetSalaryHigh(n int64) { s.st.SalaryHigh = n }

// Reset restores DefaultState.
func (s *Store) Reset() { s.st = DefaultState() }
