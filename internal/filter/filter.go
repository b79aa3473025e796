// Package filter implements the job search pipeline: a pure predicate engine
// over a fetched collection, the filter state it reads, and the option sets
// used to populate location and job-type choices.
package filter

import (
	"strings"

	"jobmate/board-service/internal/model"
)

// Visible returns the jobs that satisfy every predicate of st, in their
// original relative order. The input slice is not modified.
func Visible(jobs []model.Job, st State) []model.Job {
	needle := strings.ToLower(st.SearchText)
	out := make([]model.Job, 0, len(jobs))
	for _, j := range jobs {
		if matches(j, st, needle) {
			out = append(out, j)
		}
	}
	return out
}

// Matches reports whether a single job passes every predicate of st.
func Matches(j model.Job, st State) bool {
	return matches(j, st, strings.ToLower(st.SearchText))
}

func matches(j model.Job, st State, needle string) bool {
	return matchesText(j, needle) &&
		MatchesLocation(j, st.Location) &&
		MatchesJobType(j, st.JobType) &&
		MatchesSalary(j, st.SalaryLow, st.SalaryHigh)
}

// MatchesText returns true when search is empty or appears (case-insensitive)
// in the job's title or company name.
func MatchesText(j model.Job, search string) bool {
	return matchesText(j, strings.ToLower(search))
}

func matchesText(j model.Job, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(j.Title), needle) ||
		strings.Contains(strings.ToLower(j.Company), needle)
}

// MatchesLocation is an exact, case-sensitive comparison; "" matches any job.
func MatchesLocation(j model.Job, location string) bool {
	return location == "" || j.Location == location
}

// MatchesJobType is an exact comparison; "" matches any job.
func MatchesJobType(j model.Job, jobType string) bool {
	return jobType == "" || j.JobType == jobType
}

// MatchesSalary requires the job's whole range to sit inside [low, high].
// Overlap is not enough. A job whose salary did not parse never matches.
func MatchesSalary(j model.Job, low, high int64) bool {
	if !j.HasSalary() {
		return false
	}
	return j.Salary.Min >= low && j.Salary.Max <= high
}
