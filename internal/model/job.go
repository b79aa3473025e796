// Package model defines the job record consumed by the board and its wire shape.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// JobType values offered by the posting form.
type JobType string

const (
	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeInternship JobType = "Internship"
	JobTypeContract   JobType = "Contract"
)

// JobTypes lists the enumeration in form order.
var JobTypes = []JobType{JobTypeFullTime, JobTypePartTime, JobTypeInternship, JobTypeContract}

// ParseJobType converts a raw string to a JobType, returning an error for
// unknown values. Matching is exact.
func ParseJobType(s string) (JobType, error) {
	jt := JobType(s)
	switch jt {
	case JobTypeFullTime, JobTypePartTime, JobTypeInternship, JobTypeContract:
		return jt, nil
	}
	return "", fmt.Errorf("unknown job type %q", s)
}

// Job is one posting as returned by the jobs API. The board never mutates a
// fetched Job; filtering produces new slices over the same values.
type Job struct {
	ID                  string
	Title               string
	Company             string
	Location            string
	JobType             string
	Salary              SalaryRange
	SalaryErr           error // non-nil when the wire salary did not parse
	Description         string
	Requirements        string
	Responsibilities    string
	ApplicationDeadline time.Time
	CreatedAt           time.Time

	rawSalary string // wire text kept for re-encoding when SalaryErr is set
}

// HasSalary reports whether the salary range decoded cleanly.
func (j Job) HasSalary() bool { return j.SalaryErr == nil }

// wireJob mirrors the JSON document served by the jobs API.
type wireJob struct {
	ID                  string `json:"_id,omitempty"`
	Title               string `json:"jobTitle"`
	Company             string `json:"companyName"`
	Location            string `json:"location"`
	JobType             string `json:"jobType"`
	SalaryRange         string `json:"salaryRange"`
	Description         string `json:"jobDescription"`
	Requirements        string `json:"requirements"`
	Responsibilities    string `json:"responsibilities"`
	ApplicationDeadline string `json:"applicationDeadline,omitempty"`
	CreatedAt           string `json:"createdAt,omitempty"`
}

// MarshalJSON encodes the job in the API's wire shape. The salary is written
// in its "min-max" form, or as originally received when it did not parse.
func (j Job) MarshalJSON() ([]byte, error) {
	salary := j.Salary.String()
	if j.SalaryErr != nil {
		salary = j.rawSalary
	}
	return json.Marshal(wireJob{
		ID:                  j.ID,
		Title:               j.Title,
		Company:             j.Company,
		Location:            j.Location,
		JobType:             j.JobType,
		SalaryRange:         salary,
		Description:         j.Description,
		Requirements:        j.Requirements,
		Responsibilities:    j.Responsibilities,
		ApplicationDeadline: formatTime(j.ApplicationDeadline),
		CreatedAt:           formatTime(j.CreatedAt),
	})
}

// UnmarshalJSON decodes the API's wire shape. A malformed salary does not fail
// decoding: the record is kept with SalaryErr set.
func (j *Job) UnmarshalJSON(data []byte) error {
	var w wireJob
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*j = Job{
		ID:                  w.ID,
		Title:               w.Title,
		Company:             w.Company,
		Location:            w.Location,
		JobType:             w.JobType,
		Description:         w.Description,
		Requirements:        w.Requirements,
		Responsibilities:    w.Responsibilities,
		ApplicationDeadline: parseTime(w.ApplicationDeadline),
		CreatedAt:           parseTime(w.CreatedAt),
	}
	*j = j.WithSalaryText(w.SalaryRange)
	return nil
}

// WithSalaryText returns a copy of j whose salary is parsed from its wire
// form. On failure Salary is zero and SalaryErr wraps ErrMalformedSalary.
func (j Job) WithSalaryText(s string) Job {
	j.Salary, j.SalaryErr = ParseSalaryRange(s)
	j.rawSalary = ""
	if j.SalaryErr != nil {
		j.rawSalary = s
	}
	return j
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime accepts RFC 3339 timestamps; anything else decodes as the zero time.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ─── Salary range ────────────────────────────────────────────────────────────

// ErrMalformedSalary is returned when a "min-max" salary string cannot be parsed.
var ErrMalformedSalary = errors.New("malformed salary range")

// SalaryRange is an ordered pair of yearly amounts. Min <= Max is expected
// but not enforced.
type SalaryRange struct {
	Min int64
	Max int64
}

// ParseSalaryRange splits s on its first '-' and parses both halves as
// non-negative integers.
func ParseSalaryRange(s string) (SalaryRange, error) {
	lo, hi, ok := strings.Cut(s, "-")
	if !ok {
		return SalaryRange{}, fmt.Errorf("%w: %q has no '-'", ErrMalformedSalary, s)
	}
	minSalary, err := parseAmount(lo)
	if err != nil {
		return SalaryRange{}, fmt.Errorf("%w: %q: min: %v", ErrMalformedSalary, s, err)
	}
	maxSalary, err := parseAmount(hi)
	if err != nil {
		return SalaryRange{}, fmt.Errorf("%w: %q: max: %v", ErrMalformedSalary, s, err)
	}
	return SalaryRange{Min: minSalary, Max: maxSalary}, nil
}

func parseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.New("negative")
	}
	return n, nil
}

// String formats the range in its wire form, e.g. "50000-200000".
func (r SalaryRange) String() string {
	return strconv.FormatInt(r.Min, 10) + "-" + strconv.FormatInt(r.Max, 10)
}

// ─── Display helpers ─────────────────────────────────────────────────────────

// Age renders how long ago created is relative to now, in whole hours.
func Age(created, now time.Time) string {
	hours := int(now.Sub(created) / time.Hour)
	switch {
	case hours < 1:
		return "less than 1h"
	case hours == 1:
		return "1h ago"
	}
	return fmt.Sprintf("%dh ago", hours)
}

// View returns the wire record as a generic map, plus a relative "postedAgo"
// label when CreatedAt is set.
func (j Job) View(now time.Time) (map[string]any, error) {
	raw, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	var v map[string]any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	if !j.CreatedAt.IsZero() {
		v["postedAgo"] = Age(j.CreatedAt, now)
	}
	return v, nil
}
