// Package posting validates and publishes new job postings.
package posting

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"jobmate/board-service/internal/model"
)

// MinWords is the minimum word count of each long-form field.
const MinWords = 21

// WordCountMessage is shown when a long-form field is too short.
var WordCountMessage = fmt.Sprintf(
	"Please provide at least %d words in Job Description, Responsibilities, and Requirements.", MinWords)

const deadlineLayout = "2006-01-02"

// Form is a posting as typed by the user. Salary bounds and the deadline stay
// strings until Validate accepts them.
type Form struct {
	Title            string `json:"jobTitle"`
	Company          string `json:"companyName"`
	Location         string `json:"location"`
	JobType          string `json:"jobType"`
	SalaryMin        string `json:"salaryMin"`
	SalaryMax        string `json:"salaryMax"`
	Deadline         string `json:"applicationDeadline"` // YYYY-MM-DD
	Description      string `json:"jobDescription"`
	Responsibilities string `json:"responsibilities"`
	Requirements     string `json:"requirements"`
}

// NewForm returns an empty form with the default job type selected.
func NewForm() Form {
	return Form{JobType: string(model.JobTypeFullTime)}
}

// ValidationError wraps user-facing validation messages, keyed by field.
type ValidationError struct {
	Msg    string
	Fields map[string]string
}

func (e *ValidationError) Error() string { return e.Msg }

// CountWords counts whitespace-separated words.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// Validate checks every field and returns a *ValidationError describing all
// problems, or nil.
func (f Form) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(f.Title) == "" {
		fields["jobTitle"] = "job title is required"
	}
	if strings.TrimSpace(f.Company) == "" {
		fields["companyName"] = "company name is required"
	}
	switch loc := strings.TrimSpace(f.Location); {
	case loc == "" || loc == model.PlaceholderLocation:
		fields["location"] = "location is required"
	case !model.IsCatalogLocation(loc):
		fields["location"] = fmt.Sprintf("unknown location %q", loc)
	}
	if _, err := model.ParseJobType(f.jobType()); err != nil {
		fields["jobType"] = err.Error()
	}

	if _, err := f.salary(); err != nil {
		fields["salary"] = err.Error()
	}
	if _, err := f.deadline(); err != nil {
		fields["applicationDeadline"] = err.Error()
	}

	shortText := false
	for name, text := range map[string]string{
		"jobDescription":   f.Description,
		"responsibilities": f.Responsibilities,
		"requirements":     f.Requirements,
	} {
		if n := CountWords(text); n < MinWords {
			fields[name] = fmt.Sprintf("needs at least %d words, has %d", MinWords, n)
			shortText = true
		}
	}

	if len(fields) == 0 {
		return nil
	}
	msg := WordCountMessage
	if !shortText {
		msg = summarize(fields)
	}
	return &ValidationError{Msg: msg, Fields: fields}
}

// Job converts a validated form into the record sent to the jobs API.
func (f Form) Job() (model.Job, error) {
	if err := f.Validate(); err != nil {
		return model.Job{}, err
	}
	salary, _ := f.salary()
	deadline, _ := f.deadline()
	return model.Job{
		Title:               strings.TrimSpace(f.Title),
		Company:             strings.TrimSpace(f.Company),
		Location:            strings.TrimSpace(f.Location),
		JobType:             f.jobType(),
		Salary:              salary,
		Description:         f.Description,
		Requirements:        f.Requirements,
		Responsibilities:    f.Responsibilities,
		ApplicationDeadline: deadline,
	}, nil
}

func (f Form) jobType() string {
	if f.JobType == "" {
		return string(model.JobTypeFullTime)
	}
	return f.JobType
}

func (f Form) salary() (model.SalaryRange, error) {
	lo, err := parseBound(f.SalaryMin)
	if err != nil {
		return model.SalaryRange{}, fmt.Errorf("salary min: %w", err)
	}
	hi, err := parseBound(f.SalaryMax)
	if err != nil {
		return model.SalaryRange{}, fmt.Errorf("salary max: %w", err)
	}
	if lo > hi {
		return model.SalaryRange{}, fmt.Errorf("salary min %d exceeds max %d", lo, hi)
	}
	return model.SalaryRange{Min: lo, Max: hi}, nil
}

func parseBound(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("is required")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	if n < 0 {
		return 0, errors.New("must not be negative")
	}
	return n, nil
}

// deadline is the last second of the chosen day, UTC.
func (f Form) deadline() (time.Time, error) {
	s := strings.TrimSpace(f.Deadline)
	if s == "" {
		return time.Time{}, errors.New("application deadline is required")
	}
	day, err := time.Parse(deadlineLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("application deadline %q is not a YYYY-MM-DD date", s)
	}
	return day.Add(23*time.Hour + 59*time.Minute + 59*time.Second), nil
}

func summarize(fields map[string]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+fields[name])
	}
	return strings.Join(parts, "; ")
}
