// Package feed retrieves the job collection the board filters over.
//
// The primary source is the jobs REST API (Client). PostgresSource reads the
// same records straight from the API's database and CachedSource keeps a
// shared copy of any source in Redis.
package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"jobmate/board-service/internal/model"
)

const (
	jobsPath         = "/api/jobs"
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "jobmate-board/1.0"
	maxErrorBody     = 512
)

// Source yields the full job collection in the order the backend returns it.
type Source interface {
	Jobs(ctx context.Context) ([]model.Job, error)
}

// StatusError is returned when the jobs API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("jobs api returned %d", e.StatusCode)
	}
	return fmt.Sprintf("jobs api returned %d: %s", e.StatusCode, e.Body)
}

// Client talks to the jobs REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client (15s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the timeout of the client's own *http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient constructs a Client for the API rooted at baseURL
// (e.g. "https://jobs.example.com").
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// jobsResponse mirrors the list endpoint's top-level document.
type jobsResponse struct {
	Jobs []model.Job `json:"jobs"`
}

// Jobs fetches the full collection. Any non-2xx status or undecodable body is
// an error; there is no retry.
func (c *Client) Jobs(ctx context.Context) ([]model.Job, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+jobsPath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var resp jobsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}
	if resp.Jobs == nil {
		resp.Jobs = []model.Job{}
	}

	for _, j := range resp.Jobs {
		if !j.HasSalary() {
			slog.Warn("job with malformed salary range will never match salary filters",
				"jobId", j.ID, "err", j.SalaryErr)
		}
	}
	return resp.Jobs, nil
}

// Create posts a new job to the API and returns the record it stored.
// When the API answers without a body the submitted job is returned.
func (c *Client) Create(ctx context.Context, job model.Job) (*model.Job, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("encode job: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+jobsPath, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return &job, nil
	}

	// The API wraps the stored record as {"job": {...}}; accept a bare record too.
	var wrapped struct {
		Job *model.Job `json:"job"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Job != nil {
		return wrapped.Job, nil
	}
	var created model.Job
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("decode created job: %w", err)
	}
	return &created, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http %s: %w", req.Method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(body))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: msg}
	}
	return body, nil
}
