// Package boardhttp implements the REST surface of the board service.
//
// Routes:
//
//	GET    /jobs           → filtered jobs plus option sets
//	POST   /jobs           → validate and publish a posting form
//	POST   /refresh        → re-fetch the collection now
//	POST   /drafts         → save a posting form as a draft
//	GET    /drafts/{id}    → load a draft
//	DELETE /drafts/{id}    → discard a draft
//
// GET /jobs accepts search, location, jobType, salaryMin and salaryMax query
// parameters; omitted ones keep their neutral defaults.
package boardhttp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"jobmate/board-service/internal/board"
	"jobmate/board-service/internal/feed"
	"jobmate/board-service/internal/filter"
	"jobmate/board-service/internal/posting"
)

// ─── Response types ───────────────────────────────────────────────────────────

// JobList is the JSON shape returned by GET /jobs.
type JobList struct {
	Jobs      []map[string]any `json:"jobs"`
	Locations []string         `json:"locations"`
	JobTypes  []string         `json:"jobTypes"`
	Error     string           `json:"error,omitempty"`
	Filtered  bool             `json:"filtered"`
}

// ─── Handler ─────────────────────────────────────────────────────────────────

// Handler holds shared dependencies.
type Handler struct {
	board    *board.Board
	postings *posting.Service // nil disables POST /jobs and drafts
	now      func() time.Time
}

// NewHandler returns a configured Handler. postings may be nil.
func NewHandler(b *board.Board, postings *posting.Service) *Handler {
	return &Handler{board: b, postings: postings, now: time.Now}
}

// RegisterRoutes mounts all board routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/jobs", h.handleJobs)
	mux.HandleFunc("/refresh", h.handleRefresh)
	mux.HandleFunc("/drafts", h.handleDrafts)
	mux.HandleFunc("/drafts/", h.handleDraft)
}

// ─── Route dispatch ───────────────────────────────────────────────────────────

func (h *Handler) handleJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listJobs(w, r)
	case http.MethodPost:
		h.createJob(w, r)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	// The board is shared; a client hanging up must not abandon its refresh.
	err := h.board.Refresh(context.WithoutCancel(r.Context()))
	switch {
	case err == nil, errors.Is(err, board.ErrStale):
	case errors.Is(err, board.ErrClosed):
		jsonError(w, "board is shutting down", http.StatusServiceUnavailable)
		return
	default:
		log.Printf("[board] refresh failed: %v", err)
		jsonError(w, board.FetchErrorMessage, http.StatusBadGateway)
		return
	}
	jsonOK(w, map[string]int{"jobs": len(h.board.Snapshot().Jobs)})
}

func (h *Handler) handleDrafts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.postings == nil {
		jsonError(w, "job creation is disabled", http.StatusNotImplemented)
		return
	}
	form, ok := decodeForm(w, r)
	if !ok {
		return
	}
	w.Header().Set("Location", "/drafts/"+h.postings.SaveDraft(form))
	jsonStatus(w, http.StatusCreated, form)
}

// handleDraft handles GET|DELETE /drafts/{id}
func (h *Handler) handleDraft(w http.ResponseWriter, r *http.Request) {
	if h.postings == nil {
		jsonError(w, "job creation is disabled", http.StatusNotImplemented)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/drafts/")
	if id == "" || strings.Contains(id, "/") {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		form, ok := h.postings.Draft(id)
		if !ok {
			jsonError(w, "draft not found", http.StatusNotFound)
			return
		}
		jsonOK(w, form)
	case http.MethodDelete:
		h.postings.DiscardDraft(id)
		w.WriteHeader(http.StatusNoContent)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// ─── Individual handlers ──────────────────────────────────────────────────────

func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	st, err := stateFromQuery(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	res := h.board.Query(st)
	now := h.now()
	out := JobList{
		Jobs:      make([]map[string]any, 0, len(res.Visible)),
		Locations: res.Locations,
		JobTypes:  res.JobTypes,
		Error:     res.Err,
		Filtered:  res.Filtered,
	}
	for _, j := range res.Visible {
		v, err := j.View(now)
		if err != nil {
			log.Printf("[board] encode job %s: %v", j.ID, err)
			jsonError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		out.Jobs = append(out.Jobs, v)
	}
	jsonOK(w, out)
}

func (h *Handler) createJob(w http.ResponseWriter, r *http.Request) {
	if h.postings == nil {
		jsonError(w, "job creation is disabled", http.StatusNotImplemented)
		return
	}
	form, ok := decodeForm(w, r)
	if !ok {
		return
	}

	created, err := h.postings.Publish(r.Context(), form)
	if err != nil {
		var ve *posting.ValidationError
		var se *feed.StatusError
		switch {
		case errors.As(err, &ve):
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{"error": ve.Msg, "fields": ve.Fields})
		case errors.As(err, &se):
			log.Printf("[board] createJob rejected upstream: %v", err)
			jsonError(w, "jobs API rejected the posting", http.StatusBadGateway)
		default:
			log.Printf("[board] createJob error: %v", err)
			jsonError(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	// Pull the new posting into the board ahead of the next scheduled run.
	go func() {
		if err := h.board.Refresh(context.WithoutCancel(r.Context())); err != nil &&
			!errors.Is(err, board.ErrStale) && !errors.Is(err, board.ErrClosed) {
			log.Printf("[board] refresh after create failed: %v", err)
		}
	}()

	v, err := created.View(h.now())
	if err != nil {
		jsonError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	jsonStatus(w, http.StatusCreated, v)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func stateFromQuery(r *http.Request) (filter.State, error) {
	q := r.URL.Query()
	st := filter.DefaultState().
		WithSearchText(q.Get("search")).
		WithLocation(q.Get("location")).
		WithJobType(q.Get("jobType"))

	for _, p := range []struct {
		name string
		set  func(filter.State, int64) filter.State
	}{
		{"salaryMin", filter.State.WithSalaryLow},
		{"salaryMax", filter.State.WithSalaryHigh},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return st, fmt.Errorf("%s must be a whole number", p.name)
		}
		st = p.set(st, n)
	}
	return st, nil
}

func decodeForm(w http.ResponseWriter, r *http.Request) (posting.Form, bool) {
	form := posting.NewForm()
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return form, false
	}
	return form, true
}

func jsonOK(w http.ResponseWriter, v any) {
	jsonStatus(w, http.StatusOK, v)
}

func jsonStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	jsonStatus(w, code, map[string]string{"error": msg})
}
