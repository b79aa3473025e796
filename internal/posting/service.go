package posting

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"jobmate/board-service/internal/model"
)

// EventJobCreated is the Redis channel announcing a published posting.
const EventJobCreated = "EVENT_JOB_CREATED"

// Creator submits a job to the backing API. feed.Client satisfies it.
type Creator interface {
	Create(ctx context.Context, job model.Job) (*model.Job, error)
}

// Service publishes postings. Drafts live in memory only and are lost on restart.
type Service struct {
	creator Creator
	rdb     *redis.Client // optional; nil disables events
	now     func() time.Time

	mu     sync.Mutex
	drafts map[string]Form
}

// NewService returns a Service. rdb may be nil.
func NewService(creator Creator, rdb *redis.Client) *Service {
	return &Service{
		creator: creator,
		rdb:     rdb,
		now:     time.Now,
		drafts:  make(map[string]Form),
	}
}

// Publish validates the form, submits it and announces the new job.
// Validation failures are returned as *ValidationError and nothing is sent.
func (s *Service) Publish(ctx context.Context, f Form) (*model.Job, error) {
	job, err := f.Job()
	if err != nil {
		return nil, err
	}

	created, err := s.creator.Create(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	// Announce the posting (non-fatal).
	if s.rdb != nil {
		event, _ := json.Marshal(map[string]string{
			"type":    EventJobCreated,
			"eventId": uuid.NewString(),
			"jobId":   created.ID,
			"title":   created.Title,
			"company": created.Company,
			"at":      s.now().UTC().Format(time.RFC3339),
		})
		if err := s.rdb.Publish(ctx, EventJobCreated, event).Err(); err != nil {
			slog.Warn("publish EVENT_JOB_CREATED failed", "jobId", created.ID, "err", err)
		}
	}

	return created, nil
}

// SaveDraft stores an unvalidated form and returns its draft ID.
func (s *Service) SaveDraft(f Form) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.drafts[id] = f
	s.mu.Unlock()
	return id
}

// Draft returns a saved draft.
func (s *Service) Draft(id string) (Form, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.drafts[id]
	return f, ok
}

// DiscardDraft removes a draft; unknown IDs are ignored.
func (s *Service) DiscardDraft(id string) {
	s.mu.Lock()
	delete(s.drafts, id)
	s.mu.Unlock()
}
