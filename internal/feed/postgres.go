package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobmate/board-service/internal/model"
)

// PostgresSource reads the job collection directly from the jobs API's
// database. It only ever issues SELECTs.
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource constructs a PostgresSource.
func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

// Text columns are nullable upstream; NULL reads as "".
const selectJobs = `
	SELECT id::text,
	       COALESCE(job_title, ''), COALESCE(company_name, ''),
	       COALESCE(location, ''), COALESCE(job_type, ''),
	       COALESCE(salary_range, ''), COALESCE(job_description, ''),
	       COALESCE(requirements, ''), COALESCE(responsibilities, ''),
	       application_deadline, created_at
	FROM jobs
	ORDER BY created_at DESC`

// Jobs returns every job, newest first.
func (s *PostgresSource) Jobs(ctx context.Context) ([]model.Job, error) {
	rows, err := s.pool.Query(ctx, selectJobs)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}

	jobs, err := pgx.CollectRows(rows, scanJob)
	if err != nil {
		return nil, fmt.Errorf("scan jobs: %w", err)
	}
	return jobs, nil
}

func scanJob(row pgx.CollectableRow) (model.Job, error) {
	var (
		j        model.Job
		salary   string
		deadline *time.Time
		created  *time.Time
	)
	if err := row.Scan(
		&j.ID, &j.Title, &j.Company, &j.Location, &j.JobType, &salary,
		&j.Description, &j.Requirements, &j.Responsibilities,
		&deadline, &created,
	); err != nil {
		return model.Job{}, err
	}
	if deadline != nil {
		j.ApplicationDeadline = *deadline
	}
	if created != nil {
		j.CreatedAt = *created
	}
	return j.WithSalaryText(salary), nil
}
