package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/campus-sched-api/internal/models"
)

// ScheduleRunRepository manages run records.
type ScheduleRunRepository struct {
	db *sqlx.DB
}

// NewScheduleRunRepository constructs a ScheduleRunRepository.
func NewScheduleRunRepository(db *sqlx.DB) *ScheduleRunRepository {
	return &ScheduleRunRepository{db: db}
}

const runColumns = "id, term_id, status, objective_score, message, summary, created_by, created_at, updated_at"

// Create inserts a new run record and assigns its identifier.
func (r *ScheduleRunRepository) Create(ctx context.Context, run *models.ScheduleRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	run.CreatedAt = now
	run.UpdatedAt = now
	const query = `INSERT INTO schedule_runs (id, term_id, status, objective_score, message, summary, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := r.db.ExecContext(ctx, query, run.ID, run.TermID, run.Status, run.ObjectiveScore, run.Message, run.Summary, run.CreatedBy, run.CreatedAt, run.UpdatedAt); err != nil {
		return fmt.Errorf("create schedule run: %w", err)
	}
	return nil
}

// FindByID fetches a run by ID.
func (r *ScheduleRunRepository) FindByID(ctx context.Context, id string) (*models.ScheduleRun, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_runs WHERE id = $1", runColumns)
	var run models.ScheduleRun
	if err := r.db.GetContext(ctx, &run, query, id); err != nil {
		return nil, err
	}
	return &run, nil
}

// ListByTerm returns runs for a term, newest first.
func (r *ScheduleRunRepository) ListByTerm(ctx context.Context, termID string) ([]models.ScheduleRun, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_runs WHERE term_id = $1 ORDER BY created_at DESC", runColumns)
	var runs []models.ScheduleRun
	if err := r.db.SelectContext(ctx, &runs, query, termID); err != nil {
		return nil, fmt.Errorf("list schedule runs: %w", err)
	}
	return runs, nil
}

// UpdateResult records the terminal state of a run. A nil exec falls
// back to the repository's own connection.
func (r *ScheduleRunRepository) UpdateResult(ctx context.Context, exec sqlx.ExtContext, id string, status models.RunStatus, score *float64, message string, summary types.JSONText) error {
	if exec == nil {
		exec = r.db
	}
	const query = `UPDATE schedule_runs SET status = $2, objective_score = $3, message = $4, summary = $5, updated_at = $6 WHERE id = $1`
	if _, err := exec.ExecContext(ctx, query, id, status, score, message, summary, time.Now().UTC()); err != nil {
		return fmt.Errorf("update schedule run: %w", err)
	}
	return nil
}
