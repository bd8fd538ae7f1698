package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-sched-api/internal/models"
)

// DayBlockRepository manages teacher day blocks, including the
// compensatory blocks the scheduler plants for Saturday placements.
type DayBlockRepository struct {
	db *sqlx.DB
}

// NewDayBlockRepository constructs a DayBlockRepository.
func NewDayBlockRepository(db *sqlx.DB) *DayBlockRepository {
	return &DayBlockRepository{db: db}
}

// ListBlocked returns every active day block.
func (r *DayBlockRepository) ListBlocked(ctx context.Context) ([]models.TeacherDayBlock, error) {
	const query = `SELECT id, teacher_id, day_of_week, is_blocked, source
		FROM teacher_day_blocks WHERE is_blocked = TRUE ORDER BY teacher_id, day_of_week`
	var blocks []models.TeacherDayBlock
	if err := r.db.SelectContext(ctx, &blocks, query); err != nil {
		return nil, fmt.Errorf("list day blocks: %w", err)
	}
	return blocks, nil
}

// InsertBatch persists planted compensation blocks inside the run
// transaction. Conflicting (teacher, day) rows are left untouched.
func (r *DayBlockRepository) InsertBatch(ctx context.Context, exec sqlx.ExtContext, blocks []models.TeacherDayBlock) error {
	const query = `INSERT INTO teacher_day_blocks (id, teacher_id, day_of_week, is_blocked, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (teacher_id, day_of_week) DO NOTHING`
	now := time.Now().UTC()
	for _, block := range blocks {
		id := block.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := exec.ExecContext(ctx, query, id, block.TeacherID, block.Day, block.IsBlocked, block.Source, now); err != nil {
			return fmt.Errorf("insert day block: %w", err)
		}
	}
	return nil
}
