package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-sched-api/internal/models"
)

// ScheduleEntryRepository manages committed assignments.
type ScheduleEntryRepository struct {
	db *sqlx.DB
}

// NewScheduleEntryRepository constructs a ScheduleEntryRepository.
func NewScheduleEntryRepository(db *sqlx.DB) *ScheduleEntryRepository {
	return &ScheduleEntryRepository{db: db}
}

// InsertBatch persists a run's assignments inside its transaction.
func (r *ScheduleEntryRepository) InsertBatch(ctx context.Context, exec sqlx.ExtContext, entries []models.ScheduleEntry) error {
	const query = `INSERT INTO schedule_entries (id, run_id, teaching_unit_id, teacher_id, section_id, course_id, room_id, timeslot_id, is_locked, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	now := time.Now().UTC()
	for _, entry := range entries {
		id := entry.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := exec.ExecContext(ctx, query, id, entry.RunID, entry.TeachingUnitID, entry.TeacherID, entry.SectionID, entry.CourseID, entry.RoomID, entry.TimeslotID, entry.IsLocked, now); err != nil {
			return fmt.Errorf("insert schedule entry: %w", err)
		}
	}
	return nil
}

// ListByRun returns a run's entries ordered by day and start time, with
// the display fields joined in for list endpoints and exports.
func (r *ScheduleEntryRepository) ListByRun(ctx context.Context, runID string) ([]models.ScheduleEntryDetail, error) {
	const query = `SELECT e.id, e.run_id, e.teaching_unit_id, e.teacher_id, e.section_id, e.course_id, e.room_id, e.timeslot_id, e.is_locked, e.created_at,
			t.full_name AS teacher_name, s.code AS section_code, c.code AS course_code, r.code AS room_code,
			ts.day_of_week, ts.start_time, ts.end_time
		FROM schedule_entries e
		JOIN teachers t ON t.id = e.teacher_id
		JOIN sections s ON s.id = e.section_id
		JOIN courses c ON c.id = e.course_id
		JOIN rooms r ON r.id = e.room_id
		JOIN timeslots ts ON ts.id = e.timeslot_id
		WHERE e.run_id = $1
		ORDER BY CASE ts.day_of_week
			WHEN 'MON' THEN 1 WHEN 'TUE' THEN 2 WHEN 'WED' THEN 3
			WHEN 'THU' THEN 4 WHEN 'FRI' THEN 5 WHEN 'SAT' THEN 6 ELSE 7 END,
		ts.start_time ASC, r.code ASC`
	var entries []models.ScheduleEntryDetail
	if err := r.db.SelectContext(ctx, &entries, query, runID); err != nil {
		return nil, fmt.Errorf("list schedule entries: %w", err)
	}
	return entries, nil
}
