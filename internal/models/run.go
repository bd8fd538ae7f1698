package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// RunStatus is the lifecycle state of a scheduling run.
type RunStatus string

const (
	RunStatusDraft       RunStatus = "DRAFT"
	RunStatusRunning     RunStatus = "RUNNING"
	RunStatusSuccess     RunStatus = "SUCCESS"
	RunStatusPartialFail RunStatus = "PARTIAL_FAIL"
	RunStatusFailed      RunStatus = "FAILED"
)

// ScheduleRun is one invocation of the scheduling engine for a term.
type ScheduleRun struct {
	ID             string         `db:"id" json:"id"`
	TermID         string         `db:"term_id" json:"term_id"`
	Status         RunStatus      `db:"status" json:"status"`
	ObjectiveScore *float64       `db:"objective_score" json:"objective_score,omitempty"`
	Message        string         `db:"message" json:"message"`
	Summary        types.JSONText `db:"summary" json:"summary,omitempty"`
	CreatedBy      string         `db:"created_by" json:"created_by"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// ScheduleEntry is one committed assignment produced by a run.
type ScheduleEntry struct {
	ID             string    `db:"id" json:"id"`
	RunID          string    `db:"run_id" json:"run_id"`
	TeachingUnitID string    `db:"teaching_unit_id" json:"teaching_unit_id"`
	TeacherID      string    `db:"teacher_id" json:"teacher_id"`
	SectionID      string    `db:"section_id" json:"section_id"`
	CourseID       string    `db:"course_id" json:"course_id"`
	RoomID         string    `db:"room_id" json:"room_id"`
	TimeslotID     string    `db:"timeslot_id" json:"timeslot_id"`
	IsLocked       bool      `db:"is_locked" json:"is_locked"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// ScheduleEntryDetail enriches an entry with display fields for exports
// and list endpoints.
type ScheduleEntryDetail struct {
	ScheduleEntry
	TeacherName string `db:"teacher_name" json:"teacher_name"`
	SectionCode string `db:"section_code" json:"section_code"`
	CourseCode  string `db:"course_code" json:"course_code"`
	RoomCode    string `db:"room_code" json:"room_code"`
	Day         string `db:"day_of_week" json:"day_of_week"`
	StartTime   string `db:"start_time" json:"start_time"`
	EndTime     string `db:"end_time" json:"end_time"`
}
