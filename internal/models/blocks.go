package models

import (
	"time"

	"github.com/noah-isme/campus-sched-api/internal/timegrid"
)

// BlockSource records who declared a teacher day block.
type BlockSource string

const (
	// BlockSourceManual marks blocks entered by campus administrators.
	BlockSourceManual BlockSource = "MANUAL"
	// BlockSourceAutoSatCompOff marks the compensatory weekday the
	// scheduler reserves when it places a teacher on Saturday.
	BlockSourceAutoSatCompOff BlockSource = "AUTO_SATURDAY_COMP_OFF"
)

// TeacherDayBlock declares a day on which a teacher must not teach.
type TeacherDayBlock struct {
	ID        string       `db:"id" json:"id"`
	TeacherID string       `db:"teacher_id" json:"teacher_id"`
	Day       timegrid.Day `db:"day_of_week" json:"day_of_week"`
	IsBlocked bool         `db:"is_blocked" json:"is_blocked"`
	Source    BlockSource  `db:"source" json:"source"`
}

// RoomMaintenanceBlock takes a room out of service for a window.
type RoomMaintenanceBlock struct {
	ID            string    `db:"id" json:"id"`
	RoomID        string    `db:"room_id" json:"room_id"`
	StartDateTime time.Time `db:"start_datetime" json:"start_datetime"`
	EndDateTime   time.Time `db:"end_datetime" json:"end_datetime"`
	Reason        string    `db:"reason" json:"reason"`
}
