package models

import "github.com/noah-isme/campus-sched-api/internal/timegrid"

// Timeslot is a fixed (day, start, end) window into which a teaching
// unit may be placed. Start and end are "HH:MM" literals defining the
// half-open interval [start, end).
type Timeslot struct {
	ID          string       `db:"id" json:"id"`
	Day         timegrid.Day `db:"day_of_week" json:"day_of_week"`
	StartTime   string       `db:"start_time" json:"start_time"`
	EndTime     string       `db:"end_time" json:"end_time"`
	IsCWATSSlot bool         `db:"is_cwats_slot" json:"is_cwats_slot"`
}

// Interval parses the stored clock pair. Malformed rows surface as
// input errors when the master-data snapshot is built.
func (t Timeslot) Interval() (timegrid.Interval, error) {
	return timegrid.ParseInterval(t.StartTime, t.EndTime)
}

// TimeslotFilter captures filtering options for listing timeslots.
type TimeslotFilter struct {
	Day       string
	CWATSOnly bool
}
