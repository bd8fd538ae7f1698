// Package engine implements the constraint-satisfaction core of the
// campus scheduler: a pure validator over candidate placements and a
// greedy driver that assigns every teaching unit of a term to a
// (day, timeslot, room) triple under the Master Rules.
package engine

import (
	"fmt"
	"sort"

	"github.com/noah-isme/campus-sched-api/internal/models"
	"github.com/noah-isme/campus-sched-api/internal/timegrid"
)

// SnapshotInput carries the raw master-data enumerations for one term.
type SnapshotInput struct {
	TermID      string
	Rooms       []models.Room
	Teachers    []models.Teacher
	Sections    []models.Section
	Courses     []models.Course
	Timeslots   []models.Timeslot
	Units       []models.TeachingUnit
	DayBlocks   []models.TeacherDayBlock
	Maintenance []models.RoomMaintenanceBlock
}

// MasterData is the immutable snapshot a run works against. The one
// exception to immutability is the compensatory day block the driver
// plants when it schedules a teacher's first Saturday.
type MasterData struct {
	TermID    string
	Rooms     []models.Room      // active rooms, sorted by code
	Timeslots []models.Timeslot  // sorted by (day, start)
	Units     []models.TeachingUnit

	Teachers map[string]models.Teacher
	Sections map[string]models.Section
	Courses  map[string]models.Course

	intervals   map[string]timegrid.Interval
	maintenance map[string][]models.RoomMaintenanceBlock
	dayBlocks   map[string]map[timegrid.Day]models.TeacherDayBlock
	planted     []models.TeacherDayBlock
}

// NewMasterData validates and indexes a snapshot. Violating a
// precondition (no units, no active rooms, no timeslots, malformed
// clocks, dangling references) is an input error that fails the run
// before any search happens.
func NewMasterData(in SnapshotInput) (*MasterData, error) {
	if len(in.Units) == 0 {
		return nil, fmt.Errorf("no teaching units defined for term %s", in.TermID)
	}
	if len(in.Timeslots) == 0 {
		return nil, fmt.Errorf("no timeslots configured")
	}

	md := &MasterData{
		TermID:      in.TermID,
		Units:       in.Units,
		Teachers:    make(map[string]models.Teacher, len(in.Teachers)),
		Sections:    make(map[string]models.Section, len(in.Sections)),
		Courses:     make(map[string]models.Course, len(in.Courses)),
		intervals:   make(map[string]timegrid.Interval, len(in.Timeslots)),
		maintenance: make(map[string][]models.RoomMaintenanceBlock),
		dayBlocks:   make(map[string]map[timegrid.Day]models.TeacherDayBlock),
	}

	for _, room := range in.Rooms {
		if room.Active {
			md.Rooms = append(md.Rooms, room)
		}
	}
	if len(md.Rooms) == 0 {
		return nil, fmt.Errorf("no active rooms available")
	}
	sort.Slice(md.Rooms, func(i, j int) bool { return md.Rooms[i].Code < md.Rooms[j].Code })

	for _, teacher := range in.Teachers {
		md.Teachers[teacher.ID] = teacher
	}
	for _, section := range in.Sections {
		md.Sections[section.ID] = section
	}
	for _, course := range in.Courses {
		md.Courses[course.ID] = course
	}

	md.Timeslots = make([]models.Timeslot, len(in.Timeslots))
	copy(md.Timeslots, in.Timeslots)
	for _, ts := range md.Timeslots {
		if !ts.Day.Valid() {
			return nil, fmt.Errorf("timeslot %s has invalid day %d", ts.ID, int(ts.Day))
		}
		iv, err := ts.Interval()
		if err != nil {
			return nil, fmt.Errorf("timeslot %s: %w", ts.ID, err)
		}
		md.intervals[ts.ID] = iv
	}
	sort.Slice(md.Timeslots, func(i, j int) bool {
		a, b := md.Timeslots[i], md.Timeslots[j]
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		if md.intervals[a.ID].Start != md.intervals[b.ID].Start {
			return md.intervals[a.ID].Start < md.intervals[b.ID].Start
		}
		return a.ID < b.ID
	})

	for _, unit := range in.Units {
		if _, ok := md.Teachers[unit.TeacherID]; !ok {
			return nil, fmt.Errorf("teaching unit %s references unknown teacher %s", unit.ID, unit.TeacherID)
		}
		if _, ok := md.Sections[unit.SectionID]; !ok {
			return nil, fmt.Errorf("teaching unit %s references unknown section %s", unit.ID, unit.SectionID)
		}
		if _, ok := md.Courses[unit.CourseID]; !ok {
			return nil, fmt.Errorf("teaching unit %s references unknown course %s", unit.ID, unit.CourseID)
		}
	}

	for _, block := range in.Maintenance {
		md.maintenance[block.RoomID] = append(md.maintenance[block.RoomID], block)
	}
	for _, block := range in.DayBlocks {
		if !block.IsBlocked {
			continue
		}
		if md.dayBlocks[block.TeacherID] == nil {
			md.dayBlocks[block.TeacherID] = make(map[timegrid.Day]models.TeacherDayBlock)
		}
		md.dayBlocks[block.TeacherID][block.Day] = block
	}

	return md, nil
}

// Interval returns the pre-parsed interval for a timeslot.
func (md *MasterData) Interval(timeslotID string) timegrid.Interval {
	return md.intervals[timeslotID]
}

// MaintenanceFor lists maintenance blocks declared for a room.
func (md *MasterData) MaintenanceFor(roomID string) []models.RoomMaintenanceBlock {
	return md.maintenance[roomID]
}

// IsDayBlocked reports whether the teacher must not teach on the day,
// from either a manual block or a planted compensatory block.
func (md *MasterData) IsDayBlocked(teacherID string, day timegrid.Day) bool {
	_, ok := md.dayBlocks[teacherID][day]
	return ok
}

// HasSaturdayCompOff reports whether the teacher owns a blocked
// compensatory weekday.
func (md *MasterData) HasSaturdayCompOff(teacherID string) bool {
	for day, block := range md.dayBlocks[teacherID] {
		if block.Source == models.BlockSourceAutoSatCompOff && day.IsWeekday() {
			return true
		}
	}
	return false
}

// PlantCompOff reserves a compensatory weekday for a teacher ahead of a
// Saturday placement. This is the only master-data mutation the engine
// performs.
func (md *MasterData) PlantCompOff(teacherID string, day timegrid.Day) models.TeacherDayBlock {
	block := models.TeacherDayBlock{
		TeacherID: teacherID,
		Day:       day,
		IsBlocked: true,
		Source:    models.BlockSourceAutoSatCompOff,
	}
	if md.dayBlocks[teacherID] == nil {
		md.dayBlocks[teacherID] = make(map[timegrid.Day]models.TeacherDayBlock)
	}
	md.dayBlocks[teacherID][day] = block
	md.planted = append(md.planted, block)
	return block
}

// UnplantCompOff retracts a tentatively planted block after the Saturday
// candidate it was reserved for turned out infeasible.
func (md *MasterData) UnplantCompOff(teacherID string, day timegrid.Day) {
	block, ok := md.dayBlocks[teacherID][day]
	if !ok || block.Source != models.BlockSourceAutoSatCompOff {
		return
	}
	delete(md.dayBlocks[teacherID], day)
	for i := len(md.planted) - 1; i >= 0; i-- {
		if md.planted[i].TeacherID == teacherID && md.planted[i].Day == day {
			md.planted = append(md.planted[:i], md.planted[i+1:]...)
			break
		}
	}
}

// PlantedBlocks returns the compensatory blocks planted during the run,
// for the caller to persist.
func (md *MasterData) PlantedBlocks() []models.TeacherDayBlock {
	out := make([]models.TeacherDayBlock, len(md.planted))
	copy(out, md.planted)
	return out
}
