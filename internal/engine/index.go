package engine

import (
	"sort"

	"github.com/noah-isme/campus-sched-api/internal/timegrid"
)

type teacherDayKey struct {
	TeacherID string
	Day       timegrid.Day
}

type sectionDayKey struct {
	SectionID string
	Day       timegrid.Day
}

type roomSlotKey struct {
	RoomID     string
	TimeslotID string
}

// ScheduleIndex is the partial-schedule occupancy view the validator
// reads and the driver mutates. Per-day interval lists stay ordered by
// start time; their length is bounded by the slots configured per day.
type ScheduleIndex struct {
	byTeacherDay map[teacherDayKey][]timegrid.Interval
	bySectionDay map[sectionDayKey][]timegrid.Interval
	byRoomSlot   map[roomSlotKey]struct{}
	teacherDays  map[string]map[timegrid.Day]int
}

// NewScheduleIndex builds an empty index.
func NewScheduleIndex() *ScheduleIndex {
	return &ScheduleIndex{
		byTeacherDay: make(map[teacherDayKey][]timegrid.Interval),
		bySectionDay: make(map[sectionDayKey][]timegrid.Interval),
		byRoomSlot:   make(map[roomSlotKey]struct{}),
		teacherDays:  make(map[string]map[timegrid.Day]int),
	}
}

// IsTeacherFree reports whether the teacher has no committed interval
// overlapping iv on the day.
func (ix *ScheduleIndex) IsTeacherFree(teacherID string, day timegrid.Day, iv timegrid.Interval) bool {
	return !anyOverlap(ix.byTeacherDay[teacherDayKey{TeacherID: teacherID, Day: day}], iv)
}

// IsSectionFree reports whether the section has no committed interval
// overlapping iv on the day.
func (ix *ScheduleIndex) IsSectionFree(sectionID string, day timegrid.Day, iv timegrid.Interval) bool {
	return !anyOverlap(ix.bySectionDay[sectionDayKey{SectionID: sectionID, Day: day}], iv)
}

// IsRoomTaken reports whether the (room, timeslot) pair is occupied.
// Timeslot identity suffices because timeslots are the unit of room
// occupancy.
func (ix *ScheduleIndex) IsRoomTaken(roomID, timeslotID string) bool {
	_, taken := ix.byRoomSlot[roomSlotKey{RoomID: roomID, TimeslotID: timeslotID}]
	return taken
}

// TeacherDayCount returns how many distinct days the teacher already
// teaches on.
func (ix *ScheduleIndex) TeacherDayCount(teacherID string) int {
	return len(ix.teacherDays[teacherID])
}

// TeacherTeachesOn reports whether the teacher already has a commitment
// on the day.
func (ix *ScheduleIndex) TeacherTeachesOn(teacherID string, day timegrid.Day) bool {
	_, ok := ix.teacherDays[teacherID][day]
	return ok
}

// TeacherDayLoad returns the number of commitments the teacher has on
// the day. The driver uses it to pick the lightest weekday when
// reserving a Saturday compensation block.
func (ix *ScheduleIndex) TeacherDayLoad(teacherID string, day timegrid.Day) int {
	return ix.teacherDays[teacherID][day]
}

// SectionIntervals returns the section's committed intervals on a day,
// ordered by start time. The reporter scans them for gaps.
func (ix *ScheduleIndex) SectionIntervals(sectionID string, day timegrid.Day) []timegrid.Interval {
	return ix.bySectionDay[sectionDayKey{SectionID: sectionID, Day: day}]
}

// Commit records an accepted assignment. Callers must only commit
// candidates the validator declared feasible.
func (ix *ScheduleIndex) Commit(teacherID, sectionID, roomID, timeslotID string, day timegrid.Day, iv timegrid.Interval) {
	tk := teacherDayKey{TeacherID: teacherID, Day: day}
	ix.byTeacherDay[tk] = insertOrdered(ix.byTeacherDay[tk], iv)

	sk := sectionDayKey{SectionID: sectionID, Day: day}
	ix.bySectionDay[sk] = insertOrdered(ix.bySectionDay[sk], iv)

	ix.byRoomSlot[roomSlotKey{RoomID: roomID, TimeslotID: timeslotID}] = struct{}{}

	if ix.teacherDays[teacherID] == nil {
		ix.teacherDays[teacherID] = make(map[timegrid.Day]int)
	}
	ix.teacherDays[teacherID][day]++
}

func anyOverlap(intervals []timegrid.Interval, iv timegrid.Interval) bool {
	for _, existing := range intervals {
		if existing.Start >= iv.End {
			break
		}
		if existing.Overlaps(iv) {
			return true
		}
	}
	return false
}

func insertOrdered(intervals []timegrid.Interval, iv timegrid.Interval) []timegrid.Interval {
	at := sort.Search(len(intervals), func(i int) bool { return intervals[i].Start >= iv.Start })
	intervals = append(intervals, timegrid.Interval{})
	copy(intervals[at+1:], intervals[at:])
	intervals[at] = iv
	return intervals
}
