package engine

import (
	"go.uber.org/zap"

	"github.com/noah-isme/campus-sched-api/internal/models"
	"github.com/noah-isme/campus-sched-api/internal/timegrid"
)

// Assignment is one committed placement.
type Assignment struct {
	TeachingUnitID string      `json:"teaching_unit_id"`
	TeacherID      string      `json:"teacher_id"`
	SectionID      string      `json:"section_id"`
	CourseID       string      `json:"course_id"`
	TimeslotID     string      `json:"timeslot_id"`
	RoomID         string      `json:"room_id"`
	Soft           []Violation `json:"soft,omitempty"`
}

// Unplaced records a teaching unit that exhausted every candidate.
type Unplaced struct {
	TeachingUnitID string      `json:"teaching_unit_id"`
	Reasons        []Violation `json:"reasons,omitempty"`
}

// Driver runs the greedy first-fit search: units in priority order,
// candidates in deterministic (timeslot, room) order, first feasible
// pair committed. Unplaceable units are recorded and never retried.
type Driver struct {
	md     *MasterData
	ix     *ScheduleIndex
	logger *zap.Logger
}

// NewDriver builds a driver over a validated snapshot.
func NewDriver(md *MasterData, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{md: md, ix: NewScheduleIndex(), logger: logger}
}

// Run places every teaching unit it can and returns the scored result.
func (d *Driver) Run(prioritizeSenior bool) *Result {
	result := &Result{}
	units := OrderUnits(d.md, prioritizeSenior)

	for _, unit := range units {
		assignment, reasons := d.place(unit)
		if assignment == nil {
			d.logger.Warn("teaching unit unplaceable",
				zap.String("unit_id", unit.ID),
				zap.String("teacher_id", unit.TeacherID),
				zap.Int("distinct_reasons", len(reasons)))
			result.Unplaced = append(result.Unplaced, Unplaced{TeachingUnitID: unit.ID, Reasons: reasons})
			continue
		}
		result.Assignments = append(result.Assignments, *assignment)
		result.SoftViolations = append(result.SoftViolations, assignment.Soft...)
	}

	result.PlantedBlocks = d.md.PlantedBlocks()
	finalize(result, d.md, d.ix)
	return result
}

// place tries every (timeslot, room) candidate for the unit and commits
// the first feasible one. The returned reasons are the distinct hard
// violations observed across rejected candidates.
func (d *Driver) place(unit models.TeachingUnit) (*Assignment, []Violation) {
	teacher := d.md.Teachers[unit.TeacherID]
	course := d.md.Courses[unit.CourseID]
	section := d.md.Sections[unit.SectionID]

	seen := make(map[string]struct{})
	var reasons []Violation

	for _, ts := range d.md.Timeslots {
		if d.md.IsDayBlocked(teacher.ID, ts.Day) {
			continue
		}

		// A first Saturday for this teacher needs a compensatory
		// weekday reserved before the candidate can pass H5. The
		// reservation is tentative until a Saturday placement commits.
		planted := false
		var compDay timegrid.Day
		if ts.Day == timegrid.Saturday && !d.md.HasSaturdayCompOff(teacher.ID) {
			day, ok := d.chooseCompOffDay(teacher.ID)
			if !ok {
				continue
			}
			d.md.PlantCompOff(teacher.ID, day)
			planted, compDay = true, day
		}

		for _, room := range d.md.Rooms {
			candidate := Candidate{
				Unit:     unit,
				Teacher:  teacher,
				Course:   course,
				Section:  section,
				Timeslot: ts,
				Room:     room,
				Interval: d.md.Interval(ts.ID),
			}
			feasible, violations := Validate(candidate, d.md, d.ix)
			if !feasible {
				for _, v := range violations {
					if v.Kind != ViolationHard {
						continue
					}
					if _, dup := seen[v.Message]; dup {
						continue
					}
					seen[v.Message] = struct{}{}
					reasons = append(reasons, v)
				}
				continue
			}

			d.ix.Commit(teacher.ID, section.ID, room.ID, ts.ID, ts.Day, candidate.Interval)
			d.logger.Debug("teaching unit placed",
				zap.String("unit_id", unit.ID),
				zap.String("teacher_id", teacher.ID),
				zap.String("room", room.Code),
				zap.String("day", ts.Day.String()),
				zap.String("window", candidate.Interval.String()))
			assignment := &Assignment{
				TeachingUnitID: unit.ID,
				TeacherID:      teacher.ID,
				SectionID:      section.ID,
				CourseID:       course.ID,
				TimeslotID:     ts.ID,
				RoomID:         room.ID,
				Soft:           violations,
			}
			return assignment, reasons
		}

		if planted {
			d.md.UnplantCompOff(teacher.ID, compDay)
		}
	}

	return nil, reasons
}

// chooseCompOffDay picks the weekday with the fewest commitments for
// the teacher, skipping days already blocked. Iteration runs Monday to
// Friday with strict improvement so the choice is deterministic.
func (d *Driver) chooseCompOffDay(teacherID string) (timegrid.Day, bool) {
	best := timegrid.Day(0)
	bestLoad := -1
	for _, day := range timegrid.Weekdays() {
		if d.md.IsDayBlocked(teacherID, day) {
			continue
		}
		load := d.ix.TeacherDayLoad(teacherID, day)
		if bestLoad < 0 || load < bestLoad {
			best, bestLoad = day, load
		}
	}
	return best, bestLoad >= 0
}
