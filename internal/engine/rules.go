package engine

import (
	"fmt"
	"strings"

	"github.com/noah-isme/campus-sched-api/internal/models"
	"github.com/noah-isme/campus-sched-api/internal/timegrid"
)

// ViolationKind separates mandatory rules from preferences.
type ViolationKind string

const (
	ViolationHard ViolationKind = "HARD"
	ViolationSoft ViolationKind = "SOFT"
)

// Severity grades a violation for reporting.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// Violation is a single broken rule for a candidate placement.
// Violations are reporting data, never errors.
type Violation struct {
	Kind     ViolationKind `json:"kind"`
	Severity Severity      `json:"severity"`
	RuleID   string        `json:"rule_id"`
	Message  string        `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("[%s-%s] %s: %s", v.Kind, v.Severity, v.RuleID, v.Message)
}

// Candidate is one (teacher, course, section, timeslot, room) tuple
// under consideration, with the timeslot interval pre-parsed.
type Candidate struct {
	Unit     models.TeachingUnit
	Teacher  models.Teacher
	Course   models.Course
	Section  models.Section
	Timeslot models.Timeslot
	Room     models.Room
	Interval timegrid.Interval
}

// Master Rules literals external tooling relies on.
var (
	earlyStartThreshold = timegrid.MustClock("10:30")
	earlyLunchStart     = timegrid.MustClock("11:30")
	lateLunchStart      = timegrid.MustClock("14:30")

	permanentFullTimeCeiling = timegrid.MustClock("15:30")
	contractFullTimeCeiling  = timegrid.MustClock("17:30")
	eveningCeiling           = timegrid.MustClock("20:00")

	// SeniorRoomCodes are the Building A rooms preferred for senior
	// teachers (floors 1 and 2).
	SeniorRoomCodes = []string{"A103", "A104", "A203"}
)

const (
	lunchDurationMinutes = 90
	maxTeachingDays      = 5
	largeRoomCapacity    = 100
)

type rulePredicate func(c Candidate, md *MasterData, ix *ScheduleIndex) []Violation

var hardRules = []rulePredicate{
	checkRoomKindMatch,
	checkDayCeiling,
	checkLunchWindow,
	checkMaxTeachingDays,
	checkSaturdayCompensation,
	checkFirstYearCWATS,
	checkRoomMaintenance,
	checkNoOverlap,
}

var softRules = []rulePredicate{
	checkSeniorRoomPreference,
	checkLargeRoomForShortCourse,
}

func hard(ruleID string, severity Severity, format string, args ...interface{}) Violation {
	return Violation{Kind: ViolationHard, Severity: severity, RuleID: ruleID, Message: fmt.Sprintf(format, args...)}
}

func soft(ruleID string, severity Severity, format string, args ...interface{}) Violation {
	return Violation{Kind: ViolationSoft, Severity: severity, RuleID: ruleID, Message: fmt.Sprintf(format, args...)}
}

// H1: non-standard courses must sit in a room of the same kind.
func checkRoomKindMatch(c Candidate, _ *MasterData, _ *ScheduleIndex) []Violation {
	if c.Course.Kind == models.CourseKindStandard {
		return nil
	}
	if models.RoomKind(c.Course.Kind) == c.Room.Kind {
		return nil
	}
	return []Violation{hard("H1", SeverityCritical,
		"course %s requires a %s room, but %s is %s",
		c.Course.Code, c.Course.Kind, c.Room.Code, c.Room.Kind)}
}

// DayCeiling returns the latest permitted end-of-day clock for an
// employment class. ok is false when no class-specific ceiling exists;
// callers treat that as the general evening ceiling.
func DayCeiling(status models.TeacherStatus, workload models.Workload) (timegrid.Clock, bool) {
	if workload == models.WorkloadFullTime {
		switch status {
		case models.TeacherStatusPermanent:
			return permanentFullTimeCeiling, true
		case models.TeacherStatusContractOfService:
			return contractFullTimeCeiling, true
		}
	}
	return 0, false
}

// H2: the timeslot must end no later than the teacher's end-of-day ceiling.
func checkDayCeiling(c Candidate, _ *MasterData, _ *ScheduleIndex) []Violation {
	limit, ok := DayCeiling(c.Teacher.Status, c.Teacher.Workload)
	if !ok {
		limit = eveningCeiling
	}
	if c.Interval.End <= limit {
		return nil
	}
	return []Violation{hard("H2", SeverityCritical,
		"%s (%s/%s) cannot teach past %s, but timeslot ends at %s",
		c.Teacher.FullName, c.Teacher.Status, c.Teacher.Workload, limit, c.Interval.End)}
}

// LunchWindow returns the mandatory 90-minute lunch interval implied by
// a timeslot's start: before 10:30 the early window applies, otherwise
// the late one.
func LunchWindow(start timegrid.Clock) timegrid.Interval {
	anchor := lateLunchStart
	if start < earlyStartThreshold {
		anchor = earlyLunchStart
	}
	return timegrid.Interval{Start: anchor, End: anchor + lunchDurationMinutes}
}

// H3: the timeslot must not overlap the teacher's lunch window.
func checkLunchWindow(c Candidate, _ *MasterData, _ *ScheduleIndex) []Violation {
	lunch := LunchWindow(c.Interval.Start)
	if !c.Interval.Overlaps(lunch) {
		return nil
	}
	return []Violation{hard("H3", SeverityCritical,
		"timeslot %s conflicts with mandatory lunch window %s", c.Interval, lunch)}
}

// H4: a teacher's scheduled days, including this one, stay within five.
func checkMaxTeachingDays(c Candidate, _ *MasterData, ix *ScheduleIndex) []Violation {
	days := ix.TeacherDayCount(c.Teacher.ID)
	if !ix.TeacherTeachesOn(c.Teacher.ID, c.Timeslot.Day) {
		days++
	}
	if days <= maxTeachingDays {
		return nil
	}
	return []Violation{hard("H4", SeverityCritical,
		"%s would teach %d days/week, exceeding the maximum of %d",
		c.Teacher.FullName, days, maxTeachingDays)}
}

// H5: a Saturday placement requires an existing compensatory weekday
// block. The driver plants the block before proposing the candidate.
func checkSaturdayCompensation(c Candidate, md *MasterData, _ *ScheduleIndex) []Violation {
	if c.Timeslot.Day != timegrid.Saturday {
		return nil
	}
	if md.HasSaturdayCompOff(c.Teacher.ID) {
		return nil
	}
	return []Violation{hard("H5", SeverityHigh,
		"%s scheduled on Saturday without a blocked compensation weekday", c.Teacher.FullName)}
}

// H6: first-year sections on Saturday must occupy a CWATS slot.
func checkFirstYearCWATS(c Candidate, _ *MasterData, _ *ScheduleIndex) []Violation {
	if !c.Section.IsFirstYear || c.Timeslot.Day != timegrid.Saturday {
		return nil
	}
	if c.Timeslot.IsCWATSSlot {
		return nil
	}
	return []Violation{hard("H6", SeverityCritical,
		"first-year section %s on Saturday requires a CWATS slot, but %s %s is not one",
		c.Section.Code, c.Timeslot.Day, c.Interval)}
}

// H7: the room must not be under maintenance during the timeslot.
func checkRoomMaintenance(c Candidate, md *MasterData, _ *ScheduleIndex) []Violation {
	var violations []Violation
	for _, block := range md.MaintenanceFor(c.Room.ID) {
		window, covers := maintenanceWindow(block)
		if covers || c.Interval.Overlaps(window) {
			violations = append(violations, hard("H7", SeverityCritical,
				"room %s has maintenance during %s: %s", c.Room.Code, c.Interval, block.Reason))
		}
	}
	return violations
}

// maintenanceWindow projects a maintenance block onto clock-of-day
// minutes. Blocks spanning more than one calendar day cover everything.
func maintenanceWindow(block models.RoomMaintenanceBlock) (timegrid.Interval, bool) {
	sy, sm, sd := block.StartDateTime.Date()
	ey, em, ed := block.EndDateTime.Date()
	if sy != ey || sm != em || sd != ed {
		return timegrid.Interval{}, true
	}
	start := timegrid.Clock(block.StartDateTime.Hour()*60 + block.StartDateTime.Minute())
	end := timegrid.Clock(block.EndDateTime.Hour()*60 + block.EndDateTime.Minute())
	if end <= start {
		return timegrid.Interval{}, true
	}
	return timegrid.Interval{Start: start, End: end}, false
}

// H8: no teacher, section, or room collision with the partial schedule.
func checkNoOverlap(c Candidate, _ *MasterData, ix *ScheduleIndex) []Violation {
	var violations []Violation
	if !ix.IsTeacherFree(c.Teacher.ID, c.Timeslot.Day, c.Interval) {
		violations = append(violations, hard("H8", SeverityCritical,
			"%s is already scheduled during %s on %s", c.Teacher.FullName, c.Interval, c.Timeslot.Day))
	}
	if !ix.IsSectionFree(c.Section.ID, c.Timeslot.Day, c.Interval) {
		violations = append(violations, hard("H8", SeverityCritical,
			"section %s is already scheduled during %s on %s", c.Section.Code, c.Interval, c.Timeslot.Day))
	}
	if ix.IsRoomTaken(c.Room.ID, c.Timeslot.ID) {
		violations = append(violations, hard("H8", SeverityCritical,
			"room %s is already occupied during %s on %s", c.Room.Code, c.Interval, c.Timeslot.Day))
	}
	return violations
}

// S1: senior teachers prefer the Building A rooms.
func checkSeniorRoomPreference(c Candidate, _ *MasterData, _ *ScheduleIndex) []Violation {
	if !c.Teacher.IsSenior {
		return nil
	}
	for _, code := range SeniorRoomCodes {
		if c.Room.Code == code {
			return nil
		}
	}
	return []Violation{soft("S1", SeverityMedium,
		"senior teacher %s assigned to %s instead of preferred rooms %s",
		c.Teacher.FullName, c.Room.Code, strings.Join(SeniorRoomCodes, ", "))}
}

// S2: 2-unit courses should avoid rooms with capacity above 100.
func checkLargeRoomForShortCourse(c Candidate, _ *MasterData, _ *ScheduleIndex) []Violation {
	if c.Course.Units != 2.0 || c.Room.Capacity <= largeRoomCapacity {
		return nil
	}
	return []Violation{soft("S2", SeverityLow,
		"2-unit course %s assigned to large room %s (capacity %d)",
		c.Course.Code, c.Room.Code, c.Room.Capacity)}
}
