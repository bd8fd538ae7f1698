package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-sched-api/internal/models"
	"github.com/noah-isme/campus-sched-api/internal/timegrid"
)

// --- Fixture builders ---

func fixtureRoom(id, code string, kind models.RoomKind, capacity int) models.Room {
	return models.Room{ID: id, BuildingID: "bldg-" + code[:1], Code: code, Floor: 1, Kind: kind, Capacity: capacity, Active: true}
}

func fixtureTeacher(id, name string, status models.TeacherStatus, workload models.Workload, senior bool) models.Teacher {
	return models.Teacher{ID: id, FullName: name, Title: "INSTRUCTOR_I", Status: status, Workload: workload, IsSenior: senior, Active: true}
}

func fixtureCourse(id, code string, kind models.CourseKind, units float64) models.Course {
	return models.Course{ID: id, Code: code, Name: code, Units: units, Kind: kind, DurationMinutes: 180}
}

func fixtureSection(id, code string, firstYear bool) models.Section {
	year := 2
	if firstYear {
		year = 1
	}
	return models.Section{ID: id, Code: code, YearLevel: year, IsFirstYear: firstYear}
}

func fixtureTimeslot(id string, day timegrid.Day, start, end string, cwats bool) models.Timeslot {
	return models.Timeslot{ID: id, Day: day, StartTime: start, EndTime: end, IsCWATSSlot: cwats}
}

func fixtureUnit(id, teacherID, courseID, sectionID string) models.TeachingUnit {
	return models.TeachingUnit{ID: id, TeacherID: teacherID, CourseID: courseID, SectionID: sectionID, TermID: "term-1"}
}

// baseSnapshot returns a feasible single-unit snapshot tests mutate.
func baseSnapshot() SnapshotInput {
	return SnapshotInput{
		TermID:   "term-1",
		Rooms:    []models.Room{fixtureRoom("room-1", "A101", models.RoomKindStandard, 40)},
		Teachers: []models.Teacher{fixtureTeacher("teacher-1", "Alice Reyes", models.TeacherStatusPermanent, models.WorkloadFullTime, false)},
		Sections: []models.Section{fixtureSection("section-1", "BSIT-2A", false)},
		Courses:  []models.Course{fixtureCourse("course-1", "IT201", models.CourseKindStandard, 3)},
		Timeslots: []models.Timeslot{
			fixtureTimeslot("slot-mon-am", timegrid.Monday, "07:30", "10:30", false),
		},
		Units: []models.TeachingUnit{fixtureUnit("unit-1", "teacher-1", "course-1", "section-1")},
	}
}

func mustMaster(t *testing.T, in SnapshotInput) *MasterData {
	t.Helper()
	md, err := NewMasterData(in)
	require.NoError(t, err)
	return md
}

func candidateFor(md *MasterData, unitID, timeslotID, roomID string) Candidate {
	var unit models.TeachingUnit
	for _, u := range md.Units {
		if u.ID == unitID {
			unit = u
		}
	}
	var ts models.Timeslot
	for _, slot := range md.Timeslots {
		if slot.ID == timeslotID {
			ts = slot
		}
	}
	var room models.Room
	for _, r := range md.Rooms {
		if r.ID == roomID {
			room = r
		}
	}
	return Candidate{
		Unit:     unit,
		Teacher:  md.Teachers[unit.TeacherID],
		Course:   md.Courses[unit.CourseID],
		Section:  md.Sections[unit.SectionID],
		Timeslot: ts,
		Room:     room,
		Interval: md.Interval(ts.ID),
	}
}

func ruleIDs(violations []Violation) []string {
	ids := make([]string, 0, len(violations))
	for _, v := range violations {
		ids = append(ids, v.RuleID)
	}
	return ids
}
