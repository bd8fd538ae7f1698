package engine

import (
	"github.com/noah-isme/campus-sched-api/internal/models"
	"github.com/noah-isme/campus-sched-api/internal/timegrid"
)

// Scoring weights. Higher scores are better; every soft violation costs
// ten points, every placement earns five, and section idle time between
// same-day classes is charged per hour.
const (
	baseScore         = 1000.0
	softViolationCost = 10.0
	assignmentBonus   = 5.0
	gapPenaltyPerHour = 2.0
)

// Result is the outcome of a scheduling run.
type Result struct {
	Status         models.RunStatus         `json:"status"`
	ObjectiveScore float64                  `json:"objective_score"`
	Assignments    []Assignment             `json:"assignments"`
	Unplaced       []Unplaced               `json:"unplaced,omitempty"`
	SoftViolations []Violation              `json:"soft_violations,omitempty"`
	GapPenalty     float64                  `json:"gap_penalty"`
	PlantedBlocks  []models.TeacherDayBlock `json:"planted_blocks,omitempty"`
}

// Placed returns the number of committed assignments.
func (r *Result) Placed() int { return len(r.Assignments) }

// finalize computes the objective score and terminal status for a
// completed search.
func finalize(r *Result, md *MasterData, ix *ScheduleIndex) {
	r.GapPenalty = sectionGapPenalty(md, ix)
	r.ObjectiveScore = baseScore -
		softViolationCost*float64(len(r.SoftViolations)) +
		assignmentBonus*float64(len(r.Assignments)) -
		r.GapPenalty
	if r.ObjectiveScore < 0 {
		r.ObjectiveScore = 0
	}

	switch {
	case hasCommittedHardViolation(r):
		// Unreachable under a correct validator; kept as a diagnostic
		// guard so a regression surfaces as Fail instead of Success.
		r.Status = models.RunStatusFailed
	case len(r.Unplaced) > 0:
		r.Status = models.RunStatusPartialFail
	default:
		r.Status = models.RunStatusSuccess
	}
}

func hasCommittedHardViolation(r *Result) bool {
	for _, a := range r.Assignments {
		for _, v := range a.Soft {
			if v.Kind == ViolationHard {
				return true
			}
		}
	}
	return false
}

// sectionGapPenalty charges each section for idle time between its
// classes within a day.
func sectionGapPenalty(md *MasterData, ix *ScheduleIndex) float64 {
	var penalty float64
	for sectionID := range md.Sections {
		for day := timegrid.Monday; day <= timegrid.Saturday; day++ {
			intervals := ix.SectionIntervals(sectionID, day)
			for i := 0; i+1 < len(intervals); i++ {
				gap := intervals[i].GapTo(intervals[i+1])
				penalty += gapPenaltyPerHour * float64(gap) / 60.0
			}
		}
	}
	return penalty
}
