package engine

import (
	"sort"

	"github.com/noah-isme/campus-sched-api/internal/models"
)

// employmentRank orders employment classes for placement priority:
// permanent full-timers first, visiting staff last.
func employmentRank(t models.Teacher) int {
	switch {
	case t.Status == models.TeacherStatusPermanent && t.Workload == models.WorkloadFullTime:
		return 0
	case t.Status == models.TeacherStatusContractOfService && t.Workload == models.WorkloadFullTime:
		return 1
	case t.Status == models.TeacherStatusPermanent && t.Workload == models.WorkloadPartTime:
		return 2
	case t.Status == models.TeacherStatusContractOfService && t.Workload == models.WorkloadPartTime:
		return 3
	default:
		return 4
	}
}

// OrderUnits returns the teaching units in deterministic placement
// order: seniors first when requested, then by employment class, then
// first-year sections, with the unit id as the final tiebreak so
// repeated runs on the same inputs place identically.
func OrderUnits(md *MasterData, prioritizeSenior bool) []models.TeachingUnit {
	units := make([]models.TeachingUnit, len(md.Units))
	copy(units, md.Units)

	sort.SliceStable(units, func(i, j int) bool {
		a, b := units[i], units[j]
		ar, br := unitRank(md, a, prioritizeSenior), unitRank(md, b, prioritizeSenior)
		for k := range ar {
			if ar[k] != br[k] {
				return ar[k] < br[k]
			}
		}
		return a.ID < b.ID
	})
	return units
}

func unitRank(md *MasterData, unit models.TeachingUnit, prioritizeSenior bool) [3]int {
	teacher := md.Teachers[unit.TeacherID]
	section := md.Sections[unit.SectionID]

	senior := 1
	if prioritizeSenior && teacher.IsSenior {
		senior = 0
	}
	firstYear := 1
	if section.IsFirstYear {
		firstYear = 0
	}
	return [3]int{senior, employmentRank(teacher), firstYear}
}
