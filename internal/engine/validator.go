package engine

// Validate evaluates a candidate placement against the Master Rules.
// Every hard rule is evaluated and every failure collected; the
// candidate is feasible only when no hard violation is present. Soft
// rules are evaluated only for feasible candidates and never reject.
//
// Validate is pure with respect to its inputs: it reads the snapshot
// and the index but mutates neither, and identical inputs yield the
// identical violation set. Callers must not rely on ordering beyond
// the hard-then-soft partition.
func Validate(c Candidate, md *MasterData, ix *ScheduleIndex) (bool, []Violation) {
	var violations []Violation
	for _, check := range hardRules {
		violations = append(violations, check(c, md, ix)...)
	}
	if len(violations) > 0 {
		return false, violations
	}
	for _, check := range softRules {
		violations = append(violations, check(c, md, ix)...)
	}
	return true, violations
}
