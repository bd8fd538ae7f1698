package dto

import (
	"github.com/noah-isme/campus-sched-api/internal/engine"
	"github.com/noah-isme/campus-sched-api/internal/models"
)

// GenerateRunRequest starts a scheduling run for a term.
type GenerateRunRequest struct {
	TermID           string `json:"termId" validate:"required"`
	PrioritizeSenior bool   `json:"prioritizeSenior"`
	CreatedBy        string `json:"createdBy"`
}

// RunQueuedResponse acknowledges an accepted run request.
type RunQueuedResponse struct {
	RunID  string           `json:"runId"`
	TermID string           `json:"termId"`
	Status models.RunStatus `json:"status"`
}

// RunSummary is the reportable outcome of a scheduling run. It is also
// the payload cached and stored in the run record's summary column.
type RunSummary struct {
	RunID          string             `json:"runId"`
	TermID         string             `json:"termId"`
	Status         models.RunStatus   `json:"status"`
	ObjectiveScore *float64           `json:"objectiveScore,omitempty"`
	Message        string             `json:"message,omitempty"`
	Placed         int                `json:"placed"`
	Unplaceable    int                `json:"unplaceable"`
	GapPenalty     float64            `json:"gapPenalty"`
	SoftViolations []engine.Violation `json:"softViolations,omitempty"`
	Unplaced       []engine.Unplaced  `json:"unplaced,omitempty"`
}

// RunListQuery filters run listings.
type RunListQuery struct {
	TermID string `form:"termId" json:"termId"`
}

// ExportQuery selects the rendering for a run export.
type ExportQuery struct {
	Format string `form:"format" json:"format" validate:"omitempty,oneof=csv pdf"`
}
