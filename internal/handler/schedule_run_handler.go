package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-sched-api/internal/dto"
	"github.com/noah-isme/campus-sched-api/internal/models"
	appErrors "github.com/noah-isme/campus-sched-api/pkg/errors"
	"github.com/noah-isme/campus-sched-api/pkg/response"
)

type runScheduler interface {
	Start(ctx context.Context, req dto.GenerateRunRequest) (*dto.RunQueuedResponse, error)
	Get(ctx context.Context, runID string) (*dto.RunSummary, error)
	List(ctx context.Context, query dto.RunListQuery) ([]models.ScheduleRun, error)
	Entries(ctx context.Context, runID string) ([]models.ScheduleEntryDetail, error)
}

type runExporter interface {
	Render(ctx context.Context, runID, format string) ([]byte, string, error)
}

// ScheduleRunHandler exposes the scheduling-run endpoints.
type ScheduleRunHandler struct {
	scheduler runScheduler
	exporter  runExporter
}

// NewScheduleRunHandler constructs the handler.
func NewScheduleRunHandler(scheduler runScheduler, exporter runExporter) *ScheduleRunHandler {
	return &ScheduleRunHandler{scheduler: scheduler, exporter: exporter}
}

// Generate godoc
// @Summary Start a scheduling run for a term
// @Description Validates preconditions and queues the constraint solver; poll the run for its outcome.
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.GenerateRunRequest true "Generate run payload"
// @Success 202 {object} response.Envelope
// @Router /schedule/runs [post]
func (h *ScheduleRunHandler) Generate(c *gin.Context) {
	var req dto.GenerateRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	resp, err := h.scheduler.Start(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, resp, nil)
}

// List godoc
// @Summary List scheduling runs for a term
// @Tags Scheduler
// @Produce json
// @Param termId query string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /schedule/runs [get]
func (h *ScheduleRunHandler) List(c *gin.Context) {
	query := dto.RunListQuery{TermID: c.Query("termId")}
	runs, err := h.scheduler.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, runs, nil)
}

// Get godoc
// @Summary Get a run summary with violations and score
// @Tags Scheduler
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Router /schedule/runs/{id} [get]
func (h *ScheduleRunHandler) Get(c *gin.Context) {
	summary, err := h.scheduler.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Entries godoc
// @Summary List a run's committed assignments
// @Tags Scheduler
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Router /schedule/runs/{id}/entries [get]
func (h *ScheduleRunHandler) Entries(c *gin.Context) {
	entries, err := h.scheduler.Entries(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Export godoc
// @Summary Export a run's timetable as CSV or PDF
// @Tags Scheduler
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Run ID"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} binary
// @Router /schedule/runs/{id}/export [get]
func (h *ScheduleRunHandler) Export(c *gin.Context) {
	runID := c.Param("id")
	format := c.DefaultQuery("format", "csv")
	payload, contentType, err := h.exporter.Render(c.Request.Context(), runID, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("schedule-%s.%s", runID, format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
