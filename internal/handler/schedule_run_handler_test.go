package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-sched-api/internal/dto"
	"github.com/noah-isme/campus-sched-api/internal/models"
	appErrors "github.com/noah-isme/campus-sched-api/pkg/errors"
)

type schedulerStub struct {
	queued   *dto.RunQueuedResponse
	summary  *dto.RunSummary
	startErr error
	getErr   error
}

func (s schedulerStub) Start(ctx context.Context, req dto.GenerateRunRequest) (*dto.RunQueuedResponse, error) {
	return s.queued, s.startErr
}

func (s schedulerStub) Get(ctx context.Context, runID string) (*dto.RunSummary, error) {
	return s.summary, s.getErr
}

func (s schedulerStub) List(ctx context.Context, query dto.RunListQuery) ([]models.ScheduleRun, error) {
	return nil, nil
}

func (s schedulerStub) Entries(ctx context.Context, runID string) ([]models.ScheduleEntryDetail, error) {
	return nil, nil
}

type exporterStub struct {
	payload     []byte
	contentType string
	err         error
}

func (s exporterStub) Render(ctx context.Context, runID, format string) ([]byte, string, error) {
	return s.payload, s.contentType, s.err
}

func newRunRouter(scheduler runScheduler, exporter runExporter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewScheduleRunHandler(scheduler, exporter)
	r.POST("/schedule/runs", h.Generate)
	r.GET("/schedule/runs/:id", h.Get)
	r.GET("/schedule/runs/:id/export", h.Export)
	return r
}

func TestScheduleRunHandlerGenerateAccepted(t *testing.T) {
	router := newRunRouter(schedulerStub{
		queued: &dto.RunQueuedResponse{RunID: "run-1", TermID: "term-1", Status: models.RunStatusRunning},
	}, exporterStub{})

	body := strings.NewReader(`{"termId":"term-1","prioritizeSenior":true}`)
	req := httptest.NewRequest(http.MethodPost, "/schedule/runs", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)
	var envelope struct {
		Data dto.RunQueuedResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "run-1", envelope.Data.RunID)
	assert.Equal(t, models.RunStatusRunning, envelope.Data.Status)
}

func TestScheduleRunHandlerGenerateRejectsBadJSON(t *testing.T) {
	router := newRunRouter(schedulerStub{}, exporterStub{})

	req := httptest.NewRequest(http.MethodPost, "/schedule/runs", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleRunHandlerGetPropagatesNotFound(t *testing.T) {
	router := newRunRouter(schedulerStub{getErr: appErrors.Clone(appErrors.ErrNotFound, "schedule run not found")}, exporterStub{})

	req := httptest.NewRequest(http.MethodGet, "/schedule/runs/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScheduleRunHandlerExportSetsDisposition(t *testing.T) {
	router := newRunRouter(schedulerStub{}, exporterStub{payload: []byte("Day,Start\n"), contentType: "text/csv"})

	req := httptest.NewRequest(http.MethodGet, "/schedule/runs/run-1/export?format=csv", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "schedule-run-1.csv")
}
