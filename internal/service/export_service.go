package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-sched-api/internal/models"
	appErrors "github.com/noah-isme/campus-sched-api/pkg/errors"
	"github.com/noah-isme/campus-sched-api/pkg/export"
)

type entryLister interface {
	ListByRun(ctx context.Context, runID string) ([]models.ScheduleEntryDetail, error)
}

type runFinder interface {
	FindByID(ctx context.Context, id string) (*models.ScheduleRun, error)
}

// ExportService renders a run's committed timetable as CSV or PDF.
type ExportService struct {
	runs    runFinder
	entries entryLister
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
}

// NewExportService wires export dependencies.
func NewExportService(runs runFinder, entries entryLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		runs:    runs,
		entries: entries,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
	}
}

var exportHeaders = []string{"Day", "Start", "End", "Section", "Course", "Teacher", "Room"}

// Render produces the export payload plus its content type.
func (s *ExportService) Render(ctx context.Context, runID, format string) ([]byte, string, error) {
	run, err := s.runs.FindByID(ctx, runID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "schedule run not found")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule run")
	}
	if run.Status != models.RunStatusSuccess && run.Status != models.RunStatusPartialFail {
		return nil, "", appErrors.Clone(appErrors.ErrPreconditionFailed, "run has no committed schedule to export")
	}

	entries, err := s.entries.ListByRun(ctx, runID)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entries")
	}
	dataset := buildDataset(entries)

	switch strings.ToLower(format) {
	case "", "csv":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv", nil
	case "pdf":
		title := fmt.Sprintf("Term %s schedule (run %s)", run.TermID, run.ID)
		payload, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func buildDataset(entries []models.ScheduleEntryDetail) export.Dataset {
	rows := make([]map[string]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, map[string]string{
			"Day":     e.Day,
			"Start":   e.StartTime,
			"End":     e.EndTime,
			"Section": e.SectionCode,
			"Course":  e.CourseCode,
			"Teacher": e.TeacherName,
			"Room":    e.RoomCode,
		})
	}
	return export.Dataset{Headers: exportHeaders, Rows: rows}
}
