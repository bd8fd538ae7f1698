package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-sched-api/internal/dto"
	"github.com/noah-isme/campus-sched-api/internal/engine"
	"github.com/noah-isme/campus-sched-api/internal/models"
	appErrors "github.com/noah-isme/campus-sched-api/pkg/errors"
	"github.com/noah-isme/campus-sched-api/pkg/jobs"
)

type roomFetcher interface {
	ListAll(ctx context.Context) ([]models.Room, error)
}

type teacherFetcher interface {
	ListAll(ctx context.Context) ([]models.Teacher, error)
}

type timeslotFetcher interface {
	List(ctx context.Context) ([]models.Timeslot, error)
}

type curriculumFetcher interface {
	ListSections(ctx context.Context) ([]models.Section, error)
	ListCourses(ctx context.Context) ([]models.Course, error)
	ListTeachingUnitsByTerm(ctx context.Context, termID string) ([]models.TeachingUnit, error)
}

type dayBlockRepository interface {
	ListBlocked(ctx context.Context) ([]models.TeacherDayBlock, error)
	InsertBatch(ctx context.Context, exec sqlx.ExtContext, blocks []models.TeacherDayBlock) error
}

type maintenanceFetcher interface {
	ListAll(ctx context.Context) ([]models.RoomMaintenanceBlock, error)
}

type runRepository interface {
	Create(ctx context.Context, run *models.ScheduleRun) error
	FindByID(ctx context.Context, id string) (*models.ScheduleRun, error)
	ListByTerm(ctx context.Context, termID string) ([]models.ScheduleRun, error)
	UpdateResult(ctx context.Context, exec sqlx.ExtContext, id string, status models.RunStatus, score *float64, message string, summary types.JSONText) error
}

type entryRepository interface {
	InsertBatch(ctx context.Context, exec sqlx.ExtContext, entries []models.ScheduleEntry) error
	ListByRun(ctx context.Context, runID string) ([]models.ScheduleEntryDetail, error)
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type runEnqueuer interface {
	Enqueue(job jobs.Job) error
}

type runSummaryCache interface {
	GetRunSummary(ctx context.Context, runID string) (*dto.RunSummary, bool)
	SetRunSummary(ctx context.Context, summary *dto.RunSummary)
}

type runMetrics interface {
	ObserveRun(status models.RunStatus, placed, unplaceable, softViolations int)
}

// SchedulingService orchestrates constraint-based schedule generation:
// it validates run preconditions, executes the engine over a master-data
// snapshot, and persists the committed assignments.
type SchedulingService struct {
	rooms       roomFetcher
	teachers    teacherFetcher
	timeslots   timeslotFetcher
	curriculum  curriculumFetcher
	dayBlocks   dayBlockRepository
	maintenance maintenanceFetcher
	runs        runRepository
	entries     entryRepository
	tx          txProvider
	queue       runEnqueuer
	cache       runSummaryCache
	metrics     runMetrics
	validator   *validator.Validate
	logger      *zap.Logger
}

// JobTypeScheduleRun identifies scheduling jobs on the queue.
const JobTypeScheduleRun = "schedule_run"

// NewSchedulingService wires scheduler dependencies.
func NewSchedulingService(
	rooms roomFetcher,
	teachers teacherFetcher,
	timeslots timeslotFetcher,
	curriculum curriculumFetcher,
	dayBlocks dayBlockRepository,
	maintenance maintenanceFetcher,
	runs runRepository,
	entries entryRepository,
	tx txProvider,
	cache runSummaryCache,
	metrics runMetrics,
	validate *validator.Validate,
	logger *zap.Logger,
) *SchedulingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchedulingService{
		rooms:       rooms,
		teachers:    teachers,
		timeslots:   timeslots,
		curriculum:  curriculum,
		dayBlocks:   dayBlocks,
		maintenance: maintenance,
		runs:        runs,
		entries:     entries,
		tx:          tx,
		cache:       cache,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// SetQueue attaches the job queue used for asynchronous execution. The
// queue's handler must call Execute.
func (s *SchedulingService) SetQueue(queue runEnqueuer) {
	s.queue = queue
}

// Start validates preconditions, records a RUNNING run, and enqueues
// the generation job. The engine itself runs on a queue worker.
func (s *SchedulingService) Start(ctx context.Context, req dto.GenerateRunRequest) (*dto.RunQueuedResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule run payload")
	}
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "run queue unavailable")
	}

	units, err := s.curriculum.ListTeachingUnitsByTerm(ctx, req.TermID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teaching units")
	}
	if len(units) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, fmt.Sprintf("no teaching units defined for term %s", req.TermID))
	}
	rooms, err := s.rooms.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	if !anyActiveRoom(rooms) {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no active rooms available")
	}
	timeslots, err := s.timeslots.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timeslots")
	}
	if len(timeslots) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no timeslots configured")
	}

	run := &models.ScheduleRun{
		TermID:    req.TermID,
		Status:    models.RunStatusRunning,
		CreatedBy: req.CreatedBy,
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule run")
	}

	payload := runJobPayload{RunID: run.ID, TermID: run.TermID, PrioritizeSenior: req.PrioritizeSenior}
	if err := s.queue.Enqueue(jobs.Job{ID: run.ID, Type: JobTypeScheduleRun, Payload: payload}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue schedule run")
	}

	s.logger.Info("schedule run queued",
		zap.String("run_id", run.ID),
		zap.String("term_id", run.TermID),
		zap.Bool("prioritize_senior", req.PrioritizeSenior))

	return &dto.RunQueuedResponse{RunID: run.ID, TermID: run.TermID, Status: run.Status}, nil
}

type runJobPayload struct {
	RunID            string `json:"runId"`
	TermID           string `json:"termId"`
	PrioritizeSenior bool   `json:"prioritizeSenior"`
}

// HandleJob adapts queue jobs onto Execute.
func (s *SchedulingService) HandleJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(runJobPayload)
	if !ok {
		return fmt.Errorf("unexpected payload type %T for job %s", job.Payload, job.ID)
	}
	return s.Execute(ctx, payload.RunID, payload.TermID, payload.PrioritizeSenior)
}

// Execute runs the engine for a previously created run record and
// persists the outcome. Input errors and internal faults terminate the
// run as FAILED; the scheduler never retries.
func (s *SchedulingService) Execute(ctx context.Context, runID, termID string, prioritizeSenior bool) error {
	md, err := s.buildSnapshot(ctx, termID)
	if err != nil {
		s.failRun(ctx, runID, termID, err.Error())
		return nil
	}

	result := engine.NewDriver(md, s.logger.Named("engine")).Run(prioritizeSenior)

	summary := &dto.RunSummary{
		RunID:          runID,
		TermID:         termID,
		Status:         result.Status,
		ObjectiveScore: &result.ObjectiveScore,
		Placed:         result.Placed(),
		Unplaceable:    len(result.Unplaced),
		GapPenalty:     result.GapPenalty,
		SoftViolations: result.SoftViolations,
		Unplaced:       result.Unplaced,
	}
	summary.Message = fmt.Sprintf("%d of %d teaching units placed", result.Placed(), len(md.Units))

	if err := s.persistResult(ctx, runID, result, summary); err != nil {
		s.logger.Error("failed to persist schedule run", zap.String("run_id", runID), zap.Error(err))
		s.failRun(ctx, runID, termID, "failed to persist run result")
		return nil
	}

	if s.cache != nil {
		s.cache.SetRunSummary(ctx, summary)
	}
	if s.metrics != nil {
		s.metrics.ObserveRun(result.Status, result.Placed(), len(result.Unplaced), len(result.SoftViolations))
	}
	s.logger.Info("schedule run completed",
		zap.String("run_id", runID),
		zap.String("status", string(result.Status)),
		zap.Float64("objective_score", result.ObjectiveScore),
		zap.Int("placed", result.Placed()),
		zap.Int("unplaceable", len(result.Unplaced)))
	return nil
}

func (s *SchedulingService) buildSnapshot(ctx context.Context, termID string) (*engine.MasterData, error) {
	rooms, err := s.rooms.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	teachers, err := s.teachers.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load teachers: %w", err)
	}
	sections, err := s.curriculum.ListSections(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sections: %w", err)
	}
	courses, err := s.curriculum.ListCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}
	timeslots, err := s.timeslots.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load timeslots: %w", err)
	}
	units, err := s.curriculum.ListTeachingUnitsByTerm(ctx, termID)
	if err != nil {
		return nil, fmt.Errorf("load teaching units: %w", err)
	}
	blocks, err := s.dayBlocks.ListBlocked(ctx)
	if err != nil {
		return nil, fmt.Errorf("load day blocks: %w", err)
	}
	maintenance, err := s.maintenance.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load maintenance blocks: %w", err)
	}

	return engine.NewMasterData(engine.SnapshotInput{
		TermID:      termID,
		Rooms:       rooms,
		Teachers:    teachers,
		Sections:    sections,
		Courses:     courses,
		Timeslots:   timeslots,
		Units:       units,
		DayBlocks:   blocks,
		Maintenance: maintenance,
	})
}

// persistResult writes the entries, planted compensation blocks, and
// terminal run state in one transaction.
func (s *SchedulingService) persistResult(ctx context.Context, runID string, result *engine.Result, summary *dto.RunSummary) error {
	if s.tx == nil {
		return errors.New("transaction provider missing")
	}
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	entries := make([]models.ScheduleEntry, 0, len(result.Assignments))
	for _, a := range result.Assignments {
		entries = append(entries, models.ScheduleEntry{
			RunID:          runID,
			TeachingUnitID: a.TeachingUnitID,
			TeacherID:      a.TeacherID,
			SectionID:      a.SectionID,
			CourseID:       a.CourseID,
			RoomID:         a.RoomID,
			TimeslotID:     a.TimeslotID,
		})
	}
	if err = s.entries.InsertBatch(ctx, tx, entries); err != nil {
		return err
	}
	if len(result.PlantedBlocks) > 0 {
		if err = s.dayBlocks.InsertBatch(ctx, tx, result.PlantedBlocks); err != nil {
			return err
		}
	}

	var summaryJSON types.JSONText
	summaryJSON, err = json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode run summary: %w", err)
	}
	if err = s.runs.UpdateResult(ctx, tx, runID, result.Status, summary.ObjectiveScore, summary.Message, summaryJSON); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// failRun marks a run FAILED with an explanatory message.
func (s *SchedulingService) failRun(ctx context.Context, runID, termID, message string) {
	if err := s.runs.UpdateResult(ctx, nil, runID, models.RunStatusFailed, nil, message, nil); err != nil {
		s.logger.Error("failed to mark run as failed", zap.String("run_id", runID), zap.Error(err))
		return
	}
	if s.cache != nil {
		s.cache.SetRunSummary(ctx, &dto.RunSummary{RunID: runID, TermID: termID, Status: models.RunStatusFailed, Message: message})
	}
	if s.metrics != nil {
		s.metrics.ObserveRun(models.RunStatusFailed, 0, 0, 0)
	}
	s.logger.Warn("schedule run failed", zap.String("run_id", runID), zap.String("message", message))
}

// Get returns the run summary, serving warm results from the cache.
func (s *SchedulingService) Get(ctx context.Context, runID string) (*dto.RunSummary, error) {
	if runID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "run id is required")
	}
	if s.cache != nil {
		if summary, ok := s.cache.GetRunSummary(ctx, runID); ok {
			return summary, nil
		}
	}

	run, err := s.runs.FindByID(ctx, runID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule run not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule run")
	}

	summary := &dto.RunSummary{
		RunID:          run.ID,
		TermID:         run.TermID,
		Status:         run.Status,
		ObjectiveScore: run.ObjectiveScore,
		Message:        run.Message,
	}
	if len(run.Summary) > 0 {
		stored := dto.RunSummary{}
		if err := json.Unmarshal(run.Summary, &stored); err == nil {
			stored.RunID = run.ID
			stored.TermID = run.TermID
			stored.Status = run.Status
			summary = &stored
		}
	}
	if s.cache != nil && run.Status != models.RunStatusRunning {
		s.cache.SetRunSummary(ctx, summary)
	}
	return summary, nil
}

// List returns the runs recorded for a term.
func (s *SchedulingService) List(ctx context.Context, query dto.RunListQuery) ([]models.ScheduleRun, error) {
	if query.TermID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "termId is required")
	}
	runs, err := s.runs.ListByTerm(ctx, query.TermID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule runs")
	}
	return runs, nil
}

// Entries returns the committed assignments of a run.
func (s *SchedulingService) Entries(ctx context.Context, runID string) ([]models.ScheduleEntryDetail, error) {
	if runID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "run id is required")
	}
	if _, err := s.runs.FindByID(ctx, runID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule run not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule run")
	}
	entries, err := s.entries.ListByRun(ctx, runID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule entries")
	}
	return entries, nil
}

func anyActiveRoom(rooms []models.Room) bool {
	for _, room := range rooms {
		if room.Active {
			return true
		}
	}
	return false
}
