package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-sched-api/internal/dto"
	"github.com/noah-isme/campus-sched-api/internal/models"
	"github.com/noah-isme/campus-sched-api/internal/timegrid"
	appErrors "github.com/noah-isme/campus-sched-api/pkg/errors"
	"github.com/noah-isme/campus-sched-api/pkg/jobs"
)

func TestSchedulingServiceStartQueuesRun(t *testing.T) {
	fx := newSchedulingFixture(t, schedulingFixtureConfig{})

	resp, err := fx.service.Start(context.Background(), dto.GenerateRunRequest{TermID: "term-1", PrioritizeSenior: true})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, models.RunStatusRunning, resp.Status)
	require.Len(t, fx.queue.jobs, 1)
	assert.Equal(t, JobTypeScheduleRun, fx.queue.jobs[0].Type)
}

func TestSchedulingServiceStartPreconditions(t *testing.T) {
	cases := []struct {
		name string
		cfg  schedulingFixtureConfig
	}{
		{name: "no teaching units", cfg: schedulingFixtureConfig{noUnits: true}},
		{name: "no active rooms", cfg: schedulingFixtureConfig{inactiveRooms: true}},
		{name: "no timeslots", cfg: schedulingFixtureConfig{noTimeslots: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fx := newSchedulingFixture(t, tc.cfg)
			_, err := fx.service.Start(context.Background(), dto.GenerateRunRequest{TermID: "term-1"})
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
			assert.Empty(t, fx.queue.jobs)
		})
	}
}

func TestSchedulingServiceStartRejectsMissingTerm(t *testing.T) {
	fx := newSchedulingFixture(t, schedulingFixtureConfig{})
	_, err := fx.service.Start(context.Background(), dto.GenerateRunRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSchedulingServiceExecuteSuccess(t *testing.T) {
	fx := newSchedulingFixture(t, schedulingFixtureConfig{})
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	require.NoError(t, fx.service.Execute(context.Background(), "run-1", "term-1", true))

	require.NotNil(t, fx.runs.updated)
	assert.Equal(t, models.RunStatusSuccess, fx.runs.updated.status)
	require.NotNil(t, fx.runs.updated.score)
	assert.Greater(t, *fx.runs.updated.score, 1000.0)
	assert.Len(t, fx.entries.inserted, 2)

	var stored dto.RunSummary
	require.NoError(t, json.Unmarshal(fx.runs.updated.summary, &stored))
	assert.Equal(t, 2, stored.Placed)
	assert.Zero(t, stored.Unplaceable)

	require.NotNil(t, fx.cache.stored)
	assert.Equal(t, "run-1", fx.cache.stored.RunID)
	assert.NoError(t, fx.mock.ExpectationsWereMet())
}

func TestSchedulingServiceExecuteInputErrorFailsRun(t *testing.T) {
	fx := newSchedulingFixture(t, schedulingFixtureConfig{noUnits: true})

	require.NoError(t, fx.service.Execute(context.Background(), "run-1", "term-1", false))
	require.NotNil(t, fx.runs.updated)
	assert.Equal(t, models.RunStatusFailed, fx.runs.updated.status)
	assert.Nil(t, fx.runs.updated.score)
	assert.Contains(t, fx.runs.updated.message, "no teaching units")
	assert.Empty(t, fx.entries.inserted)
}

func TestSchedulingServiceExecutePersistsPlantedBlocks(t *testing.T) {
	fx := newSchedulingFixture(t, schedulingFixtureConfig{saturdayOnly: true})
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	require.NoError(t, fx.service.Execute(context.Background(), "run-1", "term-1", false))
	require.Len(t, fx.dayBlocks.inserted, 1)
	block := fx.dayBlocks.inserted[0]
	assert.Equal(t, models.BlockSourceAutoSatCompOff, block.Source)
	assert.True(t, block.Day.IsWeekday())
	assert.NoError(t, fx.mock.ExpectationsWereMet())
}

func TestSchedulingServiceGetPrefersCache(t *testing.T) {
	fx := newSchedulingFixture(t, schedulingFixtureConfig{})
	cached := &dto.RunSummary{RunID: "run-9", Status: models.RunStatusSuccess}
	fx.cache.summaries["run-9"] = cached

	summary, err := fx.service.Get(context.Background(), "run-9")
	require.NoError(t, err)
	assert.Same(t, cached, summary)
	assert.Zero(t, fx.runs.findCalls)
}

func TestSchedulingServiceGetFallsBackToStore(t *testing.T) {
	fx := newSchedulingFixture(t, schedulingFixtureConfig{})
	score := 1010.0
	stored, _ := json.Marshal(dto.RunSummary{Placed: 2, ObjectiveScore: &score})
	fx.runs.byID["run-2"] = &models.ScheduleRun{ID: "run-2", TermID: "term-1", Status: models.RunStatusSuccess, ObjectiveScore: &score, Summary: stored}

	summary, err := fx.service.Get(context.Background(), "run-2")
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusSuccess, summary.Status)
	assert.Equal(t, 2, summary.Placed)

	_, err = fx.service.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

// --- Fixtures ---

type schedulingFixtureConfig struct {
	noUnits       bool
	inactiveRooms bool
	noTimeslots   bool
	saturdayOnly  bool
}

type schedulingFixture struct {
	service   *SchedulingService
	queue     *queueStub
	runs      *runRepoStub
	entries   *entryRepoStub
	dayBlocks *dayBlockRepoStub
	cache     *cacheStub
	mock      sqlmock.Sqlmock
}

func newSchedulingFixture(t *testing.T, cfg schedulingFixtureConfig) *schedulingFixture {
	t.Helper()

	rooms := []models.Room{
		{ID: "room-1", BuildingID: "bldg-a", Code: "A101", Floor: 1, Kind: models.RoomKindStandard, Capacity: 40, Active: !cfg.inactiveRooms},
		{ID: "room-2", BuildingID: "bldg-a", Code: "A102", Floor: 1, Kind: models.RoomKindStandard, Capacity: 40, Active: !cfg.inactiveRooms},
	}
	teachers := []models.Teacher{
		{ID: "teacher-1", FullName: "Alice Reyes", Status: models.TeacherStatusContractOfService, Workload: models.WorkloadPartTime, Active: true},
		{ID: "teacher-2", FullName: "Ben Cruz", Status: models.TeacherStatusPermanent, Workload: models.WorkloadFullTime, Active: true},
	}
	sections := []models.Section{
		{ID: "section-1", Code: "BSIT-2A", YearLevel: 2},
		{ID: "section-2", Code: "BSIT-2B", YearLevel: 2},
	}
	courses := []models.Course{
		{ID: "course-1", Code: "IT201", Units: 3, Kind: models.CourseKindStandard},
		{ID: "course-2", Code: "IT202", Units: 3, Kind: models.CourseKindStandard},
	}
	timeslots := []models.Timeslot{
		{ID: "slot-mon", Day: timegrid.Monday, StartTime: "07:30", EndTime: "10:30"},
		{ID: "slot-tue", Day: timegrid.Tuesday, StartTime: "07:30", EndTime: "10:30"},
	}
	if cfg.saturdayOnly {
		timeslots = []models.Timeslot{{ID: "slot-sat", Day: timegrid.Saturday, StartTime: "07:30", EndTime: "10:30", IsCWATSSlot: true}}
	}
	units := []models.TeachingUnit{
		{ID: "unit-1", TeacherID: "teacher-1", CourseID: "course-1", SectionID: "section-1", TermID: "term-1"},
		{ID: "unit-2", TeacherID: "teacher-2", CourseID: "course-2", SectionID: "section-2", TermID: "term-1"},
	}
	if cfg.saturdayOnly {
		units = units[:1]
	}
	if cfg.noUnits {
		units = nil
	}
	if cfg.noTimeslots {
		timeslots = nil
	}

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	fx := &schedulingFixture{
		queue:     &queueStub{},
		runs:      &runRepoStub{byID: map[string]*models.ScheduleRun{}},
		entries:   &entryRepoStub{},
		dayBlocks: &dayBlockRepoStub{},
		cache:     &cacheStub{summaries: map[string]*dto.RunSummary{}},
		mock:      mock,
	}
	fx.service = NewSchedulingService(
		roomRepoStub{rooms: rooms},
		teacherRepoStub{teachers: teachers},
		timeslotRepoStub{slots: timeslots},
		curriculumRepoStub{sections: sections, courses: courses, units: units},
		fx.dayBlocks,
		maintenanceRepoStub{},
		fx.runs,
		fx.entries,
		sqlx.NewDb(db, "sqlmock"),
		fx.cache,
		nil,
		validator.New(),
		zap.NewNop(),
	)
	fx.service.SetQueue(fx.queue)
	return fx
}

type roomRepoStub struct{ rooms []models.Room }

func (s roomRepoStub) ListAll(ctx context.Context) ([]models.Room, error) { return s.rooms, nil }

type teacherRepoStub struct{ teachers []models.Teacher }

func (s teacherRepoStub) ListAll(ctx context.Context) ([]models.Teacher, error) {
	return s.teachers, nil
}

type timeslotRepoStub struct{ slots []models.Timeslot }

func (s timeslotRepoStub) List(ctx context.Context) ([]models.Timeslot, error) {
	return s.slots, nil
}

type curriculumRepoStub struct {
	sections []models.Section
	courses  []models.Course
	units    []models.TeachingUnit
}

func (s curriculumRepoStub) ListSections(ctx context.Context) ([]models.Section, error) {
	return s.sections, nil
}

func (s curriculumRepoStub) ListCourses(ctx context.Context) ([]models.Course, error) {
	return s.courses, nil
}

func (s curriculumRepoStub) ListTeachingUnitsByTerm(ctx context.Context, termID string) ([]models.TeachingUnit, error) {
	return s.units, nil
}

type dayBlockRepoStub struct {
	blocks   []models.TeacherDayBlock
	inserted []models.TeacherDayBlock
}

func (s *dayBlockRepoStub) ListBlocked(ctx context.Context) ([]models.TeacherDayBlock, error) {
	return s.blocks, nil
}

func (s *dayBlockRepoStub) InsertBatch(ctx context.Context, exec sqlx.ExtContext, blocks []models.TeacherDayBlock) error {
	s.inserted = append(s.inserted, blocks...)
	return nil
}

type maintenanceRepoStub struct{}

func (maintenanceRepoStub) ListAll(ctx context.Context) ([]models.RoomMaintenanceBlock, error) {
	return nil, nil
}

type runUpdate struct {
	status  models.RunStatus
	score   *float64
	message string
	summary types.JSONText
}

type runRepoStub struct {
	byID      map[string]*models.ScheduleRun
	created   []*models.ScheduleRun
	updated   *runUpdate
	findCalls int
}

func (s *runRepoStub) Create(ctx context.Context, run *models.ScheduleRun) error {
	run.ID = "run-" + run.TermID
	s.created = append(s.created, run)
	s.byID[run.ID] = run
	return nil
}

func (s *runRepoStub) FindByID(ctx context.Context, id string) (*models.ScheduleRun, error) {
	s.findCalls++
	if run, ok := s.byID[id]; ok {
		return run, nil
	}
	return nil, sql.ErrNoRows
}

func (s *runRepoStub) ListByTerm(ctx context.Context, termID string) ([]models.ScheduleRun, error) {
	var runs []models.ScheduleRun
	for _, run := range s.byID {
		if run.TermID == termID {
			runs = append(runs, *run)
		}
	}
	return runs, nil
}

func (s *runRepoStub) UpdateResult(ctx context.Context, exec sqlx.ExtContext, id string, status models.RunStatus, score *float64, message string, summary types.JSONText) error {
	s.updated = &runUpdate{status: status, score: score, message: message, summary: summary}
	return nil
}

type entryRepoStub struct {
	inserted []models.ScheduleEntry
}

func (s *entryRepoStub) InsertBatch(ctx context.Context, exec sqlx.ExtContext, entries []models.ScheduleEntry) error {
	s.inserted = append(s.inserted, entries...)
	return nil
}

func (s *entryRepoStub) ListByRun(ctx context.Context, runID string) ([]models.ScheduleEntryDetail, error) {
	return nil, nil
}

type queueStub struct {
	jobs []jobs.Job
}

func (s *queueStub) Enqueue(job jobs.Job) error {
	s.jobs = append(s.jobs, job)
	return nil
}

type cacheStub struct {
	summaries map[string]*dto.RunSummary
	stored    *dto.RunSummary
}

func (s *cacheStub) GetRunSummary(ctx context.Context, runID string) (*dto.RunSummary, bool) {
	summary, ok := s.summaries[runID]
	return summary, ok
}

func (s *cacheStub) SetRunSummary(ctx context.Context, summary *dto.RunSummary) {
	s.stored = summary
	s.summaries[summary.RunID] = summary
}
