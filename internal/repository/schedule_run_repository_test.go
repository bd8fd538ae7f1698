package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-sched-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestScheduleRunRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRunRepository(db)

	mock.ExpectExec("INSERT INTO schedule_runs").
		WithArgs(sqlmock.AnyArg(), "term-1", models.RunStatusRunning, nil, "", sqlmock.AnyArg(), "registrar", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	run := &models.ScheduleRun{TermID: "term-1", Status: models.RunStatusRunning, CreatedBy: "registrar"}
	require.NoError(t, repo.Create(context.Background(), run))
	assert.NotEmpty(t, run.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRunRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRunRepository(db)

	score := 1015.0
	rows := sqlmock.NewRows([]string{"id", "term_id", "status", "objective_score", "message", "summary", "created_by", "created_at", "updated_at"}).
		AddRow("run-1", "term-1", "SUCCESS", score, "", []byte(`{}`), "registrar", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, term_id, status, objective_score, message, summary, created_by, created_at, updated_at FROM schedule_runs WHERE id = $1")).
		WithArgs("run-1").
		WillReturnRows(rows)

	run, err := repo.FindByID(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusSuccess, run.Status)
	require.NotNil(t, run.ObjectiveScore)
	assert.Equal(t, score, *run.ObjectiveScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRunRepositoryUpdateResult(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRunRepository(db)

	score := 996.0
	mock.ExpectExec("UPDATE schedule_runs SET").
		WithArgs("run-1", models.RunStatusPartialFail, &score, "2 units unplaceable", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.UpdateResult(context.Background(), db, "run-1", models.RunStatusPartialFail, &score, "2 units unplaceable", []byte(`{}`))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleEntryRepositoryInsertBatch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleEntryRepository(db)

	entries := []models.ScheduleEntry{
		{RunID: "run-1", TeachingUnitID: "unit-1", TeacherID: "t1", SectionID: "s1", CourseID: "c1", RoomID: "r1", TimeslotID: "ts1"},
		{RunID: "run-1", TeachingUnitID: "unit-2", TeacherID: "t2", SectionID: "s2", CourseID: "c2", RoomID: "r2", TimeslotID: "ts2"},
	}
	for _, e := range entries {
		mock.ExpectExec("INSERT INTO schedule_entries").
			WithArgs(sqlmock.AnyArg(), e.RunID, e.TeachingUnitID, e.TeacherID, e.SectionID, e.CourseID, e.RoomID, e.TimeslotID, false, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
	}

	require.NoError(t, repo.InsertBatch(context.Background(), db, entries))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDayBlockRepositoryInsertBatchSkipsConflicts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDayBlockRepository(db)

	mock.ExpectExec("INSERT INTO teacher_day_blocks").
		WithArgs(sqlmock.AnyArg(), "t1", sqlmock.AnyArg(), true, models.BlockSourceAutoSatCompOff, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	blocks := []models.TeacherDayBlock{{TeacherID: "t1", Day: 3, IsBlocked: true, Source: models.BlockSourceAutoSatCompOff}}
	require.NoError(t, repo.InsertBatch(context.Background(), db, blocks))
	assert.NoError(t, mock.ExpectationsWereMet())
}
