package orchestrator

import (
	"context"
	"fmt"
	"testing"
	"time"

	"commerce-sync/core/reconcile"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func sampleRun(id string, started time.Time) SessionResult {
	return SessionResult{
		RunID:           id,
		StartedAt:       started,
		FinishedAt:      started.Add(90 * time.Second),
		DurationSeconds: 90,
		Classes: []ClassResult{{
			Class:      reconcile.ClassProducts,
			ClassStats: reconcile.ClassStats{Success: 2, Created: 2, Fetched: 2},
		}},
	}
}

func TestFileRunLog_TrimsToCapacity(t *testing.T) {
	fs := afero.NewMemMapFs()
	log := NewFileRunLog(fs, "data/sync_runs.json", 3, zap.NewNop())
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := range 5 {
		require.NoError(t, log.Append(context.Background(), sampleRun(fmt.Sprintf("run-%d", i), base.Add(time.Duration(i)*time.Hour))))
	}

	recent, err := log.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "run-4", recent[0].RunID)
	assert.Equal(t, "run-2", recent[2].RunID)

	reloaded := NewFileRunLog(fs, "data/sync_runs.json", 3, zap.NewNop())
	recent, err = reloaded.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "run-4", recent[0].RunID)
	assert.Equal(t, 2, recent[0].Classes[0].Success)
}

func TestFileRunLog_CorruptDocumentStartsEmpty(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "data/sync_runs.json", []byte("{not json"), 0o644))

	log := NewFileRunLog(fs, "data/sync_runs.json", 0, zap.NewNop())
	recent, err := log.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}
	return gormDB, mock
}

func TestGormRunLog_Append(t *testing.T) {
	db, mock := setupMockDB(t)
	log := NewGormRunLog(db)

	mock.ExpectExec("INSERT INTO `sync_runs`").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := log.Append(context.Background(), sampleRun("run-1", time.Now()))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRunLog_Recent(t *testing.T) {
	db, mock := setupMockDB(t)
	log := NewGormRunLog(db)
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "run_id", "started_at", "finished_at", "duration_seconds", "cancelled", "classes"}).
		AddRow(2, "run-2", started, started.Add(time.Minute), 60.0, false, `[{"class":"orders","success":3,"errors":1,"incomplete":0,"skipped":0,"created":3,"updated":0,"fetched":4}]`).
		AddRow(1, "run-1", started.Add(-time.Hour), started.Add(-time.Hour), 0.0, true, "")
	mock.ExpectQuery("SELECT \\* FROM `sync_runs` ORDER BY started_at desc LIMIT").
		WillReturnRows(rows)

	runs, err := log.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].RunID)
	require.Len(t, runs[0].Classes, 1)
	assert.Equal(t, reconcile.ClassOrders, runs[0].Classes[0].Class)
	assert.Equal(t, 3, runs[0].Classes[0].Success)
	assert.True(t, runs[1].Cancelled)
	assert.Empty(t, runs[1].Classes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRunLog_RecentQueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	log := NewGormRunLog(db)

	mock.ExpectQuery("SELECT \\* FROM `sync_runs`").WillReturnError(fmt.Errorf("connection reset"))

	_, err := log.Recent(context.Background(), 5)
	assert.ErrorContains(t, err, "connection reset")
}
