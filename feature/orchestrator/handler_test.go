package orchestrator

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"commerce-sync/core/lock"
	"commerce-sync/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T, guard lock.Guard) (*fiber.App, *Service) {
	t.Helper()
	fs, stores := newTestStores()
	svc := NewService(Deps{
		Stores: stores,
		Adapters: []reconcile.Adapter{
			&fakeAdapter{class: reconcile.ClassProducts, entities: []fakeEntity{
				{ID: "P1", Name: "Widget"},
				{ID: "P2", Name: "Broken", Missing: []string{"description"}},
			}},
		},
		Guard:  guard,
		RunLog: NewFileRunLog(fs, "data/"+RunLogFile, 0, zap.NewNop()),
		Logger: zap.NewNop(),
	})
	app := fiber.New()
	NewHandler(svc).RegisterRoutes(app)
	return app, svc
}

func TestHandleRun_Wait(t *testing.T) {
	app, _ := setupTestApp(t, nil)

	resp, err := app.Test(httptest.NewRequest("POST", "/sync/run?wait=true", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body SessionResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Classes, 1)
	assert.Equal(t, 1, body.Classes[0].Success)
	assert.Equal(t, 1, body.Classes[0].Incomplete)
}

func TestHandleRun_ConflictWhenBusy(t *testing.T) {
	guard := lock.NewLocal()
	release, err := guard.Acquire(context.Background())
	require.NoError(t, err)
	defer release()

	app, _ := setupTestApp(t, guard)

	resp, err := app.Test(httptest.NewRequest("POST", "/sync/run", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestHandleRun_Async(t *testing.T) {
	app, svc := setupTestApp(t, nil)

	resp, err := app.Test(httptest.NewRequest("POST", "/sync/run", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	assert.Eventually(t, func() bool {
		runs, _ := svc.Runs(context.Background(), 1)
		return len(runs) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHandleStatusAndRuns(t *testing.T) {
	app, svc := setupTestApp(t, nil)
	_, err := svc.RunSyncOnce(context.Background())
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/sync/status", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var status Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.False(t, status.Running)
	assert.Equal(t, 1, status.Mappings["products"])
	assert.Equal(t, 1, status.Incomplete)
	require.NotNil(t, status.LastRun)

	resp, err = app.Test(httptest.NewRequest("GET", "/sync/runs?limit=5", nil))
	require.NoError(t, err)
	var runs []SessionResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&runs))
	require.Len(t, runs, 1)
	assert.Equal(t, status.LastRun.RunID, runs[0].RunID)
}

func TestHandleIncomplete(t *testing.T) {
	app, svc := setupTestApp(t, nil)
	_, err := svc.RunSyncOnce(context.Background())
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/sync/incomplete", nil))
	require.NoError(t, err)
	var listed map[string]map[string]map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	assert.Contains(t, listed["products"], "P2")

	resp, err = app.Test(httptest.NewRequest("GET", "/sync/incomplete/stats", nil))
	require.NoError(t, err)
	var stats map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.EqualValues(t, 1, stats["total"])
	assert.EqualValues(t, 1, stats["missing_description"])

	resp, err = app.Test(httptest.NewRequest("DELETE", "/sync/incomplete/P2", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/sync/incomplete/P2", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestLoader(t *testing.T) {
	_, stores := newTestStores()
	feature := NewFeature(NewService(Deps{Stores: stores}), true)

	assert.Equal(t, "sync", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.NotNil(t, feature.Service())
	assert.NoError(t, feature.Load(fiber.New()))
}
