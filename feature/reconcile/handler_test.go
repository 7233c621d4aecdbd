package reconcile

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"prompt-mixer/feature/library"
	"prompt-mixer/feature/library/models"
)

func setupTestApp(t *testing.T, adapter *fakeAdapter) (*fiber.App, *library.Service) {
	libs := library.NewService(zap.NewNop(), nil)
	feature := NewFeature(zap.NewNop(), libs, adapter, time.Second)

	app := fiber.New()
	require.NoError(t, feature.Load(app))
	return app, libs
}

func TestHandleImport(t *testing.T) {
	app, libs := setupTestApp(t, &fakeAdapter{})

	payload, _ := json.Marshal([]models.Library{{Name: "Scene", Values: []string{"room"}, SourceSheet: "sheet"}})
	req := httptest.NewRequest("POST", "/libraries/import?mode=merge-add", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body ImportResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "merge-add", body.Mode)
	assert.Equal(t, 1, body.Libraries)
	assert.Len(t, libs.Snapshot().Libraries, 1)
}

func TestHandleImport_TabularPaste(t *testing.T) {
	app, libs := setupTestApp(t, &fakeAdapter{})

	body := "Scene\tMood\nroom\thappy\nbeach\tcalm\n"
	req := httptest.NewRequest("POST", "/libraries/import?mode=replace", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "text/plain")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	snapshot := libs.Snapshot()
	require.Len(t, snapshot.Libraries, 2)
	assert.Equal(t, []string{"room", "beach"}, snapshot.Libraries[0].Values)
}

func TestHandleImport_UnknownMode(t *testing.T) {
	app, _ := setupTestApp(t, &fakeAdapter{})

	req := httptest.NewRequest("POST", "/libraries/import?mode=bogus", bytes.NewReader([]byte("[]")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleSyncAndStatus(t *testing.T) {
	adapter := &fakeAdapter{sheets: []models.MasterSheet{{
		SheetName: "scenes",
		Libraries: []models.Library{{Name: "Scene", Values: []string{"room"}}},
	}}}
	app, _ := setupTestApp(t, adapter)

	resp, err := app.Test(httptest.NewRequest("POST", "/sync", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/sync/status", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var status SyncStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.False(t, status.Running)
	assert.Equal(t, 1, status.SheetCount)
	assert.Empty(t, status.LastError)
}

func TestHandleSync_SourceFailure(t *testing.T) {
	adapter := &fakeAdapter{err: assert.AnError}
	app, _ := setupTestApp(t, adapter)

	resp, err := app.Test(httptest.NewRequest("POST", "/sync", nil))
	require.NoError(t, err)
	assert.Equal(t, 502, resp.StatusCode)
}
