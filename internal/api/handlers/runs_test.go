package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobhound/pkg/models"
)

func TestLatestRunHandlerNoRuns(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs/latest", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	tracker := NewRunTracker(nil)
	require.NoError(t, LatestRunHandler(tracker)(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLatestRunHandlerReturnsSummary(t *testing.T) {
	tracker := NewRunTracker(nil)
	tracker.Record(context.Background(), models.RunSummary{
		RunID:        "run-1",
		TotalScraped: 42,
		Qualified:    7,
		NewPostings:  3,
		StartedAt:    time.Now(),
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs/latest", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, LatestRunHandler(tracker)(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.RunSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, 42, got.TotalScraped)
}

func TestRunTrackerKeepsLatest(t *testing.T) {
	tracker := NewRunTracker(nil)
	ctx := context.Background()

	assert.Nil(t, tracker.Latest(ctx))

	tracker.Record(ctx, models.RunSummary{RunID: "a"})
	tracker.Record(ctx, models.RunSummary{RunID: "b"})

	latest := tracker.Latest(ctx)
	require.NotNil(t, latest)
	assert.Equal(t, "b", latest.RunID)
}

func TestStatusHandlerReportsRunCount(t *testing.T) {
	tracker := NewRunTracker(nil)
	tracker.Record(context.Background(), models.RunSummary{RunID: "a"})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, StatusHandler(tracker)(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, float64(1), got["runs"])
}
