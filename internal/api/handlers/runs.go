package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"jobhound/pkg/models"
	"jobhound/pkg/utils"
)

// RunTracker keeps the latest run summary for the status endpoints. The
// daemon updates it after every scheduled run; reads come from HTTP
// handlers on other goroutines.
type RunTracker struct {
	mu    sync.RWMutex
	last  *models.RunSummary
	runs  int
	cache *utils.RunCache
}

// NewRunTracker creates a tracker; cache may be nil when Redis is disabled.
func NewRunTracker(cache *utils.RunCache) *RunTracker {
	return &RunTracker{cache: cache}
}

// Record stores the summary in memory and, when available, in Redis so
// other instances can serve it too. Cache write failures are ignored;
// the in-memory copy is authoritative for this process.
func (t *RunTracker) Record(ctx context.Context, summary models.RunSummary) {
	t.mu.Lock()
	t.last = &summary
	t.runs++
	t.mu.Unlock()

	if t.cache != nil {
		_ = t.cache.PutLatest(ctx, &summary)
	}
}

// Latest returns the most recent summary, preferring memory over Redis.
func (t *RunTracker) Latest(ctx context.Context) *models.RunSummary {
	t.mu.RLock()
	last := t.last
	t.mu.RUnlock()
	if last != nil {
		return last
	}

	if t.cache != nil {
		if cached, err := t.cache.GetLatest(ctx); err == nil {
			return cached
		}
	}
	return nil
}

// StatusHandler provides detailed service status
func StatusHandler(tracker *RunTracker) echo.HandlerFunc {
	return func(c echo.Context) error {
		tracker.mu.RLock()
		runs := tracker.runs
		tracker.mu.RUnlock()

		checks := map[string]string{"api": "operational"}
		if tracker.Latest(c.Request().Context()) != nil {
			checks["pipeline"] = "operational"
		} else {
			checks["pipeline"] = "no runs yet"
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "operational",
			"timestamp": time.Now(),
			"uptime":    time.Since(startTime).String(),
			"runs":      runs,
			"checks":    checks,
		})
	}
}

// LatestRunHandler serves the most recent run summary.
func LatestRunHandler(tracker *RunTracker) echo.HandlerFunc {
	return func(c echo.Context) error {
		summary := tracker.Latest(c.Request().Context())
		if summary == nil {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:     "not_found",
				Message:   "no completed runs yet",
				Timestamp: time.Now(),
			})
		}
		return c.JSON(http.StatusOK, summary)
	}
}
