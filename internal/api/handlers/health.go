package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobhound/internal/store"
	"jobhound/pkg/models"
)

var startTime = time.Now()

// HealthHandler handles health check requests
func HealthHandler(c echo.Context) error {
	response := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api": "ok",
		},
	}

	return c.JSON(http.StatusOK, response)
}

// ReadinessHandler reports readiness once the store answers queries.
func ReadinessHandler(st *store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		checks := map[string]string{"api": "ok", "store": "ok"}
		status := "ready"
		code := http.StatusOK

		if _, err := st.NewCount(c.Request().Context()); err != nil {
			checks["store"] = err.Error()
			status = "not ready"
			code = http.StatusServiceUnavailable
		}

		return c.JSON(code, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   "1.0.0",
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	response := models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Uptime:    time.Since(startTime),
	}

	return c.JSON(http.StatusOK, response)
}
