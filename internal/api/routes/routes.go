package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"jobhound/internal/api/handlers"
	"jobhound/internal/api/middleware"
	"jobhound/internal/config"
	"jobhound/internal/store"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, st *store.Store, tracker *handlers.RunTracker) {
	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	e.Use(middleware.TimeoutConfig(cfg.Scraping.Timeout))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(st))
		health.GET("/live", handlers.LivenessHandler)
	}

	// Status route
	e.GET("/status", handlers.StatusHandler(tracker))

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		runs := v1.Group("/runs")
		{
			runs.GET("/latest", handlers.LatestRunHandler(tracker))
		}
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "jobhound",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}
