package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/monitoria-backend/internal/middleware"
	"github.com/deppfellow/monitoria-backend/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// HealthHandler answers GET /status for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
	env     string
	timeout time.Duration
	checks  map[string]HealthCheck
	nrApp   *newrelic.Application
}

// NewHealthHandler registers the dependency checks enabled in the
// observability config.
func NewHealthHandler(s *server.Server) *HealthHandler {
	obs := s.Config.Observability
	h := &HealthHandler{
		Handler: NewHandler(s),
		env:     s.Config.Primary.Env,
		timeout: obs.HealthChecks.Timeout,
		checks:  make(map[string]HealthCheck),
		nrApp:   s.LoggerService.GetApplication(),
	}

	if obs.HealthCheckEnabled("database") && s.DB != nil {
		h.checks["database"] = func(ctx context.Context) error {
			return s.DB.Pool.Ping(ctx)
		}
	}
	if obs.HealthCheckEnabled("redis") && s.Redis != nil {
		h.checks["redis"] = func(ctx context.Context) error {
			return s.Redis.Ping(ctx).Err()
		}
	}

	return h
}

// CheckHealth runs every check and answers 200 when all pass, 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]any, len(h.checks))
	isHealthy := true

	for name, check := range h.checks {
		ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
		checkStart := time.Now()
		err := check(ctx)
		cancel()
		elapsed := time.Since(checkStart)

		if err != nil {
			isHealthy = false
			checks[name] = map[string]any{
				"status":        "unhealthy",
				"response_time": elapsed.String(),
				"error":         err.Error(),
			}

			logger.Error().
				Err(err).
				Str("check", name).
				Dur("response_time", elapsed).
				Msg("health check failed")

			h.recordFailure(map[string]any{
				"check_type":       name,
				"operation":        "health_check",
				"error_type":       name + "_unhealthy",
				"response_time_ms": elapsed.Milliseconds(),
				"error_message":    err.Error(),
			})
			continue
		}

		checks[name] = map[string]any{
			"status":        "healthy",
			"response_time": elapsed.String(),
		}
		logger.Debug().
			Str("check", name).
			Dur("response_time", elapsed).
			Msg("health check passed")
	}

	response := map[string]any{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.env,
		"checks":      checks,
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("service unhealthy")

		h.recordFailure(map[string]any{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}
	return nil
}

func (h *HealthHandler) recordFailure(attrs map[string]any) {
	if h.nrApp != nil {
		h.nrApp.RecordCustomEvent("HealthCheckError", attrs)
	}
}
