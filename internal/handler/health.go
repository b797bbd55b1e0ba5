package handler

import (
	"net/http"
	"time"

	"github.com/deppfellow/cassandra-sample/internal/middleware"
	"github.com/deppfellow/cassandra-sample/internal/server"
	"github.com/labstack/echo/v4"
)

// HealthHandler serves GET /status.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// HealthResponse is the body of GET /status.
type HealthResponse struct {
	Status      string                        `json:"status"`
	Timestamp   time.Time                     `json:"timestamp"`
	Environment string                        `json:"environment"`
	Checks      map[string]server.CheckResult `json:"checks"`
}

// CheckHealth answers 503 when Cassandra is unreachable. A failing redis
// only marks the service degraded, since reads fall back to Cassandra.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := HealthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      h.server.CheckDependencies(c.Request().Context()),
	}

	status := http.StatusOK
	for name, result := range response.Checks {
		if result.Healthy() {
			continue
		}

		logger.Error().
			Str("check", name).
			Str("error", result.Error).
			Dur("response_time", result.ResponseTime).
			Msg("health check failed")

		if name == "cassandra" {
			response.Status = "unhealthy"
			status = http.StatusServiceUnavailable
		} else if response.Status == "healthy" {
			response.Status = "degraded"
		}
	}

	logger.Debug().
		Str("status", response.Status).
		Dur("total_duration", time.Since(start)).
		Msg("health check finished")

	return c.JSON(status, response)
}
