package server

import (
	"context"
	"time"
)

// CheckResult is the outcome of probing one dependency.
type CheckResult struct {
	Status       string        `json:"status"`
	ResponseTime time.Duration `json:"-"`
	Latency      string        `json:"response_time"`
	Error        string        `json:"error,omitempty"`
}

// Healthy reports whether the probe succeeded.
func (r CheckResult) Healthy() bool {
	return r.Status == "healthy"
}

// Pinger is anything that can prove a dependency is reachable.
type Pinger func(ctx context.Context) error

// CheckDependencies probes every dependency enabled under
// observability.health_checks. Each probe gets its own timeout.
func (s *Server) CheckDependencies(ctx context.Context) map[string]CheckResult {
	obs := s.Config.Observability
	probes := map[string]Pinger{}

	if obs.HasCheck("cassandra") && s.DB != nil {
		probes["cassandra"] = s.DB.Ping
	}
	if obs.HasCheck("redis") && s.Redis != nil {
		probes["redis"] = func(ctx context.Context) error {
			return s.Redis.Ping(ctx).Err()
		}
	}

	return RunChecks(ctx, obs.HealthChecks.Timeout, probes)
}

// RunChecks runs each probe with timeout and collects the results.
func RunChecks(ctx context.Context, timeout time.Duration, probes map[string]Pinger) map[string]CheckResult {
	results := make(map[string]CheckResult, len(probes))

	for name, probe := range probes {
		checkCtx, cancel := context.WithTimeout(ctx, timeout)
		start := time.Now()
		err := probe(checkCtx)
		elapsed := time.Since(start)
		cancel()

		result := CheckResult{
			Status:       "healthy",
			ResponseTime: elapsed,
			Latency:      elapsed.String(),
		}
		if err != nil {
			result.Status = "unhealthy"
			result.Error = err.Error()
		}
		results[name] = result
	}

	return results
}

// MonitorHealth logs dependency health every interval until ctx is done.
// Only failures and recoveries are logged at info level or above.
func (s *Server) MonitorHealth(ctx context.Context) {
	obs := s.Config.Observability
	if !obs.HealthChecks.Enabled {
		return
	}

	ticker := time.NewTicker(obs.HealthChecks.Interval)
	defer ticker.Stop()

	previous := map[string]bool{}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for name, result := range s.CheckDependencies(ctx) {
				wasHealthy, seen := previous[name]
				previous[name] = result.Healthy()

				switch {
				case !result.Healthy():
					s.Logger.Error().
						Str("check", name).
						Str("error", result.Error).
						Dur("response_time", result.ResponseTime).
						Msg("dependency health check failed")
				case seen && !wasHealthy:
					s.Logger.Info().Str("check", name).Msg("dependency recovered")
				default:
					s.Logger.Debug().Str("check", name).Dur("response_time", result.ResponseTime).Msg("dependency healthy")
				}
			}
		}
	}
}
