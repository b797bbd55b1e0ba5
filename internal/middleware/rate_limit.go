package middleware

import (
	"time"

	"github.com/deppfellow/cassandra-sample/internal/errs"
	"github.com/deppfellow/cassandra-sample/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware limits each client ip to server.rate_limit requests
// per second on the API routes.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Limit returns the limiter middleware. A non-positive rate disables it.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	limit := r.server.Config.Server.RateLimit
	if limit <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(limit),
		Burst:     max(1, int(limit)),
		ExpiresIn: 3 * time.Minute,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewBadRequestError("Could not identify client", false, nil, nil)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c, identifier)
			return errs.NewTooManyRequestsError("Rate limit exceeded, slow down")
		},
	})
}

// RecordRateLimitHit logs a rejected request.
func (r *RateLimitMiddleware) RecordRateLimitHit(c echo.Context, identifier string) {
	GetLogger(c).Warn().
		Str("endpoint", c.Path()).
		Str("client", identifier).
		Msg("rate limit hit")
}
