// Package router builds the echo instance: global middleware in order, then
// the system and API route groups.
package router

import (
	"github.com/deppfellow/cassandra-sample/internal/handler"
	"github.com/deppfellow/cassandra-sample/internal/middleware"
	"github.com/deppfellow/cassandra-sample/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter wires middleware and routes.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.Global.Recover(),
		middleware.RequestID(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Secure(),
		middlewares.Global.CORS(),
	)

	registerSystemRoutes(router, h)

	api := router.Group("/api/v1", middlewares.RateLimit.Limit())
	registerDirectoryRoutes(api, h)

	return router
}
