package handler

import (
	_ "embed"
	"net/http"

	"github.com/deppfellow/cassandra-sample/internal/server"
	"github.com/labstack/echo/v4"
)

//go:embed static/openapi.json
var openAPIDocument []byte

// OpenAPIHandler serves the OpenAPI description of the read API.
type OpenAPIHandler struct {
	Handler
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
	}
}

func (h *OpenAPIHandler) ServeOpenAPI(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, openAPIDocument)
}
