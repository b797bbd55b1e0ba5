package router

import (
	"github.com/deppfellow/cassandra-sample/internal/handler"
	"github.com/labstack/echo/v4"
)

func registerDirectoryRoutes(api *echo.Group, h *handler.Handlers) {
	departments := api.Group("/departments")
	departments.GET("", h.Department.List())
	departments.GET("/:id", h.Department.Get())

	employees := api.Group("/employees")
	employees.GET("", h.Employee.List())
	employees.GET("/:id", h.Employee.Get())
}
