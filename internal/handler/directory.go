package handler

import (
	"net/http"

	"github.com/deppfellow/cassandra-sample/internal/model"
	"github.com/deppfellow/cassandra-sample/internal/server"
	"github.com/deppfellow/cassandra-sample/internal/service"
	"github.com/labstack/echo/v4"
)

type DepartmentHandler struct {
	Handler
	directory *service.DirectoryService
}

func NewDepartmentHandler(s *server.Server, directory *service.DirectoryService) *DepartmentHandler {
	return &DepartmentHandler{Handler: NewHandler(s), directory: directory}
}

func (h *DepartmentHandler) List() echo.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, _ *model.ListRequest) ([]model.Department, error) {
		return h.directory.ListDepartments(c.Request().Context())
	}, http.StatusOK, func() *model.ListRequest { return &model.ListRequest{} })
}

func (h *DepartmentHandler) Get() echo.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, req *model.GetDepartmentRequest) (*model.Department, error) {
		return h.directory.GetDepartment(c.Request().Context(), req.ID)
	}, http.StatusOK, func() *model.GetDepartmentRequest { return &model.GetDepartmentRequest{} })
}

type EmployeeHandler struct {
	Handler
	directory *service.DirectoryService
}

func NewEmployeeHandler(s *server.Server, directory *service.DirectoryService) *EmployeeHandler {
	return &EmployeeHandler{Handler: NewHandler(s), directory: directory}
}

func (h *EmployeeHandler) List() echo.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, _ *model.ListRequest) ([]model.Employee, error) {
		return h.directory.ListEmployees(c.Request().Context())
	}, http.StatusOK, func() *model.ListRequest { return &model.ListRequest{} })
}

// Get returns every row of the employee's partition, one per department.
func (h *EmployeeHandler) Get() echo.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, req *model.GetEmployeeRequest) ([]model.Employee, error) {
		return h.directory.GetEmployee(c.Request().Context(), req.ID)
	}, http.StatusOK, func() *model.GetEmployeeRequest { return &model.GetEmployeeRequest{} })
}
