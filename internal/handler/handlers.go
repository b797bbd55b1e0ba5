package handler

import (
	"github.com/deppfellow/cassandra-sample/internal/server"
	"github.com/deppfellow/cassandra-sample/internal/service"
)

// Handlers groups every HTTP handler for the router.
type Handlers struct {
	Health     *HealthHandler
	OpenAPI    *OpenAPIHandler
	Department *DepartmentHandler
	Employee   *EmployeeHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(s),
		OpenAPI:    NewOpenAPIHandler(s),
		Department: NewDepartmentHandler(s, services.Directory),
		Employee:   NewEmployeeHandler(s, services.Directory),
	}
}
