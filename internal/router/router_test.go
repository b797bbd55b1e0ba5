package router_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/cassandra-sample/internal/config"
	"github.com/deppfellow/cassandra-sample/internal/database/databasetest"
	"github.com/deppfellow/cassandra-sample/internal/errs"
	"github.com/deppfellow/cassandra-sample/internal/handler"
	"github.com/deppfellow/cassandra-sample/internal/model"
	"github.com/deppfellow/cassandra-sample/internal/repository"
	"github.com/deppfellow/cassandra-sample/internal/router"
	"github.com/deppfellow/cassandra-sample/internal/server"
	"github.com/deppfellow/cassandra-sample/internal/service"
	"github.com/gocql/gocql"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, session *databasetest.FakeSession, mutate func(*config.Config)) *echo.Echo {
	t.Helper()
	return newLoggedRouter(t, session, mutate, zerolog.Nop())
}

func newLoggedRouter(t *testing.T, session *databasetest.FakeSession, mutate func(*config.Config), log zerolog.Logger) *echo.Echo {
	t.Helper()

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	if mutate != nil {
		mutate(cfg)
	}

	srv := &server.Server{Config: cfg, Logger: &log}

	repos := repository.NewRepositoriesWithSession(session, cfg.Cassandra.Keyspace)
	services := &service.Services{
		Sample: service.NewSampleService(session, repos, &log, service.SampleOptions{
			Keyspace:          cfg.Cassandra.Keyspace,
			ReplicationFactor: cfg.Cassandra.ReplicationFactor,
			EmployeeID:        cfg.Sample.EmployeeID,
		}),
		Directory: service.NewDirectoryService(repos, nil),
	}

	return router.NewRouter(srv, handler.NewHandlers(srv, services))
}

func seeded() *databasetest.FakeSession {
	hr := []interface{}{1, "hr", "charu", "charu@ig.com"}
	admin := []interface{}{2, "admin", "deepak handuja", "deepak@ig.com"}
	deepak := []interface{}{2, 2, "Deepak", "deepak@ig.com", "m"}

	session := databasetest.NewFakeSession()
	session.OnQuery("FROM meetup_db.departments", hr, admin)
	session.OnQuery("FROM meetup_db.departments WHERE")
	session.OnQueryWith("FROM meetup_db.departments WHERE", []interface{}{1}, hr)
	session.OnQueryWith("FROM meetup_db.departments WHERE", []interface{}{2}, admin)

	session.OnQuery("FROM meetup_db.employees", deepak)
	session.OnQuery("FROM meetup_db.employees WHERE")
	session.OnQueryWith("FROM meetup_db.employees WHERE", []interface{}{2}, deepak)
	return session
}

func get(e *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()
	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestListDepartments(t *testing.T) {
	e := newTestRouter(t, seeded(), nil)

	rec := get(e, "/api/v1/departments")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var departments []model.Department
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &departments))
	assert.Equal(t, model.SampleDepartments(), departments)
}

func TestGetDepartment(t *testing.T) {
	e := newTestRouter(t, seeded(), nil)

	rec := get(e, "/api/v1/departments/2")
	require.Equal(t, http.StatusOK, rec.Code)

	var department model.Department
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &department))
	assert.Equal(t, 2, department.DepID)
	assert.Equal(t, "deepak handuja", department.DepHead)

	rec = get(e, "/api/v1/departments/1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &department))
	assert.Equal(t, 1, department.DepID)
	assert.Equal(t, "charu", department.DepHead)
}

func TestGetDepartmentUnknownIDInSeededTable(t *testing.T) {
	e := newTestRouter(t, seeded(), nil)

	rec := get(e, "/api/v1/departments/7")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "DEPARTMENT_NOT_FOUND", decodeError(t, rec).Code)
}

func TestGetDepartmentNotFound(t *testing.T) {
	e := newTestRouter(t, databasetest.NewFakeSession(), nil)

	rec := get(e, "/api/v1/departments/9")
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := decodeError(t, rec)
	assert.Equal(t, "DEPARTMENT_NOT_FOUND", body.Code)
	assert.Equal(t, "Department not found", body.Message)
	assert.True(t, body.Override)
}

func TestGetDepartmentInvalidID(t *testing.T) {
	e := newTestRouter(t, seeded(), nil)

	rec := get(e, "/api/v1/departments/abc")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", decodeError(t, rec).Code)

	rec = get(e, "/api/v1/departments/0")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "Validation failed", body.Message)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "id", body.Errors[0].Field)
}

func TestGetEmployee(t *testing.T) {
	session := seeded()
	e := newTestRouter(t, session, nil)

	rec := get(e, "/api/v1/employees/2")
	require.Equal(t, http.StatusOK, rec.Code)

	var employees []model.Employee
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &employees))
	require.Len(t, employees, 1)
	assert.Equal(t, "Deepak", employees[0].Name)

	queries := session.Queries()
	require.Len(t, queries, 1)
	assert.Equal(t, []interface{}{2}, queries[0].Values)
}

func TestListEmployees(t *testing.T) {
	e := newTestRouter(t, seeded(), nil)

	rec := get(e, "/api/v1/employees")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestClusterUnavailable(t *testing.T) {
	session := databasetest.NewFakeSession()
	session.FailQuery("FROM meetup_db.departments", gocql.ErrNoConnections)
	e := newTestRouter(t, session, nil)

	rec := get(e, "/api/v1/departments")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	body := decodeError(t, rec)
	assert.Equal(t, "CLUSTER_UNREACHABLE", body.Code)
	assert.True(t, body.Retryable)
}

func TestInternalErrorIsLoggedWithStack(t *testing.T) {
	previous := zerolog.ErrorStackMarshaler
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	t.Cleanup(func() { zerolog.ErrorStackMarshaler = previous })

	session := databasetest.NewFakeSession()
	session.FailQuery("FROM meetup_db.departments", errors.New("unexpected frame"))

	var buf bytes.Buffer
	e := newLoggedRouter(t, session, nil, zerolog.New(&buf))

	rec := get(e, "/api/v1/departments")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", body.Code)
	assert.NotContains(t, rec.Body.String(), "unexpected frame")

	var errorLine map[string]interface{}
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(line, &entry))
		if entry["error_code"] == "INTERNAL_SERVER_ERROR" {
			errorLine = entry
		}
	}
	require.NotNil(t, errorLine, "no error handler log line in %s", buf.String())
	assert.Equal(t, "error", errorLine["level"])
	assert.Contains(t, errorLine["error"], "querying meetup_db.departments")
	assert.NotEmpty(t, errorLine["stack"])
}

func TestUnknownRoute(t *testing.T) {
	e := newTestRouter(t, seeded(), nil)

	rec := get(e, "/api/v1/projects")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decodeError(t, rec).Message)
}

func TestRequestIDIsPropagated(t *testing.T) {
	e := newTestRouter(t, seeded(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/departments", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
}

func TestRateLimit(t *testing.T) {
	e := newTestRouter(t, seeded(), func(cfg *config.Config) {
		cfg.Server.RateLimit = 1
	})

	require.Equal(t, http.StatusOK, get(e, "/api/v1/departments").Code)

	rec := get(e, "/api/v1/departments")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", decodeError(t, rec).Code)

	// System routes are not limited.
	assert.Equal(t, http.StatusOK, get(e, "/status").Code)
}

func TestStatus(t *testing.T) {
	e := newTestRouter(t, seeded(), nil)

	rec := get(e, "/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var body handler.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
}

func TestOpenAPIDocument(t *testing.T) {
	e := newTestRouter(t, seeded(), nil)

	rec := get(e, "/docs/openapi.json")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Contains(t, doc["paths"], "/api/v1/departments/{id}")
}
