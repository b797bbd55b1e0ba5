package service

import (
	"context"
	"strconv"

	"github.com/deppfellow/cassandra-sample/internal/cache"
	"github.com/deppfellow/cassandra-sample/internal/model"
	"github.com/deppfellow/cassandra-sample/internal/repository"
)

// DirectoryService serves the read endpoints, going through the cache.
type DirectoryService struct {
	repos *repository.Repositories
	cache *cache.Cache
}

func NewDirectoryService(repos *repository.Repositories, c *cache.Cache) *DirectoryService {
	return &DirectoryService{repos: repos, cache: c}
}

func (s *DirectoryService) ListDepartments(ctx context.Context) ([]model.Department, error) {
	return cache.GetOrLoad(ctx, s.cache, "departments", s.repos.Departments.List)
}

func (s *DirectoryService) GetDepartment(ctx context.Context, depID int) (*model.Department, error) {
	return cache.GetOrLoad(ctx, s.cache, "departments:"+strconv.Itoa(depID), func(ctx context.Context) (*model.Department, error) {
		return s.repos.Departments.Get(ctx, depID)
	})
}

func (s *DirectoryService) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	return cache.GetOrLoad(ctx, s.cache, "employees", s.repos.Employees.List)
}

// GetEmployee returns every row of the emp_id partition.
func (s *DirectoryService) GetEmployee(ctx context.Context, empID int) ([]model.Employee, error) {
	return cache.GetOrLoad(ctx, s.cache, "employees:"+strconv.Itoa(empID), func(ctx context.Context) ([]model.Employee, error) {
		return s.repos.Employees.Get(ctx, empID)
	})
}

// Invalidate drops every cached read.
func (s *DirectoryService) Invalidate(ctx context.Context) error {
	return s.cache.Flush(ctx)
}
