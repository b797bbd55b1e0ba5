package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/cassandra-sample/internal/database"
	"github.com/deppfellow/cassandra-sample/internal/model"
	"github.com/deppfellow/cassandra-sample/internal/repository"
	"github.com/rs/zerolog"
)

// Report is what a sample run read back from the cluster.
type Report struct {
	Cluster     *database.ClusterInfo `json:"cluster,omitempty"`
	Departments []model.Department    `json:"departments"`
	Employees   []model.Employee      `json:"employees"`
}

// SampleService runs the demonstration workflow: describe the cluster,
// drop and recreate the schema, insert the fixed data set and read it back.
type SampleService struct {
	session    database.Session
	schema     *database.Schema
	repos      *repository.Repositories
	log        *zerolog.Logger
	employeeID int
}

// SampleOptions configures NewSampleService.
type SampleOptions struct {
	Keyspace          string
	ReplicationFactor int
	// EmployeeID is the partition read by QueryTables.
	EmployeeID int
}

func NewSampleService(session database.Session, repos *repository.Repositories, logger *zerolog.Logger, opts SampleOptions) *SampleService {
	return &SampleService{
		session: session,
		schema: database.NewSchema(session, logger, database.SchemaParams{
			Keyspace:          opts.Keyspace,
			ReplicationFactor: opts.ReplicationFactor,
		}),
		repos:      repos,
		log:        logger,
		employeeID: opts.EmployeeID,
	}
}

// Describe reads and logs the cluster name and every node.
func (s *SampleService) Describe(ctx context.Context) (*database.ClusterInfo, error) {
	info, err := database.Describe(ctx, s.session)
	if err != nil {
		return nil, err
	}
	database.LogClusterInfo(s.log, info)
	return info, nil
}

func (s *SampleService) DropSchema(ctx context.Context) error {
	return s.schema.Drop(ctx)
}

func (s *SampleService) CreateSchema(ctx context.Context) error {
	return s.schema.Create(ctx)
}

// ResetSchema drops the keyspace and creates it again.
func (s *SampleService) ResetSchema(ctx context.Context) error {
	return s.schema.Reset(ctx)
}

// InsertData writes the sample departments, then the sample employees.
func (s *SampleService) InsertData(ctx context.Context) error {
	s.log.Debug().Msg("Populating tables with sample data-set")

	for _, d := range model.SampleDepartments() {
		if err := s.repos.Departments.Insert(ctx, d); err != nil {
			return err
		}
	}

	for _, e := range model.SampleEmployees() {
		if err := s.repos.Employees.Insert(ctx, e); err != nil {
			return err
		}
	}

	return nil
}

// QueryTables reads every department and the configured employee
// partition, logging each row at debug level.
func (s *SampleService) QueryTables(ctx context.Context) (*Report, error) {
	s.log.Debug().Msg("Querying tables...")

	departments, err := s.repos.Departments.List(ctx)
	if err != nil {
		return nil, err
	}

	s.log.Debug().Msg("Result set for departments tables")
	for _, d := range departments {
		s.log.Debug().
			Int("dep_id", d.DepID).
			Str("dep_name", d.DepName).
			Str("dep_head", d.DepHead).
			Msg("department")
	}

	employees, err := s.repos.Employees.ListByEmpID(ctx, s.employeeID)
	if err != nil {
		return nil, err
	}

	s.log.Debug().Msg("Result set for employees tables")
	for _, e := range employees {
		s.log.Debug().
			Int("emp_id", e.EmpID).
			Int("dep_id", e.DepID).
			Str("name", e.Name).
			Str("gender", e.Gender).
			Msg("employee")
	}

	return &Report{Departments: departments, Employees: employees}, nil
}

// step pairs a workflow stage with its name for error reporting.
type step struct {
	name string
	fn   func(ctx context.Context) error
}

// Run executes the whole workflow. The first failing step stops the run and
// its error is returned prefixed with the step name. Closing the session is
// left to the caller.
func (s *SampleService) Run(ctx context.Context) (*Report, error) {
	var (
		info   *database.ClusterInfo
		report *Report
	)

	steps := []step{
		{"describe cluster", func(ctx context.Context) (err error) {
			info, err = s.Describe(ctx)
			return err
		}},
		{"drop schema", s.DropSchema},
		{"create schema", s.CreateSchema},
		{"insert data", s.InsertData},
		{"query tables", func(ctx context.Context) (err error) {
			report, err = s.QueryTables(ctx)
			return err
		}},
	}

	for _, st := range steps {
		if err := st.fn(ctx); err != nil {
			s.log.Error().Err(err).Str("step", st.name).Msg("sample run failed")
			return nil, fmt.Errorf("%s: %w", st.name, err)
		}
	}

	report.Cluster = info
	return report, nil
}
