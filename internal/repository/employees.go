package repository

import (
	"context"

	"github.com/deppfellow/cassandra-sample/internal/database"
	"github.com/deppfellow/cassandra-sample/internal/model"
	"github.com/gocql/gocql"
	"github.com/pkg/errors"
	"github.com/scylladb/gocqlx/v2/qb"
)

const employeesTable = "employees"

var employeeColumns = []string{"emp_id", "dep_id", "name", "email", "gender"}

// EmployeeRepository reads and writes <keyspace>.employees.
type EmployeeRepository struct {
	session database.Session
	table   string
}

func NewEmployeeRepository(session database.Session, keyspace string) *EmployeeRepository {
	return &EmployeeRepository{
		session: session,
		table:   keyspace + "." + employeesTable,
	}
}

// Insert writes one employee row.
func (r *EmployeeRepository) Insert(ctx context.Context, e model.Employee) error {
	if err := e.Validate(); err != nil {
		return errors.Wrapf(err, "invalid employee %d", e.EmpID)
	}

	stmt, _ := qb.Insert(r.table).Columns(employeeColumns...).ToCql()
	if err := r.session.Exec(ctx, stmt, e.EmpID, e.DepID, e.Name, e.Email, e.Gender); err != nil {
		return errors.Wrapf(err, "inserting employee %d", e.EmpID)
	}
	return nil
}

// ListByEmpID returns every row in the emp_id partition, one per department.
// An unknown id yields an empty slice, not an error.
func (r *EmployeeRepository) ListByEmpID(ctx context.Context, empID int) ([]model.Employee, error) {
	stmt, _ := qb.Select(r.table).Columns(employeeColumns...).Where(qb.Eq("emp_id")).ToCql()
	return r.scan(r.session.Query(ctx, stmt, empID))
}

// Get is ListByEmpID that reports a missing partition as not found.
func (r *EmployeeRepository) Get(ctx context.Context, empID int) ([]model.Employee, error) {
	rows, err := r.ListByEmpID(ctx, empID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, notFound(employeesTable)
	}
	return rows, nil
}

// List returns every employee. This is a full table scan; fine for the
// sample's handful of rows.
func (r *EmployeeRepository) List(ctx context.Context) ([]model.Employee, error) {
	stmt, _ := qb.Select(r.table).Columns(employeeColumns...).ToCql()
	return r.scan(r.session.Query(ctx, stmt))
}

func (r *EmployeeRepository) scan(scanner gocql.Scanner) ([]model.Employee, error) {
	var out []model.Employee
	for scanner.Next() {
		var e model.Employee
		if err := scanner.Scan(&e.EmpID, &e.DepID, &e.Name, &e.Email, &e.Gender); err != nil {
			return nil, errors.Wrapf(err, "scanning %s", r.table)
		}
		out = append(out, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "querying %s", r.table)
	}
	return out, nil
}
