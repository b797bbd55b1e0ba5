package repository

import (
	"context"

	"github.com/deppfellow/cassandra-sample/internal/database"
	"github.com/deppfellow/cassandra-sample/internal/model"
	"github.com/gocql/gocql"
	"github.com/pkg/errors"
	"github.com/scylladb/gocqlx/v2/qb"
)

const departmentsTable = "departments"

var departmentColumns = []string{"dep_id", "dep_name", "dep_head", "dep_head_email"}

// DepartmentRepository reads and writes <keyspace>.departments.
type DepartmentRepository struct {
	session database.Session
	table   string
}

func NewDepartmentRepository(session database.Session, keyspace string) *DepartmentRepository {
	return &DepartmentRepository{
		session: session,
		table:   keyspace + "." + departmentsTable,
	}
}

// Insert writes one department. Cassandra inserts are upserts, so writing
// the same dep_id twice overwrites the row.
func (r *DepartmentRepository) Insert(ctx context.Context, d model.Department) error {
	if err := d.Validate(); err != nil {
		return errors.Wrapf(err, "invalid department %d", d.DepID)
	}

	stmt, _ := qb.Insert(r.table).Columns(departmentColumns...).ToCql()
	if err := r.session.Exec(ctx, stmt, d.DepID, d.DepName, d.DepHead, d.DepHeadEmail); err != nil {
		return errors.Wrapf(err, "inserting department %d", d.DepID)
	}
	return nil
}

// List returns every department.
func (r *DepartmentRepository) List(ctx context.Context) ([]model.Department, error) {
	stmt, _ := qb.Select(r.table).Columns(departmentColumns...).ToCql()
	return r.scan(r.session.Query(ctx, stmt))
}

// Get returns the department with depID, or an error wrapping
// gocql.ErrNotFound.
func (r *DepartmentRepository) Get(ctx context.Context, depID int) (*model.Department, error) {
	stmt, _ := qb.Select(r.table).Columns(departmentColumns...).Where(qb.Eq("dep_id")).ToCql()

	rows, err := r.scan(r.session.Query(ctx, stmt, depID))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, notFound(departmentsTable)
	}
	return &rows[0], nil
}

func (r *DepartmentRepository) scan(scanner gocql.Scanner) ([]model.Department, error) {
	var out []model.Department
	for scanner.Next() {
		var d model.Department
		if err := scanner.Scan(&d.DepID, &d.DepName, &d.DepHead, &d.DepHeadEmail); err != nil {
			return nil, errors.Wrapf(err, "scanning %s", r.table)
		}
		out = append(out, d)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "querying %s", r.table)
	}
	return out, nil
}
