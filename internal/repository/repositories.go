package repository

import (
	"github.com/deppfellow/cassandra-sample/internal/database"
	"github.com/deppfellow/cassandra-sample/internal/server"
	"github.com/gocql/gocql"
	"github.com/pkg/errors"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Departments *DepartmentRepository
	Employees   *EmployeeRepository
}

// NewRepositories builds the repositories on the server's session.
func NewRepositories(s *server.Server) *Repositories {
	return NewRepositoriesWithSession(s.DB, s.Config.Cassandra.Keyspace)
}

// NewRepositoriesWithSession builds the repositories on any database.Session.
func NewRepositoriesWithSession(session database.Session, keyspace string) *Repositories {
	return &Repositories{
		Departments: NewDepartmentRepository(session, keyspace),
		Employees:   NewEmployeeRepository(session, keyspace),
	}
}

// notFound tags gocql.ErrNotFound with the table name. The "table:<name>:"
// prefix is what cqlerr reads to phrase the client message.
func notFound(table string) error {
	return errors.Wrapf(gocql.ErrNotFound, "table:%s", table)
}
