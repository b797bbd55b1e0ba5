// Package databasetest provides an in-memory database.Session for tests.
//
// The fake never parses CQL. Queries are answered from row sets registered
// with OnQuery or OnQueryWith, matched by substring against the statement
// text and, for OnQueryWith, by the bound values. Every Exec is recorded so
// tests can assert on statements and bound values.
package databasetest

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gocql/gocql"
)

// Call is one recorded Exec or Query.
type Call struct {
	Stmt   string
	Values []interface{}
}

type match struct {
	substr string
	// values is compared with the bound values when bound is set.
	values []interface{}
	bound  bool
	rows   [][]interface{}
	err    error
}

func (m match) matches(stmt string, values []interface{}) bool {
	if !strings.Contains(stmt, m.substr) {
		return false
	}
	return !m.bound || reflect.DeepEqual(m.values, values)
}

// FakeSession implements database.Session.
type FakeSession struct {
	mu sync.Mutex

	execs   []Call
	queries []Call

	results  []match
	execErrs []match

	// AgreementErr is returned by AwaitSchemaAgreement.
	AgreementErr error
	agreements   int
}

// NewFakeSession returns an empty fake.
func NewFakeSession() *FakeSession {
	return &FakeSession{}
}

// OnQuery registers rows returned by any query whose statement contains substr.
// Later registrations win over earlier ones.
func (f *FakeSession) OnQuery(substr string, rows ...[]interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append([]match{{substr: substr, rows: rows}}, f.results...)
}

// OnQueryWith registers rows returned by queries whose statement contains
// substr and whose bound values equal values. Use it for WHERE reads, which
// OnQuery would answer with the same rows whatever the key.
func (f *FakeSession) OnQueryWith(substr string, values []interface{}, rows ...[]interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if values == nil {
		values = []interface{}{}
	}
	f.results = append([]match{{substr: substr, values: values, bound: true, rows: rows}}, f.results...)
}

// FailQuery makes queries containing substr fail with err.
func (f *FakeSession) FailQuery(substr string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append([]match{{substr: substr, err: err}}, f.results...)
}

// FailExec makes statements containing substr fail with err.
func (f *FakeSession) FailExec(substr string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.execErrs = append(f.execErrs, match{substr: substr, err: err})
}

func (f *FakeSession) Exec(_ context.Context, stmt string, values ...interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.execs = append(f.execs, Call{Stmt: stmt, Values: values})
	for _, m := range f.execErrs {
		if strings.Contains(stmt, m.substr) {
			return m.err
		}
	}
	return nil
}

func (f *FakeSession) Query(_ context.Context, stmt string, values ...interface{}) gocql.Scanner {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queries = append(f.queries, Call{Stmt: stmt, Values: values})
	if values == nil {
		values = []interface{}{}
	}
	for _, m := range f.results {
		if m.matches(stmt, values) {
			return &Scanner{rows: m.rows, err: m.err}
		}
	}
	return &Scanner{}
}

func (f *FakeSession) AwaitSchemaAgreement(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.agreements++
	return f.AgreementErr
}

// Execs returns a copy of every recorded Exec.
func (f *FakeSession) Execs() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.execs...)
}

// Queries returns a copy of every recorded Query.
func (f *FakeSession) Queries() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.queries...)
}

// Agreements counts AwaitSchemaAgreement calls.
func (f *FakeSession) Agreements() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.agreements
}

// Scanner serves a fixed set of rows through the gocql.Scanner interface.
type Scanner struct {
	rows [][]interface{}
	pos  int
	err  error
}

func (s *Scanner) Next() bool {
	if s.err != nil || s.pos >= len(s.rows) {
		return false
	}
	s.pos++
	return true
}

// Scan assigns the current row to dest. Values must be assignable to the
// pointed-to types; nil sets the zero value, like a CQL null.
func (s *Scanner) Scan(dest ...interface{}) error {
	if s.pos == 0 || s.pos > len(s.rows) {
		return fmt.Errorf("databasetest: Scan called without a current row")
	}
	row := s.rows[s.pos-1]
	if len(dest) != len(row) {
		return fmt.Errorf("databasetest: row has %d columns, Scan got %d destinations", len(row), len(dest))
	}

	for i, d := range dest {
		dv := reflect.ValueOf(d)
		if dv.Kind() != reflect.Ptr || dv.IsNil() {
			return fmt.Errorf("databasetest: destination %d is not a non-nil pointer", i)
		}
		target := dv.Elem()

		if row[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}

		v := reflect.ValueOf(row[i])
		if !v.Type().AssignableTo(target.Type()) {
			return fmt.Errorf("databasetest: column %d: cannot assign %s to %s", i, v.Type(), target.Type())
		}
		target.Set(v)
	}
	return nil
}

func (s *Scanner) Err() error {
	return s.err
}
