package databasetest_test

import (
	"errors"
	"testing"

	"github.com/deppfellow/cassandra-sample/internal/database/databasetest"
	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, scanner gocql.Scanner) []int {
	t.Helper()
	var ids []int
	for scanner.Next() {
		var id int
		var name string
		require.NoError(t, scanner.Scan(&id, &name))
		ids = append(ids, id)
	}
	require.NoError(t, scanner.Err())
	return ids
}

func TestOnQueryWithMatchesBoundValues(t *testing.T) {
	session := databasetest.NewFakeSession()
	session.OnQuery("FROM ks.t", []interface{}{1, "a"}, []interface{}{2, "b"})
	session.OnQuery("FROM ks.t WHERE")
	session.OnQueryWith("FROM ks.t WHERE", []interface{}{1}, []interface{}{1, "a"})
	session.OnQueryWith("FROM ks.t WHERE", []interface{}{2}, []interface{}{2, "b"})

	ctx := t.Context()
	assert.Equal(t, []int{2}, readAll(t, session.Query(ctx, "SELECT id,name FROM ks.t WHERE id=? ", 2)))
	assert.Equal(t, []int{1}, readAll(t, session.Query(ctx, "SELECT id,name FROM ks.t WHERE id=? ", 1)))
	assert.Empty(t, readAll(t, session.Query(ctx, "SELECT id,name FROM ks.t WHERE id=? ", 9)))
	assert.Equal(t, []int{1, 2}, readAll(t, session.Query(ctx, "SELECT id,name FROM ks.t ")))

	require.Len(t, session.Queries(), 4)
	assert.Equal(t, []interface{}{2}, session.Queries()[0].Values)
}

func TestOnQueryWithoutValues(t *testing.T) {
	session := databasetest.NewFakeSession()
	session.OnQueryWith("FROM ks.t", nil, []interface{}{1, "a"})

	assert.Equal(t, []int{1}, readAll(t, session.Query(t.Context(), "SELECT id,name FROM ks.t")))
	assert.Empty(t, readAll(t, session.Query(t.Context(), "SELECT id,name FROM ks.t WHERE id=?", 1)))
}

func TestFailures(t *testing.T) {
	session := databasetest.NewFakeSession()
	boom := errors.New("boom")
	session.FailExec("DROP", boom)
	session.FailQuery("FROM ks.t", boom)
	session.AgreementErr = boom

	ctx := t.Context()
	assert.ErrorIs(t, session.Exec(ctx, "DROP KEYSPACE ks"), boom)
	assert.NoError(t, session.Exec(ctx, "CREATE KEYSPACE ks"))
	assert.ErrorIs(t, session.Query(ctx, "SELECT * FROM ks.t").Err(), boom)
	assert.ErrorIs(t, session.AwaitSchemaAgreement(ctx), boom)
	assert.Equal(t, 1, session.Agreements())
	assert.Len(t, session.Execs(), 2)
}

func TestScanErrors(t *testing.T) {
	session := databasetest.NewFakeSession()
	session.OnQuery("FROM ks.t", []interface{}{"x", nil})

	scanner := session.Query(t.Context(), "SELECT * FROM ks.t")
	var id int
	var name string
	require.Error(t, scanner.Scan(&id, &name))

	require.True(t, scanner.Next())
	assert.Error(t, scanner.Scan(&id, &name))
	assert.Error(t, scanner.Scan(&id))

	var raw, empty string
	require.NoError(t, scanner.Scan(&raw, &empty))
	assert.Equal(t, "x", raw)
	assert.Empty(t, empty)
	assert.False(t, scanner.Next())
}
