package database

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/deppfellow/cassandra-sample/internal/config"
	"github.com/gocql/gocql"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectWithRetrySucceedsAfterFailures(t *testing.T) {
	log := zerolog.Nop()
	calls := 0

	err := connectWithRetry(t.Context(), &log, 5, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("no hosts available")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestConnectWithRetryGivesUp(t *testing.T) {
	log := zerolog.Nop()
	calls := 0
	dialErr := errors.New("connection refused")

	err := connectWithRetry(t.Context(), &log, 3, time.Millisecond, func() error {
		calls++
		return dialErr
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, dialErr)
	assert.Equal(t, 3, calls)
}

func TestConnectWithRetryStopsOnCancel(t *testing.T) {
	log := zerolog.Nop()
	ctx, cancel := context.WithCancel(t.Context())
	calls := 0

	err := connectWithRetry(ctx, &log, 10, 50*time.Millisecond, func() error {
		calls++
		cancel()
		return errors.New("connection refused")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestNewClusterConfig(t *testing.T) {
	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	cfg.Cassandra.Hosts = []string{"10.0.0.1", "10.0.0.2"}
	cfg.Cassandra.Consistency = "quorum"
	cfg.Cassandra.Username = "cassandra"
	cfg.Cassandra.Password = "secret"
	cfg.Cassandra.LocalDC = "dc1"
	cfg.Cassandra.ProtoVersion = 4

	log := zerolog.Nop()
	cluster, err := NewClusterConfig(cfg, &log)
	require.NoError(t, err)

	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cluster.Hosts)
	assert.Equal(t, 9042, cluster.Port)
	assert.Equal(t, gocql.Quorum, cluster.Consistency)
	assert.Equal(t, 4, cluster.ProtoVersion)
	assert.Equal(t, gocql.PasswordAuthenticator{Username: "cassandra", Password: "secret"}, cluster.Authenticator)
	assert.NotNil(t, cluster.PoolConfig.HostSelectionPolicy)
	assert.NotNil(t, cluster.QueryObserver)
	assert.NotNil(t, cluster.Logger)

	policy, ok := cluster.RetryPolicy.(*gocql.ExponentialBackoffRetryPolicy)
	require.True(t, ok)
	assert.Equal(t, 3, policy.NumRetries)
}

func TestNewClusterConfigRejectsConsistency(t *testing.T) {
	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	cfg.Cassandra.Consistency = "sometimes"

	log := zerolog.Nop()
	_, err = NewClusterConfig(cfg, &log)
	assert.Error(t, err)
}

func TestQueryObserver(t *testing.T) {
	start := time.Now()

	tests := []struct {
		name    string
		verbose bool
		query   gocql.ObservedQuery
		want    string
	}{
		{
			name:  "fast query, quiet",
			query: gocql.ObservedQuery{Statement: "SELECT 1", Start: start, End: start.Add(time.Millisecond)},
			want:  "",
		},
		{
			name:    "fast query, verbose",
			verbose: true,
			query:   gocql.ObservedQuery{Statement: "SELECT 1", Start: start, End: start.Add(time.Millisecond)},
			want:    `"message":"query"`,
		},
		{
			name:  "slow query",
			query: gocql.ObservedQuery{Statement: "SELECT 2", Start: start, End: start.Add(time.Second)},
			want:  `"message":"slow query"`,
		},
		{
			name:  "failed query",
			query: gocql.ObservedQuery{Statement: "SELECT 3", Start: start, End: start, Err: errors.New("unavailable")},
			want:  `"message":"query failed"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := zerolog.New(&buf)
			o := newQueryObserver(&log, tt.verbose, 100*time.Millisecond)

			o.ObserveQuery(t.Context(), tt.query)

			if tt.want == "" {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), tt.want)
			assert.Contains(t, buf.String(), `"component":"cql"`)
			assert.Contains(t, buf.String(), tt.query.Statement)
		})
	}
}
