package config

import (
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"127.0.0.1"}, cfg.Cassandra.Hosts)
	assert.Equal(t, 9042, cfg.Cassandra.Port)
	assert.Equal(t, "meetup_db", cfg.Cassandra.Keyspace)
	assert.Equal(t, 3, cfg.Cassandra.ReplicationFactor)
	assert.Equal(t, "ONE", cfg.Cassandra.Consistency)
	assert.Equal(t, 5*time.Second, cfg.Cassandra.ConnectTimeout)
	assert.Equal(t, 2, cfg.Sample.EmployeeID)
	assert.False(t, cfg.Redis.Enabled())

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, ServiceName, cfg.Observability.ServiceName)
	assert.Equal(t, cfg.Primary.Env, cfg.Observability.Environment)
	assert.Equal(t, 500*time.Millisecond, cfg.Observability.Logging.SlowQueryThreshold)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("SAMPLE_PRIMARY__ENV", "production")
	t.Setenv("SAMPLE_CASSANDRA__HOSTS", "10.0.0.1, 10.0.0.2,,10.0.0.3")
	t.Setenv("SAMPLE_CASSANDRA__KEYSPACE", "other_ks")
	t.Setenv("SAMPLE_CASSANDRA__CONSISTENCY", "local_quorum")
	t.Setenv("SAMPLE_CASSANDRA__TIMEOUT", "2s")
	t.Setenv("SAMPLE_SAMPLE__EMPLOYEE_ID", "7")
	t.Setenv("SAMPLE_REDIS__ADDRESS", "localhost:6379")
	t.Setenv("SAMPLE_OBSERVABILITY__HEALTH_CHECKS__CHECKS", "cassandra")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"}, cfg.Cassandra.Hosts)
	assert.Equal(t, "other_ks", cfg.Cassandra.Keyspace)
	assert.Equal(t, 2*time.Second, cfg.Cassandra.Timeout)
	assert.Equal(t, 7, cfg.Sample.EmployeeID)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "production", cfg.Observability.Environment)
	assert.True(t, cfg.Observability.IsProduction())
	assert.True(t, cfg.Observability.HasCheck("cassandra"))
	assert.False(t, cfg.Observability.HasCheck("redis"))

	consistency, err := ParseConsistency(cfg.Cassandra.Consistency)
	require.NoError(t, err)
	assert.Equal(t, gocql.LocalQuorum, consistency)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"keyspace with a dash", "SAMPLE_CASSANDRA__KEYSPACE", "meetup-db"},
		{"keyspace starting with a digit", "SAMPLE_CASSANDRA__KEYSPACE", "1meetup"},
		{"unknown consistency", "SAMPLE_CASSANDRA__CONSISTENCY", "MOST"},
		{"zero replication factor", "SAMPLE_CASSANDRA__REPLICATION_FACTOR", "0"},
		{"port out of range", "SAMPLE_CASSANDRA__PORT", "70000"},
		{"unknown log level", "SAMPLE_OBSERVABILITY__LOGGING__LEVEL", "verbose"},
		{"unknown health check", "SAMPLE_OBSERVABILITY__HEALTH_CHECKS__CHECKS", "cassandra,postgres"},
		{"password without username", "SAMPLE_CASSANDRA__USERNAME", "cassandra"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestParseConsistency(t *testing.T) {
	c, err := ParseConsistency(" one ")
	require.NoError(t, err)
	assert.Equal(t, gocql.One, c)

	_, err = ParseConsistency("")
	assert.Error(t, err)
}

func TestEnvValue(t *testing.T) {
	key, value := envValue("SAMPLE_CASSANDRA.PORT", "9043")
	assert.Equal(t, "cassandra.port", key)
	assert.Equal(t, "9043", value)

	key, value = envValue("SAMPLE_SERVER__CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	assert.Equal(t, "server.cors_allowed_origins", key)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, value)
}
