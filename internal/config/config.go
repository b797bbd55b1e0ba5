// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file when
// one exists), loads them into structured Go types, and validates them so the
// sample fails fast on a bad cluster address or keyspace name.
//
// Responsibilities:
//   - Provide defaults for a local single node (keyspace meetup_db,
//     replication factor 3, consistency ONE).
//   - Overlay environment variables prefixed with SAMPLE_.
//   - Validate required values and enums.
package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process environment before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Key mapping:
	- Env vars are read using the prefix SAMPLE_.
	- Keys are lowercased and the prefix removed.
	- Nesting uses "." (SAMPLE_CASSANDRA.HOSTS) or "__" for shells that
	  refuse dots in variable names (SAMPLE_CASSANDRA__HOSTS).
	  Both end up as cassandra.hosts -> Config.Cassandra.Hosts.
	- Lists are comma separated, durations use time.ParseDuration syntax.
*/

// EnvPrefix is the prefix every configuration variable must carry.
const EnvPrefix = "SAMPLE_"

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If it ends up nil the
// defaults from DefaultObservabilityConfig are injected.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Cassandra     CassandraConfig      `koanf:"cassandra" validate:"required"`
	Sample        SampleConfig         `koanf:"sample" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Redis         RedisConfig          `koanf:"redis"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// CassandraConfig describes how to reach the cluster and where the sample
// schema lives.
type CassandraConfig struct {
	// Hosts are the contact points used to bootstrap the driver.
	Hosts []string `koanf:"hosts" validate:"required,min=1,dive,required"`
	Port  int      `koanf:"port" validate:"required,min=1,max=65535"`

	Keyspace          string `koanf:"keyspace" validate:"required,cql_identifier"`
	ReplicationFactor int    `koanf:"replication_factor" validate:"required,min=1"`

	// Consistency is a level name understood by gocql (ONE, QUORUM, LOCAL_QUORUM...).
	Consistency string `koanf:"consistency" validate:"required"`

	Username string `koanf:"username"`
	Password string `koanf:"password" validate:"required_with=Username"`

	// LocalDC enables DC-aware routing when set.
	LocalDC string `koanf:"local_dc"`

	// DisableHostLookup keeps the driver on the configured contact points
	// instead of the addresses nodes advertise, for clusters behind NAT or
	// docker port mappings.
	DisableHostLookup bool `koanf:"disable_host_lookup"`

	// ProtoVersion 0 lets the driver negotiate.
	ProtoVersion int `koanf:"proto_version" validate:"min=0,max=5"`

	ConnectTimeout time.Duration `koanf:"connect_timeout" validate:"required"`
	Timeout        time.Duration `koanf:"timeout" validate:"required"`
	NumConns       int           `koanf:"num_conns" validate:"required,min=1"`

	// ConnectAttempts bounds how many times session creation is tried
	// before giving up, RetryBackoff is the initial delay between tries.
	ConnectAttempts int           `koanf:"connect_attempts" validate:"required,min=1"`
	RetryBackoff    time.Duration `koanf:"retry_backoff" validate:"required"`

	// QueryRetries is handed to gocql's ExponentialBackoffRetryPolicy.
	QueryRetries int `koanf:"query_retries" validate:"min=0"`
}

// SampleConfig tunes the fixed demonstration workflow.
type SampleConfig struct {
	// EmployeeID is the partition key used by the employee lookup query.
	EmployeeID int `koanf:"employee_id" validate:"required,min=1"`
}

// ServerConfig groups settings for the optional HTTP read API.
//
// Timeouts are whole seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
	RateLimit          float64  `koanf:"rate_limit" validate:"min=0"`
}

// RedisConfig contains the optional result cache connection.
// An empty Address disables caching.
type RedisConfig struct {
	Address string        `koanf:"address"`
	TTL     time.Duration `koanf:"ttl"`
}

// Enabled reports whether a redis address has been configured.
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

// defaults target a local single node.
func defaults() map[string]interface{} {
	obs := DefaultObservabilityConfig()
	return map[string]interface{}{
		"primary.env": "development",

		"cassandra.hosts":               []string{"127.0.0.1"},
		"cassandra.port":                9042,
		"cassandra.keyspace":            "meetup_db",
		"cassandra.replication_factor":  3,
		"cassandra.consistency":         "ONE",
		"cassandra.proto_version":       0,
		"cassandra.connect_timeout":     "5s",
		"cassandra.timeout":             "10s",
		"cassandra.num_conns":           2,
		"cassandra.connect_attempts":    5,
		"cassandra.retry_backoff":       "1s",
		"cassandra.query_retries":       3,
		"cassandra.disable_host_lookup": false,

		"sample.employee_id": 2,

		"server.port":                 "8080",
		"server.read_timeout":         30,
		"server.write_timeout":        30,
		"server.idle_timeout":         60,
		"server.cors_allowed_origins": []string{"*"},
		"server.rate_limit":           20.0,

		"redis.ttl": "30s",

		"observability.service_name":                 obs.ServiceName,
		"observability.environment":                  obs.Environment,
		"observability.logging.level":                obs.Logging.Level,
		"observability.logging.format":               obs.Logging.Format,
		"observability.logging.slow_query_threshold": obs.Logging.SlowQueryThreshold.String(),
		"observability.health_checks.enabled":        obs.HealthChecks.Enabled,
		"observability.health_checks.interval":       obs.HealthChecks.Interval.String(),
		"observability.health_checks.timeout":        obs.HealthChecks.Timeout.String(),
		"observability.health_checks.checks":         obs.HealthChecks.Checks,
	}
}

// listKeys are the keys whose env values are comma separated lists.
var listKeys = map[string]bool{
	"cassandra.hosts":                    true,
	"server.cors_allowed_origins":        true,
	"observability.health_checks.checks": true,
}

// envKey turns SAMPLE_CASSANDRA__HOSTS or SAMPLE_CASSANDRA.HOSTS into
// cassandra.hosts.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// envValue maps a raw env var to its koanf key and splits list values.
func envValue(s, v string) (string, interface{}) {
	key := envKey(s)
	if !listKeys[key] {
		return key, v
	}

	var items []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

var cqlIdentifier = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]{0,47}$`)

// NewValidator returns a validator with the custom tags used by Config.
func NewValidator() *validator.Validate {
	validate := validator.New()

	// Keyspace names are interpolated into DDL, so they must be plain
	// unquoted CQL identifiers.
	_ = validate.RegisterValidation("cql_identifier", func(fl validator.FieldLevel) bool {
		return cqlIdentifier.MatchString(fl.Field().String())
	})

	return validate
}

// LoadConfig loads defaults, overlays environment variables, validates the
// result and returns it.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("could not load default config: %w", err)
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if err := NewValidator().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := mainConfig.Cassandra.Validate(); err != nil {
		return nil, err
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// The service name is fixed; the environment label always follows
	// primary.env so logs are tagged consistently.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// Validate checks the parts of CassandraConfig struct tags cannot express.
func (c *CassandraConfig) Validate() error {
	if _, err := ParseConsistency(c.Consistency); err != nil {
		return err
	}
	return nil
}
