// Package database contains the logic for establishing a session with the
// Cassandra cluster.
//
// It handles:
//   - building a gocql cluster configuration from config
//   - creating the session, retrying while the cluster is still coming up
//   - routing driver logs and per-query observations into zerolog
//   - describing the cluster topology once connected
//   - creating and dropping the sample schema (schema.go)
package database

import (
	"context"
	"time"

	"github.com/deppfellow/cassandra-sample/internal/config"
	loggerPkg "github.com/deppfellow/cassandra-sample/internal/logger"
	"github.com/gocql/gocql"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
)

// Session is the slice of the driver the rest of the application uses.
//
// *Database implements it on top of *gocql.Session. Tests substitute an
// in-memory fake so repositories and services run without a cluster.
type Session interface {
	// Exec runs a statement that returns no rows. Values are bound to the
	// statement's markers; gocql prepares and caches the statement.
	Exec(ctx context.Context, stmt string, values ...interface{}) error

	// Query runs a statement and returns a row scanner. The caller must
	// drain it and check Err.
	Query(ctx context.Context, stmt string, values ...interface{}) gocql.Scanner

	// AwaitSchemaAgreement blocks until every node reports the same schema version.
	AwaitSchemaAgreement(ctx context.Context) error
}

// Database wraps the gocql session and a logger.
type Database struct {
	Session *gocql.Session
	Cluster *gocql.ClusterConfig
	log     *zerolog.Logger
}

// DatabasePingTimeout is how long the startup ping may take.
const DatabasePingTimeout = 10 * time.Second

var _ Session = (*Database)(nil)

// NewClusterConfig translates CassandraConfig into a gocql cluster config.
func NewClusterConfig(cfg *config.Config, logger *zerolog.Logger) (*gocql.ClusterConfig, error) {
	cc := cfg.Cassandra

	consistency, err := config.ParseConsistency(cc.Consistency)
	if err != nil {
		return nil, err
	}

	cluster := gocql.NewCluster(cc.Hosts...)
	cluster.Port = cc.Port
	cluster.Consistency = consistency
	cluster.ConnectTimeout = cc.ConnectTimeout
	cluster.Timeout = cc.Timeout
	cluster.NumConns = cc.NumConns
	cluster.DisableInitialHostLookup = cc.DisableHostLookup
	if cc.ProtoVersion > 0 {
		cluster.ProtoVersion = cc.ProtoVersion
	}

	if cc.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cc.Username,
			Password: cc.Password,
		}
	}

	// Token-aware routing sends each statement straight to a replica. With a
	// local DC configured, remote DCs are only used as a fallback.
	if cc.LocalDC != "" {
		cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.DCAwareRoundRobinPolicy(cc.LocalDC))
	} else {
		cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())
	}

	if cc.QueryRetries > 0 {
		cluster.RetryPolicy = &gocql.ExponentialBackoffRetryPolicy{
			NumRetries: cc.QueryRetries,
			Min:        100 * time.Millisecond,
			Max:        2 * time.Second,
		}
	}

	cluster.Logger = loggerPkg.NewDriverLogger(*logger)
	cluster.QueryObserver = newQueryObserver(logger, cfg.Primary.Env == "local", cfg.Observability.Logging.SlowQueryThreshold)

	return cluster, nil
}

// New creates the Cassandra session.
//
// Behavior:
//   - build the cluster config
//   - create the session, retrying with exponential backoff up to
//     cassandra.connect_attempts times
//   - ping the cluster so startup fails fast when it is unusable
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*Database, error) {
	cluster, err := NewClusterConfig(cfg, logger)
	if err != nil {
		return nil, err
	}

	var session *gocql.Session
	err = connectWithRetry(ctx, logger, cfg.Cassandra.ConnectAttempts, cfg.Cassandra.RetryBackoff, func() error {
		s, err := cluster.CreateSession()
		if err != nil {
			return err
		}
		session = s
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to cassandra %v", cfg.Cassandra.Hosts)
	}

	db := &Database{
		Session: session,
		Cluster: cluster,
		log:     logger,
	}

	pingCtx, cancel := context.WithTimeout(ctx, DatabasePingTimeout)
	defer cancel()
	if err := db.Ping(pingCtx); err != nil {
		session.Close()
		return nil, errors.Wrap(err, "failed to ping cassandra")
	}

	logger.Info().Strs("hosts", cfg.Cassandra.Hosts).Msg("connected to the cluster")

	return db, nil
}

// connectWithRetry calls dial until it succeeds, attempts run out or ctx ends.
func connectWithRetry(ctx context.Context, logger *zerolog.Logger, attempts int, backoff time.Duration, dial func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	b := retry.NewExponential(backoff)
	b = retry.WithCappedDuration(30*time.Second, b)
	b = retry.WithMaxRetries(uint64(attempts-1), b)

	attempt := 0
	return retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		if err := dial(); err != nil {
			logger.Warn().
				Err(err).
				Int("attempt", attempt).
				Int("max_attempts", attempts).
				Msg("cassandra connection attempt failed")
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (db *Database) Exec(ctx context.Context, stmt string, values ...interface{}) error {
	return db.Session.Query(stmt, values...).WithContext(ctx).Exec()
}

func (db *Database) Query(ctx context.Context, stmt string, values ...interface{}) gocql.Scanner {
	return db.Session.Query(stmt, values...).WithContext(ctx).Idempotent(true).Iter().Scanner()
}

func (db *Database) AwaitSchemaAgreement(ctx context.Context) error {
	return db.Session.AwaitSchemaAgreement(ctx)
}

// Ping runs a trivial read against the coordinator.
func (db *Database) Ping(ctx context.Context) error {
	var version string
	return db.Session.Query("SELECT release_version FROM system.local").WithContext(ctx).Scan(&version)
}

// Close closes the session. Calling it more than once is harmless.
func (db *Database) Close() error {
	if db.Session == nil || db.Session.Closed() {
		return nil
	}
	db.Session.Close()
	db.log.Info().Msg("closed connection with cluster")
	return nil
}
