// Package server defines the Server struct that composes the app's main
// dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger
//   - the Cassandra session
//   - the optional redis client backing the result cache
//   - the http.Server used by the serve command
//
// The CLI commands that do not serve HTTP use the same container and simply
// never call SetupHTTPServer.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/cassandra-sample/internal/config"
	"github.com/deppfellow/cassandra-sample/internal/database"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Server is the application container that holds shared resources.
type Server struct {
	Config *config.Config
	Logger *zerolog.Logger

	// DB holds the Cassandra session wrapper.
	DB *database.Database

	// Redis is nil unless redis.address is configured.
	Redis *redis.Client

	httpServer *http.Server
}

// New constructs a Server and connects its dependencies.
//
// A redis connection failure does not block startup: the cache degrades to
// direct Cassandra reads. A Cassandra failure does.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*Server, error) {
	db, err := database.New(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	server := &Server{
		Config: cfg,
		Logger: logger,
		DB:     db,
	}

	if cfg.Redis.Enabled() {
		server.Redis = redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Address,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := server.Redis.Ping(pingCtx).Err(); err != nil {
			logger.Error().Err(err).Msg("Failed to connect to Redis, continuing without cache hits")
		}
	}

	return server, nil
}

// SetupHTTPServer configures the internal net/http server around handler.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It blocks until the server stops and returns
// nil after a graceful Shutdown.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server, waiting for in-flight requests until ctx
// expires, then releases the other dependencies.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}
	return s.Close()
}

// Close releases redis and the Cassandra session.
func (s *Server) Close() error {
	var errs []error

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis client: %w", err))
		}
	}

	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database connection: %w", err))
		}
	}

	return errors.Join(errs...)
}
