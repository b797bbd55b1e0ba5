package database

import (
	"context"
	"time"

	"github.com/gocql/gocql"
	"github.com/rs/zerolog"
)

// queryObserver implements gocql.QueryObserver.
//
// gocql calls ObserveQuery once per attempt, after the attempt finishes.
// Two outputs:
//   - verbose (local env only): every statement at debug level
//   - slow: statements above the threshold at warn level, in every env
type queryObserver struct {
	log           zerolog.Logger
	verbose       bool
	slowThreshold time.Duration
}

func newQueryObserver(logger *zerolog.Logger, verbose bool, slowThreshold time.Duration) *queryObserver {
	return &queryObserver{
		log:           logger.With().Str("component", "cql").Logger(),
		verbose:       verbose,
		slowThreshold: slowThreshold,
	}
}

func (o *queryObserver) ObserveQuery(_ context.Context, q gocql.ObservedQuery) {
	elapsed := q.End.Sub(q.Start)
	slow := o.slowThreshold > 0 && elapsed > o.slowThreshold

	if !o.verbose && !slow && q.Err == nil {
		return
	}

	var event *zerolog.Event
	switch {
	case q.Err != nil:
		event = o.log.Warn().Err(q.Err)
	case slow:
		event = o.log.Warn().Dur("threshold", o.slowThreshold)
	default:
		event = o.log.Debug()
	}

	event = event.
		Str("keyspace", q.Keyspace).
		Str("statement", q.Statement).
		Dur("duration", elapsed).
		Int("rows", q.Rows).
		Int("attempt", q.Attempt)

	if q.Host != nil {
		event = event.Str("host", q.Host.ConnectAddress().String())
	}

	switch {
	case q.Err != nil:
		event.Msg("query failed")
	case slow:
		event.Msg("slow query")
	default:
		event.Msg("query")
	}
}
