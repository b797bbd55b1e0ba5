package cqlerr

import (
	"context"
	"errors"
	"fmt"

	"github.com/gocql/gocql"
)

// Code is the category of a driver error.
type Code string

const (
	Other          Code = "other"
	NotFound       Code = "not_found"
	Unavailable    Code = "unavailable"
	Overloaded     Code = "overloaded"
	ReadTimeout    Code = "read_timeout"
	WriteTimeout   Code = "write_timeout"
	ClientTimeout  Code = "client_timeout"
	NoHosts        Code = "no_hosts"
	SyntaxError    Code = "syntax_error"
	Invalid        Code = "invalid"
	Unauthorized   Code = "unauthorized"
	AlreadyExists  Code = "already_exists"
	Unprepared     Code = "unprepared"
	SessionClosed  Code = "session_closed"
	RequestAborted Code = "request_aborted"
)

// Error is a classified driver error.
type Error struct {
	Code Code

	// ServerCode is the protocol error code when the coordinator answered
	// with an error frame, 0 otherwise.
	ServerCode int
	Message    string

	// Keyspace and Table are filled for already-exists errors, and for
	// not-found errors tagged "table:<name>:" by the repositories.
	Keyspace string
	Table    string

	driverErr error
}

func (e *Error) Error() string {
	if e.ServerCode != 0 {
		return fmt.Sprintf("cassandra error 0x%04x (%s): %s", e.ServerCode, e.Code, e.Message)
	}
	return fmt.Sprintf("cassandra error (%s): %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

// Retryable reports whether the same statement may succeed if resent later.
func (e *Error) Retryable() bool {
	switch e.Code {
	case Unavailable, Overloaded, ReadTimeout, WriteTimeout, ClientTimeout, NoHosts:
		return true
	}
	return false
}

// MapCode maps a protocol error code to a Code.
func MapCode(serverCode int) Code {
	switch serverCode {
	case gocql.ErrCodeUnavailable:
		return Unavailable
	case gocql.ErrCodeOverloaded, gocql.ErrCodeBootstrapping:
		return Overloaded
	case gocql.ErrCodeReadTimeout, gocql.ErrCodeReadFailure:
		return ReadTimeout
	case gocql.ErrCodeWriteTimeout, gocql.ErrCodeWriteFailure:
		return WriteTimeout
	case gocql.ErrCodeSyntax:
		return SyntaxError
	case gocql.ErrCodeInvalid, gocql.ErrCodeConfig:
		return Invalid
	case gocql.ErrCodeUnauthorized, gocql.ErrCodeCredentials:
		return Unauthorized
	case gocql.ErrCodeAlreadyExists:
		return AlreadyExists
	case gocql.ErrCodeUnprepared:
		return Unprepared
	}
	return Other
}

// Classify converts any error into an *Error. It returns nil for nil.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr
	}

	out := &Error{Code: Other, Message: err.Error(), driverErr: err}

	var reqErr gocql.RequestError
	if errors.As(err, &reqErr) {
		out.ServerCode = reqErr.Code()
		out.Code = MapCode(reqErr.Code())
		out.Message = reqErr.Message()

		var exists *gocql.RequestErrAlreadyExists
		if errors.As(err, &exists) {
			out.Code = AlreadyExists
			out.Keyspace = exists.Keyspace
			out.Table = exists.Table
		}
		return out
	}

	switch {
	case errors.Is(err, gocql.ErrNotFound):
		out.Code = NotFound
		out.Table = tableFromMessage(err.Error())
	case errors.Is(err, gocql.ErrNoConnections), errors.Is(err, gocql.ErrNoHosts), errors.Is(err, gocql.ErrNoConnectionsStarted):
		out.Code = NoHosts
	case errors.Is(err, gocql.ErrTimeoutNoResponse), errors.Is(err, context.DeadlineExceeded):
		out.Code = ClientTimeout
	case errors.Is(err, gocql.ErrSessionClosed):
		out.Code = SessionClosed
	case errors.Is(err, context.Canceled):
		out.Code = RequestAborted
	}

	return out
}

// ErrCode reports the Code for err, Other when it cannot be classified.
func ErrCode(err error) Code {
	if c := Classify(err); c != nil {
		return c.Code
	}
	return Other
}
