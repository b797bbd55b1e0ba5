// Package errs defines the error shapes returned by the HTTP API.
//
// Every failure that reaches a client is an *HTTPError so responses share
// one JSON layout: a machine readable code, a message, the status and
// optional per-field details.
package errs
