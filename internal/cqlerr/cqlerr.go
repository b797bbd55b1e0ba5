// Package cqlerr handles errors coming out of the Cassandra driver.
//
// It classifies gocql errors (server error codes, sentinel errors such as
// gocql.ErrNotFound) into a small set of codes and converts them into
// errs.HTTPError values clients can act on, e.g. "unavailable" becomes a
// retryable 503 instead of an opaque 500.
package cqlerr
