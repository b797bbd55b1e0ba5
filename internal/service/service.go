// Package service contains the business logic.
//
// It sits between the entry points (CLI commands and HTTP handlers) and the
// repository layer: the sample workflow lives here, as do the cached reads
// behind the HTTP API.
package service
