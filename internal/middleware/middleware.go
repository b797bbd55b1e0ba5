// Package middleware holds the echo middleware of the read API: request IDs,
// request-scoped logging, CORS, rate limiting, panic recovery and the global
// error handler that turns driver errors into JSON responses.
package middleware
