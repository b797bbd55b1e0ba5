// Package handler is the HTTP layer of the read API.
//
// Handlers bind and validate path parameters through the validation
// package, call the directory service and write JSON. Errors are returned
// untouched; the global error handler in middleware renders them.
package handler
