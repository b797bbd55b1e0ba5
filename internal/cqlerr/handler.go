package cqlerr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/cassandra-sample/internal/errs"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const tablePrefix = "table:"

// tableFromMessage extracts <name> from an error tagged "table:<name>:".
func tableFromMessage(msg string) string {
	_, rest, ok := strings.Cut(msg, tablePrefix)
	if !ok {
		return ""
	}
	table, _, _ := strings.Cut(rest, ":")
	return table
}

// generateErrorCode builds a machine readable code such as
// DEPARTMENT_NOT_FOUND from the table and the error category.
func generateErrorCode(tableName string, code Code) string {
	if tableName == "" {
		tableName = "RECORD"
	}

	domain := strings.ToUpper(tableName)
	if strings.HasSuffix(domain, "S") && len(domain) > 1 {
		domain = domain[:len(domain)-1]
	}

	action := "ERROR"
	switch code {
	case NotFound:
		action = "NOT_FOUND"
	case AlreadyExists:
		action = "ALREADY_EXISTS"
	case Invalid, SyntaxError:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

func getEntityName(tableName string) string {
	if tableName == "" {
		return "record"
	}
	entity := tableName
	if strings.HasSuffix(entity, "s") && len(entity) > 1 {
		entity = entity[:len(entity)-1]
	}
	return humanizeText(entity)
}

// humanizeText turns snake_case into Title Case.
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// HandleError converts a driver error into an *errs.HTTPError.
//
// Errors that are already HTTP errors pass through. Missing rows become
// 404s, cluster capacity problems become retryable 503s and everything else
// becomes a 500 without driver details.
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	cqlErr := Classify(err)
	if cqlErr == nil {
		return nil
	}

	switch cqlErr.Code {
	case NotFound:
		code := generateErrorCode(cqlErr.Table, NotFound)
		return errs.NewNotFoundError(fmt.Sprintf("%s not found", getEntityName(cqlErr.Table)), true, &code)

	case AlreadyExists:
		code := generateErrorCode(cqlErr.Table, AlreadyExists)
		return errs.NewBadRequestError(fmt.Sprintf("%s already exists", getEntityName(cqlErr.Table)), true, &code, nil)

	case Unavailable, Overloaded:
		code := "CLUSTER_UNAVAILABLE"
		return errs.NewServiceUnavailableError("Not enough replicas are available to serve the request", &code)

	case ReadTimeout, WriteTimeout, ClientTimeout:
		code := "CLUSTER_TIMEOUT"
		return errs.NewServiceUnavailableError("The cluster did not answer in time", &code)

	case NoHosts, SessionClosed:
		code := "CLUSTER_UNREACHABLE"
		return errs.NewServiceUnavailableError("No cluster node is reachable", &code)
	}

	return errs.NewInternalServerError()
}
