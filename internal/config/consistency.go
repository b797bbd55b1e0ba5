package config

import (
	"fmt"
	"strings"

	"github.com/gocql/gocql"
)

// ParseConsistency converts a level name such as "one" or "LOCAL_QUORUM"
// into the driver's constant.
func ParseConsistency(name string) (gocql.Consistency, error) {
	c, err := gocql.ParseConsistencyWrapper(strings.ToUpper(strings.TrimSpace(name)))
	if err != nil {
		return gocql.Any, fmt.Errorf("invalid cassandra consistency %q: %w", name, err)
	}
	return c, nil
}
