package main

import (
	"os"

	"github.com/deppfellow/cassandra-sample/internal/logger"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log := logger.Bootstrap()
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
