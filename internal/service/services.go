package service

import (
	"github.com/deppfellow/cassandra-sample/internal/cache"
	"github.com/deppfellow/cassandra-sample/internal/repository"
	"github.com/deppfellow/cassandra-sample/internal/server"
)

// Services is a container for the business layer.
type Services struct {
	Sample    *SampleService
	Directory *DirectoryService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	sample := NewSampleService(s.DB, repos, s.Logger, SampleOptions{
		Keyspace:          s.Config.Cassandra.Keyspace,
		ReplicationFactor: s.Config.Cassandra.ReplicationFactor,
		EmployeeID:        s.Config.Sample.EmployeeID,
	})

	directory := NewDirectoryService(repos, cache.New(s.Redis, s.Config.Redis.TTL, s.Logger))

	return &Services{
		Sample:    sample,
		Directory: directory,
	}, nil
}
