package store

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/dockgrid/pkg/observability"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendDiskv  = "diskv"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNull   = "null"
)

// Backends returns the backend names accepted by Open.
func Backends() []string {
	return []string{BackendFile, BackendMemory, BackendDiskv, BackendRedis, BackendMongo, BackendNull}
}

// Options selects and configures a backend.
type Options struct {
	Backend string // defaults to BackendFile
	Dir     string // file and diskv backends
	Redis   RedisConfig
	Mongo   MongoConfig
}

// Open creates the configured backend, instrumented with the registered
// observability hooks.
func Open(ctx context.Context, opts Options) (Store, error) {
	var (
		s   Store
		err error
	)
	backend := opts.Backend
	if backend == "" {
		backend = BackendFile
	}
	switch backend {
	case BackendFile:
		s, err = NewFileStore(opts.Dir)
	case BackendDiskv:
		s = NewDiskvStore(opts.Dir, 0)
	case BackendMemory:
		s = NewMemoryStore()
	case BackendRedis:
		s, err = NewRedisStore(ctx, opts.Redis)
	case BackendMongo:
		s, err = NewMongoStore(ctx, opts.Mongo)
	case BackendNull:
		s = NewNullStore()
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(s, backend), nil
}

// instrumented reports loads and saves to observability.Store().
type instrumented struct {
	Store
	backend string
}

// Instrument wraps s so every Load and Save is reported to the registered
// store hooks under the given backend name.
func Instrument(s Store, backend string) Store {
	return &instrumented{Store: s, backend: backend}
}

func (s *instrumented) Load(ctx context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	data, ok, err := s.Store.Load(ctx, key)
	observability.Store().OnLoad(ctx, s.backend, ok, time.Since(start), err)
	return data, ok, err
}

func (s *instrumented) Save(ctx context.Context, key string, data []byte) error {
	start := time.Now()
	err := s.Store.Save(ctx, key, data)
	observability.Store().OnSave(ctx, s.backend, len(data), time.Since(start), err)
	return err
}
