package backend

import (
	"context"
	"fmt"

	"smartfinance/internal/log"
	"smartfinance/internal/storage"
	"smartfinance/internal/storage/bolt"
	"smartfinance/internal/storage/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Default()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case BoltBackend:
		return f.createBoltBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Store:   repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createBoltBackend(ctx context.Context, config Config) (*BackendResult, error) {
	store, err := bolt.New(config.BoltDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bolt store: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized bolt backend", "db_path", config.BoltDBPath)

	return &BackendResult{
		Store:   store,
		Cleanup: store.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(ctx context.Context, config Config) (*BackendResult, error) {
	var store *memory.Store
	if config.DataDirectory == "" {
		store = memory.New()
	} else {
		store = memory.NewFromFiles(config.DataDirectory)
	}

	f.logger.InfoContext(ctx, "Initialized memory backend", "data_directory", config.DataDirectory)
	if !store.Persistent() {
		f.logger.WarnContext(ctx, "Memory backend keeps changes only until the process exits")
	}

	return &BackendResult{
		Store:   store,
		Cleanup: nil,
	}, nil
}
