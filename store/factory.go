// store/factory.go
package store

import (
	"context"
	"fmt"

	"equiptrack/config"
)

// New creates a Store implementation based on the store config type.
func New(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Type {
	case "", "file":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for file store")
		}
		return NewFileStore(cfg.DataDir)
	case "memory":
		return NewMemoryStore(), nil
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres_dsn required for postgres store")
		}
		return NewPostgresStore(cfg.PostgresDSN)
	case "mongo":
		if cfg.MongoURI == "" || cfg.MongoDatabase == "" {
			return nil, fmt.Errorf("mongo_uri and mongo_database required for mongo store")
		}
		return NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}
