package store

import (
	"context"
	"fmt"

	"showcase/config"
	"showcase/models"
)

// Store is the full surface of a driver.
type Store interface {
	ItemWriter
	ListItems(ctx context.Context, showcase string) ([]models.Item, error)
	DeleteItem(ctx context.Context, itemID string) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*MongoStore)(nil)
)

// Open selects the driver named in cfg. The memory driver starts pre-seeded.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "memory":
		m := NewMemoryStore()
		if _, err := Seed(ctx, m); err != nil {
			return nil, err
		}
		return m, nil
	case "sqlite":
		return OpenSQLite(ctx, cfg.SQLitePath)
	case "mongo":
		return OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}
