package database

import (
	"fmt"
	"os"
	"path/filepath"

	"gallery-go/internal/config"
	"gallery-go/internal/gallery"
)

// NewStoreFromConfig creates a key-value store based on the database config type.
// In-memory stores are migrated immediately since nothing else could have
// created their schema.
func NewStoreFromConfig(cfg config.DatabaseConfig, deviceID string, clock gallery.Clock) (*SQLiteStore, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		return NewSQLiteStore(filepath.Join(cfg.DataDir, deviceID+".db"), clock)
	case "memory":
		s, err := NewSQLiteStore(":memory:", clock)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(); err != nil {
			s.Close()
			return nil, fmt.Errorf("migrating in-memory database: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
