package filestore

import (
	"context"
	"fmt"

	"gallery-go/internal/config"
	"gallery-go/internal/gallery"
)

// NewFileStoreFromConfig creates a FileStore implementation based on the file store config type.
// Encryption is applied by the caller, which owns the key material.
func NewFileStoreFromConfig(ctx context.Context, cfg config.FileStoreConfig) (gallery.FileStore, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(cfg.Name), nil
	case "filesystem":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("filesystem file store requires data_dir to be set")
		}
		return NewFileSystemStore(cfg.Name, cfg.DataDir)
	case "s3":
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown file store type: %s", cfg.Type)
	}
}
