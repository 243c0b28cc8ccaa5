package database

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"desksort/internal/config"
	"desksort/internal/desk"
)

// DatabaseFileName is the SQLite file created under the data directory.
const DatabaseFileName = "desksort.db"

// NewStoreFromConfig creates a DocumentStore based on the store config type.
func NewStoreFromConfig(cfg config.StoreConfig) (desk.DocumentStore, error) {
	switch cfg.Type {
	case config.StoreSQLite:
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite store")
		}
		if err := afero.NewOsFs().MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		store, err := NewSQLiteStore(filepath.Join(cfg.DataDir, DatabaseFileName))
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StoreFile:
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for file store")
		}
		store, err := NewFileStore(afero.NewOsFs(), cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StoreMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}
