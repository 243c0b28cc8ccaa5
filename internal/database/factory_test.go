package database

import (
	"os"
	"path/filepath"
	"testing"

	"desksort/internal/config"
)

func TestNewStoreFromConfig(t *testing.T) {
	t.Run("memory store", func(t *testing.T) {
		got, err := NewStoreFromConfig(config.StoreConfig{Type: config.StoreMemory})
		if err != nil {
			t.Fatalf("NewStoreFromConfig() unexpected error: %v", err)
		}
		if _, ok := got.(*MemoryStore); !ok {
			t.Errorf("NewStoreFromConfig() = %T, want *MemoryStore", got)
		}
		got.Close()
	})

	t.Run("sqlite store creates the database file", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "data")
		got, err := NewStoreFromConfig(config.StoreConfig{Type: config.StoreSQLite, DataDir: dir})
		if err != nil {
			t.Fatalf("NewStoreFromConfig() unexpected error: %v", err)
		}
		defer got.Close()

		if _, err := os.Stat(filepath.Join(dir, DatabaseFileName)); err != nil {
			t.Errorf("database file not created: %v", err)
		}
	})

	t.Run("file store", func(t *testing.T) {
		got, err := NewStoreFromConfig(config.StoreConfig{Type: config.StoreFile, DataDir: t.TempDir()})
		if err != nil {
			t.Fatalf("NewStoreFromConfig() unexpected error: %v", err)
		}
		if _, ok := got.(*FileStore); !ok {
			t.Errorf("NewStoreFromConfig() = %T, want *FileStore", got)
		}
	})

	t.Run("missing data_dir", func(t *testing.T) {
		for _, typ := range []string{config.StoreSQLite, config.StoreFile} {
			got, err := NewStoreFromConfig(config.StoreConfig{Type: typ})
			if err == nil {
				t.Errorf("NewStoreFromConfig(%s) expected error for missing data_dir", typ)
			}
			if got != nil {
				t.Errorf("NewStoreFromConfig(%s) should return nil on error", typ)
			}
		}
	})

	t.Run("unknown store type", func(t *testing.T) {
		got, err := NewStoreFromConfig(config.StoreConfig{Type: "unknown"})
		if err == nil {
			t.Error("NewStoreFromConfig() expected error for unknown type, got nil")
		}
		if got != nil {
			t.Error("NewStoreFromConfig() should return nil on error")
		}
	})
}
