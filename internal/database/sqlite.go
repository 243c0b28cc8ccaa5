package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"desksort/internal/database/migrations"
	"desksort/internal/desk"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const memoryPath = ":memory:"

// SQLiteStore implements desk.DocumentStore on a single SQLite table.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens the database at path, applying pending migrations.
// path can be a file path or ":memory:".
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating %s: %w", path, err)
	}
	if err := migrations.CheckStatus(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("checking schema of %s: %w", path, err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == memoryPath {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying %q: %w", pragma, err)
		}
	}
	return db, nil
}

// Get returns the document body, or nil if absent.
func (s *SQLiteStore) Get(name string) ([]byte, error) {
	var body []byte
	err := s.db.QueryRow("SELECT body FROM documents WHERE name = ?", name).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading document %s: %w", name, err)
	}
	return body, nil
}

// Put inserts or replaces the named document.
func (s *SQLiteStore) Put(name string, data []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO documents (name, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		name, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("writing document %s: %w", name, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time check that SQLiteStore implements desk.DocumentStore.
var _ desk.DocumentStore = (*SQLiteStore)(nil)
