package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// MethodRow is the cached inventory entry for one method.
type MethodRow struct {
	ClassName string `json:"class_name"`
	Name      string `json:"name"`
	Signature string `json:"signature"`
	LineCount int    `json:"line_count"`
}

// Store caches per-file parse inventories in SQLite so repeated queries
// against an unchanged source file skip re-scanning.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) a parse cache database at the given path.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:   db,
		path: path,
	}

	if err := store.init(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// init creates the database schema
func (s *Store) init() error {
	schema := `
		CREATE TABLE IF NOT EXISTS files (
			path TEXT PRIMARY KEY,
			content_hash TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS methods (
			file_path TEXT NOT NULL,
			class_name TEXT NOT NULL,
			name TEXT NOT NULL,
			signature TEXT NOT NULL,
			line_count INTEGER NOT NULL,
			position INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_methods_file ON methods(file_path);
		CREATE INDEX IF NOT EXISTS idx_methods_name ON methods(name);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// HashContent returns the cache key for a source file's contents.
func HashContent(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}

// Get returns the cached inventory for a file, or nil when the cache holds
// no entry for this path or the stored hash no longer matches.
func (s *Store) Get(path, contentHash string) ([]MethodRow, error) {
	var stored string
	err := s.db.QueryRow("SELECT content_hash FROM files WHERE path = ?", path).Scan(&stored)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if stored != contentHash {
		return nil, nil
	}

	rows, err := s.db.Query(`
		SELECT class_name, name, signature, line_count
		FROM methods WHERE file_path = ?
		ORDER BY position
	`, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []MethodRow
	for rows.Next() {
		var m MethodRow
		if err := rows.Scan(&m.ClassName, &m.Name, &m.Signature, &m.LineCount); err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	return out, rows.Err()
}

// Put replaces the cached inventory for a file.
func (s *Store) Put(path, contentHash string, methods []MethodRow) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM methods WHERE file_path = ?", path); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO files (path, content_hash) VALUES (?, ?)",
		path, contentHash,
	); err != nil {
		_ = tx.Rollback()
		return err
	}

	for i, m := range methods {
		if _, err := tx.Exec(`
			INSERT INTO methods (file_path, class_name, name, signature, line_count, position)
			VALUES (?, ?, ?, ?, ?, ?)
		`, path, m.ClassName, m.Name, m.Signature, m.LineCount, i); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// Invalidate removes a file's cached inventory.
func (s *Store) Invalidate(path string) error {
	if _, err := s.db.Exec("DELETE FROM methods WHERE file_path = ?", path); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM files WHERE path = ?", path)
	return err
}

// Clear removes all data
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM methods"); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM files")
	return err
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
