// Package sqlite stores profile metadata and document bytes in a
// single SQLite database. Reads of document bytes go through a cache
// directory so callers get a plain file path.
package sqlite

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"docchat/internal/domain"
	"docchat/internal/logger"
)

//go:embed schema.sql
var schema string

// Store is the SQLite-backed profile store.
type Store struct {
	db       *sql.DB
	cacheDir string
}

// New opens (creating if needed) the database at dataDir/metadata.db
// and prepares the blob cache directory next to it.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "metadata.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &Store{db: db, cacheDir: filepath.Join(dataDir, "blobcache")}, nil
}

// Create registers an empty profile. Duplicates are a silent no-op.
func (s *Store) Create(name string) error {
	_, err := s.db.Exec(`INSERT INTO profiles(name) VALUES(?) ON CONFLICT(name) DO NOTHING`, name)
	return err
}

// Delete removes the profile; documents cascade. Missing is a no-op.
func (s *Store) Delete(name string) error {
	if _, err := s.db.Exec(`DELETE FROM profiles WHERE name = ?`, name); err != nil {
		return err
	}
	if err := os.RemoveAll(filepath.Join(s.cacheDir, name)); err != nil {
		logger.Warnf("removing blob cache for %s: %v", name, err)
	}
	return nil
}

// AddDocument reads the source bytes and upserts them under
// (profile, displayName).
func (s *Store) AddDocument(profile, srcPath, displayName string) error {
	if ok, err := s.exists(profile); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("add document to %q: %w", profile, domain.ErrProfileNotFound)
	}
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("reading source document: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO documents(profile, name, data) VALUES(?, ?, ?)
		ON CONFLICT(profile, name) DO UPDATE SET data = excluded.data`,
		profile, displayName, data)
	if err != nil {
		return err
	}
	// Invalidate any cached copy of an overwritten document.
	_ = os.Remove(filepath.Join(s.cacheDir, profile, displayName))
	return nil
}

// List returns all profile names, sorted.
func (s *Store) List() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM profiles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Documents lists the profile's document names, pruning rows whose
// blob is empty.
func (s *Store) Documents(profile string) ([]string, error) {
	if ok, err := s.exists(profile); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("documents of %q: %w", profile, domain.ErrProfileNotFound)
	}
	if _, err := s.db.Exec(`DELETE FROM documents WHERE profile = ? AND length(data) = 0`, profile); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(`SELECT name FROM documents WHERE profile = ? ORDER BY added_at, name`, profile)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ResolvePath materializes the document bytes into the cache directory
// and returns the file path.
func (s *Store) ResolvePath(profile, displayName string) (string, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM documents WHERE profile = ? AND name = ?`,
		profile, displayName).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		if ok, exErr := s.exists(profile); exErr == nil && !ok {
			return "", fmt.Errorf("resolve in %q: %w", profile, domain.ErrProfileNotFound)
		}
		return "", fmt.Errorf("resolve %q: %w", displayName, domain.ErrDocumentNotFound)
	}
	if err != nil {
		return "", err
	}
	dir := filepath.Join(s.cacheDir, profile)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	path := filepath.Join(dir, displayName)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) exists(profile string) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM profiles WHERE name = ?`, profile).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
