// Package fs stores profiles as a directory per profile under a fixed
// root, with document bytes as files named by their display name and
// the mapping mirrored into profiles.json.
package fs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"

	"docchat/internal/domain"
	"docchat/internal/logger"
)

const mappingFile = "profiles.json"

// Store is the filesystem-backed profile store.
type Store struct {
	mu       sync.Mutex
	root     string
	profiles map[string][]string
}

// New opens or creates a store rooted at dir. If the mapping file is
// missing the store is rebuilt from the directory layout.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating profile root: %w", err)
	}
	s := &Store{root: dir, profiles: map[string][]string{}}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(filepath.Join(s.root, mappingFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s.rebuild()
		}
		return err
	}
	if err := json.Unmarshal(data, &s.profiles); err != nil {
		logger.Warnf("profiles.json unreadable, rebuilding: %v", err)
		return s.rebuild()
	}
	return nil
}

// rebuild scans the directory layout and rewrites the mapping.
func (s *Store) rebuild() error {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return err
	}
	s.profiles = map[string][]string{}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		docs, err := os.ReadDir(filepath.Join(s.root, e.Name()))
		if err != nil {
			continue
		}
		names := make([]string, 0, len(docs))
		for _, d := range docs {
			if !d.IsDir() {
				names = append(names, d.Name())
			}
		}
		s.profiles[e.Name()] = names
	}
	return s.save()
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.profiles, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.root, mappingFile), data, 0o644)
}

// Create registers an empty profile. Duplicates are a silent no-op.
func (s *Store) Create(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[name]; ok {
		return nil
	}
	if err := os.MkdirAll(filepath.Join(s.root, name), 0o755); err != nil {
		return err
	}
	s.profiles[name] = []string{}
	return s.save()
}

// Delete removes the profile directory and every stored document.
// A missing name is a no-op.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[name]; !ok {
		return nil
	}
	if err := os.RemoveAll(filepath.Join(s.root, name)); err != nil {
		return err
	}
	delete(s.profiles, name)
	return s.save()
}

// AddDocument copies srcPath into the profile directory under
// displayName and records it in the mapping.
func (s *Store) AddDocument(profile, srcPath, displayName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, ok := s.profiles[profile]
	if !ok {
		return fmt.Errorf("add document to %q: %w", profile, domain.ErrProfileNotFound)
	}
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("reading source document: %w", err)
	}
	defer src.Close()
	if err := os.MkdirAll(filepath.Join(s.root, profile), 0o755); err != nil {
		return err
	}
	dst, err := os.Create(filepath.Join(s.root, profile, displayName))
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return err
	}
	if !slices.Contains(docs, displayName) {
		s.profiles[profile] = append(docs, displayName)
	}
	return s.save()
}

// List returns all profile names, sorted.
func (s *Store) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Documents validates that each listed document still has bytes on
// disk, drops stale entries and persists the pruned mapping.
func (s *Store) Documents(profile string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, ok := s.profiles[profile]
	if !ok {
		return nil, fmt.Errorf("documents of %q: %w", profile, domain.ErrProfileNotFound)
	}
	alive := make([]string, 0, len(docs))
	for _, name := range docs {
		if _, err := os.Stat(filepath.Join(s.root, profile, name)); err != nil {
			logger.Warnf("profile %s: dropping stale document %s", profile, name)
			continue
		}
		alive = append(alive, name)
	}
	if len(alive) != len(docs) {
		s.profiles[profile] = alive
		if err := s.save(); err != nil {
			return nil, err
		}
	}
	return slices.Clone(alive), nil
}

// ResolvePath returns the on-disk location of a stored document.
func (s *Store) ResolvePath(profile, displayName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, ok := s.profiles[profile]
	if !ok {
		return "", fmt.Errorf("resolve in %q: %w", profile, domain.ErrProfileNotFound)
	}
	if !slices.Contains(docs, displayName) {
		return "", fmt.Errorf("resolve %q: %w", displayName, domain.ErrDocumentNotFound)
	}
	path := filepath.Join(s.root, profile, displayName)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("resolve %q: %w", displayName, domain.ErrDocumentNotFound)
	}
	return path, nil
}

// Close is a no-op for the filesystem backend.
func (s *Store) Close() error { return nil }
