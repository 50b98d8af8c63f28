// Package file persists the similarity index as a gob snapshot under a
// fixed local directory, so ingested content survives restarts.
package file

import (
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"docchat/internal/domain"
)

const indexFile = "index.gob"

// snapshot is the on-disk shape of the index.
type snapshot struct {
	Dimension int
	Chunks    []domain.Chunk
	Vectors   [][]float64
}

// Storage is an in-process cosine store mirrored to disk after every
// mutation. Writes go through a temp file and rename.
type Storage struct {
	mu   sync.RWMutex
	dir  string
	data snapshot
}

// NewStorage opens or creates the index under dir.
func NewStorage(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}
	s := &Storage{dir: dir}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Storage) path() string { return filepath.Join(s.dir, indexFile) }

func (s *Storage) load() error {
	f, err := os.Open(s.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(&s.data); err != nil {
		return fmt.Errorf("decoding index: %w", err)
	}
	return nil
}

func (s *Storage) save() error {
	tmp := s.path() + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(f).Encode(&s.data); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, s.path())
}

// Upsert appends chunks with their vectors and writes the snapshot.
func (s *Storage) Upsert(chunks []domain.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	if len(chunks) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.Dimension == 0 {
		s.data.Dimension = len(vectors[0])
	}
	for _, v := range vectors {
		if len(v) != s.data.Dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	s.data.Chunks = append(s.data.Chunks, chunks...)
	s.data.Vectors = append(s.data.Vectors, vectors...)
	return s.save()
}

// Search behaves like the memory store: topK candidates by cosine
// similarity, then threshold filtering.
func (s *Storage) Search(vector []float64, topK int, threshold float64) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		topK = 5
	}
	if len(s.data.Vectors) == 0 {
		return nil, nil
	}
	if len(vector) != s.data.Dimension {
		return nil, errors.New("query vector dimension mismatch")
	}
	results := make([]domain.SearchResult, len(s.data.Vectors))
	for i, v := range s.data.Vectors {
		results[i] = domain.SearchResult{Chunk: s.data.Chunks[i], Score: cosine(vector, v)}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK < len(results) {
		results = results[:topK]
	}
	kept := results[:0]
	for _, r := range results {
		if r.Score >= threshold {
			kept = append(kept, r)
		}
	}
	return kept, nil
}

// Clear drops all content and removes the snapshot file.
func (s *Storage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = snapshot{}
	if err := os.Remove(s.path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
