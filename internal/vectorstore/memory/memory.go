// Package memory is a brute-force cosine similarity store over
// in-process slices, the default index backend.
package memory

import (
	"errors"
	"math"
	"sort"
	"sync"

	"docchat/internal/domain"
)

// Storage keeps chunks and vectors in parallel slices.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	chunks    []domain.Chunk
	vectors   [][]float64
}

// NewStorage creates an empty in-memory store.
func NewStorage() *Storage { return &Storage{} }

// Upsert appends chunks with their vectors. The first call fixes the
// dimension; later calls must match it.
func (s *Storage) Upsert(chunks []domain.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	if len(chunks) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dimension == 0 {
		s.dimension = len(vectors[0])
	}
	for _, v := range vectors {
		if len(v) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	s.chunks = append(s.chunks, chunks...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}

// Search scores every stored vector against the query by cosine
// similarity, takes the topK best and drops those below threshold.
func (s *Storage) Search(vector []float64, topK int, threshold float64) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		topK = 5
	}
	if len(s.vectors) == 0 {
		return nil, nil
	}
	if len(vector) != s.dimension {
		return nil, errors.New("query vector dimension mismatch")
	}
	results := make([]domain.SearchResult, len(s.vectors))
	for i, v := range s.vectors {
		results[i] = domain.SearchResult{Chunk: s.chunks[i], Score: cosine(vector, v)}
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

// Clear drops everything and resets the dimension.
func (s *Storage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = 0
	s.chunks = nil
	s.vectors = nil
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
