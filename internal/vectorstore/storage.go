package vectorstore

import "docchat/internal/domain"

// Storage persists embedded chunks and supports similarity search.
// Dimension is fixed by the first Upsert and reset by Clear.
type Storage interface {
	// Upsert adds chunks with their embedding vectors. Additive.
	Upsert(chunks []domain.Chunk, vectors [][]float64) error
	// Search returns at most topK nearest chunks, best first, keeping
	// only those scoring at or above threshold. topK bounds the
	// candidate set before threshold filtering.
	Search(vector []float64, topK int, threshold float64) ([]domain.SearchResult, error)
	// Clear discards all stored content. Idempotent.
	Clear() error
}
