package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/domain"
)

func chunk(id string) domain.Chunk {
	return domain.Chunk{ID: id, Document: "doc", Text: "text " + id}
}

func TestSearch_OrderAndTopK(t *testing.T) {
	s := NewStorage()
	require.NoError(t, s.Upsert(
		[]domain.Chunk{chunk("a"), chunk("b"), chunk("c")},
		[][]float64{{1, 0}, {0.9, 0.1}, {0, 1}},
	))

	results, err := s.Search([]float64{1, 0}, 2, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Chunk.ID)
	assert.Equal(t, "b", results[1].Chunk.ID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearch_ThresholdAppliesAfterTopK(t *testing.T) {
	s := NewStorage()
	require.NoError(t, s.Upsert(
		[]domain.Chunk{chunk("a"), chunk("b"), chunk("c")},
		[][]float64{{1, 0}, {0.9, 0.1}, {0, 1}},
	))

	// topK bounds candidates before filtering: "c" has a low score and
	// is in the candidate set, then drops out on threshold.
	results, err := s.Search([]float64{1, 0}, 3, 0.5)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// A threshold above any attainable cosine score yields nothing.
	results, err = s.Search([]float64{1, 0}, 3, 1.01)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_EmptyStore(t *testing.T) {
	s := NewStorage()
	results, err := s.Search([]float64{1, 0}, 5, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestUpsert_DimensionMismatch(t *testing.T) {
	s := NewStorage()
	require.NoError(t, s.Upsert([]domain.Chunk{chunk("a")}, [][]float64{{1, 0}}))

	err := s.Upsert([]domain.Chunk{chunk("b")}, [][]float64{{1, 0, 0}})
	require.Error(t, err)

	err = s.Upsert([]domain.Chunk{chunk("b"), chunk("c")}, [][]float64{{1, 0}})
	require.Error(t, err)
}

func TestClear_ResetsDimension(t *testing.T) {
	s := NewStorage()
	require.NoError(t, s.Upsert([]domain.Chunk{chunk("a")}, [][]float64{{1, 0}}))
	require.NoError(t, s.Clear())

	// A new dimension is accepted after Clear.
	require.NoError(t, s.Upsert([]domain.Chunk{chunk("b")}, [][]float64{{1, 0, 0}}))
	results, err := s.Search([]float64{1, 0, 0}, 5, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "b", results[0].Chunk.ID)
}
