package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlattenMetadata(t *testing.T) {
	page := map[string]any{
		"title":   "Report",
		"page":    int64(3),
		"scanned": true,
		"ratio":   0.5,
		"nested":  map[string]any{"drop": "me"},
		"list":    []string{"also", "dropped"},
	}
	chunk := map[string]string{
		"source": "paper.pdf",
		"title":  "Chunk Title",
	}

	got := FlattenMetadata(page, chunk)

	assert.Equal(t, map[string]string{
		"title":   "Chunk Title",
		"page":    "3",
		"scanned": "true",
		"ratio":   "0.5",
		"source":  "paper.pdf",
	}, got)
}

func TestFlattenMetadata_Empty(t *testing.T) {
	got := FlattenMetadata(nil, nil)
	assert.Empty(t, got)
}
