package chunker

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"docchat/internal/domain"
)

// CharacterChunker splits extracted text into fixed-size character
// windows with overlap between consecutive chunks, so a sentence on a
// chunk boundary still shares context with its neighbour.
type CharacterChunker struct {
	size    int
	overlap int
}

// NewCharacterChunker creates a chunker with the given window size and
// overlap, measured in runes. Invalid values fall back to 1024/100.
func NewCharacterChunker(size, overlap int) *CharacterChunker {
	if size <= 0 {
		size = 1024
	}
	if overlap < 0 || overlap >= size {
		overlap = 100
		if overlap >= size {
			overlap = size / 4
		}
	}
	return &CharacterChunker{size: size, overlap: overlap}
}

// Chunk splits every page of the document into overlapping windows.
// Chunk indexes run across the whole document, pages carry over into
// chunk metadata.
func (c *CharacterChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	idx := 0
	for _, page := range document.Pages {
		text := strings.TrimSpace(page.Text)
		if text == "" {
			continue
		}
		for _, span := range c.split(text) {
			chunks = append(chunks, domain.Chunk{
				ID:       uuid.NewString(),
				Document: document.Name,
				Page:     page.Number,
				Index:    idx,
				Text:     span,
				Metadata: map[string]string{
					"source": document.Path,
					"page":   strconv.Itoa(page.Number),
				},
			})
			idx++
		}
	}
	return chunks, nil
}

// split cuts text into windows of at most size runes. When a window does
// not end the text it is retracted to the last whitespace past the
// halfway point, keeping words whole where possible.
func (c *CharacterChunker) split(text string) []string {
	runes := []rune(text)
	if len(runes) <= c.size {
		return []string{text}
	}
	var out []string
	start := 0
	for start < len(runes) {
		end := start + c.size
		if end >= len(runes) {
			out = append(out, strings.TrimSpace(string(runes[start:])))
			break
		}
		cut := end
		for cut > start+c.size/2 && !unicode.IsSpace(runes[cut-1]) {
			cut--
		}
		if cut == start+c.size/2 {
			cut = end
		}
		out = append(out, strings.TrimSpace(string(runes[start:cut])))
		next := cut - c.overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}
	return out
}
