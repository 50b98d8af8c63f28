package domain

import "time"

// Page is one unit of extracted text from a source document.
type Page struct {
	Number   int
	Text     string
	Metadata map[string]any
}

// Document represents a single source file loaded into the system.
type Document struct {
	Name  string
	Path  string
	Pages []Page
}

// Chunk is a bounded, overlapping span of a document's text, the unit
// of embedding and retrieval.
type Chunk struct {
	ID       string
	Document string
	Page     int
	Index    int
	Text     string
	Metadata map[string]string
}

// SearchResult is a matching chunk with a similarity score.
// Higher scores mean more similar.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Role identifies the author of a chat turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatTurn is one message in the conversation, recorded in arrival order.
type ChatTurn struct {
	ID      string
	Role    Role
	Content string
	At      time.Time
}

// Profile is a named collection of document display names.
type Profile struct {
	Name      string
	Documents []string
}

// Chunker splits an extracted document into chunks suitable for indexing.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}

// Summarizer produces a brief digest of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
