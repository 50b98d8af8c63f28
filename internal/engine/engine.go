// Package engine owns the retrieval-augmented query pipeline: ingest a
// document into the similarity index, answer questions grounded in the
// currently loaded corpus, clear it all.
package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"docchat/internal/domain"
	"docchat/internal/logger"
	"docchat/internal/vectorstore"
)

// NoContextAnswer is the fixed reply when no retrieved chunk clears the
// score threshold. A normal outcome, not an error.
const NoContextAnswer = "No relevant context found in the document to answer your question."

const answerTemplate = `You are a helpful assistant answering questions based on the uploaded document.
Context:
%s

Question:
%s

Answer concisely and accurately in three sentences or less.`

// Backend bundles the three calls the engine makes against the model
// server.
type Backend interface {
	Ping(ctx context.Context) error
	Embed(ctx context.Context, texts []string) ([][]float64, error)
	Generate(ctx context.Context, prompt string) (string, error)
}

// Extractor turns a file path into page-by-page text.
type Extractor interface {
	Extract(path string) (domain.Document, error)
}

// Engine moves between two states: Empty (nothing ingested, Ask fails
// with a state error) and Loaded. Ingest is additive; Clear returns to
// Empty. Not safe for concurrent use; the session drives it serially.
type Engine struct {
	backend    Backend
	extractor  Extractor
	chunker    domain.Chunker
	summarizer domain.Summarizer
	store      vectorstore.Storage

	summarySentences int
	documents        int
}

// New assembles an engine over the given collaborators.
func New(backend Backend, extractor Extractor, chunker domain.Chunker, summarizer domain.Summarizer, store vectorstore.Storage, summarySentences int) *Engine {
	return &Engine{
		backend:          backend,
		extractor:        extractor,
		chunker:          chunker,
		summarizer:       summarizer,
		store:            store,
		summarySentences: summarySentences,
	}
}

// Ingest extracts, chunks, embeds and indexes one document, returning a
// short digest of its text. Nothing is upserted unless every chunk
// embedded, so a failure never leaves a partial ingest that looks
// complete. Errors name the document; a backend outage surfaces as
// domain.ErrBackendUnavailable through the wrapped cause.
func (e *Engine) Ingest(ctx context.Context, path string) (string, error) {
	name := filepath.Base(path)
	if err := e.backend.Ping(ctx); err != nil {
		return "", &domain.IngestError{Document: name, Err: err}
	}
	doc, err := e.extractor.Extract(path)
	if err != nil {
		return "", &domain.IngestError{Document: name, Err: err}
	}
	chunks, err := e.chunker.Chunk(doc)
	if err != nil {
		return "", &domain.IngestError{Document: name, Err: err}
	}
	if len(chunks) == 0 {
		return "", &domain.IngestError{Document: name, Err: fmt.Errorf("document contains no text")}
	}
	for i := range chunks {
		chunks[i].Metadata = FlattenMetadata(pageMetadata(doc, chunks[i].Page), chunks[i].Metadata)
	}
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}
	logger.Debugf("ingest %s: %d chunks from %d pages", name, len(chunks), len(doc.Pages))
	vectors, err := e.backend.Embed(ctx, texts)
	if err != nil {
		return "", &domain.IngestError{Document: name, Err: err}
	}
	if err := e.store.Upsert(chunks, vectors); err != nil {
		return "", &domain.IngestError{Document: name, Err: err}
	}
	e.documents++

	var all strings.Builder
	for _, p := range doc.Pages {
		all.WriteString(p.Text)
		all.WriteString("\n")
	}
	summary, err := e.summarizer.Summarize(all.String(), e.summarySentences)
	if err != nil {
		logger.Warnf("summarize %s: %v", name, err)
		summary = ""
	}
	return summary, nil
}

// Ask retrieves the topK most similar chunks at or above threshold and
// conditions the generation model on them. k bounds the candidate set
// before threshold filtering.
func (e *Engine) Ask(ctx context.Context, query string, k int, threshold float64) (string, error) {
	if e.documents == 0 {
		return "", domain.ErrNothingIngested
	}
	vectors, err := e.backend.Embed(ctx, []string{query})
	if err != nil {
		return "", fmt.Errorf("embedding query: %w", err)
	}
	if len(vectors) == 0 {
		return "", fmt.Errorf("embedding query: empty result")
	}
	results, err := e.store.Search(vectors[0], k, threshold)
	if err != nil {
		return "", fmt.Errorf("similarity search: %w", err)
	}
	logger.Debugf("ask: %d chunks retrieved for %q", len(results), query)
	if len(results) == 0 {
		return NoContextAnswer, nil
	}
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = r.Chunk.Text
	}
	prompt := fmt.Sprintf(answerTemplate, strings.Join(parts, "\n\n"), query)
	answer, err := e.backend.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}
	return answer, nil
}

// Clear discards the index content. Idempotent; the engine is Empty
// afterwards.
func (e *Engine) Clear() {
	if err := e.store.Clear(); err != nil {
		logger.Warnf("clearing index: %v", err)
	}
	e.documents = 0
}

// Loaded reports whether at least one document has been ingested.
func (e *Engine) Loaded() bool { return e.documents > 0 }

func pageMetadata(doc domain.Document, page int) map[string]any {
	for _, p := range doc.Pages {
		if p.Number == page {
			return p.Metadata
		}
	}
	return nil
}
