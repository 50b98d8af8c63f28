package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the profile store and query engine.
// Callers branch with errors.Is rather than inspecting messages.
var (
	// ErrProfileNotFound reports an operation against a profile that
	// does not exist in the store.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrDocumentNotFound reports a document name with no stored bytes.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrNothingIngested reports a query issued before any document was
	// ingested. Recoverable: the user selects a profile or uploads.
	ErrNothingIngested = errors.New("no documents ingested: select a profile or upload a document first")

	// ErrBackendUnavailable reports that the embedding/generation
	// backend could not be reached after bounded retries.
	ErrBackendUnavailable = errors.New("model backend unreachable")
)

// IngestError reports a failure while ingesting a specific document.
// One failing document must not abort the rest of a batch, so callers
// collect these per file.
type IngestError struct {
	Document string
	Err      error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("ingest %s: %v", e.Document, e.Err)
}

func (e *IngestError) Unwrap() error { return e.Err }
