// Package session holds the interactive state the UI drives: the
// active profile, the chat history and the query engine. It is an
// explicit object passed to the UI, not ambient global state.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"docchat/internal/domain"
	"docchat/internal/profile"
)

// Assistant is the session-facing subset of the query engine.
type Assistant interface {
	Ingest(ctx context.Context, path string) (summary string, err error)
	Ask(ctx context.Context, query string, k int, threshold float64) (string, error)
	Clear()
	Loaded() bool
}

// LoadResult reports the outcome of ingesting one document during a
// profile switch. One corrupt document must not block the rest.
type LoadResult struct {
	Document string
	Summary  string
	Err      error
}

// Session is a single interactive user session.
type Session struct {
	store     profile.Store
	assistant Assistant

	active    string
	history   []domain.ChatTurn
	topK      int
	threshold float64
}

// New creates a session with the given retrieval defaults.
func New(store profile.Store, assistant Assistant, topK int, threshold float64) *Session {
	if topK <= 0 {
		topK = 5
	}
	return &Session{store: store, assistant: assistant, topK: topK, threshold: threshold}
}

// CreateProfile registers a profile and makes it active without
// ingesting anything (a fresh profile has no documents).
func (s *Session) CreateProfile(name string) error {
	if err := s.store.Create(name); err != nil {
		return err
	}
	s.active = name
	s.assistant.Clear()
	s.history = nil
	return nil
}

// DeleteProfile removes a profile and its documents. Deleting the
// active profile resets the session.
func (s *Session) DeleteProfile(name string) error {
	if err := s.store.Delete(name); err != nil {
		return err
	}
	if s.active == name {
		s.active = ""
		s.assistant.Clear()
		s.history = nil
	}
	return nil
}

// SelectProfile clears the index and chat history, then reingests every
// document of the named profile. Per-document failures are collected in
// the returned results; only the profile lookup itself is an error.
// After the switch, queries see only this profile's content.
func (s *Session) SelectProfile(ctx context.Context, name string) ([]LoadResult, error) {
	docs, err := s.store.Documents(name)
	if err != nil {
		return nil, err
	}
	s.assistant.Clear()
	s.history = nil
	s.active = name

	results := make([]LoadResult, 0, len(docs))
	for _, doc := range docs {
		path, err := s.store.ResolvePath(name, doc)
		if err != nil {
			results = append(results, LoadResult{Document: doc, Err: err})
			continue
		}
		summary, err := s.assistant.Ingest(ctx, path)
		results = append(results, LoadResult{Document: doc, Summary: summary, Err: err})
	}
	return results, nil
}

// Upload persists the document into the active profile, ingests it and
// wipes the chat history. Returns the ingest digest.
func (s *Session) Upload(ctx context.Context, srcPath, displayName string) (string, error) {
	if s.active == "" {
		return "", errors.New("select or create a profile first")
	}
	if err := s.store.AddDocument(s.active, srcPath, displayName); err != nil {
		return "", err
	}
	path, err := s.store.ResolvePath(s.active, displayName)
	if err != nil {
		return "", err
	}
	summary, err := s.assistant.Ingest(ctx, path)
	if err != nil {
		return "", err
	}
	s.history = nil
	return summary, nil
}

// Send asks the engine and records both turns in arrival order. Engine
// failures become the assistant's displayed reply instead of
// propagating; the UI never crashes on a failed ask.
func (s *Session) Send(ctx context.Context, text string) domain.ChatTurn {
	s.append(domain.RoleUser, text)
	answer, err := s.assistant.Ask(ctx, text, s.topK, s.threshold)
	if err != nil {
		answer = errorReply(err)
	}
	return s.append(domain.RoleAssistant, answer)
}

// ClearChat drops the index content and the message history.
func (s *Session) ClearChat() {
	s.assistant.Clear()
	s.history = nil
}

// History returns the recorded turns in arrival order.
func (s *Session) History() []domain.ChatTurn { return s.history }

// ActiveProfile returns the selected profile name, empty if none.
func (s *Session) ActiveProfile() string { return s.active }

// Profiles lists all known profiles.
func (s *Session) Profiles() ([]string, error) { return s.store.List() }

// ActiveDocuments lists the documents of the active profile.
func (s *Session) ActiveDocuments() ([]string, error) {
	if s.active == "" {
		return nil, nil
	}
	return s.store.Documents(s.active)
}

func (s *Session) append(role domain.Role, content string) domain.ChatTurn {
	turn := domain.ChatTurn{
		ID:      uuid.NewString(),
		Role:    role,
		Content: content,
		At:      time.Now(),
	}
	s.history = append(s.history, turn)
	return turn
}

func errorReply(err error) string {
	switch {
	case errors.Is(err, domain.ErrNothingIngested):
		return err.Error()
	case errors.Is(err, domain.ErrBackendUnavailable):
		return fmt.Sprintf("The model backend is not reachable: %v", err)
	default:
		return fmt.Sprintf("Sorry, I could not answer that: %v", err)
	}
}
