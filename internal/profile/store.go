// Package profile defines durable bookkeeping of named document
// collections and where each document's bytes live.
package profile

// Store tracks profiles and their documents across restarts.
//
// Create is silently idempotent and Delete of a missing profile is a
// no-op; every other miss is reported with the domain sentinels so
// callers can tell "not found" from real failures.
type Store interface {
	// Create registers an empty profile. Duplicate names are a no-op.
	Create(name string) error
	// Delete removes the profile and its stored document bytes.
	// A missing name is a no-op.
	Delete(name string) error
	// AddDocument copies the bytes at srcPath under (profile, displayName).
	// Additive; a repeated displayName overwrites the stored bytes.
	// Returns domain.ErrProfileNotFound for an unknown profile.
	AddDocument(profile, srcPath, displayName string) error
	// List returns all profile names, sorted.
	List() ([]string, error)
	// Documents returns the display names in a profile, pruning (and
	// persisting the pruning of) entries whose bytes are gone.
	Documents(profile string) ([]string, error)
	// ResolvePath returns a readable path for the document's bytes.
	ResolvePath(profile, displayName string) (string, error)
	// Close releases any held resources.
	Close() error
}
