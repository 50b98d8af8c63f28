package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func writeSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "src.pdf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCreate_Idempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Create("research"))
	require.NoError(t, s.Create("research"))

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"research"}, names)
}

func TestAddDocument_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Create("research"))
	require.NoError(t, s.AddDocument("research", writeSource(t, "pdf bytes"), "paper.pdf"))

	docs, err := s.Documents("research")
	require.NoError(t, err)
	assert.Equal(t, []string{"paper.pdf"}, docs)

	path, err := s.ResolvePath("research", "paper.pdf")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(data))
}

func TestAddDocument_OverwritesBytes(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Create("research"))
	require.NoError(t, s.AddDocument("research", writeSource(t, "first"), "paper.pdf"))

	// Resolve once so a stale cached copy exists to invalidate.
	_, err := s.ResolvePath("research", "paper.pdf")
	require.NoError(t, err)

	require.NoError(t, s.AddDocument("research", writeSource(t, "second"), "paper.pdf"))
	path, err := s.ResolvePath("research", "paper.pdf")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	docs, err := s.Documents("research")
	require.NoError(t, err)
	assert.Equal(t, []string{"paper.pdf"}, docs, "overwrite must not duplicate the listing")
}

func TestAddDocument_UnknownProfile(t *testing.T) {
	s := newTestStore(t)
	err := s.AddDocument("ghost", writeSource(t, "x"), "a.pdf")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestResolvePath_NotFound(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Create("research"))

	_, err := s.ResolvePath("ghost", "a.pdf")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	_, err = s.ResolvePath("research", "a.pdf")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestDelete_CascadesAndIgnoresMissing(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Create("research"))
	require.NoError(t, s.AddDocument("research", writeSource(t, "x"), "a.pdf"))

	require.NoError(t, s.Delete("research"))
	names, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	// Recreating the profile must not resurrect the cascaded documents.
	require.NoError(t, s.Create("research"))
	docs, err := s.Documents("research")
	require.NoError(t, err)
	assert.Empty(t, docs)

	require.NoError(t, s.Delete("never-existed"))
}

func TestDocuments_PrunesEmptyBlobs(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Create("research"))
	require.NoError(t, s.AddDocument("research", writeSource(t, "content"), "good.pdf"))
	require.NoError(t, s.AddDocument("research", writeSource(t, ""), "empty.pdf"))

	docs, err := s.Documents("research")
	require.NoError(t, err)
	assert.Equal(t, []string{"good.pdf"}, docs)
}

func TestPersistsAcrossReopen(t *testing.T) {
	dataDir := t.TempDir()
	s, err := New(dataDir)
	require.NoError(t, err)
	require.NoError(t, s.Create("research"))
	require.NoError(t, s.AddDocument("research", writeSource(t, "durable"), "a.pdf"))
	require.NoError(t, s.Close())

	reopened, err := New(dataDir)
	require.NoError(t, err)
	defer reopened.Close()
	path, err := reopened.ResolvePath("research", "a.pdf")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "durable", string(data))
}
