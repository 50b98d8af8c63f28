package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/domain"
)

func writeSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "src.pdf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCreate_Idempotent(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Create("research"))
	require.NoError(t, s.Create("research"))

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"research"}, names)
}

func TestAddDocument_RoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Create("research"))

	src := writeSource(t, "pdf bytes here")
	require.NoError(t, s.AddDocument("research", src, "paper.pdf"))

	docs, err := s.Documents("research")
	require.NoError(t, err)
	assert.Equal(t, []string{"paper.pdf"}, docs)

	path, err := s.ResolvePath("research", "paper.pdf")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes here", string(data))
}

func TestAddDocument_AdditiveAndOverwrite(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Create("research"))

	require.NoError(t, s.AddDocument("research", writeSource(t, "one"), "a.pdf"))
	require.NoError(t, s.AddDocument("research", writeSource(t, "two"), "b.pdf"))
	require.NoError(t, s.AddDocument("research", writeSource(t, "replaced"), "a.pdf"))

	docs, err := s.Documents("research")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, docs)

	path, err := s.ResolvePath("research", "a.pdf")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "replaced", string(data))
}

func TestAddDocument_UnknownProfile(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	err = s.AddDocument("missing", writeSource(t, "x"), "a.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestResolvePath_NotFound(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Create("research"))

	_, err = s.ResolvePath("missing", "a.pdf")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	_, err = s.ResolvePath("research", "a.pdf")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestDelete_CascadesAndIgnoresMissing(t *testing.T) {
	root := t.TempDir()
	s, err := New(root)
	require.NoError(t, err)
	require.NoError(t, s.Create("research"))
	require.NoError(t, s.AddDocument("research", writeSource(t, "x"), "a.pdf"))

	require.NoError(t, s.Delete("research"))
	_, statErr := os.Stat(filepath.Join(root, "research"))
	assert.True(t, os.IsNotExist(statErr))
	names, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	// Deleting a missing profile is a no-op.
	require.NoError(t, s.Delete("never-existed"))
}

func TestDocuments_PrunesStaleEntriesPersistently(t *testing.T) {
	root := t.TempDir()
	s, err := New(root)
	require.NoError(t, err)
	require.NoError(t, s.Create("research"))
	require.NoError(t, s.AddDocument("research", writeSource(t, "x"), "a.pdf"))
	require.NoError(t, s.AddDocument("research", writeSource(t, "y"), "b.pdf"))

	// Bytes vanish behind the store's back.
	require.NoError(t, os.Remove(filepath.Join(root, "research", "a.pdf")))

	docs, err := s.Documents("research")
	require.NoError(t, err)
	assert.Equal(t, []string{"b.pdf"}, docs)

	// The pruning was written back, not just filtered from the view.
	reopened, err := New(root)
	require.NoError(t, err)
	docs, err = reopened.Documents("research")
	require.NoError(t, err)
	assert.Equal(t, []string{"b.pdf"}, docs)
}

func TestNew_RebuildsFromLayout(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "archive"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "archive", "old.pdf"), []byte("x"), 0o644))

	s, err := New(root)
	require.NoError(t, err)
	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"archive"}, names)
	docs, err := s.Documents("archive")
	require.NoError(t, err)
	assert.Equal(t, []string{"old.pdf"}, docs)
}
