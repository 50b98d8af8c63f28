package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_PlainText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("The experiment ran for 12 days."), 0o644))

	doc, err := New().Extract(path)
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", doc.Name)
	assert.Equal(t, path, doc.Path)
	require.Len(t, doc.Pages, 1)
	assert.Equal(t, 1, doc.Pages[0].Number)
	assert.Equal(t, "The experiment ran for 12 days.", doc.Pages[0].Text)
	assert.Equal(t, path, doc.Pages[0].Metadata["source"])
}

func TestExtract_Markdown(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "readme.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title\n\nBody."), 0o644))

	doc, err := New().Extract(path)
	require.NoError(t, err)
	require.Len(t, doc.Pages, 1)
	assert.Contains(t, doc.Pages[0].Text, "Body.")
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89, 0x50}, 0o644))

	_, err := New().Extract(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image.png")
}

func TestExtract_MissingFile(t *testing.T) {
	_, err := New().Extract(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
}
