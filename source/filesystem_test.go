package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixtureTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"intro.md":               "# Intro\n\nWelcome to the corpus.",
		"notes.txt":              "plain text notes",
		"sub/deep.html":          "<p>nested document</p>",
		"binary.bin":             "not a document",
		"sub/image.png":          "also not a document",
		"sub/empty-dir/.gitkeep": "",
	}
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestFilesystemFetchDirectory(t *testing.T) {
	dir := writeFixtureTree(t)
	f := NewFilesystemFetcher()

	docs, err := f.Fetch(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, docs, 3, "only allow-listed extensions are loaded")

	ids := make([]string, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
	}
	assert.Equal(t, []string{"intro.md", "notes.txt", "sub/deep.html"}, ids,
		"directory fetch keeps lexical walk order and uses relative IDs")

	for _, doc := range docs {
		assert.NotEmpty(t, doc.Text)
		assert.NotEmpty(t, doc.Metadata["source"])
		assert.NotEmpty(t, doc.Metadata["filename"])
	}
}

func TestFilesystemFetchSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "single.txt")
	require.NoError(t, os.WriteFile(path, []byte("one document"), 0o644))

	docs, err := NewFilesystemFetcher().Fetch(context.Background(), "file://"+path)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	assert.Equal(t, "single.txt", docs[0].ID, "single files use the base name as ID")
	assert.Equal(t, "one document", docs[0].Text)
	assert.Equal(t, ".txt", docs[0].Metadata["extension"])
}

func TestFilesystemFetchMissingPath(t *testing.T) {
	_, err := NewFilesystemFetcher().Fetch(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestFilesystemFetchNoSupportedFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.bin"), []byte{0x00, 0x01}, 0o644))

	_, err := NewFilesystemFetcher().Fetch(context.Background(), dir)
	assert.ErrorIs(t, err, ErrNoDocuments)
}

func TestFilesystemFetchCancelled(t *testing.T) {
	dir := writeFixtureTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFilesystemFetcher(WithReaders(1)).Fetch(ctx, dir)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolvePath(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"/abs/path", "/abs/path"},
		{"file:///abs/path", "/abs/path"},
		{"pvc://corpus-volume/data/docs", "/data/docs"},
		{"pvc://corpus-volume", "/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolvePath(tt.uri), "uri %q", tt.uri)
	}
}
