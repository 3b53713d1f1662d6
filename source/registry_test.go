package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/ragforge/core"
)

type staticFetcher struct {
	docs []core.Document
	err  error
}

func (s *staticFetcher) Fetch(ctx context.Context, uri string) ([]core.Document, error) {
	return s.docs, s.err
}

func TestScheme(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"file:///data/docs", "file"},
		{"S3://bucket/prefix", "s3"},
		{"https://example.com/doc.md", "https"},
		{"git://github.com/org/repo.git", "git"},
		{"/var/data/docs", "file"},
		{"relative/path.txt", "file"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Scheme(tt.uri), "uri %q", tt.uri)
	}
}

func TestRegistryDispatch(t *testing.T) {
	r := NewRegistry()
	want := []core.Document{{ID: "doc-1", Text: "hello"}}
	r.Register("custom", &staticFetcher{docs: want})

	got, err := r.Fetch(context.Background(), "custom://anything")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRegistryUnsupportedScheme(t *testing.T) {
	r := NewRegistry()
	r.Register("file", &staticFetcher{})

	_, err := r.Fetch(context.Background(), "gopher://old.example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedSourceKind)
}

func TestRegistryRegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register("x", &staticFetcher{docs: []core.Document{{ID: "old"}}})
	r.Register("x", &staticFetcher{docs: []core.Document{{ID: "new"}}})

	got, err := r.Fetch(context.Background(), "x://whatever")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].ID)
}

func TestDefaultRegistrySchemes(t *testing.T) {
	r := DefaultRegistry()

	for _, scheme := range []string{"file", "pvc", "http", "https", "git", "fixture"} {
		_, err := r.Lookup(scheme + "://something")
		assert.NoError(t, err, "scheme %q", scheme)
	}

	_, err := r.Lookup("s3://bucket/prefix")
	assert.ErrorIs(t, err, ErrUnsupportedSourceKind, "object storage needs explicit registration")
}
