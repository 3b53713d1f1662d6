package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/ragforge/chunk"
)

func TestHTTPFetcherHTMLPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body><h1>Guide</h1></body></html>"))
	}))
	defer srv.Close()

	docs, err := NewHTTPFetcher().Fetch(context.Background(), srv.URL+"/docs/guide")
	require.NoError(t, err)
	require.Len(t, docs, 1)

	doc := docs[0]
	assert.Equal(t, "guide", doc.ID)
	assert.Equal(t, srv.URL+"/docs/guide", doc.Metadata["source"])
	assert.Equal(t, "text/html; charset=utf-8", doc.Metadata["content_type"])
	assert.Equal(t, "html", doc.Metadata["format"])

	// A page without a file extension still normalizes as HTML.
	assert.Equal(t, chunk.FormatHTML, chunk.FormatFor(doc.Metadata))
}

func TestHTTPFetcherMarkdownByExtension(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("# Readme\n\nsome text"))
	}))
	defer srv.Close()

	docs, err := NewHTTPFetcher().Fetch(context.Background(), srv.URL+"/README.md")
	require.NoError(t, err)
	require.Len(t, docs, 1)

	doc := docs[0]
	assert.Equal(t, "README.md", doc.ID)
	assert.Equal(t, ".md", doc.Metadata["extension"])
	_, hasFormat := doc.Metadata["format"]
	assert.False(t, hasFormat, "text/plain must not override the extension")
	assert.Equal(t, chunk.FormatMarkdown, chunk.FormatFor(doc.Metadata))
}

func TestHTTPFetcherNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewHTTPFetcher().Fetch(context.Background(), srv.URL+"/missing")
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestHTTPFetcherServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher().Fetch(context.Background(), srv.URL+"/doc.txt")
	assert.ErrorIs(t, err, ErrSourceUnreachable)
}

func TestFormatFromContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"text/html", "html"},
		{"text/html; charset=utf-8", "html"},
		{"application/xhtml+xml", "html"},
		{"text/markdown", "markdown"},
		{"text/plain; charset=utf-8", ""},
		{"application/octet-stream", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatFromContentType(tt.contentType), tt.contentType)
	}
}
