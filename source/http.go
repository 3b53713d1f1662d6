package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/poiesic/ragforge/core"
)

// HTTPFetcher fetches a single document with an HTTP(S) GET.
type HTTPFetcher struct {
	client *http.Client
	logger *slog.Logger
}

// NewHTTPFetcher creates an HTTP fetcher with a 60 second timeout.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: 60 * time.Second},
		logger: slog.Default().With("component", "http-source"),
	}
}

// Fetch retrieves the resource at uri as a single document.
func (f *HTTPFetcher) Fetch(ctx context.Context, uri string) ([]core.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceNotFound, uri, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnreachable, uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, uri)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s: %s", ErrSourceUnreachable, uri, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnreachable, uri, err)
	}

	f.logger.Info("fetched document over http", "url", uri, "bytes", len(body))

	contentType := resp.Header.Get("Content-Type")
	meta := map[string]string{
		"source":       uri,
		"content_type": contentType,
	}
	// Normalization keys off extension or format, same as local files.
	if ext := documentExt(uri); ext != "" {
		meta["extension"] = ext
	}
	if format := formatFromContentType(contentType); format != "" {
		meta["format"] = format
	}

	return []core.Document{{
		ID:       documentName(uri),
		Text:     string(body),
		Metadata: meta,
	}}, nil
}

// documentExt derives a lowercase file extension from the URL path.
func documentExt(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	return strings.ToLower(path.Ext(u.Path))
}

// formatFromContentType maps a Content-Type header onto a document format.
// Generic media types return empty, leaving the extension to decide;
// servers routinely label markdown and other text as text/plain.
func formatFromContentType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	switch mediaType {
	case "text/html", "application/xhtml+xml":
		return "html"
	case "text/markdown":
		return "markdown"
	}
	return ""
}

// documentName derives a document ID from the last URL path segment.
func documentName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || path.Base(u.Path) == "/" || path.Base(u.Path) == "." {
		return "document"
	}
	return path.Base(u.Path)
}
