package source

import (
	"context"
	"fmt"

	"github.com/poiesic/ragforge/core"
)

// FixtureFetcher serves a fixed set of in-memory documents. It backs the
// fixture:// scheme used by smoke tests and local pipeline rehearsals.
type FixtureFetcher struct {
	docs []core.Document
}

// NewFixtureFetcher creates a fetcher with a small built-in corpus. Pass
// documents to replace the default set.
func NewFixtureFetcher(docs ...core.Document) *FixtureFetcher {
	if len(docs) == 0 {
		docs = defaultFixtures()
	}
	return &FixtureFetcher{docs: docs}
}

// Fetch returns copies of the fixture documents, tagged with the uri.
func (f *FixtureFetcher) Fetch(ctx context.Context, uri string) ([]core.Document, error) {
	if len(f.docs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoDocuments, uri)
	}

	out := make([]core.Document, len(f.docs))
	for i, doc := range f.docs {
		meta := make(map[string]string, len(doc.Metadata)+1)
		for k, v := range doc.Metadata {
			meta[k] = v
		}
		meta["source"] = uri
		doc.Metadata = meta
		out[i] = doc
	}
	return out, nil
}

func defaultFixtures() []core.Document {
	return []core.Document{
		{
			ID:   "fixture-guide",
			Text: "RAG pipelines retrieve relevant context before generation. Retrieval quality depends on how source documents are chunked and embedded.",
			Metadata: map[string]string{
				"category": "guide",
			},
		},
		{
			ID:   "fixture-faq",
			Text: "Q: How large should a chunk be?\n\nA: Large enough to carry a complete thought, small enough that the embedding stays focused. Overlap between neighbouring chunks preserves context across boundaries.",
			Metadata: map[string]string{
				"category": "faq",
			},
		},
		{
			ID:   "fixture-changelog",
			Text: "Added alias-based cutover so a freshly built collection can replace the serving one without downtime.",
			Metadata: map[string]string{
				"category": "changelog",
			},
		},
	}
}
