package chunk

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/poiesic/ragforge/core"
)

// ProcessDocuments normalizes each document's text and splits it into
// chunks tagged with their position and document lineage.
//
// A document that normalizes to empty text is skipped with a warning; it is
// not an error. Re-running over the same documents yields byte-identical
// chunk text and ordering.
func ProcessDocuments(docs []core.Document, opts Options) []core.Chunk {
	logger := slog.Default().With("component", "chunker")

	var out []core.Chunk
	for _, doc := range docs {
		text := Normalize(doc.Text, FormatFor(doc.Metadata))
		if text == "" {
			logger.Warn("document has no text content after normalization", "doc", doc.ID)
			continue
		}

		pieces := Split(text, opts)
		total := uint32(len(pieces))

		for i, piece := range pieces {
			idx := uint32(i)
			meta := make(map[string]string, len(doc.Metadata)+2)
			for k, v := range doc.Metadata {
				meta[k] = v
			}
			meta["chunk_index"] = strconv.FormatUint(uint64(idx), 10)
			meta["total_chunks"] = strconv.FormatUint(uint64(total), 10)

			out = append(out, core.Chunk{
				ID:          ChunkID(doc.ID, i),
				DocID:       doc.ID,
				ChunkIndex:  idx,
				TotalChunks: total,
				Text:        piece,
				Metadata:    meta,
			})
		}
	}

	logger.Info("processed documents into chunks", "documents", len(docs), "chunks", len(out))
	return out
}

// ChunkID builds the stable chunk identifier for a document position.
func ChunkID(docID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", docID, index)
}
