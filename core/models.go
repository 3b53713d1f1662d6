package core

import (
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// Document is a raw document produced by a source fetcher.
// Documents are immutable once produced and are consumed fully by the chunker.
type Document struct {
	ID       string
	Text     string
	Metadata map[string]string
}

// Chunk is a bounded contiguous slice of a document's normalized text.
// ChunkIndex is zero-based and dense per document; Metadata carries the
// parent document's metadata plus chunk position fields.
type Chunk struct {
	ID          string
	DocID       string
	ChunkIndex  uint32
	TotalChunks uint32
	Text        string
	Metadata    map[string]string
}

// EmbeddedChunk pairs a chunk with its embedding vector.
// The vector length must equal the index's configured dimension.
type EmbeddedChunk struct {
	Chunk  Chunk
	Vector []float32
}

// ToPoint converts the embedded chunk into its persisted form. The point ID
// derives from the chunk's identity, so conversion is deterministic.
func (e EmbeddedChunk) ToPoint() Point {
	return Point{
		ID:     PointID(e.Chunk.DocID, e.Chunk.ID),
		Vector: e.Vector,
		Payload: Payload{
			Text:        e.Chunk.Text,
			DocID:       e.Chunk.DocID,
			ChunkIndex:  e.Chunk.ChunkIndex,
			ContentHash: ContentHash(e.Chunk.Text),
			Metadata:    e.Chunk.Metadata,
		},
	}
}

// Payload is the metadata persisted alongside a point's vector.
type Payload struct {
	Text        string            `json:"text"`
	DocID       string            `json:"doc_id"`
	ChunkIndex  uint32            `json:"chunk_index"`
	ContentHash string            `json:"content_hash,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Point is the persisted unit in the vector index. The JSON shape matches
// the Qdrant points API.
type Point struct {
	ID      string    `json:"id"`
	Vector  []float32 `json:"vector"`
	Payload Payload   `json:"payload"`
}

// Alias is a named indirection pointing at exactly one collection.
type Alias struct {
	Name       string
	Collection string
}

// CollectionInfo describes a collection's observable state.
// Status is a coarse readiness signal: "green" means the backend has
// settled; anything else means background optimization is still running.
type CollectionInfo struct {
	Name        string
	VectorCount uint64
	Status      string
	Dimension   int
}

// IndexParams holds backend-specific index tuning parameters.
type IndexParams map[string]int

// pointNamespace anchors UUIDv5 point IDs. Fixed so that IDs are stable
// across processes and reruns.
var pointNamespace = uuid.NameSpaceDNS

// PointID derives the deterministic point ID for a chunk. It is a pure
// function of (docID, chunkID): re-running a job over identical input
// produces identical IDs, so upserts overwrite rather than duplicate.
func PointID(docID, chunkID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(docID+":"+chunkID)).String()
}

// ContentHash returns a short BLAKE2b fingerprint of text. It is carried in
// point payloads so stale or duplicated content can be traced after the fact.
func ContentHash(text string) string {
	h, _ := blake2b.New(8, nil)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// JobPhase is the lifecycle phase of a job.
type JobPhase string

const (
	PhasePending    JobPhase = "Pending"
	PhaseRunning    JobPhase = "Running"
	PhaseBuilding   JobPhase = "Building"
	PhaseOptimizing JobPhase = "Optimizing"
	PhaseSucceeded  JobPhase = "Succeeded"
	PhaseFailed     JobPhase = "Failed"
)

// Terminal reports whether the phase is a terminal one.
func (p JobPhase) Terminal() bool {
	return p == PhaseSucceeded || p == PhaseFailed
}

// Progress tracks processed counts for a running job.
// Processed is monotonically non-decreasing within a job and equals Total
// when the job reports PhaseSucceeded.
type Progress struct {
	Total      int `json:"total"`
	Processed  int `json:"processed"`
	Percentage int `json:"percentage"`
}

// NewProgress builds a Progress with the percentage derived from the counts.
func NewProgress(total, processed int) Progress {
	pct := 0
	if total > 0 {
		pct = processed * 100 / total
	}
	return Progress{Total: total, Processed: processed, Percentage: pct}
}

// JobStatus is the status record emitted after every batch and at terminal
// transitions. Its shape is a contract with external status consumers.
type JobStatus struct {
	Kind         string    `json:"kind"`
	Name         string    `json:"name"`
	Phase        JobPhase  `json:"phase"`
	Message      string    `json:"message"`
	Progress     Progress  `json:"progress"`
	AliasSwapped bool      `json:"aliasSwapped,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}
