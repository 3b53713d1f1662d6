package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointID_Deterministic(t *testing.T) {
	a := PointID("doc1", "doc1_chunk_0")
	b := PointID("doc1", "doc1_chunk_0")
	assert.Equal(t, a, b, "identical inputs must yield identical IDs")
}

func TestPointID_DistinctInputs(t *testing.T) {
	ids := map[string]bool{
		PointID("doc1", "doc1_chunk_0"): true,
		PointID("doc1", "doc1_chunk_1"): true,
		PointID("doc2", "doc2_chunk_0"): true,
	}
	assert.Len(t, ids, 3, "distinct inputs must yield distinct IDs")
}

func TestPointID_IsUUID(t *testing.T) {
	id := PointID("doc1", "doc1_chunk_0")
	// 8-4-4-4-12 layout expected by the index backend.
	require.Len(t, id, 36)
	assert.Equal(t, byte('-'), id[8])
	assert.Equal(t, byte('-'), id[13])
}

func TestEmbeddedChunk_ToPoint(t *testing.T) {
	ec := EmbeddedChunk{
		Chunk: Chunk{
			ID:          "doc1_chunk_2",
			DocID:       "doc1",
			ChunkIndex:  2,
			TotalChunks: 3,
			Text:        "chunk text",
			Metadata:    map[string]string{"source": "/data/doc1.txt"},
		},
		Vector: []float32{0.1, 0.2, 0.3},
	}

	p := ec.ToPoint()
	assert.Equal(t, PointID("doc1", "doc1_chunk_2"), p.ID)
	assert.Equal(t, ec.Vector, p.Vector)
	assert.Equal(t, "chunk text", p.Payload.Text)
	assert.Equal(t, "doc1", p.Payload.DocID)
	assert.Equal(t, uint32(2), p.Payload.ChunkIndex)
	assert.Equal(t, ContentHash("chunk text"), p.Payload.ContentHash)
	assert.Equal(t, ec.Chunk.Metadata, p.Payload.Metadata)

	assert.Equal(t, p, ec.ToPoint(), "conversion is deterministic")
}

func TestContentHash_Deterministic(t *testing.T) {
	a := ContentHash("the quick brown fox")
	b := ContentHash("the quick brown fox")
	c := ContentHash("the quick brown cat")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16, "8-byte digest hex encoded")
}

func TestNewProgress(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		processed int
		wantPct   int
	}{
		{"empty", 0, 0, 0},
		{"half", 10, 5, 50},
		{"complete", 16, 16, 100},
		{"rounds down", 3, 1, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProgress(tt.total, tt.processed)
			assert.Equal(t, tt.total, p.Total)
			assert.Equal(t, tt.processed, p.Processed)
			assert.Equal(t, tt.wantPct, p.Percentage)
		})
	}
}

func TestJobPhase_Terminal(t *testing.T) {
	assert.True(t, PhaseSucceeded.Terminal())
	assert.True(t, PhaseFailed.Terminal())
	assert.False(t, PhasePending.Terminal())
	assert.False(t, PhaseRunning.Terminal())
	assert.False(t, PhaseBuilding.Terminal())
	assert.False(t, PhaseOptimizing.Terminal())
}
