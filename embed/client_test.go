package embed_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/ragforge/embed"
	"github.com/poiesic/ragforge/embed/mock"
)

func newTestClient(t *testing.T, m *mock.MockEmbedder, dim int) *embed.Client {
	t.Helper()
	c, err := embed.NewClient(m, dim,
		embed.WithMaxRetries(2),
		embed.WithBaseDelay(time.Millisecond))
	require.NoError(t, err)
	return c
}

func TestClientOneVectorPerText(t *testing.T) {
	m := &mock.MockEmbedder{Dim: 8}
	c := newTestClient(t, m, 8)

	texts := []string{"first", "second", "third"}
	vectors, err := c.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vectors, len(texts))
	for i, v := range vectors {
		assert.Len(t, v, 8, "vector %d", i)
	}
}

func TestClientBlankTextsGetZeroVectors(t *testing.T) {
	m := &mock.MockEmbedder{Dim: 4}
	var received []string
	m.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		received = texts
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = []float32{1, 2, 3, 4}
		}
		return out, nil
	}
	c := newTestClient(t, m, 4)

	vectors, err := c.EmbedBatch(context.Background(), []string{"real", "   ", "", "also real"})
	require.NoError(t, err)
	require.Len(t, vectors, 4)

	assert.Equal(t, []string{"real", "also real"}, received, "blank texts never reach the provider")
	assert.Equal(t, []float32{1, 2, 3, 4}, vectors[0])
	assert.Equal(t, []float32{0, 0, 0, 0}, vectors[1])
	assert.Equal(t, []float32{0, 0, 0, 0}, vectors[2])
	assert.Equal(t, []float32{1, 2, 3, 4}, vectors[3])
}

func TestClientAllBlankSkipsProvider(t *testing.T) {
	m := mock.NewMockEmbedder()
	c := newTestClient(t, m, 4)

	vectors, err := c.EmbedBatch(context.Background(), []string{"", "  \n "})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{0, 0, 0, 0}, vectors[0])
	assert.Zero(t, m.CallCount(), "provider not called for all-blank batch")
}

func TestClientEmptyBatch(t *testing.T) {
	m := mock.NewMockEmbedder()
	c := newTestClient(t, m, 4)

	vectors, err := c.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
}

func TestClientRetriesTransientFailures(t *testing.T) {
	m := mock.NewMockEmbedder()
	attempts := 0
	m.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		attempts++
		if attempts < 3 {
			return nil, fmt.Errorf("%w: slow down", embed.ErrRateLimited)
		}
		return [][]float32{{1, 0, 0, 0}}, nil
	}
	c := newTestClient(t, m, 4)

	vectors, err := c.EmbedBatch(context.Background(), []string{"text"})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []float32{1, 0, 0, 0}, vectors[0])
}

func TestClientExhaustedRetries(t *testing.T) {
	m := mock.NewMockEmbedder()
	attempts := 0
	m.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		attempts++
		return nil, fmt.Errorf("%w", embed.ErrServiceUnavailable)
	}
	c := newTestClient(t, m, 4)

	_, err := c.EmbedBatch(context.Background(), []string{"text"})
	require.Error(t, err)
	assert.ErrorIs(t, err, embed.ErrServiceUnavailable)
	assert.Equal(t, 3, attempts, "maxRetries=2 means 3 attempts")
}

func TestClientPermanentFailureNotRetried(t *testing.T) {
	m := mock.NewMockEmbedder()
	attempts := 0
	m.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		attempts++
		return nil, fmt.Errorf("%w: model not found", embed.ErrInvalidRequest)
	}
	c := newTestClient(t, m, 4)

	_, err := c.EmbedBatch(context.Background(), []string{"text"})
	require.Error(t, err)
	assert.ErrorIs(t, err, embed.ErrInvalidRequest)
	assert.Equal(t, 1, attempts)
}

func TestClientShortProviderResponse(t *testing.T) {
	m := mock.NewMockEmbedder()
	m.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1, 2, 3, 4}}, nil
	}
	c := newTestClient(t, m, 4)

	_, err := c.EmbedBatch(context.Background(), []string{"one", "two"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2 vectors")
}

func TestClientWrongDimension(t *testing.T) {
	m := mock.NewMockEmbedder()
	m.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1, 2}}, nil
	}
	c := newTestClient(t, m, 4)

	_, err := c.EmbedBatch(context.Background(), []string{"one"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension")
}

func TestNewClientValidation(t *testing.T) {
	_, err := embed.NewClient(nil, 4)
	assert.ErrorIs(t, err, embed.ErrNotConfigured)

	_, err = embed.NewClient(mock.NewMockEmbedder(), 0)
	assert.ErrorIs(t, err, embed.ErrNotConfigured)
}
