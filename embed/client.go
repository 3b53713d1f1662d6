// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package embed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// DefaultMaxRetries is how many times a failed batch is retried.
const DefaultMaxRetries = 3

// DefaultBaseDelay is the initial backoff delay; it doubles per retry.
const DefaultBaseDelay = time.Second

// Client wraps an Embedder with the pipeline's batch policy: classified
// retry with exponential backoff, and zero-vector padding for texts that
// are empty after trimming. The output always has one vector per input
// text, in input order.
type Client struct {
	embedder   Embedder
	dimension  int
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithMaxRetries sets how many retries follow a failed attempt.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithBaseDelay sets the initial backoff delay.
func WithBaseDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.baseDelay = d
	}
}

// NewClient creates a client around embedder. dimension is the width of the
// vectors the provider produces; it sizes the zero vectors substituted for
// blank texts.
func NewClient(embedder Embedder, dimension int, opts ...ClientOption) (*Client, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: nil embedder", ErrNotConfigured)
	}
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d", ErrNotConfigured, dimension)
	}

	c := &Client{
		embedder:   embedder,
		dimension:  dimension,
		maxRetries: DefaultMaxRetries,
		baseDelay:  DefaultBaseDelay,
		logger:     slog.Default().With("component", "embed-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Dimension returns the configured vector width.
func (c *Client) Dimension() int {
	return c.dimension
}

// EmbedBatch embeds texts, returning exactly one vector per input. Texts
// that are empty after trimming never reach the provider; their positions
// get zero vectors. A provider response with the wrong vector count is an
// error, never a silently short result.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	indices := make([]int, 0, len(texts))
	nonEmpty := make([]string, 0, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) != "" {
			indices = append(indices, i)
			nonEmpty = append(nonEmpty, text)
		}
	}

	result := make([][]float32, len(texts))
	for i := range result {
		result[i] = make([]float32, c.dimension)
	}

	if len(nonEmpty) == 0 {
		c.logger.Warn("batch contains only blank texts, returning zero vectors", "count", len(texts))
		return result, nil
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var embedErr error
		vectors, embedErr = c.embedder.EmbedTexts(ctx, nonEmpty)
		return embedErr
	}, c.maxRetries, c.baseDelay)
	if err != nil {
		return nil, fmt.Errorf("embedding batch of %d texts: %w", len(nonEmpty), err)
	}

	if len(vectors) != len(nonEmpty) {
		return nil, fmt.Errorf("%w: expected %d vectors, got %d", ErrServiceUnavailable, len(nonEmpty), len(vectors))
	}

	for pos, vector := range vectors {
		if len(vector) != c.dimension {
			return nil, fmt.Errorf("vector %d has dimension %d, want %d", pos, len(vector), c.dimension)
		}
		result[indices[pos]] = vector
	}
	return result, nil
}
