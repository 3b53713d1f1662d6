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


package job

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/ragforge/chunk"
	"github.com/poiesic/ragforge/core"
	"github.com/poiesic/ragforge/embed"
	"github.com/poiesic/ragforge/index"
	"github.com/poiesic/ragforge/source"
	"github.com/poiesic/ragforge/status"
)

// DefaultBatchSize is how many chunks travel in one embedding request.
const DefaultBatchSize = 16

// IngestionConfig describes one ingestion run.
type IngestionConfig struct {
	// DocumentSet names the corpus being ingested; it labels status
	// records and logs.
	DocumentSet string

	// SourceURI locates the documents (file://, s3://, git://, ...).
	SourceURI string

	// ChunkSize and Overlap configure the chunker. A zero ChunkSize
	// means the chunker's default; a zero Overlap means no overlap.
	ChunkSize int
	Overlap   int

	// BatchSize is the number of chunks per embedding request.
	// Zero means DefaultBatchSize.
	BatchSize int
}

// Validate checks the config can drive a run.
func (c *IngestionConfig) Validate() error {
	if strings.TrimSpace(c.DocumentSet) == "" {
		return fmt.Errorf("%w: document set is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.SourceURI) == "" {
		return fmt.Errorf("%w: source uri is required", ErrInvalidConfig)
	}
	if c.ChunkSize < 0 || c.Overlap < 0 || c.BatchSize < 0 {
		return fmt.Errorf("%w: sizes must not be negative", ErrInvalidConfig)
	}
	if c.ChunkSize > 0 && c.Overlap >= c.ChunkSize {
		return fmt.Errorf("%w: overlap %d must be smaller than chunk size %d",
			ErrInvalidConfig, c.Overlap, c.ChunkSize)
	}
	return nil
}

// Ingestion drives one corpus through fetch, chunk, embed and upsert into
// a build collection.
type Ingestion struct {
	config   IngestionConfig
	fetcher  source.Fetcher
	embedder *embed.Client
	store    index.Store
	reporter *status.Reporter
	logger   *slog.Logger
}

// NewIngestion wires an ingestion job. All dependencies are required.
func NewIngestion(config IngestionConfig, fetcher source.Fetcher, embedder *embed.Client, store index.Store, reporter *status.Reporter) (*Ingestion, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if fetcher == nil || embedder == nil || store == nil || reporter == nil {
		return nil, fmt.Errorf("%w: missing dependency", ErrInvalidConfig)
	}
	if config.BatchSize == 0 {
		config.BatchSize = DefaultBatchSize
	}

	return &Ingestion{
		config:   config,
		fetcher:  fetcher,
		embedder: embedder,
		store:    store,
		reporter: reporter,
		logger:   slog.Default().With("component", "ingestion", "documentSet", config.DocumentSet),
	}, nil
}

// Run executes the job. It ends in exactly one terminal status report and
// returns a non-nil error exactly when that report is Failed. Point IDs
// derive from document and chunk identity, so rerunning over the same
// corpus overwrites instead of duplicating.
func (j *Ingestion) Run(ctx context.Context) error {
	j.reporter.Report(ctx, core.PhasePending, "starting ingestion", core.Progress{})

	docs, err := j.fetcher.Fetch(ctx, j.config.SourceURI)
	if err != nil {
		return j.fail(ctx, core.Progress{}, fmt.Errorf("fetching documents: %w", err))
	}
	if len(docs) == 0 {
		return j.fail(ctx, core.Progress{}, fmt.Errorf("%w: %s", ErrNoDocuments, j.config.SourceURI))
	}
	j.logger.Info("fetched documents", "count", len(docs))

	chunks := chunk.ProcessDocuments(docs, chunk.Options{
		ChunkSize: j.config.ChunkSize,
		Overlap:   j.config.Overlap,
	})
	if len(chunks) == 0 {
		return j.fail(ctx, core.Progress{}, fmt.Errorf("%w: %d documents yielded no usable text", ErrNoChunks, len(docs)))
	}

	if err := j.store.EnsureCollection(ctx, j.embedder.Dimension()); err != nil {
		return j.fail(ctx, core.Progress{}, fmt.Errorf("ensuring collection: %w", err))
	}

	total := len(chunks)
	j.reporter.Report(ctx, core.PhaseRunning,
		fmt.Sprintf("embedding %d chunks from %d documents", total, len(docs)),
		core.NewProgress(total, 0))

	processed := 0
	batches := (total + j.config.BatchSize - 1) / j.config.BatchSize
	for start := 0; start < total; start += j.config.BatchSize {
		end := min(start+j.config.BatchSize, total)
		batch := chunks[start:end]

		if err := j.processBatch(ctx, batch); err != nil {
			return j.fail(ctx, core.NewProgress(total, processed), err)
		}

		processed += len(batch)
		j.reporter.Report(ctx, core.PhaseRunning,
			fmt.Sprintf("processed batch %d/%d", start/j.config.BatchSize+1, batches),
			core.NewProgress(total, processed))
	}

	j.reporter.Report(ctx, core.PhaseSucceeded,
		fmt.Sprintf("ingested %d chunks from %d documents", total, len(docs)),
		core.NewProgress(total, total))
	return nil
}

// processBatch embeds one batch of chunks and upserts the resulting points.
func (j *Ingestion) processBatch(ctx context.Context, batch []core.Chunk) error {
	texts := make([]string, len(batch))
	for i, c := range batch {
		texts[i] = c.Text
	}

	vectors, err := j.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding batch: %w", err)
	}

	points := make([]core.Point, len(batch))
	for i, c := range batch {
		ec := core.EmbeddedChunk{Chunk: c, Vector: embed.Normalize(vectors[i])}
		points[i] = ec.ToPoint()
	}

	if err := j.store.Upsert(ctx, points); err != nil {
		return fmt.Errorf("upserting %d points: %w", len(points), err)
	}
	return nil
}

func (j *Ingestion) fail(ctx context.Context, progress core.Progress, err error) error {
	j.logger.Error("ingestion failed", "err", err)
	j.reporter.Report(ctx, core.PhaseFailed, err.Error(), progress)
	return err
}
