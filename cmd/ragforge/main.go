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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/ragforge/config"
	"github.com/poiesic/ragforge/core"
	"github.com/poiesic/ragforge/embed"
	"github.com/poiesic/ragforge/embed/openai"
	"github.com/poiesic/ragforge/index"
	badgerstore "github.com/poiesic/ragforge/index/badger"
	"github.com/poiesic/ragforge/index/qdrant"
	"github.com/poiesic/ragforge/job"
	"github.com/poiesic/ragforge/source"
	"github.com/poiesic/ragforge/status"
)

func main() {
	app := &cli.App{
		Name:  "ragforge",
		Usage: "Document ingestion pipeline for vector search indexes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
				Value:   "ragforge.yaml",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Fetch, chunk, embed and upsert a document set into a build collection",
				ArgsUsage: "<document-set>",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "source",
						Usage: "Source URI (file://, s3://, git://, http(s)://, fixture://)",
					},
					&cli.StringFlag{
						Name:  "collection",
						Usage: "Build collection name",
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Maximum chunk size in characters",
					},
					&cli.IntFlag{
						Name:  "overlap",
						Usage: "Overlap between consecutive chunks in characters",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks per embedding request",
					},
				},
			},
			{
				Name:      "index-build",
				Usage:     "Tune a build collection, wait for readiness and swap the serving alias",
				ArgsUsage: "<index-name>",
				Action:    indexBuildCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "collection",
						Usage: "Build collection name",
					},
					&cli.StringFlag{
						Name:  "alias",
						Usage: "Serving alias to repoint (empty skips the cutover)",
					},
					&cli.DurationFlag{
						Name:  "poll-interval",
						Usage: "Readiness poll interval",
					},
					&cli.DurationFlag{
						Name:  "max-wait",
						Usage: "Readiness wait budget",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func ingestCommand(c *cli.Context) error {
	documentSet := c.Args().First()
	if documentSet == "" {
		return fmt.Errorf("document set name is required")
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyIngestFlags(cfg, c)

	ctx, stop := signalContext()
	defer stop()

	store, cleanup, err := buildStore(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	registry := source.DefaultRegistry()
	if cfg.Source.S3 != nil {
		objects, err := source.NewObjectFetcher(source.ObjectConfig{
			Endpoint:  cfg.Source.S3.Endpoint,
			AccessKey: cfg.Source.S3.AccessKey,
			SecretKey: cfg.Source.S3.SecretKey,
			UseSSL:    cfg.Source.S3.UseSSL,
		})
		if err != nil {
			return fmt.Errorf("configuring object storage: %w", err)
		}
		registry.Register("s3", objects)
	}

	embedder, err := openai.NewEmbedder(openai.Config{
		Host:   cfg.Embedding.Host,
		APIKey: cfg.Embedding.APIKey,
		Model:  cfg.Embedding.Model,
	})
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}
	client, err := embed.NewClient(embedder, cfg.Embedding.Dimension,
		embed.WithMaxRetries(cfg.Embedding.MaxRetries),
		embed.WithBaseDelay(cfg.Embedding.BaseDelay))
	if err != nil {
		return err
	}

	reporter := newReporter(cfg, "ingestion", documentSet)

	ingestion, err := job.NewIngestion(job.IngestionConfig{
		DocumentSet: documentSet,
		SourceURI:   cfg.Source.URI,
		ChunkSize:   cfg.Chunking.ChunkSize,
		Overlap:     cfg.Chunking.Overlap,
		BatchSize:   cfg.Embedding.BatchSize,
	}, registry, client, store, reporter)
	if err != nil {
		return err
	}

	return ingestion.Run(ctx)
}

func indexBuildCommand(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return fmt.Errorf("index name is required")
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyBuildFlags(cfg, c)

	ctx, stop := signalContext()
	defer stop()

	store, cleanup, err := buildStore(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	reporter := newReporter(cfg, "index-build", name)

	build, err := job.NewIndexBuild(job.IndexBuildConfig{
		Name:         name,
		Alias:        cfg.Index.Alias,
		IndexParams:  core.IndexParams(cfg.Index.Params),
		PollInterval: cfg.Job.PollInterval,
		MaxWait:      cfg.Job.MaxWait,
	}, store, reporter)
	if err != nil {
		return err
	}

	return build.Run(ctx)
}

// buildStore selects the index backend from config. The returned cleanup
// closes any resources the backend holds.
func buildStore(cfg *config.Config) (index.Store, func(), error) {
	if cfg.Index.Collection == "" {
		return nil, nil, fmt.Errorf("index collection is required")
	}

	switch cfg.Index.Type {
	case "qdrant":
		if cfg.Index.Qdrant == nil {
			return nil, nil, fmt.Errorf("qdrant config is required for index type %q", cfg.Index.Type)
		}
		store := qdrant.NewStore(qdrant.Config{
			URL:        cfg.Index.Qdrant.URL,
			APIKey:     cfg.Index.Qdrant.APIKey,
			Collection: cfg.Index.Collection,
		})
		return store, func() {}, nil

	case "badger":
		if cfg.Index.Badger == nil {
			return nil, nil, fmt.Errorf("badger config is required for index type %q", cfg.Index.Type)
		}
		backend, err := badgerstore.OpenBackend(cfg.Index.Badger.Path, cfg.Index.Badger.InMemory)
		if err != nil {
			return nil, nil, fmt.Errorf("opening badger at %s: %w", cfg.Index.Badger.Path, err)
		}
		store := badgerstore.NewStore(backend, cfg.Index.Collection)
		return store, func() { _ = backend.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown index type %q", cfg.Index.Type)
	}
}

func newReporter(cfg *config.Config, kind, name string) *status.Reporter {
	var opts []status.ReporterOption
	if cfg.Job.StatusFilePath != "" {
		opts = append(opts, status.WithFileSink(cfg.Job.StatusFilePath))
	}
	return status.NewReporter(kind, name, opts...)
}

func applyIngestFlags(cfg *config.Config, c *cli.Context) {
	if v := c.String("source"); v != "" {
		cfg.Source.URI = v
	}
	if v := c.String("collection"); v != "" {
		cfg.Index.Collection = v
	}
	if v := c.Int("chunk-size"); v != 0 {
		cfg.Chunking.ChunkSize = v
	}
	if v := c.Int("overlap"); v != 0 {
		cfg.Chunking.Overlap = v
	}
	if v := c.Int("batch-size"); v != 0 {
		cfg.Embedding.BatchSize = v
	}
}

func applyBuildFlags(cfg *config.Config, c *cli.Context) {
	if v := c.String("collection"); v != "" {
		cfg.Index.Collection = v
	}
	if v := c.String("alias"); v != "" {
		cfg.Index.Alias = v
	}
	if v := c.Duration("poll-interval"); v != 0 {
		cfg.Job.PollInterval = v
	}
	if v := c.Duration("max-wait"); v != 0 {
		cfg.Job.MaxWait = v
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
