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
	"time"

	"github.com/poiesic/ragforge/core"
	"github.com/poiesic/ragforge/index"
	"github.com/poiesic/ragforge/status"
)

const (
	// DefaultPollInterval is how often readiness is probed.
	DefaultPollInterval = 5 * time.Second

	// DefaultMaxWait bounds the readiness wait. Exceeding it is logged,
	// not fatal: the alias still switches and the index finishes
	// optimizing in the background.
	DefaultMaxWait = 5 * time.Minute
)

// IndexBuildConfig describes one index build and cutover.
type IndexBuildConfig struct {
	// Name labels the build in status records, typically the alias.
	Name string

	// Alias is the serving name to repoint at the build collection.
	// Empty means tune and wait only; no cutover is attempted and the
	// status record reports the swap as skipped.
	Alias string

	// IndexParams are tuning parameters applied before the readiness
	// wait. Optional.
	IndexParams core.IndexParams

	// PollInterval and MaxWait bound the readiness polling loop. Zero
	// means the defaults.
	PollInterval time.Duration
	MaxWait      time.Duration
}

// Validate checks the config can drive a run.
func (c *IndexBuildConfig) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}
	if c.PollInterval < 0 || c.MaxWait < 0 {
		return fmt.Errorf("%w: wait durations must not be negative", ErrInvalidConfig)
	}
	return nil
}

// IndexBuild finalizes a freshly ingested collection: apply tuning, wait
// for the backend to settle, then atomically swap the serving alias.
type IndexBuild struct {
	config   IndexBuildConfig
	store    index.Store
	reporter *status.Reporter
	logger   *slog.Logger
}

// NewIndexBuild wires an index-build job. The store must be bound to the
// build collection.
func NewIndexBuild(config IndexBuildConfig, store index.Store, reporter *status.Reporter) (*IndexBuild, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if store == nil || reporter == nil {
		return nil, fmt.Errorf("%w: missing dependency", ErrInvalidConfig)
	}
	if config.PollInterval == 0 {
		config.PollInterval = DefaultPollInterval
	}
	if config.MaxWait == 0 {
		config.MaxWait = DefaultMaxWait
	}

	return &IndexBuild{
		config:   config,
		store:    store,
		reporter: reporter,
		logger:   slog.Default().With("component", "index-build", "index", config.Name),
	}, nil
}

// Run executes the build. A missing collection fails before any alias is
// touched, so the serving alias keeps pointing at the previous collection.
func (j *IndexBuild) Run(ctx context.Context) error {
	j.reporter.Report(ctx, core.PhasePending, "starting index build", core.Progress{})

	info, err := j.store.CollectionInfo(ctx)
	if err != nil {
		return j.fail(ctx, fmt.Errorf("reading collection info: %w", err))
	}
	if info.Name == "" {
		return j.fail(ctx, ErrCollectionMissing)
	}

	count := int(info.VectorCount)
	j.reporter.Report(ctx, core.PhaseBuilding,
		fmt.Sprintf("collection holds %d vectors", count),
		core.NewProgress(count, 0))

	if len(j.config.IndexParams) > 0 {
		// Tuning is best-effort; a backend without the knob still serves.
		if err := j.store.ApplyIndexParams(ctx, j.config.IndexParams); err != nil {
			j.logger.Warn("failed to apply index params, continuing", "err", err)
		}
	}

	if err := j.waitReady(ctx, count); err != nil {
		return j.fail(ctx, err)
	}

	if j.config.Alias == "" {
		j.reporter.ReportSwap(ctx, core.PhaseSucceeded,
			fmt.Sprintf("collection ready with %d vectors, no alias configured", count),
			core.NewProgress(count, count), false)
		return nil
	}

	if err := j.store.SwitchAlias(ctx, j.config.Alias); err != nil {
		return j.fail(ctx, fmt.Errorf("switching alias %q: %w", j.config.Alias, err))
	}

	j.reporter.ReportSwap(ctx, core.PhaseSucceeded,
		fmt.Sprintf("alias %q now serves %d vectors", j.config.Alias, count),
		core.NewProgress(count, count), true)
	return nil
}

// waitReady polls the collection until it reports "green" or the wait
// budget runs out. Exhausting the budget is logged and tolerated; only
// context cancellation aborts the build here.
func (j *IndexBuild) waitReady(ctx context.Context, count int) error {
	deadline := time.Now().Add(j.config.MaxWait)

	for {
		info, err := j.store.CollectionInfo(ctx)
		if err != nil {
			return fmt.Errorf("polling collection status: %w", err)
		}
		if info.Status == "green" {
			return nil
		}

		if time.Now().After(deadline) {
			j.logger.Warn("collection not green within wait budget, switching anyway",
				"status", info.Status, "maxWait", j.config.MaxWait)
			return nil
		}

		j.reporter.Report(ctx, core.PhaseOptimizing,
			fmt.Sprintf("waiting for index to settle (status %q)", info.Status),
			core.NewProgress(count, 0))

		timer := time.NewTimer(j.config.PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (j *IndexBuild) fail(ctx context.Context, err error) error {
	j.logger.Error("index build failed", "err", err)
	j.reporter.ReportSwap(ctx, core.PhaseFailed, err.Error(), core.Progress{}, false)
	return err
}
