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


package status

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/poiesic/ragforge/core"
)

// Sink receives status records from a running job. Implementations must
// tolerate being called from a single goroutine in job order.
type Sink interface {
	Report(ctx context.Context, status core.JobStatus) error
}

// Reporter emits job status records. The structured log always gets one
// line per report; the file and remote sinks are optional.
type Reporter struct {
	kind     string
	name     string
	filePath string
	sink     Sink
	logger   *slog.Logger

	mu   sync.Mutex
	last core.JobStatus
}

// ReporterOption configures a Reporter.
type ReporterOption func(*Reporter)

// WithFileSink makes the reporter write the latest status record as JSON
// to path after every report.
func WithFileSink(path string) ReporterOption {
	return func(r *Reporter) {
		r.filePath = path
	}
}

// WithSink attaches a remote sink. A nil sink is ignored.
func WithSink(sink Sink) ReporterOption {
	return func(r *Reporter) {
		r.sink = sink
	}
}

// NewReporter creates a reporter for one job run. kind distinguishes the
// job type ("ingestion", "index-build"); name identifies the run subject.
func NewReporter(kind, name string, opts ...ReporterOption) *Reporter {
	r := &Reporter{
		kind:   kind,
		name:   name,
		logger: slog.Default().With("component", "status", "kind", kind, "name", name),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Report emits a status record with the given phase, message and progress.
func (r *Reporter) Report(ctx context.Context, phase core.JobPhase, message string, progress core.Progress) {
	r.emit(ctx, core.JobStatus{
		Kind:      r.kind,
		Name:      r.name,
		Phase:     phase,
		Message:   message,
		Progress:  progress,
		Timestamp: time.Now().UTC(),
	})
}

// ReportSwap emits a terminal index-build record carrying the alias swap
// outcome.
func (r *Reporter) ReportSwap(ctx context.Context, phase core.JobPhase, message string, progress core.Progress, swapped bool) {
	r.emit(ctx, core.JobStatus{
		Kind:         r.kind,
		Name:         r.name,
		Phase:        phase,
		Message:      message,
		Progress:     progress,
		AliasSwapped: swapped,
		Timestamp:    time.Now().UTC(),
	})
}

// Last returns the most recently emitted record.
func (r *Reporter) Last() core.JobStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func (r *Reporter) emit(ctx context.Context, status core.JobStatus) {
	r.mu.Lock()
	r.last = status
	r.mu.Unlock()

	r.logger.Info("job status",
		"phase", status.Phase,
		"message", status.Message,
		"processed", status.Progress.Processed,
		"total", status.Progress.Total,
		"percentage", status.Progress.Percentage)

	if r.filePath != "" {
		if err := r.writeFile(status); err != nil {
			r.logger.Warn("failed to write status file", "path", r.filePath, "err", err)
		}
	}

	if r.sink != nil {
		if err := r.sink.Report(ctx, status); err != nil {
			r.logger.Warn("status sink rejected report", "err", err)
		}
	}
}

// writeFile replaces the status file atomically so watchers never read a
// half-written record.
func (r *Reporter) writeFile(status core.JobStatus) error {
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.filePath), ".status-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), r.filePath)
}
