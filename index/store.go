package index

import (
	"context"

	"github.com/poiesic/ragforge/core"
)

// Store is a vector index bound to one collection. Implementations must be
// safe for concurrent use.
type Store interface {
	// EnsureCollection creates the collection with the given vector
	// dimension if it does not exist. An existing collection with a
	// different dimension is an error, not a silent recreate.
	EnsureCollection(ctx context.Context, dimension int) error

	// Upsert writes a batch of points. The write is all-or-nothing: on
	// error no point from the batch is acknowledged.
	Upsert(ctx context.Context, points []core.Point) error

	// CollectionInfo reports the collection's point count, readiness
	// status and vector dimension. A missing collection yields a zero
	// CollectionInfo and no error.
	CollectionInfo(ctx context.Context) (core.CollectionInfo, error)

	// CreateAlias points alias at this store's collection, replacing
	// nothing. Fails if the alias already exists on some backends.
	CreateAlias(ctx context.Context, alias string) error

	// SwitchAlias atomically repoints alias at this store's collection.
	// Readers resolving the alias see either the old collection or the
	// new one, never neither.
	SwitchAlias(ctx context.Context, alias string) error

	// ListAliases returns all aliases known to the index.
	ListAliases(ctx context.Context) ([]core.Alias, error)

	// ApplyIndexParams tunes the collection's index structure (HNSW and
	// optimizer settings). Unknown keys are ignored by backends that have
	// no equivalent knob.
	ApplyIndexParams(ctx context.Context, params core.IndexParams) error

	// HealthCheck reports whether the index backend is reachable.
	HealthCheck(ctx context.Context) bool
}
