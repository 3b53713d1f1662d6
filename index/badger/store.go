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


package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/ragforge/core"
	"github.com/poiesic/ragforge/index"
)

// Store implements index.Store for one collection on a shared Backend.
type Store struct {
	backend    *Backend
	collection string
	logger     *slog.Logger
}

var _ index.Store = (*Store)(nil)

// NewStore binds a store to a collection on the backend.
func NewStore(backend *Backend, collection string) *Store {
	return &Store{
		backend:    backend,
		collection: collection,
		logger:     slog.Default().With("component", "badger-index", "collection", collection),
	}
}

// Collection returns the collection name this store is bound to.
func (s *Store) Collection() string {
	return s.collection
}

// EnsureCollection creates the collection metadata record if missing. An
// existing collection with another dimension is rejected.
func (s *Store) EnsureCollection(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("%w: dimension must be positive, got %d", core.ErrDimensionMismatch, dimension)
	}

	return s.backend.db.Update(func(tx *badger.Txn) error {
		meta, err := s.readMeta(tx)
		if err == nil {
			if meta.Dimension != dimension {
				return fmt.Errorf("%w: collection %q has dimension %d, want %d",
					core.ErrDimensionMismatch, s.collection, meta.Dimension, dimension)
			}
			return nil
		}
		if !errors.Is(err, index.ErrCollectionNotFound) {
			return err
		}

		s.logger.Info("creating collection", "dimension", dimension)
		return tx.Set(makeCollectionMetaKey(s.collection), marshalMeta(collectionMeta{Dimension: dimension}))
	})
}

// Upsert writes the batch inside one transaction, so it is all-or-nothing.
// Every vector is validated against the collection dimension first.
func (s *Store) Upsert(ctx context.Context, points []core.Point) error {
	if len(points) == 0 {
		return nil
	}

	err := s.backend.db.Update(func(tx *badger.Txn) error {
		meta, err := s.readMeta(tx)
		if err != nil {
			return err
		}
		for _, point := range points {
			if err := core.ValidateVector(point.Vector, meta.Dimension); err != nil {
				return fmt.Errorf("point %s: %w", point.ID, err)
			}
			if err := tx.Set(makePointKey(s.collection, point.ID), marshalPoint(point)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, index.ErrCollectionNotFound) || errors.Is(err, core.ErrDimensionMismatch) {
			return err
		}
		return fmt.Errorf("%w: %v", index.ErrUpsertFailed, err)
	}
	return nil
}

// CollectionInfo counts the collection's points. A missing collection
// yields a zero CollectionInfo and no error. There is no background index
// build, so existing collections always report "green".
func (s *Store) CollectionInfo(ctx context.Context) (core.CollectionInfo, error) {
	var info core.CollectionInfo
	err := s.backend.db.View(func(tx *badger.Txn) error {
		meta, err := s.readMeta(tx)
		if errors.Is(err, index.ErrCollectionNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = makePointScanPrefix(s.collection)
		it := tx.NewIterator(opts)
		defer it.Close()

		var count uint64
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}

		info = core.CollectionInfo{
			Name:        s.collection,
			VectorCount: count,
			Status:      "green",
			Dimension:   meta.Dimension,
		}
		return nil
	})
	return info, err
}

// CreateAlias points alias at this collection. Fails if the alias exists.
func (s *Store) CreateAlias(ctx context.Context, alias string) error {
	return s.backend.db.Update(func(tx *badger.Txn) error {
		if _, err := s.readMeta(tx); err != nil {
			return err
		}
		if _, err := tx.Get(makeAliasKey(alias)); err == nil {
			return fmt.Errorf("alias %q already exists", alias)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return tx.Set(makeAliasKey(alias), []byte(s.collection))
	})
}

// SwitchAlias repoints alias at this collection. The alias record is one
// key written in one transaction, so the switch is atomic and creates the
// alias when it does not exist yet.
func (s *Store) SwitchAlias(ctx context.Context, alias string) error {
	err := s.backend.db.Update(func(tx *badger.Txn) error {
		if _, err := s.readMeta(tx); err != nil {
			return err
		}
		return tx.Set(makeAliasKey(alias), []byte(s.collection))
	})
	if err == nil {
		s.logger.Info("alias switched", "alias", alias)
	}
	return err
}

// ListAliases returns every alias record.
func (s *Store) ListAliases(ctx context.Context) ([]core.Alias, error) {
	var aliases []core.Alias
	err := s.backend.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = aliasScanPrefix()
		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			name := strings.TrimPrefix(string(item.Key()), string(aliasScanPrefix()))
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			aliases = append(aliases, core.Alias{Name: name, Collection: string(value)})
		}
		return nil
	})
	return aliases, err
}

// ApplyIndexParams records the tuning parameters in the collection
// metadata. Badger has no HNSW structure to tune; the parameters are kept
// so CollectionInfo-level tooling can inspect what a build requested.
func (s *Store) ApplyIndexParams(ctx context.Context, params core.IndexParams) error {
	if len(params) == 0 {
		return nil
	}

	return s.backend.db.Update(func(tx *badger.Txn) error {
		meta, err := s.readMeta(tx)
		if err != nil {
			return err
		}
		if meta.Params == nil {
			meta.Params = make(map[string]int, len(params))
		}
		for key, value := range params {
			meta.Params[key] = value
		}
		return tx.Set(makeCollectionMetaKey(s.collection), marshalMeta(meta))
	})
}

// HealthCheck reports whether the backend is open.
func (s *Store) HealthCheck(ctx context.Context) bool {
	return s.backend != nil && !s.backend.IsClosed()
}

// readMeta loads the collection metadata within tx.
func (s *Store) readMeta(tx *badger.Txn) (collectionMeta, error) {
	item, err := tx.Get(makeCollectionMetaKey(s.collection))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return collectionMeta{}, fmt.Errorf("%w: %s", index.ErrCollectionNotFound, s.collection)
		}
		return collectionMeta{}, err
	}
	data, err := item.ValueCopy(nil)
	if err != nil {
		return collectionMeta{}, err
	}
	return unmarshalMeta(data)
}

// GetPoint reads one point back. Mostly useful for tests and debugging.
func (s *Store) GetPoint(ctx context.Context, pointID string) (core.Point, error) {
	var point core.Point
	err := s.backend.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(makePointKey(s.collection, pointID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("point %s: %w", pointID, badger.ErrKeyNotFound)
			}
			return err
		}
		data, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		point, err = unmarshalPoint(data)
		return err
	})
	return point, err
}
