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


package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/ragforge/core"
	"github.com/poiesic/ragforge/index"
)

const defaultTimeout = 30 * time.Second

// Config holds connection details for a Qdrant instance.
type Config struct {
	// URL is the base URL, e.g. "http://localhost:6333".
	URL string

	// APIKey is sent in the api-key header when non-empty.
	APIKey string

	// Collection is the collection this store operates on.
	Collection string

	// Timeout bounds each HTTP request. Zero means 30s.
	Timeout time.Duration
}

// Store is a minimal REST client to Qdrant bound to one collection.
// It assumes cosine distance.
type Store struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client
	logger     *slog.Logger
}

var _ index.Store = (*Store)(nil)

// NewStore creates a Qdrant-backed store.
func NewStore(cfg Config) *Store {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Store{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
		logger:     slog.Default().With("component", "qdrant", "collection", cfg.Collection),
	}
}

// Collection returns the collection name this store is bound to.
func (s *Store) Collection() string {
	return s.collection
}

// EnsureCollection creates the collection if it is missing. An existing
// collection with a different vector dimension is rejected.
func (s *Store) EnsureCollection(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("%w: dimension must be positive, got %d", core.ErrDimensionMismatch, dimension)
	}

	info, err := s.CollectionInfo(ctx)
	if err != nil {
		return err
	}
	if info.Name != "" {
		if info.Dimension != dimension {
			return fmt.Errorf("%w: collection %q has dimension %d, want %d",
				core.ErrDimensionMismatch, s.collection, info.Dimension, dimension)
		}
		return nil
	}

	s.logger.Info("creating collection", "dimension", dimension)
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	status, _, err := s.do(ctx, http.MethodPut, "/collections/"+s.collection, body)
	if err != nil {
		return fmt.Errorf("%w: %v", index.ErrUnavailable, err)
	}
	if status >= 300 {
		return fmt.Errorf("creating collection %q: status %d", s.collection, status)
	}
	return nil
}

// Upsert writes points with wait=true so the write is durable before the
// call returns. Qdrant applies the batch atomically.
func (s *Store) Upsert(ctx context.Context, points []core.Point) error {
	if len(points) == 0 {
		return nil
	}

	body := map[string]any{"points": points}
	status, respBody, err := s.do(ctx, http.MethodPut,
		fmt.Sprintf("/collections/%s/points?wait=true", s.collection), body)
	if err != nil {
		return fmt.Errorf("%w: %v", index.ErrUnavailable, err)
	}
	if status == http.StatusNotFound {
		return fmt.Errorf("%w: %s", index.ErrCollectionNotFound, s.collection)
	}
	if status >= 300 {
		return fmt.Errorf("%w: status %d: %s", index.ErrUpsertFailed, status, truncate(respBody, 200))
	}
	return nil
}

// collectionInfoResponse mirrors the fields of GET /collections/{name}
// the pipeline cares about.
type collectionInfoResponse struct {
	Result struct {
		Status      string `json:"status"`
		PointsCount uint64 `json:"points_count"`
		Config      struct {
			Params struct {
				Vectors struct {
					Size int `json:"size"`
				} `json:"vectors"`
			} `json:"params"`
		} `json:"config"`
	} `json:"result"`
}

// CollectionInfo reports the collection's state. A 404 yields a zero
// CollectionInfo, not an error, so callers can probe for existence.
func (s *Store) CollectionInfo(ctx context.Context) (core.CollectionInfo, error) {
	status, body, err := s.do(ctx, http.MethodGet, "/collections/"+s.collection, nil)
	if err != nil {
		return core.CollectionInfo{}, fmt.Errorf("%w: %v", index.ErrUnavailable, err)
	}
	if status == http.StatusNotFound {
		return core.CollectionInfo{}, nil
	}
	if status >= 300 {
		return core.CollectionInfo{}, fmt.Errorf("collection info for %q: status %d", s.collection, status)
	}

	var resp collectionInfoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return core.CollectionInfo{}, fmt.Errorf("decoding collection info: %w", err)
	}
	return core.CollectionInfo{
		Name:        s.collection,
		VectorCount: resp.Result.PointsCount,
		Status:      resp.Result.Status,
		Dimension:   resp.Result.Config.Params.Vectors.Size,
	}, nil
}

// CreateAlias points alias at this store's collection.
func (s *Store) CreateAlias(ctx context.Context, alias string) error {
	body := map[string]any{
		"actions": []any{
			map[string]any{"create_alias": map[string]any{
				"collection_name": s.collection,
				"alias_name":      alias,
			}},
		},
	}
	status, respBody, err := s.do(ctx, http.MethodPost, "/collections/aliases", body)
	if err != nil {
		return fmt.Errorf("%w: %v", index.ErrUnavailable, err)
	}
	if status >= 300 {
		return fmt.Errorf("creating alias %q: status %d: %s", alias, status, truncate(respBody, 200))
	}
	return nil
}

// SwitchAlias repoints alias at this store's collection. Delete and create
// ship as one alias-actions request, which Qdrant applies atomically. When
// the combined request fails because the alias never existed, a create-only
// request is issued instead.
func (s *Store) SwitchAlias(ctx context.Context, alias string) error {
	body := map[string]any{
		"actions": []any{
			map[string]any{"delete_alias": map[string]any{"alias_name": alias}},
			map[string]any{"create_alias": map[string]any{
				"collection_name": s.collection,
				"alias_name":      alias,
			}},
		},
	}
	status, _, err := s.do(ctx, http.MethodPost, "/collections/aliases", body)
	if err != nil {
		return fmt.Errorf("%w: %v", index.ErrUnavailable, err)
	}
	if status < 300 {
		s.logger.Info("alias switched", "alias", alias)
		return nil
	}

	// First build: the delete action fails because there is nothing to
	// delete yet. Fall back to plain creation.
	s.logger.Info("alias switch failed, trying plain create", "alias", alias, "status", status)
	return s.CreateAlias(ctx, alias)
}

// ListAliases returns every alias known to the instance.
func (s *Store) ListAliases(ctx context.Context) ([]core.Alias, error) {
	status, body, err := s.do(ctx, http.MethodGet, "/aliases", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", index.ErrUnavailable, err)
	}
	if status >= 300 {
		return nil, fmt.Errorf("listing aliases: status %d", status)
	}

	var resp struct {
		Result struct {
			Aliases []struct {
				AliasName      string `json:"alias_name"`
				CollectionName string `json:"collection_name"`
			} `json:"aliases"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding aliases: %w", err)
	}

	aliases := make([]core.Alias, len(resp.Result.Aliases))
	for i, a := range resp.Result.Aliases {
		aliases[i] = core.Alias{Name: a.AliasName, Collection: a.CollectionName}
	}
	return aliases, nil
}

// ApplyIndexParams tunes HNSW and optimizer settings via PATCH. Keys that
// map to neither config section are ignored.
func (s *Store) ApplyIndexParams(ctx context.Context, params core.IndexParams) error {
	if len(params) == 0 {
		return nil
	}

	hnsw := map[string]any{}
	optimizers := map[string]any{}
	for key, value := range params {
		switch key {
		case "m", "ef_construct", "full_scan_threshold":
			hnsw[key] = value
		case "indexing_threshold", "default_segment_number", "max_segment_size":
			optimizers[key] = value
		default:
			s.logger.Warn("ignoring unknown index parameter", "key", key)
		}
	}

	body := map[string]any{}
	if len(hnsw) > 0 {
		body["hnsw_config"] = hnsw
	}
	if len(optimizers) > 0 {
		body["optimizers_config"] = optimizers
	}
	if len(body) == 0 {
		return nil
	}

	status, respBody, err := s.do(ctx, http.MethodPatch, "/collections/"+s.collection, body)
	if err != nil {
		return fmt.Errorf("%w: %v", index.ErrUnavailable, err)
	}
	if status == http.StatusNotFound {
		return fmt.Errorf("%w: %s", index.ErrCollectionNotFound, s.collection)
	}
	if status >= 300 {
		return fmt.Errorf("applying index params: status %d: %s", status, truncate(respBody, 200))
	}
	return nil
}

// HealthCheck probes the collections listing endpoint.
func (s *Store) HealthCheck(ctx context.Context) bool {
	status, _, err := s.do(ctx, http.MethodGet, "/collections", nil)
	return err == nil && status < 300
}

// do issues one JSON request and returns the status code and body.
func (s *Store) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.url+path, reader)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, data, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
