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


package source

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/poiesic/ragforge/core"
)

// Fetcher turns a source URI into an ordered sequence of raw documents.
// Implementations must be safe for concurrent use.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) ([]core.Document, error)
}

// Registry maps URI schemes to fetcher implementations. Adding a source
// kind is a registration, not a new type hierarchy.
type Registry struct {
	mu       sync.RWMutex
	fetchers map[string]Fetcher
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{fetchers: make(map[string]Fetcher)}
}

// Register associates a scheme (case-insensitive) with a fetcher,
// replacing any previous registration.
func (r *Registry) Register(scheme string, f Fetcher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetchers[strings.ToLower(scheme)] = f
}

// Lookup resolves the fetcher for a URI. URIs without a scheme are treated
// as local filesystem paths.
func (r *Registry) Lookup(uri string) (Fetcher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.fetchers[Scheme(uri)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSourceKind, Scheme(uri))
	}
	return f, nil
}

// Fetch resolves the fetcher for uri and runs it.
func (r *Registry) Fetch(ctx context.Context, uri string) ([]core.Document, error) {
	f, err := r.Lookup(uri)
	if err != nil {
		return nil, err
	}
	return f.Fetch(ctx, uri)
}

// Scheme extracts the lower-cased URI scheme; bare paths report "file".
func Scheme(uri string) string {
	if scheme, _, ok := strings.Cut(uri, "://"); ok {
		return strings.ToLower(scheme)
	}
	return "file"
}

// DefaultRegistry returns a registry with the built-in local variants
// registered: filesystem (file, pvc, bare paths), HTTP(S) and git. Object
// storage needs credentials and is registered separately by the caller.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	fs := NewFilesystemFetcher()
	r.Register("file", fs)
	r.Register("pvc", fs)
	http := NewHTTPFetcher()
	r.Register("http", http)
	r.Register("https", http)
	r.Register("git", NewGitFetcher())
	r.Register("fixture", NewFixtureFetcher())
	return r
}
