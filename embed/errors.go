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
	"errors"
	"net"
)

var (
	// ErrRateLimited indicates the provider rejected the request for
	// exceeding its rate limits. Retryable.
	ErrRateLimited = errors.New("embedding service rate limited")

	// ErrServiceUnavailable indicates a transient provider-side failure
	// (5xx, connection errors). Retryable.
	ErrServiceUnavailable = errors.New("embedding service unavailable")

	// ErrInvalidRequest indicates the request itself was rejected (4xx
	// other than rate limiting). Not retryable.
	ErrInvalidRequest = errors.New("invalid embedding request")

	// ErrNotConfigured indicates the embedder is missing required
	// configuration. Not retryable.
	ErrNotConfigured = errors.New("embedder not configured")

	// ErrInvalidMaxRetries is returned when maxRetries is negative.
	ErrInvalidMaxRetries = errors.New("maxRetries must not be negative")
)

// Retryable reports whether an operation that failed with err is worth
// repeating. Rate limits, provider outages and network-level failures are
// transient; everything else is treated as a permanent failure.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrServiceUnavailable) {
		return true
	}
	if errors.Is(err, ErrInvalidRequest) || errors.Is(err, ErrNotConfigured) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
