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


package index

import "errors"

var (
	// ErrCollectionNotFound indicates an operation that requires an existing
	// collection was run against a missing one.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrAliasNotFound indicates the named alias does not exist.
	ErrAliasNotFound = errors.New("alias not found")

	// ErrUpsertFailed indicates the index rejected a point batch. Upserts
	// are all-or-nothing; no partial batch is ever acknowledged.
	ErrUpsertFailed = errors.New("point upsert failed")

	// ErrUnavailable indicates the index backend could not be reached.
	ErrUnavailable = errors.New("index unavailable")
)
