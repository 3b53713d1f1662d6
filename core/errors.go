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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrEmptyDocumentID indicates the document ID field is empty.
	ErrEmptyDocumentID = errors.New("document id cannot be empty")

	// ErrEmptyText indicates the text field is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrChunkIndexOutOfRange indicates ChunkIndex >= TotalChunks.
	ErrChunkIndexOutOfRange = errors.New("chunk index out of range")

	// ErrDimensionMismatch indicates a vector's length does not match the
	// collection's configured dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)
