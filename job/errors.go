package job

import "errors"

var (
	// ErrInvalidConfig indicates a job configuration that cannot run.
	ErrInvalidConfig = errors.New("invalid job config")

	// ErrNoDocuments indicates the source produced nothing to ingest.
	ErrNoDocuments = errors.New("no documents to ingest")

	// ErrNoChunks indicates chunking reduced the corpus to nothing.
	ErrNoChunks = errors.New("no chunks produced")

	// ErrCollectionMissing indicates an index build was pointed at a
	// collection that does not exist.
	ErrCollectionMissing = errors.New("build collection missing")
)
