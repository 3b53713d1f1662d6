package source

import "errors"

var (
	// ErrUnsupportedSourceKind indicates no fetcher is registered for the
	// URI's scheme.
	ErrUnsupportedSourceKind = errors.New("unsupported source kind")

	// ErrSourceNotFound indicates the top-level resource does not exist.
	ErrSourceNotFound = errors.New("source not found")

	// ErrSourceUnreachable indicates the top-level resource could not be
	// reached or read.
	ErrSourceUnreachable = errors.New("source unreachable")

	// ErrNoDocuments indicates a fetch completed but produced no documents.
	ErrNoDocuments = errors.New("source produced no documents")
)
