// Package source fetches raw documents from pluggable locations.
//
// Fetchers are selected by URI scheme through a Registry: filesystem paths,
// S3-compatible object storage prefixes, single HTTP(S) resources, shallow
// git clones and an in-memory fixture variant for tests. Every fetched
// document carries enough provenance metadata (path, URL, bucket and key)
// to debug ingestion failures after the fact.
//
// Transient per-object failures are logged and skipped; a fetch fails as a
// whole only when the top-level resource is unreachable or when it produces
// zero documents.
package source
