// Package embed defines the embedding service abstraction used by the
// ingestion pipeline, plus the retry and batching policy wrapped around it.
//
// The Embedder interface is intentionally small: turn texts into vectors.
// Provider adapters live in subpackages (embed/openai for OpenAI-compatible
// APIs, embed/mock for tests). Client adds the pipeline-facing behaviour:
// classified retry with exponential backoff and zero-vector padding for
// blank inputs so output length always matches input length.
package embed
