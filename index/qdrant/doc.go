// Package qdrant implements index.Store over the Qdrant REST API.
//
// The client is deliberately minimal: net/http plus encoding/json, cosine
// distance, and the handful of endpoints the pipeline needs (collection
// create, point upsert, alias actions, collection info, HNSW tuning).
// Alias switches use Qdrant's batched alias actions so delete and create
// land in a single atomic request.
package qdrant
