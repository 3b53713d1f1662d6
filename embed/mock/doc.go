// Package mock provides a test double for embed.Embedder with injectable
// behaviour and a deterministic default.
package mock
