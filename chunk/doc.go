// Package chunk turns document text into an ordered sequence of bounded,
// overlapping text chunks suitable for embedding.
//
// Splitting prefers paragraph boundaries, then sentence boundaries, then
// word boundaries, and only cuts mid-word when no boundary exists inside
// the size limit. Splitting is pure and deterministic for given inputs,
// which the deterministic point-ID scheme downstream depends on.
package chunk
