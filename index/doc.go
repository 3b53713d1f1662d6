// Package index defines the vector index abstraction the pipeline writes
// to: collections of points, plus the alias indirection that lets a freshly
// built collection replace the serving one without downtime.
//
// Two backends implement the Store interface: index/qdrant speaks the
// Qdrant REST API, index/badger keeps everything in an embedded BadgerDB
// for local runs and tests.
package index
