// Package job contains the two pipeline state machines: Ingestion drives
// fetch, chunk, embed and upsert into a build collection; IndexBuild tunes
// the collection, waits for readiness and swaps the serving alias onto it.
//
// Both jobs emit status records through a status.Reporter after every
// meaningful transition, end in exactly one terminal phase, and return a
// non-nil error exactly when that phase is Failed.
package job
