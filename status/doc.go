// Package status reports job progress to operators and external watchers.
//
// Every report goes to the structured log. Two optional sinks can be
// attached at construction time: a JSON file that always holds the latest
// status record, and a remote Sink for anything pushing records off-host.
// Sink failures never fail the job; reporting degrades to log-only.
package status
