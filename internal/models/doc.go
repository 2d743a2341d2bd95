// Package models defines the domain types shared by the getlrc pipeline.
//
// The package contains two categories of types:
//
// 1. Per-file values produced while walking a library
//   - [Track] : an audio file under consideration and its extracted [Metadata]
//   - [Outcome] : the closed set of results a processed track can end in
//   - [LookupResult] : what the remote lyrics service answered for a track
//
// 2. Resumable state owned by the orchestrator
//   - [Session] : pending work, outcome counters and a capped [LogEntry] history
//   - [Counts] : an immutable snapshot of the four counters sent to observers
//
// A [Session] is only ever mutated by the orchestrator; displays receive copies.
package models
