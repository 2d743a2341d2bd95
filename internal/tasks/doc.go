// Package tasks runs the lyrics fetching pipeline with real-time progress reporting.
//
// # Lifecycle
//
// An [Orchestrator] moves through Idle → Running ⇄ Paused and ends in Completed or Cancelled:
//
//  1. Restore or scan: a saved session for the same root is resumed; otherwise the root is scanned and a new
//     session built from the file list.
//  2. Process: files are taken from the head of the pending list one at a time. Each ends in exactly one
//     [models.Outcome]:
//     - sidecar present → already_exists
//     - no usable tags → error
//     - negative cache hit → cached_miss, without a remote call
//     - remote found → sidecar written → downloaded
//     - remote not found → one more lookup if an alternate title was offered, then cached → not_found
//     - transient failure → error, not cached so a later run tries again
//  3. Control: pause, resume and quit intents are sampled only between files, so a file in flight always
//     finishes. Pausing saves the session before blocking.
//  4. Finish: when nothing is pending the saved session is deleted and the run completes.
//
// Cancelling the context while waiting for a permit puts the file back at the head of the pending list and
// saves, so the next run starts with it.
//
// # Progress Reporting
//
// The [EventBus] delivers [ProgressUpdate] values in order without ever blocking the publisher. Updates carry
// copies of the counters and log entries, never the session itself.
//
// # Rate Limiting
//
// [RateLimiter] spaces remote lookups so that no rolling one-second window sees more than the configured
// number. Every remote call, including an alternate-title lookup, takes its own permit. Cache hits and
// existing sidecars never take one.
package tasks
