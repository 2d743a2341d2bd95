// Package services talks to remote lyrics providers.
//
// # LRCLIB
//
// [LRCLibClient] looks up synced lyrics on LRCLIB (https://lrclib.net). A lookup resolves to one of three results:
//
//   - found: the response carried non-empty syncedLyrics
//   - not found: a 404, an instrumental track, or a record with no synced lyrics
//   - transient: anything else (transport errors, timeouts, unexpected statuses, malformed bodies)
//
// Only "not found" is safe to remember between runs. Transient failures are retried on the next run.
//
// # Query Normalization
//
// Tag values are cleaned before they are sent: leading track numbers and bracket characters are dropped,
// separators become spaces and case is folded. When the cleaned title misses with a 404 and removing a
// featured-artist clause changes it, the result carries the stripped title as an alternate. The client itself
// sends exactly one request per lookup; whether to try the alternate is up to the caller.
//
// Files without a known duration cannot use the exact /get endpoint, so they go through /search and take the
// first result that has synced lyrics.
package services
