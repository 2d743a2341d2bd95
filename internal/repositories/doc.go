// Package repositories implements SQLite persistence for getlrc.
//
// Key Implementations:
//   - [NegativeCache] : fingerprints of tracks with no synced lyrics upstream, so later runs skip the network
//
// Entries are only ever inserted or replaced by a scan. Removal is an explicit user action ([NegativeCache.Clear]).
package repositories
