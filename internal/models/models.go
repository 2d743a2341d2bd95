// package models defines the data model for the lyrics fetcher
package models

import (
	"path/filepath"
	"time"
)

// Metadata holds the tag fields used to look up lyrics for a track.
type Metadata struct {
	Artist   string
	Title    string
	Album    string
	Duration time.Duration
}

// Seconds returns the duration rounded down to whole seconds.
func (m Metadata) Seconds() int {
	return int(m.Duration / time.Second)
}

// Track is one audio file under consideration.
//
// Metadata is nil until it has been read and Outcome stays [OutcomeUnset] until the track is processed.
type Track struct {
	Path     string
	Metadata *Metadata
	Outcome  Outcome
}

// NewTrack creates an unprocessed track for path.
func NewTrack(path string) *Track {
	return &Track{Path: path}
}

// Filename returns the base name of the track's path.
func (t *Track) Filename() string {
	return filepath.Base(t.Path)
}

// SetOutcome records the outcome of processing. It returns false if an outcome was already assigned.
func (t *Track) SetOutcome(o Outcome) bool {
	if t.Outcome != OutcomeUnset {
		return false
	}
	t.Outcome = o
	return true
}
