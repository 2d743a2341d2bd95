package models

import (
	"slices"
	"time"
)

// MaxLogHistory caps [Session.LogHistory]; the oldest entries are evicted first.
const MaxLogHistory = 500

// LogEntry is one processed file as shown in the activity log.
type LogEntry struct {
	Filename string  `json:"filename"`
	Status   Outcome `json:"status"`
}

// Line formats the entry for display, e.g. "[✓] song.flac".
func (e LogEntry) Line() string {
	return e.Status.Symbol() + " " + e.Filename
}

// Counts is a snapshot of the four outcome counters.
type Counts struct {
	Downloaded int `json:"downloaded"`
	Cached     int `json:"cached"`
	Existing   int `json:"existing"`
	Failed     int `json:"failed"`
}

// Processed returns the number of files that have an outcome.
func (c Counts) Processed() int {
	return c.Downloaded + c.Cached + c.Existing + c.Failed
}

// Add increments the counter that o belongs to.
//
// NotFound and Error share the failed counter.
func (c *Counts) Add(o Outcome) {
	switch o {
	case OutcomeDownloaded:
		c.Downloaded++
	case OutcomeCachedMiss:
		c.Cached++
	case OutcomeAlreadyExists:
		c.Existing++
	case OutcomeNotFound, OutcomeError:
		c.Failed++
	}
}

// Session is the resumable unit of work for one root directory.
//
// Invariant: DownloadedCount + CachedCount + ExistingCount + FailedCount equals the number of files already
// removed from PendingFiles.
type Session struct {
	ID              string     `json:"session_id,omitempty"`
	RootPath        string     `json:"root_path"`
	PendingFiles    []string   `json:"pending_files"`
	DownloadedCount int        `json:"downloaded_count"`
	CachedCount     int        `json:"cached_count"`
	ExistingCount   int        `json:"existing_count"`
	FailedCount     int        `json:"failed_count"`
	LogHistory      []LogEntry `json:"log_history"`
	CreatedAt       time.Time  `json:"created_at,omitzero"`
	UpdatedAt       time.Time  `json:"updated_at,omitzero"`
}

// NewSession creates a session for root with the given pending files in discovery order.
func NewSession(id, root string, pending []string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:           id,
		RootPath:     root,
		PendingFiles: slices.Clone(pending),
		LogHistory:   []LogEntry{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Counts returns a snapshot of the session counters.
func (s *Session) Counts() Counts {
	return Counts{
		Downloaded: s.DownloadedCount,
		Cached:     s.CachedCount,
		Existing:   s.ExistingCount,
		Failed:     s.FailedCount,
	}
}

func (s *Session) setCounts(c Counts) {
	s.DownloadedCount = c.Downloaded
	s.CachedCount = c.Cached
	s.ExistingCount = c.Existing
	s.FailedCount = c.Failed
}

// Processed returns the number of files with a recorded outcome.
func (s *Session) Processed() int {
	return s.Counts().Processed()
}

// Total returns processed plus pending files.
func (s *Session) Total() int {
	return s.Processed() + len(s.PendingFiles)
}

// Done reports whether no pending work remains.
func (s *Session) Done() bool {
	return len(s.PendingFiles) == 0
}

// Percent returns progress in [0, 1]. It is exactly 1 when nothing is pending.
func (s *Session) Percent() float64 {
	if s.Done() {
		return 1
	}
	return float64(s.Processed()) / float64(s.Total())
}

// Next removes and returns the first pending file.
func (s *Session) Next() (string, bool) {
	if len(s.PendingFiles) == 0 {
		return "", false
	}
	path := s.PendingFiles[0]
	s.PendingFiles = s.PendingFiles[1:]
	return path, true
}

// Requeue puts path back at the head of the pending list.
//
// Used when a file was popped but never reached an outcome.
func (s *Session) Requeue(path string) {
	s.PendingFiles = append([]string{path}, s.PendingFiles...)
}

// Record applies an outcome for filename: the matching counter is incremented and an entry appended to the capped log.
func (s *Session) Record(filename string, o Outcome) LogEntry {
	c := s.Counts()
	c.Add(o)
	s.setCounts(c)

	entry := LogEntry{Filename: filename, Status: o}
	s.LogHistory = append(s.LogHistory, entry)
	s.CapLog()
	s.UpdatedAt = time.Now().UTC()
	return entry
}

// CapLog trims LogHistory to the most recent [MaxLogHistory] entries.
func (s *Session) CapLog() {
	if n := len(s.LogHistory); n > MaxLogHistory {
		s.LogHistory = slices.Clone(s.LogHistory[n-MaxLogHistory:])
	}
}

// Clone returns a deep copy safe to hand to another goroutine.
func (s *Session) Clone() *Session {
	c := *s
	c.PendingFiles = slices.Clone(s.PendingFiles)
	c.LogHistory = slices.Clone(s.LogHistory)
	return &c
}
