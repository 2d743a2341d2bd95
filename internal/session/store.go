// Package session persists the resumable [models.Session] as a single JSON file.
//
// Writes go to a temp file in the same directory which is fsynced and renamed over the canonical file, so a crash
// leaves either the previous or the new version on disk.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/getlrc/internal/models"
	"github.com/desertthunder/getlrc/internal/shared"
)

const (
	tempPattern = "session-*.json.tmp"

	// Up to staleSample pending files are checked on load; staleThreshold missing marks the session stale.
	staleSample    = 10
	staleThreshold = 5
)

// Store reads and writes the session file.
type Store struct {
	path   string
	logger *log.Logger
}

// NewStore returns a Store backed by path. A nil logger discards output.
func NewStore(path string, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Store{path: path, logger: logger}
}

// Path returns the canonical session file location.
func (s *Store) Path() string {
	return s.path
}

// Load returns the saved session for root, or nil when none exists.
//
// A session that belongs to another root, cannot be parsed, or whose pending files have mostly vanished is
// rejected with [shared.ErrSessionMismatch], [shared.ErrSessionCorrupt] or [shared.ErrSessionStale]. Callers treat
// any error as "no session". The file is left in place.
func (s *Store) Load(root string) (*models.Session, error) {
	sess, err := s.read()
	if err != nil || sess == nil {
		if err != nil {
			s.logger.Warn("ignoring session file", "path", s.path, "err", err)
		}
		return nil, err
	}

	if !sameRoot(sess.RootPath, root) {
		err := fmt.Errorf("%w: saved %s, requested %s", shared.ErrSessionMismatch, sess.RootPath, root)
		s.logger.Warn("ignoring session file", "path", s.path, "err", err)
		return nil, err
	}

	if err := checkStale(sess); err != nil {
		s.logger.Warn("ignoring session file", "path", s.path, "err", err)
		return nil, err
	}

	s.logger.Info("session loaded", "root", sess.RootPath, "pending", len(sess.PendingFiles), "processed", sess.Processed())
	return sess, nil
}

// Peek reads the session file without checking its root or staleness.
func (s *Store) Peek() (*models.Session, error) {
	return s.read()
}

func (s *Store) read() (*models.Session, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrSessionCorrupt, err)
	}
	if err := validate(&sess); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrSessionCorrupt, err)
	}
	return &sess, nil
}

func validate(sess *models.Session) error {
	if sess.RootPath == "" {
		return errors.New("missing root_path")
	}
	c := sess.Counts()
	if c.Downloaded < 0 || c.Cached < 0 || c.Existing < 0 || c.Failed < 0 {
		return errors.New("negative counter")
	}
	if sess.LogHistory == nil {
		sess.LogHistory = []models.LogEntry{}
	}
	sess.CapLog()
	return nil
}

func checkStale(sess *models.Session) error {
	if len(sess.PendingFiles) == 0 {
		return fmt.Errorf("%w: no pending files", shared.ErrSessionStale)
	}

	missing := 0
	for _, path := range sess.PendingFiles[:min(staleSample, len(sess.PendingFiles))] {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			missing++
		}
	}
	if missing >= staleThreshold {
		return fmt.Errorf("%w: %d of the first pending files are missing", shared.ErrSessionStale, missing)
	}
	return nil
}

// Save atomically replaces the session file with sess. The log history is capped before writing.
func (s *Store) Save(sess *models.Session) error {
	snap := sess.Clone()
	snap.CapLog()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return fmt.Errorf("failed to create temp session file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace session: %w", err)
	}
	syncDir(dir)

	s.logger.Info("session saved", "root", snap.RootPath, "pending", len(snap.PendingFiles), "processed", snap.Processed())
	return nil
}

// Delete removes the session file if it belongs to root, along with any leftover temp files. A missing file is
// not an error. A file saved for a different root is kept.
func (s *Store) Delete(root string) error {
	sess, err := s.read()
	if sess != nil && !sameRoot(sess.RootPath, root) {
		s.logger.Info("session belongs to another root, keeping it", "saved", sess.RootPath, "root", root)
		s.removeTemps()
		return nil
	}
	if err != nil && !errors.Is(err, shared.ErrSessionCorrupt) {
		return err
	}
	return s.Clear()
}

// Clear removes the session file and temp files regardless of root.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.removeTemps()
	s.logger.Info("session deleted", "path", s.path)
	return nil
}

func (s *Store) removeTemps() {
	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(s.path), tempPattern))
	for _, m := range matches {
		os.Remove(m)
	}
}

func sameRoot(a, b string) bool {
	return normalizeRoot(a) == normalizeRoot(b)
}

func normalizeRoot(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// syncDir fsyncs a directory so a rename is durable. Not every platform supports it; failures are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	d.Sync()
	d.Close()
}
