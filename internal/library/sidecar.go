package library

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/getlrc/internal/shared"
)

// SidecarWriter places .lrc files next to audio files.
type SidecarWriter struct{}

// NewSidecarWriter returns a SidecarWriter.
func NewSidecarWriter() *SidecarWriter {
	return &SidecarWriter{}
}

// Path returns the sidecar location for audio: the same path with a .lrc extension.
func (w *SidecarWriter) Path(audio string) string {
	return strings.TrimSuffix(audio, filepath.Ext(audio)) + ".lrc"
}

// Exists reports whether audio already has a sidecar.
func (w *SidecarWriter) Exists(audio string) bool {
	_, err := os.Lstat(w.Path(audio))
	return err == nil
}

// Write stores contents at target. The data is written and synced to a temp file in the same directory, then
// hard-linked into place, so target is either absent or complete. An existing target is never replaced and
// yields [shared.ErrSidecarConflict].
func (w *SidecarWriter) Write(target, contents string) error {
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp sidecar: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(contents); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write sidecar: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync sidecar: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close sidecar: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set sidecar permissions: %w", err)
	}

	if err := os.Link(tmpName, target); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", shared.ErrSidecarConflict, target)
		}
		return fmt.Errorf("failed to place sidecar: %w", err)
	}
	return nil
}
