package library

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/getlrc/internal/shared"
	tu "github.com/desertthunder/getlrc/internal/testing"
)

const lyrics = "[00:12.00]First line\n[00:17.20]Second line\n"

func TestSidecarWriter(t *testing.T) {
	w := NewSidecarWriter()

	t.Run("Path", func(t *testing.T) {
		tc := map[string]string{
			"/music/a/01 Song.flac":  "/music/a/01 Song.lrc",
			"/music/b/track.MP3":     "/music/b/track.lrc",
			"/music/c/with.dots.m4a": "/music/c/with.dots.lrc",
			"/music/d/no-extension":  "/music/d/no-extension.lrc",
		}
		for audio, want := range tc {
			if got := w.Path(audio); got != want {
				t.Errorf("Path(%q) = %q, want %q", audio, got, want)
			}
		}
	})

	t.Run("Write And Exists", func(t *testing.T) {
		dir := t.TempDir()
		audio := filepath.Join(dir, "song.flac")
		touch(t, audio)

		if w.Exists(audio) {
			t.Fatal("sidecar should not exist yet")
		}

		if err := w.Write(w.Path(audio), lyrics); err != nil {
			t.Fatalf("failed to write sidecar: %v", err)
		}

		if !w.Exists(audio) {
			t.Error("sidecar should exist after write")
		}
		if got := tu.MustReadFile(t, w.Path(audio)); got != lyrics {
			t.Errorf("unexpected contents %q", got)
		}
	})

	t.Run("Never Overwrites", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "song.lrc")
		if err := os.WriteFile(target, []byte("user edited"), 0o644); err != nil {
			t.Fatal(err)
		}

		err := w.Write(target, lyrics)
		if !errors.Is(err, shared.ErrSidecarConflict) {
			t.Fatalf("expected ErrSidecarConflict, got %v", err)
		}
		if got := tu.MustReadFile(t, target); got != "user edited" {
			t.Errorf("existing sidecar was modified: %q", got)
		}
	})

	t.Run("Leaves No Temp Files", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "song.lrc")
		w.Write(target, lyrics)
		w.Write(target, lyrics)

		entries, _ := os.ReadDir(dir)
		for _, e := range entries {
			if strings.HasSuffix(e.Name(), ".tmp") {
				t.Errorf("temp file left behind: %s", e.Name())
			}
		}
		if len(entries) != 1 {
			t.Errorf("expected only the sidecar, got %d entries", len(entries))
		}
	})

	t.Run("Missing Directory", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "gone", "song.lrc")
		if err := w.Write(target, lyrics); err == nil {
			t.Error("expected error writing into a missing directory")
		}
	})
}
