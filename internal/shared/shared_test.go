package shared

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNormalizeTrackKey(t *testing.T) {
	tc := []struct {
		name   string
		title  string
		artist string
		want   string
	}{
		{
			name:   "basic normalization",
			title:  "Song Title",
			artist: "Artist Name",
			want:   `["song title","artist name"]`,
		},
		{
			name:   "extra whitespace",
			title:  "  Song   Title  ",
			artist: "  Artist \t Name  ",
			want:   `["song title","artist name"]`,
		},
		{
			name:   "mixed case",
			title:  "SoNg TiTlE",
			artist: "ArTiSt NaMe",
			want:   `["song title","artist name"]`,
		},
		{
			name:   "separator inside a field",
			title:  "A|B",
			artist: `C"D`,
			want:   `["a|b","c\"d"]`,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTrackKey(tt.title, tt.artist)
			if got != tt.want {
				t.Errorf("NormalizeTrackKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTrackFingerprint(t *testing.T) {
	a := TrackFingerprint("Song Title", "Artist")
	b := TrackFingerprint("  song   title ", "ARTIST")

	if a != b {
		t.Errorf("equivalent keys should share a fingerprint: %s != %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
	if a == TrackFingerprint("Song Title", "Other Artist") {
		t.Error("different artists should not collide")
	}

	t.Run("Field Boundaries", func(t *testing.T) {
		pairs := [][2][2]string{
			{{"a|b", "c"}, {"a", "b|c"}},
			{{"a", ""}, {"", "a"}},
			{{`a","b`, "c"}, {"a", `b","c`}},
		}
		for _, p := range pairs {
			if TrackFingerprint(p[0][0], p[0][1]) == TrackFingerprint(p[1][0], p[1][1]) {
				t.Errorf("title %q artist %q and title %q artist %q share a fingerprint", p[0][0], p[0][1], p[1][0], p[1][1])
			}
		}
	})
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "getlrc.log")

	logger, f, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create file logger: %v", err)
	}
	logger.Info("hello", "track", "song.flac")
	f.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	if !strings.Contains(string(data), "song.flac") {
		t.Errorf("expected log line in file, got %q", data)
	}
}

func TestPaths(t *testing.T) {
	t.Run("ResolvePaths", func(t *testing.T) {
		base := t.TempDir()
		p, err := ResolvePaths(base)
		if err != nil {
			t.Fatalf("failed to resolve paths: %v", err)
		}

		if p.Session != filepath.Join(base, "getlrc", "session.json") {
			t.Errorf("unexpected session path %s", p.Session)
		}
		if p.CacheDB != filepath.Join(base, "getlrc", "negative_cache.db") {
			t.Errorf("unexpected cache path %s", p.CacheDB)
		}
		if p.LogFile != filepath.Join(base, "getlrc", "logs", "getlrc.log") {
			t.Errorf("unexpected log path %s", p.LogFile)
		}
	})

	t.Run("XDG Fallback", func(t *testing.T) {
		xdg := t.TempDir()
		t.Setenv("XDG_DATA_HOME", xdg)

		p, err := ResolvePaths("")
		if err != nil {
			t.Fatalf("failed to resolve paths: %v", err)
		}
		if p.DataDir != filepath.Join(xdg, "getlrc") {
			t.Errorf("expected data dir under XDG_DATA_HOME, got %s", p.DataDir)
		}
	})

	t.Run("Ensure", func(t *testing.T) {
		p, _ := ResolvePaths(t.TempDir())
		if err := p.Ensure(); err != nil {
			t.Fatalf("failed to ensure paths: %v", err)
		}

		entries, _ := os.ReadDir(p.DataDir)
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), ".probe-") {
				t.Errorf("probe file left behind: %s", e.Name())
			}
		}
	})

	t.Run("Ensure Unwritable", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(blocker, nil, 0o644); err != nil {
			t.Fatal(err)
		}

		p, _ := ResolvePaths(blocker)
		if err := p.Ensure(); !errors.Is(err, ErrDataDirUnwritable) {
			t.Errorf("expected ErrDataDirUnwritable, got %v", err)
		}
	})

	t.Run("EnsureTargetDir", func(t *testing.T) {
		dir := t.TempDir()
		got, err := EnsureTargetDir(dir + "/./")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != filepath.Clean(dir) {
			t.Errorf("expected cleaned path %s, got %s", dir, got)
		}

		file := filepath.Join(dir, "song.flac")
		os.WriteFile(file, nil, 0o644)
		if _, err := EnsureTargetDir(file); !errors.Is(err, ErrNotADirectory) {
			t.Errorf("expected ErrNotADirectory for a file, got %v", err)
		}
		if _, err := EnsureTargetDir(filepath.Join(dir, "missing")); !errors.Is(err, ErrNotADirectory) {
			t.Errorf("expected ErrNotADirectory for a missing path, got %v", err)
		}
	})
}
