package library

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestIsAudio(t *testing.T) {
	tc := []struct {
		path string
		want bool
	}{
		{"song.flac", true},
		{"song.MP3", true},
		{"a/b/song.Opus", true},
		{"song.wav", true},
		{"song.lrc", false},
		{"cover.jpg", false},
		{"flac", false},
		{".mp3", true},
	}

	for _, tt := range tc {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsAudio(tt.path); got != tt.want {
				t.Errorf("IsAudio(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestDirScanner(t *testing.T) {
	t.Run("Finds Audio In Sorted Order", func(t *testing.T) {
		root := t.TempDir()
		for _, p := range []string{
			"b/02 Two.mp3",
			"a/01 One.flac",
			"a/01 One.lrc",
			"a/cover.jpg",
			"c/d/deep.M4A",
			"notes.txt",
		} {
			touch(t, filepath.Join(root, p))
		}

		files, err := NewDirScanner(nil).Scan(context.Background(), root)
		if err != nil {
			t.Fatalf("scan failed: %v", err)
		}

		want := []string{
			filepath.Join(root, "a/01 One.flac"),
			filepath.Join(root, "b/02 Two.mp3"),
			filepath.Join(root, "c/d/deep.M4A"),
		}
		if !slices.Equal(files, want) {
			t.Errorf("expected %v, got %v", want, files)
		}
	})

	t.Run("Skips Directories Named Like Audio", func(t *testing.T) {
		root := t.TempDir()
		if err := os.Mkdir(filepath.Join(root, "album.flac"), 0o755); err != nil {
			t.Fatal(err)
		}
		touch(t, filepath.Join(root, "album.flac", "track.ogg"))

		files, _ := NewDirScanner(nil).Scan(context.Background(), root)
		if len(files) != 1 || filepath.Base(files[0]) != "track.ogg" {
			t.Errorf("expected only track.ogg, got %v", files)
		}
	})

	t.Run("Empty Directory", func(t *testing.T) {
		files, err := NewDirScanner(nil).Scan(context.Background(), t.TempDir())
		if err != nil || len(files) != 0 {
			t.Errorf("expected no files, got %v, %v", files, err)
		}
	})

	t.Run("Cancelled", func(t *testing.T) {
		root := t.TempDir()
		touch(t, filepath.Join(root, "a.flac"))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := NewDirScanner(nil).Scan(ctx, root); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
