package library

import (
	"context"
	"io"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/getlrc/internal/shared"
)

// AudioExtensions lists the file extensions treated as audio, without the dot.
var AudioExtensions = []string{"flac", "mp3", "m4a", "aac", "opus", "ogg", "ape", "wav"}

// IsAudio reports whether path has an audio extension. Matching ignores case.
func IsAudio(path string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	return ext != "" && slices.Contains(AudioExtensions, strings.ToLower(ext))
}

// DirScanner lists audio files under a directory.
type DirScanner struct {
	logger *log.Logger
}

// NewDirScanner creates a scanner. A nil logger discards output.
func NewDirScanner(logger *log.Logger) *DirScanner {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &DirScanner{logger: logger}
}

// Scan walks root and returns every regular audio file, sorted lexically.
//
// Unreadable entries are logged and skipped. Cancelling ctx stops the walk and returns ctx.Err().
func (s *DirScanner) Scan(ctx context.Context, root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			s.logger.Warn("skipping unreadable path", "path", path, "err", err)
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && IsAudio(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)
	s.logger.Debug("scan finished", "root", root, "files", len(files))
	return files, nil
}
