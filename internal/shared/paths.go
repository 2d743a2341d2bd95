package shared

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds the resolved on-disk locations used by a run.
type Paths struct {
	DataDir string // <data>/getlrc
	Session string
	CacheDB string
	LogFile string
}

// ResolvePaths derives [Paths] from the configured data dir. An empty base falls back to $XDG_DATA_HOME, then
// ~/.local/share.
func ResolvePaths(base string) (Paths, error) {
	if base == "" {
		var err error
		if base, err = defaultDataHome(); err != nil {
			return Paths{}, err
		}
	}

	abs, err := filepath.Abs(base)
	if err != nil {
		return Paths{}, fmt.Errorf("failed to resolve data dir: %w", err)
	}

	dir := filepath.Join(abs, AppName)
	return Paths{
		DataDir: dir,
		Session: filepath.Join(dir, "session.json"),
		CacheDB: filepath.Join(dir, "negative_cache.db"),
		LogFile: filepath.Join(dir, "logs", AppName+".log"),
	}, nil
}

func defaultDataHome() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return xdg, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: no home directory: %v", ErrDataDirUnwritable, err)
	}
	return filepath.Join(home, ".local", "share"), nil
}

// Ensure creates the data and log directories and proves the data dir is writable with a probe file.
func (p Paths) Ensure() error {
	for _, dir := range []string{p.DataDir, filepath.Dir(p.LogFile)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %v", ErrDataDirUnwritable, err)
		}
	}

	probe, err := os.CreateTemp(p.DataDir, ".probe-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDataDirUnwritable, err)
	}
	name := probe.Name()
	probe.Close()
	return os.Remove(name)
}

// EnsureTargetDir resolves dir to an absolute, cleaned path and checks that it is a directory.
func EnsureTargetDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidArgument, dir)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrNotADirectory, abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotADirectory, abs)
	}
	return filepath.Clean(abs), nil
}
