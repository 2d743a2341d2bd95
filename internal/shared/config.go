package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables consulted by [ResolveConfig].
const (
	EnvConfig    = "GETLRC_CONFIG"
	EnvDataDir   = "GETLRC_DATA_DIR"
	EnvLRCLibURL = "GETLRC_LRCLIB_URL"
	EnvRateLimit = "GETLRC_RATE_LIMIT"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Lyrics   LyricsConfig   `toml:"lyrics"`
	Pipeline PipelineConfig `toml:"pipeline"`
	Storage  StorageConfig  `toml:"storage"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
}

// LyricsConfig contains LRCLIB client settings.
type LyricsConfig struct {
	BaseURL        string `toml:"base_url"`
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	RateLimit      int    `toml:"rate_limit"`
}

// Timeout returns the per-request timeout.
func (c LyricsConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// PipelineConfig tunes the orchestrator.
type PipelineConfig struct {
	CheckpointEvery int  `toml:"checkpoint_every"`
	ResumePaused    bool `toml:"resume_paused"`
}

// StorageConfig points at the directory holding the session file, cache database and logs.
type StorageConfig struct {
	DataDir string `toml:"data_dir"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	MaxOpenConns int `toml:"max_open_conns"`
	MaxIdleConns int `toml:"max_idle_conns"`
}

// LogConfig selects the minimum log level.
type LogConfig struct {
	Level string `toml:"level"`
}

// ParseLevel returns the configured [log.Level], defaulting to info when unset.
func (c LogConfig) ParseLevel() (log.Level, error) {
	if c.Level == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(c.Level)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.Level)
	}
	return lvl, nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ResolveConfig loads configuration in lookup order: the explicit path, $GETLRC_CONFIG, the user config file, then
// the embedded defaults. Environment overrides are applied last and the result is validated.
func ResolveConfig(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	explicit := path != ""
	if !explicit {
		path = ConfigFilePath()
	}

	var config *Config
	if _, err := os.Stat(path); err == nil {
		if config, err = LoadConfig(path); err != nil {
			return nil, err
		}
	} else if explicit {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
	} else {
		config = DefaultConfig()
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func applyEnvOverrides(c *Config) error {
	if v := os.Getenv(EnvDataDir); v != "" {
		c.Storage.DataDir = v
	}
	if v := os.Getenv(EnvLRCLibURL); v != "" {
		c.Lyrics.BaseURL = v
	}
	if v := os.Getenv(EnvRateLimit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvRateLimit, v)
		}
		c.Lyrics.RateLimit = n
	}
	c.Storage.DataDir = expandTilde(c.Storage.DataDir)
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Lyrics.BaseURL == "":
		return fmt.Errorf("%w: lyrics.base_url is empty", ErrInvalidConfig)
	case c.Lyrics.RateLimit <= 0:
		return fmt.Errorf("%w: lyrics.rate_limit must be positive, got %d", ErrInvalidConfig, c.Lyrics.RateLimit)
	case c.Lyrics.TimeoutSeconds <= 0:
		return fmt.Errorf("%w: lyrics.timeout_seconds must be positive, got %d", ErrInvalidConfig, c.Lyrics.TimeoutSeconds)
	case c.Pipeline.CheckpointEvery < 0:
		return fmt.Errorf("%w: pipeline.checkpoint_every must not be negative", ErrInvalidConfig)
	}
	_, err := c.Log.ParseLevel()
	return err
}

// ConfigFilePath returns $XDG_CONFIG_HOME/getlrc/config.toml, falling back to ~/.config.
func ConfigFilePath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName, "config.toml")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", AppName, "config.toml")
	}
	return filepath.Join(".", "config.toml")
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
