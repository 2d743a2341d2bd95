package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Lyrics.BaseURL != "https://lrclib.net/api" {
			t.Errorf("expected LRCLIB base url, got %s", config.Lyrics.BaseURL)
		}

		if config.Lyrics.RateLimit != 10 {
			t.Errorf("expected rate limit 10, got %d", config.Lyrics.RateLimit)
		}

		if config.Pipeline.CheckpointEvery != 25 {
			t.Errorf("expected checkpoint_every 25, got %d", config.Pipeline.CheckpointEvery)
		}

		if config.Pipeline.ResumePaused {
			t.Error("restored sessions should start running by default")
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "nested", "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if *config != *DefaultConfig() {
			t.Errorf("created config doesn't match default: %+v", config)
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig Keeps Defaults For Missing Keys", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[lyrics]
rate_limit = 3

[database]
max_open_conns = 20

[log]
level = "debug"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Lyrics.RateLimit != 3 {
			t.Errorf("expected rate limit 3, got %d", config.Lyrics.RateLimit)
		}
		if config.Database.MaxOpenConns != 20 {
			t.Errorf("expected max_open_conns 20, got %d", config.Database.MaxOpenConns)
		}
		if config.Lyrics.BaseURL != DefaultConfig().Lyrics.BaseURL {
			t.Errorf("missing base_url should fall back to default, got %q", config.Lyrics.BaseURL)
		}

		lvl, err := config.Log.ParseLevel()
		if err != nil || lvl != log.DebugLevel {
			t.Errorf("expected debug level, got %v (%v)", lvl, err)
		}
	})

	t.Run("ResolveConfig", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		t.Setenv(EnvConfig, "")
		t.Setenv(EnvDataDir, "/srv/getlrc")
		t.Setenv(EnvLRCLibURL, "http://127.0.0.1:9999/api")
		t.Setenv(EnvRateLimit, "4")

		config, err := ResolveConfig("")
		if err != nil {
			t.Fatalf("failed to resolve config: %v", err)
		}

		if config.Storage.DataDir != "/srv/getlrc" {
			t.Errorf("expected data dir override, got %s", config.Storage.DataDir)
		}
		if config.Lyrics.BaseURL != "http://127.0.0.1:9999/api" {
			t.Errorf("expected base url override, got %s", config.Lyrics.BaseURL)
		}
		if config.Lyrics.RateLimit != 4 {
			t.Errorf("expected rate limit override 4, got %d", config.Lyrics.RateLimit)
		}
	})

	t.Run("ResolveConfig Errors", func(t *testing.T) {
		tc := []struct {
			name string
			path string
			env  map[string]string
			want error
		}{
			{
				name: "explicit path missing",
				path: filepath.Join(t.TempDir(), "absent.toml"),
				want: ErrMissingConfig,
			},
			{
				name: "bad rate limit override",
				env:  map[string]string{EnvRateLimit: "fast"},
				want: ErrInvalidConfig,
			},
			{
				name: "zero rate limit",
				env:  map[string]string{EnvRateLimit: "0"},
				want: ErrInvalidConfig,
			},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				t.Setenv("XDG_CONFIG_HOME", t.TempDir())
				t.Setenv(EnvConfig, "")
				for k, v := range tt.env {
					t.Setenv(k, v)
				}

				if _, err := ResolveConfig(tt.path); !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
			})
		}
	})

	t.Run("Invalid Log Level", func(t *testing.T) {
		config := DefaultConfig()
		config.Log.Level = "chatty"

		if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
