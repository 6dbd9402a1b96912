// Package config loads the terminal browser's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/handsomefox/flixora/internal/client"
	"github.com/handsomefox/flixora/internal/suggestion"
	"github.com/handsomefox/flixora/internal/tmdb"
)

const appName = "flixora"

type Config struct {
	ServerURL   string      `toml:"server_url"`
	ImageBase   string      `toml:"image_base"`
	LogFile     string      `toml:"log_file"`
	LogLevel    string      `toml:"log_level"`
	Suggestions Suggestions `toml:"suggestions"`
	Carousel    Carousel    `toml:"carousel"`
}

type Suggestions struct {
	// Limit caps how many suggestions are listed; 0 lists all of them.
	Limit int `toml:"limit"`
}

type Carousel struct {
	Enabled bool `toml:"enabled"`
}

func Default() Config {
	return Config{
		ServerURL:   client.DefaultBaseURL,
		ImageBase:   tmdb.DefaultImageBase,
		LogFile:     filepath.Join(stateDir(), appName+".log"),
		LogLevel:    "info",
		Suggestions: Suggestions{Limit: suggestion.Limit},
		Carousel:    Carousel{Enabled: true},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/flixora/config.toml, or the platform
// equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			home = "."
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName, "config.toml")
}

func stateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, appName)
	}
	return os.TempDir()
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	c.ServerURL = strings.TrimRight(strings.TrimSpace(c.ServerURL), "/")
	if c.ServerURL == "" {
		return errors.New("config: server_url must not be empty")
	}
	if !strings.HasPrefix(c.ServerURL, "http://") && !strings.HasPrefix(c.ServerURL, "https://") {
		return fmt.Errorf("config: server_url %q must be an http(s) URL", c.ServerURL)
	}
	if c.Suggestions.Limit < 0 {
		return errors.New("config: suggestions.limit must not be negative")
	}
	if strings.TrimSpace(c.ImageBase) == "" {
		c.ImageBase = tmdb.DefaultImageBase
	}
	return nil
}

// SetServerURL replaces server_url and validates the result.
func (c *Config) SetServerURL(serverURL string) error {
	c.ServerURL = serverURL
	return c.validate()
}

// Save writes cfg to path, creating the directory.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
