// Package config handles TOML-based configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"seam/internal/log"
)

// Config holds all application configuration.
type Config struct {
	Player    string `toml:"player"`
	Timeout   string `toml:"timeout"`
	UserAgent string `toml:"user_agent"`
	History   bool   `toml:"history"`
	LogLevel  string `toml:"log_level"`
	LogJSON   bool   `toml:"log_json"`
	Listen    string `toml:"listen"`
	Debug     bool   `toml:"debug"`

	// Headers holds extra request headers per platform key, e.g. a Cookie for bilibili.
	Headers map[string]map[string]string `toml:"headers"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Player:   "mpv",
		Timeout:  "15s",
		History:  true,
		LogLevel: "info",
		Listen:   "127.0.0.1:8899",
		Headers:  map[string]map[string]string{},
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "seam"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "seam"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file and merges with defaults.
// If the config file doesn't exist, defaults are returned.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a specific config file and merges it with defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	validPlayers := map[string]bool{
		"mpv": true, "vlc": true, "iina": true, "celluloid": true,
	}
	if !validPlayers[strings.ToLower(c.Player)] {
		return fmt.Errorf("unsupported player %q (valid: mpv, vlc, iina, celluloid)", c.Player)
	}

	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", d)
	}

	if !log.ValidLevel(c.LogLevel) {
		return fmt.Errorf("unsupported log level %q", c.LogLevel)
	}

	if c.Listen == "" {
		return fmt.Errorf("listen address cannot be empty")
	}

	return nil
}

// TimeoutDuration returns the parsed request timeout. Validate must have passed.
func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// HeadersFor returns a copy of the configured headers for a platform.
func (c *Config) HeadersFor(platform string) map[string]string {
	out := make(map[string]string, len(c.Headers[platform]))
	for k, v := range c.Headers[platform] {
		out[k] = v
	}
	return out
}

// HistoryPath returns the path to the lookup-log database.
func HistoryPath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "seam", "history.db"), nil
}
