// Package config provides YAML-based configuration loading for Hostdesk.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level Hostdesk configuration, loaded from config.yaml.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	DataDir string        `yaml:"data_dir"`
	Houses  []HouseConfig `yaml:"houses"`
	Watch   WatchConfig   `yaml:"watch"`
}

// ServerConfig holds connection settings for the property backend.
type ServerConfig struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured request timeout as a duration.
func (s ServerConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// HouseConfig labels one of the operator's houses.
type HouseConfig struct {
	Code  string `yaml:"code"`
	Label string `yaml:"label"`
}

// WatchConfig controls the headless watcher daemon.
type WatchConfig struct {
	Schedule      string `yaml:"schedule"`       // 5-field cron expression
	NotifyCommand string `yaml:"notify_command"` // shell template, e.g. "notify-send '{{.Title}}' '{{.Body}}'"
	Sync          bool   `yaml:"sync"` // run platform syncs each cycle
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// LoadDefault loads the config from the default location
// (~/.hostdesk/config.yaml), falling back to pure defaults when the file
// does not exist.
func LoadDefault() (*Config, error) {
	path := filepath.Join(DefaultDataDir(), "config.yaml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Parse(nil)
	}
	return Load(path)
}

// DefaultDataDir returns the directory holding the session file, history
// database, log file, and config.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hostdesk"
	}
	return filepath.Join(home, ".hostdesk")
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Server.URL == "" {
		c.Server.URL = "http://127.0.0.1:8000"
	}
	c.Server.URL = strings.TrimRight(c.Server.URL, "/")
	if c.Server.TimeoutSeconds == 0 {
		c.Server.TimeoutSeconds = 30
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir()
	}
	if len(c.Houses) == 0 {
		c.Houses = []HouseConfig{
			{Code: "193", Label: "193 VBR"},
			{Code: "195", Label: "195 VBR"},
		}
	}
	for i := range c.Houses {
		if c.Houses[i].Label == "" {
			c.Houses[i].Label = c.Houses[i].Code
		}
	}
	if c.Watch.Schedule == "" {
		c.Watch.Schedule = "*/5 * * * *"
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if !strings.HasPrefix(c.Server.URL, "http://") && !strings.HasPrefix(c.Server.URL, "https://") {
		errs = append(errs, fmt.Sprintf("server.url %q must start with http:// or https://", c.Server.URL))
	}
	if c.Server.TimeoutSeconds < 0 {
		errs = append(errs, "server.timeout_seconds must not be negative")
	}
	seen := map[string]bool{}
	for i, h := range c.Houses {
		if h.Code == "" {
			errs = append(errs, fmt.Sprintf("houses[%d].code is required", i))
			continue
		}
		if seen[h.Code] {
			errs = append(errs, fmt.Sprintf("houses[%d].code %q is duplicated", i, h.Code))
		}
		seen[h.Code] = true
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// SessionPath returns the path of the persisted session file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.DataDir, "session.json")
}

// HistoryPath returns the path of the local send-history database.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

// LogPath returns the path of the structured log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "hostdesk.log")
}
