package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for tidy. The core only ever
// reads it; persistence belongs to `tidy config init` and the user's editor.
type Config struct {
	BaseDir              string            `toml:"base_dir"`
	LogDir               string            `toml:"log_dir"`
	Recurse              bool              `toml:"recurse"`
	CollisionPolicy      string            `toml:"collision_policy"`        // "suffix" (default) or "skip"
	LargeFileThresholdMB int64             `toml:"large_file_threshold_mb"` // default 100
	Ignore               []string          `toml:"ignore"`
	Rules                map[string]string `toml:"rules"` // extension -> category overrides
	Database             DatabaseConfig    `toml:"database"`
	Watch                WatchConfig       `toml:"watch"`
}

// DatabaseConfig represents configuration for the move journal.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// WatchConfig holds filesystem-watcher settings.
type WatchConfig struct {
	DebounceSeconds int `toml:"debounce_seconds"` // default 2
}

// NewConfig creates a new Config with defaults rooted at baseDir.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir:              baseDir,
		LogDir:               filepath.Join(baseDir, "log"),
		CollisionPolicy:      "suffix",
		LargeFileThresholdMB: 100,
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "data"),
		},
		Watch: WatchConfig{DebounceSeconds: 2},
	}
}

// TrashDir is where duplicate soft-deletes are parked.
func (c *Config) TrashDir() string {
	return filepath.Join(c.BaseDir, "trash")
}

// LargeFileThresholdBytes converts the configured threshold to bytes.
func (c *Config) LargeFileThresholdBytes() int64 {
	return c.LargeFileThresholdMB * 1024 * 1024
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
// This is an internal helper and should not be exported.
func writeToFile(path string, cfg *Config) error {
	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
