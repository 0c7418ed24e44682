package nutrition

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfigFile = "config.json"

// Config aggregates the batch pipeline settings persisted to config.json.
type Config struct {
	// RawPath is the directory or zip archive holding the survey tables.
	RawPath string `json:"rawPath"`
	// DataDir is where generated artifacts are written.
	DataDir      string `json:"dataDir"`
	MergedFile   string `json:"mergedFile"`
	DatasetFile  string `json:"datasetFile"`
	ManifestFile string `json:"manifestFile"`
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.MergedFile == "" {
		c.MergedFile = "food_merged.csv"
	}
	if c.DatasetFile == "" {
		c.DatasetFile = "cleaned_food.csv"
	}
	if c.ManifestFile == "" {
		c.ManifestFile = "manifest.json"
	}
}

// MergedPath returns the location of the pre-clean merged table.
func (c Config) MergedPath() string { return filepath.Join(c.DataDir, c.MergedFile) }

// DatasetPath returns the location of the standardized dataset the service
// loads.
func (c Config) DatasetPath() string { return filepath.Join(c.DataDir, c.DatasetFile) }

// ManifestPath returns the location of the batch-run manifest.
func (c Config) ManifestPath() string { return filepath.Join(c.DataDir, c.ManifestFile) }

// LoadConfig loads configuration from the given path or the default
// config.json. A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = defaultConfigFile
	}
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// SaveConfig persists configuration to disk via temp file and rename.
func SaveConfig(path string, cfg Config) error {
	if path == "" {
		path = defaultConfigFile
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	cfg.ApplyDefaults()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
