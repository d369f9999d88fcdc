// Package config handles importer configuration loading.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/WowVeryLogin/gltf2mesh/src/logger"
	"github.com/WowVeryLogin/gltf2mesh/src/mesh"
	"gopkg.in/yaml.v3"
)

var ErrInvalidPolicy = errors.New("invalid import policy")

// Config holds all importer settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Import  ImportConfig  `yaml:"import"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// ImportConfig holds mesh assembly policies.
type ImportConfig struct {
	DuplicateMeshNames string `yaml:"duplicate_mesh_names"` // rename | overwrite
	MissingPosition    string `yaml:"missing_position"`     // empty | skip
}

// Default returns a Config with sensible default values.
func Default() *Config {
	file := logger.DefaultFileConfig("")
	return &Config{
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  file.MaxSizeMB,
			MaxBackups: file.MaxBackups,
			MaxAgeDays: file.MaxAgeDays,
			Compress:   file.Compress,
		},
		Import: ImportConfig{
			DuplicateMeshNames: "rename",
			MissingPosition:    "empty",
		},
	}
}

// LoadFile merges the YAML file at path over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := c.Import.DuplicatePolicy(); err != nil {
		return err
	}
	if _, err := c.Import.MissingPositionPolicy(); err != nil {
		return err
	}
	return nil
}

func (c ImportConfig) DuplicatePolicy() (mesh.DuplicatePolicy, error) {
	switch c.DuplicateMeshNames {
	case "", "rename":
		return mesh.DuplicateRename, nil
	case "overwrite":
		return mesh.DuplicateOverwrite, nil
	default:
		return 0, fmt.Errorf("%w: duplicate_mesh_names %q", ErrInvalidPolicy, c.DuplicateMeshNames)
	}
}

func (c ImportConfig) MissingPositionPolicy() (mesh.MissingPositionPolicy, error) {
	switch c.MissingPosition {
	case "", "empty":
		return mesh.MissingPositionEmpty, nil
	case "skip":
		return mesh.MissingPositionSkip, nil
	default:
		return 0, fmt.Errorf("%w: missing_position %q", ErrInvalidPolicy, c.MissingPosition)
	}
}

// AssemblerOptions translates the import policies into assembler options.
// Call Validate first; invalid values fall back to the defaults here.
func (c ImportConfig) AssemblerOptions() []mesh.Option {
	dup, _ := c.DuplicatePolicy()
	missing, _ := c.MissingPositionPolicy()
	return []mesh.Option{
		mesh.WithDuplicatePolicy(dup),
		mesh.WithMissingPositionPolicy(missing),
	}
}

// FileConfig returns the rotating log file settings.
func (c LoggingConfig) FileConfig() logger.FileConfig {
	return logger.FileConfig{
		Path:       c.LogFile,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}
