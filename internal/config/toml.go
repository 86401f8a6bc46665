// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Library  LibraryConfig  `toml:"library"`
	Log      LogConfig      `toml:"log"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Source   *string `toml:"source"`
	URL      *string `toml:"url"`
	File     *string `toml:"file"`
	Timeout  *string `toml:"timeout"`
	Shuffle  *bool   `toml:"shuffle"`
	AutoNext *bool   `toml:"auto-next"`
	Caret    *bool   `toml:"caret"`
	Policy   *string `toml:"policy"`
}

// LibraryConfig maps sentence library settings.
type LibraryConfig struct {
	Path  *string `toml:"path"`
	Limit *int    `toml:"limit"`
}

// LogConfig maps diagnostic log settings.
type LogConfig struct {
	Level *string `toml:"level"`
	Path  *string `toml:"path"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Practice.Timeout != nil {
		if _, err := time.ParseDuration(*cfg.Practice.Timeout); err != nil {
			return FileConfig{}, fmt.Errorf("invalid practice.timeout: %w", err)
		}
	}
	return cfg, nil
}

// TimeoutValue returns the parsed practice timeout, nil when unset.
func (p PracticeConfig) TimeoutValue() *time.Duration {
	if p.Timeout == nil {
		return nil
	}
	d, err := time.ParseDuration(*p.Timeout)
	if err != nil {
		return nil
	}
	return &d
}
