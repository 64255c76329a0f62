// Package config handles duet.toml run configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

const (
	DEFAULT_PATH = "duet.toml" // Configuration file used when none is named.

	MODE_SINGLE = "single" // Run one CPU, return the recovered value.
	MODE_DUAL   = "dual"   // Run paired CPUs, return values sent by the first.
)

// ErrMode is returned for an unknown run mode.
type ErrMode string

func (err ErrMode) Error() string {
	return fmt.Sprintf("unknown mode %q", string(err))
}

// Config is a duet run configuration.
type Config struct {
	Mode    string            `toml:"mode"`
	Program string            `toml:"program"`
	Verbose bool              `toml:"verbose"`
	Trace   string            `toml:"trace"`  // JSON trace log file, empty disables.
	Define  map[string]string `toml:"define"` // Assembler equates.
}

// Default returns the configuration used without a file.
func Default() *Config {
	return &Config{
		Mode:   MODE_DUAL,
		Define: map[string]string{},
	}
}

// Load parses a configuration file. A missing DEFAULT_PATH is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if path == DEFAULT_PATH && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	if cfg.Define == nil {
		cfg.Define = map[string]string{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration values.
func (cfg *Config) Validate() error {
	switch cfg.Mode {
	case MODE_SINGLE, MODE_DUAL:
		return nil
	default:
		return ErrMode(cfg.Mode)
	}
}
