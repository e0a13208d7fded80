// Package config loads the optional .noorc.yaml project file that
// customizes the CLI's stdlib search path and REPL history location
// (SPEC_FULL.md §1 "Configuration").
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the unmarshaled shape of .noorc.yaml.
type Config struct {
	// StdlibPath is a list of stdlib search directories. It is loaded but
	// not consulted by the type checker, which does not resolve `import`.
	StdlibPath []string `yaml:"stdlib_path"`
	// HistoryFile overrides where `noo repl` persists its liner history.
	HistoryFile string `yaml:"history_file"`
}

// defaultHistoryFile is used when neither .noorc.yaml nor $HOME resolve one.
const defaultHistoryFile = ".noo_history"

// Load searches dir and then $HOME for a .noorc.yaml, returning a default
// Config (no error) when neither exists. A malformed file that does exist is
// reported as an error rather than silently ignored.
func Load(dir string) (*Config, error) {
	for _, candidate := range searchPaths(dir) {
		data, err := os.ReadFile(candidate)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("config: reading %s: %w", candidate, err)
		}
		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", candidate, err)
		}
		cfg.applyDefaults()
		return &cfg, nil
	}

	cfg := &Config{}
	cfg.applyDefaults()
	return cfg, nil
}

func searchPaths(dir string) []string {
	var paths []string
	if dir != "" {
		paths = append(paths, filepath.Join(dir, ".noorc.yaml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".noorc.yaml"))
	}
	return paths
}

func (c *Config) applyDefaults() {
	if c.HistoryFile == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.HistoryFile = filepath.Join(home, defaultHistoryFile)
		} else {
			c.HistoryFile = defaultHistoryFile
		}
	}
}
