// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config discovers and loads application configuration from
// argot.toml or argot.yaml files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/yeetrun/argot/pkg/fileutil"
	"gopkg.in/yaml.v3"
)

// Names are the file names Find looks for, in order of preference.
var Names = []string{"argot.toml", "argot.yaml", "argot.yml"}

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type Config struct {
	// Color is one of auto, always or never. Empty means auto.
	Color string `toml:"color,omitempty" yaml:"color,omitempty"`
	Debug bool   `toml:"debug,omitempty" yaml:"debug,omitempty"`
	// StrictQuotes makes command strings use POSIX shell quoting and
	// reject unterminated quotes.
	StrictQuotes           bool `toml:"strict_quotes,omitempty" yaml:"strict_quotes,omitempty"`
	RejectDuplicateOptions bool `toml:"reject_duplicate_options,omitempty" yaml:"reject_duplicate_options,omitempty"`
	// Aliases maps a command name to the command string it expands to,
	// e.g. "greet" = "hello --loudly".
	Aliases map[string]string `toml:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// Location pairs a loaded config with the file it came from.
type Location struct {
	Path   string
	Config *Config
}

// Find walks from startDir up to the filesystem root and returns the first
// config file found. It returns an error wrapping os.ErrNotExist when there
// is none.
func Find(startDir string) (string, error) {
	dir := filepath.Clean(startDir)
	for {
		for _, name := range Names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			} else if !os.IsNotExist(err) {
				return "", err
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("no config file found from %s: %w", startDir, os.ErrNotExist)
}

// LoadFromDir finds and loads the config nearest to dir. It returns nil and
// no error when there is no config file.
func LoadFromDir(dir string) (*Location, error) {
	path, err := Find(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Location{Path: path, Config: cfg}, nil
}

// Load decodes the file at path. The format is chosen by extension: .yaml
// and .yml are YAML, anything else is TOML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	switch c.Color {
	case "", ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color %q: want auto, always or never", c.Color)
	}
	for name, expansion := range c.Aliases {
		if name == "" || strings.HasPrefix(name, "-") || strings.ContainsAny(name, " \t") {
			return fmt.Errorf("invalid alias name %q", name)
		}
		if strings.TrimSpace(expansion) == "" {
			return fmt.Errorf("alias %q has an empty expansion", name)
		}
	}
	return nil
}

// AliasNames returns the alias names in sorted order.
func (c *Config) AliasNames() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.Aliases))
	for name := range c.Aliases {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Save atomically writes the config to path in the format implied by its
// extension.
func Save(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	var buf bytes.Buffer
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	default:
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return fileutil.WriteFile(path, buf.Bytes(), 0o644, true)
}
