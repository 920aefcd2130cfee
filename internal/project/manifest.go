// Package project locates and loads the javelin.toml manifest that configures
// a session's toolchain and defaults.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest is a loaded javelin.toml plus where it was found.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the javelin.toml schema.
type Config struct {
	Toolchain ToolchainConfig `toml:"toolchain"`
	Session   SessionConfig   `toml:"session"`
	Serve     ServeConfig     `toml:"serve"`
}

// ToolchainConfig selects the external compiler and runner.
type ToolchainConfig struct {
	Compiler  string   `toml:"compiler"`
	Runner    string   `toml:"runner"`
	Classpath []string `toml:"classpath"`
}

// SessionConfig carries session defaults.
type SessionConfig struct {
	Imports []string `toml:"imports"`
}

// ServeConfig configures the remote console.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// FindJavelinToml walks up from startDir to locate javelin.toml.
func FindJavelinToml(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "javelin.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load walks up from startDir and decodes the nearest javelin.toml.
// The second return is false when no manifest exists, which is not an error.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindJavelinToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, false, fmt.Errorf("failed to decode %q: %w", path, err)
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}
