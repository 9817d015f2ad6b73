// Package config manages treediff settings and their filesystem location.
//
// Settings are resolved in layers: built-in defaults, then the YAML config
// file, then environment variables, then command line flags (applied by the
// cli package). The default root is ~/.treediff/ holding config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains the filesystem paths used by treediff.
type Paths struct {
	// Root is the base directory for treediff data (default: ~/.treediff)
	Root string

	// Config is the path to the global config file
	Config string
}

// DefaultPaths returns the default paths for treediff.
// Paths can be overridden with environment variables:
// - TREEDIFF_ROOT: Override the root directory
func DefaultPaths() (*Paths, error) {
	root := os.Getenv("TREEDIFF_ROOT")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".treediff")
	}

	return &Paths{
		Root:   root,
		Config: filepath.Join(root, "config.yaml"),
	}, nil
}

// EnsureRoot creates the root directory if it doesn't exist.
func (p *Paths) EnsureRoot() error {
	if err := os.MkdirAll(p.Root, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", p.Root, err)
	}
	return nil
}
