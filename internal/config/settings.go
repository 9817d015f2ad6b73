package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/danieljhkim/treediff/internal/logger"
)

// ErrInvalidSettings is returned when a settings value is out of range.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings holds user preferences shared by all commands.
type Settings struct {
	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level" json:"log_level"`

	// LogFormat is text or json
	LogFormat string `yaml:"log_format" json:"log_format"`

	// CycleSafeMoves holds back a move while its new parent is inside its
	// own subtree. Required for real directory hierarchies.
	CycleSafeMoves bool `yaml:"cycle_safe_moves" json:"cycle_safe_moves"`

	// SkipInconsistent drops nodes that an index diff keeps under a deleted
	// ancestor instead of failing it.
	SkipInconsistent bool `yaml:"skip_inconsistent" json:"skip_inconsistent"`
}

// Default returns the built-in settings.
func Default() *Settings {
	return &Settings{
		LogLevel:       "warn",
		LogFormat:      "text",
		CycleSafeMoves: true,
	}
}

// Load returns the defaults overlaid with the YAML file at path and then
// with the environment. A missing file is not an error.
func Load(path string) (*Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.UnmarshalWithOptions(data, s, yaml.DisallowUnknownField()); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	s.ApplyEnv()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// ApplyEnv overrides settings from the environment:
// - TREEDIFF_LOG_LEVEL
// - TREEDIFF_LOG_FORMAT
func (s *Settings) ApplyEnv() {
	if v := os.Getenv("TREEDIFF_LOG_LEVEL"); v != "" {
		s.LogLevel = v
	}
	if v := os.Getenv("TREEDIFF_LOG_FORMAT"); v != "" {
		s.LogFormat = v
	}
}

// Validate checks that every value is usable.
func (s *Settings) Validate() error {
	if _, err := logger.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %w", ErrInvalidSettings, err)
	}
	switch s.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidSettings, s.LogFormat)
	}
	return nil
}

// Save writes s as YAML to path, creating parent directories as needed.
func (s *Settings) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}
