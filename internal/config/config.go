// Package config loads the optional maps.yaml build configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mekelius/maps-sub000/internal/compiler_errors"
)

// FileName is the configuration file looked up next to the source.
const FileName = "maps.yaml"

// Emit modes.
const (
	EmitIR      = "ir"
	EmitBitcode = "bitcode"
	EmitNone    = "none"
)

// Config represents the top-level maps.yaml configuration.
type Config struct {
	// Output is the path the backend writes to. Empty means the source file
	// name with the extension of the emit mode.
	Output string `yaml:"output,omitempty"`

	// Emit selects the backend output: "ir", "bitcode" or "none".
	Emit string `yaml:"emit,omitempty"`

	// DumpAST prints the resolved program after compilation.
	DumpAST bool `yaml:"dump_ast,omitempty"`

	// Color is "auto", "always" or "never" for diagnostics.
	Color string `yaml:"color,omitempty"`

	// LogLevel is "debug", "info", "warn" or "error".
	LogLevel string `yaml:"log_level,omitempty"`

	// Operators overrides the precedence of builtin binary operators:
	//
	//   operators:
	//     "+": 55
	//     "<>": 45
	Operators map[string]int `yaml:"operators,omitempty"`
}

// Default returns the configuration used when no maps.yaml exists.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads and parses a maps.yaml file. A missing file yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses maps.yaml content from bytes.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.setDefaults()
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FindConfig looks for maps.yaml in dir and its parents. It returns an empty
// path when there is none.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (c *Config) setDefaults() {
	if c.Emit == "" {
		c.Emit = EmitIR
	}
	if c.Color == "" {
		c.Color = string(compiler_errors.ColorAuto)
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	if c.Operators == nil {
		c.Operators = make(map[string]int)
	}
}

func (c *Config) validate(path string) error {
	switch c.Emit {
	case EmitIR, EmitBitcode, EmitNone:
	default:
		return fmt.Errorf("%s: emit must be one of %s, %s, %s; got %q", path, EmitIR, EmitBitcode, EmitNone, c.Emit)
	}

	switch compiler_errors.ColorMode(c.Color) {
	case compiler_errors.ColorAuto, compiler_errors.ColorAlways, compiler_errors.ColorNever:
	default:
		return fmt.Errorf("%s: color must be auto, always or never; got %q", path, c.Color)
	}

	if _, err := parseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	for operator, precedence := range c.Operators {
		if precedence <= 0 {
			return fmt.Errorf("%s: operators[%q]: precedence must be positive, got %d", path, operator, precedence)
		}
	}

	return nil
}

// OutputPath picks the backend output file for source.
func (c *Config) OutputPath(source string) string {
	if c.Output != "" {
		return c.Output
	}

	ext := ".ll"
	if c.Emit == EmitBitcode {
		ext = ".bc"
	}
	return strings.TrimSuffix(source, filepath.Ext(source)) + ext
}

func (c *Config) ColorMode() compiler_errors.ColorMode {
	return compiler_errors.ColorMode(c.Color)
}

// Level is the slog level named by LogLevel, warn if it does not parse.
func (c *Config) Level() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

func parseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}
