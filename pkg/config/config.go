package config

import (
	"strings"

	"github.com/sdejongh/differ/pkg/compare"
	"github.com/sdejongh/differ/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Compare CompareConfig `yaml:"compare"`
	Diff    DiffConfig    `yaml:"diff"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
	Exclude []string      `yaml:"exclude"`
}

// CompareConfig holds directory comparison settings
type CompareConfig struct {
	Algorithm  string `yaml:"algorithm"`   // "sha256", "sha512", "sha1" or "md5"
	BufferSize int    `yaml:"buffer_size"` // Hashing read buffer in bytes
}

// DiffConfig holds text diff settings
type DiffConfig struct {
	IgnoreWhitespace bool `yaml:"ignore_whitespace"`
	IgnoreCase       bool `yaml:"ignore_case"`
	ContextLines     int  `yaml:"context_lines"` // Negative shows whole files
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format        string `yaml:"format"`         // "human" or "json"
	DiffFormat    string `yaml:"diff_format"`    // "unified" or "json"
	Color         bool   `yaml:"color"`          // Colorize terminal output
	Progress      bool   `yaml:"progress"`       // Show progress on terminals
	ShowIdentical bool   `yaml:"show_identical"` // List identical items
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Format     string `yaml:"format"`      // "json" or "text"
	Level      string `yaml:"level"`       // "debug", "info", "warn", "error"
	File       string `yaml:"file"`        // Log file path (empty = stderr)
	MaxSize    int64  `yaml:"max_size"`    // Rotate after this many bytes
	MaxBackups int    `yaml:"max_backups"` // Rotated files kept
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Compare: CompareConfig{
			Algorithm:  compare.DefaultAlgorithm,
			BufferSize: compare.DefaultBufferSize,
		},
		Diff: DiffConfig{
			IgnoreWhitespace: false,
			IgnoreCase:       false,
			ContextLines:     3,
		},
		Output: OutputConfig{
			Format:        "human",
			DiffFormat:    "unified",
			Color:         true,
			Progress:      true,
			ShowIdentical: false,
		},
		Logging: LoggingConfig{
			Enabled:    false,
			Format:     "text",
			Level:      "info",
			File:       "",
			MaxSize:    10 * 1024 * 1024,
			MaxBackups: 5,
		},
		Exclude: []string{},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := compare.GetAlgorithm(c.Compare.Algorithm); err != nil {
		return &models.ValidationError{
			Field:   "compare.algorithm",
			Message: "must be one of " + strings.Join(compare.Algorithms(), ", "),
		}
	}

	if c.Compare.BufferSize < compare.MinBufferSize {
		return &models.ValidationError{
			Field:   "compare.buffer_size",
			Message: "must be at least 4096 bytes",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validDiffFormats := map[string]bool{"unified": true, "json": true}
	if !validDiffFormats[c.Output.DiffFormat] {
		return &models.ValidationError{
			Field:   "output.diff_format",
			Message: "must be 'unified' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	if c.Logging.MaxSize < 0 {
		return &models.ValidationError{
			Field:   "logging.max_size",
			Message: "must not be negative",
		}
	}

	if c.Logging.MaxBackups < 0 {
		return &models.ValidationError{
			Field:   "logging.max_backups",
			Message: "must not be negative",
		}
	}

	return nil
}
