package cli

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/sdejongh/differ/internal/platform"
	"github.com/sdejongh/differ/pkg/config"
	"github.com/sdejongh/differ/pkg/engine"
	"github.com/sdejongh/differ/pkg/logging"
	"github.com/sdejongh/differ/pkg/models"
	"github.com/sdejongh/differ/pkg/output"
	"github.com/sdejongh/differ/pkg/storage"
)

// ExitError carries the process exit status out of a command
type ExitError struct {
	Status models.RunStatus
	Err    error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Status)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit code
func (e *ExitError) ExitCode() int {
	return e.Status.ExitCode()
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(globalFlags.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyGlobalFlags(cfg)
	return cfg, nil
}

// applyGlobalFlags overrides config values with global command-line flags
func applyGlobalFlags(cfg *config.Config) {
	if globalFlags.LogFile != "" {
		cfg.Logging.Enabled = true
		cfg.Logging.File = globalFlags.LogFile
	}
	if globalFlags.LogFormat != "" {
		cfg.Logging.Format = globalFlags.LogFormat
	}
	if globalFlags.LogLevel != "" {
		cfg.Logging.Level = globalFlags.LogLevel
	}

	// Disable progress in quiet mode
	if globalFlags.Quiet {
		cfg.Output.Progress = false
	}

	if globalFlags.NoColor {
		cfg.Output.Color = false
	}
}

// createLogger creates a logger based on configuration. Every run is tagged
// with a fresh run_id.
func createLogger(cfg *config.Config, command string, stderr io.Writer) (logging.Logger, error) {
	format := logging.ParseFormat(cfg.Logging.Format)
	level := logging.ParseLevel(cfg.Logging.Level)

	var logger logging.Logger
	switch {
	case cfg.Logging.Enabled && cfg.Logging.File != "":
		fileLogger, err := logging.NewFileLogger(logging.FileLoggerConfig{
			Path:       platform.ExpandHome(cfg.Logging.File),
			Format:     format,
			Level:      level,
			MaxSize:    cfg.Logging.MaxSize,
			MaxBackups: cfg.Logging.MaxBackups,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		logger = fileLogger

	case cfg.Logging.Enabled || globalFlags.Verbose:
		if globalFlags.Verbose && globalFlags.LogLevel == "" {
			level = logging.DebugLevel
		}
		logger = logging.NewStreamLogger(stderr, format, level)

	default:
		return logging.NewNullLogger(), nil
	}

	return logger.WithFields(logging.Fields{
		"run_id":  uuid.NewString(),
		"command": command,
	}), nil
}

// newEngine builds the engine from configuration
func newEngine(cfg *config.Config, logger logging.Logger) (*engine.Engine, error) {
	return engine.New(storage.NewLocal(), logger, engine.Options{
		Algorithm:  cfg.Compare.Algorithm,
		BufferSize: cfg.Compare.BufferSize,
		Exclude:    cfg.Exclude,
	})
}

// useColor reports whether styled output goes to w
func useColor(cfg *config.Config, w io.Writer) bool {
	return cfg.Output.Color && output.IsTerminal(w)
}

// showProgress reports whether progress is drawn on w
func showProgress(cfg *config.Config, w io.Writer) bool {
	return cfg.Output.Progress && !globalFlags.Quiet && output.IsTerminal(w)
}

// errorStatus maps err onto the failed or cancelled exit status
func errorStatus(err error) *ExitError {
	return &ExitError{Status: models.StatusFromError(err), Err: err}
}
