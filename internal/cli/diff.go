package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sdejongh/differ/internal/platform"
	"github.com/sdejongh/differ/pkg/config"
	"github.com/sdejongh/differ/pkg/logging"
	"github.com/sdejongh/differ/pkg/models"
	"github.com/sdejongh/differ/pkg/output"
)

// DiffFlags holds diff command flags
type DiffFlags struct {
	Left             string
	Right            string
	IgnoreWhitespace bool
	IgnoreCase       bool
	ContextLines     int
	Output           string
}

var diffFlags DiffFlags

// NewDiffCommand creates the diff command
func NewDiffCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show line differences between two text files",
		Long: `Compute a line-level diff between two text files.

Files larger than 10 MiB, binary files, and inputs whose line counts
multiply to more than 2,000,000 are rejected; use an external diff tool
for those.

Exit codes: 0 no differences, 1 differences found, 2 failure, 3 cancelled.`,
		RunE: runDiff,
	}

	cmd.Flags().StringVarP(&diffFlags.Left, "left", "l", "", "left file path (required)")
	cmd.Flags().StringVarP(&diffFlags.Right, "right", "r", "", "right file path (required)")
	cmd.MarkFlagRequired("left")
	cmd.MarkFlagRequired("right")

	cmd.Flags().BoolVarP(&diffFlags.IgnoreWhitespace, "ignore-whitespace", "w", false, "ignore all whitespace when matching lines")
	cmd.Flags().BoolVarP(&diffFlags.IgnoreCase, "ignore-case", "i", false, "ignore case when matching lines")
	cmd.Flags().IntVarP(&diffFlags.ContextLines, "unified", "U", 3, "context lines around changes (negative shows whole files)")
	cmd.Flags().StringVarP(&diffFlags.Output, "output", "o", "", "output format: unified, json")

	return cmd
}

// applyDiffFlags overrides config values with flags the user set
func applyDiffFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("ignore-whitespace") {
		cfg.Diff.IgnoreWhitespace = diffFlags.IgnoreWhitespace
	}
	if cmd.Flags().Changed("ignore-case") {
		cfg.Diff.IgnoreCase = diffFlags.IgnoreCase
	}
	if cmd.Flags().Changed("unified") {
		cfg.Diff.ContextLines = diffFlags.ContextLines
	}
	if diffFlags.Output != "" {
		cfg.Output.DiffFormat = diffFlags.Output
	}
}

func runDiff(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyDiffFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	formatter, err := output.NewFormatter(cfg.Output.DiffFormat, output.Options{
		Color:        useColor(cfg, stdout),
		ContextLines: cfg.Diff.ContextLines,
	})
	if err != nil {
		return err
	}

	logger, err := createLogger(cfg, "diff", stderr)
	if err != nil {
		return err
	}
	defer logger.Close()

	eng, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}

	req := models.TextDiffRequest{
		LeftFilePath:     platform.NormalizePath(diffFlags.Left),
		RightFilePath:    platform.NormalizePath(diffFlags.Right),
		IgnoreWhitespace: cfg.Diff.IgnoreWhitespace,
		IgnoreCase:       cfg.Diff.IgnoreCase,
		ContextLines:     cfg.Diff.ContextLines,
	}

	var progress models.FractionFunc
	var bar *output.DiffBar
	if showProgress(cfg, stderr) && formatter.Name() == "human" {
		bar = output.NewDiffBar(stderr)
		progress = bar.Report
	}

	result, err := eng.ComputeTextDiff(ctx, req, progress)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		logger.Error(ctx, "Text diff failed", err, logging.Fields{"kind": string(models.KindOf(err))})
		formatter.Error(errorWriter(formatter, stdout, stderr), err)
		return errorStatus(err)
	}

	status := models.RunEqual
	if result.HasDifferences() {
		status = models.RunDifferent
	}

	if !globalFlags.Quiet {
		if err := formatter.Diff(stdout, result); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	if status == models.RunEqual {
		return nil
	}
	return &ExitError{Status: status}
}

// errorWriter sends JSON errors to stdout so scripts get one document,
// human errors to stderr
func errorWriter(formatter output.Formatter, stdout, stderr io.Writer) io.Writer {
	if formatter.Name() == "json" {
		return stdout
	}
	return stderr
}
