package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdejongh/differ/internal/platform"
	"github.com/sdejongh/differ/pkg/config"
	"github.com/sdejongh/differ/pkg/logging"
	"github.com/sdejongh/differ/pkg/models"
	"github.com/sdejongh/differ/pkg/output"
)

// CompareFlags holds compare command flags
type CompareFlags struct {
	Left          string
	Right         string
	Algorithm     string
	Exclude       []string
	Output        string
	ShowIdentical bool
	Report        string
	ReportFormat  string
}

var compareFlags CompareFlags

// NewCompareCommand creates the compare command
func NewCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare two directory trees",
		Long: `Compare two directory trees by relative path and file content.

Every path found on either side is reported as identical, different,
left only, right only, or error. File content is compared with a
cryptographic digest.

Exit codes: 0 trees identical, 1 differences found, 2 failure, 3 cancelled.`,
		RunE: runCompare,
	}

	cmd.Flags().StringVarP(&compareFlags.Left, "left", "l", "", "left directory path (required)")
	cmd.Flags().StringVarP(&compareFlags.Right, "right", "r", "", "right directory path (required)")
	cmd.MarkFlagRequired("left")
	cmd.MarkFlagRequired("right")

	cmd.Flags().StringVar(&compareFlags.Algorithm, "algorithm", "", "digest: sha256, sha512, sha1, md5")
	cmd.Flags().StringSliceVar(&compareFlags.Exclude, "exclude", []string{}, "glob patterns to exclude")
	cmd.Flags().StringVarP(&compareFlags.Output, "output", "o", "", "output format: human, json")
	cmd.Flags().BoolVar(&compareFlags.ShowIdentical, "show-identical", false, "list identical items too")
	cmd.Flags().StringVar(&compareFlags.Report, "report", "", "write differences report to file")
	cmd.Flags().StringVar(&compareFlags.ReportFormat, "report-format", "human", "differences report format: human, json")

	return cmd
}

// applyCompareFlags overrides config values with compare flags
func applyCompareFlags(cmd *cobra.Command, cfg *config.Config) {
	if compareFlags.Algorithm != "" {
		cfg.Compare.Algorithm = compareFlags.Algorithm
	}
	if len(compareFlags.Exclude) > 0 {
		cfg.Exclude = compareFlags.Exclude
	}
	if compareFlags.Output != "" {
		cfg.Output.Format = compareFlags.Output
	}
	if cmd.Flags().Changed("show-identical") {
		cfg.Output.ShowIdentical = compareFlags.ShowIdentical
	}
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyCompareFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	formatter, err := output.NewFormatter(cfg.Output.Format, output.Options{
		ShowIdentical: cfg.Output.ShowIdentical,
		Color:         useColor(cfg, stdout),
	})
	if err != nil {
		return err
	}

	logger, err := createLogger(cfg, "compare", stderr)
	if err != nil {
		return err
	}
	defer logger.Close()

	eng, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}

	left := platform.NormalizePath(compareFlags.Left)
	right := platform.NormalizePath(compareFlags.Right)

	var progress models.ProgressFunc
	var line *output.StatusLine
	if showProgress(cfg, stderr) && formatter.Name() == "human" {
		line = output.NewStatusLine(stderr)
		progress = line.Report
	}

	result, err := eng.CompareDirectories(ctx, left, right, progress)
	if line != nil {
		line.Done()
	}
	if err != nil {
		logger.Error(ctx, "Directory comparison failed", err, logging.Fields{"kind": string(models.KindOf(err))})
		formatter.Error(errorWriter(formatter, stdout, stderr), err)
		return errorStatus(err)
	}

	summary := result.Summary()
	status := models.RunEqual
	if summary.HasDifferences() {
		status = models.RunDifferent
	}

	if !globalFlags.Quiet {
		if err := formatter.Comparison(stdout, result); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	if compareFlags.Report != "" {
		if err := output.WriteReport(result, compareFlags.Report, compareFlags.ReportFormat); err != nil {
			return fmt.Errorf("failed to write differences report: %w", err)
		}
	}

	logger.Info(ctx, "Comparison finished", logging.Fields{
		"status":    string(status),
		"total":     summary.TotalItems,
		"different": summary.DifferentItems,
		"errors":    summary.ErrorItems,
	})

	if status == models.RunEqual {
		return nil
	}
	return &ExitError{Status: status}
}
