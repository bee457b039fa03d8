package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand creates the differ command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "differ",
		Short: "Compare directory trees and text files",
		Long: `differ compares two directory trees by relative path and file content,
and shows line-level differences between two text files.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	AddGlobalFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(NewCompareCommand())
	rootCmd.AddCommand(NewDiffCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}
