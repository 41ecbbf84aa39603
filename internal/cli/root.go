package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"branchforest.dev/branchforest/internal/cli/common"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "branchforest",
		Short: "Branchforest shows which branch each local branch was built on",
		Long: `Branchforest shows which branch each local branch was built on.

For every local branch it finds the first other branch containing the
first parent of the branch tip, and prints the resulting forest either
as "branch parent" lines or as a tree.`,
		Version:      fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String(common.FlagRepo, "", "Path to the git repository (defaults to the repository containing the working directory)")
	rootCmd.PersistentFlags().Bool(common.FlagDebug, false, "Write debug output to stderr")
	rootCmd.PersistentFlags().String(common.FlagLogFile, "", "Also write log output to this file")

	// Add subcommands
	rootCmd.AddCommand(newEdgesCmd())
	rootCmd.AddCommand(newTreeCmd())
	rootCmd.AddCommand(newParentCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}
