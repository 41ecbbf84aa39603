// Package common provides shared helper functions for CLI commands.
package common

import (
	"os"

	"github.com/spf13/cobra"

	"branchforest.dev/branchforest/internal/config"
	"branchforest.dev/branchforest/internal/git"
	"branchforest.dev/branchforest/internal/output"
	"branchforest.dev/branchforest/internal/runtime"
)

// Persistent flag names defined on the root command
const (
	FlagRepo    = "repo"
	FlagDebug   = "debug"
	FlagLogFile = "log-file"
)

// Run is a helper that provides a runtime context to a command's execution function.
// override applies the command's own flags on top of the repository settings.
func Run(cmd *cobra.Command, override func(*config.Settings) error, fn func(ctx *runtime.Context) error) error {
	splog, err := NewSplog(cmd)
	if err != nil {
		return err
	}
	defer splog.Close()

	ctx, err := runtime.NewContext(runtime.Options{
		RepoFlag: FlagValue(cmd, FlagRepo),
		Splog:    splog,
		Override: override,
	})
	if err != nil {
		return err
	}
	return fn(ctx)
}

// NewSplog creates the logger for a command from the persistent flags.
// Console output goes to the command's error stream.
func NewSplog(cmd *cobra.Command) (*output.Splog, error) {
	debug := FlagValue(cmd, FlagDebug) == "true" || os.Getenv("DEBUG") != ""
	return output.NewSplogWithConfig(cmd.ErrOrStderr(), FlagValue(cmd, FlagLogFile), debug)
}

// FlagValue returns the value of a local or inherited flag, or "" when it is not defined
func FlagValue(cmd *cobra.Command, name string) string {
	if flag := cmd.Flag(name); flag != nil {
		return flag.Value.String()
	}
	return ""
}

// CompleteBranches is a helper for cobra.ValidArgsFunction and RegisterFlagCompletionFunc
// that returns all branch names in the repository.
func CompleteBranches(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	var branches []git.BranchName
	err := Run(cmd, nil, func(ctx *runtime.Context) error {
		var err error
		branches, err = ctx.Store.ListBranches(cmd.Context())
		return err
	})
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return git.Strings(branches), cobra.ShellCompDirectiveNoFileComp
}
