package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"branchforest.dev/branchforest/internal/cli/common"
	"branchforest.dev/branchforest/internal/git"
	"branchforest.dev/branchforest/internal/runtime"
)

// newParentCmd creates the parent command
func newParentCmd() *cobra.Command {
	flags := &resolveFlags{}

	cmd := &cobra.Command{
		Use:   "parent [branch]",
		Short: "Show the parent of a branch",
		Long: `Show the parent of a branch.

Prints the name of the branch the given branch was built on, or nothing
when it is a root. Defaults to the current branch.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: common.CompleteBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, flags.override(cmd), func(ctx *runtime.Context) error {
				var branch git.BranchName
				if len(args) > 0 {
					branch = git.BranchName(args[0])
				} else {
					branch = ctx.CurrentBranch(cmd.Context())
					if branch == "" {
						return fmt.Errorf("not on a branch; pass a branch name")
					}
				}

				result, err := ctx.Resolver().ResolveBranch(cmd.Context(), branch)
				if err != nil {
					return err
				}

				if parent, _ := result.Forest.ParentOf(branch); parent != "" {
					fmt.Fprintln(cmd.OutOrStdout(), parent)
				}
				if flags.diagnostics {
					printDiagnostics(cmd.ErrOrStderr(), result.Diagnostics)
				}
				return nil
			})
		},
	}

	addResolveFlags(cmd, flags)
	return cmd
}
