package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"branchforest.dev/branchforest/internal/ancestry"
	"branchforest.dev/branchforest/internal/cli/common"
	"branchforest.dev/branchforest/internal/git"
	"branchforest.dev/branchforest/internal/output"
	"branchforest.dev/branchforest/internal/runtime"
)

// newTreeCmd creates the tree command
func newTreeCmd() *cobra.Command {
	flags := &resolveFlags{}
	var short, reverse bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Render the branch forest as a tree",
		Long: `Render the branch forest as a tree.

Children are drawn above the branch they were built on. Branches whose
lookups failed are drawn as roots and marked. Branches sharing a tip can
name each other as parents; they are drawn after the roots and marked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, flags.override(cmd), func(ctx *runtime.Context) error {
				ui := newResolveUI(cmd)
				result, err := ctx.Resolver(ancestry.WithProgress(ui)).Resolve(cmd.Context())
				ui.Finish()
				if err != nil {
					return err
				}

				annotations := make(map[string]string)
				for _, d := range result.Degraded() {
					annotations[string(d.Branch)] = "lookup failed"
				}
				for _, branch := range result.Forest.Unrooted() {
					annotations[string(branch)] = "parent cycle"
				}

				out := cmd.OutOrStdout()
				renderer := output.NewForestRenderer(
					string(ctx.CurrentBranch(cmd.Context())),
					git.Strings(result.Forest.Branches()),
					git.Strings(result.Forest.Roots()),
					childrenOf(result.Forest),
					output.NewStyles(output.NewColorRenderer(out)),
				)
				for _, line := range renderer.Render(output.TreeRenderOptions{
					Short:       short,
					Reverse:     reverse,
					Annotations: annotations,
				}) {
					fmt.Fprintln(out, line)
				}

				if flags.diagnostics {
					printDiagnostics(cmd.ErrOrStderr(), result.Diagnostics)
				}
				return nil
			})
		},
	}

	addResolveFlags(cmd, flags)
	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print one line per branch")
	cmd.Flags().BoolVarP(&reverse, "reverse", "r", false, "Print roots at the top")
	return cmd
}

func childrenOf(forest ancestry.Forest) func(string) []string {
	return func(branchName string) []string {
		return git.Strings(forest.ChildrenOf(git.BranchName(branchName)))
	}
}
