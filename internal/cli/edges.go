package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"branchforest.dev/branchforest/internal/ancestry"
	"branchforest.dev/branchforest/internal/cli/common"
	"branchforest.dev/branchforest/internal/runtime"
)

// newEdgesCmd creates the edges command
func newEdgesCmd() *cobra.Command {
	flags := &resolveFlags{}

	cmd := &cobra.Command{
		Use:   "edges",
		Short: "Print every branch with its parent branch",
		Long: `Print every local branch with its parent branch.

Each line is either "<branch>" for a root or "<branch> <parent>", in the
order git lists the branches. Branches whose lookups fail are printed as
roots and reported as warnings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, flags.override(cmd), func(ctx *runtime.Context) error {
				ui := newResolveUI(cmd)
				result, err := ctx.Resolver(ancestry.WithProgress(ui)).Resolve(cmd.Context())
				ui.Finish()
				if err != nil {
					return err
				}

				if text := result.Text(); text != "" {
					fmt.Fprintln(cmd.OutOrStdout(), text)
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
