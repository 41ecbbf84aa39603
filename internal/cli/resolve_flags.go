package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"branchforest.dev/branchforest/internal/ancestry"
	"branchforest.dev/branchforest/internal/cli/common"
	"branchforest.dev/branchforest/internal/config"
	"branchforest.dev/branchforest/internal/tui"
)

// resolveFlags are shared by the commands that resolve ancestry
type resolveFlags struct {
	workers     int
	tieBreak    string
	backend     string
	diagnostics bool
}

func addResolveFlags(cmd *cobra.Command, flags *resolveFlags) {
	cmd.Flags().IntVar(&flags.workers, "workers", 1, "Number of branches to resolve concurrently")
	cmd.Flags().StringVar(&flags.tieBreak, "tie-break", "native", "Parent choice when several branches qualify: native or lexical")
	cmd.Flags().StringVar(&flags.backend, "backend", config.BackendCLI, "Ref store backend: cli or gogit")
	cmd.Flags().BoolVar(&flags.diagnostics, "diagnostics", false, "Print why each root branch has no parent to stderr")
}

// override applies flags that were set explicitly on top of the repository settings
func (f *resolveFlags) override(cmd *cobra.Command) func(*config.Settings) error {
	return func(settings *config.Settings) error {
		changed := []struct {
			flag  string
			key   string
			value string
		}{
			{"workers", config.KeyWorkers, strconv.Itoa(f.workers)},
			{"tie-break", config.KeyTieBreak, f.tieBreak},
			{"backend", config.KeyBackend, f.backend},
		}
		for _, c := range changed {
			if !cmd.Flags().Changed(c.flag) {
				continue
			}
			if err := settings.Set(c.key, c.value); err != nil {
				return fmt.Errorf("invalid --%s: %w", c.flag, err)
			}
		}
		return nil
	}
}

// printDiagnostics writes one "branch: reason" line per root edge
func printDiagnostics(w io.Writer, diagnostics []ancestry.Diagnostic) {
	for _, d := range diagnostics {
		fmt.Fprintln(w, d.String())
	}
}

// newResolveUI shows a spinner on interactive stderr unless debug output would interleave with it
func newResolveUI(cmd *cobra.Command) tui.ResolveUI {
	if common.FlagValue(cmd, common.FlagDebug) == "true" {
		return tui.SimpleResolveUI{}
	}
	return tui.NewResolveUI(cmd.ErrOrStderr())
}
