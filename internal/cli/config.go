package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"branchforest.dev/branchforest/internal/cli/common"
	"branchforest.dev/branchforest/internal/config"
	"branchforest.dev/branchforest/internal/git"
	"branchforest.dev/branchforest/internal/project"
)

// newConfigCmd creates the config command
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Get and set repository configuration",
		Long: `Get and set repository configuration values.

Valid keys: ` + strings.Join(config.Keys(), ", ") + `

Examples:
  branchforest config get workers
  branchforest config set workers 4
  branchforest config set tieBreak lexical
  branchforest config set backend gogit`,
	}

	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())

	return cmd
}

// newConfigGetCmd creates the config get command
func newConfigGetCmd() *cobra.Command {
	var stored bool

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Print the effective value of a key, including environment overrides and defaults.

With --stored, print only the value saved in the repository config file,
or an empty line when the key is unset.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			repoRoot, err := configRepoRoot(cmd)
			if err != nil {
				return err
			}

			value, err := configValue(repoRoot, args[0], stored)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}

	cmd.Flags().BoolVar(&stored, "stored", false, "Print the value saved in the config file, ignoring environment and defaults")
	return cmd
}

// newConfigSetCmd creates the config set command
func newConfigSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Set a configuration value",
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			repoRoot, err := configRepoRoot(cmd)
			if err != nil {
				return err
			}

			splog, err := common.NewSplog(cmd)
			if err != nil {
				return err
			}
			defer splog.Close()

			key, value := args[0], args[1]
			if err := config.SetValue(repoRoot, key, value); err != nil {
				return fmt.Errorf("failed to set %s: %w", key, err)
			}
			splog.Info("Set %s to: %s", key, value)
			return nil
		},
	}

	return cmd
}

func configValue(repoRoot, key string, stored bool) (string, error) {
	if stored {
		return config.GetValue(repoRoot, key)
	}

	settings, err := config.Load(repoRoot)
	if err != nil {
		return "", err
	}
	return settings.Get(key)
}

// configRepoRoot returns the working tree root of the selected repository
func configRepoRoot(cmd *cobra.Command) (string, error) {
	selection, err := project.NewSelector(common.FlagValue(cmd, common.FlagRepo)).Select()
	if err != nil {
		return "", err
	}

	repoRoot, err := git.FindRepoRoot(selection.Path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", selection.Path, err)
	}
	return repoRoot, nil
}
