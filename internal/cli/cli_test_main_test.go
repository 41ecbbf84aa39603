package cli_test

import (
	"bytes"
	"context"
	"testing"

	"branchforest.dev/branchforest/internal/cli"
)

type commandResult struct {
	stdout string
	stderr string
	err    error
}

// runCommand executes the root command in-process with the given arguments
func runCommand(t *testing.T, args ...string) commandResult {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd("test", "none", "unknown")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return commandResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}
