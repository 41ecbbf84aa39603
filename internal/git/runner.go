package git

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	bferrors "branchforest.dev/branchforest/internal/errors"
)

// DefaultCommandTimeout is the default timeout for git commands
const DefaultCommandTimeout = 5 * time.Minute

// Logger receives debug traces of executed commands
type Logger interface {
	Debug(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}

// CommandRunner handles execution of git commands
type CommandRunner struct {
	workingDir string
	timeout    time.Duration
	log        Logger
}

// NewCommandRunner creates a new CommandRunner
func NewCommandRunner(workingDir string) *CommandRunner {
	return &CommandRunner{
		workingDir: workingDir,
		timeout:    DefaultCommandTimeout,
		log:        nopLogger{},
	}
}

// WithTimeout sets the timeout applied when the caller's context has no deadline.
// A non-positive value keeps DefaultCommandTimeout.
func (r *CommandRunner) WithTimeout(timeout time.Duration) *CommandRunner {
	if timeout > 0 {
		r.timeout = timeout
	}
	return r
}

// WithLogger sets the logger used for command traces
func (r *CommandRunner) WithLogger(log Logger) *CommandRunner {
	if log != nil {
		r.log = log
	}
	return r
}

// WorkingDir returns the directory commands run in
func (r *CommandRunner) WorkingDir() string {
	return r.workingDir
}

// Run executes a git command with the given context and returns the trimmed output
func (r *CommandRunner) Run(ctx context.Context, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// If no timeout/deadline is set in the context, add the default one
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	cmd := exec.CommandContext(ctx, "git", args...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}
	// Never block on credential or pager prompts
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0", "GIT_PAGER=cat")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	r.log.Debug("git %s (%s) in %s", strings.Join(args, " "), time.Since(start).Round(time.Millisecond), r.workingDir)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", bferrors.NewGitCommandError("git", args, stdout.String(), stderr.String(), ctxErr)
		}
		return "", bferrors.NewGitCommandError("git", args, stdout.String(), stderr.String(), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// RunLines executes a git command and returns non-empty output lines
func (r *CommandRunner) RunLines(ctx context.Context, args ...string) ([]string, error) {
	output, err := r.Run(ctx, args...)
	if err != nil {
		return nil, err
	}
	return splitLines(output), nil
}

func splitLines(output string) []string {
	lines := []string{}
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
