package git

import (
	"context"
	"fmt"
	"os"
	"strings"

	bferrors "branchforest.dev/branchforest/internal/errors"
)

// branchRefFormat prints "feature/x" for refs/heads/feature/x even when a tag
// of the same name would make %(refname:short) ambiguous
const branchRefFormat = "--format=%(refname:lstrip=2)"

// CLIRefStore answers ancestry queries by shelling out to the git binary
type CLIRefStore struct {
	runner *CommandRunner
}

// NewCLIRefStore creates a CLIRefStore running commands through runner
func NewCLIRefStore(runner *CommandRunner) *CLIRefStore {
	return &CLIRefStore{runner: runner}
}

// OpenCLIRefStore creates a CLIRefStore for the repository at path with default settings
func OpenCLIRefStore(path string) *CLIRefStore {
	return NewCLIRefStore(NewCommandRunner(path))
}

// Path returns the repository path the store reads from
func (s *CLIRefStore) Path() string {
	return s.runner.WorkingDir()
}

// ListBranches returns local branch names in git's refname order.
// Any failure is reported as a RepositoryAccessError.
func (s *CLIRefStore) ListBranches(ctx context.Context) ([]BranchName, error) {
	path := s.runner.WorkingDir()
	if err := checkRepoDir(path); err != nil {
		return nil, bferrors.NewRepositoryAccessError(path, err)
	}

	lines, err := s.runner.RunLines(ctx, "for-each-ref", "refs/heads", branchRefFormat)
	if err != nil {
		return nil, bferrors.NewRepositoryAccessError(path, err)
	}

	branches := make([]BranchName, 0, len(lines))
	for _, line := range lines {
		branches = append(branches, BranchName(line))
	}
	return branches, nil
}

// ParentOf returns the first parent of the branch tip.
// Returns ErrNoParentCommit when the tip is a root commit.
func (s *CLIRefStore) ParentOf(ctx context.Context, branch BranchName) (CommitID, error) {
	output, err := s.runner.Run(ctx, "log", "-1", "--format=%P", "refs/heads/"+string(branch), "--")
	if err != nil {
		return "", fmt.Errorf("failed to read parents of %s: %w", branch, err)
	}

	// %P lists parents separated by spaces, first parent first
	parents := strings.Fields(output)
	if len(parents) == 0 {
		return "", bferrors.ErrNoParentCommit
	}
	return CommitID(parents[0]), nil
}

// BranchesContaining returns local branches whose history contains commit,
// in git's native output order.
func (s *CLIRefStore) BranchesContaining(ctx context.Context, commit CommitID) ([]BranchName, error) {
	lines, err := s.runner.RunLines(ctx, "for-each-ref", "refs/heads", "--contains", string(commit), branchRefFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches containing %s: %w", commit, err)
	}

	branches := make([]BranchName, 0, len(lines))
	for _, line := range lines {
		branches = append(branches, BranchName(line))
	}
	return branches, nil
}

// checkRepoDir fails fast on paths that cannot be a repository working directory
func checkRepoDir(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

// CurrentBranch returns the branch checked out in the working tree.
// Returns an error when HEAD is detached.
func (s *CLIRefStore) CurrentBranch(ctx context.Context) (BranchName, error) {
	output, err := s.runner.Run(ctx, "symbolic-ref", "--quiet", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to read current branch: %w", err)
	}
	return BranchName(output), nil
}
