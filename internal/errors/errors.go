// Package errors provides sentinel errors and custom error types for branchforest.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	// ErrRepositoryAccess indicates the repository could not be read at all
	ErrRepositoryAccess = errors.New("repository access failed")

	// ErrNoParentCommit indicates that a branch tip is a root commit
	ErrNoParentCommit = errors.New("branch tip has no parent commit")

	// ErrNoContainingBranch indicates that no other branch contains the tip's parent commit
	ErrNoContainingBranch = errors.New("no other branch contains the parent commit")

	// ErrLookupFailure indicates that a per-branch git lookup itself failed
	ErrLookupFailure = errors.New("ancestry lookup failed")

	// ErrBranchNotFound indicates that a requested branch is not a local branch
	ErrBranchNotFound = errors.New("branch not found")

	// ErrNoProjectSelected indicates that no repository path was supplied or found
	ErrNoProjectSelected = errors.New("no project selected")
)

// RepositoryAccessError represents a fatal failure to read the repository.
// Detail carries the diagnostic text of the underlying tool, verbatim.
type RepositoryAccessError struct {
	Path   string
	Detail string
	Err    error
}

func (e *RepositoryAccessError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("cannot read repository %s: %s", e.Path, e.Detail)
	}
	if e.Err != nil {
		return fmt.Sprintf("cannot read repository %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("cannot read repository %s", e.Path)
}

// Is returns true if the target error is ErrRepositoryAccess
func (e *RepositoryAccessError) Is(target error) bool {
	return target == ErrRepositoryAccess
}

func (e *RepositoryAccessError) Unwrap() error {
	return e.Err
}

// NewRepositoryAccessError creates a new RepositoryAccessError.
// When err is a GitCommandError its stderr becomes the detail text.
func NewRepositoryAccessError(path string, err error) *RepositoryAccessError {
	detail := ""
	var gitErr *GitCommandError
	if errors.As(err, &gitErr) {
		detail = strings.TrimSpace(gitErr.Stderr)
	}
	return &RepositoryAccessError{
		Path:   path,
		Detail: detail,
		Err:    err,
	}
}

// LookupError represents a failed parent or containment lookup for one branch
type LookupError struct {
	BranchName string
	Op         string // "parent" or "contains"
	Err        error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s lookup for branch %s failed: %v", e.Op, e.BranchName, e.Err)
}

// Is returns true if the target error is ErrLookupFailure
func (e *LookupError) Is(target error) bool {
	return target == ErrLookupFailure
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// NewLookupError creates a new LookupError
func NewLookupError(branchName, op string, err error) *LookupError {
	return &LookupError{
		BranchName: branchName,
		Op:         op,
		Err:        err,
	}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
