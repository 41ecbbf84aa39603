// Package git provides read-only access to the branch references of a repository.
//
// It exposes the three ancestry primitives the resolver needs:
//   - listing local branch names
//   - resolving the first parent commit of a branch tip
//   - listing local branches whose history contains a commit
//
// Two implementations are provided: CLIRefStore shells out to the git binary,
// GoGitRefStore reads the object database in-process with go-git.
//
// This package should be the only place where git commands are executed.
package git
