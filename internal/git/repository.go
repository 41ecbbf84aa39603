package git

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	bferrors "branchforest.dev/branchforest/internal/errors"
)

// GoGitRefStore answers ancestry queries in-process using go-git.
// Branches are reported sorted by name, matching git's refname order.
type GoGitRefStore struct {
	// go-git object storage is not safe for concurrent readers
	mu   sync.Mutex
	repo *gogit.Repository
	path string
}

// OpenGoGitRefStore opens the repository at path.
// Failure to open is reported as a RepositoryAccessError.
func OpenGoGitRefStore(path string) (*GoGitRefStore, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, bferrors.NewRepositoryAccessError(path, fmt.Errorf("failed to resolve path: %w", err))
	}

	repo, err := gogit.PlainOpenWithOptions(absPath, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, bferrors.NewRepositoryAccessError(path, fmt.Errorf("failed to open repository: %w", err))
	}

	return &GoGitRefStore{repo: repo, path: absPath}, nil
}

// Path returns the repository path the store reads from
func (s *GoGitRefStore) Path() string {
	return s.path
}

// ListBranches returns all local branch names
func (s *GoGitRefStore) ListBranches(ctx context.Context) ([]BranchName, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, bferrors.NewRepositoryAccessError(s.path, err)
	}

	refs, err := s.branchRefs()
	if err != nil {
		return nil, bferrors.NewRepositoryAccessError(s.path, err)
	}

	names := make([]BranchName, 0, len(refs))
	for _, ref := range refs {
		names = append(names, BranchName(ref.Name().Short()))
	}
	return names, nil
}

// ParentOf returns the first parent of the branch tip.
// Returns ErrNoParentCommit when the tip is a root commit.
func (s *GoGitRefStore) ParentOf(ctx context.Context, branch BranchName) (CommitID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	ref, err := s.repo.Reference(plumbing.NewBranchReferenceName(string(branch)), true)
	if err != nil {
		return "", fmt.Errorf("failed to resolve branch %s: %w", branch, err)
	}

	commit, err := s.repo.CommitObject(ref.Hash())
	if err != nil {
		return "", fmt.Errorf("failed to get tip commit of %s: %w", branch, err)
	}

	if commit.NumParents() == 0 {
		return "", bferrors.ErrNoParentCommit
	}
	return CommitID(commit.ParentHashes[0].String()), nil
}

// BranchesContaining returns local branches whose tip is commit or descends from it
func (s *GoGitRefStore) BranchesContaining(ctx context.Context, commit CommitID) ([]BranchName, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, err := s.repo.CommitObject(plumbing.NewHash(string(commit)))
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s: %w", commit, err)
	}

	refs, err := s.branchRefs()
	if err != nil {
		return nil, err
	}

	var containing []BranchName
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		contains, err := s.contains(target, ref.Hash())
		if err != nil {
			return nil, fmt.Errorf("failed to check %s: %w", ref.Name().Short(), err)
		}
		if contains {
			containing = append(containing, BranchName(ref.Name().Short()))
		}
	}
	return containing, nil
}

// CurrentBranch returns the branch checked out in the working tree.
// Returns an error when HEAD is detached or unborn.
func (s *GoGitRefStore) CurrentBranch(ctx context.Context) (BranchName, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	head, err := s.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is detached at %s", head.Hash())
	}
	return BranchName(head.Name().Short()), nil
}

// contains reports whether target is the commit at tip or one of its ancestors
func (s *GoGitRefStore) contains(target *object.Commit, tip plumbing.Hash) (bool, error) {
	// If they're the same, the branch contains the commit
	if target.Hash == tip {
		return true, nil
	}

	tipCommit, err := s.repo.CommitObject(tip)
	if err != nil {
		return false, err
	}
	return target.IsAncestor(tipCommit)
}

// branchRefs returns local branch references sorted by name
func (s *GoGitRefStore) branchRefs() ([]*plumbing.Reference, error) {
	iter, err := s.repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("failed to get branches: %w", err)
	}

	var refs []*plumbing.Reference
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name().IsBranch() {
			refs = append(refs, ref)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate branches: %w", err)
	}

	sort.Slice(refs, func(i, j int) bool {
		return refs[i].Name() < refs[j].Name()
	})
	return refs, nil
}
