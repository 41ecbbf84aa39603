package testhelpers

import (
	"context"
	"sync"
	"sync/atomic"

	bferrors "branchforest.dev/branchforest/internal/errors"
	"branchforest.dev/branchforest/internal/git"
)

// FakeRefStore is an in-memory ref store returning scripted answers.
// Branches without a scripted parent report ErrNoParentCommit, and
// commits without a scripted containment list report no branches.
type FakeRefStore struct {
	mu           sync.Mutex
	branches     []git.BranchName
	listErr      error
	parents      map[git.BranchName]git.CommitID
	parentErrs   map[git.BranchName]error
	containing   map[git.CommitID][]git.BranchName
	containsErrs map[git.CommitID]error

	parentCalls   atomic.Int64
	containsCalls atomic.Int64
}

// NewFakeRefStore creates a fake listing the given branches in order.
func NewFakeRefStore(branches ...string) *FakeRefStore {
	return &FakeRefStore{
		branches:     git.BranchNames(branches...),
		parents:      make(map[git.BranchName]git.CommitID),
		parentErrs:   make(map[git.BranchName]error),
		containing:   make(map[git.CommitID][]git.BranchName),
		containsErrs: make(map[git.CommitID]error),
	}
}

// WithParent scripts the first parent commit of a branch tip.
func (f *FakeRefStore) WithParent(branch, commit string) *FakeRefStore {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.parents[git.BranchName(branch)] = git.CommitID(commit)
	return f
}

// WithContaining scripts the containment answer for a commit, in native order.
func (f *FakeRefStore) WithContaining(commit string, branches ...string) *FakeRefStore {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.containing[git.CommitID(commit)] = git.BranchNames(branches...)
	return f
}

// WithListError makes ListBranches fail.
func (f *FakeRefStore) WithListError(err error) *FakeRefStore {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listErr = err
	return f
}

// WithParentError makes ParentOf fail for one branch.
func (f *FakeRefStore) WithParentError(branch string, err error) *FakeRefStore {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.parentErrs[git.BranchName(branch)] = err
	return f
}

// WithContainingError makes BranchesContaining fail for one commit.
func (f *FakeRefStore) WithContainingError(commit string, err error) *FakeRefStore {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.containsErrs[git.CommitID(commit)] = err
	return f
}

// ListBranches returns the scripted branch list.
func (f *FakeRefStore) ListBranches(ctx context.Context) ([]git.BranchName, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, bferrors.NewRepositoryAccessError("fake", f.listErr)
	}
	if err := ctx.Err(); err != nil {
		return nil, bferrors.NewRepositoryAccessError("fake", err)
	}
	out := make([]git.BranchName, len(f.branches))
	copy(out, f.branches)
	return out, nil
}

// ParentOf returns the scripted parent commit.
func (f *FakeRefStore) ParentOf(ctx context.Context, branch git.BranchName) (git.CommitID, error) {
	f.parentCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err, ok := f.parentErrs[branch]; ok {
		return "", err
	}
	commit, ok := f.parents[branch]
	if !ok {
		return "", bferrors.ErrNoParentCommit
	}
	return commit, nil
}

// BranchesContaining returns the scripted containment list.
func (f *FakeRefStore) BranchesContaining(ctx context.Context, commit git.CommitID) ([]git.BranchName, error) {
	f.containsCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.containsErrs[commit]; ok {
		return nil, err
	}
	branches := f.containing[commit]
	out := make([]git.BranchName, len(branches))
	copy(out, branches)
	return out, nil
}

// ParentCalls returns how many ParentOf lookups were made.
func (f *FakeRefStore) ParentCalls() int {
	return int(f.parentCalls.Load())
}

// ContainsCalls returns how many BranchesContaining lookups were made.
func (f *FakeRefStore) ContainsCalls() int {
	return int(f.containsCalls.Load())
}

// FakeGraph scripts a commit graph and derives ref store answers from it.
// Branch declaration order is the native order of every listing.
type FakeGraph struct {
	parents  map[string][]string
	branches []string
	tips     map[string]string
}

// NewFakeGraph creates an empty graph.
func NewFakeGraph() *FakeGraph {
	return &FakeGraph{
		parents: make(map[string][]string),
		tips:    make(map[string]string),
	}
}

// Commit adds a commit with its parents, first parent first.
func (g *FakeGraph) Commit(id string, parents ...string) *FakeGraph {
	g.parents[id] = parents
	return g
}

// Branch points a branch at a commit.
func (g *FakeGraph) Branch(name, tip string) *FakeGraph {
	if _, ok := g.tips[name]; !ok {
		g.branches = append(g.branches, name)
	}
	g.tips[name] = tip
	return g
}

// RefStore builds a FakeRefStore answering from the graph.
func (g *FakeGraph) RefStore() *FakeRefStore {
	store := NewFakeRefStore(g.branches...)
	for _, branch := range g.branches {
		parents := g.parents[g.tips[branch]]
		if len(parents) > 0 {
			store.WithParent(branch, parents[0])
		}
	}
	for commit := range g.parents {
		var containing []string
		for _, branch := range g.branches {
			if g.reaches(g.tips[branch], commit) {
				containing = append(containing, branch)
			}
		}
		store.WithContaining(commit, containing...)
	}
	return store
}

// reaches reports whether target is from or one of its ancestors
func (g *FakeGraph) reaches(from, target string) bool {
	seen := make(map[string]bool)
	stack := []string{from}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if current == target {
			return true
		}
		if seen[current] {
			continue
		}
		seen[current] = true
		stack = append(stack, g.parents[current]...)
	}
	return false
}
