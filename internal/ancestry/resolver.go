package ancestry

import (
	"context"
	"errors"
	"fmt"
	"sort"

	bferrors "branchforest.dev/branchforest/internal/errors"
	"branchforest.dev/branchforest/internal/git"
)

// RefStore provides the ancestry primitives of a repository.
// git.CLIRefStore and git.GoGitRefStore implement it.
type RefStore interface {
	// ListBranches returns local branch names. Failures are fatal to a resolution.
	ListBranches(ctx context.Context) ([]git.BranchName, error)
	// ParentOf returns the first parent of the branch tip, or ErrNoParentCommit.
	ParentOf(ctx context.Context, branch git.BranchName) (git.CommitID, error)
	// BranchesContaining returns local branches whose history contains commit.
	BranchesContaining(ctx context.Context, commit git.CommitID) ([]git.BranchName, error)
}

// Logger receives per-branch diagnostics. *output.Splog satisfies it.
type Logger interface {
	Debug(format string, args ...interface{})
	Warn(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

// Progress observes a resolution as it runs.
// Resolved is called from worker goroutines and must be safe for concurrent use.
type Progress interface {
	Started(total int)
	Resolved(branch git.BranchName)
}

type nopProgress struct{}

func (nopProgress) Started(int)             {}
func (nopProgress) Resolved(git.BranchName) {}

// TieBreak selects the parent when several branches contain the parent commit
type TieBreak string

const (
	// TieBreakNative takes the first branch in the ref store's own order
	TieBreakNative TieBreak = "native"
	// TieBreakLexical takes the lexically smallest branch name.
	// This changes output for ref stores whose order is not lexical.
	TieBreakLexical TieBreak = "lexical"
)

// ParseTieBreak converts a configuration value to a TieBreak
func ParseTieBreak(value string) (TieBreak, error) {
	switch TieBreak(value) {
	case "", TieBreakNative:
		return TieBreakNative, nil
	case TieBreakLexical:
		return TieBreakLexical, nil
	default:
		return "", fmt.Errorf("unknown tie-break policy %q (expected %q or %q)", value, TieBreakNative, TieBreakLexical)
	}
}

// Option configures a Resolver
type Option func(*Resolver)

// WithWorkers resolves up to n branches concurrently. Values below 1 mean 1.
func WithWorkers(n int) Option {
	return func(r *Resolver) {
		if n < 1 {
			n = 1
		}
		r.workers = n
	}
}

// WithTieBreak sets the tie-break policy
func WithTieBreak(policy TieBreak) Option {
	return func(r *Resolver) {
		r.tieBreak = policy
	}
}

// WithLogger sets the logger for per-branch diagnostics
func WithLogger(log Logger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// WithProgress reports per-branch progress to p
func WithProgress(p Progress) Option {
	return func(r *Resolver) {
		if p != nil {
			r.progress = p
		}
	}
}

// Resolver computes branch forests from a RefStore
type Resolver struct {
	store    RefStore
	workers  int
	tieBreak TieBreak
	log      Logger
	progress Progress
}

// NewResolver creates a Resolver reading from store
func NewResolver(store RefStore, opts ...Option) *Resolver {
	r := &Resolver{
		store:    store,
		workers:  1,
		tieBreak: TieBreakNative,
		log:      nopLogger{},
		progress: nopProgress{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Diagnostic records why a branch was resolved as a root
type Diagnostic struct {
	Branch git.BranchName
	Reason error
}

// String returns "branch: reason"
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %v", d.Branch, d.Reason)
}

// IsLookupFailure reports whether the root edge comes from a broken lookup
// rather than from the repository's history.
func (d Diagnostic) IsLookupFailure() bool {
	return errors.Is(d.Reason, bferrors.ErrLookupFailure)
}

// Result is a resolved forest and the reasons behind each root edge
type Result struct {
	Forest      Forest
	Diagnostics []Diagnostic
}

// Text returns the encoded forest
func (r *Result) Text() string {
	return Encode(r.Forest)
}

// Degraded returns the diagnostics of branches whose lookups failed
func (r *Result) Degraded() []Diagnostic {
	var degraded []Diagnostic
	for _, d := range r.Diagnostics {
		if d.IsLookupFailure() {
			degraded = append(degraded, d)
		}
	}
	return degraded
}

type outcome struct {
	edge   Edge
	reason error
}

// Resolve lists branches and resolves one edge per branch.
// Only a listing failure or a cancelled context returns an error.
func (r *Resolver) Resolve(ctx context.Context) (*Result, error) {
	branches, err := r.listBranches(ctx)
	if err != nil {
		return nil, err
	}
	r.log.Debug("Resolving parents of %d branches with %d worker(s)", len(branches), r.workers)

	r.progress.Started(len(branches))
	outcomes := make([]outcome, len(branches))
	forEachIndex(len(branches), r.workers, func(i int) {
		outcomes[i] = r.resolveBranch(ctx, branches[i])
		r.progress.Resolved(branches[i])
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{Forest: make(Forest, len(branches))}
	for i, o := range outcomes {
		result.Forest[i] = o.edge
		if o.reason != nil {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{Branch: o.edge.Branch, Reason: o.reason})
		}
	}
	return result, nil
}

// ResolveBranch resolves the edge of a single listed branch.
// The result holds one edge, with a diagnostic when the branch is a root.
func (r *Resolver) ResolveBranch(ctx context.Context, branch git.BranchName) (*Result, error) {
	branches, err := r.listBranches(ctx)
	if err != nil {
		return nil, err
	}
	if !containsBranch(branches, branch) {
		return nil, fmt.Errorf("%w: %s", bferrors.ErrBranchNotFound, branch)
	}

	o := r.resolveBranch(ctx, branch)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{Forest: Forest{o.edge}}
	if o.reason != nil {
		result.Diagnostics = []Diagnostic{{Branch: branch, Reason: o.reason}}
	}
	return result, nil
}

func containsBranch(branches []git.BranchName, branch git.BranchName) bool {
	for _, b := range branches {
		if b == branch {
			return true
		}
	}
	return false
}

func (r *Resolver) resolveBranch(ctx context.Context, branch git.BranchName) outcome {
	commit, err := r.store.ParentOf(ctx, branch)
	if err != nil {
		if errors.Is(err, bferrors.ErrNoParentCommit) {
			r.log.Debug("%s: tip is a root commit", branch)
			return root(branch, bferrors.ErrNoParentCommit)
		}
		lookupErr := bferrors.NewLookupError(string(branch), "parent", err)
		r.log.Warn("Treating %s as a root: %v", branch, lookupErr)
		return root(branch, lookupErr)
	}

	candidates, err := r.store.BranchesContaining(ctx, commit)
	if err != nil {
		lookupErr := bferrors.NewLookupError(string(branch), "contains", err)
		r.log.Warn("Treating %s as a root: %v", branch, lookupErr)
		return root(branch, lookupErr)
	}

	parent, ok := r.pick(branch, candidates)
	if !ok {
		r.log.Debug("%s: no other branch contains %s", branch, commit)
		return root(branch, bferrors.ErrNoContainingBranch)
	}
	return outcome{edge: Edge{Branch: branch, Parent: parent}}
}

// pick chooses the parent among candidates, never the branch itself
func (r *Resolver) pick(branch git.BranchName, candidates []git.BranchName) (git.BranchName, bool) {
	others := make([]git.BranchName, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate != branch && candidate != "" {
			others = append(others, candidate)
		}
	}
	if len(others) == 0 {
		return "", false
	}

	if r.tieBreak == TieBreakLexical {
		sort.Slice(others, func(i, j int) bool {
			return others[i] < others[j]
		})
	}
	return others[0], true
}

func root(branch git.BranchName, reason error) outcome {
	return outcome{edge: Edge{Branch: branch}, reason: reason}
}

// listBranches lists branches, reporting every failure as a RepositoryAccessError
func (r *Resolver) listBranches(ctx context.Context) ([]git.BranchName, error) {
	branches, err := r.store.ListBranches(ctx)
	if err != nil {
		if !errors.Is(err, bferrors.ErrRepositoryAccess) {
			err = bferrors.NewRepositoryAccessError(storePath(r.store), err)
		}
		return nil, err
	}
	return branches, nil
}

func storePath(store RefStore) string {
	if p, ok := store.(interface{ Path() string }); ok {
		return p.Path()
	}
	return ""
}

// BranchTreeOutput resolves the forest of store and returns it as text.
// This is the boundary used by callers that only consume the text blob.
func BranchTreeOutput(ctx context.Context, store RefStore, opts ...Option) (string, error) {
	result, err := NewResolver(store, opts...).Resolve(ctx)
	if err != nil {
		return "", err
	}
	return result.Text(), nil
}
