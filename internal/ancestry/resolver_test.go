package ancestry_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"branchforest.dev/branchforest/internal/ancestry"
	bferrors "branchforest.dev/branchforest/internal/errors"
	"branchforest.dev/branchforest/internal/git"
	"branchforest.dev/branchforest/testhelpers"
)

// recordingLogger collects log lines for assertions
type recordingLogger struct {
	mu    sync.Mutex
	warns []string
	debug []string
}

func (l *recordingLogger) Debug(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = append(l.debug, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Warn(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
}

func resolve(t *testing.T, store ancestry.RefStore, opts ...ancestry.Option) *ancestry.Result {
	t.Helper()
	result, err := ancestry.NewResolver(store, opts...).Resolve(context.Background())
	require.NoError(t, err)
	return result
}

func TestResolve_Scenarios(t *testing.T) {
	t.Run("single root branch", func(t *testing.T) {
		store := testhelpers.NewFakeRefStore("main")

		result := resolve(t, store)

		require.Equal(t, "main", result.Text())
		require.Len(t, result.Diagnostics, 1)
		require.ErrorIs(t, result.Diagnostics[0].Reason, bferrors.ErrNoParentCommit)
	})

	t.Run("child of main", func(t *testing.T) {
		store := testhelpers.NewFakeRefStore("main", "develop").
			WithParent("develop", "c1").
			WithContaining("c1", "main", "develop")

		result := resolve(t, store)

		require.Equal(t, "main\ndevelop main", result.Text())
	})

	t.Run("first containing branch wins", func(t *testing.T) {
		store := testhelpers.NewFakeRefStore("main", "develop", "feature/x").
			WithParent("develop", "c1").
			WithContaining("c1", "main", "develop", "feature/x").
			WithParent("feature/x", "c2").
			WithContaining("c2", "develop", "main", "feature/x")

		result := resolve(t, store)

		testhelpers.ExpectLines(t, result.Text(),
			"main",
			"develop main",
			"feature/x develop",
		)
	})

	t.Run("parent commit contained by no other branch", func(t *testing.T) {
		store := testhelpers.NewFakeRefStore("orphan").
			WithParent("orphan", "c9").
			WithContaining("c9", "orphan")

		result := resolve(t, store)

		require.Equal(t, "orphan", result.Text())
		require.Len(t, result.Diagnostics, 1)
		require.ErrorIs(t, result.Diagnostics[0].Reason, bferrors.ErrNoContainingBranch)
		require.Empty(t, result.Degraded())
	})

	t.Run("listing failure is fatal", func(t *testing.T) {
		store := testhelpers.NewFakeRefStore("main").
			WithListError(errors.New("fatal: not a git repository"))

		output, err := ancestry.BranchTreeOutput(context.Background(), store)

		require.ErrorIs(t, err, bferrors.ErrRepositoryAccess)
		require.Empty(t, output)
		require.Zero(t, store.ParentCalls())
		require.Zero(t, store.ContainsCalls())
	})
}

func TestResolve_TieBreak(t *testing.T) {
	store := testhelpers.NewFakeRefStore("feature/x", "main", "develop").
		WithParent("feature/x", "c2").
		WithContaining("c2", "develop", "main", "feature/x")

	native := resolve(t, store)
	lexical := resolve(t, store, ancestry.WithTieBreak(ancestry.TieBreakLexical))

	parent, _ := native.Forest.ParentOf("feature/x")
	require.Equal(t, git.BranchName("develop"), parent)

	parent, _ = lexical.Forest.ParentOf("feature/x")
	require.Equal(t, git.BranchName("develop"), parent, "develop sorts before main")

	store.WithContaining("c2", "main", "develop")
	lexical = resolve(t, store, ancestry.WithTieBreak(ancestry.TieBreakLexical))
	parent, _ = lexical.Forest.ParentOf("feature/x")
	require.Equal(t, git.BranchName("develop"), parent)

	native = resolve(t, store)
	parent, _ = native.Forest.ParentOf("feature/x")
	require.Equal(t, git.BranchName("main"), parent)
}

func TestParseTieBreak(t *testing.T) {
	policy, err := ancestry.ParseTieBreak("")
	require.NoError(t, err)
	require.Equal(t, ancestry.TieBreakNative, policy)

	policy, err = ancestry.ParseTieBreak("lexical")
	require.NoError(t, err)
	require.Equal(t, ancestry.TieBreakLexical, policy)

	_, err = ancestry.ParseTieBreak("recency")
	require.Error(t, err)
}

func TestResolve_DegradeNotAbort(t *testing.T) {
	newStore := func() *testhelpers.FakeRefStore {
		return testhelpers.NewFakeRefStore("main", "develop", "broken", "feature").
			WithParent("develop", "c1").
			WithContaining("c1", "main", "develop", "broken", "feature").
			WithParent("broken", "c2").
			WithContaining("c2", "develop", "broken").
			WithParent("feature", "c3").
			WithContaining("c3", "develop", "feature")
	}

	t.Run("parent lookup failure", func(t *testing.T) {
		log := &recordingLogger{}
		store := newStore().WithParentError("broken", errors.New("bad object"))

		result := resolve(t, store, ancestry.WithLogger(log))

		testhelpers.ExpectLines(t, result.Text(),
			"main",
			"develop main",
			"broken",
			"feature develop",
		)
		degraded := result.Degraded()
		require.Len(t, degraded, 1)
		require.Equal(t, git.BranchName("broken"), degraded[0].Branch)

		var lookupErr *bferrors.LookupError
		require.True(t, errors.As(degraded[0].Reason, &lookupErr))
		require.Equal(t, "parent", lookupErr.Op)

		require.Len(t, log.warns, 1)
		require.Contains(t, log.warns[0], "broken")
	})

	t.Run("containment lookup failure", func(t *testing.T) {
		store := newStore().WithContainingError("c2", errors.New("malformed output"))

		result := resolve(t, store)

		testhelpers.ExpectLines(t, result.Text(),
			"main",
			"develop main",
			"broken",
			"feature develop",
		)
		degraded := result.Degraded()
		require.Len(t, degraded, 1)
		require.Contains(t, degraded[0].String(), "broken: contains lookup")
	})
}

func TestResolve_SelfExclusion(t *testing.T) {
	// Every branch contains its own parent commit; none may pick itself.
	store := testhelpers.NewFakeRefStore("a", "b").
		WithParent("a", "c1").
		WithContaining("c1", "a").
		WithParent("b", "c2").
		WithContaining("c2", "b", "a")

	result := resolve(t, store)

	for _, edge := range result.Forest {
		require.NotEqual(t, edge.Branch, edge.Parent)
	}
	require.Equal(t, "a\nb a", result.Text())
}

// buildGraph scripts a repository with n feature branches stacked in chains of three
func buildGraph(n int) (*testhelpers.FakeGraph, []string) {
	graph := testhelpers.NewFakeGraph().
		Commit("root").
		Branch("main", "root")
	names := []string{"main"}

	for i := 0; i < n; i++ {
		base := "root"
		if i%3 != 0 {
			base = fmt.Sprintf("c%d", i-1)
		}
		commit := fmt.Sprintf("c%d", i)
		name := fmt.Sprintf("feature-%02d", i)
		graph.Commit(commit, base).Branch(name, commit)
		names = append(names, name)
	}
	return graph, names
}

func TestResolve_Coverage(t *testing.T) {
	graph, names := buildGraph(24)
	store := graph.RefStore()

	result := resolve(t, store)

	require.Len(t, result.Forest, len(names))
	require.Equal(t, git.BranchNames(names...), result.Forest.Branches())
	require.Equal(t, len(names), store.ParentCalls())

	parsed, err := ancestry.Parse(result.Text())
	require.NoError(t, err)
	require.Equal(t, result.Forest, parsed)

	for _, line := range strings.Split(result.Text(), "\n") {
		require.LessOrEqual(t, len(strings.Fields(line)), 2)
		require.NotEmpty(t, line)
	}

	// feature-01 sits on feature-00, which sits on main
	parent, _ := result.Forest.ParentOf("feature-01")
	require.Equal(t, git.BranchName("feature-00"), parent)
	parent, _ = result.Forest.ParentOf("feature-00")
	require.Equal(t, git.BranchName("main"), parent)
}

func TestResolve_WorkersPreserveOrder(t *testing.T) {
	graph, _ := buildGraph(40)
	store := graph.RefStore().WithParentError("feature-07", errors.New("flaky"))

	sequential := resolve(t, store)
	for _, workers := range []int{2, 4, 16, 100} {
		parallel := resolve(t, store, ancestry.WithWorkers(workers))
		require.Equal(t, sequential.Text(), parallel.Text(), "workers=%d", workers)
		require.Equal(t, len(sequential.Diagnostics), len(parallel.Diagnostics))
		require.Len(t, parallel.Degraded(), 1)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	graph, _ := buildGraph(12)
	store := graph.RefStore()

	first := resolve(t, store)
	second := resolve(t, store)

	require.Equal(t, first.Text(), second.Text())
}

// cancelingStore cancels the resolution after the first parent lookup
type cancelingStore struct {
	*testhelpers.FakeRefStore
	cancel context.CancelFunc
}

func (s *cancelingStore) ParentOf(ctx context.Context, branch git.BranchName) (git.CommitID, error) {
	s.cancel()
	return s.FakeRefStore.ParentOf(ctx, branch)
}

func TestResolve_Cancellation(t *testing.T) {
	t.Run("before listing", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := ancestry.NewResolver(testhelpers.NewFakeRefStore("main")).Resolve(ctx)
		require.ErrorIs(t, err, bferrors.ErrRepositoryAccess)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("during resolution", func(t *testing.T) {
		graph, _ := buildGraph(6)
		ctx, cancel := context.WithCancel(context.Background())
		store := &cancelingStore{FakeRefStore: graph.RefStore(), cancel: cancel}

		result, err := ancestry.NewResolver(store).Resolve(ctx)
		require.ErrorIs(t, err, context.Canceled)
		require.Nil(t, result)
	})
}

// plainErrorStore returns a listing error that is not yet a RepositoryAccessError
type plainErrorStore struct {
	testhelpers.FakeRefStore
}

func (s *plainErrorStore) ListBranches(context.Context) ([]git.BranchName, error) {
	return nil, errors.New("exec: git not found")
}

func (s *plainErrorStore) Path() string { return "/repo" }

func TestResolve_WrapsListingErrors(t *testing.T) {
	_, err := ancestry.NewResolver(&plainErrorStore{}).Resolve(context.Background())

	require.ErrorIs(t, err, bferrors.ErrRepositoryAccess)
	var accessErr *bferrors.RepositoryAccessError
	require.True(t, errors.As(err, &accessErr))
	require.Equal(t, "/repo", accessErr.Path)
}

func TestResolveBranch(t *testing.T) {
	store := testhelpers.NewFakeRefStore("main", "develop", "orphan").
		WithParent("develop", "c1").
		WithContaining("c1", "main", "develop").
		WithParent("orphan", "c9").
		WithContaining("c9", "orphan")
	resolver := ancestry.NewResolver(store)

	t.Run("child branch", func(t *testing.T) {
		result, err := resolver.ResolveBranch(context.Background(), "develop")
		require.NoError(t, err)
		require.Equal(t, "develop main", result.Text())
		require.Empty(t, result.Diagnostics)
	})

	t.Run("root branch carries its reason", func(t *testing.T) {
		result, err := resolver.ResolveBranch(context.Background(), "orphan")
		require.NoError(t, err)
		require.Equal(t, "orphan", result.Text())
		require.Len(t, result.Diagnostics, 1)
		require.ErrorIs(t, result.Diagnostics[0].Reason, bferrors.ErrNoContainingBranch)
	})

	t.Run("unknown branch", func(t *testing.T) {
		_, err := resolver.ResolveBranch(context.Background(), "missing")
		require.ErrorIs(t, err, bferrors.ErrBranchNotFound)
	})

	t.Run("listing failure", func(t *testing.T) {
		failing := testhelpers.NewFakeRefStore("main").WithListError(errors.New("boom"))
		_, err := ancestry.NewResolver(failing).ResolveBranch(context.Background(), "main")
		require.ErrorIs(t, err, bferrors.ErrRepositoryAccess)
	})
}

// countingProgress records progress callbacks
type countingProgress struct {
	mu       sync.Mutex
	total    int
	resolved []git.BranchName
}

func (p *countingProgress) Started(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
}

func (p *countingProgress) Resolved(branch git.BranchName) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resolved = append(p.resolved, branch)
}

func TestResolve_Progress(t *testing.T) {
	graph, names := buildGraph(9)
	progress := &countingProgress{}

	resolve(t, graph.RefStore(), ancestry.WithWorkers(3), ancestry.WithProgress(progress))

	require.Equal(t, len(names), progress.total)
	require.ElementsMatch(t, git.BranchNames(names...), progress.resolved)
}
