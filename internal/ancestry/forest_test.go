package ancestry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"branchforest.dev/branchforest/internal/git"
)

func TestEncode(t *testing.T) {
	t.Run("root and child lines", func(t *testing.T) {
		forest := Forest{
			{Branch: "main"},
			{Branch: "develop", Parent: "main"},
		}
		require.Equal(t, "main\ndevelop main", Encode(forest))
	})

	t.Run("empty forest is empty text", func(t *testing.T) {
		require.Equal(t, "", Encode(nil))
	})

	t.Run("no trailing newline", func(t *testing.T) {
		text := Encode(Forest{{Branch: "main"}})
		require.Equal(t, "main", text)
	})
}

func TestParse(t *testing.T) {
	t.Run("reads what Encode writes", func(t *testing.T) {
		forest := Forest{
			{Branch: "main"},
			{Branch: "develop", Parent: "main"},
			{Branch: "feature/x", Parent: "develop"},
			{Branch: "orphan"},
		}
		parsed, err := Parse(Encode(forest))
		require.NoError(t, err)
		require.Equal(t, forest, parsed)
	})

	t.Run("accepts CRLF and blank lines", func(t *testing.T) {
		parsed, err := Parse("main\r\n\r\n  develop   main \r\n")
		require.NoError(t, err)
		require.Equal(t, Forest{{Branch: "main"}, {Branch: "develop", Parent: "main"}}, parsed)
	})

	t.Run("rejects more than two tokens", func(t *testing.T) {
		_, err := Parse("main\nfeature develop main")
		require.Error(t, err)
		require.Contains(t, err.Error(), "line 2")
	})

	t.Run("rejects duplicate branches", func(t *testing.T) {
		_, err := Parse("main\nmain develop")
		require.Error(t, err)
		require.Contains(t, err.Error(), "duplicate branch main")
	})

	t.Run("rejects self parent", func(t *testing.T) {
		_, err := Parse("main main")
		require.Error(t, err)
	})
}

func TestForestQueries(t *testing.T) {
	forest := Forest{
		{Branch: "main"},
		{Branch: "develop", Parent: "main"},
		{Branch: "release", Parent: "main"},
		{Branch: "feature", Parent: "develop"},
		{Branch: "experiment"},
	}

	require.Equal(t, git.BranchNames("main", "develop", "release", "feature", "experiment"), forest.Branches())
	require.Equal(t, git.BranchNames("main", "experiment"), forest.Roots())
	require.Equal(t, git.BranchNames("develop", "release"), forest.ChildrenOf("main"))
	require.Empty(t, forest.ChildrenOf("feature"))
	require.Empty(t, forest.Unrooted())

	parent, ok := forest.ParentOf("feature")
	require.True(t, ok)
	require.Equal(t, git.BranchName("develop"), parent)

	parent, ok = forest.ParentOf("main")
	require.True(t, ok)
	require.Empty(t, parent)

	_, ok = forest.ParentOf("missing")
	require.False(t, ok)
}

func TestForestUnrooted(t *testing.T) {
	t.Run("branches naming each other", func(t *testing.T) {
		forest := Forest{
			{Branch: "develop", Parent: "main"},
			{Branch: "feature", Parent: "develop"},
			{Branch: "main", Parent: "develop"},
			{Branch: "orphan"},
		}
		require.Empty(t, forest.Roots())
		require.Equal(t, git.BranchNames("develop", "feature", "main"), forest.Unrooted())
	})

	t.Run("parent outside the forest", func(t *testing.T) {
		forest := Forest{
			{Branch: "main"},
			{Branch: "feature", Parent: "gone"},
		}
		require.Equal(t, git.BranchNames("feature"), forest.Unrooted())
	})
}
