package cli_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	bferrors "branchforest.dev/branchforest/internal/errors"
	"branchforest.dev/branchforest/testhelpers"
)

func TestParentCommand(t *testing.T) {
	t.Parallel()
	scene := testhelpers.NewSceneParallel(t, stackSetup)

	t.Run("named branch", func(t *testing.T) {
		result := runCommand(t, "parent", "develop", "--repo", scene.Dir)
		require.NoError(t, result.err)
		require.Equal(t, "main\n", result.stdout)
	})

	t.Run("defaults to the current branch", func(t *testing.T) {
		result := runCommand(t, "parent", "--repo", scene.Dir, "--backend", "gogit")
		require.NoError(t, result.err)
		require.Equal(t, "develop\n", result.stdout)
	})

	t.Run("root prints nothing", func(t *testing.T) {
		result := runCommand(t, "parent", "main", "--repo", scene.Dir, "--diagnostics")
		require.NoError(t, result.err)
		require.Empty(t, result.stdout)
		require.Contains(t, result.stderr, "main: ")
	})

	t.Run("unknown branch", func(t *testing.T) {
		result := runCommand(t, "parent", "nope", "--repo", scene.Dir)
		require.ErrorIs(t, result.err, bferrors.ErrBranchNotFound)
	})
}
