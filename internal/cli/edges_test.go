package cli_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	bferrors "branchforest.dev/branchforest/internal/errors"
	"branchforest.dev/branchforest/testhelpers"
)

// stackSetup builds main <- develop <- feature with main kept at a single commit
func stackSetup(scene *testhelpers.Scene) error {
	if err := scene.Repo.CreateChangeAndCommit("1", "1"); err != nil {
		return err
	}
	if err := scene.Repo.CommitOnNewBranch("develop"); err != nil {
		return err
	}
	return scene.Repo.CommitOnNewBranch("feature")
}

func TestEdgesCommand(t *testing.T) {
	t.Parallel()

	t.Run("prints branch parent lines", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, stackSetup)

		result := runCommand(t, "edges", "--repo", scene.Dir)
		require.NoError(t, result.err)
		require.Equal(t, "develop main\nfeature develop\nmain\n", result.stdout)
	})

	t.Run("backends agree", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, stackSetup)

		cli := runCommand(t, "edges", "--repo", scene.Dir, "--backend", "cli", "--workers", "4")
		gogit := runCommand(t, "edges", "--repo", scene.Dir, "--backend", "gogit", "--workers", "4")
		require.NoError(t, cli.err)
		require.NoError(t, gogit.err)
		require.Equal(t, cli.stdout, gogit.stdout)
	})

	t.Run("diagnostics go to stderr", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, stackSetup)

		result := runCommand(t, "edges", "--repo", scene.Dir, "--diagnostics")
		require.NoError(t, result.err)
		require.Contains(t, result.stderr, "main: "+bferrors.ErrNoParentCommit.Error())
		require.NotContains(t, result.stdout, bferrors.ErrNoParentCommit.Error())
	})

	t.Run("empty repository prints nothing", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, nil)

		result := runCommand(t, "edges", "--repo", scene.Dir)
		require.NoError(t, result.err)
		require.Empty(t, result.stdout)
	})

	t.Run("unreadable repository fails", func(t *testing.T) {
		t.Parallel()

		result := runCommand(t, "edges", "--repo", filepath.Join(t.TempDir(), "missing"))
		require.ErrorIs(t, result.err, bferrors.ErrRepositoryAccess)
		require.Empty(t, result.stdout)
	})

	t.Run("invalid flag value", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, stackSetup)

		result := runCommand(t, "edges", "--repo", scene.Dir, "--tie-break", "newest")
		require.Error(t, result.err)
		require.Contains(t, result.err.Error(), "--tie-break")
	})

	t.Run("debug logs git commands", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewSceneParallel(t, stackSetup)

		result := runCommand(t, "edges", "--repo", scene.Dir, "--debug")
		require.NoError(t, result.err)
		require.Contains(t, result.stderr, "git for-each-ref refs/heads")
	})
}
