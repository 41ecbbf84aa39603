package runtime

import (
	"context"
	"fmt"

	"branchforest.dev/branchforest/internal/ancestry"
	"branchforest.dev/branchforest/internal/config"
	"branchforest.dev/branchforest/internal/git"
	"branchforest.dev/branchforest/internal/output"
	"branchforest.dev/branchforest/internal/project"
)

// Context provides access to the ref store, settings and output for commands
type Context struct {
	Store    ancestry.RefStore
	Splog    *output.Splog
	RepoPath string
	Source   project.Source
	Settings config.Settings
	TieBreak ancestry.TieBreak
}

// Options configures NewContext
type Options struct {
	// RepoFlag is the value of --repo, if any
	RepoFlag string
	Splog    *output.Splog
	// Override applies command line flags on top of the loaded settings
	Override func(*config.Settings) error
	// Selector replaces the default project selector
	Selector *project.Selector
}

// NewContext selects the repository, loads its settings and opens a ref store
func NewContext(opts Options) (*Context, error) {
	splog := opts.Splog
	if splog == nil {
		splog = output.NewSplog()
	}

	selector := opts.Selector
	if selector == nil {
		selector = project.NewSelector(opts.RepoFlag)
	}
	selection, err := selector.Select()
	if err != nil {
		return nil, err
	}
	splog.Debug("Using repository %s (from %s)", selection.Path, selection.Source)

	settings, err := config.Load(ConfigRoot(selection.Path))
	if err != nil {
		return nil, err
	}
	if opts.Override != nil {
		if err := opts.Override(&settings); err != nil {
			return nil, err
		}
	}

	tieBreak, err := ancestry.ParseTieBreak(settings.TieBreak)
	if err != nil {
		return nil, err
	}

	store, err := OpenStore(selection.Path, settings, splog)
	if err != nil {
		return nil, err
	}

	return &Context{
		Store:    store,
		Splog:    splog,
		RepoPath: selection.Path,
		Source:   selection.Source,
		Settings: settings,
		TieBreak: tieBreak,
	}, nil
}

// ConfigRoot returns the working tree root holding the configuration for path.
// Paths outside a repository are returned unchanged.
func ConfigRoot(path string) string {
	if root, err := git.FindRepoRoot(path); err == nil {
		return root
	}
	return path
}

// OpenStore opens the ref store backend named by settings
func OpenStore(path string, settings config.Settings, splog *output.Splog) (ancestry.RefStore, error) {
	switch settings.Backend {
	case "", config.BackendCLI:
		runner := git.NewCommandRunner(path).
			WithTimeout(settings.CommandTimeout).
			WithLogger(splog)
		return git.NewCLIRefStore(runner), nil
	case config.BackendGoGit:
		store, err := git.OpenGoGitRefStore(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", settings.Backend)
	}
}

// Resolver returns a resolver configured from the context's settings
func (c *Context) Resolver(extra ...ancestry.Option) *ancestry.Resolver {
	opts := []ancestry.Option{
		ancestry.WithWorkers(c.Settings.Workers),
		ancestry.WithTieBreak(c.TieBreak),
		ancestry.WithLogger(c.Splog),
	}
	return ancestry.NewResolver(c.Store, append(opts, extra...)...)
}

// CurrentBranch returns the checked out branch, or "" when the store cannot tell
func (c *Context) CurrentBranch(ctx context.Context) git.BranchName {
	current, ok := c.Store.(interface {
		CurrentBranch(ctx context.Context) (git.BranchName, error)
	})
	if !ok {
		return ""
	}
	branch, err := current.CurrentBranch(ctx)
	if err != nil {
		c.Splog.Debug("No current branch: %v", err)
		return ""
	}
	return branch
}
