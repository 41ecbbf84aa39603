// Package project selects the repository a command operates on.
package project

import (
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"

	bferrors "branchforest.dev/branchforest/internal/errors"
	"branchforest.dev/branchforest/internal/git"
)

// EnvRepo names the environment variable holding a default repository path
const EnvRepo = "BRANCHFOREST_REPO"

// Source describes where a selected repository path came from
type Source string

const (
	SourceFlag   Source = "flag"
	SourceEnv    Source = "env"
	SourceCwd    Source = "cwd"
	SourcePrompt Source = "prompt"
)

// Selection is the repository chosen for a command
type Selection struct {
	Path   string
	Source Source
}

// Prompter asks the user for a repository path
type Prompter func(message, defaultValue string) (string, error)

// Selector resolves the repository path for a command.
// Order: explicit flag, BRANCHFOREST_REPO, the enclosing repository of the
// working directory, then an interactive prompt.
type Selector struct {
	flagPath    string
	getenv      func(string) string
	getwd       func() (string, error)
	interactive func() bool
	prompt      Prompter
}

// NewSelector creates a selector honouring flagPath first
func NewSelector(flagPath string) *Selector {
	return &Selector{
		flagPath:    flagPath,
		getenv:      os.Getenv,
		getwd:       os.Getwd,
		interactive: IsInteractive,
		prompt:      surveyPrompt,
	}
}

// WithPrompter replaces the interactive prompt and the check deciding whether it may be shown
func (s *Selector) WithPrompter(prompt Prompter, interactive func() bool) *Selector {
	s.prompt = prompt
	s.interactive = interactive
	return s
}

// WithEnv replaces the environment lookup
func (s *Selector) WithEnv(getenv func(string) string) *Selector {
	s.getenv = getenv
	return s
}

// WithWorkingDir replaces the working directory lookup
func (s *Selector) WithWorkingDir(getwd func() (string, error)) *Selector {
	s.getwd = getwd
	return s
}

// Select returns the repository to operate on.
// Paths given by flag or environment are used as-is; access problems are
// reported later by the ref store.
func (s *Selector) Select() (Selection, error) {
	if path := strings.TrimSpace(s.flagPath); path != "" {
		return Selection{Path: path, Source: SourceFlag}, nil
	}

	if path := strings.TrimSpace(s.getenv(EnvRepo)); path != "" {
		return Selection{Path: path, Source: SourceEnv}, nil
	}

	cwd, err := s.getwd()
	if err == nil {
		if root, err := git.FindRepoRoot(cwd); err == nil {
			return Selection{Path: root, Source: SourceCwd}, nil
		}
	}

	if !s.interactive() {
		return Selection{}, fmt.Errorf("%w: run inside a git repository, pass --repo or set %s", bferrors.ErrNoProjectSelected, EnvRepo)
	}

	path, err := s.prompt("Path to git repository:", cwd)
	if err != nil {
		return Selection{}, err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Selection{}, bferrors.ErrNoProjectSelected
	}
	return Selection{Path: path, Source: SourcePrompt}, nil
}

// IsInteractive returns true if both stdin and stdout are terminals
func IsInteractive() bool {
	return (isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())) &&
		(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))
}

var askOne = survey.AskOne

func surveyPrompt(message, defaultValue string) (string, error) {
	var path string
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := askOne(prompt, &path); err != nil {
		return "", fmt.Errorf("canceled: %w", err)
	}
	return path, nil
}
