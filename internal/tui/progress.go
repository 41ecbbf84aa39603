package tui

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"branchforest.dev/branchforest/internal/ancestry"
	"branchforest.dev/branchforest/internal/git"
	"branchforest.dev/branchforest/internal/output"
)

// ResolveUI shows progress while branch parents are resolved
type ResolveUI interface {
	ancestry.Progress

	// Finish removes the progress display. Safe to call when nothing was started.
	Finish()
}

// NewResolveUI creates the appropriate UI based on whether w is a terminal
func NewResolveUI(w io.Writer) ResolveUI {
	if output.IsTerminal(w) {
		return NewTTYResolveUI(w)
	}
	return SimpleResolveUI{}
}

// SimpleResolveUI shows nothing; used when output is not a terminal
type SimpleResolveUI struct{}

func (SimpleResolveUI) Started(int)             {}
func (SimpleResolveUI) Resolved(git.BranchName) {}
func (SimpleResolveUI) Finish()                 {}

// TTYResolveUI implements ResolveUI with a bubbletea spinner
type TTYResolveUI struct {
	out      io.Writer
	total    atomic.Int64
	done     atomic.Int64
	once     sync.Once
	program  *tea.Program
	finished chan struct{}
}

// NewTTYResolveUI creates a spinner UI writing to out
func NewTTYResolveUI(out io.Writer) *TTYResolveUI {
	return &TTYResolveUI{
		out:      out,
		finished: make(chan struct{}),
	}
}

// Started starts the spinner
func (u *TTYResolveUI) Started(total int) {
	u.total.Store(int64(total))
	u.once.Do(func() {
		// Input stays with the shell; interrupts are handled by the command's context
		u.program = tea.NewProgram(newResolveModel(&u.done, &u.total),
			tea.WithInput(nil),
			tea.WithOutput(u.out),
			tea.WithoutSignalHandler(),
		)

		// Run program in background
		go func() {
			defer close(u.finished)
			_, _ = u.program.Run()
		}()
	})
}

// Resolved counts a finished branch; the spinner picks it up on its next tick
func (u *TTYResolveUI) Resolved(git.BranchName) {
	u.done.Add(1)
}

// Finish stops the spinner and waits for it to clear its line
func (u *TTYResolveUI) Finish() {
	if u.program == nil {
		return
	}
	u.program.Send(resolveDoneMsg{})
	<-u.finished
}

type resolveDoneMsg struct{}

// resolveModel is the bubbletea model for resolution progress
type resolveModel struct {
	spinner  spinner.Model
	done     *atomic.Int64
	total    *atomic.Int64
	finished bool
	dim      lipgloss.Style
}

func newResolveModel(done, total *atomic.Int64) resolveModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return resolveModel{
		spinner: s,
		done:    done,
		total:   total,
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

func (m resolveModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m resolveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case resolveDoneMsg:
		m.finished = true
		return m, tea.Quit
	}

	return m, nil
}

func (m resolveModel) View() string {
	// An empty final view leaves no trace above the command's output
	if m.finished {
		return ""
	}
	return fmt.Sprintf("%s Resolving parents %s",
		m.spinner.View(),
		m.dim.Render(fmt.Sprintf("%d/%d", m.done.Load(), m.total.Load())),
	)
}
