package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles holds the text styles used when printing branches
type Styles struct {
	branch  lipgloss.Style
	current lipgloss.Style
	dim     lipgloss.Style
	warning lipgloss.Style
}

// NewStyles creates styles bound to renderer
func NewStyles(renderer *lipgloss.Renderer) Styles {
	return Styles{
		branch:  renderer.NewStyle().Foreground(lipgloss.Color("12")),
		current: renderer.NewStyle().Foreground(lipgloss.Color("6")),
		dim:     renderer.NewStyle().Foreground(lipgloss.Color("8")),
		warning: renderer.NewStyle().Foreground(lipgloss.Color("3")),
	}
}

// BranchName colors a branch name based on whether it's current
func (s Styles) BranchName(branchName string, isCurrent bool) string {
	if isCurrent {
		return s.current.Render(branchName + " (current)")
	}
	return s.branch.Render(branchName)
}

// Dim makes text dim/gray
func (s Styles) Dim(text string) string {
	return s.dim.Render(text)
}

// Warning colors warning text
func (s Styles) Warning(text string) string {
	return s.warning.Render(text)
}
