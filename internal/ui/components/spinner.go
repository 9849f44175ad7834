package components

import (
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/priyam/numsense/internal/ui/theme"
)

// Spinner wraps bubbles/spinner with NumSense styling and a label.
type Spinner struct {
	Model spinner.Model
	Label string
}

// NewSpinner creates a new styled spinner with the given label.
func NewSpinner(label string) Spinner {
	m := spinner.New()
	m.Spinner = spinner.Dot
	m.Style = lipgloss.NewStyle().Foreground(theme.Primary)
	return Spinner{Model: m, Label: label}
}

// Init returns the tick command that keeps the spinner animating.
func (s Spinner) Init() tea.Cmd {
	return s.Model.Tick
}

// Update handles messages.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	var cmd tea.Cmd
	s.Model, cmd = s.Model.Update(msg)
	return s, cmd
}

// View renders the spinner with its label.
func (s Spinner) View() string {
	return s.Model.View() + " " + theme.Subtitle.Render(s.Label)
}
