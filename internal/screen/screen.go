// Package screen defines the contract between the root application model
// and the individual screens, plus the navigation messages screens emit.
// Navigation is linear (welcome, test, report) so a screen replaces itself
// rather than pushing onto a stack.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/priyam/numsense/internal/ui/layout"
)

// Screen is one full-window view.
type Screen interface {
	// Init returns an initial command when the screen becomes active.
	Init() tea.Cmd

	// Update handles messages and returns the (possibly new) screen.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content, excluding header and footer.
	View(width, height int) string

	// Title is shown in the header bar.
	Title() string
}

// KeyHintProvider lets a screen publish its own footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// ReplaceMsg swaps the active screen for another.
type ReplaceMsg struct {
	Screen Screen
}

// QuitMsg asks the application to exit.
type QuitMsg struct{}

// Replace returns a command that swaps in the given screen.
func Replace(s Screen) tea.Cmd {
	return func() tea.Msg { return ReplaceMsg{Screen: s} }
}
