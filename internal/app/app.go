// Package app holds the root Bubble Tea model. Navigation is a single
// active screen that replaces itself; there is no stack.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/priyam/numsense/internal/screen"
	"github.com/priyam/numsense/internal/screening"
	"github.com/priyam/numsense/internal/ui/layout"
)

// Model is the root Bubble Tea model.
type Model struct {
	active  screen.Screen
	session *screening.Session
	width   int
	height  int
}

// NewModel creates the root model with the given initial screen. The
// session is only used to show the age bracket in the header.
func NewModel(initial screen.Screen, session *screening.Session) Model {
	return Model{active: initial, session: session}
}

func (m Model) Init() tea.Cmd {
	return m.active.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.ReplaceMsg:
		m.active = msg.Screen
		return m, m.active.Init()

	case screen.QuitMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.active, cmd = m.active.Update(msg)
	return m, cmd
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	age := ""
	if m.session != nil && m.session.AgeGroup() != "" {
		age = string(m.session.AgeGroup())
	}
	header := layout.RenderHeader(m.active.Title(), age, m.width)

	hints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if hp, ok := m.active.(screen.KeyHintProvider); ok {
		if custom := hp.KeyHints(); len(custom) > 0 {
			hints = custom
		}
	}
	footer := layout.RenderFooter(hints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.active.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program with the given initial screen.
func Run(initial screen.Screen, session *screening.Session) error {
	p := tea.NewProgram(NewModel(initial, session))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
