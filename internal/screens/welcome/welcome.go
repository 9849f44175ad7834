// Package welcome is the entry screen: the grown-up picks the child's
// age bracket, a session is opened (against the backend when reachable,
// locally otherwise), and the screening begins.
package welcome

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/google/uuid"

	"github.com/priyam/numsense/internal/api"
	"github.com/priyam/numsense/internal/screen"
	"github.com/priyam/numsense/internal/screening"
	"github.com/priyam/numsense/internal/ui/layout"
	"github.com/priyam/numsense/internal/ui/theme"
)

// Config wires the welcome screen.
type Config struct {
	// Client opens backend sessions. Nil means offline mode.
	Client *api.Client

	// Start builds the test screen once a session id exists.
	Start func(age screening.AgeGroup, sessionID string) screen.Screen

	// History builds the history screen. Nil hides the shortcut.
	History func() screen.Screen
}

// sessionOpenedMsg delivers the session id for the chosen age bracket.
type sessionOpenedMsg struct {
	Age       screening.AgeGroup
	SessionID string
	Offline   bool
}

// WelcomeScreen implements screen.Screen.
type WelcomeScreen struct {
	cfg      Config
	ages     []screening.AgeGroup
	selected int
	starting bool
	offline  bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)

// New creates the welcome screen.
func New(cfg Config) *WelcomeScreen {
	return &WelcomeScreen{
		cfg:  cfg,
		ages: screening.AgeGroups(),
	}
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return nil
}

func (w *WelcomeScreen) Title() string {
	return "Welcome"
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Age"},
		{Key: "Enter", Description: "Start"},
	}
	if w.cfg.History != nil {
		hints = append(hints, layout.KeyHint{Key: "H", Description: "History"})
	}
	hints = append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	return hints
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionOpenedMsg:
		w.offline = msg.Offline
		return w, screen.Replace(w.cfg.Start(msg.Age, msg.SessionID))

	case tea.KeyMsg:
		if w.starting {
			return w, nil
		}
		switch msg.String() {
		case "up", "k":
			if w.selected > 0 {
				w.selected--
			}
		case "down", "j":
			if w.selected < len(w.ages)-1 {
				w.selected++
			}
		case "enter":
			w.starting = true
			return w, w.openSession(w.ages[w.selected])
		case "h", "H":
			if w.cfg.History != nil {
				return w, screen.Replace(w.cfg.History())
			}
		case "q":
			return w, func() tea.Msg { return screen.QuitMsg{} }
		}
	}

	return w, nil
}

// openSession asks the backend for a session id, falling back to a
// locally issued one when the backend is unreachable.
func (w *WelcomeScreen) openSession(age screening.AgeGroup) tea.Cmd {
	client := w.cfg.Client
	return func() tea.Msg {
		if client != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if id, err := client.StartSession(ctx, age); err == nil {
				return sessionOpenedMsg{Age: age, SessionID: id}
			}
		}
		id := api.NewLocalSessionID(func() string { return uuid.New().String() })
		return sessionOpenedMsg{Age: age, SessionID: id, Offline: true}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("🔢 NumSense"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("A playful early screening for number skills"))
	b.WriteString("\n\n")

	if w.starting {
		b.WriteString(theme.Subtitle.Render("Opening a session..."))
		return center(width, height, b.String())
	}

	b.WriteString(theme.Body.Render("How old is the child?"))
	b.WriteString("\n\n")

	for i, age := range w.ages {
		line := "  " + string(age) + " years"
		if i == w.selected {
			line = "▸ " + string(age) + " years"
			b.WriteString(theme.Selected.Render(line))
		} else {
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("This is a screening aid for grown-ups, not a diagnosis."))

	return center(width, height, b.String())
}

func center(width, height int, content string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
