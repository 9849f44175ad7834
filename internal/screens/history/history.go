// Package history lists past screenings recorded in the local store.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/priyam/numsense/internal/screen"
	"github.com/priyam/numsense/internal/store"
	"github.com/priyam/numsense/internal/ui/components"
	"github.com/priyam/numsense/internal/ui/layout"
	"github.com/priyam/numsense/internal/ui/theme"
)

// listLimit caps how many past screenings the screen shows.
const listLimit = 20

type loadedMsg struct {
	Records []store.ScreeningRecord
	Err     error
}

// HistoryScreen implements screen.Screen.
type HistoryScreen struct {
	repo store.ScreeningRepo
	back func() screen.Screen

	records []store.ScreeningRecord
	loaded  bool
	errMsg  string
	spin    components.Spinner
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates the history screen. back builds the screen to return to.
func New(repo store.ScreeningRepo, back func() screen.Screen) *HistoryScreen {
	return &HistoryScreen{
		repo: repo,
		back: back,
		spin: components.NewSpinner("Loading history..."),
	}
}

func (h *HistoryScreen) Init() tea.Cmd {
	repo := h.repo
	load := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		recs, err := repo.List(ctx, store.QueryOpts{Limit: listLimit})
		return loadedMsg{Records: recs, Err: err}
	}
	return tea.Batch(load, h.spin.Init())
}

func (h *HistoryScreen) Title() string {
	return "History"
}

func (h *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		h.loaded = true
		if msg.Err != nil {
			h.errMsg = msg.Err.Error()
			return h, nil
		}
		h.records = msg.Records
		return h, nil

	case spinner.TickMsg:
		if h.loaded {
			return h, nil
		}
		var cmd tea.Cmd
		h.spin, cmd = h.spin.Update(msg)
		return h, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "enter", "q":
			return h, screen.Replace(h.back())
		}
	}
	return h, nil
}

func (h *HistoryScreen) View(width, height int) string {
	if !h.loaded {
		return center(width, height, h.spin.View())
	}
	if h.errMsg != "" {
		return center(width, height, theme.Incorrect.Render("Could not load history")+
			"\n\n"+theme.Body.Render(h.errMsg))
	}
	if len(h.records) == 0 {
		return center(width, height, theme.Subtitle.Render("No screenings recorded yet."))
	}

	var b strings.Builder
	b.WriteString(theme.Title.Width(width).Render("Past screenings"))
	b.WriteString("\n\n")

	for _, rec := range h.records {
		date := rec.CompletedAt.Format("2006-01-02 15:04")
		line := fmt.Sprintf("%s   age %-5s  %5.1f%%   ", date, rec.AgeGroup, rec.Accuracy)

		risk := "—"
		if rec.RiskLevel != "" {
			risk = rec.RiskLevel
		}
		styled := theme.Body.Render(line) + theme.RiskStyle(rec.RiskLevel).Render(risk)

		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, styled))
		b.WriteString("\n")
	}

	return b.String()
}

func center(width, height int, content string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
