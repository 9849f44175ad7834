// Package report shows the screening outcome: per-module results, the
// risk verdict with recommendations, and the behavioral observations.
package report

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/priyam/numsense/internal/adaptive"
	"github.com/priyam/numsense/internal/risk"
	"github.com/priyam/numsense/internal/screen"
	"github.com/priyam/numsense/internal/screening"
	"github.com/priyam/numsense/internal/ui/layout"
	"github.com/priyam/numsense/internal/ui/theme"
)

// Config wires the report screen.
type Config struct {
	Session *screening.Session
	Tracker *adaptive.Tracker

	// Restart builds a fresh welcome screen.
	Restart func() screen.Screen

	// History builds the history screen. Nil hides the shortcut.
	History func() screen.Screen
}

// ReportScreen implements screen.Screen.
type ReportScreen struct {
	cfg      Config
	extended risk.Extended
}

var _ screen.Screen = (*ReportScreen)(nil)
var _ screen.KeyHintProvider = (*ReportScreen)(nil)

// New creates the report screen for a finalized session.
func New(cfg Config) *ReportScreen {
	return &ReportScreen{
		cfg:      cfg,
		extended: risk.ExtendedFeatures(cfg.Session, cfg.Session.AgeGroup()),
	}
}

func (r *ReportScreen) Init() tea.Cmd {
	return nil
}

func (r *ReportScreen) Title() string {
	return "Screening Report"
}

func (r *ReportScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "New screening"},
	}
	if r.cfg.History != nil {
		hints = append(hints, layout.KeyHint{Key: "H", Description: "History"})
	}
	hints = append(hints, layout.KeyHint{Key: "Q", Description: "Quit"})
	return hints
}

func (r *ReportScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return r, nil
	}

	switch kmsg.String() {
	case "enter":
		return r, screen.Replace(r.cfg.Restart())
	case "h", "H":
		if r.cfg.History != nil {
			return r, screen.Replace(r.cfg.History())
		}
	case "q", "esc":
		return r, func() tea.Msg { return screen.QuitMsg{} }
	}
	return r, nil
}

func (r *ReportScreen) View(width, height int) string {
	sess := r.cfg.Session

	var b strings.Builder
	b.WriteString(theme.Title.Width(width).Render("All done! 🎉"))
	b.WriteString("\n\n")

	overall := fmt.Sprintf("Answered: %d        Correct: %d        Accuracy: %.0f%%",
		sess.TotalQuestions(), sess.TotalCorrect(), sess.OverallAccuracy())
	b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
		Foreground(theme.Text).Render(overall))
	b.WriteString("\n\n")

	b.WriteString(r.renderModules(width))
	b.WriteString("\n")

	if ra, ok := sess.RiskAssessment(); ok {
		b.WriteString(r.renderRisk(ra, width))
		b.WriteString("\n")
	}

	b.WriteString(r.renderObservations(width))

	return b.String()
}

func (r *ReportScreen) renderModules(width int) string {
	var b strings.Builder

	for _, res := range r.cfg.Session.TestResults() {
		line := fmt.Sprintf("%-20s %d/%d correct   %.0f%%   avg %.1fs",
			res.TestType.DisplayName(),
			res.CorrectAnswers, res.TotalQuestions,
			res.Accuracy(),
			res.AvgResponseTime/1000)

		style := theme.Correct
		switch {
		case res.Accuracy() < 40:
			style = theme.Incorrect
		case res.Accuracy() < 70:
			style = lipgloss.NewStyle().Foreground(theme.Accent)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}

func (r *ReportScreen) renderRisk(ra screening.RiskAssessment, width int) string {
	var b strings.Builder

	verdict := theme.RiskStyle(string(ra.Level)).Render(
		fmt.Sprintf("Risk indication: %s (confidence %.0f%%)", ra.Level, ra.Confidence*100))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, verdict))
	b.WriteString("\n")

	if ra.Explanation != "" {
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
			Foreground(theme.TextDim).Render(ra.Explanation))
		b.WriteString("\n")
	}

	for _, rec := range ra.Recommendations {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Body.Render("• "+rec)))
		b.WriteString("\n")
	}

	return b.String()
}

func (r *ReportScreen) renderObservations(width int) string {
	ext := r.extended

	parts := []string{
		fmt.Sprintf("longest error streak %d", ext.MaxConsecutiveErrors),
		fmt.Sprintf("rushed answers %d", ext.RapidResponses),
		fmt.Sprintf("long pauses %d", ext.SlowResponses),
		fmt.Sprintf("hesitation %.0f%%", ext.HesitationIndex*100),
	}
	line := "Observed: " + strings.Join(parts, ", ")

	out := lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render(line))

	if r.cfg.Tracker != nil && len(r.cfg.Tracker.Changes()) > 0 {
		last := r.cfg.Tracker.Changes()
		desc := fmt.Sprintf("Difficulty adjusted %d time(s), ended at %s",
			len(last), r.cfg.Tracker.Level())
		out += "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render(desc))
	}

	return out
}
