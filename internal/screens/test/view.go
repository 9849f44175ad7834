package test

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/priyam/numsense/internal/screening"
	"github.com/priyam/numsense/internal/ui/components"
	"github.com/priyam/numsense/internal/ui/theme"
)

func (s *TestScreen) View(width, height int) string {
	if s.errMsg != "" {
		return center(width, height,
			theme.Incorrect.Render("Something went wrong")+"\n\n"+
				theme.Body.Render(s.errMsg)+"\n\n"+
				theme.Hint.Render("press any key to exit"))
	}

	switch s.phase {
	case phaseLoading:
		return center(width, height, s.spin.View())
	case phaseIntro:
		return s.renderIntro(width, height)
	case phaseMemorize:
		return s.renderMemorize(width, height)
	case phaseQuestion, phaseFeedback:
		return s.renderQuestion(width, height)
	case phaseFinishing:
		return center(width, height, s.spin.View())
	}
	return ""
}

func (s *TestScreen) renderIntro(width, height int) string {
	tt := s.currentModule()

	var desc string
	switch tt {
	case screening.TestNumberComparison:
		desc = "Look at two groups and tell who has more."
	case screening.TestMentalArithmetic:
		desc = "Solve little number stories in your head."
	case screening.TestMemoryRecall:
		desc = "Watch the items, remember their order, then answer."
	}

	order := screening.TestOrder()
	step := fmt.Sprintf("Part %d of %d", s.moduleIdx+1, len(order))

	content := theme.Subtitle.Render(step) + "\n\n" +
		theme.Title.Render(tt.DisplayName()) + "\n\n" +
		theme.Body.Render(desc) + "\n\n" +
		theme.Hint.Render("press any key to start")
	return center(width, height, content)
}

func (s *TestScreen) renderMemorize(width, height int) string {
	idx := 0
	if _, active := s.cfg.Session.ActiveTest(); active {
		idx = s.cfg.Session.CurrentQuestionIndex() + 1
	}
	if idx >= len(s.pending) {
		idx = len(s.pending) - 1
	}
	q := s.pending[idx]

	card := components.SequenceCard{
		Items:        q.MemorySequence,
		Emoji:        q.Visuals.Emoji,
		SecondsLeft:  s.memorizeLeft,
		TotalSeconds: s.memorizeTotal,
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card.View(width))
}

func (s *TestScreen) renderQuestion(width, height int) string {
	q, ok := s.cfg.Session.CurrentQuestion()
	if !ok {
		return ""
	}

	var b strings.Builder

	bar := components.ProgressBar{
		Label:       fmt.Sprintf("Question %d/%d", s.cfg.Session.CurrentQuestionIndex()+1, s.cfg.Session.QuestionCount()),
		Percent:     s.cfg.Session.Progress(),
		ShowPercent: true,
		Width:       min(width-8, 60),
	}
	b.WriteString("  " + bar.View())
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(q.Story))
	b.WriteString("\n\n")

	if v := renderVisuals(q, width); v != "" {
		b.WriteString(v)
		b.WriteString("\n\n")
	}

	picker := lipgloss.PlaceHorizontal(width, lipgloss.Center, s.picker.View(q.CorrectAnswer))
	b.WriteString(picker)

	if s.phase == phaseFeedback {
		b.WriteString("\n")
		style := theme.Correct
		if !s.lastCorrect {
			style = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(s.encouragement)))
	}

	return b.String()
}

// renderVisuals draws the emoji groups for comparison questions.
func renderVisuals(q screening.Question, width int) string {
	if q.TestType != screening.TestNumberComparison || q.LeftValue == nil || q.RightValue == nil {
		return ""
	}

	left := theme.Card.Render(fmt.Sprintf("%s %s\n%s",
		q.Visuals.LeftEmoji, q.Visuals.LeftLabel,
		emojiRow(q.Visuals.Emoji, *q.LeftValue)))
	right := theme.Card.Render(fmt.Sprintf("%s %s\n%s",
		q.Visuals.RightEmoji, q.Visuals.RightLabel,
		emojiRow(q.Visuals.Emoji, *q.RightValue)))

	row := lipgloss.JoinHorizontal(lipgloss.Center, left, "   ", right)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, row)
}

// emojiRow draws count emoji, wrapping and capping large counts so the
// card stays readable for the 1-100 range.
func emojiRow(emoji string, count int) string {
	const perLine = 10
	const maxShown = 30

	if emoji == "" {
		emoji = "●"
	}
	shown := count
	if shown > maxShown {
		shown = maxShown
	}

	var b strings.Builder
	for i := 0; i < shown; i++ {
		if i > 0 && i%perLine == 0 {
			b.WriteString("\n")
		}
		b.WriteString(emoji)
	}
	if count > maxShown {
		b.WriteString(fmt.Sprintf(" +%d", count-maxShown))
	}
	b.WriteString(fmt.Sprintf("\n%d", count))
	return b.String()
}

func center(width, height int, content string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
