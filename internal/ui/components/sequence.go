package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/priyam/numsense/internal/ui/theme"
)

// SequenceCard shows a memory sequence during the memorize phase. The
// items disappear before the question is asked, so the card also renders
// a countdown of the remaining study time.
type SequenceCard struct {
	Items        []string
	Emoji        string
	SecondsLeft  int
	TotalSeconds int
}

// View renders the sequence with its countdown.
func (c SequenceCard) View(width int) string {
	var b strings.Builder

	title := theme.Title.Render(fmt.Sprintf("%s Remember this order!", c.Emoji))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, title))
	b.WriteString("\n\n")

	cells := make([]string, 0, len(c.Items))
	for i, item := range c.Items {
		cell := theme.Card.Render(fmt.Sprintf("%d\n%s", i+1, item))
		cells = append(cells, cell)
	}
	row := lipgloss.JoinHorizontal(lipgloss.Center, cells...)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, row))
	b.WriteString("\n\n")

	bar := ProgressBar{
		Percent: float64(c.SecondsLeft) / float64(max(c.TotalSeconds, 1)) * 100,
		Width:   min(width-8, 40),
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n")

	hint := theme.Hint.Render(fmt.Sprintf("%d seconds left", c.SecondsLeft))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, hint))

	return b.String()
}
