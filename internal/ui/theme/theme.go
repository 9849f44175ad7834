package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette — calm, friendly tones suitable for young children
var (
	Primary   = lipgloss.Color("#38BDF8") // Sky Blue
	Secondary = lipgloss.Color("#A78BFA") // Soft Violet
	Accent    = lipgloss.Color("#FBBF24") // Amber
	Success   = lipgloss.Color("#34D399") // Emerald
	Error     = lipgloss.Color("#FB7185") // Soft Rose
	Text      = lipgloss.Color("#F1F5F9") // Near White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0B1120") // Midnight
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Risk tier colors used on the report screen. The wording around them
// stays gentle; only the accent changes.
var (
	RiskLow    = lipgloss.Color("#34D399")
	RiskMedium = lipgloss.Color("#FBBF24")
	RiskHigh   = lipgloss.Color("#FB7185")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Header = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)

	Footer = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)

	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// RiskStyle returns the accent style for a risk tier string.
func RiskStyle(level string) lipgloss.Style {
	switch level {
	case "low":
		return lipgloss.NewStyle().Foreground(RiskLow).Bold(true)
	case "medium":
		return lipgloss.NewStyle().Foreground(RiskMedium).Bold(true)
	case "high":
		return lipgloss.NewStyle().Foreground(RiskHigh).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(TextDim).Bold(true)
}
