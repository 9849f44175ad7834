package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/priyam/numsense/internal/ui/theme"
)

// OptionPicker is the answer selector for screening questions. Besides
// navigation it tracks how many times the child switched away from an
// option they had already settled on; that count feeds the behavioral
// features, so it must not include the initial cursor placement.
type OptionPicker struct {
	Options  []string
	Selected int

	touched bool
	changes int

	Submitted bool
}

// NewOptionPicker creates a picker over the given options.
func NewOptionPicker(options []string) OptionPicker {
	return OptionPicker{Options: options}
}

// Update handles keyboard navigation. Enter submits the highlighted
// option; number keys jump and submit in one stroke.
func (p OptionPicker) Update(msg tea.Msg) (OptionPicker, tea.Cmd) {
	if p.Submitted {
		return p, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch kmsg.String() {
	case "up", "k":
		p.move(-1)
	case "down", "j":
		p.move(1)
	case "enter":
		p.Submitted = true
	case "1", "2", "3", "4", "5":
		idx := int(kmsg.String()[0] - '1')
		if idx < len(p.Options) {
			p.jump(idx)
			p.Submitted = true
		}
	}

	return p, nil
}

func (p *OptionPicker) move(delta int) {
	next := p.Selected + delta
	if next < 0 || next >= len(p.Options) {
		return
	}
	p.register(next)
}

func (p *OptionPicker) jump(idx int) {
	if idx == p.Selected {
		return
	}
	p.register(idx)
}

// register moves the cursor. The first movement is the child picking an
// option, not changing their mind, so it does not count.
func (p *OptionPicker) register(next int) {
	if p.touched {
		p.changes++
	}
	p.touched = true
	p.Selected = next
}

// Changes returns how many times the selection was switched.
func (p OptionPicker) Changes() int {
	return p.changes
}

// Value returns the highlighted option text.
func (p OptionPicker) Value() string {
	if p.Selected < 0 || p.Selected >= len(p.Options) {
		return ""
	}
	return p.Options[p.Selected]
}

// View renders the option list. After submission the correct option is
// highlighted green and a wrong pick red.
func (p OptionPicker) View(correctAnswer string) string {
	var s string
	for i, opt := range p.Options {
		prefix := "  "
		if i == p.Selected && !p.Submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		switch {
		case p.Submitted && opt == correctAnswer:
			s += theme.Correct.Render(line) + "\n"
		case p.Submitted && i == p.Selected:
			s += theme.Incorrect.Render(line) + "\n"
		case p.Submitted:
			s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
		case i == p.Selected:
			s += theme.Selected.Render(line) + "\n"
		default:
			s += theme.Unselected.Render(line) + "\n"
		}
	}
	return s
}
