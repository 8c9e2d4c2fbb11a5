package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/cookiz/internal/ui/theme"
)

// ChoiceState is the highlight applied to one choice.
type ChoiceState int

const (
	ChoiceIdle ChoiceState = iota
	ChoicePicked
	ChoiceCorrect
	ChoiceWrong
)

// Choice is one numbered line in a ChoiceList.
type Choice struct {
	Label string
	// Badge is shown before the label, e.g. the position of a picked
	// ingredient.
	Badge string
	State ChoiceState
}

// ChoiceList renders options or ingredients keyed by number.
type ChoiceList struct {
	Prompt  string
	Choices []Choice
}

// View renders the list.
func (c ChoiceList) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(c.Prompt))
	b.WriteString("\n\n")

	for i, ch := range c.Choices {
		badge := "   "
		if ch.Badge != "" {
			badge = fmt.Sprintf("[%s]", ch.Badge)
		}
		line := fmt.Sprintf("%s %d)  %s", badge, i+1, ch.Label)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch ch.State {
		case ChoicePicked:
			style = style.Foreground(theme.Accent).Bold(true)
		case ChoiceCorrect:
			style = style.Foreground(theme.Success).Bold(true)
		case ChoiceWrong:
			style = style.Foreground(theme.Error).Bold(true)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
