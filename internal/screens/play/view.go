package play

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/cookiz/internal/game"
	"github.com/abhisek/cookiz/internal/ui/components"
	"github.com/abhisek/cookiz/internal/ui/theme"
)

// lowTime is when the countdown bar turns red.
const lowTime = 30

var kindLabels = map[game.Kind]string{
	game.KindSelection:   "Pick one",
	game.KindSequence:    "Put in order",
	game.KindTemperature: "Set the heat",
}

func (s *PlayScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nCannot start game: %s\n\nPress Esc to go back.", s.errMsg))
	}
	if s.engine == nil {
		return ""
	}

	st := s.engine.Snapshot()
	step := s.engine.CurrentStep()
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, s.renderStatus(st, cw))
	if step != nil {
		sections = append(sections, components.Card(s.renderStep(st, step), cw))
	}
	if line := s.renderFeedback(st); line != "" {
		sections = append(sections, line)
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (s *PlayScreen) renderStatus(st game.State, cw int) string {
	limit := s.def.Limit()
	bar := components.NewProgressBar(clock(st.TimeRemaining), float64(st.TimeRemaining)/float64(limit), false, cw)
	if st.TimeRemaining <= lowTime {
		bar.Fill = theme.Error
	}

	stepNo := min(st.CurrentStepIndex+1, len(s.def.Steps))
	info := fmt.Sprintf("Step %d/%d    Score %.0f    Streak %d",
		stepNo, len(s.def.Steps), st.Score, st.Streak)

	return bar.View() + "\n" + lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(info)
}

func (s *PlayScreen) renderStep(st game.State, step game.Step) string {
	header := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(kindLabels[step.Kind()])

	list := components.ChoiceList{Prompt: step.Text()}
	switch step := step.(type) {
	case game.SelectionStep:
		list.Choices = s.optionChoices(step.Options, st.Feedback)
	case game.TemperatureStep:
		list.Choices = s.optionChoices(step.Options, st.Feedback)
	case game.SequenceStep:
		list.Choices = sequenceChoices(step.Ingredients, st.Selections)
	}
	return header + "\n\n" + list.View()
}

func (s *PlayScreen) optionChoices(opts []game.Option, fb *game.Feedback) []components.Choice {
	out := make([]components.Choice, len(opts))
	for i, o := range opts {
		out[i] = components.Choice{Label: o.Label}
		if fb != nil && i == s.lastPick {
			if fb.Kind == game.FeedbackSuccess {
				out[i].State = components.ChoiceCorrect
			} else {
				out[i].State = components.ChoiceWrong
			}
		}
	}
	return out
}

func sequenceChoices(ings []game.Ingredient, picked []string) []components.Choice {
	out := make([]components.Choice, len(ings))
	for i, ing := range ings {
		out[i] = components.Choice{Label: ing.Name}
		if pos := slices.Index(picked, ing.ID); pos >= 0 {
			out[i].Badge = strconv.Itoa(pos + 1)
			out[i].State = components.ChoicePicked
		}
	}
	return out
}

func (s *PlayScreen) renderFeedback(st game.State) string {
	if st.Feedback != nil {
		style := theme.Correct
		if st.Feedback.Kind == game.FeedbackError {
			style = theme.Incorrect
		}
		return style.Render(st.Feedback.Message)
	}
	if s.notice != "" {
		return theme.Hint.Render(s.notice)
	}
	return ""
}
