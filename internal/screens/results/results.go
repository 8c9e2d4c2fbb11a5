// Package results shows the outcome of a finished game.
package results

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cookiz/internal/badges"
	"github.com/abhisek/cookiz/internal/game"
	"github.com/abhisek/cookiz/internal/router"
	"github.com/abhisek/cookiz/internal/screen"
	"github.com/abhisek/cookiz/internal/store"
	"github.com/abhisek/cookiz/internal/ui/components"
	"github.com/abhisek/cookiz/internal/ui/layout"
	"github.com/abhisek/cookiz/internal/ui/theme"
)

// Summary describes a finished game.
type Summary struct {
	Title     string
	Outcome   string // store.OutcomeCompleted or store.OutcomeFailed
	State     game.State
	Steps     int
	TimeLimit int

	// Result, Previous and NewBest are only set for completed games.
	Result   *game.Result
	Previous *store.BestScore
	NewBest  bool

	Badges []badges.Award
}

// ResultsScreen displays a Summary.
type ResultsScreen struct {
	summary  Summary
	replay   func() screen.Screen
	selected int // 0 = play again, 1 = back
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates a results screen. replay builds a fresh game screen; it may
// be nil.
func New(summary Summary, replay func() screen.Screen) *ResultsScreen {
	return &ResultsScreen{summary: summary, replay: replay}
}

func (s *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultsScreen) Title() string {
	if s.summary.Outcome == store.OutcomeCompleted {
		return "Order Up!"
	}
	return "Time's Up"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Choose"},
		{Key: "Enter", Description: "Confirm"},
		{Key: "R", Description: "Play again"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "left", "h":
		s.selected = 0
	case "right", "l", "tab":
		s.selected = 1
	case "r", "R":
		return s, s.playAgain()
	case "enter":
		if s.selected == 0 {
			return s, s.playAgain()
		}
		return s, back
	case "esc":
		return s, back
	}
	return s, nil
}

func back() tea.Msg { return router.PopScreenMsg{} }

func (s *ResultsScreen) playAgain() tea.Cmd {
	if s.replay == nil {
		return back
	}
	next := s.replay()
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *ResultsScreen) View(width, height int) string {
	sum := s.summary
	cw := components.ContentWidth(width)
	center := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center)

	var sections []string

	if sum.Outcome == store.OutcomeCompleted && sum.Result != nil {
		sections = append(sections,
			center.Foreground(theme.Success).Bold(true).Render(fmt.Sprintf("%s complete!", sum.Title)),
			center.Foreground(theme.Highlight).Bold(true).Render(fmt.Sprintf("%d%%", sum.Result.FinalScorePercent)),
			center.Foreground(theme.Text).Render(fmt.Sprintf("Score %.0f    %d correct    %d wrong    %s left",
				sum.Result.Score, sum.Result.CorrectAnswers, sum.Result.IncorrectAnswers, clock(sum.Result.TimeRemaining))),
		)
		sections = append(sections, center.Render(bestLine(sum)))
	} else {
		sections = append(sections,
			center.Foreground(theme.Error).Bold(true).Render("The timer beat you this time"),
			center.Foreground(theme.Text).Render(fmt.Sprintf("Reached step %d of %d    Score %.0f",
				min(sum.State.CurrentStepIndex+1, sum.Steps), sum.Steps, sum.State.Score)),
		)
	}

	if len(sum.Badges) > 0 {
		var lines []string
		for _, a := range sum.Badges {
			lines = append(lines, lipgloss.NewStyle().Foreground(components.RarityColor(a.Rarity)).Render(
				fmt.Sprintf("%s %s %s: %s", a.Type.Icon(), a.Rarity.DisplayName(), a.Type.DisplayName(), a.Reason)))
		}
		sections = append(sections, components.Card(strings.Join(lines, "\n"), cw))
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		components.Button("PLAY AGAIN", s.selected == 0, 16),
		"  ",
		components.Button("HOME", s.selected == 1, 16),
	)
	sections = append(sections, center.Render(buttons))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n\n"))
}

func bestLine(sum Summary) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	switch {
	case sum.NewBest && sum.Previous != nil:
		return lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
			Render(fmt.Sprintf("New best! (was %d%%)", sum.Previous.ScorePercent))
	case sum.NewBest:
		return lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("First clear! New best")
	case sum.Previous != nil:
		return dim.Render(fmt.Sprintf("Best: %d%%", sum.Previous.ScorePercent))
	}
	return ""
}

func clock(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
