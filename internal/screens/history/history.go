// Package history lists past play-throughs and best scores.
package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cookiz/internal/badges"
	"github.com/abhisek/cookiz/internal/catalog"
	"github.com/abhisek/cookiz/internal/router"
	"github.com/abhisek/cookiz/internal/screen"
	"github.com/abhisek/cookiz/internal/store"
	"github.com/abhisek/cookiz/internal/ui/components"
	"github.com/abhisek/cookiz/internal/ui/layout"
	"github.com/abhisek/cookiz/internal/ui/theme"
)

const recentLimit = 50

type historyLoadedMsg struct {
	Games  []store.GameSummaryRecord
	Best   []store.BestScore
	Badges map[string][]store.BadgeEventRecord // sessionID → badges
	Err    error
}

type tab int

const (
	tabRecent tab = iota
	tabBest
)

// HistoryScreen displays past games with their badges, and best scores.
type HistoryScreen struct {
	eventRepo store.EventRepo
	scoreRepo store.ScoreRepo
	catalog   *catalog.Catalog

	games    []store.GameSummaryRecord
	best     []store.BestScore
	badges   map[string][]store.BadgeEventRecord
	tab      tab
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. scoreRepo and cat may be nil.
func New(eventRepo store.EventRepo, scoreRepo store.ScoreRepo, cat *catalog.Catalog) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		scoreRepo: scoreRepo,
		catalog:   cat,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		games, err := s.eventRepo.QueryGameSummaries(ctx, store.QueryOpts{Limit: recentLimit})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}

		var best []store.BestScore
		if s.scoreRepo != nil {
			if best, err = s.scoreRepo.AllBest(ctx); err != nil {
				return historyLoadedMsg{Err: err}
			}
		}

		bySession := make(map[string][]store.BadgeEventRecord)
		all, err := s.eventRepo.QueryBadgeEvents(ctx, store.QueryOpts{})
		if err != nil {
			return historyLoadedMsg{Games: games, Best: best, Badges: bySession}
		}
		for _, b := range all {
			bySession[b.SessionID] = append(bySession[b.SessionID], b)
		}
		return historyLoadedMsg{Games: games, Best: best, Badges: bySession}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Recent / Best"},
		{Key: "Enter", Description: "Badges"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.games = msg.Games
			s.best = msg.Best
			s.badges = msg.Badges
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "tab", "shift+tab":
			if s.tab == tabRecent {
				s.tab = tabBest
			} else {
				s.tab = tabRecent
			}
			s.selected = 0
			return s, nil
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < s.rows()-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if s.tab == tabRecent {
				s.expanded[s.selected] = !s.expanded[s.selected]
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) rows() int {
	if s.tab == tabBest {
		return len(s.best)
	}
	return len(s.games)
}

func (s *HistoryScreen) gameTitle(id string) string {
	if s.catalog != nil {
		if e, err := s.catalog.Get(id); err == nil {
			return e.Definition.Title
		}
	}
	return id
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderTabs()))
	b.WriteString("\n\n")

	if s.tab == tabBest {
		s.renderBest(&b, width)
	} else {
		s.renderRecent(&b, width)
	}
	return b.String()
}

func (s *HistoryScreen) renderTabs() string {
	active := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	idle := lipgloss.NewStyle().Foreground(theme.TextDim)
	recent, best := idle, idle
	if s.tab == tabRecent {
		recent = active
	} else {
		best = active
	}
	return recent.Render(fmt.Sprintf("Recent (%d)", len(s.games))) + "     " +
		best.Render(fmt.Sprintf("Best scores (%d)", len(s.best)))
}

func (s *HistoryScreen) renderRecent(b *strings.Builder, width int) {
	if len(s.games) == 0 {
		b.WriteString(empty(width, "No games yet. Pick a recipe and start cooking!"))
		return
	}

	for i, g := range s.games {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		badgeStr := ""
		if g.BadgeCount > 0 {
			badgeStr = fmt.Sprintf("  %d badge", g.BadgeCount)
			if g.BadgeCount > 1 {
				badgeStr += "s"
			}
		}

		line := fmt.Sprintf("%s%s  %-22s %-9s %3d%%  %d/%d steps  %s%s",
			prefix, g.Timestamp.Format("Jan 02 15:04"), truncate(s.gameTitle(g.GameID), 22),
			g.Outcome, g.ScorePercent, g.StepsCompleted, g.StepsTotal, clock(g.DurationSecs), badgeStr)

		style := lipgloss.NewStyle().Foreground(outcomeColor(g.Outcome))
		if i == s.selected {
			style = style.Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			s.renderBadges(b, width, g.SessionID)
		}
	}
}

func (s *HistoryScreen) renderBadges(b *strings.Builder, width int, sessionID string) {
	recs := s.badges[sessionID]
	if len(recs) == 0 {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
				Render("    No badges this game")))
		b.WriteString("\n")
		return
	}
	for _, rec := range recs {
		typ := badges.BadgeType(rec.BadgeType)
		rarity := badges.Rarity(rec.Rarity)
		line := fmt.Sprintf("    %s %s %s: %s", typ.Icon(), rarity.DisplayName(), typ.DisplayName(), rec.Reason)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(components.RarityColor(rarity)).Render(line)))
		b.WriteString("\n")
	}
}

func (s *HistoryScreen) renderBest(b *strings.Builder, width int) {
	if len(s.best) == 0 {
		b.WriteString(empty(width, "No recipes cleared yet"))
		return
	}
	for i, best := range s.best {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		line := fmt.Sprintf("%s%-24s %3d%%  %5.0f pts  %s left  %s",
			prefix, truncate(s.gameTitle(best.GameID), 24), best.ScorePercent, best.Score,
			clock(best.TimeRemaining), best.AchievedAt.Format("Jan 02, 2006"))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
}

func empty(width int, text string) string {
	return lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
		Render(text)
}

func outcomeColor(outcome string) color.Color {
	switch outcome {
	case store.OutcomeCompleted:
		return theme.Success
	case store.OutcomeFailed:
		return theme.Error
	default:
		return theme.TextDim
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func clock(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
