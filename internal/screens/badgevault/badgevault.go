// Package badgevault shows every badge the player has earned, grouped by type.
package badgevault

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cookiz/internal/badges"
	"github.com/abhisek/cookiz/internal/router"
	"github.com/abhisek/cookiz/internal/screen"
	"github.com/abhisek/cookiz/internal/store"
	"github.com/abhisek/cookiz/internal/ui/components"
	"github.com/abhisek/cookiz/internal/ui/layout"
	"github.com/abhisek/cookiz/internal/ui/theme"
)

type badgesLoadedMsg struct {
	Records []store.BadgeEventRecord
	Counts  map[string]int
	Total   int
	Err     error
}

// VaultScreen displays the badge collection.
type VaultScreen struct {
	eventRepo    store.EventRepo
	records      []store.BadgeEventRecord
	counts       map[string]int
	total        int
	selectedType int // index into badges.AllBadgeTypes
	scrollOffset int
	loaded       bool
	errMsg       string
}

var _ screen.Screen = (*VaultScreen)(nil)
var _ screen.KeyHintProvider = (*VaultScreen)(nil)

// New creates a new VaultScreen.
func New(eventRepo store.EventRepo) *VaultScreen {
	return &VaultScreen{eventRepo: eventRepo}
}

func (s *VaultScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		records, err := s.eventRepo.QueryBadgeEvents(ctx, store.QueryOpts{})
		if err != nil {
			return badgesLoadedMsg{Err: err}
		}
		counts, total, err := s.eventRepo.BadgeCounts(ctx)
		return badgesLoadedMsg{Records: records, Counts: counts, Total: total, Err: err}
	}
}

func (s *VaultScreen) Title() string {
	return "Badges"
}

func (s *VaultScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Switch type"},
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *VaultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case badgesLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.records = msg.Records
			s.counts = msg.Counts
			s.total = msg.Total
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		n := len(badges.AllBadgeTypes())
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "tab", "right", "l":
			s.selectedType = (s.selectedType + 1) % n
			s.scrollOffset = 0
		case "shift+tab", "left", "h":
			s.selectedType = (s.selectedType - 1 + n) % n
			s.scrollOffset = 0
		case "up", "k":
			if s.scrollOffset > 0 {
				s.scrollOffset--
			}
		case "down", "j":
			if s.scrollOffset < len(s.filtered())-1 {
				s.scrollOffset++
			}
		}
	}
	return s, nil
}

func (s *VaultScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading badges...")
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Text).
		Render(fmt.Sprintf("\nTotal: %d badges\n", s.total)))
	b.WriteString("\n")

	var tabs []string
	for i, t := range badges.AllBadgeTypes() {
		label := fmt.Sprintf("%s %s (%d)", t.Icon(), t.DisplayName(), s.counts[string(t)])
		if i == s.selectedType {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(label))
		} else {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.TextDim).Render(label))
		}
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(tabs, "     ")))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", max(min(width-8, 60), 0)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	filtered := s.filtered()
	if len(filtered) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("No badges of this type yet"))
		return b.String()
	}

	maxVisible := max(height-10, 3)
	start := s.scrollOffset
	end := min(start+maxVisible, len(filtered))

	for _, rec := range filtered[start:end] {
		rarity := badges.Rarity(rec.Rarity)
		line := fmt.Sprintf("  %-10s %-34s %s", rarity.DisplayName(), rec.Reason, rec.Timestamp.Format("Jan 02, 2006"))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(components.RarityColor(rarity)).Render(line)))
		b.WriteString("\n")
	}

	if end < len(filtered) {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render(fmt.Sprintf("... %d more", len(filtered)-end)))
	}

	return b.String()
}

func (s *VaultScreen) filtered() []store.BadgeEventRecord {
	selected := string(badges.AllBadgeTypes()[s.selectedType])
	var out []store.BadgeEventRecord
	for _, r := range s.records {
		if r.BadgeType == selected {
			out = append(out, r)
		}
	}
	return out
}
