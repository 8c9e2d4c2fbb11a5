// Package home is the landing screen: the recipe catalog plus history and
// badge entries.
package home

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/cookiz/internal/catalog"
	"github.com/abhisek/cookiz/internal/router"
	"github.com/abhisek/cookiz/internal/screen"
	"github.com/abhisek/cookiz/internal/screens/badgevault"
	"github.com/abhisek/cookiz/internal/screens/history"
	"github.com/abhisek/cookiz/internal/screens/play"
	"github.com/abhisek/cookiz/internal/store"
	"github.com/abhisek/cookiz/internal/ui/components"
	"github.com/abhisek/cookiz/internal/ui/layout"
)

// Deps are the services the home screen hands to the screens it opens.
// Repositories may be nil, in which case history and badges are disabled.
type Deps struct {
	Catalog   *catalog.Catalog
	EventRepo store.EventRepo
	ScoreRepo store.ScoreRepo
	Play      play.Deps

	// LatestVersion is shown as an update note when set.
	LatestVersion string
	Log           zerolog.Logger
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	deps   Deps
	search components.SearchInput
	menu   components.Menu

	best       map[string]store.BestScore
	badgeTotal int
	mascot     MascotVariant
	now        func() time.Time
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	h := &HomeScreen{
		deps:   deps,
		search: components.NewSearchInput("search recipes", 30),
		now:    time.Now,
	}
	h.refresh()
	h.rebuildMenu(false)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

// Resume reloads best scores and badge counts after a game.
func (h *HomeScreen) Resume() tea.Cmd {
	h.refresh()
	h.rebuildMenu(true)
	return nil
}

// SetLatestVersion shows an update note.
func (h *HomeScreen) SetLatestVersion(v string) {
	h.deps.LatestVersion = v
}

func (h *HomeScreen) refresh() {
	ctx := context.Background()
	h.best = make(map[string]store.BestScore)
	h.mascot = MascotIdle

	if h.deps.ScoreRepo != nil {
		all, err := h.deps.ScoreRepo.AllBest(ctx)
		if err != nil {
			h.deps.Log.Warn().Err(err).Msg("load best scores")
		}
		for _, b := range all {
			h.best[b.GameID] = b
			if h.now().Sub(b.AchievedAt) < 24*time.Hour {
				h.mascot = MascotCelebrating
			}
		}
	}
	if h.deps.EventRepo != nil {
		_, total, err := h.deps.EventRepo.BadgeCounts(ctx)
		if err != nil {
			h.deps.Log.Warn().Err(err).Msg("load badge counts")
		}
		h.badgeTotal = total
	}
}

func (h *HomeScreen) rebuildMenu(keepSelection bool) {
	var items []components.MenuItem

	var entries []catalog.Entry
	if h.deps.Catalog != nil {
		entries = h.deps.Catalog.Search(h.search.Value())
	}
	for _, e := range entries {
		def := e.Definition
		items = append(items, components.MenuItem{
			Label: def.Title,
			Hint:  h.gameHint(def.ID, len(def.Steps)),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: play.New(def, h.deps.Play)}
				}
			},
		})
	}
	if len(entries) == 0 {
		items = append(items, components.MenuItem{Label: "No recipes match", Disabled: true})
	}

	noRepo := h.deps.EventRepo == nil
	items = append(items,
		components.MenuItem{Label: "", Disabled: true},
		components.MenuItem{Label: "HISTORY", Disabled: noRepo, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(h.deps.EventRepo, h.deps.ScoreRepo, h.deps.Catalog)}
			}
		}},
		components.MenuItem{Label: "BADGES", Disabled: noRepo, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: badgevault.New(h.deps.EventRepo)}
			}
		}},
		components.MenuItem{Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	)

	sel := h.menu.Selected
	h.menu = components.NewMenu(items)
	if keepSelection && sel < len(items) && !items[sel].Disabled {
		h.menu.Selected = sel
	}
}

func (h *HomeScreen) gameHint(id string, steps int) string {
	hint := fmt.Sprintf("%d steps", steps)
	if steps == 1 {
		hint = "1 step"
	}
	if b, ok := h.best[id]; ok {
		return hint + fmt.Sprintf(" · best %d%%", b.ScorePercent)
	}
	return hint + " · new"
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, isKey := msg.(tea.KeyMsg)

	if h.search.Focused() {
		if isKey {
			switch kmsg.String() {
			case "esc":
				h.search.Reset()
				h.search.Blur()
				h.rebuildMenu(false)
				return h, nil
			case "enter", "down", "tab":
				h.search.Blur()
				return h, nil
			}
		}
		prev := h.search.Value()
		var cmd tea.Cmd
		h.search, cmd = h.search.Update(msg)
		if h.search.Value() != prev {
			h.rebuildMenu(false)
		}
		return h, cmd
	}

	if isKey {
		switch kmsg.String() {
		case "/":
			return h, h.search.Focus()
		case "esc":
			if h.search.Value() != "" {
				h.search.Reset()
				h.rebuildMenu(false)
			}
			return h, nil
		case "q":
			return h, tea.Quit
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 34 || width < 100
	cw := components.ContentWidth(width)

	games := 0
	if h.deps.Catalog != nil {
		games = h.deps.Catalog.Len()
	}

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderMascotBox(h.mascot, cw))
	}
	sections = append(sections, renderStatsBar(games, len(h.best), h.badgeTotal, cw, compact))
	if h.deps.LatestVersion != "" {
		sections = append(sections, renderUpdateNote(h.deps.LatestVersion, cw))
	}

	center := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center)
	sections = append(sections, center.Render(h.search.View()))

	menu := lipgloss.NewStyle().Align(lipgloss.Left).Render(strings.TrimRight(h.menu.View(), "\n"))
	sections = append(sections, center.Render(menu))

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.search.Focused() {
		return []layout.KeyHint{
			{Key: "Type", Description: "Filter"},
			{Key: "Enter", Description: "Done"},
			{Key: "Esc", Description: "Clear"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "/", Description: "Search"},
		{Key: "Q", Description: "Quit"},
	}
}
