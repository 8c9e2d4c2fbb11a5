// Package app wires the screens into the root Bubble Tea model.
package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/cookiz/internal/game"
	"github.com/abhisek/cookiz/internal/router"
	"github.com/abhisek/cookiz/internal/screen"
	"github.com/abhisek/cookiz/internal/screens/home"
	"github.com/abhisek/cookiz/internal/screens/play"
	"github.com/abhisek/cookiz/internal/ui/layout"
)

// Options configures the TUI.
type Options struct {
	Home home.Deps

	// InitialGame, when set, is opened on top of the home screen.
	InitialGame *game.Definition

	// CheckUpdate runs in the background at startup and returns the latest
	// released version, or "" when up to date. May be nil.
	CheckUpdate func(ctx context.Context) (string, error)

	Log zerolog.Logger
}

type updateCheckedMsg struct {
	Latest string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	opts   Options
	router *router.Router
	width  int
	height int
}

func newAppModel(opts Options) AppModel {
	return AppModel{
		opts:   opts,
		router: router.New(home.New(opts.Home)),
	}
}

func (m AppModel) Init() tea.Cmd {
	var cmds []tea.Cmd
	if def := m.opts.InitialGame; def != nil {
		s := play.New(*def, m.opts.Home.Play)
		cmds = append(cmds, func() tea.Msg { return router.PushScreenMsg{Screen: s} })
	}
	if check := m.opts.CheckUpdate; check != nil {
		log := m.opts.Log
		cmds = append(cmds, func() tea.Msg {
			latest, err := check(context.Background())
			if err != nil {
				log.Debug().Err(err).Msg("update check failed")
				return nil
			}
			return updateCheckedMsg{Latest: latest}
		})
	}
	return tea.Batch(cmds...)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case updateCheckedMsg:
		if msg.Latest != "" {
			if h, ok := m.router.Root().(*home.HomeScreen); ok {
				h.SetLatestVersion(msg.Latest)
			}
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	var title, status string
	if active != nil {
		title = active.Title()
	}
	if sp, ok := active.(screen.StatusProvider); ok {
		status = sp.Status()
	}
	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	var hints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		hints = kp.KeyHints()
	} else if m.router.Depth() > 1 {
		hints = []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	} else {
		hints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
		}
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
