package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette, warm kitchen tones on a dark background.
var (
	Primary   = lipgloss.Color("#EF4444") // Tomato
	Secondary = lipgloss.Color("#22C55E") // Basil
	Accent    = lipgloss.Color("#F59E0B") // Saffron
	Highlight = lipgloss.Color("#FDE047") // Butter
	Frost     = lipgloss.Color("#38BDF8") // Ice bath
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#F43F5E")
	Text      = lipgloss.Color("#FAFAF9")
	TextDim   = lipgloss.Color("#A8A29E")
	BgDark    = lipgloss.Color("#1C1917") // Cast iron
	BgCard    = lipgloss.Color("#292524")
	Border    = lipgloss.Color("#44403C")
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

// Components
var (
	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(Text).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Background(BgCard).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)
)
