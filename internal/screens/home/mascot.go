package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cookiz/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // Default
	MascotCelebrating                      // Gold, star eyes: a best score in the last day
)

const mascotIdle = ` .-~~-.
(      )
 |____|
┌──────┐
│ ◉  ◉ │
│  ‿   │
└──────┘`

const mascotCelebrating = ` .-~~-.
(      )
 |____|
┌──────┐
│ ★  ★ │
│  ▽   │
└─╥══╥─┘`

// RenderMascot returns the chef mascot art for the given variant.
func RenderMascot(variant MascotVariant) string {
	art, fg := mascotIdle, theme.Text
	if variant == MascotCelebrating {
		art, fg = mascotCelebrating, theme.Highlight
	}
	return lipgloss.NewStyle().Foreground(fg).Render(art)
}
