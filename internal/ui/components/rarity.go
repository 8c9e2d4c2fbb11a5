package components

import (
	"image/color"

	"github.com/abhisek/cookiz/internal/badges"
	"github.com/abhisek/cookiz/internal/ui/theme"
)

// RarityColor returns the display color for a badge rarity.
func RarityColor(r badges.Rarity) color.Color {
	switch r {
	case badges.RarityRare:
		return theme.Secondary
	case badges.RarityEpic:
		return theme.Primary
	case badges.RarityLegendary:
		return theme.Highlight
	default:
		return theme.Text
	}
}
