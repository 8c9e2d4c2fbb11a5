package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/cookiz/internal/ui/theme"
)

// Block-letter title.
const titleFull = `  ██████╗ ██████╗  ██████╗ ██╗  ██╗██╗███████╗
 ██╔════╝██╔═══██╗██╔═══██╗██║ ██╔╝██║╚══███╔╝
 ██║     ██║   ██║██║   ██║█████╔╝ ██║  ███╔╝
 ██║     ██║   ██║██║   ██║██╔═██╗ ██║ ███╔╝
 ╚██████╗╚██████╔╝╚██████╔╝██║  ██╗██║███████╗
  ╚═════╝ ╚═════╝  ╚═════╝ ╚═╝  ╚═╝╚═╝╚══════╝`

const titleCompact = "C · O · O · K · I · Z"

func renderTitle(cw int, compact bool) string {
	art := titleFull
	if compact {
		art = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(art))
}

// renderStatsBar shows the player's pantry: games, clears and badges.
func renderStatsBar(games, cleared, badgeTotal, cw int, compact bool) string {
	gameStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	clearStyle := lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true)
	badgeStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			gameStyle.Render(fmt.Sprintf("🍳%d", games)),
			clearStyle.Render(fmt.Sprintf("★%d", cleared)),
			badgeStyle.Render(fmt.Sprintf("✦%d", badgeTotal)),
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			gameStyle.Render(fmt.Sprintf("🍳 %d RECIPES", games)),
			clearStyle.Render(fmt.Sprintf("★ %d CLEARED", cleared)),
			badgeStyle.Render(fmt.Sprintf("✦ %d BADGES", badgeTotal)),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Frost).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

func renderUpdateNote(latestVersion string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Width(cw).
		Align(lipgloss.Center).
		Render(fmt.Sprintf("New version %s available (cookiz update)", latestVersion))
}

func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}
