package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/cookiz/internal/badges"
	"github.com/abhisek/cookiz/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show best scores, recent games and badge counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, done, err := openStoreOnly(cmd)
		if err != nil {
			return err
		}
		defer done()

		ctx := cmd.Context()
		best, err := s.ScoreRepo().AllBest(ctx)
		if err != nil {
			return fmt.Errorf("query best scores: %w", err)
		}
		games, err := s.EventRepo().QueryGameSummaries(ctx, store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query games: %w", err)
		}
		counts, total, err := s.EventRepo().BadgeCounts(ctx)
		if err != nil {
			return fmt.Errorf("query badges: %w", err)
		}

		outcomes := make(map[string]int)
		for _, g := range games {
			outcomes[g.Outcome]++
		}
		fmt.Printf("Games played: %d  (%d completed, %d failed, %d exited)\n\n",
			len(games), outcomes[store.OutcomeCompleted], outcomes[store.OutcomeFailed], outcomes[store.OutcomeExited])

		if len(best) == 0 {
			fmt.Println("No games completed yet.")
		} else {
			scores := plainTable("Game", "Best", "Points", "Time left", "Set on")
			for _, b := range best {
				scores.Row(b.GameID, fmt.Sprintf("%d%%", b.ScorePercent), fmt.Sprintf("%.1f", b.Score),
					clock(b.TimeRemaining), b.AchievedAt.Local().Format("2006-01-02"))
			}
			fmt.Println(scores)
		}

		fmt.Println()
		fmt.Printf("Badges: %d\n", total)
		fmt.Println(strings.Repeat("─", 64))
		for _, t := range badges.AllBadgeTypes() {
			fmt.Printf("%s %-14s %d\n", t.Icon(), t.DisplayName(), counts[string(t)])
		}
		return nil
	},
}
