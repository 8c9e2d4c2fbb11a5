package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/cookiz/internal/logging"
	"github.com/abhisek/cookiz/internal/simulate"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <game-id>",
	Short: "Play a game headlessly with scripted answers",
	Long: "Runs the game engine on a virtual clock. Each --answer is an option ID, or\n" +
		"comma-separated ingredient IDs for sequence steps; \"-\" answers correctly.\n" +
		"Without answers every step is answered correctly.\n\n" +
		"With --realtime the same script plays on the wall clock with the configured\n" +
		"delays, the way the TUI would see it.",
	Example: `  cookiz simulate knife-skills --think 20s
  cookiz simulate knife-skills --think 2s --realtime
  cookiz simulate bechamel --answer butter,flour,milk --answer wrong-id --answer - --run-out`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		answers, _ := cmd.Flags().GetStringArray("answer")
		think, _ := cmd.Flags().GetDuration("think")
		runOut, _ := cmd.Flags().GetBool("run-out")
		realtime, _ := cmd.Flags().GetBool("realtime")

		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		cat, err := e.openCatalog()
		if err != nil {
			return err
		}
		entry, err := cat.Get(args[0])
		if err != nil {
			return err
		}
		def := entry.Definition

		moves := simulate.ParseMoves(answers, think)
		if len(answers) == 0 {
			moves = simulate.Perfect(def, think)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		if realtime {
			fmt.Println("Playing in real time, Ctrl+C to stop...")
		}
		rep, err := simulate.Run(ctx, def, moves, simulate.Options{
			SuccessDelay: e.cfg.Engine.SuccessDelay,
			ErrorDelay:   e.cfg.Engine.ErrorDelay,
			TickInterval: e.cfg.Engine.TickInterval,
			RunOut:       runOut,
			Realtime:     realtime,
			Logger:       logging.Component(e.log, "simulate"),
		})
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s), %d steps, %s\n\n", def.Title, def.ID, len(def.Steps), clock(def.Limit()))
		for _, a := range rep.Answers {
			mark := "✗"
			if a.Correct {
				mark = "✓"
			}
			fmt.Printf("  step %d  %-12s %s %-28s %+6.1f  %s left  streak %d\n",
				a.StepIndex+1, a.Kind, mark, a.Value, a.Points, clock(a.TimeRemaining), a.Streak)
		}
		for _, r := range rep.Rejected {
			fmt.Printf("  answer %d rejected: %v\n", r.Move+1, r.Err)
		}

		fmt.Println()
		fmt.Printf("Phase:     %s after %s\n", rep.Final.Phase, rep.Elapsed.Round(100*time.Millisecond))
		fmt.Printf("Score:     %.1f\n", rep.Final.Score)
		if rep.Result != nil {
			fmt.Printf("Percent:   %d%%\n", rep.Result.FinalScorePercent)
		}
		fmt.Printf("Answers:   %d correct, %d wrong, max streak %d\n",
			rep.Final.CorrectAnswers, rep.Final.IncorrectAnswers, rep.Final.MaxStreak)
		return nil
	},
}

func init() {
	f := simulateCmd.Flags()
	f.StringArray("answer", nil, "Scripted answer (repeatable, in order)")
	f.Duration("think", 0, "Time spent before each answer")
	f.Bool("run-out", false, "Let the clock run out if answers leave the game unfinished")
	f.Bool("realtime", false, "Play on the wall clock instead of a virtual one")
}
