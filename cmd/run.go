package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/cookiz/internal/app"
	"github.com/abhisek/cookiz/internal/logging"
	"github.com/abhisek/cookiz/internal/screens/home"
	"github.com/abhisek/cookiz/internal/screens/play"
	"github.com/abhisek/cookiz/internal/selfupdate"
)

// runApp opens the store and catalog and launches the TUI, optionally
// straight into gameID.
func runApp(cmd *cobra.Command, gameID string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	st, err := e.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	cat, err := e.openCatalog()
	if err != nil {
		return err
	}

	opts := app.Options{
		Home: home.Deps{
			Catalog:   cat,
			EventRepo: st.EventRepo(),
			ScoreRepo: st.ScoreRepo(),
			Play: play.Deps{
				EventRepo: st.EventRepo(),
				ScoreRepo: st.ScoreRepo(),
				Timing:    e.playTiming(),
				Log:       logging.Component(e.log, "tui"),
			},
			Log: e.log,
		},
		CheckUpdate: checkForUpdate(e),
		Log:         e.log,
	}

	if gameID != "" {
		entry, err := cat.Get(gameID)
		if err != nil {
			return err
		}
		def := entry.Definition
		opts.InitialGame = &def
	}

	e.log.Info().Str("game", gameID).Int("games", cat.Len()).Msg("starting tui")
	if err := app.Run(opts); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func checkForUpdate(e *env) func(context.Context) (string, error) {
	checker := selfupdate.NewChecker(
		selfupdate.WithTimeout(3*time.Second),
		selfupdate.WithLogger(logging.Component(e.log, "selfupdate")),
	)
	return func(ctx context.Context) (string, error) {
		res, err := checker.Check(ctx, &selfupdate.CheckInput{Version: version})
		if err != nil || !res.UpdateAvailable {
			return "", err
		}
		return res.LatestVersion, nil
	}
}
