package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/cookiz/internal/logging"
	"github.com/abhisek/cookiz/internal/selfupdate"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update cookiz to the latest version",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		checker := selfupdate.NewChecker(
			selfupdate.WithTimeout(2*time.Minute),
			selfupdate.WithLogger(logging.Component(e.log, "selfupdate")),
		)

		if check, _ := cmd.Flags().GetBool("check"); check {
			res, err := checker.Check(cmd.Context(), &selfupdate.CheckInput{Version: version})
			if err != nil {
				return err
			}
			if res.UpdateAvailable {
				fmt.Printf("Update available: %s -> %s\n%s\n", res.CurrentVersion, res.LatestVersion, res.ReleaseURL)
			} else {
				fmt.Printf("No update available (current %s, latest %s).\n", res.CurrentVersion, res.LatestVersion)
			}
			return nil
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		target, _ := cmd.Flags().GetString("to")
		err = checker.Update(ctx, &selfupdate.UpdateInput{
			CurrentVersion: version,
			TargetVersion:  target,
		}, func(p selfupdate.UpdateProgress) {
			fmt.Println(p.Message)
		})

		if err == nil {
			return nil
		}

		if errors.Is(err, selfupdate.ErrDevBuild) {
			fmt.Println("Cannot update a development build. Install a release build first.")
			return nil
		}
		if errors.Is(err, selfupdate.ErrAlreadyLatest) {
			fmt.Println("Already running the latest version.")
			return nil
		}
		if os.IsPermission(err) {
			return fmt.Errorf("%w\n\nTry running: sudo cookiz update", err)
		}

		return err
	},
}

func init() {
	updateCmd.Flags().Bool("check", false, "Only check whether a newer release exists")
	updateCmd.Flags().String("to", "", "Install this release tag instead of the latest, e.g. v1.2.0")
}
