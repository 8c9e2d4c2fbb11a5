package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cookiz",
	Short: "Timed cooking challenges in your terminal",
	Long: "Cookiz: pick a recipe, answer its steps against the clock, and chase a best score.\n\n" +
		"LLM game generation reads COOKIZ_LLM_PROVIDER and COOKIZ_<PROVIDER>_API_KEY.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("db", "", "Path to SQLite database file (overrides COOKIZ_DB env var)")
	flags.String("catalog", "", "Directory of extra game definitions (*.yaml)")
	flags.String("config", "", "Path to a config file")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}
