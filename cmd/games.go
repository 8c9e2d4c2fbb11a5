package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/cookiz/internal/catalog"
	"github.com/abhisek/cookiz/internal/game"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "Browse and check game definitions",
}

var gamesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available games",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		cat, err := e.openCatalog()
		if err != nil {
			return err
		}

		query, _ := cmd.Flags().GetString("search")
		entries := cat.Search(query)
		if len(entries) == 0 {
			fmt.Println("No games found.")
			return nil
		}

		fmt.Printf("%-22s  %-28s  %-5s  %-6s  %s\n", "ID", "Title", "Steps", "Limit", "Source")
		fmt.Println(strings.Repeat("─", 80))
		for _, entry := range entries {
			d := entry.Definition
			fmt.Printf("%-22s  %-28s  %-5d  %-6s  %s\n",
				d.ID, d.Title, len(d.Steps), clock(d.Limit()), entry.Source)
		}
		return nil
	},
}

var gamesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a game definition as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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
		data, err := catalog.MarshalDefinition(entry.Definition)
		if err != nil {
			return err
		}
		fmt.Printf("# source: %s\n", entry.Source)
		_, err = os.Stdout.Write(data)
		return err
	},
}

var gamesValidateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check game definition files against the schema and engine rules",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, path := range args {
			def, err := validateFile(path)
			if err != nil {
				failed++
				fmt.Printf("✗ %s\n", path)
				var verr *catalog.ValidationError
				if errors.As(err, &verr) {
					for _, p := range verr.Problems {
						fmt.Printf("    %s\n", p)
					}
				} else {
					fmt.Printf("    %v\n", err)
				}
				continue
			}
			fmt.Printf("✓ %s  (%s, %d steps)\n", path, def.ID, len(def.Steps))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files invalid", failed, len(args))
		}
		return nil
	},
}

func validateFile(path string) (game.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return game.Definition{}, err
	}
	return catalog.ParseDefinition(data)
}

func clock(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func init() {
	gamesListCmd.Flags().String("search", "", "Filter by title, ID or description")

	gamesCmd.AddCommand(gamesListCmd)
	gamesCmd.AddCommand(gamesShowCmd)
	gamesCmd.AddCommand(gamesValidateCmd)
}
