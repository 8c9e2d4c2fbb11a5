package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/cookiz/internal/catalog"
	"github.com/abhisek/cookiz/internal/gamegen"
	"github.com/abhisek/cookiz/internal/llm"
	"github.com/abhisek/cookiz/internal/logging"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new game for a recipe with an LLM",
	Example: `  cookiz generate --recipe "Mushroom risotto" --ingredient arborio --ingredient stock --steps 4
  cookiz generate --recipe Pancakes --save`,
	RunE: func(cmd *cobra.Command, args []string) error {
		recipe, _ := cmd.Flags().GetString("recipe")
		ingredients, _ := cmd.Flags().GetStringSlice("ingredient")
		steps, _ := cmd.Flags().GetInt("steps")
		timeLimit, _ := cmd.Flags().GetInt("time-limit")
		id, _ := cmd.Flags().GetString("id")
		out, _ := cmd.Flags().GetString("out")
		save, _ := cmd.Flags().GetBool("save")

		if steps != 0 && (steps < gamegen.MinSteps || steps > gamegen.MaxSteps) {
			return fmt.Errorf("--steps must be between %d and %d", gamegen.MinSteps, gamegen.MaxSteps)
		}

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

		cfg := llm.ConfigFromEnv()
		if e.cfg.LLM.Provider != "" {
			cfg.Provider = e.cfg.LLM.Provider
		}
		cfg = cfg.WithModel(e.cfg.LLM.Model)
		if e.cfg.LLM.Timeout > 0 {
			cfg.Timeout = e.cfg.LLM.Timeout
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}
		ctx := cmd.Context()
		provider, err := llm.NewProvider(ctx, cfg, st.EventRepo(), logging.Component(e.log, "llm"))
		if err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}

		ctx, cancel := context.WithTimeout(ctx, cfg.Timeout*time.Duration(gamegen.DefaultConfig().MaxAttempts))
		defer cancel()

		gen := gamegen.New(provider, gamegen.DefaultConfig(), logging.Component(e.log, "gamegen"))
		fmt.Fprintf(os.Stderr, "Generating %q with %s...\n", recipe, provider.ModelID())
		def, err := gen.Generate(ctx, gamegen.GenerateInput{
			Recipe:      recipe,
			Ingredients: ingredients,
			Steps:       steps,
			TimeLimit:   timeLimit,
			ID:          id,
		})
		if err != nil {
			return err
		}

		data, err := catalog.MarshalDefinition(def)
		if err != nil {
			return err
		}

		if save && out == "" {
			if e.cfg.CatalogDir == "" {
				return fmt.Errorf("--save needs a catalog directory (--catalog or catalog_dir in config)")
			}
			out = filepath.Join(e.cfg.CatalogDir, def.ID+".yaml")
		}
		if out == "" {
			_, err = os.Stdout.Write(data)
			return err
		}
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write game: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s (%d steps). Play it with: cookiz play %s\n", out, len(def.Steps), def.ID)
		return nil
	},
}

func init() {
	f := generateCmd.Flags()
	f.String("recipe", "", "Dish or technique the game is about (required)")
	f.StringSlice("ingredient", nil, "Ingredient to feature (repeatable)")
	f.Int("steps", 0, fmt.Sprintf("Number of steps (%d-%d, 0 lets the model choose)", gamegen.MinSteps, gamegen.MaxSteps))
	f.Int("time-limit", 0, "Time limit in seconds (0 = default)")
	f.String("id", "", "Game ID (default: slug of the recipe)")
	f.String("out", "", "Write the game to this file instead of stdout")
	f.Bool("save", false, "Save into the user catalog directory")
	_ = generateCmd.MarkFlagRequired("recipe")
}
