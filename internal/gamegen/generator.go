// Package gamegen turns a recipe description into a playable game
// definition using an LLM provider.
package gamegen

import (
	"context"

	"github.com/abhisek/cookiz/internal/game"
)

// Generator produces game definitions.
type Generator interface {
	// Generate returns a validated definition for the given recipe. All
	// configured validators are run before returning.
	Generate(ctx context.Context, input GenerateInput) (game.Definition, error)
}

// GenerateInput describes the game to build.
type GenerateInput struct {
	// Recipe is the dish or technique the game teaches, e.g. "Risotto".
	Recipe string

	// Ingredients the game should draw on. Optional.
	Ingredients []string

	// Steps is the exact number of steps wanted. Zero lets the model pick
	// between MinSteps and MaxSteps.
	Steps int

	// TimeLimit in seconds. Zero uses the engine default.
	TimeLimit int

	// ID overrides the slug derived from Recipe.
	ID string
}

// Step count bounds accepted from the model.
const (
	MinSteps = 2
	MaxSteps = 8
)

// GameID returns the catalog id for the generated game.
func (in GenerateInput) GameID() string {
	if in.ID != "" {
		return in.ID
	}
	return Slug(in.Recipe)
}
