package gamegen

import "github.com/abhisek/cookiz/internal/llm"

// Schema name and description sent with every generation request.
const (
	schemaName        = "cooking-game"
	schemaDescription = "A timed cooking quiz made of selection, sequence and temperature steps"
)

// gameSchema is the structured output schema for one request. check runs
// on every answer before the provider returns it.
func gameSchema(check llm.ResponseCheck) *llm.Schema {
	return &llm.Schema{
		Name:        schemaName,
		Description: schemaDescription,
		Definition:  gameDefinition,
		Check:       check,
	}
}

// gameDefinition is the provider-facing form of the catalog schema. Every
// property is required so that it also satisfies strict-mode providers;
// kind-specific arrays are left empty when unused.
var gameDefinition = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title": map[string]any{
			"type":        "string",
			"description": "Short game title shown in the menu",
		},
		"description": map[string]any{
			"type":        "string",
			"description": "One sentence describing what the player practices",
		},
		"steps": map[string]any{
			"type":  "array",
			"items": stepSchema,
		},
	},
	"required":             []any{"title", "description", "steps"},
	"additionalProperties": false,
}

var stepSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"kind": map[string]any{
			"type":        "string",
			"enum":        []any{"selection", "sequence", "temperature"},
			"description": "selection: pick the right option; sequence: order the ingredients; temperature: pick the right heat",
		},
		"prompt": map[string]any{
			"type":        "string",
			"description": "The question, or the cooking scenario for temperature steps",
		},
		"options": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":      map[string]any{"type": "string"},
					"label":   map[string]any{"type": "string"},
					"correct": map[string]any{"type": "boolean"},
				},
				"required":             []any{"id", "label", "correct"},
				"additionalProperties": false,
			},
			"description": "2 to 6 options for selection and temperature steps, exactly one correct. Empty for sequence steps.",
		},
		"ingredients": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":   map[string]any{"type": "string"},
					"name": map[string]any{"type": "string"},
				},
				"required":             []any{"id", "name"},
				"additionalProperties": false,
			},
			"description": "Items to order for sequence steps. Empty for other kinds.",
		},
		"correct_order": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Ingredient ids in the correct order for sequence steps. Empty for other kinds.",
		},
	},
	"required":             []any{"kind", "prompt", "options", "ingredients", "correct_order"},
	"additionalProperties": false,
}
