package catalog

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://cookiz-game.json"

// SchemaDefinition returns the JSON Schema for game documents. Kind-specific
// fields are required through if/then so that hand-written YAML can omit the
// fields a kind does not use.
func SchemaDefinition() map[string]any {
	option := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":      map[string]any{"type": "string", "minLength": 1},
			"label":   map[string]any{"type": "string", "minLength": 1},
			"correct": map[string]any{"type": "boolean"},
		},
		"required":             []any{"id", "label"},
		"additionalProperties": false,
	}
	ingredient := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":   map[string]any{"type": "string", "minLength": 1},
			"name": map[string]any{"type": "string", "minLength": 1},
		},
		"required":             []any{"id", "name"},
		"additionalProperties": false,
	}
	step := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"kind":          map[string]any{"enum": []any{"selection", "sequence", "temperature"}},
			"prompt":        map[string]any{"type": "string", "minLength": 1},
			"options":       map[string]any{"type": "array", "items": option},
			"ingredients":   map[string]any{"type": "array", "items": ingredient},
			"correct_order": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required":             []any{"kind", "prompt"},
		"additionalProperties": false,
		"if": map[string]any{
			"properties": map[string]any{"kind": map[string]any{"const": "sequence"}},
		},
		"then": map[string]any{
			"required": []any{"ingredients", "correct_order"},
			"properties": map[string]any{
				"ingredients": map[string]any{"minItems": 2},
			},
		},
		"else": map[string]any{
			"required": []any{"options"},
			"properties": map[string]any{
				"options": map[string]any{"minItems": 2},
			},
		},
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":          map[string]any{"type": "string", "pattern": "^[a-z0-9][a-z0-9-]*$"},
			"title":       map[string]any{"type": "string", "minLength": 1},
			"description": map[string]any{"type": "string"},
			"time_limit":  map[string]any{"type": "integer", "minimum": 0},
			"steps":       map[string]any{"type": "array", "minItems": 1, "items": step},
		},
		"required":             []any{"id", "title", "steps"},
		"additionalProperties": false,
	}
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler expects a parsed JSON value.
		raw, err := json.Marshal(SchemaDefinition())
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var parsed any
		if err := json.Unmarshal(raw, &parsed); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, parsed); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}
