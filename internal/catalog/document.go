package catalog

import (
	"fmt"

	"github.com/abhisek/cookiz/internal/game"
)

// Document is the on-disk and LLM wire form of a game definition.
type Document struct {
	ID          string    `yaml:"id" json:"id"`
	Title       string    `yaml:"title" json:"title"`
	Description string    `yaml:"description,omitempty" json:"description"`
	TimeLimit   int       `yaml:"time_limit,omitempty" json:"time_limit"`
	Steps       []StepDoc `yaml:"steps" json:"steps"`
}

// StepDoc is one step. Prompt holds the scenario for temperature steps.
type StepDoc struct {
	Kind         string          `yaml:"kind" json:"kind"`
	Prompt       string          `yaml:"prompt" json:"prompt"`
	Options      []OptionDoc     `yaml:"options,omitempty" json:"options"`
	Ingredients  []IngredientDoc `yaml:"ingredients,omitempty" json:"ingredients"`
	CorrectOrder []string        `yaml:"correct_order,omitempty" json:"correct_order"`
}

// OptionDoc is a selection or temperature option.
type OptionDoc struct {
	ID      string `yaml:"id" json:"id"`
	Label   string `yaml:"label" json:"label"`
	Correct bool   `yaml:"correct,omitempty" json:"correct"`
}

// IngredientDoc is a sequence item.
type IngredientDoc struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Definition converts the document into an engine definition and validates it.
func (d Document) Definition() (game.Definition, error) {
	def := game.Definition{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		TimeLimit:   d.TimeLimit,
	}
	for i, s := range d.Steps {
		step, err := s.step()
		if err != nil {
			return game.Definition{}, fmt.Errorf("step %d: %w", i+1, err)
		}
		def.Steps = append(def.Steps, step)
	}
	if err := def.Validate(); err != nil {
		return game.Definition{}, err
	}
	return def, nil
}

func (s StepDoc) step() (game.Step, error) {
	switch game.Kind(s.Kind) {
	case game.KindSelection:
		return game.SelectionStep{Prompt: s.Prompt, Options: options(s.Options)}, nil
	case game.KindTemperature:
		return game.TemperatureStep{Scenario: s.Prompt, Options: options(s.Options)}, nil
	case game.KindSequence:
		ings := make([]game.Ingredient, len(s.Ingredients))
		for i, ing := range s.Ingredients {
			ings[i] = game.Ingredient{ID: ing.ID, Name: ing.Name}
		}
		return game.SequenceStep{
			Prompt:       s.Prompt,
			Ingredients:  ings,
			CorrectOrder: append([]string(nil), s.CorrectOrder...),
		}, nil
	}
	return nil, fmt.Errorf("%w: unknown step kind %q", game.ErrInvalidDefinition, s.Kind)
}

func options(in []OptionDoc) []game.Option {
	out := make([]game.Option, len(in))
	for i, o := range in {
		out[i] = game.Option{ID: o.ID, Label: o.Label, Correct: o.Correct}
	}
	return out
}

// FromDefinition is the inverse of Document.Definition.
func FromDefinition(def game.Definition) Document {
	doc := Document{
		ID:          def.ID,
		Title:       def.Title,
		Description: def.Description,
		TimeLimit:   def.TimeLimit,
	}
	for _, s := range def.Steps {
		sd := StepDoc{Kind: string(s.Kind()), Prompt: s.Text()}
		switch st := s.(type) {
		case game.SelectionStep:
			sd.Options = optionDocs(st.Options)
		case game.TemperatureStep:
			sd.Options = optionDocs(st.Options)
		case game.SequenceStep:
			for _, ing := range st.Ingredients {
				sd.Ingredients = append(sd.Ingredients, IngredientDoc{ID: ing.ID, Name: ing.Name})
			}
			sd.CorrectOrder = append([]string(nil), st.CorrectOrder...)
		}
		doc.Steps = append(doc.Steps, sd)
	}
	return doc
}

func optionDocs(in []game.Option) []OptionDoc {
	out := make([]OptionDoc, len(in))
	for i, o := range in {
		out[i] = OptionDoc{ID: o.ID, Label: o.Label, Correct: o.Correct}
	}
	return out
}
