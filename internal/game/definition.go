package game

import (
	"fmt"
	"strings"
)

// DefaultTimeLimit is the session length in seconds used when a definition
// does not set one.
const DefaultTimeLimit = 300

// Kind identifies the variant of a Step.
type Kind string

const (
	KindSelection   Kind = "selection"   // pick one option
	KindSequence    Kind = "sequence"    // order ingredients
	KindTemperature Kind = "temperature" // pick a temperature for a scenario
)

func (k Kind) String() string { return string(k) }

// Valid reports whether k is a known step kind.
func (k Kind) Valid() bool {
	switch k {
	case KindSelection, KindSequence, KindTemperature:
		return true
	}
	return false
}

// Option is one candidate answer of a selection or temperature step.
type Option struct {
	ID      string
	Label   string
	Correct bool
}

// Ingredient is one item of a sequence step.
type Ingredient struct {
	ID   string
	Name string
}

// Step is one challenge of a game. It is implemented by SelectionStep,
// SequenceStep and TemperatureStep only.
type Step interface {
	Kind() Kind
	// Text returns the prompt or scenario shown to the player.
	Text() string
	validate() error
	clone() Step
}

// SelectionStep asks the player to pick the correct option.
type SelectionStep struct {
	Prompt  string
	Options []Option
}

// SequenceStep asks the player to put ingredients in the correct order.
type SequenceStep struct {
	Prompt       string
	Ingredients  []Ingredient
	CorrectOrder []string
}

// TemperatureStep describes a scenario and asks for the right temperature.
type TemperatureStep struct {
	Scenario string
	Options  []Option
}

func (SelectionStep) Kind() Kind   { return KindSelection }
func (SequenceStep) Kind() Kind    { return KindSequence }
func (TemperatureStep) Kind() Kind { return KindTemperature }

func (s SelectionStep) Text() string   { return s.Prompt }
func (s SequenceStep) Text() string    { return s.Prompt }
func (s TemperatureStep) Text() string { return s.Scenario }

func (s SelectionStep) validate() error {
	if strings.TrimSpace(s.Prompt) == "" {
		return fmt.Errorf("%w: empty prompt", ErrInvalidDefinition)
	}
	return validateOptions(s.Options)
}

func (s TemperatureStep) validate() error {
	if strings.TrimSpace(s.Scenario) == "" {
		return fmt.Errorf("%w: empty scenario", ErrInvalidDefinition)
	}
	return validateOptions(s.Options)
}

func (s SequenceStep) validate() error {
	if strings.TrimSpace(s.Prompt) == "" {
		return fmt.Errorf("%w: empty prompt", ErrInvalidDefinition)
	}
	if len(s.Ingredients) < 2 {
		return fmt.Errorf("%w: sequence needs at least 2 ingredients", ErrInvalidDefinition)
	}
	ids := make(map[string]bool, len(s.Ingredients))
	for _, ing := range s.Ingredients {
		if ing.ID == "" {
			return fmt.Errorf("%w: ingredient without id", ErrInvalidDefinition)
		}
		if ids[ing.ID] {
			return fmt.Errorf("%w: duplicate ingredient %q", ErrInvalidDefinition, ing.ID)
		}
		ids[ing.ID] = true
	}
	if len(s.CorrectOrder) != len(s.Ingredients) {
		return fmt.Errorf("%w: correct order has %d entries, want %d",
			ErrInvalidDefinition, len(s.CorrectOrder), len(s.Ingredients))
	}
	seen := make(map[string]bool, len(s.CorrectOrder))
	for _, id := range s.CorrectOrder {
		if !ids[id] {
			return fmt.Errorf("%w: correct order names unknown ingredient %q", ErrInvalidDefinition, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: correct order repeats %q", ErrInvalidDefinition, id)
		}
		seen[id] = true
	}
	return nil
}

func validateOptions(opts []Option) error {
	if len(opts) < 2 {
		return fmt.Errorf("%w: need at least 2 options", ErrInvalidDefinition)
	}
	ids := make(map[string]bool, len(opts))
	correct := 0
	for _, o := range opts {
		if o.ID == "" {
			return fmt.Errorf("%w: option without id", ErrInvalidDefinition)
		}
		if ids[o.ID] {
			return fmt.Errorf("%w: duplicate option %q", ErrInvalidDefinition, o.ID)
		}
		ids[o.ID] = true
		if o.Correct {
			correct++
		}
	}
	if correct == 0 {
		return fmt.Errorf("%w: no correct option", ErrInvalidDefinition)
	}
	return nil
}

func (s SelectionStep) clone() Step {
	s.Options = append([]Option(nil), s.Options...)
	return s
}

func (s TemperatureStep) clone() Step {
	s.Options = append([]Option(nil), s.Options...)
	return s
}

func (s SequenceStep) clone() Step {
	s.Ingredients = append([]Ingredient(nil), s.Ingredients...)
	s.CorrectOrder = append([]string(nil), s.CorrectOrder...)
	return s
}

// Option returns the option with the given ID.
func (s SelectionStep) Option(id string) (Option, bool) { return findOption(s.Options, id) }

// Option returns the option with the given ID.
func (s TemperatureStep) Option(id string) (Option, bool) { return findOption(s.Options, id) }

// Ingredient returns the ingredient with the given ID.
func (s SequenceStep) Ingredient(id string) (Ingredient, bool) {
	for _, ing := range s.Ingredients {
		if ing.ID == id {
			return ing, true
		}
	}
	return Ingredient{}, false
}

func findOption(opts []Option, id string) (Option, bool) {
	for _, o := range opts {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Definition is an immutable game description.
type Definition struct {
	ID          string
	Title       string
	Description string
	// TimeLimit is the session length in seconds. Zero means DefaultTimeLimit.
	TimeLimit int
	Steps     []Step
}

// Limit returns the effective time limit in seconds.
func (d Definition) Limit() int {
	if d.TimeLimit == 0 {
		return DefaultTimeLimit
	}
	return d.TimeLimit
}

// Validate checks the definition at the boundary where external data enters
// the engine.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidDefinition)
	}
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: game %q: missing title", ErrInvalidDefinition, d.ID)
	}
	if d.TimeLimit < 0 {
		return fmt.Errorf("%w: game %q: negative time limit", ErrInvalidDefinition, d.ID)
	}
	if len(d.Steps) == 0 {
		return fmt.Errorf("game %q: %w", d.ID, ErrNoSteps)
	}
	for i, s := range d.Steps {
		if s == nil {
			return fmt.Errorf("%w: game %q: step %d is nil", ErrInvalidDefinition, d.ID, i+1)
		}
		if err := s.validate(); err != nil {
			return fmt.Errorf("game %q: step %d (%s): %w", d.ID, i+1, s.Kind(), err)
		}
	}
	return nil
}

// Clone returns a deep copy of d.
func (d Definition) Clone() Definition {
	steps := make([]Step, len(d.Steps))
	for i, s := range d.Steps {
		if s != nil {
			steps[i] = s.clone()
		}
	}
	d.Steps = steps
	return d
}
