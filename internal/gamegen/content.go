package gamegen

import (
	"fmt"
	"strings"

	"github.com/abhisek/cookiz/internal/catalog"
	"github.com/abhisek/cookiz/internal/game"
)

// Content limits for generated games.
const (
	MaxOptions      = 6
	MaxIngredients  = 8
	MaxPromptLength = 300
	MaxLabelLength  = 80
)

// ContentValidator checks the parts of a game a schema cannot: option
// counts, label uniqueness and text lengths.
type ContentValidator struct{}

func (v *ContentValidator) Name() string { return "content" }

func (v *ContentValidator) Validate(doc *catalog.Document, _ GenerateInput) *ValidationError {
	if strings.TrimSpace(doc.Title) == "" {
		return v.fail("title is empty")
	}
	for i, s := range doc.Steps {
		if msg := v.step(s); msg != "" {
			return v.fail(fmt.Sprintf("step %d: %s", i+1, msg))
		}
	}
	return nil
}

func (v *ContentValidator) step(s catalog.StepDoc) string {
	prompt := strings.TrimSpace(s.Prompt)
	if prompt == "" {
		return "prompt is empty"
	}
	if len(prompt) > MaxPromptLength {
		return fmt.Sprintf("prompt exceeds %d characters", MaxPromptLength)
	}

	if game.Kind(s.Kind) == game.KindSequence {
		if len(s.Ingredients) > MaxIngredients {
			return fmt.Sprintf("more than %d ingredients", MaxIngredients)
		}
		labels := make([]string, len(s.Ingredients))
		for i, ing := range s.Ingredients {
			labels[i] = ing.Name
		}
		return checkLabels(labels)
	}

	if len(s.Options) > MaxOptions {
		return fmt.Sprintf("more than %d options", MaxOptions)
	}
	correct := 0
	labels := make([]string, len(s.Options))
	for i, o := range s.Options {
		labels[i] = o.Label
		if o.Correct {
			correct++
		}
	}
	if correct != 1 {
		return fmt.Sprintf("expected exactly one correct option, got %d", correct)
	}
	return checkLabels(labels)
}

func checkLabels(labels []string) string {
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		key := strings.ToLower(strings.TrimSpace(l))
		if key == "" {
			return "empty label"
		}
		if len(l) > MaxLabelLength {
			return fmt.Sprintf("label %q exceeds %d characters", l, MaxLabelLength)
		}
		if seen[key] {
			return fmt.Sprintf("duplicate label %q", l)
		}
		seen[key] = true
	}
	return ""
}

func (v *ContentValidator) fail(msg string) *ValidationError {
	return &ValidationError{Validator: v.Name(), Message: msg, Retryable: true}
}
