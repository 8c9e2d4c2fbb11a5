package gamegen

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/cookiz/internal/catalog"
)

// StructuralValidator runs the document through the catalog's schema and
// definition checks and enforces the requested step count.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(doc *catalog.Document, input GenerateInput) *ValidationError {
	n := len(doc.Steps)
	switch {
	case input.Steps > 0 && n != input.Steps:
		return v.fail(fmt.Sprintf("expected exactly %d steps, got %d", input.Steps, n))
	case input.Steps == 0 && (n < MinSteps || n > MaxSteps):
		return v.fail(fmt.Sprintf("expected between %d and %d steps, got %d", MinSteps, MaxSteps, n))
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return &ValidationError{Validator: v.Name(), Message: err.Error()}
	}
	if _, err := catalog.ParseDefinition(data); err != nil {
		return v.fail(err.Error())
	}
	return nil
}

func (v *StructuralValidator) fail(msg string) *ValidationError {
	return &ValidationError{Validator: v.Name(), Message: msg, Retryable: true}
}
