package gamegen

import (
	"fmt"

	"github.com/abhisek/cookiz/internal/catalog"
)

// Validator checks a generated game document.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier, e.g. "structural".
	Name() string

	// Validate returns nil if the document passes.
	Validate(doc *catalog.Document, input GenerateInput) *ValidationError
}

// ValidationError describes why a generated game was rejected.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
	Retryable bool   // Whether regeneration is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
