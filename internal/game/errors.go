package game

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSteps is returned for a definition without steps.
	ErrNoSteps = errors.New("game has no steps")

	// ErrInvalidDefinition wraps every other definition problem.
	ErrInvalidDefinition = errors.New("invalid game definition")

	ErrWrongStepKind      = errors.New("wrong step kind")
	ErrNotPlaying         = errors.New("session is not playing")
	ErrClosed             = errors.New("session closed")
	ErrAdvancePending     = errors.New("step already answered")
	ErrTimeExpired        = errors.New("time expired")
	ErrIncompleteSequence = errors.New("sequence incomplete")
	ErrUnknownOption      = errors.New("unknown option")
	ErrUnknownIngredient  = errors.New("unknown ingredient")
)

// StepError reports an operation rejected for the current step.
type StepError struct {
	Op    string
	Index int  // 0-based step index
	Kind  Kind // kind of the current step
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: step %d (%s): %v", e.Op, e.Index+1, e.Kind, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
