package gamegen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every candidate; the first failure stops
	// the pipeline.
	Validators []Validator

	// MaxTokens is the token budget for the first request. A truncated
	// answer doubles it, up to MaxTokensCeiling.
	MaxTokens        int
	MaxTokensCeiling int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxAttempts bounds regeneration after a retryable validation failure.
	MaxAttempts int
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&ContentValidator{},
		},
		MaxTokens:        2048,
		MaxTokensCeiling: 8192,
		Temperature:      0.7,
		MaxAttempts:      3,
	}
}
