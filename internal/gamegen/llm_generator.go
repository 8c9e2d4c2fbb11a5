package gamegen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/abhisek/cookiz/internal/catalog"
	"github.com/abhisek/cookiz/internal/game"
	"github.com/abhisek/cookiz/internal/llm"
)

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	log      zerolog.Logger
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config, log zerolog.Logger) *LLMGenerator {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.MaxTokensCeiling < cfg.MaxTokens {
		cfg.MaxTokensCeiling = cfg.MaxTokens
	}
	return &LLMGenerator{provider: provider, config: cfg, log: log}
}

// gameOutput is the raw LLM response before validation.
type gameOutput struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Steps       []catalog.StepDoc `json:"steps"`
}

// Generate asks the provider for a game and validates it. A rejected game
// is regenerated with the rejection reason in the prompt; a truncated one
// is regenerated with a larger token budget. Both stop at MaxAttempts.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) (game.Definition, error) {
	if input.Recipe == "" {
		return game.Definition{}, errors.New("recipe is required")
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeGameGen)

	budget := g.config.MaxTokens
	var (
		feedback *ValidationError
		lastErr  error
	)
	for attempt := 1; attempt <= g.config.MaxAttempts; attempt++ {
		doc, err := g.attempt(llm.WithAttempt(ctx, attempt), input, feedback, budget)
		if err == nil {
			return doc.Definition()
		}
		lastErr = err

		var truncated *llm.ErrMaxTokensExceeded
		if errors.As(err, &truncated) {
			if budget >= g.config.MaxTokensCeiling {
				return game.Definition{}, fmt.Errorf("game does not fit in %d tokens: %w", budget, err)
			}
			budget = min(budget*2, g.config.MaxTokensCeiling)
			g.log.Warn().
				Int("attempt", attempt).
				Int("max_tokens", budget).
				Msg("generated game truncated")
			continue
		}

		var verr *ValidationError
		if !errors.As(err, &verr) || !verr.Retryable {
			return game.Definition{}, err
		}
		g.log.Warn().
			Int("attempt", attempt).
			Str("validator", verr.Validator).
			Str("reason", verr.Message).
			Msg("generated game rejected")
		feedback = verr
	}
	return game.Definition{}, fmt.Errorf("generation failed after %d attempts: %w", g.config.MaxAttempts, lastErr)
}

// attempt sends one request. The validator chain runs as the schema check,
// so a rejected game reaches here as an *llm.ErrInvalidResponse.
func (g *LLMGenerator) attempt(ctx context.Context, input GenerateInput, feedback *ValidationError, budget int) (*catalog.Document, error) {
	var accepted *catalog.Document
	check := func(raw json.RawMessage) error {
		doc, verr := g.check(raw, input)
		if verr != nil {
			return verr
		}
		accepted = doc
		return nil
	}

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input, feedback)},
		},
		Schema:      gameSchema(check),
		MaxTokens:   budget,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, generationError(err)
	}
	if accepted == nil {
		// Provider did not run the check.
		doc, verr := g.check(resp.Content, input)
		if verr != nil {
			return nil, verr
		}
		accepted = doc
	}
	return accepted, nil
}

// check decodes an answer and runs the validator chain on it.
func (g *LLMGenerator) check(raw json.RawMessage, input GenerateInput) (*catalog.Document, *ValidationError) {
	var out gameOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &ValidationError{
			Validator: "decode",
			Message:   "response is not a game object: " + err.Error(),
			Retryable: true,
		}
	}

	doc := &catalog.Document{
		ID:          input.GameID(),
		Title:       out.Title,
		Description: out.Description,
		TimeLimit:   input.TimeLimit,
		Steps:       out.Steps,
	}
	for _, v := range g.config.Validators {
		if verr := v.Validate(doc, input); verr != nil {
			return nil, verr
		}
	}
	return doc, nil
}

// generationError turns an unusable answer into a ValidationError the loop
// can feed back. Other provider errors pass through.
func generationError(err error) error {
	var invalid *llm.ErrInvalidResponse
	if !errors.As(err, &invalid) {
		var truncated *llm.ErrMaxTokensExceeded
		if errors.As(err, &truncated) {
			return err
		}
		return fmt.Errorf("LLM generation failed: %w", err)
	}

	var verr *ValidationError
	if errors.As(invalid.Err, &verr) {
		return verr
	}
	verr = &ValidationError{Validator: "decode", Message: invalid.Error(), Retryable: true}
	if invalid.Err != nil {
		verr.Message = invalid.Err.Error()
	}
	if invalid.Rejected {
		verr.Validator = "response"
	}
	return verr
}
