package llm

import (
	"context"
	"encoding/json"
)

// Provider sends one structured-output request to a model.
type Provider interface {
	// Generate returns the model's answer. When req.Schema is set the
	// content has passed the schema's check; a failed check is returned as
	// *ErrInvalidResponse and a truncated answer as *ErrMaxTokensExceeded.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model the provider sends requests to.
	ModelID() string
}

// Request is a single-turn generation request.
type Request struct {
	System   string
	Messages []Message

	// Schema asks the provider for JSON in this shape. Nil means free text.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default.
	Temperature float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ResponseCheck validates structured content returned for a Schema.
type ResponseCheck func(raw json.RawMessage) error

// Schema describes the JSON document a request expects back.
type Schema struct {
	// Name is sent as the schema or tool name, e.g. "cooking-game".
	Name        string
	Description string

	// Definition is the JSON Schema handed to the provider's native
	// structured-output mode.
	Definition map[string]any

	// Check runs on every response. Without it the content only has to be
	// well-formed JSON.
	Check ResponseCheck
}

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// finish applies the checks every provider shares to a raw answer.
func finish(req Request, content json.RawMessage, stop string, usage Usage, model string) (*Response, error) {
	if stop == StopMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: content, Limit: req.MaxTokens}
	}
	if req.Schema != nil {
		if err := validateResponse(req.Schema, content); err != nil {
			return nil, err
		}
	}
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	}
	return &Response{
		Content:    content,
		Usage:      usage,
		Model:      model,
		StopReason: stop,
	}, nil
}
