package llm

import (
	"fmt"
	"os"
	"time"
)

// Config selects and configures the provider used for game generation.
type Config struct {
	// Provider is one of "anthropic", "openai", "gemini", "openrouter" or
	// "mock".
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one request including its retries.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey  string
	Model   string // alias or model ID; default "claude-haiku"
	BaseURL string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // any OpenAI-compatible endpoint
}

type GeminiConfig struct {
	APIKey  string
	Model   string // alias or model ID; default "gemini-flash"
	BaseURL string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string // "vendor/model", passed through as is
	BaseURL string
}

type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

func DefaultConfig() Config {
	return Config{
		Provider:   "anthropic",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		// A full game is a few thousand output tokens.
		Timeout: 60 * time.Second,
	}
}

// ConfigFromEnv overlays COOKIZ_* environment variables on the defaults.
func ConfigFromEnv() Config {
	return configFromLookup(os.Getenv)
}

func configFromLookup(getenv func(string) string) Config {
	cfg := DefaultConfig()
	for key, dst := range map[string]*string{
		"COOKIZ_LLM_PROVIDER":        &cfg.Provider,
		"COOKIZ_ANTHROPIC_API_KEY":   &cfg.Anthropic.APIKey,
		"COOKIZ_ANTHROPIC_MODEL":     &cfg.Anthropic.Model,
		"COOKIZ_ANTHROPIC_BASE_URL":  &cfg.Anthropic.BaseURL,
		"COOKIZ_OPENAI_API_KEY":      &cfg.OpenAI.APIKey,
		"COOKIZ_OPENAI_MODEL":        &cfg.OpenAI.Model,
		"COOKIZ_OPENAI_BASE_URL":     &cfg.OpenAI.BaseURL,
		"COOKIZ_GEMINI_API_KEY":      &cfg.Gemini.APIKey,
		"COOKIZ_GEMINI_MODEL":        &cfg.Gemini.Model,
		"COOKIZ_GEMINI_BASE_URL":     &cfg.Gemini.BaseURL,
		"COOKIZ_OPENROUTER_API_KEY":  &cfg.OpenRouter.APIKey,
		"COOKIZ_OPENROUTER_MODEL":    &cfg.OpenRouter.Model,
		"COOKIZ_OPENROUTER_BASE_URL": &cfg.OpenRouter.BaseURL,
	} {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	return cfg
}

// WithModel overrides the selected provider's model. Empty is a no-op.
func (c Config) WithModel(model string) Config {
	if model == "" {
		return c
	}
	switch c.Provider {
	case "anthropic":
		c.Anthropic.Model = model
	case "openai":
		c.OpenAI.Model = model
	case "gemini":
		c.Gemini.Model = model
	case "openrouter":
		c.OpenRouter.Model = model
	}
	return c
}

// Validate checks that the selected provider has an API key.
func (c Config) Validate() error {
	var key string
	switch c.Provider {
	case "anthropic":
		key = c.Anthropic.APIKey
	case "openai":
		key = c.OpenAI.APIKey
	case "gemini":
		key = c.Gemini.APIKey
	case "openrouter":
		key = c.OpenRouter.APIKey
	case "mock":
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", apiKeyEnv(c.Provider), c.Provider)
	}
	return nil
}

func apiKeyEnv(provider string) string {
	return map[string]string{
		"anthropic":  "COOKIZ_ANTHROPIC_API_KEY",
		"openai":     "COOKIZ_OPENAI_API_KEY",
		"gemini":     "COOKIZ_GEMINI_API_KEY",
		"openrouter": "COOKIZ_OPENROUTER_API_KEY",
	}[provider]
}
