package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnthropic(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "test-key", Model: "claude-haiku", BaseURL: server.URL})
	require.NoError(t, err)
	return p
}

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"model":       "claude-haiku-4-5-20251001",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
	}
}

func anthropicError(w http.ResponseWriter, status int, kind string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":  "error",
		"error": map[string]any{"type": kind, "message": kind},
	})
}

func TestAnthropicProvider_Generate(t *testing.T) {
	var body map[string]any
	p := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(anthropicMessage(`{"steps":[1]}`, "end_turn"))
	})

	resp, err := p.Generate(context.Background(), Request{
		System:    "You design cooking games.",
		Messages:  []Message{{Role: RoleUser, Content: "Pancakes, easy."}},
		Schema:    stepsSchema(),
		MaxTokens: 2048,
	})

	require.NoError(t, err)
	assert.JSONEq(t, `{"steps":[1]}`, string(resp.Content))
	assert.Equal(t, StopEnd, resp.StopReason)
	assert.Equal(t, "claude-haiku-4-5-20251001", resp.Model)
	assert.Equal(t, Usage{InputTokens: 50, OutputTokens: 30, TotalTokens: 80}, resp.Usage)

	assert.Equal(t, "claude-haiku-4-5", body["model"])
	assert.EqualValues(t, 2048, body["max_tokens"])
	format := body["output_config"].(map[string]any)["format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
	assert.Equal(t, []any{"steps"}, format["schema"].(map[string]any)["required"])
}

func TestAnthropicProvider_CheckRejects(t *testing.T) {
	p := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(anthropicMessage(`{"steps":[]}`, "end_turn"))
	})

	_, err := p.Generate(context.Background(), Request{Schema: stepsSchema(), MaxTokens: 100})

	var invalid *ErrInvalidResponse
	require.ErrorAs(t, err, &invalid)
	assert.True(t, invalid.Rejected)
}

func TestAnthropicProvider_Truncated(t *testing.T) {
	p := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(anthropicMessage(`{"steps":[{"kind":`, "max_tokens"))
	})

	_, err := p.Generate(context.Background(), Request{Schema: stepsSchema(), MaxTokens: 100})

	var truncated *ErrMaxTokensExceeded
	require.ErrorAs(t, err, &truncated)
	assert.Equal(t, 100, truncated.Limit)
}

func TestAnthropicProvider_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		kind   string
		check  func(t *testing.T, err error)
	}{
		{"rate limited", http.StatusTooManyRequests, "rate_limit_error", func(t *testing.T, err error) {
			var rl *ErrRateLimit
			require.ErrorAs(t, err, &rl)
			assert.Equal(t, 12*time.Second, rl.RetryAfter)
		}},
		{"bad key", http.StatusUnauthorized, "authentication_error", func(t *testing.T, err error) {
			var rejected *ErrRequestRejected
			require.ErrorAs(t, err, &rejected)
			assert.Equal(t, http.StatusUnauthorized, rejected.Status)
		}},
		{"overloaded", 529, "overloaded_error", func(t *testing.T, err error) {
			var down *ErrProviderUnavailable
			assert.ErrorAs(t, err, &down)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			p := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.Header().Set("Retry-After", "12")
				anthropicError(w, tt.status, tt.kind)
			})

			_, err := p.Generate(context.Background(), Request{MaxTokens: 100})

			tt.check(t, err)
			assert.Equal(t, 1, calls, "SDK retries are off")
		})
	}
}

func TestAnthropicModelAliases(t *testing.T) {
	assert.Equal(t, "claude-haiku-4-5", resolveModel("claude-haiku", anthropicModels))
	assert.Equal(t, "claude-sonnet-4-5", resolveModel("claude-sonnet", anthropicModels))
	assert.Equal(t, "claude-opus-4-1", resolveModel("claude-opus-4-1", anthropicModels))
}

func TestNewAnthropicProvider_NeedsKey(t *testing.T) {
	_, err := NewAnthropicProvider(AnthropicConfig{Model: "claude-haiku"})
	assert.EqualError(t, err, "anthropic API key is required")
}
