package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/cookiz/internal/store"
)

// LoggingProvider records every request in the event store.
type LoggingProvider struct {
	inner     Provider
	name      string
	eventRepo store.EventRepo
	log       zerolog.Logger
}

// WithLogging wraps p, recorded under the provider name. A nil repo only
// emits log lines.
func WithLogging(p Provider, name string, repo store.EventRepo, log zerolog.Logger) Provider {
	return &LoggingProvider{inner: p, name: name, eventRepo: repo, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	latencyMs := time.Since(start).Milliseconds()

	data := store.LLMRequestEventData{
		Provider:    l.name,
		Model:       l.inner.ModelID(),
		Purpose:     string(purpose),
		LatencyMs:   latencyMs,
		Success:     err == nil,
		RequestBody: requestTranscript(ctx, req),
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
		data.ResponseBody = string(resp.Content)
	}

	if err != nil {
		data.ErrorMessage = err.Error()
		// Keep what the model said so a rejected game can be inspected.
		var invalid *ErrInvalidResponse
		if errors.As(err, &invalid) {
			data.ResponseBody = string(invalid.Content)
		}
	}

	ev := l.log.Debug()
	if err != nil {
		ev = l.log.Warn().Err(err)
	}
	ev.Str("purpose", string(purpose)).
		Int("attempt", AttemptFrom(ctx)).
		Str("model", data.Model).
		Int("input_tokens", data.InputTokens).
		Int("output_tokens", data.OutputTokens).
		Int64("latency_ms", latencyMs).
		Msg("llm request")

	if l.eventRepo == nil {
		return resp, err
	}
	// A failed write is logged; the request result stands.
	if logErr := l.eventRepo.AppendLLMRequest(ctx, data); logErr != nil {
		l.log.Warn().Err(logErr).Msg("record llm request event")
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// requestTranscript renders a request for `cookiz llm view`. Schemas are
// named, not dumped: every game request carries the same one.
func requestTranscript(ctx context.Context, req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "attempt %d, max %d tokens", AttemptFrom(ctx), req.MaxTokens)
	if req.Schema != nil {
		fmt.Fprintf(&b, ", schema %s", req.Schema.Name)
	}
	b.WriteString("\n")

	if req.System != "" {
		fmt.Fprintf(&b, "\n--- system\n%s\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "\n--- %s\n%s\n", m.Role, m.Content)
	}
	return b.String()
}
