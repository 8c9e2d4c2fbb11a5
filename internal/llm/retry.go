package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
)

// RetryProvider resends requests that failed for transient reasons.
//
// Content the request's schema check rejected is not resent: the same
// prompt tends to produce the same mistake, and callers such as the game
// generator regenerate with the rejection reason instead.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	log    zerolog.Logger
	sleep  func(context.Context, time.Duration) error
}

func WithRetry(p Provider, cfg RetryConfig, log zerolog.Logger) Provider {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &RetryProvider{inner: p, config: cfg, log: log, sleep: sleepCtx}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	malformedSeen := false
	var lastErr error
	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !retryable(err, &malformedSeen) || attempt == r.config.MaxAttempts {
			break
		}

		wait := r.backoff(attempt, err)
		r.log.Warn().Err(err).
			Int("attempt", attempt).
			Dur("wait", wait).
			Msg("retrying llm request")
		if err := r.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

// retryable reports whether err is worth another identical request.
// Malformed (non-JSON) content gets one retry per call.
func retryable(err error, malformedSeen *bool) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var (
		maxTok   *ErrMaxTokensExceeded
		rejected *ErrRequestRejected
		invalid  *ErrInvalidResponse
	)
	switch {
	case errors.As(err, &maxTok), errors.As(err, &rejected):
		return false
	case errors.As(err, &invalid):
		if invalid.Rejected || *malformedSeen {
			return false
		}
		*malformedSeen = true
		return true
	}
	return true
}

// backoff is exponential from InitialWait, capped at MaxWait, with ±20%
// jitter. A rate limit's Retry-After wins.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait)
	for i := 1; i < attempt; i++ {
		wait *= r.config.Multiplier
	}
	if ceil := float64(r.config.MaxWait); ceil > 0 && wait > ceil {
		wait = ceil
	}
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(max(wait, 0))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
