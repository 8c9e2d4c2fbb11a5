package llm

import "context"

// Purpose labels what a request was for in the request log.
type Purpose string

const (
	PurposeGameGen Purpose = "game-gen"
	PurposeUnknown Purpose = "unknown"
)

type purposeKey struct{}

type attemptKey struct{}

func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, p)
}

func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok {
		return p
	}
	return PurposeUnknown
}

// WithAttempt records which regeneration attempt a request belongs to, so
// the log can tell a first try from a corrected one.
func WithAttempt(ctx context.Context, n int) context.Context {
	return context.WithValue(ctx, attemptKey{}, n)
}

// AttemptFrom returns the attempt number, 1 when unset.
func AttemptFrom(ctx context.Context) int {
	if n, ok := ctx.Value(attemptKey{}).(int); ok && n > 0 {
		return n
	}
	return 1
}
