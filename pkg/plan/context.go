package plan

import (
	"context"
	"log/slog"
)

// Context holds the caller's resolved plan for the lifetime of one request.
// It is created by the first guard that needs it and read-only afterwards;
// it is never shared across requests.
type Context struct {
	// RawTier is the tier name as stored, before canonicalization
	// ("Starter+"). Denial responses echo it so clients can show the
	// plan name the merchant actually has.
	RawTier      string
	Tier         Tier
	Capabilities CapabilitySet
}

// contextKey prevents collisions with other packages using context values
type contextKey struct{}

type decisionKey struct{}

// WithContext attaches a resolved plan context to ctx.
func WithContext(ctx context.Context, pc *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, pc)
}

// FromContext returns the plan context loaded by an earlier guard, if any.
func FromContext(ctx context.Context) (*Context, bool) {
	pc, ok := ctx.Value(contextKey{}).(*Context)
	return pc, ok
}

// MustFromContext panics if no plan context is present. Use only in
// handlers mounted behind a guard.
func MustFromContext(ctx context.Context) *Context {
	pc, ok := FromContext(ctx)
	if !ok || pc == nil {
		panic("plan: no plan context in request context")
	}
	return pc
}

// WithDecision attaches the access decision computed by RequireActionAccess
// so downstream handlers do not recompute quantity scaling.
func WithDecision(ctx context.Context, d Decision) context.Context {
	return context.WithValue(ctx, decisionKey{}, d)
}

// DecisionFromContext returns the decision attached by RequireActionAccess.
func DecisionFromContext(ctx context.Context) (Decision, bool) {
	d, ok := ctx.Value(decisionKey{}).(Decision)
	return d, ok
}

// LoggerExtractor returns a function that enriches log records with the
// caller's plan tier.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if pc, ok := FromContext(ctx); ok && pc != nil {
			return slog.String("plan_tier", pc.Tier.String()), true
		}
		return slog.Attr{}, false
	}
}
