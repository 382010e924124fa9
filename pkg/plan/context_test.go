package plan_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyra-ai/zyra/pkg/plan"
)

func TestContext_RoundTrip(t *testing.T) {
	t.Parallel()

	pc := &plan.Context{
		RawTier:      "Growth",
		Tier:         plan.TierGrowth,
		Capabilities: plan.Capabilities(plan.TierGrowth),
	}

	ctx := plan.WithContext(context.Background(), pc)

	got, ok := plan.FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, pc, got)
	assert.Same(t, pc, plan.MustFromContext(ctx))
}

func TestContext_Missing(t *testing.T) {
	t.Parallel()

	_, ok := plan.FromContext(context.Background())
	assert.False(t, ok)
	assert.Panics(t, func() { plan.MustFromContext(context.Background()) })
}

func TestDecision_RoundTrip(t *testing.T) {
	t.Parallel()

	d := plan.Decision{Allowed: true}
	ctx := plan.WithDecision(context.Background(), d)

	got, ok := plan.DecisionFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, d, got)

	_, ok = plan.DecisionFromContext(context.Background())
	assert.False(t, ok)
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	extract := plan.LoggerExtractor()

	attr, ok := extract(plan.WithContext(context.Background(), &plan.Context{Tier: plan.TierScale}))
	require.True(t, ok)
	assert.Equal(t, "plan_tier", attr.Key)
	assert.Equal(t, "scale", attr.Value.String())

	_, ok = extract(context.Background())
	assert.False(t, ok)
}
