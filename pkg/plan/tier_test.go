package plan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zyra-ai/zyra/pkg/plan"
)

func TestParseTier(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want plan.Tier
	}{
		{"free", plan.TierFree},
		{"Free", plan.TierFree},
		{"trial", plan.TierFree},
		{"free_trial", plan.TierFree},
		{"Free Trial", plan.TierFree},
		{"starter", plan.TierStarter},
		{"STARTER", plan.TierStarter},
		{"Starter+", plan.TierStarter},
		{" starter ", plan.TierStarter},
		{"growth", plan.TierGrowth},
		{"Growth", plan.TierGrowth},
		{"scale", plan.TierScale},
		{"SCALE", plan.TierScale},
		{"", plan.TierFree},
		{"not-a-real-tier", plan.TierFree},
		{"enterprise", plan.TierFree},
		{"123", plan.TierFree},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, plan.ParseTier(tc.raw))
		})
	}
}

func TestTier_AtLeast(t *testing.T) {
	t.Parallel()

	assert.True(t, plan.TierScale.AtLeast(plan.TierFree))
	assert.True(t, plan.TierGrowth.AtLeast(plan.TierGrowth))
	assert.False(t, plan.TierStarter.AtLeast(plan.TierGrowth))
	assert.False(t, plan.TierFree.AtLeast(plan.TierStarter))

	// Unknown tiers rank as free.
	assert.True(t, plan.TierStarter.AtLeast(plan.Tier("bogus")))
	assert.False(t, plan.Tier("bogus").AtLeast(plan.TierStarter))
}

func TestTiers_Order(t *testing.T) {
	t.Parallel()

	tiers := plan.Tiers()
	assert.Equal(t, []plan.Tier{plan.TierFree, plan.TierStarter, plan.TierGrowth, plan.TierScale}, tiers)

	for i := 1; i < len(tiers); i++ {
		assert.Greater(t, tiers[i].Rank(), tiers[i-1].Rank())
	}
}
