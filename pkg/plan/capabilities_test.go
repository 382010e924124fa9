package plan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zyra-ai/zyra/pkg/plan"
)

var allFeatures = []plan.Feature{
	plan.FeatureBulkOptimization,
	plan.FeatureSerpIntelligence,
	plan.FeatureAdvancedCartRecovery,
	plan.FeatureScheduledRefresh,
	plan.FeaturePerProductAutonomy,
	plan.FeatureAutoExecution,
}

func TestCapabilities_Monotonicity(t *testing.T) {
	t.Parallel()

	tiers := plan.Tiers()
	for i := 1; i < len(tiers); i++ {
		lower := plan.Capabilities(tiers[i-1])
		higher := plan.Capabilities(tiers[i])

		for _, f := range allFeatures {
			if lower.Has(f) {
				assert.True(t, higher.Has(f),
					"feature %s enabled on %s but not on %s", f, tiers[i-1], tiers[i])
			}
		}

		assert.GreaterOrEqual(t, higher.MaxBulkProducts, lower.MaxBulkProducts,
			"max bulk products decreases from %s to %s", tiers[i-1], tiers[i])
	}
}

func TestCapabilities_FailClosedOnUnknownTier(t *testing.T) {
	t.Parallel()

	unknown := plan.Capabilities(plan.Tier("not-a-real-tier"))
	free := plan.Capabilities(plan.TierFree)

	assert.Equal(t, free, unknown)
	for _, f := range allFeatures {
		assert.False(t, unknown.Has(f))
	}
}

func TestPredicates_MatchCapabilityTable(t *testing.T) {
	t.Parallel()

	for _, tier := range plan.Tiers() {
		caps := plan.Capabilities(tier)

		assert.Equal(t, caps.SerpIntelligence, plan.HasSerpAccess(tier))
		assert.Equal(t, caps.BulkOptimization, plan.CanUseBulkOperations(tier))
		assert.Equal(t, caps.MaxBulkProducts, plan.MaxBulkProducts(tier))
		assert.Equal(t, caps.AdvancedCartRecovery, plan.HasAdvancedCartRecovery(tier))
		assert.Equal(t, caps.ScheduledRefresh, plan.HasScheduledRefresh(tier))
		assert.Equal(t, caps.PerProductAutonomy, plan.HasPerProductAutonomy(tier))
	}
}

func TestCapabilitySet_Has_UnknownFeature(t *testing.T) {
	t.Parallel()

	caps := plan.Capabilities(plan.TierScale)
	assert.False(t, caps.Has(plan.Feature("made_up_feature")))
}
