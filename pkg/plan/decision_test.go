package plan_test

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyra-ai/zyra/pkg/plan"
)

func TestCheckActionAccess_FeatureGates(t *testing.T) {
	t.Parallel()

	t.Run("starter denied bulk optimization", func(t *testing.T) {
		t.Parallel()

		d := plan.CheckActionAccess(plan.TierStarter, plan.ActionBulkOptimize, plan.CheckOptions{ProductCount: 5})

		require.False(t, d.Allowed)
		assert.Equal(t, plan.CodeUpgradeRequired, d.Code)
		assert.Contains(t, d.Reason, "bulk product optimization")
		assert.Contains(t, d.Reason, "starter")
		assert.Contains(t, d.UpgradeHint, "growth")
	})

	t.Run("scale allowed serp scan", func(t *testing.T) {
		t.Parallel()

		d := plan.CheckActionAccess(plan.TierScale, plan.ActionSerpScan, plan.CheckOptions{})

		assert.True(t, d.Allowed)
		assert.Empty(t, d.Reason)
	})

	t.Run("growth denied advanced cart recovery", func(t *testing.T) {
		t.Parallel()

		d := plan.CheckActionAccess(plan.TierGrowth, plan.ActionCartRecovery, plan.CheckOptions{})

		require.False(t, d.Allowed)
		assert.Equal(t, plan.CodeUpgradeRequired, d.Code)
		assert.Contains(t, d.UpgradeHint, "scale")
	})

	t.Run("unknown action fails closed on every tier", func(t *testing.T) {
		t.Parallel()

		for _, tier := range plan.Tiers() {
			d := plan.CheckActionAccess(tier, plan.Action("made_up"), plan.CheckOptions{})
			assert.False(t, d.Allowed, "tier %s allowed unknown action", tier)
		}
	})
}

func TestCheckActionAccess_QuantityBoundary(t *testing.T) {
	t.Parallel()

	limit := plan.MaxBulkProducts(plan.TierGrowth)
	require.Positive(t, limit)

	t.Run("at limit allowed", func(t *testing.T) {
		t.Parallel()

		d := plan.CheckActionAccess(plan.TierGrowth, plan.ActionBulkOptimize, plan.CheckOptions{ProductCount: limit})

		assert.True(t, d.Allowed)
	})

	t.Run("one over limit denied with both counts", func(t *testing.T) {
		t.Parallel()

		d := plan.CheckActionAccess(plan.TierGrowth, plan.ActionBulkOptimize, plan.CheckOptions{ProductCount: limit + 1})

		require.False(t, d.Allowed)
		assert.Equal(t, plan.CodeBulkLimitExceeded, d.Code)
		assert.Contains(t, d.Reason, strconv.Itoa(limit+1))
		assert.Contains(t, d.Reason, strconv.Itoa(limit))
		// Both remediations are offered: shrink the batch or upgrade.
		assert.Contains(t, d.UpgradeHint, fmt.Sprintf("reduce the batch to %d", limit))
		assert.Contains(t, d.UpgradeHint, "scale")
	})

	t.Run("top tier over limit offers only batch reduction", func(t *testing.T) {
		t.Parallel()

		limit := plan.MaxBulkProducts(plan.TierScale)
		d := plan.CheckActionAccess(plan.TierScale, plan.ActionBulkOptimize, plan.CheckOptions{ProductCount: limit + 1})

		require.False(t, d.Allowed)
		assert.Equal(t, plan.CodeBulkLimitExceeded, d.Code)
		assert.NotContains(t, d.UpgradeHint, "upgrade")
	})
}

func TestCheckActionAccess_AutoExecutionStrictness(t *testing.T) {
	t.Parallel()

	for _, tier := range plan.Tiers() {
		caps := plan.Capabilities(tier)
		if caps.AutoExecution {
			continue
		}

		for _, action := range []plan.Action{
			plan.ActionBulkOptimize,
			plan.ActionSerpScan,
			plan.ActionScheduledRefresh,
		} {
			manual := plan.CheckActionAccess(tier, action, plan.CheckOptions{})
			if !manual.Allowed {
				continue
			}

			auto := plan.CheckActionAccess(tier, action, plan.CheckOptions{AutoExecute: true})
			require.False(t, auto.Allowed,
				"tier %s allowed auto-execution of %s without the capability", tier, action)
			assert.Equal(t, plan.CodeUpgradeRequired, auto.Code)
			assert.Contains(t, auto.Reason, "auto-execution")
		}
	}
}

func TestCheckActionAccess_Deterministic(t *testing.T) {
	t.Parallel()

	opts := plan.CheckOptions{ProductCount: 51, AutoExecute: true}
	first := plan.CheckActionAccess(plan.TierGrowth, plan.ActionBulkOptimize, opts)
	second := plan.CheckActionAccess(plan.TierGrowth, plan.ActionBulkOptimize, opts)

	assert.Equal(t, first, second)
}
