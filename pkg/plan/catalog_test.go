package plan_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyra-ai/zyra/pkg/plan"
)

const validCatalogYAML = `
tiers:
  free:
    max_bulk_products: 0
    execution_priority: standard
    autonomy_level: very_low
  starter:
    scheduled_refresh: true
    max_bulk_products: 0
    execution_priority: standard
    autonomy_level: low
    price_id: pri_starter_monthly
  growth:
    bulk_optimization: true
    serp_intelligence: true
    scheduled_refresh: true
    max_bulk_products: 25
    execution_priority: fast
    autonomy_level: medium
    price_id: pri_growth_monthly
  scale:
    bulk_optimization: true
    serp_intelligence: true
    advanced_cart_recovery: true
    scheduled_refresh: true
    per_product_autonomy: true
    auto_execution: true
    max_bulk_products: 250
    execution_priority: priority
    autonomy_level: high
    price_id: pri_scale_monthly
`

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	t.Run("valid catalog", func(t *testing.T) {
		t.Parallel()

		c, err := plan.LoadCatalog(strings.NewReader(validCatalogYAML))
		require.NoError(t, err)

		assert.Equal(t, 25, c.Capabilities(plan.TierGrowth).MaxBulkProducts)
		assert.True(t, c.Capabilities(plan.TierScale).AutoExecution)

		priceID, ok := c.PriceID(plan.TierGrowth)
		require.True(t, ok)
		assert.Equal(t, "pri_growth_monthly", priceID)

		tier, ok := c.TierForPriceID("pri_scale_monthly")
		require.True(t, ok)
		assert.Equal(t, plan.TierScale, tier)
	})

	t.Run("free tier has no price", func(t *testing.T) {
		t.Parallel()

		c, err := plan.LoadCatalog(strings.NewReader(validCatalogYAML))
		require.NoError(t, err)

		_, ok := c.PriceID(plan.TierFree)
		assert.False(t, ok)
	})

	t.Run("unknown price maps to free, not found", func(t *testing.T) {
		t.Parallel()

		c, err := plan.LoadCatalog(strings.NewReader(validCatalogYAML))
		require.NoError(t, err)

		tier, ok := c.TierForPriceID("pri_bogus")
		assert.False(t, ok)
		assert.Equal(t, plan.TierFree, tier)
	})

	t.Run("rejects unknown tier name", func(t *testing.T) {
		t.Parallel()

		_, err := plan.LoadCatalog(strings.NewReader(`
tiers:
  platinum:
    max_bulk_products: 10
`))
		require.ErrorIs(t, err, plan.ErrInvalidCatalog)
	})

	t.Run("rejects missing tier", func(t *testing.T) {
		t.Parallel()

		_, err := plan.LoadCatalog(strings.NewReader(`
tiers:
  free:
    max_bulk_products: 0
  starter:
    max_bulk_products: 0
`))
		require.ErrorIs(t, err, plan.ErrInvalidCatalog)
	})

	t.Run("rejects capability regression", func(t *testing.T) {
		t.Parallel()

		regressed := strings.Replace(validCatalogYAML,
			"  scale:\n    bulk_optimization: true",
			"  scale:\n    bulk_optimization: false", 1)

		_, err := plan.LoadCatalog(strings.NewReader(regressed))
		require.ErrorIs(t, err, plan.ErrInvalidCatalog)
		assert.Contains(t, err.Error(), "bulk_optimization")
	})

	t.Run("rejects decreasing bulk cap", func(t *testing.T) {
		t.Parallel()

		shrunk := strings.Replace(validCatalogYAML, "max_bulk_products: 250", "max_bulk_products: 5", 1)

		_, err := plan.LoadCatalog(strings.NewReader(shrunk))
		require.ErrorIs(t, err, plan.ErrInvalidCatalog)
		assert.Contains(t, err.Error(), "max_bulk_products")
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		t.Parallel()

		_, err := plan.LoadCatalog(strings.NewReader("tiers: ["))
		require.ErrorIs(t, err, plan.ErrInvalidCatalog)
	})
}

func TestNewCatalog_Validation(t *testing.T) {
	t.Parallel()

	caps := map[plan.Tier]plan.CapabilitySet{
		plan.TierFree:    {},
		plan.TierStarter: {ScheduledRefresh: true},
		plan.TierGrowth:  {ScheduledRefresh: true, BulkOptimization: true, MaxBulkProducts: 50},
		plan.TierScale:   {ScheduledRefresh: true, BulkOptimization: true, MaxBulkProducts: 500},
	}

	c, err := plan.NewCatalog(caps, nil)
	require.NoError(t, err)
	assert.True(t, c.Capabilities(plan.TierGrowth).BulkOptimization)

	// Dropping scheduled refresh on scale breaks monotonicity.
	caps[plan.TierScale] = plan.CapabilitySet{BulkOptimization: true, MaxBulkProducts: 500}
	_, err = plan.NewCatalog(caps, nil)
	require.ErrorIs(t, err, plan.ErrInvalidCatalog)
}

func TestCatalog_MinTierFor(t *testing.T) {
	t.Parallel()

	c := plan.Default()

	tier, ok := c.MinTierFor(plan.ActionBulkOptimize)
	require.True(t, ok)
	assert.Equal(t, plan.TierGrowth, tier)

	tier, ok = c.MinTierFor(plan.ActionCartRecovery)
	require.True(t, ok)
	assert.Equal(t, plan.TierScale, tier)

	tier, ok = c.MinTierFor(plan.ActionScheduledRefresh)
	require.True(t, ok)
	assert.Equal(t, plan.TierStarter, tier)

	_, ok = c.MinTierFor(plan.Action("made_up"))
	assert.False(t, ok)
}
