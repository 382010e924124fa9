package plan

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog holds the tier capability table and the billing price mapping.
// A Catalog is immutable after construction; guards and services share one
// instance for the process lifetime.
type Catalog struct {
	caps     map[Tier]CapabilitySet
	priceIDs map[Tier]string
}

// defaultCatalog is the built-in tier table. Operators can replace it per
// deployment via LoadCatalogFile, but the shipped defaults match the
// published Zyra pricing page.
var defaultCatalog = mustCatalog(map[Tier]CapabilitySet{
	TierFree: {
		MaxBulkProducts:   0,
		ExecutionPriority: PriorityStandard,
		AutonomyLevel:     AutonomyVeryLow,
	},
	TierStarter: {
		ScheduledRefresh:  true,
		MaxBulkProducts:   0,
		ExecutionPriority: PriorityStandard,
		AutonomyLevel:     AutonomyLow,
	},
	TierGrowth: {
		BulkOptimization:  true,
		SerpIntelligence:  true,
		ScheduledRefresh:  true,
		MaxBulkProducts:   50,
		ExecutionPriority: PriorityFast,
		AutonomyLevel:     AutonomyMedium,
	},
	TierScale: {
		BulkOptimization:     true,
		SerpIntelligence:     true,
		AdvancedCartRecovery: true,
		ScheduledRefresh:     true,
		PerProductAutonomy:   true,
		AutoExecution:        true,
		MaxBulkProducts:      500,
		ExecutionPriority:    PriorityTop,
		AutonomyLevel:        AutonomyHigh,
	},
}, nil)

// Default returns the built-in catalog.
func Default() *Catalog {
	return defaultCatalog
}

// NewCatalog builds a validated catalog from a full tier table and an
// optional tier to provider price ID mapping.
func NewCatalog(caps map[Tier]CapabilitySet, priceIDs map[Tier]string) (*Catalog, error) {
	c := &Catalog{
		caps:     make(map[Tier]CapabilitySet, len(caps)),
		priceIDs: make(map[Tier]string, len(priceIDs)),
	}
	for tier, set := range caps {
		c.caps[tier] = set
	}
	for tier, id := range priceIDs {
		c.priceIDs[tier] = id
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func mustCatalog(caps map[Tier]CapabilitySet, priceIDs map[Tier]string) *Catalog {
	c, err := NewCatalog(caps, priceIDs)
	if err != nil {
		panic(err)
	}
	return c
}

// catalogFile is the YAML document shape for operator-supplied catalogs.
type catalogFile struct {
	Tiers map[string]struct {
		CapabilitySet `yaml:",inline"`
		PriceID       string `yaml:"price_id"`
	} `yaml:"tiers"`
}

// LoadCatalog parses a catalog from YAML. Every canonical tier must be
// present; validation rejects tables where a higher tier loses a capability
// a lower tier has.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var file catalogFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, errors.Join(ErrInvalidCatalog, err)
	}

	caps := make(map[Tier]CapabilitySet, len(file.Tiers))
	priceIDs := make(map[Tier]string)
	for name, entry := range file.Tiers {
		tier := Tier(name)
		if !tier.Valid() {
			return nil, fmt.Errorf("%w: unknown tier %q", ErrInvalidCatalog, name)
		}
		caps[tier] = entry.CapabilitySet
		if entry.PriceID != "" {
			priceIDs[tier] = entry.PriceID
		}
	}

	return NewCatalog(caps, priceIDs)
}

// LoadCatalogFile reads a catalog from a YAML file on disk.
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidCatalog, err)
	}
	defer f.Close()
	return LoadCatalog(f)
}

// Capabilities returns the capability set for a tier. Unknown tiers fail
// closed to the free tier's set.
func (c *Catalog) Capabilities(tier Tier) CapabilitySet {
	if set, ok := c.caps[tier]; ok {
		return set
	}
	return c.caps[TierFree]
}

// PriceID returns the billing provider price ID for a tier, if configured.
func (c *Catalog) PriceID(tier Tier) (string, bool) {
	id, ok := c.priceIDs[tier]
	return id, ok
}

// TierForPriceID resolves a billing provider price ID back to a tier.
// Used during webhook processing to map a purchased price to the tier it
// grants.
func (c *Catalog) TierForPriceID(priceID string) (Tier, bool) {
	for tier, id := range c.priceIDs {
		if id == priceID {
			return tier, true
		}
	}
	return TierFree, false
}

// MinTierFor returns the lowest tier whose capability set satisfies the
// action's base requirement. The second return is false when no tier
// enables the action.
func (c *Catalog) MinTierFor(action Action) (Tier, bool) {
	return c.MinTierForFeature(action.Feature())
}

// MinTierForFeature returns the lowest tier that enables the feature.
func (c *Catalog) MinTierForFeature(f Feature) (Tier, bool) {
	for _, tier := range tierOrder {
		if c.caps[tier].Has(f) {
			return tier, true
		}
	}
	return TierScale, false
}

// validate enforces the catalog invariants: every canonical tier is
// present, no capability regresses as tiers increase, and bulk caps are
// non-decreasing.
func (c *Catalog) validate() error {
	for _, tier := range tierOrder {
		if _, ok := c.caps[tier]; !ok {
			return fmt.Errorf("%w: missing tier %q", ErrInvalidCatalog, tier)
		}
	}

	for i := 1; i < len(tierOrder); i++ {
		lower := c.caps[tierOrder[i-1]]
		higher := c.caps[tierOrder[i]]

		for name, pair := range map[string][2]bool{
			"bulk_optimization":      {lower.BulkOptimization, higher.BulkOptimization},
			"serp_intelligence":      {lower.SerpIntelligence, higher.SerpIntelligence},
			"advanced_cart_recovery": {lower.AdvancedCartRecovery, higher.AdvancedCartRecovery},
			"scheduled_refresh":      {lower.ScheduledRefresh, higher.ScheduledRefresh},
			"per_product_autonomy":   {lower.PerProductAutonomy, higher.PerProductAutonomy},
			"auto_execution":         {lower.AutoExecution, higher.AutoExecution},
		} {
			if pair[0] && !pair[1] {
				return fmt.Errorf("%w: %q regresses from %q to %q",
					ErrInvalidCatalog, name, tierOrder[i-1], tierOrder[i])
			}
		}

		if higher.MaxBulkProducts < lower.MaxBulkProducts {
			return fmt.Errorf("%w: max_bulk_products decreases from %q to %q",
				ErrInvalidCatalog, tierOrder[i-1], tierOrder[i])
		}
	}

	return nil
}
