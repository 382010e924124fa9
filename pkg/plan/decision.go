package plan

import "fmt"

// Denial codes carried by a Decision. The distinction matters to clients:
// a tier denial is remediated by upgrading, a quantity denial also by
// shrinking the batch.
const (
	CodeUpgradeRequired   = "plan_upgrade_required"
	CodeBulkLimitExceeded = "bulk_limit_exceeded"
)

// Decision is the result of evaluating a (tier, action, options) triple.
// It is a plain value: produced per check, never persisted.
type Decision struct {
	Allowed     bool   `json:"allowed"`
	Code        string `json:"code,omitempty"`
	Reason      string `json:"reason,omitempty"`
	UpgradeHint string `json:"upgrade_hint,omitempty"`
}

// CheckOptions carries per-request context for an access check.
type CheckOptions struct {
	// ProductCount is the batch size for quantity-scaled actions.
	ProductCount int
	// AutoExecute requests unattended execution, which requires the
	// AutoExecution capability on top of the action's own gate.
	AutoExecute bool
}

// CheckActionAccess evaluates an action against the default catalog.
func CheckActionAccess(tier Tier, action Action, opts CheckOptions) Decision {
	return defaultCatalog.CheckActionAccess(tier, action, opts)
}

// CheckActionAccess evaluates whether the tier may perform the action with
// the given options. The function is pure: identical inputs always yield
// an identical decision.
func (c *Catalog) CheckActionAccess(tier Tier, action Action, opts CheckOptions) Decision {
	caps := c.Capabilities(tier)

	if !actionEnabled(caps, action) {
		d := Decision{
			Code:   CodeUpgradeRequired,
			Reason: fmt.Sprintf("%s is not available on the %s plan", action.Label(), tier),
		}
		if min, ok := c.MinTierFor(action); ok {
			d.UpgradeHint = fmt.Sprintf("upgrade to the %s plan to unlock %s", min, action.Label())
		}
		return d
	}

	if action.quantityScaled() && opts.ProductCount > caps.MaxBulkProducts {
		return Decision{
			Code: CodeBulkLimitExceeded,
			Reason: fmt.Sprintf("requested %d products exceeds the %s plan limit of %d",
				opts.ProductCount, tier, caps.MaxBulkProducts),
			UpgradeHint: c.bulkLimitHint(tier, caps.MaxBulkProducts),
		}
	}

	if opts.AutoExecute && !caps.AutoExecution {
		d := Decision{
			Code:   CodeUpgradeRequired,
			Reason: fmt.Sprintf("auto-execution is not available on the %s plan", tier),
		}
		if min, ok := c.MinTierForFeature(FeatureAutoExecution); ok {
			d.UpgradeHint = fmt.Sprintf("upgrade to the %s plan to enable auto-execution", min)
		}
		return d
	}

	return Decision{Allowed: true}
}

// bulkLimitHint offers both remediations for a quantity denial: shrink the
// batch, or upgrade to the next tier with a larger cap if one exists.
func (c *Catalog) bulkLimitHint(tier Tier, limit int) string {
	for _, candidate := range tierOrder {
		if candidate.Rank() <= tier.Rank() {
			continue
		}
		set := c.caps[candidate]
		if set.BulkOptimization && set.MaxBulkProducts > limit {
			return fmt.Sprintf("reduce the batch to %d products or upgrade to the %s plan for up to %d",
				limit, candidate, set.MaxBulkProducts)
		}
	}
	return fmt.Sprintf("reduce the batch to %d products", limit)
}
