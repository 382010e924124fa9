package plan

// Action identifies a gated operation a merchant may request. Each action
// is gated by exactly one capability; bulk optimization additionally scales
// against the tier's MaxBulkProducts cap.
type Action string

const (
	ActionBulkOptimize       Action = "bulk_optimize"
	ActionSerpScan           Action = "serp_scan"
	ActionCartRecovery       Action = "cart_recovery_advanced"
	ActionScheduledRefresh   Action = "scheduled_refresh"
	ActionPerProductAutonomy Action = "per_product_autonomy"
)

// actionLabels provides human-readable names for denial messages.
var actionLabels = map[Action]string{
	ActionBulkOptimize:       "bulk product optimization",
	ActionSerpScan:           "SERP competitive analysis",
	ActionCartRecovery:       "advanced cart recovery",
	ActionScheduledRefresh:   "scheduled product refresh",
	ActionPerProductAutonomy: "per-product autonomy",
}

// Label returns the human-readable name of the action.
func (a Action) Label() string {
	if label, ok := actionLabels[a]; ok {
		return label
	}
	return string(a)
}

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	_, ok := actionLabels[a]
	return ok
}

// Feature returns the single capability flag gating this action. Unknown
// actions map to an empty feature, which no capability set enables.
func (a Action) Feature() Feature {
	switch a {
	case ActionBulkOptimize:
		return FeatureBulkOptimization
	case ActionSerpScan:
		return FeatureSerpIntelligence
	case ActionCartRecovery:
		return FeatureAdvancedCartRecovery
	case ActionScheduledRefresh:
		return FeatureScheduledRefresh
	case ActionPerProductAutonomy:
		return FeaturePerProductAutonomy
	default:
		return ""
	}
}

// quantityScaled reports whether the action is capped by MaxBulkProducts.
func (a Action) quantityScaled() bool {
	return a == ActionBulkOptimize
}

// actionEnabled reports whether the capability set satisfies the action's
// base requirement. Unknown actions are never enabled (fail closed).
func actionEnabled(caps CapabilitySet, action Action) bool {
	return caps.Has(action.Feature())
}
