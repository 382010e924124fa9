package plan

// ExecutionPriority controls how optimization jobs are queued for a tier.
type ExecutionPriority string

const (
	PriorityStandard ExecutionPriority = "standard"
	PriorityFast     ExecutionPriority = "fast"
	PriorityTop      ExecutionPriority = "priority"
)

// AutonomyLevel controls how aggressively the optimizer may act without
// merchant approval.
type AutonomyLevel string

const (
	AutonomyVeryLow AutonomyLevel = "very_low"
	AutonomyLow     AutonomyLevel = "low"
	AutonomyMedium  AutonomyLevel = "medium"
	AutonomyHigh    AutonomyLevel = "high"
)

// CapabilitySet describes what a tier is allowed to do. Higher tiers are
// always a superset of lower tiers; Catalog validation enforces this.
type CapabilitySet struct {
	BulkOptimization     bool              `yaml:"bulk_optimization" json:"bulk_optimization"`
	SerpIntelligence     bool              `yaml:"serp_intelligence" json:"serp_intelligence"`
	AdvancedCartRecovery bool              `yaml:"advanced_cart_recovery" json:"advanced_cart_recovery"`
	ScheduledRefresh     bool              `yaml:"scheduled_refresh" json:"scheduled_refresh"`
	PerProductAutonomy   bool              `yaml:"per_product_autonomy" json:"per_product_autonomy"`
	AutoExecution        bool              `yaml:"auto_execution" json:"auto_execution"`
	MaxBulkProducts      int               `yaml:"max_bulk_products" json:"max_bulk_products"`
	ExecutionPriority    ExecutionPriority `yaml:"execution_priority" json:"execution_priority"`
	AutonomyLevel        AutonomyLevel     `yaml:"autonomy_level" json:"autonomy_level"`
}

// Feature names a single gated capability flag. Feature values appear in
// denial responses, so they are stable identifiers, not display names.
type Feature string

const (
	FeatureBulkOptimization     Feature = "bulk_optimization"
	FeatureSerpIntelligence     Feature = "serp_intelligence"
	FeatureAdvancedCartRecovery Feature = "advanced_cart_recovery"
	FeatureScheduledRefresh     Feature = "scheduled_refresh"
	FeaturePerProductAutonomy   Feature = "per_product_autonomy"
	FeatureAutoExecution        Feature = "auto_execution"
)

// Has reports whether the capability set enables the named feature.
// Unknown features are never enabled.
func (c CapabilitySet) Has(f Feature) bool {
	switch f {
	case FeatureBulkOptimization:
		return c.BulkOptimization
	case FeatureSerpIntelligence:
		return c.SerpIntelligence
	case FeatureAdvancedCartRecovery:
		return c.AdvancedCartRecovery
	case FeatureScheduledRefresh:
		return c.ScheduledRefresh
	case FeaturePerProductAutonomy:
		return c.PerProductAutonomy
	case FeatureAutoExecution:
		return c.AutoExecution
	default:
		return false
	}
}

// Capabilities returns the capability set for a tier from the default
// catalog. Unknown tiers resolve to the free tier's set, never an elevated
// one.
func Capabilities(tier Tier) CapabilitySet {
	return defaultCatalog.Capabilities(tier)
}

// HasSerpAccess reports whether the tier may run SERP competitive scans.
func HasSerpAccess(tier Tier) bool {
	return Capabilities(tier).SerpIntelligence
}

// CanUseBulkOperations reports whether the tier may run bulk optimizations.
func CanUseBulkOperations(tier Tier) bool {
	return Capabilities(tier).BulkOptimization
}

// MaxBulkProducts returns the tier's cap on bulk batch size.
func MaxBulkProducts(tier Tier) int {
	return Capabilities(tier).MaxBulkProducts
}

// HasAdvancedCartRecovery reports whether the tier may run advanced
// cart-recovery campaigns.
func HasAdvancedCartRecovery(tier Tier) bool {
	return Capabilities(tier).AdvancedCartRecovery
}

// HasScheduledRefresh reports whether the tier may schedule automatic
// product refreshes.
func HasScheduledRefresh(tier Tier) bool {
	return Capabilities(tier).ScheduledRefresh
}

// HasPerProductAutonomy reports whether the tier may configure autonomy
// per product.
func HasPerProductAutonomy(tier Tier) bool {
	return Capabilities(tier).PerProductAutonomy
}
