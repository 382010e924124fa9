package plan

import "strings"

// Tier represents a subscription tier, totally ordered by capability.
type Tier string

const (
	TierFree    Tier = "free"
	TierStarter Tier = "starter"
	TierGrowth  Tier = "growth"
	TierScale   Tier = "scale"
)

// tierOrder defines the total order from least to most capable.
var tierOrder = []Tier{TierFree, TierStarter, TierGrowth, TierScale}

var tierRank = map[Tier]int{
	TierFree:    0,
	TierStarter: 1,
	TierGrowth:  2,
	TierScale:   3,
}

// tierAliases maps normalized historical tier names to canonical tiers.
// Billing records written by older versions of the dashboard used suffixed
// and underscored variants ("Starter+", "free_trial"); all of them must
// resolve here rather than at call sites.
var tierAliases = map[string]Tier{
	"free":      TierFree,
	"trial":     TierFree,
	"freetrial": TierFree,
	"starter":   TierStarter,
	"growth":    TierGrowth,
	"scale":     TierScale,
}

// ParseTier canonicalizes a raw tier name into a Tier. It is total: any
// input yields a valid tier. Unknown or malformed names resolve to TierFree
// so that bad plan data can never grant elevated access.
func ParseTier(raw string) Tier {
	normalized := normalizeTierName(raw)
	if tier, ok := tierAliases[normalized]; ok {
		return tier
	}
	return TierFree
}

// normalizeTierName lowercases and strips everything except letters, so
// "Starter+", "STARTER" and " starter " all collapse to "starter".
func normalizeTierName(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.ToLower(raw) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Rank returns the tier's position in the total order (free=0 .. scale=3).
// Unknown tiers rank as free.
func (t Tier) Rank() int {
	if r, ok := tierRank[t]; ok {
		return r
	}
	return tierRank[TierFree]
}

// AtLeast reports whether t is greater than or equal to other in the total order.
func (t Tier) AtLeast(other Tier) bool {
	return t.Rank() >= other.Rank()
}

// Valid reports whether t is one of the canonical tiers.
func (t Tier) Valid() bool {
	_, ok := tierRank[t]
	return ok
}

func (t Tier) String() string { return string(t) }

// Tiers returns all tiers from least to most capable.
func Tiers() []Tier {
	out := make([]Tier, len(tierOrder))
	copy(out, tierOrder)
	return out
}
