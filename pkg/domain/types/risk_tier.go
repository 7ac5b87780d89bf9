package types

// RiskTier represents a discretized risk level derived from a score
type RiskTier string

const (
	RiskTierCritical RiskTier = "critical"
	RiskTierMedium   RiskTier = "medium"
	RiskTierStable   RiskTier = "stable"
)

// Score thresholds for risk tiers. These are the single source of truth:
// every place that derives a tier from a score must go through TierOf.
const (
	CriticalScoreThreshold = 80
	MediumScoreThreshold   = 50
)

// TierOf derives the risk tier for a score on the 0-100 scale
func TierOf(score int) RiskTier {
	switch {
	case score >= CriticalScoreThreshold:
		return RiskTierCritical
	case score >= MediumScoreThreshold:
		return RiskTierMedium
	default:
		return RiskTierStable
	}
}

// String returns the string representation of the risk tier
func (t RiskTier) String() string {
	return string(t)
}

// ClampScore clamps a risk score into the valid [0, 100] range
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
