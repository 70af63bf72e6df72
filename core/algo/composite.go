package algo

import "github.com/ne3mer/supplychainweb/schema"

// Risk tier lower bounds. Each bound is inclusive: a score of exactly 80 is low risk.
const (
	LowRiskThreshold    = 80.0
	MediumRiskThreshold = 60.0
	HighRiskThreshold   = 40.0
)

// Fallback values reported when scoring fails internally.
const (
	FallbackScore = 50.0
	FallbackRisk  = schema.MediumRisk
)

// Composite combines the category sub-scores with the category weights and
// applies the external multiplier.
func Composite(env, social, gov float64, w schema.CategoryWeights, multiplier float64) float64 {
	return (w.Environmental*env + w.Social*social + w.Governance*gov) * multiplier
}

// RiskLevelFor maps an overall score onto the four risk tiers.
func RiskLevelFor(score float64) schema.RiskLevel {
	switch {
	case score >= LowRiskThreshold:
		return schema.LowRisk
	case score >= MediumRiskThreshold:
		return schema.MediumRisk
	case score >= HighRiskThreshold:
		return schema.HighRisk
	default:
		return schema.CriticalRisk
	}
}

// ComputeScore runs every calculator and returns the bundle together with the
// external multiplier that was applied.
func ComputeScore(m schema.SupplierMetrics, w schema.WeightConfig) (schema.ScoreBundle, float64) {
	env := EnvironmentalScore(m, w.Environmental)
	social := SocialScore(m, w.Social)
	gov := GovernanceScore(m, w.Governance)
	multiplier := ExternalMultiplier(m, w.External)
	overall := Composite(env, social, gov, w.Categories, multiplier)

	return schema.ScoreBundle{
		OverallScore:       overall,
		EnvironmentalScore: env,
		SocialScore:        social,
		GovernanceScore:    gov,
		RiskLevel:          RiskLevelFor(overall),
	}, multiplier
}

// FallbackBundle is the neutral result used when scoring cannot complete.
func FallbackBundle() schema.ScoreBundle {
	return schema.ScoreBundle{
		OverallScore:       FallbackScore,
		EnvironmentalScore: FallbackScore,
		SocialScore:        FallbackScore,
		GovernanceScore:    FallbackScore,
		RiskLevel:          FallbackRisk,
		Fallback:           true,
	}
}
