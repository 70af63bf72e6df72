package core

import (
	"math"

	"github.com/ne3mer/supplychainweb/core/algo"
	"github.com/ne3mer/supplychainweb/schema"
	"go.uber.org/zap"
)

// Score computes the score bundle for m. A nil w uses the active weights.
// Scoring never fails: internal errors degrade to the neutral fallback bundle.
func (e *Engine) Score(m schema.SupplierMetrics, w *schema.WeightConfig) schema.ScoreBundle {
	bundle, _ := e.ScoreDetailed(m, w)
	return bundle
}

// ScoreDetailed is Score plus the external multiplier that was applied.
func (e *Engine) ScoreDetailed(m schema.SupplierMetrics, w *schema.WeightConfig) (bundle schema.ScoreBundle, multiplier float64) {
	weights := e.resolve(w)

	defer func() {
		if r := recover(); r != nil {
			zap.L().Warn("scoring panicked, using fallback",
				zap.String("supplier", m.Name),
				zap.Any("panic", r))
			bundle, multiplier = algo.FallbackBundle(), 1.0
		}
	}()

	bundle, multiplier = algo.ComputeScore(m, weights)
	if !finiteBundle(bundle) || !finite(multiplier) {
		zap.L().Warn("scoring produced non-finite values, using fallback",
			zap.String("supplier", m.Name),
			zap.Float64("overall", bundle.OverallScore),
			zap.Float64("multiplier", multiplier))
		return algo.FallbackBundle(), 1.0
	}
	return bundle, multiplier
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finiteBundle(b schema.ScoreBundle) bool {
	return finite(b.OverallScore) &&
		finite(b.EnvironmentalScore) &&
		finite(b.SocialScore) &&
		finite(b.GovernanceScore)
}

// QuickSuggestions returns the short improvement hints attached to an evaluation.
func QuickSuggestions(m schema.SupplierMetrics) []string {
	suggestions := []string{}
	if m.Get(schema.MetricCO2Emissions) > 50 {
		suggestions = append(suggestions, "Consider implementing carbon reduction strategies.")
	}
	if m.Get(schema.MetricWageFairness) < 0.7 {
		suggestions = append(suggestions, "Review wage policies to ensure fair compensation.")
	}
	if m.Get(schema.MetricWasteManagement) < 0.6 {
		suggestions = append(suggestions, "Improve waste management and recycling programs.")
	}
	return suggestions
}

// Evaluate scores m and attaches the cluster assignment and quick suggestions.
func (e *Engine) Evaluate(m schema.SupplierMetrics, w *schema.WeightConfig) schema.EvaluationResult {
	bundle, multiplier := e.ScoreDetailed(m, w)
	result := schema.EvaluationResult{
		ID:                 m.ID,
		Name:               m.Name,
		Scores:             bundle,
		ExternalMultiplier: multiplier,
		Suggestions:        QuickSuggestions(m),
	}
	if id, ok := e.AssignCluster(m); ok {
		result.ClusterID = &id
	}
	return result
}
