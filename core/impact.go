package core

import (
	"github.com/ne3mer/supplychainweb/core/algo"
	"github.com/ne3mer/supplychainweb/schema"
	"go.uber.org/zap"
)

// PredictImpact scores m before and after applying changes to a copy of it.
// Unknown or invalid changes are skipped and left out of Applied.
func (e *Engine) PredictImpact(m schema.SupplierMetrics, changes map[schema.MetricKey]float64) schema.ImpactPrediction {
	weights := e.Weights()
	before := e.Score(m, &weights)

	after := m.Clone()
	applied := make(map[schema.MetricKey]float64, len(changes))
	for key, v := range changes {
		if err := after.Set(key, v); err != nil {
			zap.L().Debug("skipping change", zap.String("metric", string(key)), zap.Error(err))
			continue
		}
		applied[key] = v
	}
	afterBundle := e.Score(after, &weights)

	return schema.ImpactPrediction{
		Before: before,
		After:  afterBundle,
		Deltas: schema.ScoreDeltas{
			Overall:       algo.PercentChange(before.OverallScore, afterBundle.OverallScore),
			Environmental: algo.PercentChange(before.EnvironmentalScore, afterBundle.EnvironmentalScore),
			Social:        algo.PercentChange(before.SocialScore, afterBundle.SocialScore),
			Governance:    algo.PercentChange(before.GovernanceScore, afterBundle.GovernanceScore),
		},
		Applied: applied,
	}
}

// ChangesFromMetrics turns a partial record into a change map. Only present
// metric fields are included.
func ChangesFromMetrics(partial schema.SupplierMetrics) map[schema.MetricKey]float64 {
	changes := make(map[schema.MetricKey]float64)
	for _, key := range schema.AllMetricKeys {
		if v, ok := partial.Lookup(key); ok {
			changes[key] = v
		}
	}
	return changes
}

// scenario is a canned what-if. Each factor scales the current value of a metric.
type scenario struct {
	name        string
	description string
	factors     map[schema.MetricKey]float64
}

var improvementScenarios = []scenario{
	{
		name:        "Environmental Focus",
		description: "Cut CO2 emissions by 20% and improve waste management by 20%",
		factors: map[schema.MetricKey]float64{
			schema.MetricCO2Emissions:    0.8,
			schema.MetricWasteManagement: 1.2,
		},
	},
	{
		name:        "Social Responsibility Focus",
		description: "Improve wage fairness and human rights practices by 20%",
		factors: map[schema.MetricKey]float64{
			schema.MetricWageFairness: 1.2,
			schema.MetricHumanRights:  1.2,
		},
	},
	{
		name:        "Governance Focus",
		description: "Raise transparency by 20% and cut corruption risk by 20%",
		factors: map[schema.MetricKey]float64{
			schema.MetricTransparency:   1.2,
			schema.MetricCorruptionRisk: 0.8,
		},
	},
}

// ImprovementScenarios runs the canned scenarios through PredictImpact.
// Metrics on a 0-1 scale are capped at 1.
func (e *Engine) ImprovementScenarios(m schema.SupplierMetrics) []schema.ImprovementScenario {
	out := make([]schema.ImprovementScenario, 0, len(improvementScenarios))
	for _, sc := range improvementScenarios {
		changes := make(map[schema.MetricKey]float64, len(sc.factors))
		for key, factor := range sc.factors {
			v := m.Get(key) * factor
			if spec := schema.MetricSpecs[key]; spec.Max == 1 {
				v = min(v, 1)
			}
			changes[key] = algo.Round2(v)
		}
		out = append(out, schema.ImprovementScenario{
			Name:        sc.name,
			Description: sc.description,
			Changes:     changes,
			Impact:      e.PredictImpact(m, changes),
		})
	}
	return out
}
