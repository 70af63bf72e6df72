package algo

import (
	"math"
	"testing"

	"github.com/ne3mer/supplychainweb/schema"
	"github.com/stretchr/testify/assert"
)

// allNinety returns the strong-supplier fixture used across scoring tests.
func allNinety() schema.SupplierMetrics {
	return schema.SupplierMetrics{
		Name:                "Fixture Co",
		CO2Emissions:        schema.Float(10),
		WaterUsage:          schema.Float(10),
		EnergyEfficiency:    schema.Float(0.9),
		WasteManagement:     schema.Float(0.9),
		WageFairness:        schema.Float(0.9),
		HumanRights:         schema.Float(0.9),
		DiversityInclusion:  schema.Float(0.9),
		CommunityEngagement: schema.Float(0.9),
		Transparency:        schema.Float(0.9),
		CorruptionRisk:      schema.Float(0.1),
	}
}

// TestSubScores tests the three category calculators.
func TestSubScores(t *testing.T) {
	w := schema.DefaultWeights()

	tests := []struct {
		name       string
		metrics    schema.SupplierMetrics
		env        float64
		social     float64
		governance float64
	}{
		{
			name:       "all defaults",
			metrics:    schema.SupplierMetrics{Name: "Empty"},
			env:        50,
			social:     50,
			governance: 50,
		},
		{
			name:       "strong supplier",
			metrics:    allNinety(),
			env:        90,
			social:     90,
			governance: 90,
		},
		{
			name:       "co2 above scale is not clamped",
			metrics:    schema.SupplierMetrics{Name: "Heavy", CO2Emissions: schema.Float(150)},
			env:        10,
			social:     50,
			governance: 50,
		},
		{
			name: "corruption inverted",
			metrics: schema.SupplierMetrics{
				Name:           "Gov",
				Transparency:   schema.Float(1),
				CorruptionRisk: schema.Float(1),
			},
			env:        50,
			social:     50,
			governance: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.env, EnvironmentalScore(tt.metrics, w.Environmental), 1e-9)
			assert.InDelta(t, tt.social, SocialScore(tt.metrics, w.Social), 1e-9)
			assert.InDelta(t, tt.governance, GovernanceScore(tt.metrics, w.Governance), 1e-9)
		})
	}
}

// TestExternalMultiplier tests the signal blend and its neutral short-circuit.
func TestExternalMultiplier(t *testing.T) {
	w := schema.DefaultWeights().External

	tests := []struct {
		name     string
		metrics  schema.SupplierMetrics
		expected float64
	}{
		{
			name:     "no signals is exactly neutral",
			metrics:  schema.SupplierMetrics{},
			expected: 1.0,
		},
		{
			name:     "zero controversies only",
			metrics:  schema.SupplierMetrics{ControversyCount: schema.Int(0)},
			expected: 1.05,
		},
		{
			name:     "max controversies only",
			metrics:  schema.SupplierMetrics{ControversyCount: schema.Int(5)},
			expected: 0.95,
		},
		{
			name:     "controversies capped at five",
			metrics:  schema.SupplierMetrics{ControversyCount: schema.Int(40)},
			expected: 0.95,
		},
		{
			name: "best possible signals",
			metrics: schema.SupplierMetrics{
				SocialMediaSentiment: schema.Float(1),
				NewsSentiment:        schema.Float(1),
				WorkerSatisfaction:   schema.Float(5),
				ControversyCount:     schema.Int(0),
			},
			expected: 1.25,
		},
		{
			name: "worst possible signals",
			metrics: schema.SupplierMetrics{
				SocialMediaSentiment: schema.Float(-1),
				NewsSentiment:        schema.Float(-1),
				WorkerSatisfaction:   schema.Float(0),
				ControversyCount:     schema.Int(5),
			},
			expected: 0.75,
		},
		{
			name:     "neutral sentiment only",
			metrics:  schema.SupplierMetrics{NewsSentiment: schema.Float(0)},
			expected: 1.05,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ExternalMultiplier(tt.metrics, w), 1e-9)
		})
	}
}

// TestRiskLevelFor tests the inclusive tier boundaries.
func TestRiskLevelFor(t *testing.T) {
	tests := []struct {
		score    float64
		expected schema.RiskLevel
	}{
		{100, schema.LowRisk},
		{80.0, schema.LowRisk},
		{79.999, schema.MediumRisk},
		{60.0, schema.MediumRisk},
		{59.999, schema.HighRisk},
		{40.0, schema.HighRisk},
		{39.999, schema.CriticalRisk},
		{-12, schema.CriticalRisk},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, RiskLevelFor(tt.score), "score %v", tt.score)
	}
}

// TestComputeScore tests the full composite for the regression fixtures.
func TestComputeScore(t *testing.T) {
	w := schema.DefaultWeights()

	t.Run("defaults", func(t *testing.T) {
		bundle, mult := ComputeScore(schema.SupplierMetrics{Name: "Empty"}, w)
		assert.Equal(t, 1.0, mult)
		assert.InDelta(t, 50.0, bundle.OverallScore, 1e-9)
		assert.InDelta(t, 50.0, bundle.EnvironmentalScore, 1e-9)
		assert.InDelta(t, 50.0, bundle.SocialScore, 1e-9)
		assert.InDelta(t, 50.0, bundle.GovernanceScore, 1e-9)
		assert.Equal(t, schema.HighRisk, bundle.RiskLevel)
		assert.False(t, bundle.Fallback)
	})

	t.Run("strong supplier fixture", func(t *testing.T) {
		bundle, mult := ComputeScore(allNinety(), w)
		assert.Equal(t, 1.0, mult)
		assert.InDelta(t, 90.0, bundle.OverallScore, 1e-9)
		assert.Equal(t, schema.LowRisk, bundle.RiskLevel)
	})

	t.Run("external signals scale overall only", func(t *testing.T) {
		m := allNinety()
		m.ControversyCount = schema.Int(5)
		bundle, mult := ComputeScore(m, w)
		assert.InDelta(t, 0.95, mult, 1e-9)
		assert.InDelta(t, 85.5, bundle.OverallScore, 1e-9)
		assert.InDelta(t, 90.0, bundle.EnvironmentalScore, 1e-9)
		assert.Equal(t, schema.LowRisk, bundle.RiskLevel)
	})

	t.Run("custom category weights", func(t *testing.T) {
		custom := w
		custom.Categories = schema.CategoryWeights{Environmental: 1}
		m := schema.SupplierMetrics{Name: "Env only", CO2Emissions: schema.Float(0), WaterUsage: schema.Float(0), EnergyEfficiency: schema.Float(1), WasteManagement: schema.Float(1)}
		bundle, _ := ComputeScore(m, custom)
		assert.InDelta(t, 100.0, bundle.OverallScore, 1e-9)
	})
}

// TestFallbackBundle tests the neutral fallback values.
func TestFallbackBundle(t *testing.T) {
	b := FallbackBundle()
	assert.Equal(t, 50.0, b.OverallScore)
	assert.Equal(t, 50.0, b.EnvironmentalScore)
	assert.Equal(t, 50.0, b.SocialScore)
	assert.Equal(t, 50.0, b.GovernanceScore)
	assert.Equal(t, schema.MediumRisk, b.RiskLevel)
	assert.True(t, b.Fallback)
}

// TestPercentChange tests delta rounding and the zero-baseline guard.
func TestPercentChange(t *testing.T) {
	assert.Equal(t, 0.0, PercentChange(0, 10))
	assert.Equal(t, 10.0, PercentChange(50, 55))
	assert.Equal(t, -33.33, PercentChange(30, 20))
	assert.Equal(t, 0.0, PercentChange(40, 40))
	assert.Equal(t, 0.0, PercentChange(1, math.NaN()))
}

// TestMetricPercentile tests rank-based percentiles in both directions.
func TestMetricPercentile(t *testing.T) {
	peers := []float64{10, 20, 30, 40}

	// lower is better: share of peers strictly worse, so ties do not count
	assert.Equal(t, 50.0, MetricPercentile(20, peers, schema.LowerIsBetter))
	assert.Equal(t, 75.0, MetricPercentile(15, peers, schema.LowerIsBetter))
	// higher is better: share of peers at or below, so the tie at 20 counts
	assert.Equal(t, 50.0, MetricPercentile(20, peers, schema.HigherIsBetter))
	assert.Equal(t, 25.0, MetricPercentile(15, peers, schema.HigherIsBetter))
	assert.Equal(t, 100.0, MetricPercentile(40, peers, schema.HigherIsBetter))
	assert.Equal(t, 0.0, MetricPercentile(40, peers, schema.LowerIsBetter))
	assert.Equal(t, 0.0, MetricPercentile(1, nil, schema.HigherIsBetter))
}

// TestRankSuppliers tests ordering and limits.
func TestRankSuppliers(t *testing.T) {
	rec := func(id string, score *float64) schema.SupplierRecord {
		r := schema.SupplierRecord{SupplierMetrics: schema.SupplierMetrics{ID: id, Name: id}}
		if score != nil {
			r.Score = &schema.ScoreBundle{OverallScore: *score}
		}
		return r
	}
	records := []schema.SupplierRecord{
		rec("a", schema.Float(40)),
		rec("b", nil),
		rec("c", schema.Float(90)),
		rec("d", schema.Float(65)),
	}

	ranked := RankSuppliers(records, 3)
	assert.Len(t, ranked, 3)
	assert.Equal(t, "c", ranked[0].ID)
	assert.Equal(t, "d", ranked[1].ID)
	assert.Equal(t, "a", ranked[2].ID)

	all := RankSuppliers(ranked, 10)
	assert.Len(t, all, 3)
}

// BenchmarkComputeScore benchmarks score calculation.
func BenchmarkComputeScore(b *testing.B) {
	m := allNinety()
	m.NewsSentiment = schema.Float(0.3)
	w := schema.DefaultWeights()

	for b.Loop() {
		ComputeScore(m, w)
	}
}
