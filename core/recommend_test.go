package core

import (
	"testing"

	"github.com/ne3mer/supplychainweb/core/algo"
	"github.com/ne3mer/supplychainweb/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRecommend_Bounds tests that every supplier gets between 3 and 5 actions.
func TestRecommend_Bounds(t *testing.T) {
	e := newTestEngine(true)
	peers := population(10)
	_, err := e.TrainClusters(peers)
	require.NoError(t, err)

	tests := []struct {
		name    string
		metrics schema.SupplierMetrics
	}{
		{"strong supplier", strongSupplier()},
		{"weak supplier", weakSupplier()},
		{"default record", schema.SupplierMetrics{Name: "Blank"}},
		{"peer member", peers[1]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := e.Recommend(tt.metrics, peers)
			assert.GreaterOrEqual(t, len(recs), MinRecommendations)
			assert.LessOrEqual(t, len(recs), MaxRecommendations)
			for i := 1; i < len(recs); i++ {
				assert.GreaterOrEqual(t, recs[i-1].Impact.Rank(), recs[i].Impact.Rank())
			}
		})
	}
}

// TestRecommend_StrongSupplierGetsGenericActions tests padding with general actions.
func TestRecommend_StrongSupplierGetsGenericActions(t *testing.T) {
	e := newTestEngine(false)
	recs := e.Recommend(strongSupplier(), nil)

	require.Len(t, recs, 3)
	for _, r := range recs {
		assert.Equal(t, schema.General, r.Category)
	}
	assert.Equal(t, schema.LevelLow, recs[2].Impact)
}

// TestRecommend_WeakSupplier tests that weak metrics produce specific actions.
func TestRecommend_WeakSupplier(t *testing.T) {
	e := newTestEngine(false)
	recs := e.Recommend(weakSupplier(), nil)

	require.Len(t, recs, MaxRecommendations)
	for _, r := range recs {
		assert.NotEqual(t, schema.General, r.Category)
		assert.Equal(t, schema.LevelHigh, r.Impact)
		assert.NotEmpty(t, r.Details)
	}
}

// TestRecommend_OnlyWeakCategories tests that strong categories are not inspected.
func TestRecommend_OnlyWeakCategories(t *testing.T) {
	e := newTestEngine(false)
	m := strongSupplier()
	m.Transparency = schema.Float(0.1)
	m.CorruptionRisk = schema.Float(0.9)

	recs := e.Recommend(m, nil)
	require.Len(t, recs, 3)
	assert.Equal(t, schema.Governance, recs[0].Category)
	assert.Contains(t, recs[0].Action, "anti-corruption")
	assert.Equal(t, schema.Governance, recs[1].Category)
	assert.Equal(t, schema.General, recs[2].Category)
}

// TestPeerRecommendations tests comparison with cluster peers.
func TestPeerRecommendations(t *testing.T) {
	peers := []schema.SupplierMetrics{
		leveled("a", "Textiles", 0.8),
		leveled("b", "Textiles", 0.8),
		leveled("c", "Textiles", 0.8),
	}

	t.Run("lagging supplier is flagged", func(t *testing.T) {
		recs := peerRecommendations(leveled("x", "Textiles", 0.5), peers)
		require.NotEmpty(t, recs)
		for _, r := range recs {
			assert.True(t, r.PeerComparison)
			assert.Contains(t, r.Action, "in line with industry peers")
		}
	})

	t.Run("matching supplier is not flagged", func(t *testing.T) {
		assert.Empty(t, peerRecommendations(leveled("x", "Textiles", 0.8), peers))
	})

	t.Run("too few peers", func(t *testing.T) {
		assert.Nil(t, peerRecommendations(leveled("x", "Textiles", 0.1), peers[:2]))
	})

	// at returns a supplier sitting exactly on the tolerance edge for every metric,
	// nudged by step toward the flagged side.
	at := func(step float64) schema.SupplierMetrics {
		m := schema.SupplierMetrics{ID: "x", Name: "x", Industry: "Textiles"}
		for _, key := range schema.BenchmarkMetrics {
			avg := algo.MetricMean(peers, key)
			v := avg*peerHigherTolerance - step
			if schema.MetricSpecs[key].Direction == schema.LowerIsBetter {
				v = avg*peerLowerTolerance + step
			}
			require.NoError(t, m.Set(key, v))
		}
		return m
	}

	t.Run("exactly on the tolerance is not flagged", func(t *testing.T) {
		assert.Empty(t, peerRecommendations(at(0), peers))
	})

	t.Run("just past the tolerance is flagged", func(t *testing.T) {
		assert.Len(t, peerRecommendations(at(0.01), peers), len(schema.BenchmarkMetrics))
	})
}

// TestFormatMetric tests precision by metric scale.
func TestFormatMetric(t *testing.T) {
	assert.Equal(t, "0.50", formatMetric(schema.MetricWageFairness, 0.5))
	assert.Equal(t, "42.0", formatMetric(schema.MetricCO2Emissions, 42))
}
