package core

import (
	"testing"

	"github.com/ne3mer/supplychainweb/schema"
	"github.com/stretchr/testify/assert"
)

// TestSummarizeSignals tests the reduction of stored observations.
func TestSummarizeSignals(t *testing.T) {
	s := SummarizeSignals(
		[]schema.Controversy{
			{Status: schema.StatusUnresolved},
			{Status: schema.StatusInProgress},
			{Status: schema.StatusResolved},
		},
		[]schema.MediaSignal{
			{Source: schema.SourceNews, Score: -0.5},
			{Source: schema.SourceNews, Score: 0.5},
			{Source: schema.SourceWorkerReview, Score: 4},
		},
	)

	assert.True(t, s.HasControversies)
	assert.Equal(t, 2, s.OpenControversies)
	assert.Equal(t, map[schema.SignalSource]float64{
		schema.SourceNews:         0,
		schema.SourceWorkerReview: 4,
	}, s.SentimentMeans)
}

// TestEnrichSignals tests that stored signals only fill absent fields.
func TestEnrichSignals(t *testing.T) {
	signals := schema.SupplierSignals{
		HasControversies:  true,
		OpenControversies: 0,
		SentimentMeans: map[schema.SignalSource]float64{
			schema.SourceSocialMedia:  0.4,
			schema.SourceNews:         -0.2,
			schema.SourceWorkerReview: 3.5,
		},
	}

	t.Run("fills absent fields", func(t *testing.T) {
		m := EnrichSignals(schema.SupplierMetrics{Name: "x"}, signals)
		assert.Equal(t, 0, *m.ControversyCount)
		assert.Equal(t, 0.4, *m.SocialMediaSentiment)
		assert.Equal(t, -0.2, *m.NewsSentiment)
		assert.Equal(t, 3.5, *m.WorkerSatisfaction)
	})

	t.Run("record values win", func(t *testing.T) {
		in := schema.SupplierMetrics{Name: "x", NewsSentiment: schema.Float(0.9), ControversyCount: schema.Int(3)}
		m := EnrichSignals(in, signals)
		assert.Equal(t, 0.9, *m.NewsSentiment)
		assert.Equal(t, 3, *m.ControversyCount)
	})

	t.Run("no signals", func(t *testing.T) {
		m := EnrichSignals(schema.SupplierMetrics{Name: "x"}, schema.SupplierSignals{})
		assert.False(t, m.HasExternalSignals())
	})

	t.Run("input is not aliased", func(t *testing.T) {
		in := schema.SupplierMetrics{Name: "x", CO2Emissions: schema.Float(10)}
		m := EnrichSignals(in, signals)
		*m.CO2Emissions = 99
		assert.Equal(t, 10.0, *in.CO2Emissions)
	})
}
