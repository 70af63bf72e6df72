package core

import (
	"github.com/ne3mer/supplychainweb/core/algo"
	"github.com/ne3mer/supplychainweb/schema"
)

// SummarizeSignals reduces stored controversies and media observations to
// the values the external multiplier consumes.
func SummarizeSignals(controversies []schema.Controversy, media []schema.MediaSignal) schema.SupplierSignals {
	s := schema.SupplierSignals{
		HasControversies: len(controversies) > 0,
		SentimentMeans:   make(map[schema.SignalSource]float64),
	}
	for _, c := range controversies {
		if c.Status != schema.StatusResolved {
			s.OpenControversies++
		}
	}

	bySource := make(map[schema.SignalSource][]float64)
	for _, m := range media {
		bySource[m.Source] = append(bySource[m.Source], m.Score)
	}
	for source, scores := range bySource {
		s.SentimentMeans[source] = algo.Mean(scores)
	}
	return s
}

// EnrichSignals fills absent external fields of m from stored signals.
// Values already on the record win.
func EnrichSignals(m schema.SupplierMetrics, s schema.SupplierSignals) schema.SupplierMetrics {
	out := m.Clone()
	if out.ControversyCount == nil && s.HasControversies {
		out.ControversyCount = schema.Int(s.OpenControversies)
	}
	if v, ok := s.SentimentMeans[schema.SourceSocialMedia]; ok && out.SocialMediaSentiment == nil {
		out.SocialMediaSentiment = schema.Float(v)
	}
	if v, ok := s.SentimentMeans[schema.SourceNews]; ok && out.NewsSentiment == nil {
		out.NewsSentiment = schema.Float(v)
	}
	if v, ok := s.SentimentMeans[schema.SourceWorkerReview]; ok && out.WorkerSatisfaction == nil {
		out.WorkerSatisfaction = schema.Float(v)
	}
	return out
}
