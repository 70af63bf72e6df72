package core

import (
	"github.com/ne3mer/supplychainweb/core/algo"
	"github.com/ne3mer/supplychainweb/schema"
)

// Analyze builds the full report for m against the peer collection.
func (e *Engine) Analyze(m schema.SupplierMetrics, peers []schema.SupplierMetrics) schema.DetailedAnalysis {
	bundle, multiplier := e.ScoreDetailed(m, nil)
	others := excludeSelf(m, peers)

	return schema.DetailedAnalysis{
		ID:                   m.ID,
		Name:                 m.Name,
		Country:              m.Country,
		Industry:             m.Industry,
		Scores:               bundle,
		ExternalMultiplier:   multiplier,
		IndustryBenchmarks:   e.IndustryBenchmarks(m, others),
		Percentiles:          e.Percentiles(bundle, others),
		Cluster:              e.ClusterInfo(m, others),
		Recommendations:      e.Recommend(m, others),
		Explanation:          e.Explain(m, others),
		ImprovementScenarios: e.ImprovementScenarios(m),
	}
}

// IndustryBenchmarks averages the scores of same-industry peers.
// It returns nil when the industry is unknown or has no other suppliers.
func (e *Engine) IndustryBenchmarks(m schema.SupplierMetrics, peers []schema.SupplierMetrics) *schema.IndustryBenchmarks {
	weights := e.Weights()
	var overall, env, social, gov []float64
	for _, p := range peers {
		if isSelf(m, p) || !sameIndustry(m.Industry, p.Industry) {
			continue
		}
		b := e.Score(p, &weights)
		overall = append(overall, b.OverallScore)
		env = append(env, b.EnvironmentalScore)
		social = append(social, b.SocialScore)
		gov = append(gov, b.GovernanceScore)
	}
	if len(overall) == 0 {
		return nil
	}

	worst, best := algo.Span(overall)
	return &schema.IndustryBenchmarks{
		Industry:         m.Industry,
		PeerCount:        len(overall),
		AvgOverall:       algo.Round2(algo.Mean(overall)),
		AvgEnvironmental: algo.Round2(algo.Mean(env)),
		AvgSocial:        algo.Round2(algo.Mean(social)),
		AvgGovernance:    algo.Round2(algo.Mean(gov)),
		BestOverall:      algo.Round2(best),
		WorstOverall:     algo.Round2(worst),
	}
}

// Percentiles places the bundle within the scores of the peer population.
func (e *Engine) Percentiles(b schema.ScoreBundle, peers []schema.SupplierMetrics) schema.ScorePercentiles {
	weights := e.Weights()
	overall := make([]float64, 0, len(peers))
	env := make([]float64, 0, len(peers))
	social := make([]float64, 0, len(peers))
	gov := make([]float64, 0, len(peers))
	for _, p := range peers {
		pb := e.Score(p, &weights)
		overall = append(overall, pb.OverallScore)
		env = append(env, pb.EnvironmentalScore)
		social = append(social, pb.SocialScore)
		gov = append(gov, pb.GovernanceScore)
	}

	return schema.ScorePercentiles{
		Overall:       algo.Round2(algo.ScorePercentile(b.OverallScore, overall)),
		Environmental: algo.Round2(algo.ScorePercentile(b.EnvironmentalScore, env)),
		Social:        algo.Round2(algo.ScorePercentile(b.SocialScore, social)),
		Governance:    algo.Round2(algo.ScorePercentile(b.GovernanceScore, gov)),
	}
}
