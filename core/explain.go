package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ne3mer/supplychainweb/core/algo"
	"github.com/ne3mer/supplychainweb/schema"
	"go.uber.org/zap"
)

// Explanation limits.
const (
	MaxStrengths           = 3
	MaxPercentileInsights  = 2
	MaxComparativeInsights = 2

	// PercentileInsightThreshold is the cluster percentile at which a metric is called out.
	PercentileInsightThreshold = 75.0

	// WeaknessGap is how far a category must trail the best one to count as a weakness.
	WeaknessGap = 20.0

	comparativeLowerFactor  = 0.7 // lower-is-better: at most 70% of the industry average
	comparativeHigherFactor = 1.3 // higher-is-better: at least 130% of the industry average
)

// strengthThresholds mark a metric as a strength when it is on the good side of the value.
var strengthThresholds = []struct {
	key       schema.MetricKey
	threshold float64
}{
	{schema.MetricCO2Emissions, 20},
	{schema.MetricWaterUsage, 20},
	{schema.MetricEnergyEfficiency, 0.7},
	{schema.MetricWasteManagement, 0.7},
	{schema.MetricWageFairness, 0.7},
	{schema.MetricHumanRights, 0.8},
	{schema.MetricDiversityInclusion, 0.7},
	{schema.MetricCommunityEngagement, 0.7},
	{schema.MetricTransparency, 0.7},
	{schema.MetricCorruptionRisk, 0.2},
}

type strength struct {
	score    float64
	sentence string
}

// Explain describes m's standing. Cluster percentiles need a trained model and
// at least MinClusterPeers cluster peers; industry comparisons need at least
// MinIndustryPeers same-industry peers. Missing data drops those sections.
func (e *Engine) Explain(m schema.SupplierMetrics, peers []schema.SupplierMetrics) (out schema.Explanation) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Warn("explanation failed, using fallback", zap.String("supplier", m.Name), zap.Any("panic", r))
			out = fallbackExplanation()
		}
	}()

	bundle := e.Score(m, nil)
	out = schema.Explanation{
		KeyStrengths:        keyStrengths(m),
		KeyWeaknesses:       keyWeaknesses(bundle),
		PercentileInsights:  percentileInsights(m, e.clusterPeers(m, peers)),
		ComparativeInsights: comparativeInsights(m, industryPeers(m, peers)),
	}
	out.Summary = summarize(out, bundle)
	return out
}

func keyStrengths(m schema.SupplierMetrics) []string {
	var found []strength
	for _, st := range strengthThresholds {
		spec := schema.MetricSpecs[st.key]
		v := m.Get(st.key)

		var s strength
		if spec.Direction == schema.LowerIsBetter {
			if v >= st.threshold {
				continue
			}
			s = strength{
				score: (st.threshold - v) / st.threshold,
				sentence: fmt.Sprintf("Low %s of %s, well below the %s threshold.",
					spec.Label, formatMetric(st.key, v), formatMetric(st.key, st.threshold)),
			}
		} else {
			if v <= st.threshold {
				continue
			}
			s = strength{
				score: (v - st.threshold) / (1 - st.threshold),
				sentence: fmt.Sprintf("Strong %s at %s, above the %s benchmark.",
					spec.Label, formatMetric(st.key, v), formatMetric(st.key, st.threshold)),
			}
		}
		found = append(found, s)
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].score > found[j].score })

	sentences := []string{}
	for i := 0; i < len(found) && i < MaxStrengths; i++ {
		sentences = append(sentences, found[i].sentence)
	}
	return sentences
}

func keyWeaknesses(b schema.ScoreBundle) []string {
	best := schema.ScoreCategories[0]
	for _, c := range schema.ScoreCategories[1:] {
		if b.CategoryScore(c) > b.CategoryScore(best) {
			best = c
		}
	}

	weaknesses := []string{}
	for _, c := range schema.ScoreCategories {
		if b.CategoryScore(best)-b.CategoryScore(c) > WeaknessGap {
			weaknesses = append(weaknesses, fmt.Sprintf("Needs improvement in %s performance (%.1f vs %.1f in %s).",
				c, b.CategoryScore(c), b.CategoryScore(best), best))
		}
	}
	if len(weaknesses) == 0 {
		weaknesses = append(weaknesses, "Relatively balanced performance across categories.")
	}
	return weaknesses
}

func percentileInsights(m schema.SupplierMetrics, clusterPeers []schema.SupplierMetrics) []string {
	insights := []string{}
	if len(clusterPeers) < MinClusterPeers {
		return insights
	}
	for _, key := range schema.BenchmarkMetrics {
		spec := schema.MetricSpecs[key]
		values := make([]float64, len(clusterPeers))
		for i, p := range clusterPeers {
			values[i] = p.Get(key)
		}
		pct := algo.MetricPercentile(m.Get(key), values, spec.Direction)
		if pct < PercentileInsightThreshold {
			continue
		}
		insights = append(insights, fmt.Sprintf("Ranks in the %.0fth percentile of its peer cluster for %s.", pct, spec.Label))
		if len(insights) == MaxPercentileInsights {
			break
		}
	}
	return insights
}

func comparativeInsights(m schema.SupplierMetrics, sameIndustry []schema.SupplierMetrics) []string {
	insights := []string{}
	if len(sameIndustry) < MinIndustryPeers {
		return insights
	}
	for _, key := range schema.IndustryComparisonMetrics {
		spec := schema.MetricSpecs[key]
		v := m.Get(key)
		avg := algo.MetricMean(sameIndustry, key)
		if avg == 0 {
			continue
		}

		var better float64
		if spec.Direction == schema.LowerIsBetter {
			if v > avg*comparativeLowerFactor {
				continue
			}
			better = (avg - v) / avg * 100
		} else {
			if v < avg*comparativeHigherFactor {
				continue
			}
			better = (v - avg) / avg * 100
		}
		insights = append(insights, fmt.Sprintf("%s is %.0f%% better than the %s industry average.",
			capitalize(spec.Label), better, strings.TrimSpace(m.Industry)))
		if len(insights) == MaxComparativeInsights {
			break
		}
	}
	return insights
}

// summarize joins up to two strengths, one percentile and one comparative sentence.
func summarize(x schema.Explanation, b schema.ScoreBundle) string {
	var parts []string
	parts = append(parts, x.KeyStrengths[:min(2, len(x.KeyStrengths))]...)
	parts = append(parts, x.PercentileInsights[:min(1, len(x.PercentileInsights))]...)
	parts = append(parts, x.ComparativeInsights[:min(1, len(x.ComparativeInsights))]...)
	if len(parts) == 0 {
		return fmt.Sprintf("This supplier demonstrates %s risk with an overall ethical score of %.1f.", b.RiskLevel, b.OverallScore)
	}
	return strings.Join(parts, " ")
}

func fallbackExplanation() schema.Explanation {
	return schema.Explanation{
		KeyStrengths:        []string{},
		KeyWeaknesses:       []string{},
		PercentileInsights:  []string{},
		ComparativeInsights: []string{},
		Summary:             "A detailed explanation is not available for this supplier.",
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
