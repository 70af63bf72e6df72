package core

import (
	"fmt"
	"sort"

	"github.com/ne3mer/supplychainweb/core/algo"
	"github.com/ne3mer/supplychainweb/schema"
	"go.uber.org/zap"
)

// Recommendation list bounds.
const (
	MinRecommendations = 3
	MaxRecommendations = 5

	// WeakCategoryThreshold is the category score below which its metrics are inspected.
	WeakCategoryThreshold = 70.0

	peerLowerTolerance  = 1.2 // lower-is-better: flag above avg*1.2
	peerHigherTolerance = 0.8 // higher-is-better: flag below avg*0.8
)

// weakRule maps one weak metric onto an improvement action. A metric is weak
// when it is on the wrong side of threshold for its direction.
type weakRule struct {
	key        schema.MetricKey
	threshold  float64
	action     string
	impact     schema.Level
	difficulty schema.Level
	timeframe  string
}

var weakRules = map[schema.Category][]weakRule{
	schema.Environmental: {
		{schema.MetricCO2Emissions, 50, "Reduce carbon emissions through efficiency upgrades and renewable energy sourcing", schema.LevelHigh, schema.LevelMedium, "6-12 months"},
		{schema.MetricWaterUsage, 50, "Implement water recycling and conservation programs", schema.LevelMedium, schema.LevelMedium, "3-6 months"},
		{schema.MetricEnergyEfficiency, 0.6, "Upgrade equipment and processes to improve energy efficiency", schema.LevelHigh, schema.LevelHigh, "12-24 months"},
		{schema.MetricWasteManagement, 0.6, "Implement waste reduction and recycling programs", schema.LevelMedium, schema.LevelLow, "3-6 months"},
	},
	schema.Social: {
		{schema.MetricWageFairness, 0.6, "Review compensation against living-wage benchmarks", schema.LevelHigh, schema.LevelMedium, "3-6 months"},
		{schema.MetricHumanRights, 0.7, "Develop a comprehensive human rights policy with regular auditing", schema.LevelHigh, schema.LevelHigh, "6-12 months"},
		{schema.MetricDiversityInclusion, 0.5, "Set diversity and inclusion targets for hiring and promotion", schema.LevelMedium, schema.LevelMedium, "6-12 months"},
		{schema.MetricCommunityEngagement, 0.5, "Launch community engagement and local investment programs", schema.LevelLow, schema.LevelLow, "3-6 months"},
	},
	schema.Governance: {
		{schema.MetricTransparency, 0.6, "Improve transparency in business practices and reporting", schema.LevelMedium, schema.LevelMedium, "3-6 months"},
		{schema.MetricCorruptionRisk, 0.4, "Strengthen anti-corruption controls and training", schema.LevelHigh, schema.LevelMedium, "6-12 months"},
	},
}

// fillerRecommendations are appended, in order, until the floor is reached.
var fillerRecommendations = []schema.Recommendation{
	{
		Category:   schema.General,
		Action:     "Pursue sustainability certifications relevant to your industry",
		Impact:     schema.LevelMedium,
		Difficulty: schema.LevelMedium,
		Timeframe:  "6-12 months",
	},
	{
		Category:   schema.General,
		Action:     "Implement regular ESG performance monitoring and reporting",
		Impact:     schema.LevelMedium,
		Difficulty: schema.LevelLow,
		Timeframe:  "1-3 months",
	},
	{
		Category:   schema.General,
		Action:     "Commission an independent third-party ethics audit",
		Impact:     schema.LevelLow,
		Difficulty: schema.LevelMedium,
		Timeframe:  "3-6 months",
	},
}

// Recommend returns between 3 and 5 improvement actions for m, highest impact first.
// Peer comparisons are added when m has at least MinClusterPeers cluster peers.
func (e *Engine) Recommend(m schema.SupplierMetrics, peers []schema.SupplierMetrics) (recs []schema.Recommendation) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Warn("recommendation failed, using generic actions", zap.String("supplier", m.Name), zap.Any("panic", r))
			recs = finalizeRecommendations(nil)
		}
	}()

	bundle := e.Score(m, nil)
	for _, category := range schema.ScoreCategories {
		if bundle.CategoryScore(category) >= WeakCategoryThreshold {
			continue
		}
		for _, rule := range weakRules[category] {
			if rec, ok := rule.evaluate(m, category); ok {
				recs = append(recs, rec)
			}
		}
	}

	recs = append(recs, peerRecommendations(m, e.clusterPeers(m, peers))...)
	return finalizeRecommendations(recs)
}

func (r weakRule) evaluate(m schema.SupplierMetrics, category schema.Category) (schema.Recommendation, bool) {
	spec := schema.MetricSpecs[r.key]
	v := m.Get(r.key)

	var weak bool
	var relation string
	if spec.Direction == schema.LowerIsBetter {
		weak, relation = v > r.threshold, "at or below"
	} else {
		weak, relation = v < r.threshold, "at or above"
	}
	if !weak {
		return schema.Recommendation{}, false
	}

	return schema.Recommendation{
		Category:   category,
		Action:     r.action,
		Impact:     r.impact,
		Difficulty: r.difficulty,
		Timeframe:  r.timeframe,
		Details: fmt.Sprintf("Current %s is %s; target is %s %s.",
			spec.Label, formatMetric(r.key, v), relation, formatMetric(r.key, r.threshold)),
	}, true
}

// peerRecommendations compares each benchmark metric with the cluster average.
func peerRecommendations(m schema.SupplierMetrics, clusterPeers []schema.SupplierMetrics) []schema.Recommendation {
	if len(clusterPeers) < MinClusterPeers {
		return nil
	}

	var recs []schema.Recommendation
	for _, key := range schema.BenchmarkMetrics {
		spec := schema.MetricSpecs[key]
		v := m.Get(key)
		avg := algo.MetricMean(clusterPeers, key)

		var flagged bool
		var relation string
		if spec.Direction == schema.LowerIsBetter {
			flagged, relation = v > avg*peerLowerTolerance, "above"
		} else {
			flagged, relation = v < avg*peerHigherTolerance, "below"
		}
		if !flagged {
			continue
		}

		recs = append(recs, schema.Recommendation{
			Category:       spec.Category,
			Action:         fmt.Sprintf("Bring %s in line with industry peers", spec.Label),
			Impact:         schema.LevelMedium,
			Difficulty:     schema.LevelMedium,
			Timeframe:      "6-12 months",
			Details:        fmt.Sprintf("Your %s of %s is well %s the peer average of %s.", spec.Label, formatMetric(key, v), relation, formatMetric(key, avg)),
			PeerComparison: true,
		})
	}
	return recs
}

// finalizeRecommendations pads to the floor, sorts by impact and truncates to the ceiling.
func finalizeRecommendations(recs []schema.Recommendation) []schema.Recommendation {
	for i := 0; len(recs) < MinRecommendations && i < len(fillerRecommendations); i++ {
		recs = append(recs, fillerRecommendations[i])
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Impact.Rank() > recs[j].Impact.Rank()
	})
	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	return recs
}

// formatMetric renders a metric value at the precision of its scale.
func formatMetric(key schema.MetricKey, v float64) string {
	if spec := schema.MetricSpecs[key]; spec.Max == 1 {
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
