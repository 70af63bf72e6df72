package core

import (
	"strings"

	"github.com/ne3mer/supplychainweb/core/algo"
	"github.com/ne3mer/supplychainweb/schema"
)

// DefaultTopSuppliers is the leaderboard size used by the dashboard.
const DefaultTopSuppliers = 10

// scoreBuckets are the inclusive upper bounds of the distribution ranges.
var scoreBuckets = []struct {
	label string
	upper float64
}{
	{"0-20", 20},
	{"21-40", 40},
	{"41-60", 60},
	{"61-80", 80},
	{"81-100", 100},
}

// BuildDashboard aggregates stored suppliers. Averages and distributions only
// count suppliers that have a stored score.
func BuildDashboard(records []schema.SupplierRecord) schema.Dashboard {
	d := schema.Dashboard{
		TotalSuppliers:      len(records),
		RiskDistribution:    make(map[schema.RiskLevel]int, len(schema.AllRiskLevels)),
		ScoreDistribution:   make([]schema.ScoreBucket, len(scoreBuckets)),
		SuppliersByCountry:  make(map[string]int),
		SuppliersByIndustry: make(map[string]int),
	}
	for _, level := range schema.AllRiskLevels {
		d.RiskDistribution[level] = 0
	}
	for i, b := range scoreBuckets {
		d.ScoreDistribution[i].Range = b.label
	}

	var overall, env, social, gov, co2 []float64
	for _, r := range records {
		d.SuppliersByCountry[labelOrUnknown(r.Country)]++
		d.SuppliersByIndustry[labelOrUnknown(r.Industry)]++
		if v, ok := r.Lookup(schema.MetricCO2Emissions); ok {
			co2 = append(co2, v)
		}
		if r.Score == nil {
			continue
		}
		overall = append(overall, r.Score.OverallScore)
		env = append(env, r.Score.EnvironmentalScore)
		social = append(social, r.Score.SocialScore)
		gov = append(gov, r.Score.GovernanceScore)
		d.RiskDistribution[r.Score.RiskLevel]++
		d.ScoreDistribution[bucketIndex(r.Score.OverallScore)].Count++
	}

	d.ScoredSuppliers = len(overall)
	d.AvgOverall = algo.Round2(algo.Mean(overall))
	d.AvgEnvironmental = algo.Round2(algo.Mean(env))
	d.AvgSocial = algo.Round2(algo.Mean(social))
	d.AvgGovernance = algo.Round2(algo.Mean(gov))
	d.AvgCO2Emissions = algo.Round2(algo.Mean(co2))
	d.TopSuppliers = TopSuppliers(records, DefaultTopSuppliers)
	return d
}

// TopSuppliers ranks scored suppliers by overall score. The input is not modified.
func TopSuppliers(records []schema.SupplierRecord, limit int) []schema.RankedSupplier {
	scored := make([]schema.SupplierRecord, 0, len(records))
	for _, r := range records {
		if r.Score != nil {
			scored = append(scored, r)
		}
	}

	ranked := algo.RankSuppliers(scored, limit)
	out := make([]schema.RankedSupplier, len(ranked))
	for i, r := range ranked {
		out[i] = schema.RankedSupplier{
			Rank:      i + 1,
			ID:        r.ID,
			Name:      r.Name,
			Country:   r.Country,
			Industry:  r.Industry,
			Scores:    *r.Score,
			ClusterID: r.ClusterID,
		}
	}
	return out
}

// bucketIndex maps a score onto a distribution bucket. Out-of-scale scores
// land in the first or last bucket.
func bucketIndex(score float64) int {
	for i, b := range scoreBuckets {
		if score <= b.upper {
			return i
		}
	}
	return len(scoreBuckets) - 1
}

func labelOrUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "Unknown"
	}
	return s
}
