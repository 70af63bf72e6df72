// Package algo holds the pure scoring math: sub-scores, the external
// multiplier, composition into an overall score and small statistics helpers.
package algo

import "github.com/ne3mer/supplychainweb/schema"

// EnvironmentalScore computes the 0-100 environmental sub-score.
// CO2 and water are inverted with 100-v; no clamping is applied, so values
// above 100 produce negative components.
func EnvironmentalScore(m schema.SupplierMetrics, w schema.EnvironmentalWeights) float64 {
	co2 := 100 - m.Get(schema.MetricCO2Emissions)
	water := 100 - m.Get(schema.MetricWaterUsage)
	energy := m.Get(schema.MetricEnergyEfficiency) * 100
	waste := m.Get(schema.MetricWasteManagement) * 100

	return w.CO2Emissions*co2 +
		w.WaterUsage*water +
		w.EnergyEfficiency*energy +
		w.WasteManagement*waste
}

// SocialScore computes the 0-100 social sub-score.
func SocialScore(m schema.SupplierMetrics, w schema.SocialWeights) float64 {
	return w.WageFairness*m.Get(schema.MetricWageFairness)*100 +
		w.HumanRights*m.Get(schema.MetricHumanRights)*100 +
		w.DiversityInclusion*m.Get(schema.MetricDiversityInclusion)*100 +
		w.CommunityEngagement*m.Get(schema.MetricCommunityEngagement)*100
}

// GovernanceScore computes the 0-100 governance sub-score.
// Corruption risk is inverted before scaling.
func GovernanceScore(m schema.SupplierMetrics, w schema.GovernanceWeights) float64 {
	transparency := m.Get(schema.MetricTransparency) * 100
	integrity := (1 - m.Get(schema.MetricCorruptionRisk)) * 100

	return w.Transparency*transparency + w.CorruptionRisk*integrity
}
