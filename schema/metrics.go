package schema

import (
	"fmt"
	"strings"
)

// MetricKey names a numeric supplier attribute.
type MetricKey string

// Supplier metric keys. These match the JSON field names of SupplierMetrics.
const (
	MetricCO2Emissions        MetricKey = "co2_emissions"
	MetricWaterUsage          MetricKey = "water_usage"
	MetricEnergyEfficiency    MetricKey = "energy_efficiency"
	MetricWasteManagement     MetricKey = "waste_management_score"
	MetricWageFairness        MetricKey = "wage_fairness"
	MetricHumanRights         MetricKey = "human_rights_index"
	MetricDiversityInclusion  MetricKey = "diversity_inclusion_score"
	MetricCommunityEngagement MetricKey = "community_engagement"
	MetricTransparency        MetricKey = "transparency_score"
	MetricCorruptionRisk      MetricKey = "corruption_risk"
	MetricSocialMedia         MetricKey = "social_media_sentiment"
	MetricNewsSentiment       MetricKey = "news_sentiment"
	MetricWorkerSatisfaction  MetricKey = "worker_satisfaction"
	MetricControversyCount    MetricKey = "controversy_count"
)

// MetricSpec describes the scale and meaning of one metric.
type MetricSpec struct {
	Key       MetricKey
	Label     string
	Category  Category
	Direction Direction
	Default   float64
	Min       float64
	Max       float64 // 0 means unbounded above
	External  bool    // external signals have no default; absence means neutral
}

// MetricSpecs holds the specification of every supported metric.
var MetricSpecs = map[MetricKey]MetricSpec{
	MetricCO2Emissions:        {MetricCO2Emissions, "CO2 emissions", Environmental, LowerIsBetter, 50, 0, 0, false},
	MetricWaterUsage:          {MetricWaterUsage, "water usage", Environmental, LowerIsBetter, 50, 0, 0, false},
	MetricEnergyEfficiency:    {MetricEnergyEfficiency, "energy efficiency", Environmental, HigherIsBetter, 0.5, 0, 1, false},
	MetricWasteManagement:     {MetricWasteManagement, "waste management", Environmental, HigherIsBetter, 0.5, 0, 1, false},
	MetricWageFairness:        {MetricWageFairness, "wage fairness", Social, HigherIsBetter, 0.5, 0, 1, false},
	MetricHumanRights:         {MetricHumanRights, "human rights", Social, HigherIsBetter, 0.5, 0, 1, false},
	MetricDiversityInclusion:  {MetricDiversityInclusion, "diversity and inclusion", Social, HigherIsBetter, 0.5, 0, 1, false},
	MetricCommunityEngagement: {MetricCommunityEngagement, "community engagement", Social, HigherIsBetter, 0.5, 0, 1, false},
	MetricTransparency:        {MetricTransparency, "transparency", Governance, HigherIsBetter, 0.5, 0, 1, false},
	MetricCorruptionRisk:      {MetricCorruptionRisk, "corruption risk", Governance, LowerIsBetter, 0.5, 0, 1, false},
	MetricSocialMedia:         {MetricSocialMedia, "social media sentiment", General, HigherIsBetter, 0, -1, 1, true},
	MetricNewsSentiment:       {MetricNewsSentiment, "news sentiment", General, HigherIsBetter, 0, -1, 1, true},
	MetricWorkerSatisfaction:  {MetricWorkerSatisfaction, "worker satisfaction", General, HigherIsBetter, 2.5, 0, 5, true},
	MetricControversyCount:    {MetricControversyCount, "controversies", General, LowerIsBetter, 0, 0, 0, true},
}

// AllMetricKeys lists every metric in a stable display order.
var AllMetricKeys = []MetricKey{
	MetricCO2Emissions,
	MetricWaterUsage,
	MetricEnergyEfficiency,
	MetricWasteManagement,
	MetricWageFairness,
	MetricHumanRights,
	MetricDiversityInclusion,
	MetricCommunityEngagement,
	MetricTransparency,
	MetricCorruptionRisk,
	MetricSocialMedia,
	MetricNewsSentiment,
	MetricWorkerSatisfaction,
	MetricControversyCount,
}

// BenchmarkMetrics are the features used for clustering and peer comparison.
var BenchmarkMetrics = []MetricKey{
	MetricCO2Emissions,
	MetricWaterUsage,
	MetricEnergyEfficiency,
	MetricWasteManagement,
	MetricWageFairness,
	MetricHumanRights,
	MetricDiversityInclusion,
	MetricTransparency,
	MetricCorruptionRisk,
}

// IndustryComparisonMetrics is the subset compared against industry averages.
var IndustryComparisonMetrics = []MetricKey{
	MetricCO2Emissions,
	MetricWaterUsage,
	MetricEnergyEfficiency,
	MetricWageFairness,
	MetricHumanRights,
	MetricTransparency,
}

// ParseMetricKey validates a user-provided metric name.
func ParseMetricKey(s string) (MetricKey, error) {
	key := MetricKey(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := MetricSpecs[key]; !ok {
		return "", fmt.Errorf("unknown metric %q", s)
	}
	return key, nil
}

// SupplierMetrics is the attribute record scored by the engine.
// Nil metric pointers mean the value is absent.
type SupplierMetrics struct {
	ID       string `json:"id,omitempty" yaml:"id,omitempty"`
	Name     string `json:"name" yaml:"name"`
	Country  string `json:"country,omitempty" yaml:"country,omitempty"`
	Industry string `json:"industry,omitempty" yaml:"industry,omitempty"`

	CO2Emissions        *float64 `json:"co2_emissions,omitempty" yaml:"co2_emissions,omitempty"`
	WaterUsage          *float64 `json:"water_usage,omitempty" yaml:"water_usage,omitempty"`
	EnergyEfficiency    *float64 `json:"energy_efficiency,omitempty" yaml:"energy_efficiency,omitempty"`
	WasteManagement     *float64 `json:"waste_management_score,omitempty" yaml:"waste_management_score,omitempty"`
	WageFairness        *float64 `json:"wage_fairness,omitempty" yaml:"wage_fairness,omitempty"`
	HumanRights         *float64 `json:"human_rights_index,omitempty" yaml:"human_rights_index,omitempty"`
	DiversityInclusion  *float64 `json:"diversity_inclusion_score,omitempty" yaml:"diversity_inclusion_score,omitempty"`
	CommunityEngagement *float64 `json:"community_engagement,omitempty" yaml:"community_engagement,omitempty"`
	Transparency        *float64 `json:"transparency_score,omitempty" yaml:"transparency_score,omitempty"`
	CorruptionRisk      *float64 `json:"corruption_risk,omitempty" yaml:"corruption_risk,omitempty"`

	SocialMediaSentiment *float64 `json:"social_media_sentiment,omitempty" yaml:"social_media_sentiment,omitempty"`
	NewsSentiment        *float64 `json:"news_sentiment,omitempty" yaml:"news_sentiment,omitempty"`
	WorkerSatisfaction   *float64 `json:"worker_satisfaction,omitempty" yaml:"worker_satisfaction,omitempty"`
	ControversyCount     *int     `json:"controversy_count,omitempty" yaml:"controversy_count,omitempty"`
}

// Float returns a pointer to v. Handy for building records in code and tests.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// field returns the pointer slot backing a float metric.
func (m *SupplierMetrics) field(key MetricKey) **float64 {
	switch key {
	case MetricCO2Emissions:
		return &m.CO2Emissions
	case MetricWaterUsage:
		return &m.WaterUsage
	case MetricEnergyEfficiency:
		return &m.EnergyEfficiency
	case MetricWasteManagement:
		return &m.WasteManagement
	case MetricWageFairness:
		return &m.WageFairness
	case MetricHumanRights:
		return &m.HumanRights
	case MetricDiversityInclusion:
		return &m.DiversityInclusion
	case MetricCommunityEngagement:
		return &m.CommunityEngagement
	case MetricTransparency:
		return &m.Transparency
	case MetricCorruptionRisk:
		return &m.CorruptionRisk
	case MetricSocialMedia:
		return &m.SocialMediaSentiment
	case MetricNewsSentiment:
		return &m.NewsSentiment
	case MetricWorkerSatisfaction:
		return &m.WorkerSatisfaction
	default:
		return nil
	}
}

// Lookup returns the raw value of a metric and whether it is present.
func (m SupplierMetrics) Lookup(key MetricKey) (float64, bool) {
	if key == MetricControversyCount {
		if m.ControversyCount == nil {
			return 0, false
		}
		return float64(*m.ControversyCount), true
	}
	slot := m.field(key)
	if slot == nil || *slot == nil {
		return 0, false
	}
	return **slot, true
}

// Get returns the metric value, substituting the documented default when absent.
func (m SupplierMetrics) Get(key MetricKey) float64 {
	if v, ok := m.Lookup(key); ok {
		return v
	}
	return MetricSpecs[key].Default
}

// Set assigns a metric value by key.
func (m *SupplierMetrics) Set(key MetricKey, v float64) error {
	if key == MetricControversyCount {
		if v < 0 {
			return fmt.Errorf("controversy_count must be >= 0 (received %v)", v)
		}
		m.ControversyCount = Int(int(v))
		return nil
	}
	slot := m.field(key)
	if slot == nil {
		return fmt.Errorf("unknown metric %q", key)
	}
	*slot = Float(v)
	return nil
}

// Clone returns a deep copy so callers can mutate metrics without aliasing.
func (m SupplierMetrics) Clone() SupplierMetrics {
	clone := m
	for _, key := range AllMetricKeys {
		if key == MetricControversyCount {
			continue
		}
		slot := clone.field(key)
		if *slot != nil {
			*slot = Float(**slot)
		}
	}
	if m.ControversyCount != nil {
		clone.ControversyCount = Int(*m.ControversyCount)
	}
	return clone
}

// HasExternalSignals reports whether any sentiment or controversy signal is present.
func (m SupplierMetrics) HasExternalSignals() bool {
	return m.SocialMediaSentiment != nil ||
		m.NewsSentiment != nil ||
		m.WorkerSatisfaction != nil ||
		m.ControversyCount != nil
}

// Validate checks identity fields and the documented lower bounds.
// Values above the documented scale are accepted since scores are unclamped.
func (m SupplierMetrics) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("name is required")
	}
	for _, key := range AllMetricKeys {
		v, ok := m.Lookup(key)
		if !ok {
			continue
		}
		spec := MetricSpecs[key]
		if v < spec.Min {
			return fmt.Errorf("%s must be >= %v (received %v)", key, spec.Min, v)
		}
		if key == MetricSocialMedia || key == MetricNewsSentiment || key == MetricWorkerSatisfaction {
			if v > spec.Max {
				return fmt.Errorf("%s must be <= %v (received %v)", key, spec.Max, v)
			}
		}
	}
	return nil
}
