package schema

// CategoryWeights are the top-level weights. They are expected to sum to about 1
// but that is left to the caller.
type CategoryWeights struct {
	Environmental float64 `json:"environmental" yaml:"environmental"`
	Social        float64 `json:"social" yaml:"social"`
	Governance    float64 `json:"governance" yaml:"governance"`
	ExternalData  float64 `json:"external_data" yaml:"external_data"`
}

// EnvironmentalWeights weight the environmental sub-metrics.
type EnvironmentalWeights struct {
	CO2Emissions     float64 `json:"co2_emissions" yaml:"co2_emissions"`
	WaterUsage       float64 `json:"water_usage" yaml:"water_usage"`
	EnergyEfficiency float64 `json:"energy_efficiency" yaml:"energy_efficiency"`
	WasteManagement  float64 `json:"waste_management" yaml:"waste_management"`
}

// SocialWeights weight the social sub-metrics.
type SocialWeights struct {
	WageFairness        float64 `json:"wage_fairness" yaml:"wage_fairness"`
	HumanRights         float64 `json:"human_rights" yaml:"human_rights"`
	DiversityInclusion  float64 `json:"diversity_inclusion" yaml:"diversity_inclusion"`
	CommunityEngagement float64 `json:"community_engagement" yaml:"community_engagement"`
}

// GovernanceWeights weight the governance sub-metrics.
type GovernanceWeights struct {
	Transparency   float64 `json:"transparency" yaml:"transparency"`
	CorruptionRisk float64 `json:"corruption_risk" yaml:"corruption_risk"`
}

// ExternalWeights weight the external signals blended into the multiplier.
type ExternalWeights struct {
	SocialMedia   float64 `json:"social_media" yaml:"social_media"`
	News          float64 `json:"news" yaml:"news"`
	WorkerReviews float64 `json:"worker_reviews" yaml:"worker_reviews"`
	Controversies float64 `json:"controversies" yaml:"controversies"`
}

// WeightConfig is the full weight table used for a scoring call.
// It is passed by value so a call never observes a concurrent change.
type WeightConfig struct {
	Categories    CategoryWeights      `json:"categories" yaml:"categories"`
	Environmental EnvironmentalWeights `json:"environmental" yaml:"environmental"`
	Social        SocialWeights        `json:"social" yaml:"social"`
	Governance    GovernanceWeights    `json:"governance" yaml:"governance"`
	External      ExternalWeights      `json:"external" yaml:"external"`
}

// DefaultWeights returns the built-in weight configuration.
func DefaultWeights() WeightConfig {
	return WeightConfig{
		Categories: CategoryWeights{
			Environmental: 0.33,
			Social:        0.33,
			Governance:    0.34,
			ExternalData:  0.25,
		},
		Environmental: EnvironmentalWeights{
			CO2Emissions:     0.40,
			WaterUsage:       0.30,
			EnergyEfficiency: 0.15,
			WasteManagement:  0.15,
		},
		Social: SocialWeights{
			WageFairness:        0.25,
			HumanRights:         0.35,
			DiversityInclusion:  0.20,
			CommunityEngagement: 0.20,
		},
		Governance: GovernanceWeights{
			Transparency:   0.50,
			CorruptionRisk: 0.50,
		},
		External: ExternalWeights{
			SocialMedia:   0.20,
			News:          0.30,
			WorkerReviews: 0.30,
			Controversies: 0.20,
		},
	}
}

// Flatten returns the weights keyed by dotted path, e.g. "environmental.co2_emissions".
// Used for tabular display and for applying overrides.
func (w WeightConfig) Flatten() map[string]float64 {
	return map[string]float64{
		"categories.environmental":        w.Categories.Environmental,
		"categories.social":               w.Categories.Social,
		"categories.governance":           w.Categories.Governance,
		"categories.external_data":        w.Categories.ExternalData,
		"environmental.co2_emissions":     w.Environmental.CO2Emissions,
		"environmental.water_usage":       w.Environmental.WaterUsage,
		"environmental.energy_efficiency": w.Environmental.EnergyEfficiency,
		"environmental.waste_management":  w.Environmental.WasteManagement,
		"social.wage_fairness":            w.Social.WageFairness,
		"social.human_rights":             w.Social.HumanRights,
		"social.diversity_inclusion":      w.Social.DiversityInclusion,
		"social.community_engagement":     w.Social.CommunityEngagement,
		"governance.transparency":         w.Governance.Transparency,
		"governance.corruption_risk":      w.Governance.CorruptionRisk,
		"external.social_media":           w.External.SocialMedia,
		"external.news":                   w.External.News,
		"external.worker_reviews":         w.External.WorkerReviews,
		"external.controversies":          w.External.Controversies,
	}
}

// WeightKeys lists the flattened weight keys in display order.
var WeightKeys = []string{
	"categories.environmental",
	"categories.social",
	"categories.governance",
	"categories.external_data",
	"environmental.co2_emissions",
	"environmental.water_usage",
	"environmental.energy_efficiency",
	"environmental.waste_management",
	"social.wage_fairness",
	"social.human_rights",
	"social.diversity_inclusion",
	"social.community_engagement",
	"governance.transparency",
	"governance.corruption_risk",
	"external.social_media",
	"external.news",
	"external.worker_reviews",
	"external.controversies",
}
