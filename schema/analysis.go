package schema

// EvaluationResult is returned when a supplier is scored and persisted.
type EvaluationResult struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Scores             ScoreBundle `json:"scores"`
	ExternalMultiplier float64     `json:"external_multiplier"`
	ClusterID          *int        `json:"cluster_id,omitempty"`
	Suggestions        []string    `json:"suggestions"`
}

// IndustryBenchmarks compares a supplier with others in the same industry.
type IndustryBenchmarks struct {
	Industry         string  `json:"industry"`
	PeerCount        int     `json:"peer_count"`
	AvgOverall       float64 `json:"avg_ethical_score"`
	AvgEnvironmental float64 `json:"avg_environmental_score"`
	AvgSocial        float64 `json:"avg_social_score"`
	AvgGovernance    float64 `json:"avg_governance_score"`
	BestOverall      float64 `json:"best_ethical_score"`
	WorstOverall     float64 `json:"worst_ethical_score"`
}

// ScorePercentiles places a supplier's scores within the whole population (0-100).
type ScorePercentiles struct {
	Overall       float64 `json:"overall"`
	Environmental float64 `json:"environmental"`
	Social        float64 `json:"social"`
	Governance    float64 `json:"governance"`
}

// ImprovementScenario is a canned what-if run through the impact predictor.
type ImprovementScenario struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Changes     map[MetricKey]float64 `json:"changes"`
	Impact      ImpactPrediction      `json:"impact"`
}

// DetailedAnalysis is the full per-supplier report.
type DetailedAnalysis struct {
	ID                   string                `json:"id"`
	Name                 string                `json:"name"`
	Country              string                `json:"country"`
	Industry             string                `json:"industry"`
	Scores               ScoreBundle           `json:"scores"`
	ExternalMultiplier   float64               `json:"external_multiplier"`
	IndustryBenchmarks   *IndustryBenchmarks   `json:"industry_benchmarks,omitempty"`
	Percentiles          ScorePercentiles      `json:"percentiles"`
	Cluster              *ClusterInfo          `json:"cluster_info,omitempty"`
	Recommendations      []Recommendation      `json:"recommendations"`
	Explanation          Explanation           `json:"explanation"`
	ImprovementScenarios []ImprovementScenario `json:"improvement_scenarios"`
}

// ScoreBucket counts suppliers within an overall score range.
type ScoreBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// Dashboard aggregates the supplier population.
type Dashboard struct {
	TotalSuppliers      int               `json:"total_suppliers"`
	ScoredSuppliers     int               `json:"scored_suppliers"`
	AvgOverall          float64           `json:"avg_ethical_score"`
	AvgEnvironmental    float64           `json:"avg_environmental_score"`
	AvgSocial           float64           `json:"avg_social_score"`
	AvgGovernance       float64           `json:"avg_governance_score"`
	AvgCO2Emissions     float64           `json:"avg_co2_emissions"`
	RiskDistribution    map[RiskLevel]int `json:"risk_distribution"`
	ScoreDistribution   []ScoreBucket     `json:"ethical_score_distribution"`
	SuppliersByCountry  map[string]int    `json:"suppliers_by_country"`
	SuppliersByIndustry map[string]int    `json:"suppliers_by_industry"`
	TopSuppliers        []RankedSupplier  `json:"top_suppliers"`
}

// RankedSupplier is a compact row for leaderboards.
type RankedSupplier struct {
	Rank      int         `json:"rank"`
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Country   string      `json:"country"`
	Industry  string      `json:"industry"`
	Scores    ScoreBundle `json:"scores"`
	ClusterID *int        `json:"cluster_id,omitempty"`
}

// SupplierSignals are stored external observations used to fill absent signal fields.
type SupplierSignals struct {
	OpenControversies int                      `json:"open_controversies"`
	HasControversies  bool                     `json:"has_controversies"`
	SentimentMeans    map[SignalSource]float64 `json:"sentiment_means"`
}

// BatchResult summarizes a bulk import or rescore run.
type BatchResult struct {
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	IDs       []string `json:"ids,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

// SimulationResult pairs an impact prediction with the supplier it was run for.
type SimulationResult struct {
	ID         string           `json:"id,omitempty"`
	Name       string           `json:"name"`
	Prediction ImpactPrediction `json:"prediction"`
}
