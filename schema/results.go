package schema

// ScoreBundle is the output of scoring one supplier.
// Scores are unclamped and may leave [0,100] when inputs leave their scale.
type ScoreBundle struct {
	OverallScore       float64   `json:"overall_score" yaml:"overall_score"`
	EnvironmentalScore float64   `json:"environmental_score" yaml:"environmental_score"`
	SocialScore        float64   `json:"social_score" yaml:"social_score"`
	GovernanceScore    float64   `json:"governance_score" yaml:"governance_score"`
	RiskLevel          RiskLevel `json:"risk_level" yaml:"risk_level"`
	Fallback           bool      `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// CategoryScore returns the sub-score for a category. Unknown categories yield the overall score.
func (b ScoreBundle) CategoryScore(c Category) float64 {
	switch c {
	case Environmental:
		return b.EnvironmentalScore
	case Social:
		return b.SocialScore
	case Governance:
		return b.GovernanceScore
	default:
		return b.OverallScore
	}
}

// Recommendation is a ranked improvement action.
type Recommendation struct {
	Category       Category `json:"category" yaml:"category"`
	Action         string   `json:"action" yaml:"action"`
	Impact         Level    `json:"impact" yaml:"impact"`
	Difficulty     Level    `json:"difficulty" yaml:"difficulty"`
	Timeframe      string   `json:"timeframe,omitempty" yaml:"timeframe,omitempty"`
	Details        string   `json:"details,omitempty" yaml:"details,omitempty"`
	PeerComparison bool     `json:"peer_comparison,omitempty" yaml:"peer_comparison,omitempty"`
}

// Explanation is the natural-language account of a supplier's standing.
type Explanation struct {
	KeyStrengths        []string `json:"key_strengths" yaml:"key_strengths"`
	KeyWeaknesses       []string `json:"key_weaknesses" yaml:"key_weaknesses"`
	PercentileInsights  []string `json:"percentile_insights" yaml:"percentile_insights"`
	ComparativeInsights []string `json:"comparative_insights" yaml:"comparative_insights"`
	Summary             string   `json:"summary" yaml:"summary"`
}

// ScoreDeltas holds per-category percentage changes.
type ScoreDeltas struct {
	Overall       float64 `json:"overall" yaml:"overall"`
	Environmental float64 `json:"environmental" yaml:"environmental"`
	Social        float64 `json:"social" yaml:"social"`
	Governance    float64 `json:"governance" yaml:"governance"`
}

// ImpactPrediction compares the scores before and after a set of metric changes.
type ImpactPrediction struct {
	Before  ScoreBundle           `json:"before" yaml:"before"`
	After   ScoreBundle           `json:"after" yaml:"after"`
	Deltas  ScoreDeltas           `json:"deltas" yaml:"deltas"`
	Applied map[MetricKey]float64 `json:"applied,omitempty" yaml:"applied,omitempty"`
}
