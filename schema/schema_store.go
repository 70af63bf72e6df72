package schema

import "time"

// SupplierRecord is a persisted supplier with its last computed scores.
type SupplierRecord struct {
	SupplierMetrics `yaml:",inline"`

	Score     *ScoreBundle `json:"score,omitempty" yaml:"score,omitempty"`
	ClusterID *int         `json:"cluster_id,omitempty" yaml:"cluster_id,omitempty"`
	CreatedAt time.Time    `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" yaml:"updated_at"`
}

// WeightPreset is a named, stored WeightConfig. At most one preset is the default.
type WeightPreset struct {
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	IsDefault   bool         `json:"is_default" yaml:"is_default"`
	Weights     WeightConfig `json:"weights" yaml:"weights"`
	CreatedAt   time.Time    `json:"created_at" yaml:"-"`
	UpdatedAt   time.Time    `json:"updated_at" yaml:"-"`
}

// ESGReport is one entry in a supplier's score history.
type ESGReport struct {
	ID         string      `json:"id"`
	SupplierID string      `json:"supplier_id"`
	ReportYear int         `json:"report_year"`
	Source     string      `json:"source"`
	Preset     string      `json:"preset"`
	Scores     ScoreBundle `json:"scores"`
	RecordedAt time.Time   `json:"recorded_at"`
}

// Controversy is a reported incident involving a supplier.
type Controversy struct {
	ID         string              `json:"id"`
	SupplierID string              `json:"supplier_id"`
	Title      string              `json:"title"`
	Severity   ControversySeverity `json:"severity"`
	Status     ControversyStatus   `json:"status"`
	OccurredAt time.Time           `json:"occurred_at"`
}

// MediaSignal is a single sentiment observation about a supplier.
// Scores are -1..1 for social media and news, 0..5 for worker reviews.
type MediaSignal struct {
	ID         string       `json:"id"`
	SupplierID string       `json:"supplier_id"`
	Source     SignalSource `json:"source"`
	Score      float64      `json:"score"`
	Headline   string       `json:"headline,omitempty"`
	RecordedAt time.Time    `json:"recorded_at"`
}

// SupplierFilter narrows supplier listings.
type SupplierFilter struct {
	Industry  string
	Country   string
	RiskLevel RiskLevel
	Limit     int
}
