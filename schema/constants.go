package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for persistence.
	DatabaseBackend string

	// RiskLevel represents the discrete risk tier derived from an overall score.
	RiskLevel string

	// Level is the ordinal used for recommendation impact and difficulty.
	Level string

	// Category represents a top-level scoring category.
	Category string

	// Direction tells whether a metric improves as it grows or as it shrinks.
	Direction string

	// ControversySeverity represents how serious a controversy is.
	ControversySeverity string

	// ControversyStatus represents the resolution state of a controversy.
	ControversyStatus string

	// SignalSource represents where a media sentiment signal came from.
	SignalSource string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	YAMLOut    OutputMode = "yaml"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Risk tiers, from best to worst.
const (
	LowRisk      RiskLevel = "low"
	MediumRisk   RiskLevel = "medium"
	HighRisk     RiskLevel = "high"
	CriticalRisk RiskLevel = "critical"
)

// Impact and difficulty levels.
const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Scoring categories.
const (
	Environmental Category = "environmental"
	Social        Category = "social"
	Governance    Category = "governance"
	General       Category = "general"
)

// Metric directions.
const (
	HigherIsBetter Direction = "higher"
	LowerIsBetter  Direction = "lower"
)

// Controversy severities.
const (
	SeverityLow      ControversySeverity = "low"
	SeverityMedium   ControversySeverity = "medium"
	SeverityHigh     ControversySeverity = "high"
	SeverityCritical ControversySeverity = "critical"
)

// Controversy statuses.
const (
	StatusUnresolved ControversyStatus = "unresolved"
	StatusInProgress ControversyStatus = "in_progress"
	StatusResolved   ControversyStatus = "resolved"
)

// Media signal sources.
const (
	SourceSocialMedia  SignalSource = "social_media"
	SourceNews         SignalSource = "news"
	SourceWorkerReview SignalSource = "worker_review"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	YAMLOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidRiskLevels lists all valid risk tiers.
var ValidRiskLevels = map[RiskLevel]struct{}{
	LowRisk:      {},
	MediumRisk:   {},
	HighRisk:     {},
	CriticalRisk: {},
}

// ValidSeverities lists all valid controversy severities.
var ValidSeverities = map[ControversySeverity]struct{}{
	SeverityLow:      {},
	SeverityMedium:   {},
	SeverityHigh:     {},
	SeverityCritical: {},
}

// ValidControversyStatuses lists all valid controversy statuses.
var ValidControversyStatuses = map[ControversyStatus]struct{}{
	StatusUnresolved: {},
	StatusInProgress: {},
	StatusResolved:   {},
}

// ValidSignalSources lists all valid media signal sources.
var ValidSignalSources = map[SignalSource]struct{}{
	SourceSocialMedia:  {},
	SourceNews:         {},
	SourceWorkerReview: {},
}

// AllRiskLevels returns risk tiers ordered from best to worst.
var AllRiskLevels = []RiskLevel{LowRisk, MediumRisk, HighRisk, CriticalRisk}

// ScoreCategories lists the three weighted categories in display order.
var ScoreCategories = []Category{Environmental, Social, Governance}

// Rank returns the ordinal of a level so that high > medium > low.
func (l Level) Rank() int {
	switch l {
	case LevelHigh:
		return 3
	case LevelMedium:
		return 2
	case LevelLow:
		return 1
	default:
		return 0
	}
}
