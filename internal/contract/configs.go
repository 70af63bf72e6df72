package contract

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/ne3mer/supplychainweb/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit  = 25
	MaxResultLimit      = 1000
	DefaultPrecision    = 1
	DefaultServerPort   = 8080
	DefaultRateLimit    = 20.0
	DefaultRateBurst    = 40
	DefaultPeerCacheTTL = 5 * time.Minute
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// CategoryWeightsRaw holds optional top-level weight overrides.
// Use float64 pointers so that absent keys keep their defaults.
type CategoryWeightsRaw struct {
	Environmental *float64 `mapstructure:"environmental"`
	Social        *float64 `mapstructure:"social"`
	Governance    *float64 `mapstructure:"governance"`
	ExternalData  *float64 `mapstructure:"external_data"`
}

// EnvironmentalWeightsRaw holds optional environmental sub-weight overrides.
type EnvironmentalWeightsRaw struct {
	CO2Emissions     *float64 `mapstructure:"co2_emissions"`
	WaterUsage       *float64 `mapstructure:"water_usage"`
	EnergyEfficiency *float64 `mapstructure:"energy_efficiency"`
	WasteManagement  *float64 `mapstructure:"waste_management"`
}

// SocialWeightsRaw holds optional social sub-weight overrides.
type SocialWeightsRaw struct {
	WageFairness        *float64 `mapstructure:"wage_fairness"`
	HumanRights         *float64 `mapstructure:"human_rights"`
	DiversityInclusion  *float64 `mapstructure:"diversity_inclusion"`
	CommunityEngagement *float64 `mapstructure:"community_engagement"`
}

// GovernanceWeightsRaw holds optional governance sub-weight overrides.
type GovernanceWeightsRaw struct {
	Transparency   *float64 `mapstructure:"transparency"`
	CorruptionRisk *float64 `mapstructure:"corruption_risk"`
}

// ExternalWeightsRaw holds optional external-signal sub-weight overrides.
type ExternalWeightsRaw struct {
	SocialMedia   *float64 `mapstructure:"social_media"`
	News          *float64 `mapstructure:"news"`
	WorkerReviews *float64 `mapstructure:"worker_reviews"`
	Controversies *float64 `mapstructure:"controversies"`
}

// WeightsRawInput holds all custom weight definitions from the YAML config file.
type WeightsRawInput struct {
	Categories    CategoryWeightsRaw      `mapstructure:"categories"`
	Environmental EnvironmentalWeightsRaw `mapstructure:"environmental"`
	Social        SocialWeightsRaw        `mapstructure:"social"`
	Governance    GovernanceWeightsRaw    `mapstructure:"governance"`
	External      ExternalWeightsRaw      `mapstructure:"external"`
}

// ClusteringRawInput holds the clustering section of the config file.
type ClusteringRawInput struct {
	Enabled *bool `mapstructure:"enabled"`
}

// ServerRawInput holds the server section of the config file.
type ServerRawInput struct {
	Port         int     `mapstructure:"port"`
	RateLimit    float64 `mapstructure:"rate_limit"`
	RateBurst    int     `mapstructure:"rate_burst"`
	PeerCacheTTL string  `mapstructure:"peer_cache_ttl"`
}

// LogConfig selects the logger encoding and level.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json or console
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port         int
	RateLimit    float64 // requests per second; 0 disables limiting
	RateBurst    int
	PeerCacheTTL time.Duration
}

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	ResultLimit int
	Workers     int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool

	DBBackend schema.DatabaseBackend
	DBConnect string // Please use env var as this is plaintext

	Log LogConfig

	// Preset names a stored weight preset that overrides the default preset.
	Preset string

	// CustomWeights holds the dotted weight keys overridden by the config file.
	CustomWeights map[string]float64

	// Weights is the final weight table: defaults + custom overrides.
	Weights schema.WeightConfig

	ClusteringEnabled bool

	Server ServerConfig
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	OutputFile string `mapstructure:"output-file"`
	Limit      int    `mapstructure:"limit"`
	Workers    int    `mapstructure:"workers"`
	Precision  int    `mapstructure:"precision"`
	Output     string `mapstructure:"output"`
	Width      int    `mapstructure:"width"`
	Color      string `mapstructure:"color"`
	DBBackend  string `mapstructure:"db-backend"`
	DBConnect  string `mapstructure:"db-connect"`
	LogLevel   string `mapstructure:"log-level"`
	LogFormat  string `mapstructure:"log-format"`
	Preset     string `mapstructure:"preset"`

	// --- Sections from the config file ---
	Weights    WeightsRawInput    `mapstructure:"weights"`
	Clustering ClusteringRawInput `mapstructure:"clustering"`
	Server     ServerRawInput     `mapstructure:"server"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.CustomWeights != nil {
		clone.CustomWeights = make(map[string]float64, len(c.CustomWeights))
		for k, v := range c.CustomWeights {
			clone.CustomWeights[k] = v
		}
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	if err := processLogging(cfg, input); err != nil {
		return err
	}
	if err := processCustomWeights(cfg, input); err != nil {
		return err
	}
	return processServer(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the output and worker fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Preset = strings.TrimSpace(input.Preset)

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, yaml, parquet", input.Output)
	}

	cfg.ClusteringEnabled = true
	if input.Clustering.Enabled != nil {
		cfg.ClusteringEnabled = *input.Clustering.Enabled
	}
	return nil
}

// validateBackendConfig validates the persistence backend and its connection string.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	backend := input.DBBackend
	if backend == "" {
		backend = string(schema.SQLiteBackend)
	}
	cfg.DBBackend = schema.DatabaseBackend(strings.ToLower(backend))
	if _, ok := schema.ValidDatabaseBackends[cfg.DBBackend]; !ok {
		return fmt.Errorf("invalid db backend '%s'. must be sqlite, mysql, postgresql, none", input.DBBackend)
	}
	cfg.DBConnect = input.DBConnect
	return ValidateDatabaseConnectionString(cfg.DBBackend, cfg.DBConnect)
}

// processLogging validates the logger settings.
func processLogging(cfg *Config, input *ConfigRawInput) error {
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(input.LogLevel))
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(input.LogFormat))
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if cfg.Log.Format != "json" && cfg.Log.Format != "console" {
		return fmt.Errorf("invalid log format '%s'. must be json or console", input.LogFormat)
	}
	return nil
}

// ProcessWeightsRawInput converts WeightsRawInput into the dotted override map.
// Only keys that were provided appear in the result.
func ProcessWeightsRawInput(weights WeightsRawInput) (map[string]float64, error) {
	raw := map[string]*float64{
		"categories.environmental":        weights.Categories.Environmental,
		"categories.social":               weights.Categories.Social,
		"categories.governance":           weights.Categories.Governance,
		"categories.external_data":        weights.Categories.ExternalData,
		"environmental.co2_emissions":     weights.Environmental.CO2Emissions,
		"environmental.water_usage":       weights.Environmental.WaterUsage,
		"environmental.energy_efficiency": weights.Environmental.EnergyEfficiency,
		"environmental.waste_management":  weights.Environmental.WasteManagement,
		"social.wage_fairness":            weights.Social.WageFairness,
		"social.human_rights":             weights.Social.HumanRights,
		"social.diversity_inclusion":      weights.Social.DiversityInclusion,
		"social.community_engagement":     weights.Social.CommunityEngagement,
		"governance.transparency":         weights.Governance.Transparency,
		"governance.corruption_risk":      weights.Governance.CorruptionRisk,
		"external.social_media":           weights.External.SocialMedia,
		"external.news":                   weights.External.News,
		"external.worker_reviews":         weights.External.WorkerReviews,
		"external.controversies":          weights.External.Controversies,
	}

	result := make(map[string]float64)
	for key, v := range raw {
		if v == nil {
			continue
		}
		if *v < 0 {
			return nil, fmt.Errorf("weight %s must be >= 0 (received %.3f)", key, *v)
		}
		result[key] = *v
	}
	return result, nil
}

// ApplyWeightOverrides returns base with the dotted overrides applied.
// Sums are not checked; callers decide whether their weights need to add up to 1.
func ApplyWeightOverrides(base schema.WeightConfig, overrides map[string]float64) (schema.WeightConfig, error) {
	w := base
	for key, v := range overrides {
		var slot *float64
		switch key {
		case "categories.environmental":
			slot = &w.Categories.Environmental
		case "categories.social":
			slot = &w.Categories.Social
		case "categories.governance":
			slot = &w.Categories.Governance
		case "categories.external_data":
			slot = &w.Categories.ExternalData
		case "environmental.co2_emissions":
			slot = &w.Environmental.CO2Emissions
		case "environmental.water_usage":
			slot = &w.Environmental.WaterUsage
		case "environmental.energy_efficiency":
			slot = &w.Environmental.EnergyEfficiency
		case "environmental.waste_management":
			slot = &w.Environmental.WasteManagement
		case "social.wage_fairness":
			slot = &w.Social.WageFairness
		case "social.human_rights":
			slot = &w.Social.HumanRights
		case "social.diversity_inclusion":
			slot = &w.Social.DiversityInclusion
		case "social.community_engagement":
			slot = &w.Social.CommunityEngagement
		case "governance.transparency":
			slot = &w.Governance.Transparency
		case "governance.corruption_risk":
			slot = &w.Governance.CorruptionRisk
		case "external.social_media":
			slot = &w.External.SocialMedia
		case "external.news":
			slot = &w.External.News
		case "external.worker_reviews":
			slot = &w.External.WorkerReviews
		case "external.controversies":
			slot = &w.External.Controversies
		default:
			return base, fmt.Errorf("unknown weight key %q", key)
		}
		*slot = v
	}
	return w, nil
}

// processCustomWeights converts the raw input into cfg.CustomWeights and
// computes the final weight table.
func processCustomWeights(cfg *Config, input *ConfigRawInput) error {
	overrides, err := ProcessWeightsRawInput(input.Weights)
	if err != nil {
		return err
	}
	cfg.CustomWeights = overrides

	weights, err := ApplyWeightOverrides(schema.DefaultWeights(), overrides)
	if err != nil {
		return err
	}
	cfg.Weights = weights
	return nil
}

// processServer fills in the HTTP server settings.
func processServer(cfg *Config, input *ConfigRawInput) error {
	cfg.Server = ServerConfig{
		Port:         input.Server.Port,
		RateLimit:    input.Server.RateLimit,
		RateBurst:    input.Server.RateBurst,
		PeerCacheTTL: DefaultPeerCacheTTL,
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535 (received %d)", input.Server.Port)
	}
	if cfg.Server.RateLimit < 0 {
		return fmt.Errorf("server rate_limit must be >= 0 (received %.2f)", input.Server.RateLimit)
	}
	if cfg.Server.RateBurst <= 0 {
		cfg.Server.RateBurst = DefaultRateBurst
	}
	if input.Server.PeerCacheTTL != "" {
		ttl, err := time.ParseDuration(input.Server.PeerCacheTTL)
		if err != nil {
			return fmt.Errorf("invalid server peer_cache_ttl '%s': %w", input.Server.PeerCacheTTL, err)
		}
		if ttl < 0 {
			return fmt.Errorf("server peer_cache_ttl must be >= 0 (received %s)", ttl)
		}
		cfg.Server.PeerCacheTTL = ttl
	}
	return nil
}
