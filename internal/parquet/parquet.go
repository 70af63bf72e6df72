// Package parquet provides row types and writers for exporting suppliers and
// their score history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"io"
	"os"
	"time"

	"github.com/ne3mer/supplychainweb/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/rotisserie/eris"
)

// Supplier is one stored supplier with its metrics and latest score.
// This struct maps to the suppliers database table.
type Supplier struct {
	ID       string  `parquet:"id,snappy"`
	Name     string  `parquet:"name,snappy"`
	Country  *string `parquet:"country,optional,snappy"`
	Industry *string `parquet:"industry,optional,snappy"`

	// Metrics are nullable; a null column means the value was never reported.
	CO2Emissions         *float64 `parquet:"co2_emissions,optional,snappy"`
	WaterUsage           *float64 `parquet:"water_usage,optional,snappy"`
	EnergyEfficiency     *float64 `parquet:"energy_efficiency,optional,snappy"`
	WasteManagement      *float64 `parquet:"waste_management_score,optional,snappy"`
	WageFairness         *float64 `parquet:"wage_fairness,optional,snappy"`
	HumanRights          *float64 `parquet:"human_rights_index,optional,snappy"`
	DiversityInclusion   *float64 `parquet:"diversity_inclusion_score,optional,snappy"`
	CommunityEngagement  *float64 `parquet:"community_engagement,optional,snappy"`
	Transparency         *float64 `parquet:"transparency_score,optional,snappy"`
	CorruptionRisk       *float64 `parquet:"corruption_risk,optional,snappy"`
	SocialMediaSentiment *float64 `parquet:"social_media_sentiment,optional,snappy"`
	NewsSentiment        *float64 `parquet:"news_sentiment,optional,snappy"`
	WorkerSatisfaction   *float64 `parquet:"worker_satisfaction,optional,snappy"`
	ControversyCount     *int32   `parquet:"controversy_count,optional,snappy"`

	// Score columns are null for suppliers that were never scored.
	OverallScore       *float64 `parquet:"overall_score,optional,snappy"`
	EnvironmentalScore *float64 `parquet:"environmental_score,optional,snappy"`
	SocialScore        *float64 `parquet:"social_score,optional,snappy"`
	GovernanceScore    *float64 `parquet:"governance_score,optional,snappy"`
	RiskLevel          *string  `parquet:"risk_level,optional,snappy"`
	ClusterID          *int32   `parquet:"cluster_id,optional,snappy"`

	CreatedAt time.Time `parquet:"created_at,snappy"`
	UpdatedAt time.Time `parquet:"updated_at,snappy"`
}

// ScoreReport is one row of score history.
// This struct maps to the esg_reports database table.
type ScoreReport struct {
	ID                 string    `parquet:"id,snappy"`
	SupplierID         string    `parquet:"supplier_id,snappy"`
	ReportYear         int32     `parquet:"report_year,snappy"`
	Source             string    `parquet:"source,snappy"`
	Preset             *string   `parquet:"preset,optional,snappy"`
	OverallScore       float64   `parquet:"overall_score,snappy"`
	EnvironmentalScore float64   `parquet:"environmental_score,snappy"`
	SocialScore        float64   `parquet:"social_score,snappy"`
	GovernanceScore    float64   `parquet:"governance_score,snappy"`
	RiskLevel          string    `parquet:"risk_level,snappy"`
	Fallback           bool      `parquet:"fallback,snappy"`
	RecordedAt         time.Time `parquet:"recorded_at,snappy"`
}

// WriteSuppliersParquet writes supplier rows to a Parquet file.
func WriteSuppliersParquet(data []Supplier, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteScoreReportsParquet writes score history rows to a Parquet file.
func WriteScoreReportsParquet(data []ScoreReport, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteSuppliers streams supplier rows to w, for --output parquet.
func WriteSuppliers(w io.Writer, data []Supplier) error {
	return write(w, data)
}

func writeFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return eris.Wrapf(err, "parquet: create %s", outputPath)
	}
	if err := write(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return eris.Wrapf(file.Close(), "parquet: close %s", outputPath)
}

// write derives the schema from T's struct tags and writes every row.
func write[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return eris.Wrap(err, "parquet: write rows")
	}
	return eris.Wrap(writer.Close(), "parquet: write footer")
}

// ConvertSupplierRecords converts stored suppliers to Parquet rows.
func ConvertSupplierRecords(records []schema.SupplierRecord) []Supplier {
	result := make([]Supplier, len(records))
	for i, r := range records {
		row := Supplier{
			ID:                   r.ID,
			Name:                 r.Name,
			Country:              optionalString(r.Country),
			Industry:             optionalString(r.Industry),
			CO2Emissions:         r.CO2Emissions,
			WaterUsage:           r.WaterUsage,
			EnergyEfficiency:     r.EnergyEfficiency,
			WasteManagement:      r.WasteManagement,
			WageFairness:         r.WageFairness,
			HumanRights:          r.HumanRights,
			DiversityInclusion:   r.DiversityInclusion,
			CommunityEngagement:  r.CommunityEngagement,
			Transparency:         r.Transparency,
			CorruptionRisk:       r.CorruptionRisk,
			SocialMediaSentiment: r.SocialMediaSentiment,
			NewsSentiment:        r.NewsSentiment,
			WorkerSatisfaction:   r.WorkerSatisfaction,
			ControversyCount:     optionalInt32(r.ControversyCount),
			ClusterID:            optionalInt32(r.ClusterID),
			CreatedAt:            r.CreatedAt,
			UpdatedAt:            r.UpdatedAt,
		}
		if r.Score != nil {
			row.OverallScore = &r.Score.OverallScore
			row.EnvironmentalScore = &r.Score.EnvironmentalScore
			row.SocialScore = &r.Score.SocialScore
			row.GovernanceScore = &r.Score.GovernanceScore
			row.RiskLevel = optionalString(string(r.Score.RiskLevel))
		}
		result[i] = row
	}
	return result
}

// ConvertReports converts score history to Parquet rows.
func ConvertReports(reports []schema.ESGReport) []ScoreReport {
	result := make([]ScoreReport, len(reports))
	for i, r := range reports {
		result[i] = ScoreReport{
			ID:                 r.ID,
			SupplierID:         r.SupplierID,
			ReportYear:         int32(r.ReportYear),
			Source:             r.Source,
			Preset:             optionalString(r.Preset),
			OverallScore:       r.Scores.OverallScore,
			EnvironmentalScore: r.Scores.EnvironmentalScore,
			SocialScore:        r.Scores.SocialScore,
			GovernanceScore:    r.Scores.GovernanceScore,
			RiskLevel:          string(r.Scores.RiskLevel),
			Fallback:           r.Scores.Fallback,
			RecordedAt:         r.RecordedAt,
		}
	}
	return result
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalInt32(p *int) *int32 {
	if p == nil {
		return nil
	}
	v := int32(*p)
	return &v
}
