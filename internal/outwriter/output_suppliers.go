package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/ne3mer/supplychainweb/internal/contract"
	"github.com/ne3mer/supplychainweb/internal/parquet"
	"github.com/ne3mer/supplychainweb/schema"
)

var scoreHeader = []string{"overall_score", "environmental_score", "social_score", "governance_score", "risk_level"}

// scoreCells renders a score bundle in scoreHeader order.
func scoreCells(b schema.ScoreBundle, fmtFloat func(float64) string, label string) []string {
	return []string{
		fmtFloat(b.OverallScore),
		fmtFloat(b.EnvironmentalScore),
		fmtFloat(b.SocialScore),
		fmtFloat(b.GovernanceScore),
		label,
	}
}

func clusterCell(id *int) string {
	if id == nil {
		return "-"
	}
	return strconv.Itoa(*id)
}

// PrintEvaluation writes the scores, multiplier, cluster and suggestions of one evaluation.
func PrintEvaluation(result schema.EvaluationResult, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	return write(cfg, view{
		name: "evaluation",
		data: result,
		table: func(w io.Writer) error {
			fmt.Fprintf(w, "%s (%s)\n", result.Name, result.ID)
			table := newTable(w, "Overall", "Environmental", "Social", "Governance", "Risk", "Multiplier", "Cluster")
			row := append(scoreCells(result.Scores, fmtFloat, riskLabel(result.Scores.RiskLevel, cfg)),
				fmtFloat(result.ExternalMultiplier), clusterCell(result.ClusterID))
			if err := renderTable(table, [][]string{row}); err != nil {
				return err
			}
			if result.Scores.Fallback {
				fmt.Fprintln(w, "⚠️  Scoring failed; neutral fallback scores were recorded.")
			}
			for _, s := range result.Suggestions {
				fmt.Fprintf(w, "  • %s\n", s)
			}
			return nil
		},
		header: slices.Concat([]string{"id", "name"}, scoreHeader, []string{"external_multiplier", "cluster_id"}),
		rows: func(w *csv.Writer) error {
			row := append([]string{result.ID, result.Name},
				scoreCells(result.Scores, fmtFloat, string(result.Scores.RiskLevel))...)
			row = append(row, fmtFloat(result.ExternalMultiplier), clusterCell(result.ClusterID))
			return w.Write(row)
		},
	})
}

// PrintSuppliers writes a supplier listing with the latest scores.
// Parquet output carries every metric column.
func PrintSuppliers(records []schema.SupplierRecord, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	return write(cfg, view{
		name: "suppliers",
		data: records,
		table: func(w io.Writer) error {
			maxName := GetMaxTableNameWidth(cfg, 7)
			table := newTable(w, "ID", "Name", "Country", "Industry", "Overall", "Risk", "Cluster")
			rows := make([][]string, 0, len(records))
			for _, r := range records {
				overall, risk := "-", "-"
				if r.Score != nil {
					overall = fmtFloat(r.Score.OverallScore)
					risk = riskLabel(r.Score.RiskLevel, cfg)
				}
				rows = append(rows, []string{
					contract.TruncateText(r.ID, 8),
					contract.TruncateText(r.Name, maxName),
					r.Country,
					r.Industry,
					overall,
					risk,
					clusterCell(r.ClusterID),
				})
			}
			if err := renderTable(table, rows); err != nil {
				return err
			}
			fmt.Fprintf(w, "Showing %d suppliers\n", len(records))
			return nil
		},
		header: supplierCSVHeader(),
		rows: func(w *csv.Writer) error {
			for _, r := range records {
				if err := w.Write(supplierCSVRow(r, fmtFloat)); err != nil {
					return err
				}
			}
			return nil
		},
		parquet: func(w io.Writer) error {
			return parquet.WriteSuppliers(w, parquet.ConvertSupplierRecords(records))
		},
	})
}

func supplierCSVHeader() []string {
	header := []string{"id", "name", "country", "industry"}
	for _, key := range schema.AllMetricKeys {
		header = append(header, string(key))
	}
	header = append(header, scoreHeader...)
	return append(header, "cluster_id", "updated_at")
}

func supplierCSVRow(r schema.SupplierRecord, fmtFloat func(float64) string) []string {
	row := []string{r.ID, r.Name, r.Country, r.Industry}
	for _, key := range schema.AllMetricKeys {
		if v, ok := r.Lookup(key); ok {
			row = append(row, fmtFloat(v))
		} else {
			row = append(row, "")
		}
	}
	if r.Score != nil {
		row = append(row, scoreCells(*r.Score, fmtFloat, string(r.Score.RiskLevel))...)
	} else {
		row = append(row, "", "", "", "", "")
	}
	cluster := ""
	if r.ClusterID != nil {
		cluster = strconv.Itoa(*r.ClusterID)
	}
	return append(row, cluster, r.UpdatedAt.Format(contract.DateTimeFormat))
}

// PrintSupplier writes one supplier as a metric/value listing.
func PrintSupplier(record schema.SupplierRecord, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	return write(cfg, view{
		name: "supplier",
		data: record,
		table: func(w io.Writer) error {
			fmt.Fprintf(w, "%s (%s)\n", record.Name, record.ID)
			fmt.Fprintf(w, "Country: %s | Industry: %s | Updated: %s\n",
				record.Country, record.Industry, record.UpdatedAt.Format(contract.DateTimeFormat))
			table := newTable(w, "Metric", "Value", "Category")
			rows := make([][]string, 0, len(schema.AllMetricKeys))
			for _, key := range schema.AllMetricKeys {
				v := "-"
				if got, ok := record.Lookup(key); ok {
					v = fmtFloat(got)
				}
				rows = append(rows, []string{string(key), v, string(schema.MetricSpecs[key].Category)})
			}
			if err := renderTable(table, rows); err != nil {
				return err
			}
			if record.Score != nil {
				fmt.Fprintf(w, "Overall %s | Environmental %s | Social %s | Governance %s | Risk %s\n",
					fmtFloat(record.Score.OverallScore), fmtFloat(record.Score.EnvironmentalScore),
					fmtFloat(record.Score.SocialScore), fmtFloat(record.Score.GovernanceScore),
					riskLabel(record.Score.RiskLevel, cfg))
			} else {
				fmt.Fprintln(w, "Not scored yet")
			}
			return nil
		},
		header: supplierCSVHeader(),
		rows: func(w *csv.Writer) error {
			return w.Write(supplierCSVRow(record, fmtFloat))
		},
		parquet: func(w io.Writer) error {
			return parquet.WriteSuppliers(w, parquet.ConvertSupplierRecords([]schema.SupplierRecord{record}))
		},
	})
}

// PrintBatch writes the counts and per-item errors of a batch run.
func PrintBatch(result schema.BatchResult, cfg *contract.Config) error {
	return write(cfg, view{
		name: "batch result",
		data: result,
		table: func(w io.Writer) error {
			fmt.Fprintf(w, "✅ %d succeeded, ❌ %d failed\n", result.Succeeded, result.Failed)
			for _, e := range result.Errors {
				fmt.Fprintf(w, "  - %s\n", e)
			}
			return nil
		},
		header: []string{"status", "detail"},
		rows: func(w *csv.Writer) error {
			for _, id := range result.IDs {
				if err := w.Write([]string{"ok", id}); err != nil {
					return err
				}
			}
			for _, e := range result.Errors {
				if err := w.Write([]string{"error", e}); err != nil {
					return err
				}
			}
			return nil
		},
	})
}
