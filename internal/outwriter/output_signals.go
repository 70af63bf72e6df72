package outwriter

import (
	"encoding/csv"
	"io"
	"slices"
	"strconv"

	"github.com/ne3mer/supplychainweb/internal/contract"
	"github.com/ne3mer/supplychainweb/schema"
)

// PrintReports writes score history, newest first as stored.
func PrintReports(reports []schema.ESGReport, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	return write(cfg, view{
		name: "reports",
		data: reports,
		table: func(w io.Writer) error {
			table := newTable(w, "Supplier", "Year", "Source", "Preset", "Overall", "Env", "Social", "Gov", "Risk", "Recorded")
			rows := make([][]string, 0, len(reports))
			for _, r := range reports {
				row := append([]string{contract.TruncateText(r.SupplierID, 8), strconv.Itoa(r.ReportYear), r.Source, r.Preset},
					scoreCells(r.Scores, fmtFloat, riskLabel(r.Scores.RiskLevel, cfg))...)
				rows = append(rows, append(row, r.RecordedAt.Format(contract.DateTimeFormat)))
			}
			return renderTable(table, rows)
		},
		header: slices.Concat([]string{"id", "supplier_id", "report_year", "source", "preset"}, scoreHeader, []string{"fallback", "recorded_at"}),
		rows: func(w *csv.Writer) error {
			for _, r := range reports {
				row := slices.Concat(
					[]string{r.ID, r.SupplierID, strconv.Itoa(r.ReportYear), r.Source, r.Preset},
					scoreCells(r.Scores, fmtFloat, string(r.Scores.RiskLevel)),
					[]string{strconv.FormatBool(r.Scores.Fallback), r.RecordedAt.Format(contract.DateTimeFormat)},
				)
				if err := w.Write(row); err != nil {
					return err
				}
			}
			return nil
		},
	})
}

// PrintControversies writes recorded controversies.
func PrintControversies(items []schema.Controversy, cfg *contract.Config) error {
	return write(cfg, view{
		name: "controversies",
		data: items,
		table: func(w io.Writer) error {
			maxTitle := GetMaxTableNameWidth(cfg, 4)
			table := newTable(w, "Supplier", "Title", "Severity", "Status", "Occurred")
			rows := make([][]string, 0, len(items))
			for _, c := range items {
				rows = append(rows, []string{
					contract.TruncateText(c.SupplierID, 8), contract.TruncateText(c.Title, maxTitle),
					string(c.Severity), string(c.Status), c.OccurredAt.Format(contract.DateTimeFormat),
				})
			}
			return renderTable(table, rows)
		},
		header: []string{"id", "supplier_id", "title", "severity", "status", "occurred_at"},
		rows: func(w *csv.Writer) error {
			for _, c := range items {
				if err := w.Write([]string{
					c.ID, c.SupplierID, c.Title, string(c.Severity), string(c.Status),
					c.OccurredAt.Format(contract.DateTimeFormat),
				}); err != nil {
					return err
				}
			}
			return nil
		},
	})
}

// PrintMediaSignals writes recorded sentiment observations.
func PrintMediaSignals(items []schema.MediaSignal, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	return write(cfg, view{
		name: "media signals",
		data: items,
		table: func(w io.Writer) error {
			maxHeadline := GetMaxTableNameWidth(cfg, 4)
			table := newTable(w, "Supplier", "Source", "Score", "Headline", "Recorded")
			rows := make([][]string, 0, len(items))
			for _, m := range items {
				rows = append(rows, []string{
					contract.TruncateText(m.SupplierID, 8), string(m.Source), fmtFloat(m.Score),
					contract.TruncateText(m.Headline, maxHeadline), m.RecordedAt.Format(contract.DateTimeFormat),
				})
			}
			return renderTable(table, rows)
		},
		header: []string{"id", "supplier_id", "source", "score", "headline", "recorded_at"},
		rows: func(w *csv.Writer) error {
			for _, m := range items {
				if err := w.Write([]string{
					m.ID, m.SupplierID, string(m.Source), fmtFloat(m.Score), m.Headline,
					m.RecordedAt.Format(contract.DateTimeFormat),
				}); err != nil {
					return err
				}
			}
			return nil
		},
	})
}
