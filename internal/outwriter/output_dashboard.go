package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/ne3mer/supplychainweb/internal/contract"
	"github.com/ne3mer/supplychainweb/schema"
)

var riskOrder = []schema.RiskLevel{schema.LowRisk, schema.MediumRisk, schema.HighRisk, schema.CriticalRisk}

// PrintDashboard writes population averages, distributions and the top suppliers.
func PrintDashboard(d schema.Dashboard, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	return write(cfg, view{
		name: "dashboard",
		data: d,
		table: func(w io.Writer) error {
			fmt.Fprintf(w, "Suppliers: %d (%d scored)\n", d.TotalSuppliers, d.ScoredSuppliers)
			averages := newTable(w, "Average", "Value")
			if err := renderTable(averages, [][]string{
				{"overall", fmtFloat(d.AvgOverall)},
				{"environmental", fmtFloat(d.AvgEnvironmental)},
				{"social", fmtFloat(d.AvgSocial)},
				{"governance", fmtFloat(d.AvgGovernance)},
				{"co2_emissions", fmtFloat(d.AvgCO2Emissions)},
			}); err != nil {
				return err
			}

			risk := newTable(w, "Risk", "Suppliers")
			riskRows := make([][]string, 0, len(riskOrder))
			for _, level := range riskOrder {
				riskRows = append(riskRows, []string{riskLabel(level, cfg), strconv.Itoa(d.RiskDistribution[level])})
			}
			if err := renderTable(risk, riskRows); err != nil {
				return err
			}

			buckets := newTable(w, "Score range", "Suppliers")
			bucketRows := make([][]string, 0, len(d.ScoreDistribution))
			for _, b := range d.ScoreDistribution {
				bucketRows = append(bucketRows, []string{b.Range, strconv.Itoa(b.Count)})
			}
			if err := renderTable(buckets, bucketRows); err != nil {
				return err
			}

			if err := renderTable(newTable(w, "Country", "Suppliers"), countRows(d.SuppliersByCountry)); err != nil {
				return err
			}
			if err := renderTable(newTable(w, "Industry", "Suppliers"), countRows(d.SuppliersByIndustry)); err != nil {
				return err
			}

			if len(d.TopSuppliers) > 0 {
				fmt.Fprintln(w, "Top suppliers:")
				return writeRankedTable(w, d.TopSuppliers, cfg, fmtFloat)
			}
			return nil
		},
		header: []string{"section", "key", "value"},
		rows: func(w *csv.Writer) error {
			rows := [][]string{
				{"summary", "total_suppliers", strconv.Itoa(d.TotalSuppliers)},
				{"summary", "scored_suppliers", strconv.Itoa(d.ScoredSuppliers)},
				{"average", "overall", fmtFloat(d.AvgOverall)},
				{"average", "environmental", fmtFloat(d.AvgEnvironmental)},
				{"average", "social", fmtFloat(d.AvgSocial)},
				{"average", "governance", fmtFloat(d.AvgGovernance)},
				{"average", "co2_emissions", fmtFloat(d.AvgCO2Emissions)},
			}
			for _, level := range riskOrder {
				rows = append(rows, []string{"risk", string(level), strconv.Itoa(d.RiskDistribution[level])})
			}
			for _, b := range d.ScoreDistribution {
				rows = append(rows, []string{"score_range", b.Range, strconv.Itoa(b.Count)})
			}
			for _, r := range countRows(d.SuppliersByCountry) {
				rows = append(rows, append([]string{"country"}, r...))
			}
			for _, r := range countRows(d.SuppliersByIndustry) {
				rows = append(rows, append([]string{"industry"}, r...))
			}
			for _, s := range d.TopSuppliers {
				rows = append(rows, []string{"top", s.ID, fmtFloat(s.Scores.OverallScore)})
			}
			return w.WriteAll(rows)
		},
	})
}

// countRows sorts a count map by descending count, then by key.
func countRows(counts map[string]int) [][]string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, strconv.Itoa(counts[k])})
	}
	return rows
}

func writeRankedTable(w io.Writer, ranked []schema.RankedSupplier, cfg *contract.Config, fmtFloat func(float64) string) error {
	maxName := GetMaxTableNameWidth(cfg, 8)
	table := newTable(w, "Rank", "Name", "Country", "Industry", "Overall", "Env", "Social", "Gov", "Risk")
	rows := make([][]string, 0, len(ranked))
	for _, s := range ranked {
		rows = append(rows, append([]string{
			strconv.Itoa(s.Rank), contract.TruncateText(s.Name, maxName), s.Country, s.Industry,
		}, scoreCells(s.Scores, fmtFloat, riskLabel(s.Scores.RiskLevel, cfg))...))
	}
	return renderTable(table, rows)
}

// PrintTopSuppliers writes a leaderboard ordered by overall score.
func PrintTopSuppliers(ranked []schema.RankedSupplier, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	return write(cfg, view{
		name: "top suppliers",
		data: ranked,
		table: func(w io.Writer) error {
			if err := writeRankedTable(w, ranked, cfg, fmtFloat); err != nil {
				return err
			}
			fmt.Fprintf(w, "Showing top %d suppliers\n", len(ranked))
			return nil
		},
		header: append([]string{"rank", "id", "name", "country", "industry"}, scoreHeader...),
		rows: func(w *csv.Writer) error {
			for _, s := range ranked {
				row := append([]string{strconv.Itoa(s.Rank), s.ID, s.Name, s.Country, s.Industry},
					scoreCells(s.Scores, fmtFloat, string(s.Scores.RiskLevel))...)
				if err := w.Write(row); err != nil {
					return err
				}
			}
			return nil
		},
	})
}
