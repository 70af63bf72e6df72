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

// PrintRecommendations writes ranked improvement actions.
func PrintRecommendations(recs []schema.Recommendation, cfg *contract.Config) error {
	return write(cfg, view{
		name: "recommendations",
		data: recs,
		table: func(w io.Writer) error {
			return writeRecommendationTable(w, recs, cfg)
		},
		header: []string{"rank", "category", "action", "impact", "difficulty", "timeframe", "peer_comparison"},
		rows: func(w *csv.Writer) error {
			for i, r := range recs {
				if err := w.Write([]string{
					strconv.Itoa(i + 1), string(r.Category), r.Action, string(r.Impact),
					string(r.Difficulty), r.Timeframe, strconv.FormatBool(r.PeerComparison),
				}); err != nil {
					return err
				}
			}
			return nil
		},
	})
}

func writeRecommendationTable(w io.Writer, recs []schema.Recommendation, cfg *contract.Config) error {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No recommendations")
		return nil
	}
	maxAction := GetMaxTableNameWidth(cfg, 5)
	table := newTable(w, "Rank", "Category", "Action", "Impact", "Difficulty", "Timeframe")
	rows := make([][]string, 0, len(recs))
	for i, r := range recs {
		action := r.Action
		if r.PeerComparison {
			action += " *"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1), string(r.Category), contract.TruncateText(action, maxAction),
			string(r.Impact), string(r.Difficulty), r.Timeframe,
		})
	}
	return renderTable(table, rows)
}

// PrintExplanation writes the strengths, weaknesses and insights of a supplier.
func PrintExplanation(exp schema.Explanation, cfg *contract.Config) error {
	return write(cfg, view{
		name: "explanation",
		data: exp,
		table: func(w io.Writer) error {
			writeExplanationText(w, exp)
			return nil
		},
		header: []string{"kind", "text"},
		rows: func(w *csv.Writer) error {
			groups := []struct {
				kind  string
				items []string
			}{
				{"strength", exp.KeyStrengths},
				{"weakness", exp.KeyWeaknesses},
				{"percentile", exp.PercentileInsights},
				{"comparative", exp.ComparativeInsights},
				{"summary", []string{exp.Summary}},
			}
			for _, g := range groups {
				for _, item := range g.items {
					if err := w.Write([]string{g.kind, item}); err != nil {
						return err
					}
				}
			}
			return nil
		},
	})
}

func writeExplanationText(w io.Writer, exp schema.Explanation) {
	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintln(w, title)
		for _, item := range items {
			fmt.Fprintf(w, "  • %s\n", item)
		}
	}
	fmt.Fprintln(w, exp.Summary)
	section("Strengths:", exp.KeyStrengths)
	section("Weaknesses:", exp.KeyWeaknesses)
	section("Percentiles:", exp.PercentileInsights)
	section("Compared with peers:", exp.ComparativeInsights)
}

// PrintSimulation writes the before/after scores of a what-if run.
func PrintSimulation(result schema.SimulationResult, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	return write(cfg, view{
		name: "simulation",
		data: result,
		table: func(w io.Writer) error {
			fmt.Fprintf(w, "What-if for %s\n", result.Name)
			return writeImpactTable(w, result.Prediction, cfg, fmtFloat)
		},
		header: []string{"category", "before", "after", "change_pct"},
		rows: func(w *csv.Writer) error {
			for _, row := range impactRows(result.Prediction, fmtFloat) {
				if err := w.Write(row); err != nil {
					return err
				}
			}
			return nil
		},
	})
}

func impactRows(p schema.ImpactPrediction, fmtFloat func(float64) string) [][]string {
	return [][]string{
		{"overall", fmtFloat(p.Before.OverallScore), fmtFloat(p.After.OverallScore), fmtFloat(p.Deltas.Overall)},
		{"environmental", fmtFloat(p.Before.EnvironmentalScore), fmtFloat(p.After.EnvironmentalScore), fmtFloat(p.Deltas.Environmental)},
		{"social", fmtFloat(p.Before.SocialScore), fmtFloat(p.After.SocialScore), fmtFloat(p.Deltas.Social)},
		{"governance", fmtFloat(p.Before.GovernanceScore), fmtFloat(p.After.GovernanceScore), fmtFloat(p.Deltas.Governance)},
	}
}

func writeImpactTable(w io.Writer, p schema.ImpactPrediction, cfg *contract.Config, fmtFloat func(float64) string) error {
	table := newTable(w, "Category", "Before", "After", "Change %")
	if err := renderTable(table, impactRows(p, fmtFloat)); err != nil {
		return err
	}
	fmt.Fprintf(w, "Risk: %s → %s\n", riskLabel(p.Before.RiskLevel, cfg), riskLabel(p.After.RiskLevel, cfg))
	if len(p.Applied) > 0 {
		keys := make([]string, 0, len(p.Applied))
		for k := range p.Applied {
			keys = append(keys, string(k))
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %s = %s\n", k, fmtFloat(p.Applied[schema.MetricKey(k)]))
		}
	}
	return nil
}

// PrintAnalysis writes the full analysis of one supplier.
// CSV output flattens it to one row per section value.
func PrintAnalysis(a schema.DetailedAnalysis, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	return write(cfg, view{
		name: "analysis",
		data: a,
		table: func(w io.Writer) error {
			fmt.Fprintf(w, "%s (%s) | %s | %s\n", a.Name, a.ID, a.Country, a.Industry)
			table := newTable(w, "Score", "Value", "Percentile")
			rows := [][]string{
				{"overall", fmtFloat(a.Scores.OverallScore), fmtFloat(a.Percentiles.Overall)},
				{"environmental", fmtFloat(a.Scores.EnvironmentalScore), fmtFloat(a.Percentiles.Environmental)},
				{"social", fmtFloat(a.Scores.SocialScore), fmtFloat(a.Percentiles.Social)},
				{"governance", fmtFloat(a.Scores.GovernanceScore), fmtFloat(a.Percentiles.Governance)},
			}
			if err := renderTable(table, rows); err != nil {
				return err
			}
			fmt.Fprintf(w, "Risk: %s | External multiplier: %s\n",
				riskLabel(a.Scores.RiskLevel, cfg), fmtFloat(a.ExternalMultiplier))

			if b := a.IndustryBenchmarks; b != nil {
				fmt.Fprintf(w, "\nIndustry %s (%d peers): avg %s, best %s, worst %s\n",
					b.Industry, b.PeerCount, fmtFloat(b.AvgOverall), fmtFloat(b.BestOverall), fmtFloat(b.WorstOverall))
			}
			if c := a.Cluster; c != nil {
				fmt.Fprintf(w, "Cluster %d (%d suppliers, avg %s): %s\n",
					c.ClusterID, c.Size, fmtFloat(c.AvgOverall), c.Description)
			}

			fmt.Fprintln(w)
			writeExplanationText(w, a.Explanation)

			fmt.Fprintln(w, "\nRecommendations:")
			if err := writeRecommendationTable(w, a.Recommendations, cfg); err != nil {
				return err
			}

			for _, sc := range a.ImprovementScenarios {
				fmt.Fprintf(w, "\nScenario: %s (%s)\n", sc.Name, sc.Description)
				if err := writeImpactTable(w, sc.Impact, cfg, fmtFloat); err != nil {
					return err
				}
			}
			return nil
		},
		header: []string{"section", "key", "value"},
		rows: func(w *csv.Writer) error {
			rows := [][]string{
				{"supplier", "id", a.ID},
				{"supplier", "name", a.Name},
				{"score", "overall", fmtFloat(a.Scores.OverallScore)},
				{"score", "environmental", fmtFloat(a.Scores.EnvironmentalScore)},
				{"score", "social", fmtFloat(a.Scores.SocialScore)},
				{"score", "governance", fmtFloat(a.Scores.GovernanceScore)},
				{"score", "risk_level", string(a.Scores.RiskLevel)},
				{"score", "external_multiplier", fmtFloat(a.ExternalMultiplier)},
				{"percentile", "overall", fmtFloat(a.Percentiles.Overall)},
				{"percentile", "environmental", fmtFloat(a.Percentiles.Environmental)},
				{"percentile", "social", fmtFloat(a.Percentiles.Social)},
				{"percentile", "governance", fmtFloat(a.Percentiles.Governance)},
			}
			if b := a.IndustryBenchmarks; b != nil {
				rows = append(rows,
					[]string{"industry", "peer_count", strconv.Itoa(b.PeerCount)},
					[]string{"industry", "avg_overall", fmtFloat(b.AvgOverall)})
			}
			if c := a.Cluster; c != nil {
				rows = append(rows, []string{"cluster", "id", strconv.Itoa(c.ClusterID)})
			}
			for _, r := range a.Recommendations {
				rows = append(rows, []string{"recommendation", string(r.Category), r.Action})
			}
			for _, sc := range a.ImprovementScenarios {
				rows = append(rows, []string{"scenario", sc.Name, fmtFloat(sc.Impact.Deltas.Overall)})
			}
			rows = append(rows, []string{"explanation", "summary", a.Explanation.Summary})
			return w.WriteAll(rows)
		},
	})
}
