package cmd

import (
	"github.com/ne3mer/supplychainweb/internal/contract"
	"github.com/ne3mer/supplychainweb/internal/outwriter"
	"github.com/spf13/cobra"
)

// analyzeCmd prints the full analysis of a stored supplier.
var analyzeCmd = &cobra.Command{
	Use:   "analyze <id>",
	Short: "Full analysis of a stored supplier",
	Long: `Analyze a stored supplier against every other stored supplier.

The report contains:
- Environmental, social, governance and overall scores with the risk level
- Industry benchmarks (average, best and worst among same-industry peers)
- Percentiles of each score among all scored suppliers
- Cluster membership and cluster averages, when a model is trained
- Recommendations, strengths, weaknesses and peer insights
- Three improvement scenarios with their predicted impact

Examples:
  supplychain analyze 3f0c...
  supplychain analyze 3f0c... --output json --output-file acme-analysis.json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		analysis, err := mustService(rootCtx).Analyze(rootCtx, args[0])
		if err != nil {
			contract.LogFatal("Failed to analyze supplier", err)
		}
		if err := outwriter.NewOutWriter().WriteAnalysis(analysis, cfg); err != nil {
			contract.LogFatal("Failed to write analysis", err)
		}
	},
}

// recommendCmd prints ranked improvement actions.
var recommendCmd = &cobra.Command{
	Use:   "recommend <id>",
	Short: "Ranked improvement actions for a stored supplier",
	Long: `List improvement actions for a stored supplier, most impactful first.

Rule-based actions come from the supplier's own metrics. When the supplier
trails its cluster (or industry) peers by a wide margin, peer comparison
actions are added and marked in the text output.

Examples:
  supplychain recommend 3f0c...
  supplychain recommend 3f0c... --limit 3 --output csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		recs, err := mustService(rootCtx).Recommendations(rootCtx, args[0])
		if err != nil {
			contract.LogFatal("Failed to build recommendations", err)
		}
		if len(recs) > cfg.ResultLimit {
			recs = recs[:cfg.ResultLimit]
		}
		if err := outwriter.NewOutWriter().WriteRecommendations(recs, cfg); err != nil {
			contract.LogFatal("Failed to write recommendations", err)
		}
	},
}

// explainCmd prints the score explanation.
var explainCmd = &cobra.Command{
	Use:   "explain <id>",
	Short: "Explain what drives a stored supplier's score",
	Long: `Explain a stored supplier's score: the factors with the largest weighted
contribution, key strengths and weaknesses, and how the supplier compares with
its peers.

Examples:
  supplychain explain 3f0c...`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		exp, err := mustService(rootCtx).Explanation(rootCtx, args[0])
		if err != nil {
			contract.LogFatal("Failed to explain supplier", err)
		}
		if err := outwriter.NewOutWriter().WriteExplanation(exp, cfg); err != nil {
			contract.LogFatal("Failed to write explanation", err)
		}
	},
}

// simulateCmd predicts the effect of metric changes.
var simulateCmd = &cobra.Command{
	Use:   "simulate <id>",
	Short: "Predict score changes for hypothetical metric values",
	Long: `Rescore a stored supplier with some metrics replaced and show the before and
after scores, the deltas and whether the risk level changes. Nothing is stored.

Examples:
  # What if emissions dropped to 20 and wages became fairer?
  supplychain simulate 3f0c... --set co2_emissions=20 --set wage_fairness=0.9`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		sets, _ := cmd.Flags().GetStringArray("set")
		changes, err := parseAssignments(sets)
		if err != nil {
			contract.LogFatal("Invalid metric assignment", err)
		}
		result, err := mustService(rootCtx).Simulate(rootCtx, args[0], changes)
		if err != nil {
			contract.LogFatal("Failed to simulate changes", err)
		}
		if err := outwriter.NewOutWriter().WriteSimulation(result, cfg); err != nil {
			contract.LogFatal("Failed to write simulation", err)
		}
	},
}
