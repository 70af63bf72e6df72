package cmd

import (
	"github.com/ne3mer/supplychainweb/internal/contract"
	"github.com/ne3mer/supplychainweb/internal/outwriter"
	"github.com/spf13/cobra"
)

// defaultTopLimit is how many suppliers top shows without --limit.
const defaultTopLimit = 10

// dashboardCmd prints portfolio-wide aggregates.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Summarize scores and risk across all stored suppliers",
	Long: `Print portfolio aggregates over every stored supplier:
- Supplier count and average scores
- Risk level distribution and score buckets
- Supplier counts by country and by industry
- Average CO2 emissions and the top suppliers

Examples:
  supplychain dashboard
  supplychain dashboard --output yaml`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		d, err := mustService(rootCtx).Dashboard(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to build dashboard", err)
		}
		if err := outwriter.NewOutWriter().WriteDashboard(d, cfg); err != nil {
			contract.LogFatal("Failed to write dashboard", err)
		}
	},
}

// topCmd ranks stored suppliers by overall score.
var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Rank stored suppliers by overall score",
	Long: `Rank stored suppliers by overall ethical score, best first. Shows the top 10
unless --limit is given.

Examples:
  supplychain top
  supplychain top --limit 50 --output csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		limit := defaultTopLimit
		if cmd.Flags().Changed("limit") {
			limit = cfg.ResultLimit
		}
		ranked, err := mustService(rootCtx).TopSuppliers(rootCtx, limit)
		if err != nil {
			contract.LogFatal("Failed to rank suppliers", err)
		}
		if err := outwriter.NewOutWriter().WriteTopSuppliers(ranked, cfg); err != nil {
			contract.LogFatal("Failed to write ranking", err)
		}
	},
}
