package cmd

import (
	"github.com/ne3mer/supplychainweb/internal/contract"
	"github.com/ne3mer/supplychainweb/internal/outwriter"
	"github.com/ne3mer/supplychainweb/schema"
	"github.com/spf13/cobra"
)

// scoreCmd scores a single supplier record.
var scoreCmd = &cobra.Command{
	Use:   "score [file]",
	Short: "Compute the ethical score and risk level for one supplier",
	Long: `Score a supplier from a JSON or YAML record, from flags, or both.

The record may hold any of the sustainability metrics; missing metrics fall back
to neutral defaults. Flags override values read from the file. Stored media
signals and controversies fill in absent external fields when the record carries
an id.

By default the result is printed only. Use --save to store the supplier and
append the score to its ESG report history.

Examples:
  # Score a record file
  supplychain score acme.yaml

  # Score from flags
  supplychain score --name Acme --industry Textiles --set co2_emissions=42 --set wage_fairness=0.8

  # Score and store
  supplychain score acme.json --save --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		var m schema.SupplierMetrics
		if len(args) == 1 {
			if err := decodeFile(args[0], &m); err != nil {
				contract.LogFatal("Failed to read supplier record", err)
			}
		}
		flags := cmd.Flags()
		if name, _ := flags.GetString("name"); name != "" {
			m.Name = name
		}
		if country, _ := flags.GetString("country"); country != "" {
			m.Country = country
		}
		if industry, _ := flags.GetString("industry"); industry != "" {
			m.Industry = industry
		}
		sets, _ := flags.GetStringArray("set")
		if err := applyAssignments(&m, sets); err != nil {
			contract.LogFatal("Invalid metric assignment", err)
		}

		svc := mustService(rootCtx)
		save, _ := flags.GetBool("save")
		result, err := svc.Evaluate(rootCtx, m, save)
		if err != nil {
			contract.LogFatal("Failed to score supplier", err)
		}
		if err := outwriter.NewOutWriter().WriteEvaluation(result, cfg); err != nil {
			contract.LogFatal("Failed to write score", err)
		}
	},
}
