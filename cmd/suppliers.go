package cmd

import (
	"fmt"
	"strings"

	"github.com/ne3mer/supplychainweb/internal/contract"
	"github.com/ne3mer/supplychainweb/internal/outwriter"
	"github.com/ne3mer/supplychainweb/schema"
	"github.com/spf13/cobra"
)

// suppliersCmd groups stored supplier management.
var suppliersCmd = &cobra.Command{
	Use:   "suppliers",
	Short: "Manage stored suppliers and their score history",
	Long: `Manage the suppliers kept in the configured store.

Every stored supplier keeps its latest scores, its cluster assignment and an ESG
report row for each evaluation.

Subcommands:
  list    - List suppliers with their latest scores
  show    - Show one supplier
  import  - Bulk import suppliers from JSON or YAML
  rescore - Recompute stored scores with the active weights
  delete  - Remove a supplier and its signals
  reports - Show a supplier's score history

Examples:
  # Suppliers at high risk in one industry
  supplychain suppliers list --industry Textiles --risk-level high

  # Import a batch and export it as CSV
  supplychain suppliers import suppliers.yaml
  supplychain suppliers list --output csv --output-file suppliers.csv`,
}

// suppliersListCmd lists stored suppliers.
var suppliersListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List stored suppliers, most recently updated first",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		filter, err := supplierFilter(cmd)
		if err != nil {
			contract.LogFatal("Invalid supplier filter", err)
		}
		records, err := mustService(rootCtx).ListSuppliers(rootCtx, filter)
		if err != nil {
			contract.LogFatal("Failed to list suppliers", err)
		}
		if err := outwriter.NewOutWriter().WriteSuppliers(records, cfg); err != nil {
			contract.LogFatal("Failed to write suppliers", err)
		}
	},
}

// supplierFilter reads the listing filters from the command flags.
func supplierFilter(cmd *cobra.Command) (schema.SupplierFilter, error) {
	flags := cmd.Flags()
	industry, _ := flags.GetString("industry")
	country, _ := flags.GetString("country")
	risk, _ := flags.GetString("risk-level")

	filter := schema.SupplierFilter{
		Industry:  industry,
		Country:   country,
		RiskLevel: schema.RiskLevel(strings.ToLower(strings.TrimSpace(risk))),
		Limit:     cfg.ResultLimit,
	}
	if filter.RiskLevel != "" {
		if _, ok := schema.ValidRiskLevels[filter.RiskLevel]; !ok {
			return filter, fmt.Errorf("invalid risk level '%s'. must be low, medium, high, critical", risk)
		}
	}
	return filter, nil
}

// suppliersShowCmd shows one supplier.
var suppliersShowCmd = &cobra.Command{
	Use:     "show <id>",
	Short:   "Show one stored supplier with all metrics and scores",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		rec, err := mustService(rootCtx).Supplier(rootCtx, args[0])
		if err != nil {
			contract.LogFatal("Failed to load supplier", err)
		}
		if err := outwriter.NewOutWriter().WriteSupplier(rec, cfg); err != nil {
			contract.LogFatal("Failed to write supplier", err)
		}
	},
}

// suppliersImportCmd bulk imports suppliers.
var suppliersImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Score and store suppliers from a JSON or YAML file",
	Long: `Import one supplier record or a list of records.

Each record is validated, scored with the active weights and stored. Records
with an id that already exists replace the stored metrics. Failures are
reported per record and do not stop the rest of the batch.

Examples:
  supplychain suppliers import suppliers.json
  supplychain suppliers import suppliers.yaml --workers 8`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		records, err := readSuppliers(args[0])
		if err != nil {
			contract.LogFatal("Failed to read suppliers", err)
		}
		result, err := mustService(rootCtx).Import(rootCtx, records)
		if err != nil {
			contract.LogFatal("Failed to import suppliers", err)
		}
		if err := outwriter.NewOutWriter().WriteBatch(result, cfg); err != nil {
			contract.LogFatal("Failed to write import result", err)
		}
	},
}

// suppliersRescoreCmd recomputes stored scores.
var suppliersRescoreCmd = &cobra.Command{
	Use:   "rescore [id]",
	Short: "Recompute stored scores with the active weights",
	Long: `Recompute the scores of one supplier, or of every stored supplier when no id
is given. Use this after changing the default preset or training clusters.

Examples:
  supplychain suppliers rescore
  supplychain suppliers rescore 3f0c... --preset strict`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		svc := mustService(rootCtx)
		ow := outwriter.NewOutWriter()
		if len(args) == 1 {
			result, err := svc.Rescore(rootCtx, args[0])
			if err != nil {
				contract.LogFatal("Failed to rescore supplier", err)
			}
			if err := ow.WriteEvaluation(result, cfg); err != nil {
				contract.LogFatal("Failed to write score", err)
			}
			return
		}
		result, err := svc.RescoreAll(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to rescore suppliers", err)
		}
		if err := ow.WriteBatch(result, cfg); err != nil {
			contract.LogFatal("Failed to write rescore result", err)
		}
	},
}

// suppliersDeleteCmd removes a supplier.
var suppliersDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Short:   "Delete a supplier with its reports and signals",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := mustService(rootCtx).DeleteSupplier(rootCtx, args[0]); err != nil {
			contract.LogFatal("Failed to delete supplier", err)
		}
		fmt.Printf("Supplier %s deleted.\n", args[0])
	},
}

// suppliersReportsCmd prints the ESG report history.
var suppliersReportsCmd = &cobra.Command{
	Use:     "reports <id>",
	Short:   "Show the ESG report history of a supplier, oldest first",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		reports, err := mustService(rootCtx).ListReports(rootCtx, args[0])
		if err != nil {
			contract.LogFatal("Failed to list reports", err)
		}
		if err := outwriter.NewOutWriter().WriteReports(reports, cfg); err != nil {
			contract.LogFatal("Failed to write reports", err)
		}
	},
}
