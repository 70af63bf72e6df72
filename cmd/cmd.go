// Package cmd defines the command-line interface for supplychain.
package cmd

import (
	"github.com/ne3mer/supplychainweb/internal/contract"
	"github.com/ne3mer/supplychainweb/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(suppliersCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(weightsCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(clusterCmd)
	rootCmd.AddCommand(signalsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the suppliers subcommands to the parent suppliers command
	suppliersCmd.AddCommand(suppliersListCmd)
	suppliersCmd.AddCommand(suppliersShowCmd)
	suppliersCmd.AddCommand(suppliersImportCmd)
	suppliersCmd.AddCommand(suppliersRescoreCmd)
	suppliersCmd.AddCommand(suppliersDeleteCmd)
	suppliersCmd.AddCommand(suppliersReportsCmd)

	// Add the presets subcommands to the parent presets command
	presetsCmd.AddCommand(presetsListCmd)
	presetsCmd.AddCommand(presetsShowCmd)
	presetsCmd.AddCommand(presetsImportCmd)
	presetsCmd.AddCommand(presetsDefaultCmd)
	presetsCmd.AddCommand(presetsDeleteCmd)

	// Add the cluster subcommands to the parent cluster command
	clusterCmd.AddCommand(clusterTrainCmd)
	clusterCmd.AddCommand(clusterStatusCmd)

	// Add the signals subcommands to the parent signals command
	signalsCmd.AddCommand(signalsControversyCmd)
	signalsCmd.AddCommand(signalsMediaCmd)
	signalsCmd.AddCommand(signalsListCmd)

	// Add the db subcommands to the parent db command
	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbClearCmd)
	dbCmd.AddCommand(dbMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or yaml or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers for import and rescore")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("db-backend", string(schema.SQLiteBackend), "Store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string (sqlite file path, user:pass@tcp(host:port)/dbname, or host=... dbname=...)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-format", contract.DefaultLogFormat, "Log format: console or json")
	rootCmd.PersistentFlags().String("preset", "", "Name of a stored weight preset to score with")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Flags that describe a supplier record
	scoreCmd.Flags().String("name", "", "Supplier name")
	scoreCmd.Flags().String("country", "", "Supplier country")
	scoreCmd.Flags().String("industry", "", "Supplier industry")
	scoreCmd.Flags().StringArray("set", nil, "Metric value as metric=value (repeatable)")
	scoreCmd.Flags().Bool("save", false, "Store the supplier and its score")

	simulateCmd.Flags().StringArray("set", nil, "Hypothetical metric value as metric=value (repeatable)")
	_ = simulateCmd.MarkFlagRequired("set")

	// Flags that filter supplier listings
	suppliersListCmd.Flags().String("industry", "", "Only suppliers in this industry")
	suppliersListCmd.Flags().String("country", "", "Only suppliers in this country")
	suppliersListCmd.Flags().String("risk-level", "", "Only suppliers at this risk level: low or medium or high or critical")

	presetsImportCmd.Flags().Bool("default", false, "Make the imported preset the default")

	signalsControversyCmd.Flags().String("title", "", "Short description of the controversy")
	signalsControversyCmd.Flags().String("severity", string(schema.SeverityMedium), "Severity: low or medium or high or critical")
	signalsControversyCmd.Flags().String("status", string(schema.StatusUnresolved), "Status: unresolved or in_progress or resolved")
	_ = signalsControversyCmd.MarkFlagRequired("title")

	signalsMediaCmd.Flags().String("source", "", "Signal source: social_media or news or worker_review")
	signalsMediaCmd.Flags().Float64("score", 0, "Sentiment score (-1..1, or 0..5 for worker_review)")
	signalsMediaCmd.Flags().String("headline", "", "Optional headline or note")
	_ = signalsMediaCmd.MarkFlagRequired("source")
	_ = signalsMediaCmd.MarkFlagRequired("score")

	signalsListCmd.Flags().Bool("media", false, "List media sentiment observations instead of controversies")

	// Bind all flags of dbMigrateCmd to Viper
	dbMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(dbMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding db migrate flags", err)
	}
}
