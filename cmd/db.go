package cmd

import (
	"fmt"

	"github.com/ne3mer/supplychainweb/internal/contract"
	"github.com/ne3mer/supplychainweb/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// dbOpenSetup is dbSetup followed by opening the store.
func dbOpenSetup(_ *cobra.Command, _ []string) error {
	if err := dbSetup(); err != nil {
		return err
	}
	if err := store.InitStores(cfg.DBBackend, cfg.DBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	return nil
}

// dbCmd focused on store maintenance.
//
// Note: db subcommands use minimal initialization (dbSetup) instead of the full
// sharedSetup. They skip output and weight validation, and migrate and clear
// never open the store, so they work on a database whose schema is out of date.
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Maintain the supplier database",
	Long: `Maintain the database that stores suppliers, presets, score history, signals
and the cluster model.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (nothing is stored)

Subcommands:
  status  - Show row counts and connection details
  migrate - Run database schema migrations
  clear   - Remove all stored data

Examples:
  # Check what is stored
  supplychain db status

  # Upgrade a shared PostgreSQL database
  supplychain db migrate --db-backend postgresql --db-connect "host=db user=esg dbname=esg"`,
}

// dbStatusCmd shows store statistics.
var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show detailed information about the configured store.

Displays:
- Backend type and connection status
- Number of suppliers, presets, reports and signals
- Last supplier update
- Current schema version

Examples:
  supplychain db status`,
	Args:    cobra.NoArgs,
	PreRunE: dbOpenSetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := store.Manager.GetSupplierStore().GetStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		store.PrintStoreStatus(status)
	},
}

// dbClearCmd clears the store.
var dbClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored suppliers, presets and history",
	Long: `Delete everything in the configured store.

For SQLite the database file is removed. For MySQL and PostgreSQL every table,
including the migration bookkeeping, is dropped and recreated on next use.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  supplychain export --output-file backup
  supplychain db clear`,
	Args:    cobra.NoArgs,
	PreRunE: dbSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := store.ClearStore(cfg.DBBackend, cfg.DBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// dbMigrateCmd runs database migrations.
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions.

Pending migrations are also applied whenever a command opens the store. Use this
command to roll back or to pin a specific version.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  supplychain db migrate

  # Migrate to specific version
  supplychain db migrate --target-version 1

  # Rollback everything
  supplychain db migrate --target-version 0`,
	Args:    cobra.NoArgs,
	PreRunE: dbSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := store.Migrate(cfg.DBBackend, cfg.DBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}

// exportCmd exports suppliers and score history to Parquet files.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export suppliers and score history to Parquet for BI tools",
	Long: `Export all stored data to Parquet format for use with analytics tools.

Writes two files next to --output-file:
- <output-file>.suppliers.parquet   - every supplier with metrics and latest scores
- <output-file>.esg_reports.parquet - the full ESG report history

Requires: --output-file parameter

Examples:
  supplychain export --output-file esg
  duckdb -c "SELECT risk_level, count(*) FROM read_parquet('esg.suppliers.parquet') GROUP BY 1"`,
	Args:    cobra.NoArgs,
	PreRunE: dbOpenSetup,
	Run: func(_ *cobra.Command, _ []string) {
		result, err := store.ExportParquet(rootCtx, store.Manager.GetSupplierStore(), store.Manager.GetSignalStore(), cfg.OutputFile)
		if err != nil {
			contract.LogFatal("Failed to export data", err)
		}
		store.PrintExportResult(result)
	},
}
