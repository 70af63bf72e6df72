package store

import (
	"context"
	"fmt"

	"github.com/ne3mer/supplychainweb/internal/contract"
	"github.com/ne3mer/supplychainweb/internal/parquet"
	"github.com/ne3mer/supplychainweb/schema"
	"github.com/rotisserie/eris"
)

// ExportResult names the files written by ExportParquet.
type ExportResult struct {
	SuppliersFile string `json:"suppliers_file"`
	Suppliers     int    `json:"suppliers"`
	ReportsFile   string `json:"reports_file"`
	Reports       int    `json:"reports"`
}

// ExportParquet writes every stored supplier and the full score history to
// <outputFile>.suppliers.parquet and <outputFile>.esg_reports.parquet.
func ExportParquet(ctx context.Context, suppliers contract.SupplierStore, signals contract.SignalStore, outputFile string) (ExportResult, error) {
	if outputFile == "" {
		return ExportResult{}, eris.New("export: --output-file is required for export command")
	}

	records, err := suppliers.ListSuppliers(ctx, schema.SupplierFilter{})
	if err != nil {
		return ExportResult{}, eris.Wrap(err, "export: list suppliers")
	}
	if len(records) == 0 {
		return ExportResult{}, eris.New("export: no supplier data found to export")
	}
	reports, err := signals.ListReports(ctx, "")
	if err != nil {
		return ExportResult{}, eris.Wrap(err, "export: list reports")
	}

	result := ExportResult{
		SuppliersFile: outputFile + ".suppliers.parquet",
		Suppliers:     len(records),
		ReportsFile:   outputFile + ".esg_reports.parquet",
		Reports:       len(reports),
	}
	if err := parquet.WriteSuppliersParquet(parquet.ConvertSupplierRecords(records), result.SuppliersFile); err != nil {
		return result, eris.Wrap(err, "export: write suppliers")
	}
	if err := parquet.WriteScoreReportsParquet(parquet.ConvertReports(reports), result.ReportsFile); err != nil {
		return result, eris.Wrap(err, "export: write reports")
	}
	return result, nil
}

// PrintExportResult prints where the export went and what reads it.
func PrintExportResult(r ExportResult) {
	fmt.Printf("Exported %d suppliers to: %s\n", r.Suppliers, r.SuppliersFile)
	fmt.Printf("Exported %d score reports to: %s\n", r.Reports, r.ReportsFile)
	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")
}
