// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"github.com/ne3mer/supplychainweb/internal/contract"
	"github.com/ne3mer/supplychainweb/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the command layer.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteEvaluation prints the result of scoring one supplier.
func (ow *OutWriter) WriteEvaluation(result schema.EvaluationResult, cfg *contract.Config) error {
	return PrintEvaluation(result, cfg)
}

// WriteSuppliers prints a supplier listing.
func (ow *OutWriter) WriteSuppliers(records []schema.SupplierRecord, cfg *contract.Config) error {
	return PrintSuppliers(records, cfg)
}

// WriteSupplier prints one supplier with every metric.
func (ow *OutWriter) WriteSupplier(record schema.SupplierRecord, cfg *contract.Config) error {
	return PrintSupplier(record, cfg)
}

// WriteBatch prints the summary of an import or rescore run.
func (ow *OutWriter) WriteBatch(result schema.BatchResult, cfg *contract.Config) error {
	return PrintBatch(result, cfg)
}

// WriteAnalysis prints a detailed supplier analysis.
func (ow *OutWriter) WriteAnalysis(analysis schema.DetailedAnalysis, cfg *contract.Config) error {
	return PrintAnalysis(analysis, cfg)
}

// WriteRecommendations prints ranked improvement actions.
func (ow *OutWriter) WriteRecommendations(recs []schema.Recommendation, cfg *contract.Config) error {
	return PrintRecommendations(recs, cfg)
}

// WriteExplanation prints the narrative explanation of a supplier's scores.
func (ow *OutWriter) WriteExplanation(exp schema.Explanation, cfg *contract.Config) error {
	return PrintExplanation(exp, cfg)
}

// WriteSimulation prints a what-if impact prediction.
func (ow *OutWriter) WriteSimulation(result schema.SimulationResult, cfg *contract.Config) error {
	return PrintSimulation(result, cfg)
}

// WriteDashboard prints population aggregates.
func (ow *OutWriter) WriteDashboard(d schema.Dashboard, cfg *contract.Config) error {
	return PrintDashboard(d, cfg)
}

// WriteTopSuppliers prints a leaderboard.
func (ow *OutWriter) WriteTopSuppliers(ranked []schema.RankedSupplier, cfg *contract.Config) error {
	return PrintTopSuppliers(ranked, cfg)
}

// WritePresets prints the stored weight presets.
func (ow *OutWriter) WritePresets(presets []schema.WeightPreset, cfg *contract.Config) error {
	return PrintPresets(presets, cfg)
}

// WriteWeights prints a weight table.
func (ow *OutWriter) WriteWeights(weights schema.WeightConfig, cfg *contract.Config) error {
	return PrintWeights(weights, cfg)
}

// WriteClusterStatus prints the state of the peer model.
func (ow *OutWriter) WriteClusterStatus(status schema.ClusterStatus, cfg *contract.Config) error {
	return PrintClusterStatus(status, cfg)
}

// WriteReports prints score history.
func (ow *OutWriter) WriteReports(reports []schema.ESGReport, cfg *contract.Config) error {
	return PrintReports(reports, cfg)
}

// WriteControversies prints recorded controversies.
func (ow *OutWriter) WriteControversies(items []schema.Controversy, cfg *contract.Config) error {
	return PrintControversies(items, cfg)
}

// WriteMediaSignals prints recorded sentiment observations.
func (ow *OutWriter) WriteMediaSignals(items []schema.MediaSignal, cfg *contract.Config) error {
	return PrintMediaSignals(items, cfg)
}

// GetMaxTableNameWidth calculates the maximum width for supplier names in table output
// based on terminal width and the number of fixed columns.
func GetMaxTableNameWidth(cfg *contract.Config, fixedColumns int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Roughly ten characters per numeric column plus borders and padding
	baseWidth := fixedColumns*10 + 10

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 50 {
		return 50
	}
	return available
}
