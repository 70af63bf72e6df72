// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ne3mer/supplychainweb/core"
	"github.com/ne3mer/supplychainweb/internal/contract"
)

// NewMCPServer initializes and configures the scoring MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, svc *core.Service) *server.MCPServer {
	s := server.NewMCPServer(
		"Supplier Ethical Scoring Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		svc:     svc,
	}

	// --- 1. Tool: score_supplier ---
	s.AddTool(mcp.NewTool("score_supplier",
		mcp.WithDescription("Compute the ethical score, risk level and quick suggestions for a supplier record."),
		mcp.WithObject("supplier", mcp.Description("Supplier metrics keyed by metric name, plus name, country and industry."), mcp.Required()),
		mcp.WithBoolean("save", mcp.Description("Store the supplier and its score. Defaults to false.")),
	), h.handleScoreSupplier)

	// --- 2. Tool: get_recommendations ---
	s.AddTool(mcp.NewTool("get_recommendations",
		mcp.WithDescription("Ranked improvement actions for a stored supplier."),
		mcp.WithString("id", mcp.Description("The supplier ID."), mcp.Required()),
	), h.handleRecommendations)

	// --- 3. Tool: explain_supplier ---
	s.AddTool(mcp.NewTool("explain_supplier",
		mcp.WithDescription("Strengths, weaknesses and peer insights for a stored supplier."),
		mcp.WithString("id", mcp.Description("The supplier ID."), mcp.Required()),
	), h.handleExplain)

	// --- 4. Tool: simulate_changes ---
	s.AddTool(mcp.NewTool("simulate_changes",
		mcp.WithDescription("Predict how a stored supplier's scores change if some metrics take new values."),
		mcp.WithString("id", mcp.Description("The supplier ID."), mcp.Required()),
		mcp.WithObject("changes", mcp.Description("New metric values keyed by metric name, e.g. {\"co2_emissions\": 20}."), mcp.Required()),
	), h.handleSimulate)

	// --- 5. Tool: analyze_supplier ---
	s.AddTool(mcp.NewTool("analyze_supplier",
		mcp.WithDescription("Full analysis of a stored supplier: benchmarks, percentiles, cluster, recommendations and scenarios."),
		mcp.WithString("id", mcp.Description("The supplier ID."), mcp.Required()),
	), h.handleAnalyze)

	// --- 6. Tool: get_dashboard ---
	s.AddTool(mcp.NewTool("get_dashboard",
		mcp.WithDescription("Aggregate scores, risk distribution and top suppliers across all stored suppliers."),
	), h.handleDashboard)

	// --- 7. Tool: list_suppliers ---
	s.AddTool(mcp.NewTool("list_suppliers",
		mcp.WithDescription("List stored suppliers with their latest scores."),
		mcp.WithString("industry", mcp.Description("Only suppliers in this industry.")),
		mcp.WithString("country", mcp.Description("Only suppliers in this country.")),
		mcp.WithString("risk_level", mcp.Description("Only suppliers at this risk level."), mcp.Enum("low", "medium", "high", "critical")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleListSuppliers)

	return s
}

// StartMCPServer starts the scoring MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, svc *core.Service) error {
	s := NewMCPServer(baseCfg, svc)
	return server.ServeStdio(s)
}
