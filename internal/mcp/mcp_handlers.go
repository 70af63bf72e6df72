package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/ne3mer/supplychainweb/core"
	"github.com/ne3mer/supplychainweb/internal/contract"
	"github.com/ne3mer/supplychainweb/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	svc     *core.Service
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// objectArg re-decodes an object argument into out.
func objectArg(request mcp.CallToolRequest, name string, out any) error {
	raw, ok := request.GetArguments()[name]
	if !ok || raw == nil {
		return fmt.Errorf("%s is required", name)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	return nil
}

func requireID(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	id := strings.TrimSpace(request.GetString("id", ""))
	if id == "" {
		return "", mcp.NewToolResultError("id is required")
	}
	return id, nil
}

func (h *toolHandler) handleScoreSupplier(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var m schema.SupplierMetrics
	if err := objectArg(request, "supplier", &m); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := h.svc.Evaluate(ctx, m, request.GetBool("save", false))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scoring failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleRecommendations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(request)
	if errResult != nil {
		return errResult, nil
	}
	recs, err := h.svc.Recommendations(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("recommendations failed: %v", err)), nil
	}
	return jsonResult(recs)
}

func (h *toolHandler) handleExplain(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(request)
	if errResult != nil {
		return errResult, nil
	}
	exp, err := h.svc.Explanation(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("explanation failed: %v", err)), nil
	}
	return jsonResult(exp)
}

func (h *toolHandler) handleSimulate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(request)
	if errResult != nil {
		return errResult, nil
	}
	var raw map[string]float64
	if err := objectArg(request, "changes", &raw); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	changes := make(map[schema.MetricKey]float64, len(raw))
	for k, v := range raw {
		key, err := schema.ParseMetricKey(k)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		changes[key] = v
	}
	result, err := h.svc.Simulate(ctx, id, changes)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("simulation failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleAnalyze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(request)
	if errResult != nil {
		return errResult, nil
	}
	analysis, err := h.svc.Analyze(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return jsonResult(analysis)
}

func (h *toolHandler) handleDashboard(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d, err := h.svc.Dashboard(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("dashboard failed: %v", err)), nil
	}
	return jsonResult(d)
}

func (h *toolHandler) handleListSuppliers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = min(l, contract.MaxResultLimit)
	}
	filter := schema.SupplierFilter{
		Industry:  request.GetString("industry", ""),
		Country:   request.GetString("country", ""),
		RiskLevel: schema.RiskLevel(strings.ToLower(request.GetString("risk_level", ""))),
		Limit:     cfg.ResultLimit,
	}
	if filter.RiskLevel != "" {
		if _, ok := schema.ValidRiskLevels[filter.RiskLevel]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown risk_level %q", filter.RiskLevel)), nil
		}
	}
	records, err := h.svc.ListSuppliers(ctx, filter)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	if records == nil {
		records = []schema.SupplierRecord{}
	}
	return jsonResult(records)
}
