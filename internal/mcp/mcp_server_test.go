package mcp_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/ne3mer/supplychainweb/core"
	"github.com/ne3mer/supplychainweb/core/cluster"
	"github.com/ne3mer/supplychainweb/internal/contract"
	mcp_internal "github.com/ne3mer/supplychainweb/internal/mcp"
	"github.com/ne3mer/supplychainweb/internal/store"
	"github.com/ne3mer/supplychainweb/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *core.Service {
	t.Helper()
	sqlStore, err := store.NewSQLStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "mcp.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlStore.Close() })
	engine := core.NewEngine(schema.DefaultWeights(), cluster.New(false))
	return core.NewService(engine, store.NewStoreManager(sqlStore), 2)
}

func call(t *testing.T, tools map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), name string, args map[string]any) (*mcp.CallToolResult, string) {
	t.Helper()
	handler, ok := tools[name]
	require.True(t, ok, "tool %s should exist", name)
	res, err := handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotEmpty(t, res.Content)
	return res, res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerTools(t *testing.T) {
	baseCfg := &contract.Config{ResultLimit: contract.DefaultResultLimit}
	s := mcp_internal.NewMCPServer(baseCfg, newTestService(t))

	tools := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){}
	for _, name := range []string{
		"score_supplier", "get_recommendations", "explain_supplier", "simulate_changes",
		"analyze_supplier", "get_dashboard", "list_suppliers",
	} {
		tool := s.GetTool(name)
		require.NotNil(t, tool, "Tool %s should exist", name)
		tools[name] = tool.Handler
	}

	supplier := map[string]any{
		"name":               "Acme",
		"industry":           "Textiles",
		"co2_emissions":      10.0,
		"water_usage":        10.0,
		"energy_efficiency":  0.9,
		"human_rights_index": 0.9,
	}

	t.Run("score without saving", func(t *testing.T) {
		res, text := call(t, tools, "score_supplier", map[string]any{"supplier": supplier})
		require.False(t, res.IsError, text)
		var result schema.EvaluationResult
		require.NoError(t, json.Unmarshal([]byte(text), &result))
		assert.Empty(t, result.ID)

		_, text = call(t, tools, "list_suppliers", map[string]any{})
		assert.JSONEq(t, "[]", text)
	})

	var id string
	t.Run("score and save", func(t *testing.T) {
		res, text := call(t, tools, "score_supplier", map[string]any{"supplier": supplier, "save": true})
		require.False(t, res.IsError, text)
		var result schema.EvaluationResult
		require.NoError(t, json.Unmarshal([]byte(text), &result))
		require.NotEmpty(t, result.ID)
		id = result.ID
	})

	t.Run("stored supplier tools", func(t *testing.T) {
		require.NotEmpty(t, id)
		for _, name := range []string{"get_recommendations", "explain_supplier", "analyze_supplier"} {
			res, text := call(t, tools, name, map[string]any{"id": id})
			assert.False(t, res.IsError, "%s: %s", name, text)
		}

		res, text := call(t, tools, "simulate_changes", map[string]any{
			"id":      id,
			"changes": map[string]any{"co2_emissions": 0.0},
		})
		require.False(t, res.IsError, text)
		var sim schema.SimulationResult
		require.NoError(t, json.Unmarshal([]byte(text), &sim))
		assert.GreaterOrEqual(t, sim.Prediction.After.EnvironmentalScore, sim.Prediction.Before.EnvironmentalScore)

		res, text = call(t, tools, "get_dashboard", nil)
		require.False(t, res.IsError, text)
		assert.Contains(t, text, `"total_suppliers": 1`)

		_, text = call(t, tools, "list_suppliers", map[string]any{"industry": "textiles", "limit": 5.0})
		var records []schema.SupplierRecord
		require.NoError(t, json.Unmarshal([]byte(text), &records))
		assert.Len(t, records, 1)
	})
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	s := mcp_internal.NewMCPServer(&contract.Config{}, newTestService(t))
	ctx := context.Background()

	tests := []struct {
		name string
		tool string
		args map[string]any
		want string
	}{
		{"score missing supplier", "score_supplier", map[string]any{}, "supplier is required"},
		{"score invalid supplier", "score_supplier", map[string]any{"supplier": map[string]any{"co2_emissions": 1.0}}, "name is required"},
		{"recommendations missing id", "get_recommendations", map[string]any{"id": " "}, "id is required"},
		{"explain unknown supplier", "explain_supplier", map[string]any{"id": "nope"}, "not found"},
		{"simulate unknown metric", "simulate_changes", map[string]any{"id": "x", "changes": map[string]any{"bogus": 1.0}}, "unknown metric"},
		{"list bad risk level", "list_suppliers", map[string]any{"risk_level": "extreme"}, "unknown risk_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := s.GetTool(tt.tool)
			require.NotNil(t, tool)
			res, err := tool.Handler(ctx, mcp.CallToolRequest{
				Params: mcp.CallToolParams{Name: tt.tool, Arguments: tt.args},
			})
			require.NoError(t, err)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, res.Content[0].(mcp.TextContent).Text, tt.want)
		})
	}
}
