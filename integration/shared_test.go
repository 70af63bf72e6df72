//go:build basic || database

// Package integration contains integration tests for the supplychain CLI.
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ne3mer/supplychainweb/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	// sharedBinaryPath holds the path to a shared supplychain binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getBinary returns the path to the supplychain binary, building it once if needed.
func getBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "supplychain-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binaryPath := filepath.Join(tempDir, "supplychain")
		buildCmd := exec.Command("go", "build", "-o", binaryPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build supplychain: %v\n%s", err, out))
		}

		sharedBinaryPath = binaryPath
	})

	return sharedBinaryPath
}

// runCLI runs the binary with args and returns stdout. Logs go to stderr and
// are only shown when the command fails.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getBinary(), args...)
	cmd.Dir = t.TempDir()
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), stdout.String(), stderr.String())
		return stdout.String(), err
	}
	return stdout.String(), nil
}

// mustRunJSON runs the binary with --output json and decodes stdout into out.
func mustRunJSON(t *testing.T, out any, args ...string) {
	t.Helper()
	stdout, err := runCLI(t, append(args, "--output", "json")...)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(stdout), out), "stdout: %s", stdout)
}

const suppliersFixture = `[
  {"name": "Alpha Textiles", "country": "Bangladesh", "industry": "Textiles",
   "co2_emissions": 80, "water_usage": 70, "energy_efficiency": 0.3, "waste_management_score": 0.4,
   "wage_fairness": 0.5, "human_rights_index": 0.4, "transparency_score": 0.3, "corruption_risk": 0.7},
  {"name": "Beta Weaving", "country": "India", "industry": "Textiles",
   "co2_emissions": 40, "water_usage": 35, "energy_efficiency": 0.6, "waste_management_score": 0.6,
   "wage_fairness": 0.7, "human_rights_index": 0.7, "transparency_score": 0.6, "corruption_risk": 0.4},
  {"name": "Gamma Cotton", "country": "India", "industry": "Textiles",
   "co2_emissions": 20, "water_usage": 20, "energy_efficiency": 0.8, "waste_management_score": 0.8,
   "wage_fairness": 0.9, "human_rights_index": 0.9, "transparency_score": 0.8, "corruption_risk": 0.1},
  {"name": "Delta Chips", "country": "Taiwan", "industry": "Electronics",
   "co2_emissions": 60, "water_usage": 90, "energy_efficiency": 0.5, "waste_management_score": 0.5,
   "wage_fairness": 0.8, "human_rights_index": 0.8, "transparency_score": 0.7, "corruption_risk": 0.2},
  {"name": "Epsilon Boards", "country": "Vietnam", "industry": "Electronics",
   "co2_emissions": 30, "water_usage": 30, "energy_efficiency": 0.7, "waste_management_score": 0.7,
   "wage_fairness": 0.6, "human_rights_index": 0.6, "transparency_score": 0.5, "corruption_risk": 0.5},
  {"name": "Zeta Assembly", "country": "Mexico", "industry": "Electronics",
   "co2_emissions": 10, "water_usage": 15, "energy_efficiency": 0.9, "waste_management_score": 0.9,
   "wage_fairness": 0.95, "human_rights_index": 0.95, "transparency_score": 0.9, "corruption_risk": 0.05}
]`

const presetFixture = `name: green
description: Environmental focus
weights:
  categories:
    environmental: 0.5
    social: 0.25
    governance: 0.15
    external_data: 0.1
`

// exerciseBackend drives the full command surface against whatever backend the
// SUPPLYCHAIN_DB_* environment selects.
func exerciseBackend(t *testing.T) {
	dir := t.TempDir()
	suppliersFile := filepath.Join(dir, "suppliers.json")
	require.NoError(t, os.WriteFile(suppliersFile, []byte(suppliersFixture), 0o600))
	presetFile := filepath.Join(dir, "green.yaml")
	require.NoError(t, os.WriteFile(presetFile, []byte(presetFixture), 0o600))

	_, err := runCLI(t, "db", "clear")
	require.NoError(t, err)

	var batch schema.BatchResult
	mustRunJSON(t, &batch, "suppliers", "import", suppliersFile)
	require.Equal(t, 6, batch.Succeeded, "errors: %v", batch.Errors)

	var records []schema.SupplierRecord
	mustRunJSON(t, &records, "suppliers", "list", "--industry", "Textiles")
	require.Len(t, records, 3)
	for _, rec := range records {
		require.NotNil(t, rec.Score)
	}

	var worst schema.SupplierRecord
	for _, rec := range records {
		if rec.Name == "Alpha Textiles" {
			worst = rec
		}
	}
	require.NotEmpty(t, worst.ID)

	_, err = runCLI(t, "signals", "controversy", worst.ID, "--title", "Unsafe dormitories", "--severity", "high")
	require.NoError(t, err)
	_, err = runCLI(t, "signals", "media", worst.ID, "--source", "news", "--score", "-0.6")
	require.NoError(t, err)

	var rescored schema.EvaluationResult
	mustRunJSON(t, &rescored, "suppliers", "rescore", worst.ID)
	assert.Less(t, rescored.ExternalMultiplier, 1.0)

	var reports []schema.ESGReport
	mustRunJSON(t, &reports, "suppliers", "reports", worst.ID)
	assert.Len(t, reports, 2)

	out, err := runCLI(t, "cluster", "train")
	require.NoError(t, err)
	assert.Contains(t, out, "Trained")

	var analysis schema.DetailedAnalysis
	mustRunJSON(t, &analysis, "analyze", worst.ID)
	assert.NotNil(t, analysis.Cluster)
	assert.Len(t, analysis.ImprovementScenarios, 3)

	var sim schema.SimulationResult
	mustRunJSON(t, &sim, "simulate", worst.ID, "--set", "co2_emissions=10")
	assert.Greater(t, sim.Prediction.After.EnvironmentalScore, sim.Prediction.Before.EnvironmentalScore)

	var dashboard schema.Dashboard
	mustRunJSON(t, &dashboard, "dashboard")
	assert.Equal(t, 6, dashboard.TotalSuppliers)

	var top []schema.RankedSupplier
	mustRunJSON(t, &top, "top", "--limit", "3")
	require.Len(t, top, 3)
	assert.Equal(t, "Zeta Assembly", top[0].Name)

	_, err = runCLI(t, "presets", "import", presetFile, "--default")
	require.NoError(t, err)
	var weights schema.WeightConfig
	mustRunJSON(t, &weights, "weights")
	assert.InDelta(t, 0.5, weights.Categories.Environmental, 1e-9)

	_, err = runCLI(t, "db", "status")
	require.NoError(t, err)

	_, err = runCLI(t, "export", "--output-file", filepath.Join(dir, "esg"))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "esg.suppliers.parquet"))
	assert.FileExists(t, filepath.Join(dir, "esg.esg_reports.parquet"))

	_, err = runCLI(t, "suppliers", "show", "missing-id")
	assert.Error(t, err, "Unknown suppliers should exit non-zero")
}
