//go:build basic

package integration

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSupplyChainWithSQLite runs the command surface against a temp SQLite file.
func TestSupplyChainWithSQLite(t *testing.T) {
	t.Setenv("SUPPLYCHAIN_DB_BACKEND", "sqlite")
	t.Setenv("SUPPLYCHAIN_DB_CONNECT", filepath.Join(t.TempDir(), "supplychain.db"))

	exerciseBackend(t)
}

// TestSupplyChainNoneBackend scores without storing anything.
func TestSupplyChainNoneBackend(t *testing.T) {
	t.Setenv("SUPPLYCHAIN_DB_BACKEND", "none")

	out, err := runCLI(t, "score", "--name", "Acme", "--set", "co2_emissions=90", "--set", "wage_fairness=0.3", "--output", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "id,name,"))
	assert.Contains(t, lines[1], "Acme")
}

// TestVersionCommand checks the binary starts without any configuration.
func TestVersionCommand(t *testing.T) {
	_, err := runCLI(t, "version")
	require.NoError(t, err)
}
