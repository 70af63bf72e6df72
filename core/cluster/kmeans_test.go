package cluster

import (
	"fmt"
	"testing"

	"github.com/ne3mer/supplychainweb/schema"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// peer builds a supplier whose quality is driven by a single level in 0..1.
func peer(id string, level float64) schema.SupplierMetrics {
	return schema.SupplierMetrics{
		ID:                 id,
		Name:               id,
		CO2Emissions:       schema.Float(100 * (1 - level)),
		WaterUsage:         schema.Float(100 * (1 - level)),
		EnergyEfficiency:   schema.Float(level),
		WasteManagement:    schema.Float(level),
		WageFairness:       schema.Float(level),
		HumanRights:        schema.Float(level),
		DiversityInclusion: schema.Float(level),
		Transparency:       schema.Float(level),
		CorruptionRisk:     schema.Float(1 - level),
	}
}

// twoGroups returns n suppliers split between a strong and a weak group.
func twoGroups(n int) []schema.SupplierMetrics {
	peers := make([]schema.SupplierMetrics, 0, n)
	for i := range n {
		level := 0.1 + float64(i%3)*0.02
		if i%2 == 0 {
			level = 0.9 - float64(i%3)*0.02
		}
		peers = append(peers, peer(fmt.Sprintf("s%d", i), level))
	}
	return peers
}

// TestClusterCount tests the k selection rule.
func TestClusterCount(t *testing.T) {
	tests := []struct {
		n        int
		expected int
	}{
		{5, 2},
		{9, 2},
		{10, 2},
		{15, 3},
		{30, 6},
		{100, 6},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ClusterCount(tt.n), "n=%d", tt.n)
	}
}

// TestTrain_InsufficientPeers tests the minimum population guard.
func TestTrain_InsufficientPeers(t *testing.T) {
	km := NewKMeans()

	model, err := km.Train(twoGroups(4))
	require.Error(t, err)
	assert.Nil(t, model)
	assert.True(t, eris.Is(err, ErrInsufficientPeers))
}

// TestTrain_SeparatesGroups tests that two well-separated groups land in different clusters.
func TestTrain_SeparatesGroups(t *testing.T) {
	km := NewKMeans()
	peers := twoGroups(6)

	model, err := km.Train(peers)
	require.NoError(t, err)
	require.Equal(t, 2, model.K)
	assert.Equal(t, 6, model.PeerCount)
	assert.Len(t, model.Centroids, 2)
	assert.Len(t, model.Features, len(schema.BenchmarkMetrics))
	assert.Equal(t, 6, model.Sizes[0]+model.Sizes[1])
	assert.LessOrEqual(t, model.Iterations, MaxIterations)

	strong, ok := km.Assign(model, peers[0])
	require.True(t, ok)
	weak, ok := km.Assign(model, peers[1])
	require.True(t, ok)
	assert.NotEqual(t, strong, weak)

	for i, p := range peers {
		got, ok := km.Assign(model, p)
		require.True(t, ok)
		if i%2 == 0 {
			assert.Equal(t, strong, got, "peer %s", p.ID)
		} else {
			assert.Equal(t, weak, got, "peer %s", p.ID)
		}
	}
}

// TestTrain_Deterministic tests that repeated training yields identical centroids.
func TestTrain_Deterministic(t *testing.T) {
	km := NewKMeans()
	peers := twoGroups(12)

	first, err := km.Train(peers)
	require.NoError(t, err)
	second, err := km.Train(peers)
	require.NoError(t, err)

	assert.Equal(t, first.Centroids, second.Centroids)
	assert.Equal(t, first.Sizes, second.Sizes)
}

// TestTrain_ConstantFeature tests that a zero-variance feature does not break normalization.
func TestTrain_ConstantFeature(t *testing.T) {
	km := NewKMeans()
	peers := twoGroups(5)
	for i := range peers {
		peers[i].Transparency = schema.Float(0.5)
	}

	model, err := km.Train(peers)
	require.NoError(t, err)
	for _, std := range model.Stds {
		assert.NotZero(t, std)
	}
}

// TestAssign_NoModel tests assignment without a usable model.
func TestAssign_NoModel(t *testing.T) {
	km := NewKMeans()

	_, ok := km.Assign(nil, peer("x", 0.5))
	assert.False(t, ok)

	_, ok = km.Assign(&schema.ClusterModel{}, peer("x", 0.5))
	assert.False(t, ok)

	bad := &schema.ClusterModel{
		Features:  schema.BenchmarkMetrics,
		Means:     []float64{0},
		Stds:      []float64{1},
		Centroids: [][]float64{{0}},
	}
	_, ok = km.Assign(bad, peer("x", 0.5))
	assert.False(t, ok)
}

// TestNoop tests the disabled clusterer.
func TestNoop(t *testing.T) {
	c := New(false)
	assert.False(t, c.Enabled())

	_, err := c.Train(twoGroups(10))
	assert.True(t, eris.Is(err, ErrClusteringUnavailable))

	_, ok := c.Assign(&schema.ClusterModel{K: 2}, peer("x", 0.5))
	assert.False(t, ok)

	assert.True(t, New(true).Enabled())
}
