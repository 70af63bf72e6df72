package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ne3mer/supplychainweb/core/cluster"
	"github.com/ne3mer/supplychainweb/internal/contract"
	"github.com/ne3mer/supplychainweb/internal/store"
	"github.com/ne3mer/supplychainweb/schema"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	svc       *Service
	suppliers *store.MockSupplierStore
	presets   *store.MockPresetStore
	artifacts *store.MockArtifactStore
	signals   *store.MockSignalStore
}

func newServiceFixture(clustering bool) *serviceFixture {
	f := &serviceFixture{
		suppliers: &store.MockSupplierStore{},
		presets:   &store.MockPresetStore{},
		artifacts: &store.MockArtifactStore{},
		signals:   &store.MockSignalStore{},
	}
	mgr := &store.MockStoreManager{}
	mgr.On("GetSupplierStore").Return(f.suppliers).Maybe()
	mgr.On("GetPresetStore").Return(f.presets).Maybe()
	mgr.On("GetArtifactStore").Return(f.artifacts).Maybe()
	mgr.On("GetSignalStore").Return(f.signals).Maybe()

	f.svc = NewService(newTestEngine(clustering), mgr, 2)
	return f
}

// noSignals makes every signal lookup return nothing.
func (f *serviceFixture) noSignals() {
	f.signals.On("ListControversies", mock.Anything, mock.Anything).Return([]schema.Controversy{}, nil).Maybe()
	f.signals.On("ListMediaSignals", mock.Anything, mock.Anything).Return([]schema.MediaSignal{}, nil).Maybe()
}

func records(metrics []schema.SupplierMetrics) []schema.SupplierRecord {
	out := make([]schema.SupplierRecord, len(metrics))
	for i, m := range metrics {
		out[i] = schema.SupplierRecord{SupplierMetrics: m}
	}
	return out
}

// TestService_ResolveWeights tests the preset, default and fallback order.
func TestService_ResolveWeights(t *testing.T) {
	ctx := context.Background()
	fallback := schema.DefaultWeights()
	custom := schema.DefaultWeights()
	custom.Categories.Environmental = 0.6

	t.Run("named preset", func(t *testing.T) {
		f := newServiceFixture(false)
		f.presets.On("GetPreset", ctx, "green").Return(schema.WeightPreset{Name: "green", Weights: custom}, nil)

		w, source, err := f.svc.ResolveWeights(ctx, "green", fallback)
		require.NoError(t, err)
		assert.Equal(t, custom, w)
		assert.Equal(t, "green", source)
	})

	t.Run("missing named preset", func(t *testing.T) {
		f := newServiceFixture(false)
		f.presets.On("GetPreset", ctx, "nope").Return(schema.WeightPreset{}, contract.ErrNotFound)

		_, _, err := f.svc.ResolveWeights(ctx, "nope", fallback)
		assert.True(t, errors.Is(err, contract.ErrNotFound))
	})

	t.Run("stored default", func(t *testing.T) {
		f := newServiceFixture(false)
		f.presets.On("DefaultPreset", ctx).Return(schema.WeightPreset{Name: "house", IsDefault: true, Weights: custom}, nil)

		w, source, err := f.svc.ResolveWeights(ctx, "", fallback)
		require.NoError(t, err)
		assert.Equal(t, custom, w)
		assert.Equal(t, "house", source)
	})

	t.Run("no presets stored", func(t *testing.T) {
		f := newServiceFixture(false)
		f.presets.On("DefaultPreset", ctx).Return(schema.WeightPreset{}, contract.ErrNotFound)

		w, source, err := f.svc.ResolveWeights(ctx, "", fallback)
		require.NoError(t, err)
		assert.Equal(t, fallback, w)
		assert.Equal(t, "config", source)
	})
}

// TestService_Evaluate tests scoring with and without persistence.
func TestService_Evaluate(t *testing.T) {
	ctx := context.Background()

	t.Run("stateless", func(t *testing.T) {
		f := newServiceFixture(false)
		r, err := f.svc.Evaluate(ctx, strongSupplier(), false)
		require.NoError(t, err)
		assert.InDelta(t, 90.0, r.Scores.OverallScore, 1e-9)
		f.suppliers.AssertNotCalled(t, "CreateSupplier", mock.Anything, mock.Anything)
	})

	t.Run("invalid record", func(t *testing.T) {
		f := newServiceFixture(false)
		_, err := f.svc.Evaluate(ctx, schema.SupplierMetrics{}, true)
		assert.Error(t, err)
	})

	t.Run("new supplier is stored with its score", func(t *testing.T) {
		f := newServiceFixture(false)
		f.noSignals()

		m := weakSupplier()
		m.ID = ""
		f.suppliers.On("CreateSupplier", ctx, mock.AnythingOfType("*schema.SupplierRecord")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*schema.SupplierRecord).ID = "new-id"
			}).
			Return(nil)
		stored := schema.SupplierRecord{SupplierMetrics: m}
		stored.ID = "new-id"
		f.suppliers.On("GetSupplier", ctx, "new-id").Return(stored, nil)
		f.suppliers.On("SaveScore", ctx, "new-id", mock.AnythingOfType("schema.ScoreBundle"), (*int)(nil)).Return(nil)
		f.signals.On("AddReport", ctx, mock.MatchedBy(func(r *schema.ESGReport) bool {
			return r.SupplierID == "new-id" && r.Source == "cli" && r.ReportYear == time.Now().Year()
		})).Return(nil)

		r, err := f.svc.Evaluate(ctx, m, true)
		require.NoError(t, err)
		assert.Equal(t, "new-id", r.ID)
		assert.Equal(t, schema.CriticalRisk, r.Scores.RiskLevel)
		f.suppliers.AssertExpectations(t)
		f.signals.AssertExpectations(t)
	})

	t.Run("unknown id is created", func(t *testing.T) {
		f := newServiceFixture(false)
		f.noSignals()

		m := strongSupplier()
		f.suppliers.On("UpdateSupplier", ctx, mock.Anything).Return(contract.ErrNotFound)
		f.suppliers.On("CreateSupplier", ctx, mock.Anything).Return(nil)
		f.suppliers.On("GetSupplier", ctx, "strong").Return(schema.SupplierRecord{SupplierMetrics: m}, nil)
		f.suppliers.On("SaveScore", ctx, "strong", mock.Anything, (*int)(nil)).Return(nil)
		f.signals.On("AddReport", ctx, mock.Anything).Return(nil)

		_, err := f.svc.Evaluate(ctx, m, true)
		require.NoError(t, err)
		f.suppliers.AssertExpectations(t)
	})

	t.Run("returned id comes from the created record", func(t *testing.T) {
		f := newServiceFixture(false)
		f.noSignals()

		m := strongSupplier()
		m.ID = ""
		f.suppliers.On("CreateSupplier", ctx, mock.Anything).
			Run(func(args mock.Arguments) {
				args.Get(1).(*schema.SupplierRecord).ID = "assigned"
			}).
			Return(nil)
		// the read-back carries no ID
		f.suppliers.On("GetSupplier", ctx, "assigned").Return(schema.SupplierRecord{SupplierMetrics: m}, nil)
		f.suppliers.On("SaveScore", ctx, "assigned", mock.Anything, (*int)(nil)).Return(nil)
		f.signals.On("AddReport", ctx, mock.Anything).Return(nil)

		r, err := f.svc.Evaluate(ctx, m, true)
		require.NoError(t, err)
		assert.Equal(t, "assigned", r.ID)
	})
}

// TestService_EnrichesFromSignals tests that stored signals reach the score.
func TestService_EnrichesFromSignals(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(false)

	f.suppliers.On("GetSupplier", ctx, "strong").Return(schema.SupplierRecord{SupplierMetrics: strongSupplier()}, nil)
	open := make([]schema.Controversy, 5)
	for i := range open {
		open[i].Status = schema.StatusUnresolved
	}
	f.signals.On("ListControversies", ctx, "strong").Return(open, nil)
	f.signals.On("ListMediaSignals", ctx, "strong").Return([]schema.MediaSignal{}, nil)
	f.suppliers.On("SaveScore", ctx, "strong", mock.Anything, (*int)(nil)).Return(nil)
	f.signals.On("AddReport", ctx, mock.Anything).Return(nil)

	r, err := f.svc.Rescore(ctx, "strong")
	require.NoError(t, err)
	assert.Less(t, r.ExternalMultiplier, 1.0)
	assert.Less(t, r.Scores.OverallScore, 90.0)
}

// TestService_NotFound tests that missing suppliers surface ErrNotFound.
func TestService_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(false)
	f.suppliers.On("GetSupplier", ctx, "missing").Return(schema.SupplierRecord{}, contract.ErrNotFound)

	_, err := f.svc.Analyze(ctx, "missing")
	assert.True(t, errors.Is(err, contract.ErrNotFound))

	_, err = f.svc.Simulate(ctx, "missing", nil)
	assert.True(t, errors.Is(err, contract.ErrNotFound))
}

// TestService_PeersCache tests that the peer snapshot is memoized and invalidated.
func TestService_PeersCache(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(false)
	f.noSignals()
	f.svc.Cache = cache.New(time.Minute, time.Minute)

	f.suppliers.On("ListSuppliers", ctx, schema.SupplierFilter{}).Return(records(population(6)), nil).Twice()
	f.suppliers.On("DeleteSupplier", ctx, "p0").Return(nil)

	first, err := f.svc.Peers(ctx)
	require.NoError(t, err)
	second, err := f.svc.Peers(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	f.suppliers.AssertNumberOfCalls(t, "ListSuppliers", 1)

	require.NoError(t, f.svc.DeleteSupplier(ctx, "p0"))
	_, err = f.svc.Peers(ctx)
	require.NoError(t, err)
	f.suppliers.AssertNumberOfCalls(t, "ListSuppliers", 2)
}

// TestService_PeersCacheSkipsStaleSnapshot tests that a write landing during a
// peer read keeps that read's snapshot out of the cache.
func TestService_PeersCacheSkipsStaleSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(false)
	f.noSignals()
	f.svc.Cache = cache.New(time.Minute, time.Minute)

	f.suppliers.On("ListSuppliers", ctx, schema.SupplierFilter{}).
		Run(func(mock.Arguments) { f.svc.invalidate() }).
		Return(records(population(6)), nil).Once()
	f.suppliers.On("ListSuppliers", ctx, schema.SupplierFilter{}).
		Return(records(population(5)), nil).Once()

	stale, err := f.svc.Peers(ctx)
	require.NoError(t, err)
	assert.Len(t, stale, 6)
	_, cached := f.svc.Cache.Get(peersCacheKey)
	assert.False(t, cached)

	fresh, err := f.svc.Peers(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 5)

	again, err := f.svc.Peers(ctx)
	require.NoError(t, err)
	assert.Equal(t, fresh, again)
	f.suppliers.AssertNumberOfCalls(t, "ListSuppliers", 2)
}

// TestService_Import tests the bounded batch import.
func TestService_Import(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(false)
	f.noSignals()

	good := strongSupplier()
	good.ID = ""
	f.suppliers.On("CreateSupplier", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(1).(*schema.SupplierRecord).ID = "generated"
		}).
		Return(nil)
	f.suppliers.On("GetSupplier", mock.Anything, "generated").Return(schema.SupplierRecord{SupplierMetrics: good}, nil)
	f.suppliers.On("SaveScore", mock.Anything, "generated", mock.Anything, (*int)(nil)).Return(nil)
	f.signals.On("AddReport", mock.Anything, mock.Anything).Return(nil)

	result, err := f.svc.Import(ctx, []schema.SupplierMetrics{good, {Name: ""}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []string{"generated"}, result.IDs)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "name is required")
}

// TestService_Dashboard tests the aggregate view over the supplier store.
func TestService_Dashboard(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(false)
	b := schema.ScoreBundle{OverallScore: 72, RiskLevel: schema.MediumRisk}
	f.suppliers.On("ListSuppliers", ctx, schema.SupplierFilter{}).Return([]schema.SupplierRecord{
		{SupplierMetrics: schema.SupplierMetrics{ID: "a", Name: "a"}, Score: &b},
	}, nil)

	d, err := f.svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, d.ScoredSuppliers)
	assert.Equal(t, 1, d.RiskDistribution[schema.MediumRisk])

	top, err := f.svc.TopSuppliers(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "a", top[0].ID)
}

// TestService_TrainClusters tests training, persistence and id write-back.
func TestService_TrainClusters(t *testing.T) {
	ctx := context.Background()

	t.Run("insufficient peers", func(t *testing.T) {
		f := newServiceFixture(true)
		f.noSignals()
		f.suppliers.On("ListSuppliers", ctx, schema.SupplierFilter{}).Return(records(population(4)), nil)

		_, err := f.svc.TrainClusters(ctx)
		assert.True(t, errors.Is(err, cluster.ErrInsufficientPeers))
		f.artifacts.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("trains and writes back", func(t *testing.T) {
		f := newServiceFixture(true)
		f.noSignals()
		f.suppliers.On("ListSuppliers", ctx, schema.SupplierFilter{}).Return(records(population(6)), nil)
		f.artifacts.On("Set", ctx, ClusterModelKey, mock.Anything, 1, mock.Anything).Return(nil)
		f.suppliers.On("SaveScore", ctx, mock.Anything, mock.Anything, mock.AnythingOfType("*int")).Return(nil)

		model, err := f.svc.TrainClusters(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, model.K)
		assert.Same(t, model, f.svc.Engine.Model())
		f.suppliers.AssertNumberOfCalls(t, "SaveScore", 6)
		f.artifacts.AssertExpectations(t)
	})
}

// TestService_LoadClusterModel tests restoring a persisted model on startup.
func TestService_LoadClusterModel(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing stored", func(t *testing.T) {
		f := newServiceFixture(true)
		f.artifacts.On("Get", ctx, ClusterModelKey).Return(nil, 0, int64(0), contract.ErrNotFound)

		ok, err := f.svc.LoadClusterModel(ctx)
		require.NoError(t, err)
		assert.False(t, ok)

		status, err := f.svc.ClusterStatus(ctx)
		require.NoError(t, err)
		assert.True(t, status.Enabled)
		assert.False(t, status.Persisted)
	})

	t.Run("clustering disabled", func(t *testing.T) {
		f := newServiceFixture(false)
		ok, err := f.svc.LoadClusterModel(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
		f.artifacts.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}

// TestService_Presets tests that default presets take effect on the engine.
func TestService_Presets(t *testing.T) {
	ctx := context.Background()
	green := schema.DefaultWeights()
	green.Categories.Environmental = 0.6

	t.Run("save default applies weights", func(t *testing.T) {
		f := newServiceFixture(false)
		p := &schema.WeightPreset{Name: "green", IsDefault: true, Weights: green}
		f.presets.On("SavePreset", ctx, p).Return(nil)

		require.NoError(t, f.svc.SavePreset(ctx, p))
		assert.Equal(t, green, f.svc.Engine.Weights())
		assert.Equal(t, "green", f.svc.ActivePreset())
	})

	t.Run("save non-default keeps weights", func(t *testing.T) {
		f := newServiceFixture(false)
		before := f.svc.Engine.Weights()
		p := &schema.WeightPreset{Name: "draft", Weights: green}
		f.presets.On("SavePreset", ctx, p).Return(nil)

		require.NoError(t, f.svc.SavePreset(ctx, p))
		assert.Equal(t, before, f.svc.Engine.Weights())
		assert.Empty(t, f.svc.ActivePreset())
	})

	t.Run("set default", func(t *testing.T) {
		f := newServiceFixture(false)
		f.presets.On("SetDefaultPreset", ctx, "green").Return(nil)
		f.presets.On("GetPreset", ctx, "green").Return(schema.WeightPreset{Name: "green", Weights: green}, nil)

		require.NoError(t, f.svc.SetDefaultPreset(ctx, "green"))
		assert.Equal(t, green, f.svc.Engine.Weights())
		assert.Equal(t, "green", f.svc.ActivePreset())
	})

	t.Run("set default missing", func(t *testing.T) {
		f := newServiceFixture(false)
		f.presets.On("SetDefaultPreset", ctx, "nope").Return(contract.ErrNotFound)

		err := f.svc.SetDefaultPreset(ctx, "nope")
		assert.True(t, errors.Is(err, contract.ErrNotFound))
	})

	t.Run("use preset falls back to config", func(t *testing.T) {
		f := newServiceFixture(false)
		f.presets.On("DefaultPreset", ctx).Return(schema.WeightPreset{}, contract.ErrNotFound)

		source, err := f.svc.UsePreset(ctx, "", green)
		require.NoError(t, err)
		assert.Equal(t, "config", source)
		assert.Equal(t, green, f.svc.Engine.Weights())
	})
}
