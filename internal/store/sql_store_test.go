package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ne3mer/supplychainweb/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	s, err := NewSQLStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func createSupplier(t *testing.T, s *SQLStore, name, industry string) schema.SupplierRecord {
	t.Helper()
	rec := schema.SupplierRecord{SupplierMetrics: schema.SupplierMetrics{
		Name:             name,
		Country:          "Vietnam",
		Industry:         industry,
		CO2Emissions:     schema.Float(30),
		WageFairness:     schema.Float(0.8),
		ControversyCount: schema.Int(1),
	}}
	require.NoError(t, s.CreateSupplier(context.Background(), &rec))
	return rec
}

func TestSQLStore_NoneBackend(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLStore(schema.NoneBackend, "")
	require.NoError(t, err)

	rec := schema.SupplierRecord{SupplierMetrics: schema.SupplierMetrics{Name: "x"}}
	require.NoError(t, s.CreateSupplier(ctx, &rec))
	assert.NotEmpty(t, rec.ID, "ids are still assigned")

	_, err = s.GetSupplier(ctx, rec.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	list, err := s.ListSuppliers(ctx, schema.SupplierFilter{})
	assert.NoError(t, err)
	assert.Empty(t, list)

	assert.NoError(t, s.SaveScore(ctx, rec.ID, schema.ScoreBundle{}, nil))
	assert.NoError(t, s.Set(ctx, "k", []byte("v"), 1, 1))
	_, _, _, err = s.Get(ctx, "k")
	assert.True(t, errors.Is(err, ErrNotFound))

	status, err := s.GetStatus(ctx)
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, s.Close())
}

func TestSQLStore_MemoryDatabase(t *testing.T) {
	s, err := NewSQLStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	rec := schema.SupplierRecord{SupplierMetrics: schema.SupplierMetrics{Name: "in memory"}}
	require.NoError(t, s.CreateSupplier(context.Background(), &rec))
	_, err = s.GetSupplier(context.Background(), rec.ID)
	assert.NoError(t, err)
}

func TestSQLStore_SupplierCRUD(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	rec := createSupplier(t, s, "Acme", "Textiles")
	require.NotEmpty(t, rec.ID)

	got, err := s.GetSupplier(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, "Vietnam", got.Country)
	assert.Equal(t, 30.0, *got.CO2Emissions)
	assert.Equal(t, 0.8, *got.WageFairness)
	assert.Equal(t, 1, *got.ControversyCount)
	assert.Nil(t, got.WaterUsage, "absent metrics round-trip as nil")
	assert.Nil(t, got.Score)
	assert.Nil(t, got.ClusterID)
	assert.Equal(t, rec.CreatedAt.Unix(), got.CreatedAt.Unix())

	got.Name = "Acme Renamed"
	got.WaterUsage = schema.Float(12)
	got.CO2Emissions = nil
	require.NoError(t, s.UpdateSupplier(ctx, &got))

	updated, err := s.GetSupplier(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Renamed", updated.Name)
	assert.Equal(t, 12.0, *updated.WaterUsage)
	assert.Nil(t, updated.CO2Emissions)

	missing := schema.SupplierRecord{SupplierMetrics: schema.SupplierMetrics{ID: "nope", Name: "x"}}
	assert.True(t, errors.Is(s.UpdateSupplier(ctx, &missing), ErrNotFound))

	require.NoError(t, s.DeleteSupplier(ctx, rec.ID))
	_, err = s.GetSupplier(ctx, rec.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(s.DeleteSupplier(ctx, rec.ID), ErrNotFound))
}

func TestSQLStore_SaveScore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	rec := createSupplier(t, s, "Acme", "Textiles")

	b := schema.ScoreBundle{OverallScore: 72.5, EnvironmentalScore: 70, SocialScore: 75, GovernanceScore: 71, RiskLevel: schema.MediumRisk}
	require.NoError(t, s.SaveScore(ctx, rec.ID, b, schema.Int(2)))

	got, err := s.GetSupplier(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Score)
	assert.Equal(t, b, *got.Score)
	assert.Equal(t, 2, *got.ClusterID)

	require.NoError(t, s.SaveScore(ctx, rec.ID, b, nil))
	got, err = s.GetSupplier(ctx, rec.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ClusterID)

	assert.True(t, errors.Is(s.SaveScore(ctx, "missing", b, nil), ErrNotFound))
}

func TestSQLStore_ListSuppliers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a := createSupplier(t, s, "A", "Textiles")
	createSupplier(t, s, "B", "textiles")
	createSupplier(t, s, "C", "Mining")
	require.NoError(t, s.SaveScore(ctx, a.ID, schema.ScoreBundle{OverallScore: 85, RiskLevel: schema.LowRisk}, nil))

	tests := []struct {
		name     string
		filter   schema.SupplierFilter
		expected int
	}{
		{"all", schema.SupplierFilter{}, 3},
		{"industry is case-insensitive", schema.SupplierFilter{Industry: "TEXTILES"}, 2},
		{"country", schema.SupplierFilter{Country: "vietnam"}, 3},
		{"risk level", schema.SupplierFilter{RiskLevel: schema.LowRisk}, 1},
		{"limit", schema.SupplierFilter{Limit: 2}, 2},
		{"no match", schema.SupplierFilter{Industry: "Energy"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := s.ListSuppliers(ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, list, tt.expected)
		})
	}
}

func TestSQLStore_Presets(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.DefaultPreset(ctx)
	assert.True(t, errors.Is(err, ErrNotFound))

	heavy := schema.DefaultWeights()
	heavy.Categories.Environmental = 0.6
	require.NoError(t, s.SavePreset(ctx, &schema.WeightPreset{Name: "green", Weights: heavy, IsDefault: true}))
	require.NoError(t, s.SavePreset(ctx, &schema.WeightPreset{Name: "balanced", Weights: schema.DefaultWeights(), Description: "stock"}))

	def, err := s.DefaultPreset(ctx)
	require.NoError(t, err)
	assert.Equal(t, "green", def.Name)
	assert.Equal(t, 0.6, def.Weights.Categories.Environmental)

	// saving another default clears the first
	require.NoError(t, s.SavePreset(ctx, &schema.WeightPreset{Name: "balanced", Weights: schema.DefaultWeights(), IsDefault: true}))
	list, err := s.ListPresets(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "balanced", list[0].Name)
	assert.True(t, list[0].IsDefault)
	assert.False(t, list[1].IsDefault)

	require.NoError(t, s.SetDefaultPreset(ctx, "green"))
	def, err = s.DefaultPreset(ctx)
	require.NoError(t, err)
	assert.Equal(t, "green", def.Name)
	assert.True(t, errors.Is(s.SetDefaultPreset(ctx, "ghost"), ErrNotFound))

	got, err := s.GetPreset(ctx, " balanced ")
	require.NoError(t, err)
	assert.False(t, got.IsDefault)

	require.NoError(t, s.DeletePreset(ctx, "green"))
	_, err = s.GetPreset(ctx, "green")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(s.DeletePreset(ctx, "green"), ErrNotFound))

	assert.Error(t, s.SavePreset(ctx, &schema.WeightPreset{Name: "  "}))
}

func TestSQLStore_Artifacts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, _, _, err := s.Get(ctx, "cluster_model")
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, s.Set(ctx, "cluster_model", []byte(`{"k":2}`), 1, 100))
	require.NoError(t, s.Set(ctx, "cluster_model", []byte(`{"k":3}`), 2, 200))

	data, version, ts, err := s.Get(ctx, "cluster_model")
	require.NoError(t, err)
	assert.Equal(t, `{"k":3}`, string(data))
	assert.Equal(t, 2, version)
	assert.Equal(t, int64(200), ts)
}

func TestSQLStore_Signals(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	a := createSupplier(t, s, "A", "Textiles")
	b := createSupplier(t, s, "B", "Textiles")

	require.NoError(t, s.AddReport(ctx, &schema.ESGReport{SupplierID: a.ID, ReportYear: 2025, Source: "cli",
		Scores: schema.ScoreBundle{OverallScore: 61, RiskLevel: schema.MediumRisk}}))
	require.NoError(t, s.AddReport(ctx, &schema.ESGReport{SupplierID: b.ID, ReportYear: 2025, Source: "api", Preset: "green",
		Scores: schema.ScoreBundle{OverallScore: 50, RiskLevel: schema.MediumRisk, Fallback: true}}))

	reports, err := s.ListReports(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, 61.0, reports[0].Scores.OverallScore)
	assert.NotEmpty(t, reports[0].ID)

	all, err := s.ListReports(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	c := &schema.Controversy{SupplierID: a.ID, Title: "Spill"}
	require.NoError(t, s.AddControversy(ctx, c))
	assert.Equal(t, schema.SeverityMedium, c.Severity)
	assert.Equal(t, schema.StatusUnresolved, c.Status)
	assert.Error(t, s.AddControversy(ctx, &schema.Controversy{SupplierID: a.ID, Title: "x", Severity: "apocalyptic"}))
	assert.Error(t, s.AddControversy(ctx, &schema.Controversy{SupplierID: a.ID}))

	controversies, err := s.ListControversies(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, controversies, 1)
	assert.Equal(t, "Spill", controversies[0].Title)

	require.NoError(t, s.AddMediaSignal(ctx, &schema.MediaSignal{SupplierID: a.ID, Source: schema.SourceNews, Score: -0.4, Headline: "Bad week"}))
	require.NoError(t, s.AddMediaSignal(ctx, &schema.MediaSignal{SupplierID: b.ID, Source: schema.SourceWorkerReview, Score: 4.5}))
	assert.Error(t, s.AddMediaSignal(ctx, &schema.MediaSignal{SupplierID: a.ID, Source: schema.SourceNews, Score: 2}))
	assert.Error(t, s.AddMediaSignal(ctx, &schema.MediaSignal{SupplierID: a.ID, Source: "blog", Score: 0}))

	media, err := s.ListMediaSignals(ctx, "")
	require.NoError(t, err)
	assert.Len(t, media, 2)

	// deleting a supplier removes its history and signals
	require.NoError(t, s.DeleteSupplier(ctx, a.ID))
	reports, err = s.ListReports(ctx, "")
	require.NoError(t, err)
	assert.Len(t, reports, 1)
	controversies, err = s.ListControversies(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, controversies)
	media, err = s.ListMediaSignals(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, media)
}

func TestSQLStore_GetStatus(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	createSupplier(t, s, "A", "Textiles")

	status, err := s.GetStatus(ctx)
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, "sqlite", status.Backend)
	assert.Equal(t, uint(4), status.MigrationVersion)
	assert.False(t, status.Dirty)
	assert.Equal(t, int64(1), status.TableSizes[suppliersTable])
	assert.Equal(t, int64(0), status.TableSizes[presetsTable])
	assert.Greater(t, status.SizeBytes, int64(0))
	assert.False(t, status.LastUpdated.IsZero())
}

func TestMigrate_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "migrate.db")

	require.NoError(t, Migrate(schema.SQLiteBackend, path, -1))
	require.NoError(t, Migrate(schema.SQLiteBackend, path, 2))
	require.NoError(t, Migrate(schema.SQLiteBackend, path, 0))
	require.NoError(t, Migrate(schema.SQLiteBackend, path, -1))

	assert.Error(t, Migrate(schema.NoneBackend, "", -1))
}

func TestClearStore_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clear.db")
	s, err := NewSQLStore(schema.SQLiteBackend, path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	require.NoError(t, ClearStore(schema.SQLiteBackend, path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// clearing twice is fine
	assert.NoError(t, ClearStore(schema.SQLiteBackend, path))
	assert.NoError(t, ClearStore(schema.NoneBackend, ""))
}

func TestRebind(t *testing.T) {
	pg := &SQLStore{backend: schema.PostgreSQLBackend}
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", pg.rebind("SELECT * FROM t WHERE a = ? AND b = ?"))

	lite := &SQLStore{backend: schema.SQLiteBackend}
	assert.Equal(t, "a = ?", lite.rebind("a = ?"))
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`suppliers`", quoteTableName("suppliers", schema.MySQLBackend))
	assert.Equal(t, `"suppliers"`, quoteTableName("suppliers", schema.PostgreSQLBackend))
	assert.NoError(t, validateTableName("esg_reports"))
	assert.Error(t, validateTableName("drop;table"))
	assert.Error(t, validateTableName(""))
}

func TestStoreManager(t *testing.T) {
	empty := &StoreManager{}
	assert.Nil(t, empty.GetSupplierStore())
	assert.Nil(t, empty.GetPresetStore())

	s := newTestStore(t)
	m := NewStoreManager(s)
	assert.NotNil(t, m.GetSupplierStore())
	assert.NotNil(t, m.GetPresetStore())
	assert.NotNil(t, m.GetArtifactStore())
	assert.NotNil(t, m.GetSignalStore())
	assert.Same(t, s, m.SQL())
}

func TestExportParquet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	out := filepath.Join(t.TempDir(), "export")

	_, err := ExportParquet(ctx, s, s, out)
	assert.Error(t, err, "nothing to export")

	a := createSupplier(t, s, "A", "Textiles")
	require.NoError(t, s.AddReport(ctx, &schema.ESGReport{SupplierID: a.ID, ReportYear: 2025, Source: "cli",
		Scores: schema.ScoreBundle{OverallScore: 61, RiskLevel: schema.MediumRisk}}))

	res, err := ExportParquet(ctx, s, s, out)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Suppliers)
	assert.Equal(t, 1, res.Reports)
	for _, f := range []string{res.SuppliersFile, res.ReportsFile} {
		info, err := os.Stat(f)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}

	_, err = ExportParquet(ctx, s, s, "")
	assert.Error(t, err)
}
