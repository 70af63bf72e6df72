package store

import (
	"context"

	"github.com/ne3mer/supplychainweb/internal/contract"
	"github.com/ne3mer/supplychainweb/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetSupplierStore implements the StoreManager interface.
func (m *MockStoreManager) GetSupplierStore() contract.SupplierStore {
	ret := m.Called()
	s, _ := ret.Get(0).(contract.SupplierStore)
	return s
}

// GetPresetStore implements the StoreManager interface.
func (m *MockStoreManager) GetPresetStore() contract.PresetStore {
	ret := m.Called()
	s, _ := ret.Get(0).(contract.PresetStore)
	return s
}

// GetArtifactStore implements the StoreManager interface.
func (m *MockStoreManager) GetArtifactStore() contract.ArtifactStore {
	ret := m.Called()
	s, _ := ret.Get(0).(contract.ArtifactStore)
	return s
}

// GetSignalStore implements the StoreManager interface.
func (m *MockStoreManager) GetSignalStore() contract.SignalStore {
	ret := m.Called()
	s, _ := ret.Get(0).(contract.SignalStore)
	return s
}

// MockSupplierStore is a mock implementation of SupplierStore for testing.
type MockSupplierStore struct {
	mock.Mock
}

var _ contract.SupplierStore = &MockSupplierStore{} // Compile-time check

// CreateSupplier implements the SupplierStore interface.
func (m *MockSupplierStore) CreateSupplier(ctx context.Context, rec *schema.SupplierRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

// GetSupplier implements the SupplierStore interface.
func (m *MockSupplierStore) GetSupplier(ctx context.Context, id string) (schema.SupplierRecord, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(schema.SupplierRecord), args.Error(1)
}

// ListSuppliers implements the SupplierStore interface.
func (m *MockSupplierStore) ListSuppliers(ctx context.Context, filter schema.SupplierFilter) ([]schema.SupplierRecord, error) {
	args := m.Called(ctx, filter)
	recs, _ := args.Get(0).([]schema.SupplierRecord)
	return recs, args.Error(1)
}

// UpdateSupplier implements the SupplierStore interface.
func (m *MockSupplierStore) UpdateSupplier(ctx context.Context, rec *schema.SupplierRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

// DeleteSupplier implements the SupplierStore interface.
func (m *MockSupplierStore) DeleteSupplier(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// SaveScore implements the SupplierStore interface.
func (m *MockSupplierStore) SaveScore(ctx context.Context, id string, score schema.ScoreBundle, clusterID *int) error {
	args := m.Called(ctx, id, score, clusterID)
	return args.Error(0)
}

// GetStatus implements the SupplierStore interface.
func (m *MockSupplierStore) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the SupplierStore interface.
func (m *MockSupplierStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockPresetStore is a mock implementation of PresetStore for testing.
type MockPresetStore struct {
	mock.Mock
}

var _ contract.PresetStore = &MockPresetStore{} // Compile-time check

// SavePreset implements the PresetStore interface.
func (m *MockPresetStore) SavePreset(ctx context.Context, p *schema.WeightPreset) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// GetPreset implements the PresetStore interface.
func (m *MockPresetStore) GetPreset(ctx context.Context, name string) (schema.WeightPreset, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(schema.WeightPreset), args.Error(1)
}

// ListPresets implements the PresetStore interface.
func (m *MockPresetStore) ListPresets(ctx context.Context) ([]schema.WeightPreset, error) {
	args := m.Called(ctx)
	presets, _ := args.Get(0).([]schema.WeightPreset)
	return presets, args.Error(1)
}

// DefaultPreset implements the PresetStore interface.
func (m *MockPresetStore) DefaultPreset(ctx context.Context) (schema.WeightPreset, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.WeightPreset), args.Error(1)
}

// SetDefaultPreset implements the PresetStore interface.
func (m *MockPresetStore) SetDefaultPreset(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// DeletePreset implements the PresetStore interface.
func (m *MockPresetStore) DeletePreset(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// MockArtifactStore is a mock implementation of ArtifactStore for testing.
type MockArtifactStore struct {
	mock.Mock
}

var _ contract.ArtifactStore = &MockArtifactStore{} // Compile-time check

// Get implements the ArtifactStore interface.
func (m *MockArtifactStore) Get(ctx context.Context, key string) ([]byte, int, int64, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the ArtifactStore interface.
func (m *MockArtifactStore) Set(ctx context.Context, key string, value []byte, version int, timestamp int64) error {
	args := m.Called(ctx, key, value, version, timestamp)
	return args.Error(0)
}

// MockSignalStore is a mock implementation of SignalStore for testing.
type MockSignalStore struct {
	mock.Mock
}

var _ contract.SignalStore = &MockSignalStore{} // Compile-time check

// AddReport implements the SignalStore interface.
func (m *MockSignalStore) AddReport(ctx context.Context, r *schema.ESGReport) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

// ListReports implements the SignalStore interface.
func (m *MockSignalStore) ListReports(ctx context.Context, supplierID string) ([]schema.ESGReport, error) {
	args := m.Called(ctx, supplierID)
	reports, _ := args.Get(0).([]schema.ESGReport)
	return reports, args.Error(1)
}

// AddControversy implements the SignalStore interface.
func (m *MockSignalStore) AddControversy(ctx context.Context, c *schema.Controversy) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// ListControversies implements the SignalStore interface.
func (m *MockSignalStore) ListControversies(ctx context.Context, supplierID string) ([]schema.Controversy, error) {
	args := m.Called(ctx, supplierID)
	items, _ := args.Get(0).([]schema.Controversy)
	return items, args.Error(1)
}

// AddMediaSignal implements the SignalStore interface.
func (m *MockSignalStore) AddMediaSignal(ctx context.Context, s *schema.MediaSignal) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

// ListMediaSignals implements the SignalStore interface.
func (m *MockSignalStore) ListMediaSignals(ctx context.Context, supplierID string) ([]schema.MediaSignal, error) {
	args := m.Called(ctx, supplierID)
	items, _ := args.Get(0).([]schema.MediaSignal)
	return items, args.Error(1)
}
