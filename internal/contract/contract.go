// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/ne3mer/supplychainweb/schema"
	"github.com/rotisserie/eris"
)

// ErrNotFound is returned by stores when a record does not exist.
var ErrNotFound = eris.New("store: not found")

// ErrInvalid marks rejected input, such as a record failing validation.
var ErrInvalid = eris.New("invalid input")

// PeerCache memoizes the peer collection between requests.
// *cache.Cache from patrickmn/go-cache satisfies it.
type PeerCache interface {
	Get(key string) (any, bool)
	Set(key string, value any, d time.Duration)
	Delete(key string)
}

// PeerClusterer groups suppliers into peer clusters.
// Implementations are chosen at composition time, so callers never branch on availability.
type PeerClusterer interface {
	// Enabled reports whether this clusterer can ever produce a model.
	Enabled() bool

	// Train fits a fresh model over the peers. The returned model is immutable.
	Train(peers []schema.SupplierMetrics) (*schema.ClusterModel, error)

	// Assign returns the nearest cluster id, or false when no assignment is possible.
	Assign(model *schema.ClusterModel, m schema.SupplierMetrics) (int, bool)
}

// StoreManager defines the interface for reaching the persistence stores.
// This allows the store layer to be mocked for testing.
type StoreManager interface {
	GetSupplierStore() SupplierStore
	GetPresetStore() PresetStore
	GetArtifactStore() ArtifactStore
	GetSignalStore() SignalStore
}

// SupplierStore persists supplier records together with their last computed scores.
type SupplierStore interface {
	// CreateSupplier inserts a new record. An empty ID is filled in.
	CreateSupplier(ctx context.Context, rec *schema.SupplierRecord) error

	// GetSupplier returns a record by ID or an error wrapping ErrNotFound.
	GetSupplier(ctx context.Context, id string) (schema.SupplierRecord, error)

	// ListSuppliers returns records matching the filter, newest first.
	ListSuppliers(ctx context.Context, filter schema.SupplierFilter) ([]schema.SupplierRecord, error)

	// UpdateSupplier replaces the metrics and identity fields of an existing record.
	UpdateSupplier(ctx context.Context, rec *schema.SupplierRecord) error

	// DeleteSupplier removes a record and everything attached to it.
	DeleteSupplier(ctx context.Context, id string) error

	// SaveScore stores the latest score bundle and cluster id for a supplier.
	SaveScore(ctx context.Context, id string, score schema.ScoreBundle, clusterID *int) error

	// GetStatus returns status information about the store.
	GetStatus(ctx context.Context) (schema.StoreStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// PresetStore persists named weight configurations.
type PresetStore interface {
	// SavePreset upserts by name. When IsDefault is set, every other default is cleared
	// in the same transaction.
	SavePreset(ctx context.Context, p *schema.WeightPreset) error
	GetPreset(ctx context.Context, name string) (schema.WeightPreset, error)
	ListPresets(ctx context.Context) ([]schema.WeightPreset, error)
	DefaultPreset(ctx context.Context) (schema.WeightPreset, error)
	SetDefaultPreset(ctx context.Context, name string) error
	DeletePreset(ctx context.Context, name string) error
}

// ArtifactStore holds opaque versioned blobs such as the serialized cluster model.
type ArtifactStore interface {
	Get(ctx context.Context, key string) ([]byte, int, int64, error)
	Set(ctx context.Context, key string, value []byte, version int, timestamp int64) error
}

// SignalStore persists score history and external observations.
type SignalStore interface {
	AddReport(ctx context.Context, r *schema.ESGReport) error

	// ListReports returns the history of one supplier, or of every supplier when id is empty.
	ListReports(ctx context.Context, supplierID string) ([]schema.ESGReport, error)

	AddControversy(ctx context.Context, c *schema.Controversy) error
	ListControversies(ctx context.Context, supplierID string) ([]schema.Controversy, error)

	AddMediaSignal(ctx context.Context, s *schema.MediaSignal) error
	ListMediaSignals(ctx context.Context, supplierID string) ([]schema.MediaSignal, error)
}
