package cluster

import (
	"github.com/ne3mer/supplychainweb/internal/contract"
	"github.com/ne3mer/supplychainweb/schema"
)

// Noop is the clusterer used when peer clustering is disabled. It never trains
// and never assigns, so every cluster-relative feature is skipped.
type Noop struct{}

var _ contract.PeerClusterer = Noop{} // Compile-time check

// Enabled implements the PeerClusterer interface.
func (Noop) Enabled() bool { return false }

// Train implements the PeerClusterer interface.
func (Noop) Train([]schema.SupplierMetrics) (*schema.ClusterModel, error) {
	return nil, ErrClusteringUnavailable
}

// Assign implements the PeerClusterer interface.
func (Noop) Assign(*schema.ClusterModel, schema.SupplierMetrics) (int, bool) {
	return 0, false
}

// New selects the clusterer implementation at composition time.
func New(enabled bool) contract.PeerClusterer {
	if enabled {
		return NewKMeans()
	}
	return Noop{}
}
