// Package core has the supplier scoring engine: scoring, peer clustering,
// recommendations, explanations, impact prediction and the population views
// built on top of them.
package core

import (
	"strings"
	"sync/atomic"

	"github.com/ne3mer/supplychainweb/core/cluster"
	"github.com/ne3mer/supplychainweb/internal/contract"
	"github.com/ne3mer/supplychainweb/schema"
)

// Peer group minimums below which peer-relative features are skipped.
const (
	MinClusterPeers  = 3
	MinIndustryPeers = 3
)

// Engine scores suppliers against an active weight table and an optional
// trained cluster model. Both are immutable snapshots swapped atomically, so
// an Engine is safe for concurrent use.
type Engine struct {
	weights   atomic.Pointer[schema.WeightConfig]
	model     atomic.Pointer[schema.ClusterModel]
	clusterer contract.PeerClusterer
}

// NewEngine returns an engine with the given active weights. A nil clusterer
// disables clustering.
func NewEngine(weights schema.WeightConfig, clusterer contract.PeerClusterer) *Engine {
	if clusterer == nil {
		clusterer = cluster.Noop{}
	}
	e := &Engine{clusterer: clusterer}
	e.weights.Store(&weights)
	return e
}

// Weights returns the active weight table.
func (e *Engine) Weights() schema.WeightConfig {
	return *e.weights.Load()
}

// SetWeights swaps the active weight table.
func (e *Engine) SetWeights(w schema.WeightConfig) {
	e.weights.Store(&w)
}

// Model returns the current cluster model, or nil when none is trained.
func (e *Engine) Model() *schema.ClusterModel {
	return e.model.Load()
}

// SetModel swaps in a model that was trained elsewhere, e.g. loaded from storage.
func (e *Engine) SetModel(m *schema.ClusterModel) {
	e.model.Store(m)
}

// ClusteringEnabled reports whether the configured clusterer can train.
func (e *Engine) ClusteringEnabled() bool {
	return e.clusterer.Enabled()
}

// resolve picks the override when given, otherwise the active weights.
func (e *Engine) resolve(w *schema.WeightConfig) schema.WeightConfig {
	if w != nil {
		return *w
	}
	return e.Weights()
}

// isSelf reports whether p is the same stored supplier as m.
func isSelf(m, p schema.SupplierMetrics) bool {
	return m.ID != "" && m.ID == p.ID
}

// sameIndustry compares industries case-insensitively. Unknown industries never match.
func sameIndustry(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}

// industryPeers returns the same-industry peers of m, or nil when there are too few.
func industryPeers(m schema.SupplierMetrics, peers []schema.SupplierMetrics) []schema.SupplierMetrics {
	var out []schema.SupplierMetrics
	for _, p := range peers {
		if isSelf(m, p) || !sameIndustry(m.Industry, p.Industry) {
			continue
		}
		out = append(out, p)
	}
	if len(out) < MinIndustryPeers {
		return nil
	}
	return out
}

// excludeSelf drops m from peers when it carries a stored ID.
func excludeSelf(m schema.SupplierMetrics, peers []schema.SupplierMetrics) []schema.SupplierMetrics {
	out := make([]schema.SupplierMetrics, 0, len(peers))
	for _, p := range peers {
		if !isSelf(m, p) {
			out = append(out, p)
		}
	}
	return out
}
