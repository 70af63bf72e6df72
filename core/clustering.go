package core

import (
	"fmt"

	"github.com/ne3mer/supplychainweb/core/algo"
	"github.com/ne3mer/supplychainweb/schema"
	"go.uber.org/zap"
)

// TrainClusters fits a new model over peers and swaps it in on success.
// The previous model stays active when training fails.
func (e *Engine) TrainClusters(peers []schema.SupplierMetrics) (*schema.ClusterModel, error) {
	model, err := e.clusterer.Train(peers)
	if err != nil {
		return nil, err
	}
	e.model.Store(model)
	zap.L().Info("cluster model trained",
		zap.Int("k", model.K),
		zap.Int("peers", model.PeerCount),
		zap.Int("iterations", model.Iterations))
	return model, nil
}

// AssignCluster returns the cluster of m under the current model.
func (e *Engine) AssignCluster(m schema.SupplierMetrics) (int, bool) {
	return e.assign(e.model.Load(), m)
}

func (e *Engine) assign(model *schema.ClusterModel, m schema.SupplierMetrics) (id int, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Warn("cluster assignment panicked", zap.String("supplier", m.Name), zap.Any("panic", r))
			id, ok = 0, false
		}
	}()
	return e.clusterer.Assign(model, m)
}

// clusterPeers returns the peers sharing m's cluster, or nil when m has no
// cluster or the cluster holds fewer than MinClusterPeers other suppliers.
func (e *Engine) clusterPeers(m schema.SupplierMetrics, peers []schema.SupplierMetrics) []schema.SupplierMetrics {
	if len(peers) == 0 {
		return nil
	}
	model := e.model.Load()
	target, ok := e.assign(model, m)
	if !ok {
		return nil
	}
	members := e.clusterMembers(model, target, m, peers)
	if len(members) < MinClusterPeers {
		return nil
	}
	return members
}

func (e *Engine) clusterMembers(model *schema.ClusterModel, target int, m schema.SupplierMetrics, peers []schema.SupplierMetrics) []schema.SupplierMetrics {
	var members []schema.SupplierMetrics
	for _, p := range peers {
		if isSelf(m, p) {
			continue
		}
		if c, ok := e.assign(model, p); ok && c == target {
			members = append(members, p)
		}
	}
	return members
}

// ClusterInfo summarizes m's cluster against the peer collection.
// It returns nil when m has no cluster.
func (e *Engine) ClusterInfo(m schema.SupplierMetrics, peers []schema.SupplierMetrics) *schema.ClusterInfo {
	model := e.model.Load()
	target, ok := e.assign(model, m)
	if !ok {
		return nil
	}
	members := append(e.clusterMembers(model, target, m, peers), m)

	weights := e.Weights()
	var overall, env, social, gov []float64
	for _, p := range members {
		b := e.Score(p, &weights)
		overall = append(overall, b.OverallScore)
		env = append(env, b.EnvironmentalScore)
		social = append(social, b.SocialScore)
		gov = append(gov, b.GovernanceScore)
	}

	info := &schema.ClusterInfo{
		ClusterID:        target,
		Size:             len(members),
		AvgOverall:       algo.Round2(algo.Mean(overall)),
		AvgEnvironmental: algo.Round2(algo.Mean(env)),
		AvgSocial:        algo.Round2(algo.Mean(social)),
		AvgGovernance:    algo.Round2(algo.Mean(gov)),
	}
	info.Description = describeCluster(info)
	return info
}

func describeCluster(info *schema.ClusterInfo) string {
	return fmt.Sprintf("Cluster %d groups %d suppliers with %s average risk",
		info.ClusterID, info.Size, algo.RiskLevelFor(info.AvgOverall))
}

// ClusterStatus reports on the current model.
func (e *Engine) ClusterStatus() schema.ClusterStatus {
	status := schema.ClusterStatus{Enabled: e.ClusteringEnabled()}
	model := e.model.Load()
	if model == nil {
		return status
	}
	status.Trained = true
	status.K = model.K
	status.PeerCount = model.PeerCount
	status.Sizes = append([]int(nil), model.Sizes...)
	status.TrainedAt = model.TrainedAt
	return status
}
