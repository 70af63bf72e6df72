package schema

import "time"

// ClusterModel is a trained peer-grouping snapshot. It is never mutated after
// training; a retrain produces a new value that replaces the old one.
type ClusterModel struct {
	K          int         `json:"k"`
	PeerCount  int         `json:"peer_count"`
	Features   []MetricKey `json:"features"`
	Means      []float64   `json:"means"`
	Stds       []float64   `json:"stds"`
	Centroids  [][]float64 `json:"centroids"`
	Sizes      []int       `json:"sizes"`
	Iterations int         `json:"iterations"`
	TrainedAt  time.Time   `json:"trained_at"`
}

// ClusterInfo summarizes the cluster a supplier belongs to.
type ClusterInfo struct {
	ClusterID        int     `json:"cluster_id"`
	Size             int     `json:"size"`
	AvgOverall       float64 `json:"avg_ethical_score"`
	AvgEnvironmental float64 `json:"avg_environmental_score"`
	AvgSocial        float64 `json:"avg_social_score"`
	AvgGovernance    float64 `json:"avg_governance_score"`
	Description      string  `json:"description"`
}
