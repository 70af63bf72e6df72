package schema

import "time"

// StoreStatus represents the status of the persistence layer.
type StoreStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	MigrationVersion uint             `json:"migration_version"`
	Dirty            bool             `json:"dirty"`
	LastUpdated      time.Time        `json:"last_updated"`
	TableSizes       map[string]int64 `json:"table_sizes"`
	SizeBytes        int64            `json:"size_bytes"`
}

// ClusterStatus represents the state of the trained peer model.
type ClusterStatus struct {
	Enabled    bool      `json:"enabled"`
	Trained    bool      `json:"trained"`
	K          int       `json:"k"`
	PeerCount  int       `json:"peer_count"`
	Sizes      []int     `json:"sizes"`
	TrainedAt  time.Time `json:"trained_at"`
	Persisted  bool      `json:"persisted"`
	ArtifactAt time.Time `json:"artifact_at"`
}
