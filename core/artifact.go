package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ne3mer/supplychainweb/internal/contract"
	"github.com/ne3mer/supplychainweb/schema"
	"github.com/rotisserie/eris"
)

// ClusterModelKey is the artifact key of the persisted cluster model.
const ClusterModelKey = "cluster_model"

// clusterModelVersion is bumped whenever schema.ClusterModel changes shape.
const clusterModelVersion = 1

// SaveClusterModel serializes the model into the artifact store.
func SaveClusterModel(ctx context.Context, artifacts contract.ArtifactStore, model *schema.ClusterModel) error {
	if artifacts == nil || model == nil {
		return nil
	}
	data, err := json.Marshal(model)
	if err != nil {
		return eris.Wrap(err, "encode cluster model")
	}
	if err := artifacts.Set(ctx, ClusterModelKey, data, clusterModelVersion, time.Now().Unix()); err != nil {
		return eris.Wrap(err, "save cluster model")
	}
	return nil
}

// LoadClusterModel reads the persisted model. It returns ErrNotFound when
// nothing usable is stored, including artifacts written by another version.
func LoadClusterModel(ctx context.Context, artifacts contract.ArtifactStore) (*schema.ClusterModel, time.Time, error) {
	if artifacts == nil {
		return nil, time.Time{}, contract.ErrNotFound
	}
	data, version, ts, err := artifacts.Get(ctx, ClusterModelKey)
	if err != nil {
		return nil, time.Time{}, err
	}
	if version != clusterModelVersion {
		return nil, time.Time{}, eris.Wrapf(contract.ErrNotFound, "cluster model version %d", version)
	}

	var model schema.ClusterModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, time.Time{}, eris.Wrap(err, "decode cluster model")
	}
	if model.K == 0 || len(model.Centroids) != model.K {
		return nil, time.Time{}, eris.Wrap(contract.ErrNotFound, "cluster model is malformed")
	}
	return &model, time.Unix(ts, 0), nil
}
