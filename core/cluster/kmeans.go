// Package cluster groups suppliers into peer clusters over normalized metric vectors.
package cluster

import (
	"math"
	"time"

	"github.com/ne3mer/supplychainweb/internal/contract"
	"github.com/ne3mer/supplychainweb/schema"
	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Training limits.
const (
	MinTrainingPeers = 5
	MinClusters      = 2
	MaxClusters      = 6
	MaxIterations    = 100
)

var (
	// ErrInsufficientPeers is returned when fewer than MinTrainingPeers records are supplied.
	ErrInsufficientPeers = eris.New("cluster: insufficient peers for training")

	// ErrClusteringUnavailable is returned when clustering is disabled or training failed.
	ErrClusteringUnavailable = eris.New("cluster: clustering unavailable")
)

// KMeans is a deterministic nearest-centroid clusterer. It uses farthest-point
// seeding followed by Lloyd iterations, so the same peers always yield the same model.
type KMeans struct {
	features []schema.MetricKey
	now      func() time.Time
}

var _ contract.PeerClusterer = &KMeans{} // Compile-time check

// NewKMeans returns a clusterer over the benchmark metrics.
func NewKMeans() *KMeans {
	return &KMeans{features: schema.BenchmarkMetrics, now: time.Now}
}

// Enabled implements the PeerClusterer interface.
func (km *KMeans) Enabled() bool { return true }

// ClusterCount returns k for a peer population: clamp(n/5, 2, min(6, n/2)).
func ClusterCount(n int) int {
	hi := min(MaxClusters, n/2)
	return max(MinClusters, min(n/5, hi))
}

// Train fits a new model. The returned model is never modified afterwards.
func (km *KMeans) Train(peers []schema.SupplierMetrics) (*schema.ClusterModel, error) {
	n := len(peers)
	if n < MinTrainingPeers {
		return nil, eris.Wrapf(ErrInsufficientPeers, "got %d, need %d", n, MinTrainingPeers)
	}

	dims := len(km.features)
	raw := make([][]float64, n)
	for i, p := range peers {
		raw[i] = featureVector(p, km.features)
	}

	means := make([]float64, dims)
	stds := make([]float64, dims)
	column := make([]float64, n)
	for j := range dims {
		for i := range n {
			column[i] = raw[i][j]
		}
		mean, std := stat.PopMeanStdDev(column, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		means[j], stds[j] = mean, std
	}

	points := make([][]float64, n)
	for i := range n {
		points[i] = normalize(raw[i], means, stds)
		if !allFinite(points[i]) {
			return nil, eris.Wrapf(ErrClusteringUnavailable, "non-finite features for peer %d", i)
		}
	}

	k := ClusterCount(n)
	centroids := seedCentroids(points, k)
	assignments := make([]int, n)
	for i := range assignments {
		assignments[i] = -1
	}

	iterations := 0
	for iterations < MaxIterations {
		iterations++
		changed := false
		for i, pt := range points {
			c := nearest(centroids, pt)
			if c != assignments[i] {
				assignments[i] = c
				changed = true
			}
		}
		if !changed {
			break
		}
		centroids = recompute(points, assignments, centroids)
	}

	sizes := make([]int, k)
	for _, c := range assignments {
		sizes[c]++
	}

	features := make([]schema.MetricKey, dims)
	copy(features, km.features)

	return &schema.ClusterModel{
		K:          k,
		PeerCount:  n,
		Features:   features,
		Means:      means,
		Stds:       stds,
		Centroids:  centroids,
		Sizes:      sizes,
		Iterations: iterations,
		TrainedAt:  km.now().UTC(),
	}, nil
}

// Assign returns the nearest cluster for m, or false when no usable model exists.
func (km *KMeans) Assign(model *schema.ClusterModel, m schema.SupplierMetrics) (int, bool) {
	if model == nil || len(model.Centroids) == 0 {
		return 0, false
	}
	dims := len(model.Features)
	if len(model.Means) != dims || len(model.Stds) != dims {
		return 0, false
	}
	for _, c := range model.Centroids {
		if len(c) != dims {
			return 0, false
		}
	}

	pt := normalize(featureVector(m, model.Features), model.Means, model.Stds)
	if !allFinite(pt) {
		return 0, false
	}
	return nearest(model.Centroids, pt), true
}

func featureVector(m schema.SupplierMetrics, features []schema.MetricKey) []float64 {
	v := make([]float64, len(features))
	for j, key := range features {
		v[j] = m.Get(key)
	}
	return v
}

func normalize(v, means, stds []float64) []float64 {
	out := make([]float64, len(v))
	for j := range v {
		std := stds[j]
		if std == 0 {
			std = 1
		}
		out[j] = (v[j] - means[j]) / std
	}
	return out
}

// seedCentroids picks the point closest to the origin (the feature means), then
// repeatedly the point farthest from every chosen centroid. Ties go to the lower index.
func seedCentroids(points [][]float64, k int) [][]float64 {
	origin := make([]float64, len(points[0]))
	first := 0
	best := math.Inf(1)
	for i, pt := range points {
		if d := floats.Distance(pt, origin, 2); d < best {
			best, first = d, i
		}
	}

	chosen := []int{first}
	for len(chosen) < k {
		next, farthest := -1, -1.0
		for i, pt := range points {
			d := math.Inf(1)
			for _, c := range chosen {
				d = math.Min(d, floats.Distance(pt, points[c], 2))
			}
			if d > farthest {
				next, farthest = i, d
			}
		}
		chosen = append(chosen, next)
	}

	centroids := make([][]float64, k)
	for i, idx := range chosen {
		centroids[i] = append([]float64(nil), points[idx]...)
	}
	return centroids
}

func nearest(centroids [][]float64, pt []float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := floats.Distance(pt, centroid, 2); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// recompute averages the members of each cluster. A cluster that lost every
// member keeps its previous centroid.
func recompute(points [][]float64, assignments []int, prev [][]float64) [][]float64 {
	dims := len(points[0])
	sums := make([][]float64, len(prev))
	counts := make([]int, len(prev))
	for c := range sums {
		sums[c] = make([]float64, dims)
	}
	for i, c := range assignments {
		floats.Add(sums[c], points[i])
		counts[c]++
	}

	next := make([][]float64, len(prev))
	for c := range prev {
		if counts[c] == 0 {
			next[c] = append([]float64(nil), prev[c]...)
			continue
		}
		floats.Scale(1/float64(counts[c]), sums[c])
		next[c] = sums[c]
	}
	return next
}

func allFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
