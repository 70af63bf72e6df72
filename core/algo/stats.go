package algo

import (
	"math"

	"github.com/ne3mer/supplychainweb/schema"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// PercentChange returns (after-before)/before*100 rounded to two decimals,
// or 0 when before is 0 or the result is not finite.
func PercentChange(before, after float64) float64 {
	if before == 0 {
		return 0
	}
	change := (after - before) / before * 100
	if math.IsNaN(change) || math.IsInf(change, 0) {
		return 0
	}
	return Round2(change)
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// MetricMean averages one metric over a peer set, using defaults for absent values.
func MetricMean(peers []schema.SupplierMetrics, key schema.MetricKey) float64 {
	values := make([]float64, 0, len(peers))
	for _, p := range peers {
		values = append(values, p.Get(key))
	}
	return Mean(values)
}

// MetricPercentile ranks value against the peer values of one metric and
// returns a 0-100 percentile. For lower-is-better metrics it is the share of
// peers strictly worse (higher); for higher-is-better metrics it is the share
// of peers at or below the value.
func MetricPercentile(value float64, peerValues []float64, dir schema.Direction) float64 {
	if len(peerValues) == 0 {
		return 0
	}
	count := 0
	for _, pv := range peerValues {
		if dir == schema.LowerIsBetter {
			if pv > value {
				count++
			}
		} else if pv <= value {
			count++
		}
	}
	return float64(count) / float64(len(peerValues)) * 100
}

// ScorePercentile returns the share of scores at or below value, 0-100.
func ScorePercentile(value float64, scores []float64) float64 {
	return MetricPercentile(value, scores, schema.HigherIsBetter)
}

// Span returns the minimum and maximum of a non-empty slice.
func Span(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return floats.Min(values), floats.Max(values)
}
