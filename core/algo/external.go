package algo

import (
	"math"

	"github.com/ne3mer/supplychainweb/schema"
)

// Multiplier range bounds for external signals.
const (
	MinExternalMultiplier = 0.75
	MaxExternalMultiplier = 1.25

	// MaxControversies caps the controversy count before it is mapped to impact.
	MaxControversies = 5

	neutralSignal = 0.5
)

// ExternalMultiplier blends sentiment, worker and controversy signals into a
// multiplier in [0.75, 1.25]. With no signal at all it returns exactly 1.0.
func ExternalMultiplier(m schema.SupplierMetrics, w schema.ExternalWeights) float64 {
	if !m.HasExternalSignals() {
		return 1.0
	}

	social := neutralSignal
	if m.SocialMediaSentiment != nil {
		social = sentimentToUnit(*m.SocialMediaSentiment)
	}
	news := neutralSignal
	if m.NewsSentiment != nil {
		news = sentimentToUnit(*m.NewsSentiment)
	}
	workers := neutralSignal
	if m.WorkerSatisfaction != nil {
		workers = clampUnit(*m.WorkerSatisfaction / 5)
	}
	controversy := 1.0
	if m.ControversyCount != nil {
		c := max(0, min(*m.ControversyCount, MaxControversies))
		controversy = 1 - float64(c)/MaxControversies
	}

	blend := w.SocialMedia*social +
		w.News*news +
		w.WorkerReviews*workers +
		w.Controversies*controversy

	// Sub-weights are not validated, so keep the result inside the documented range.
	blend = clampUnit(blend)
	return MinExternalMultiplier + blend*(MaxExternalMultiplier-MinExternalMultiplier)
}

// sentimentToUnit maps -1..1 onto 0..1.
func sentimentToUnit(v float64) float64 {
	return clampUnit((v + 1) / 2)
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return neutralSignal
	}
	return math.Max(0, math.Min(1, v))
}
