package algo

import (
	"math"
	"sort"

	"github.com/ne3mer/supplychainweb/schema"
)

// RankSuppliers sorts scored suppliers by overall score in descending order
// and returns the top 'limit' of them. Unscored suppliers sort last.
// If limit is greater than the number of suppliers, all are returned in sorted order.
func RankSuppliers(suppliers []schema.SupplierRecord, limit int) []schema.SupplierRecord {
	sort.SliceStable(suppliers, func(i, j int) bool {
		return overallOf(suppliers[i]) > overallOf(suppliers[j])
	})
	if limit > 0 && len(suppliers) > limit {
		return suppliers[:limit]
	}
	return suppliers
}

func overallOf(r schema.SupplierRecord) float64 {
	if r.Score == nil {
		return math.Inf(-1)
	}
	return r.Score.OverallScore
}
