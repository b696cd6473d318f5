package services

import (
	"math"
)

// TagScore is the per-tag input to aggregate analytics: a computed
// popularity score alongside the raw signals it came from.
type TagScore struct {
	Name            string  `json:"name"`
	PopularityScore float64 `json:"popularity_score"`
	GrowthRate      float64 `json:"growth_rate"`
	TotalUsage      int     `json:"total_usage"`
	Views           int     `json:"views"`
}

// TagAnalytics summarizes a set of scored tags for the dashboard
type TagAnalytics struct {
	Count         int                     `json:"count"`
	AvgPopularity float64                 `json:"avg_popularity"`
	AvgGrowth     float64                 `json:"avg_growth"`
	TotalUsage    int                     `json:"total_usage"`
	TotalViews    int                     `json:"total_views"`
	TierCounts    map[PopularityLevel]int `json:"tier_counts"`
}

// AggregateAnalytics folds per-tag scores into dashboard aggregates.
// Empty input returns zero aggregates with an empty histogram; it never
// divides by zero.
func AggregateAnalytics(scores []TagScore) TagAnalytics {
	analytics := TagAnalytics{
		TierCounts: make(map[PopularityLevel]int),
	}
	if len(scores) == 0 {
		return analytics
	}

	var popularitySum, growthSum float64
	for _, s := range scores {
		popularitySum += s.PopularityScore
		growthSum += s.GrowthRate
		analytics.TotalUsage += s.TotalUsage
		analytics.TotalViews += s.Views
		analytics.TierCounts[ClassifyPopularity(s.PopularityScore).Level]++
	}

	analytics.Count = len(scores)
	analytics.AvgPopularity = math.Round(popularitySum/float64(len(scores))*100) / 100
	analytics.AvgGrowth = math.Round(growthSum/float64(len(scores))*100) / 100
	return analytics
}
