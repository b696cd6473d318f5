package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateAnalytics_EmptyInput(t *testing.T) {
	analytics := AggregateAnalytics(nil)

	assert.Equal(t, 0, analytics.Count)
	assert.Equal(t, 0.0, analytics.AvgPopularity)
	assert.Equal(t, 0.0, analytics.AvgGrowth)
	assert.Equal(t, 0, analytics.TotalUsage)
	assert.Equal(t, 0, analytics.TotalViews)
	assert.Empty(t, analytics.TierCounts)
}

func TestAggregateAnalytics_Aggregates(t *testing.T) {
	scores := []TagScore{
		{Name: "politics", PopularityScore: 55, GrowthRate: 20, TotalUsage: 40, Views: 9000},
		{Name: "economy", PopularityScore: 21, GrowthRate: -10, TotalUsage: 25, Views: 4000},
		{Name: "weather", PopularityScore: 12, GrowthRate: 5, TotalUsage: 10, Views: 1500},
		{Name: "chess", PopularityScore: 1, GrowthRate: 0, TotalUsage: 2, Views: 90},
	}

	analytics := AggregateAnalytics(scores)

	assert.Equal(t, 4, analytics.Count)
	assert.Equal(t, 22.25, analytics.AvgPopularity)
	assert.Equal(t, 3.75, analytics.AvgGrowth)
	assert.Equal(t, 77, analytics.TotalUsage)
	assert.Equal(t, 14590, analytics.TotalViews)
	assert.Equal(t, map[PopularityLevel]int{
		PopularityVeryHigh: 1,
		PopularityHigh:     1,
		PopularityMedium:   1,
		PopularityRare:     1,
	}, analytics.TierCounts)
}
