package services

import (
	"math"
)

// TagMetrics carries the raw usage signals for a single tag or keyword.
// All count fields are expected to be non-negative; negative article or view
// counts make the scorer return zero rather than error, since for a display
// ranking "no data" and "zero popularity" are the same outcome.
type TagMetrics struct {
	ArticleCount     int     // number of content items tagged with this keyword
	TotalViews       int     // aggregate views across those items
	RecentUsage      int     // usage count within the recent window
	GrowthRate       float64 // signed percentage, recent window vs prior window
	AgeInDays        int     // days since the keyword's last use
	Priority         int     // manual editorial weight; 5 is neutral, 0 means unset
	InteractionCount int     // bonus engagement signal
	ClickCount       int     // bonus engagement signal
}

// ScoringConfig holds the weighting configuration for popularity scoring.
// The constants are product tuning choices, not invariants; they can be
// overridden at runtime through the dynamic configuration file.
type ScoringConfig struct {
	UsageWeight        float64 `json:"usageWeight" validate:"gte=0"`
	ViewsWeight        float64 `json:"viewsWeight" validate:"gte=0"`
	RecencyWeight      float64 `json:"recencyWeight" validate:"gte=0"`
	GrowthWeight       float64 `json:"growthWeight" validate:"gte=0"`
	DecayFactor        float64 `json:"decayFactor" validate:"gt=0,lte=1"`
	PriorityMultiplier float64 `json:"priorityMultiplier" validate:"gte=0"`
	ViewsDivisor       float64 `json:"viewsDivisor" validate:"gt=0"`
	MaxAgeDays         int     `json:"maxAgeDays" validate:"gt=0"`
}

// DefaultScoringConfig returns the default weighting configuration
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		UsageWeight:        0.4,
		ViewsWeight:        0.3,
		RecencyWeight:      0.2,
		GrowthWeight:       0.1,
		DecayFactor:        0.95,
		PriorityMultiplier: 0.1,
		ViewsDivisor:       100,
		MaxAgeDays:         90,
	}
}

// neutralPriority is the editorial weight that applies no adjustment
const neutralPriority = 5

// ComputePopularityScore turns raw usage signals into a single comparable
// popularity number. The function is pure: identical inputs always produce
// an identical output.
//
// The score is the weighted sum of four components (usage, views, recency,
// growth), plus a small engagement bonus, scaled by the editorial priority.
// Recency decays exponentially with age, capped at MaxAgeDays so a score
// never decays below its value at the cap. Negative growth contributes
// zero; it never penalizes. The result is rounded to two decimals and is
// never negative.
func ComputePopularityScore(metrics TagMetrics, cfg ScoringConfig) float64 {
	if metrics.ArticleCount < 0 || metrics.TotalViews < 0 {
		return 0
	}

	usageScore := float64(metrics.ArticleCount) * cfg.UsageWeight
	viewsScore := (float64(metrics.TotalViews) / cfg.ViewsDivisor) * cfg.ViewsWeight

	age := metrics.AgeInDays
	if age > cfg.MaxAgeDays {
		age = cfg.MaxAgeDays
	}
	if age < 0 {
		age = 0
	}
	recencyFactor := math.Pow(cfg.DecayFactor, float64(age))
	recencyScore := float64(metrics.RecentUsage) * recencyFactor * cfg.RecencyWeight

	growthScore := math.Max(0, metrics.GrowthRate/100) * cfg.GrowthWeight

	score := usageScore + viewsScore + recencyScore + growthScore

	// Engagement bonus from interactions and clicks
	if metrics.InteractionCount > 0 || metrics.ClickCount > 0 {
		score += float64(metrics.InteractionCount+metrics.ClickCount) * 0.01
	}

	// Priority is a proportional adjustment, not additive. Zero means the
	// caller never set it, which is the neutral default.
	priority := metrics.Priority
	if priority == 0 {
		priority = neutralPriority
	}
	if priority != neutralPriority {
		score *= 1 + float64(priority-neutralPriority)*cfg.PriorityMultiplier
	}

	if score < 0 {
		return 0
	}
	return math.Round(score*100) / 100
}

// PopularityLevel is a discrete popularity tier derived from a score
type PopularityLevel string

const (
	PopularityVeryHigh PopularityLevel = "very_high"
	PopularityHigh     PopularityLevel = "high"
	PopularityMedium   PopularityLevel = "medium"
	PopularityLow      PopularityLevel = "low"
	PopularityRare     PopularityLevel = "rare"
)

// PopularityTier bundles the display attributes of a popularity level
type PopularityTier struct {
	Level       PopularityLevel `json:"level"`
	Color       string          `json:"color"`
	Description string          `json:"description"`
}

// popularityTiers is ordered from highest to lowest; thresholds are
// inclusive on the lower bound, so a score of exactly 20 is "high".
var popularityTiers = []struct {
	minScore float64
	tier     PopularityTier
}{
	{50, PopularityTier{PopularityVeryHigh, "#dc2626", "Trending across the site"}},
	{20, PopularityTier{PopularityHigh, "#ea580c", "Heavily used and widely read"}},
	{10, PopularityTier{PopularityMedium, "#ca8a04", "Steady usage"}},
	{5, PopularityTier{PopularityLow, "#16a34a", "Occasional usage"}},
}

// rareTier is the catch-all for scores below every threshold
var rareTier = PopularityTier{PopularityRare, "#6b7280", "Rarely used"}

// ClassifyPopularity maps a continuous score to its discrete tier
func ClassifyPopularity(score float64) PopularityTier {
	for _, t := range popularityTiers {
		if score >= t.minScore {
			return t.tier
		}
	}
	return rareTier
}

// ComputeDisplaySize linearly interpolates a display font size from a score.
// The score is clamped to [0, 100] first, so the function is total.
func ComputeDisplaySize(score float64, minSize, maxSize int) int {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	size := float64(minSize) + (score/100)*float64(maxSize-minSize)
	return int(math.Round(size))
}
