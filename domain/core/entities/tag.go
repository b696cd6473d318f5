package entities

import (
	"time"
)

// Tag is a keyword attached to articles. Usage and engagement counters on
// the tag feed the popularity scorer.
type Tag struct {
	ID               uint      `json:"id" gorm:"column:id;primaryKey"`
	Name             string    `json:"name" gorm:"column:name;type:varchar(255);uniqueIndex;not null"`
	ArticleCount     int       `json:"article_count" gorm:"column:article_count;default:0"`
	TotalViews       int       `json:"total_views" gorm:"column:total_views;default:0"`
	RecentUsage      int       `json:"recent_usage" gorm:"column:recent_usage;default:0"`
	PreviousUsage    int       `json:"previous_usage" gorm:"column:previous_usage;default:0"`
	InteractionCount int       `json:"interaction_count" gorm:"column:interaction_count;default:0"`
	ClickCount       int       `json:"click_count" gorm:"column:click_count;default:0"`
	Priority         int       `json:"priority" gorm:"column:priority;default:5"`
	LastUsedAt       time.Time `json:"last_used_at" gorm:"column:last_used_at"`
	CreatedAt        time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// TableName returns the database table name
func (Tag) TableName() string {
	return "tags"
}

// GrowthRate returns the recent-window usage change versus the prior window
// as a signed percentage. A tag with no prior usage but recent activity is
// treated as 100% growth rather than dividing by zero.
func (t *Tag) GrowthRate() float64 {
	if t.PreviousUsage == 0 {
		if t.RecentUsage > 0 {
			return 100
		}
		return 0
	}
	return (float64(t.RecentUsage-t.PreviousUsage) / float64(t.PreviousUsage)) * 100
}

// AgeInDays returns whole days elapsed since the tag was last used, never negative.
func (t *Tag) AgeInDays(now time.Time) int {
	if t.LastUsedAt.IsZero() || t.LastUsedAt.After(now) {
		return 0
	}
	return int(now.Sub(t.LastUsedAt).Hours() / 24)
}
