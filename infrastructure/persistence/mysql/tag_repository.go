package mysql

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"newsdesk-backend/domain/core/entities"
	"newsdesk-backend/pkg/observability"
)

// TagRepository implements ports.TagRepository over MySQL
type TagRepository struct {
	db      *gorm.DB
	logger  *zap.Logger
	metrics *observability.Collector
}

// NewTagRepository creates a MySQL-backed tag repository
func NewTagRepository(db *gorm.DB, logger *zap.Logger, metrics *observability.Collector) *TagRepository {
	return &TagRepository{db: db, logger: logger, metrics: metrics}
}

// List returns all tags with their usage counters
func (r *TagRepository) List(ctx context.Context) ([]entities.Tag, error) {
	defer r.observe("tag_list", time.Now())

	var tags []entities.Tag
	if err := r.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		r.count("tag_list", "error")
		return nil, fmt.Errorf("list tags: %w", err)
	}
	r.count("tag_list", "ok")
	return tags, nil
}

// TopByRecentUsage returns the most recently active tags
func (r *TagRepository) TopByRecentUsage(ctx context.Context, limit int) ([]entities.Tag, error) {
	defer r.observe("tag_top_by_usage", time.Now())

	var tags []entities.Tag
	err := r.db.WithContext(ctx).
		Order("recent_usage DESC").
		Limit(limit).
		Find(&tags).Error
	if err != nil {
		r.count("tag_top_by_usage", "error")
		return nil, fmt.Errorf("top tags by recent usage: %w", err)
	}
	r.count("tag_top_by_usage", "ok")
	return tags, nil
}

func (r *TagRepository) observe(operation string, start time.Time) {
	if r.metrics != nil {
		r.metrics.DBDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

func (r *TagRepository) count(operation, status string) {
	if r.metrics != nil {
		r.metrics.DBOperations.WithLabelValues(operation, status).Inc()
	}
}
