package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"newsdesk-backend/domain/core/entities"
	"newsdesk-backend/pkg/observability"
)

// ArticleRepository implements ports.ArticleRepository over MySQL
type ArticleRepository struct {
	db      *gorm.DB
	logger  *zap.Logger
	metrics *observability.Collector
}

// NewArticleRepository creates a MySQL-backed article repository
func NewArticleRepository(db *gorm.DB, logger *zap.Logger, metrics *observability.Collector) *ArticleRepository {
	return &ArticleRepository{db: db, logger: logger, metrics: metrics}
}

// GetByID retrieves an article's metadata row, (nil, nil) when missing
func (r *ArticleRepository) GetByID(ctx context.Context, id uint) (*entities.Article, error) {
	defer r.observe("article_get", time.Now())

	var article entities.Article
	err := r.db.WithContext(ctx).First(&article, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.count("article_get", "error")
		return nil, fmt.Errorf("get article %d: %w", id, err)
	}
	r.count("article_get", "ok")
	return &article, nil
}

// GetContent retrieves an article's body payload, (nil, nil) when missing
func (r *ArticleRepository) GetContent(ctx context.Context, id uint) (*entities.ArticleContent, error) {
	defer r.observe("article_content_get", time.Now())

	var content entities.ArticleContent
	err := r.db.WithContext(ctx).
		Where("article_id = ?", id).
		First(&content).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.count("article_content_get", "error")
		return nil, fmt.Errorf("get article content %d: %w", id, err)
	}
	r.count("article_content_get", "ok")
	return &content, nil
}

// GetRelated retrieves published articles in the same category, most
// viewed first, excluding the article itself.
func (r *ArticleRepository) GetRelated(ctx context.Context, id uint, limit int) ([]entities.Article, error) {
	defer r.observe("article_related_get", time.Now())

	var article entities.Article
	if err := r.db.WithContext(ctx).Select("id", "category_id").First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []entities.Article{}, nil
		}
		return nil, fmt.Errorf("get article %d for related lookup: %w", id, err)
	}

	var related []entities.Article
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND id != ? AND status = ?", article.CategoryID, id, entities.ArticleStatusPublished).
		Order("view_count DESC").
		Limit(limit).
		Find(&related).Error
	if err != nil {
		r.count("article_related_get", "error")
		return nil, fmt.Errorf("get related articles for %d: %w", id, err)
	}
	r.count("article_related_get", "ok")
	return related, nil
}

// Save persists an article (create or update)
func (r *ArticleRepository) Save(ctx context.Context, article *entities.Article) error {
	defer r.observe("article_save", time.Now())

	if err := r.db.WithContext(ctx).Save(article).Error; err != nil {
		r.count("article_save", "error")
		return fmt.Errorf("save article %d: %w", article.ID, err)
	}
	r.count("article_save", "ok")
	return nil
}

// Delete removes an article and its content in one transaction
func (r *ArticleRepository) Delete(ctx context.Context, id uint) error {
	defer r.observe("article_delete", time.Now())

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entities.Article{}, id).Error; err != nil {
			return err
		}
		return tx.Where("article_id = ?", id).Delete(&entities.ArticleContent{}).Error
	})
	if err != nil {
		r.count("article_delete", "error")
		return fmt.Errorf("delete article %d: %w", id, err)
	}
	r.count("article_delete", "ok")
	return nil
}

// TopByViews returns the IDs of the most viewed published articles
func (r *ArticleRepository) TopByViews(ctx context.Context, limit int) ([]uint, error) {
	defer r.observe("article_top_by_views", time.Now())

	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&entities.Article{}).
		Where("status = ?", entities.ArticleStatusPublished).
		Order("view_count DESC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		r.count("article_top_by_views", "error")
		return nil, fmt.Errorf("top articles by views: %w", err)
	}
	r.count("article_top_by_views", "ok")
	return ids, nil
}

// ListCategories returns all categories
func (r *ArticleRepository) ListCategories(ctx context.Context) ([]entities.Category, error) {
	defer r.observe("category_list", time.Now())

	var categories []entities.Category
	if err := r.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		r.count("category_list", "error")
		return nil, fmt.Errorf("list categories: %w", err)
	}
	r.count("category_list", "ok")
	return categories, nil
}

func (r *ArticleRepository) observe(operation string, start time.Time) {
	if r.metrics != nil {
		r.metrics.DBDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

func (r *ArticleRepository) count(operation, status string) {
	if r.metrics != nil {
		r.metrics.DBOperations.WithLabelValues(operation, status).Inc()
	}
}
