package ports

import (
	"context"

	"newsdesk-backend/domain/core/entities"
)

// ArticleRepository defines the persistence port for articles. The cache
// layer fronts these reads; implementations return (nil, nil) for a
// missing row so the cache can store an explicit absence sentinel.
type ArticleRepository interface {
	// GetByID retrieves an article's metadata row
	GetByID(ctx context.Context, id uint) (*entities.Article, error)

	// GetContent retrieves an article's body payload
	GetContent(ctx context.Context, id uint) (*entities.ArticleContent, error)

	// GetRelated retrieves published articles sharing the article's
	// category, most viewed first, excluding the article itself.
	GetRelated(ctx context.Context, id uint, limit int) ([]entities.Article, error)

	// Save persists an article (create or update)
	Save(ctx context.Context, article *entities.Article) error

	// Delete removes an article and its content
	Delete(ctx context.Context, id uint) error

	// TopByViews returns the IDs of the most viewed published articles,
	// used by the cache warm-up job.
	TopByViews(ctx context.Context, limit int) ([]uint, error)

	// ListCategories returns all categories (static reference data)
	ListCategories(ctx context.Context) ([]entities.Category, error)
}

// TagRepository defines the persistence port for tags and their usage
// counters, the raw signals behind popularity scoring.
type TagRepository interface {
	// List returns all tags
	List(ctx context.Context) ([]entities.Tag, error)

	// TopByRecentUsage returns the most recently active tags
	TopByRecentUsage(ctx context.Context, limit int) ([]entities.Tag, error)
}
