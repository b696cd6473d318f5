// Package services holds the application services that sit between the HTTP
// layer and the domain: cached article reads and trending computation.
package services

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"newsdesk-backend/application/ports"
	"newsdesk-backend/domain/core/entities"
	"newsdesk-backend/domain/core/validators"
	"newsdesk-backend/infrastructure/cache"
	apperrors "newsdesk-backend/pkg/errors"
)

// defaultRelatedLimit caps the related-articles list
const defaultRelatedLimit = 5

// articleList wraps a slice so list results round-trip through the cache as
// a single JSON document.
type articleList struct {
	Items []entities.Article `json:"items"`
}

type categoryList struct {
	Items []entities.Category `json:"items"`
}

// ArticleService serves article reads through the cache and keeps cache
// entries coherent on writes.
type ArticleService struct {
	repo        ports.ArticleRepository
	cache       *cache.Manager
	validator   *validators.ArticleValidator
	ttl         cache.TTLPolicy
	staleWindow time.Duration
	logger      *zap.Logger
}

// NewArticleService creates the article application service
func NewArticleService(
	repo ports.ArticleRepository,
	cacheManager *cache.Manager,
	ttl cache.TTLPolicy,
	staleWindow time.Duration,
	logger *zap.Logger,
) *ArticleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArticleService{
		repo:        repo,
		cache:       cacheManager,
		validator:   validators.NewArticleValidator(),
		ttl:         ttl,
		staleWindow: staleWindow,
		logger:      logger,
	}
}

// GetArticle returns an article's metadata, cached with the short metadata
// lifetime since counts and status change often.
func (s *ArticleService) GetArticle(ctx context.Context, id uint) (*entities.Article, error) {
	key := s.cache.Keys().Meta(formatID(id))
	article, err := cache.GetOrFetchAs(ctx, s.cache, key, func(ctx context.Context) (*entities.Article, error) {
		return s.repo.GetByID(ctx, id)
	}, s.ttl.Metadata, s.staleWindow)
	if err != nil {
		return nil, apperrors.NewDatabaseError("get article", err)
	}
	if article == nil {
		return nil, apperrors.NewNotFoundError("article")
	}
	return article, nil
}

// GetContent returns an article's body, cached with the long content
// lifetime since bodies rarely change after publication.
func (s *ArticleService) GetContent(ctx context.Context, id uint) (*entities.ArticleContent, error) {
	key := s.cache.Keys().Content(formatID(id))
	content, err := cache.GetOrFetchAs(ctx, s.cache, key, func(ctx context.Context) (*entities.ArticleContent, error) {
		return s.repo.GetContent(ctx, id)
	}, s.ttl.Content, s.staleWindow)
	if err != nil {
		return nil, apperrors.NewDatabaseError("get article content", err)
	}
	if content == nil {
		return nil, apperrors.NewNotFoundError("article content")
	}
	return content, nil
}

// GetRelated returns published articles in the same category, most viewed
// first. An unknown article yields an empty list, not an error.
func (s *ArticleService) GetRelated(ctx context.Context, id uint) ([]entities.Article, error) {
	key := s.cache.Keys().Related(formatID(id))
	list, err := cache.GetOrFetchAs(ctx, s.cache, key, func(ctx context.Context) (*articleList, error) {
		items, err := s.repo.GetRelated(ctx, id, defaultRelatedLimit)
		if err != nil {
			return nil, err
		}
		return &articleList{Items: items}, nil
	}, s.ttl.Related, s.staleWindow)
	if err != nil {
		return nil, apperrors.NewDatabaseError("get related articles", err)
	}
	if list == nil {
		return []entities.Article{}, nil
	}
	return list.Items, nil
}

// ListCategories returns all categories, cached with the reference lifetime
func (s *ArticleService) ListCategories(ctx context.Context) ([]entities.Category, error) {
	key := s.cache.Keys().Reference("categories")
	list, err := cache.GetOrFetchAs(ctx, s.cache, key, func(ctx context.Context) (*categoryList, error) {
		items, err := s.repo.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		return &categoryList{Items: items}, nil
	}, s.ttl.Reference, 0)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list categories", err)
	}
	if list == nil {
		return []entities.Category{}, nil
	}
	return list.Items, nil
}

// SaveArticle persists the article and drops its cache entries so the next
// read observes the new state.
func (s *ArticleService) SaveArticle(ctx context.Context, article *entities.Article) error {
	if err := s.validator.ValidateArticle(article); err != nil {
		return err
	}

	// Counters and timestamps are owned by other flows; an edit carrying
	// their zero values must not reset them, so merge from the stored row
	// before the full-column save.
	if article.ID != 0 {
		existing, err := s.repo.GetByID(ctx, article.ID)
		if err != nil {
			return apperrors.NewDatabaseError("load article for update", err)
		}
		if existing != nil {
			article.ViewCount = existing.ViewCount
			article.LikeCount = existing.LikeCount
			article.CreatedAt = existing.CreatedAt
			if article.PublishedAt == nil {
				article.PublishedAt = existing.PublishedAt
			}
		}
	}

	if err := s.repo.Save(ctx, article); err != nil {
		return apperrors.NewDatabaseError("save article", err)
	}
	s.cache.Invalidate(ctx, formatID(article.ID))
	return nil
}

// DeleteArticle removes the article and every cache entry referencing it
func (s *ArticleService) DeleteArticle(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.NewDatabaseError("delete article", err)
	}
	s.cache.InvalidatePattern(ctx, s.cache.Keys().ArticlePattern(formatID(id)))
	return nil
}

// InvalidateArticle drops an article's cache entries without touching the
// database. Exposed for the admin surface.
func (s *ArticleService) InvalidateArticle(ctx context.Context, id uint) {
	s.cache.Invalidate(ctx, formatID(id))
}

// WarmArticle pre-populates all cache entries of one article. It satisfies
// cache.WarmFunc, so the manager's warm-up drives it.
func (s *ArticleService) WarmArticle(ctx context.Context, id string) error {
	parsed, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return apperrors.NewValidationError("article id must be numeric").WithCause(err)
	}
	articleID := uint(parsed)

	if _, err := s.GetArticle(ctx, articleID); err != nil {
		return err
	}
	if _, err := s.GetContent(ctx, articleID); err != nil && !apperrors.IsNotFound(err) {
		return err
	}
	if _, err := s.GetRelated(ctx, articleID); err != nil {
		return err
	}
	return nil
}

// WarmTopArticles warms the cache for the most viewed published articles
func (s *ArticleService) WarmTopArticles(ctx context.Context, topN, concurrency int) (cache.WarmUpResult, error) {
	ids, err := s.repo.TopByViews(ctx, topN)
	if err != nil {
		return cache.WarmUpResult{}, apperrors.NewDatabaseError("top articles by views", err)
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = formatID(id)
	}
	return s.cache.WarmUp(ctx, keys, s.WarmArticle, concurrency), nil
}

// TopArticleIDs returns the cache keys' entity IDs for the most viewed
// published articles. The warm-up binary paces these itself.
func (s *ArticleService) TopArticleIDs(ctx context.Context, topN int) ([]string, error) {
	ids, err := s.repo.TopByViews(ctx, topN)
	if err != nil {
		return nil, apperrors.NewDatabaseError("top articles by views", err)
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = formatID(id)
	}
	return out, nil
}

// CacheManager exposes the underlying manager for warm-up and admin use
func (s *ArticleService) CacheManager() *cache.Manager {
	return s.cache
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
