package di

import (
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"newsdesk-backend/application/ports"
	"newsdesk-backend/application/services"
	"newsdesk-backend/infrastructure/cache"
	"newsdesk-backend/infrastructure/config"
	apperrors "newsdesk-backend/pkg/errors"
	"newsdesk-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config          *config.Config
	Logger          *zap.Logger
	Metrics         *observability.Collector
	DB              *gorm.DB
	Store           cache.Store
	CacheManager    *cache.Manager
	ScoringProvider *config.ScoringProvider
	ArticleRepo     ports.ArticleRepository
	TagRepo         ports.TagRepository
	ArticleService  *services.ArticleService
	TrendingService *services.TrendingService
	ErrorHandler    *apperrors.ErrorHandler
	Handler         http.Handler
}

// Close releases background resources in reverse dependency order
func (c *Container) Close() {
	if c.CacheManager != nil {
		c.CacheManager.Close()
	}
	if c.ScoringProvider != nil {
		c.ScoringProvider.Stop()
	}
	if c.Logger != nil {
		c.Logger.Sync()
	}
}
