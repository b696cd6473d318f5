// Package di wires the application together with Google Wire.
package di

import (
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"newsdesk-backend/application/ports"
	"newsdesk-backend/application/services"
	"newsdesk-backend/infrastructure/cache"
	"newsdesk-backend/infrastructure/config"
	"newsdesk-backend/infrastructure/persistence/mysql"
	"newsdesk-backend/interfaces/http/rest"
	"newsdesk-backend/interfaces/http/rest/handlers"
	apperrors "newsdesk-backend/pkg/errors"
	"newsdesk-backend/pkg/observability"
)

// metricsNamespace prefixes every exported metric
const metricsNamespace = "newsdesk"

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideCollector creates the Prometheus metrics collector
func ProvideCollector() *observability.Collector {
	return observability.NewCollector(metricsNamespace)
}

// ProvideGormDB opens the MySQL connection pool
func ProvideGormDB(cfg *config.Config) (*gorm.DB, error) {
	return mysql.Open(cfg)
}

// ProvideRedisClient creates the Redis client. It is nil when the memory
// store is selected; the store provider is the only consumer.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	if cfg.UseMemoryStore {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

// ProvideStore selects the cache store backend
func ProvideStore(cfg *config.Config, client *redis.Client, logger *zap.Logger) cache.Store {
	if cfg.UseMemoryStore || client == nil {
		return cache.NewMemoryStore(10000, 64<<20, logger)
	}
	return cache.NewRedisStore(client, logger)
}

// ProvideKeyBuilder creates the cache key builder
func ProvideKeyBuilder() *cache.KeyBuilder {
	return cache.NewKeyBuilder()
}

// ProvideTTLPolicy maps configured lifetimes onto the cache policy
func ProvideTTLPolicy(cfg *config.Config) cache.TTLPolicy {
	return cache.TTLPolicy{
		Metadata:  cfg.MetadataTTL,
		Content:   cfg.ContentTTL,
		Related:   cfg.RelatedTTL,
		Reference: cfg.ReferenceTTL,
	}
}

// ProvideCacheManager creates the read-through cache manager
func ProvideCacheManager(
	store cache.Store,
	keys *cache.KeyBuilder,
	cfg *config.Config,
	logger *zap.Logger,
	metrics *observability.Collector,
) *cache.Manager {
	managerCfg := cache.DefaultManagerConfig()
	managerCfg.RefreshWorkers = cfg.RefreshWorkers
	managerCfg.RefreshQueueSize = cfg.RefreshQueueSize
	return cache.NewManager(store, keys, managerCfg, logger, metrics)
}

// ProvideScoringProvider creates the dynamic scoring weights provider
func ProvideScoringProvider(cfg *config.Config, logger *zap.Logger) (*config.ScoringProvider, error) {
	return config.NewScoringProvider(cfg.ScoringConfigPath, logger)
}

// ProvideArticleRepository creates the MySQL article repository
func ProvideArticleRepository(db *gorm.DB, logger *zap.Logger, metrics *observability.Collector) ports.ArticleRepository {
	return mysql.NewArticleRepository(db, logger, metrics)
}

// ProvideTagRepository creates the MySQL tag repository
func ProvideTagRepository(db *gorm.DB, logger *zap.Logger, metrics *observability.Collector) ports.TagRepository {
	return mysql.NewTagRepository(db, logger, metrics)
}

// ProvideArticleService creates the cached article read service
func ProvideArticleService(
	repo ports.ArticleRepository,
	manager *cache.Manager,
	ttl cache.TTLPolicy,
	cfg *config.Config,
	logger *zap.Logger,
) *services.ArticleService {
	return services.NewArticleService(repo, manager, ttl, cfg.StaleWindow, logger)
}

// ProvideTrendingService creates the popularity scoring service
func ProvideTrendingService(
	repo ports.TagRepository,
	manager *cache.Manager,
	scoring *config.ScoringProvider,
	cfg *config.Config,
	logger *zap.Logger,
) *services.TrendingService {
	return services.NewTrendingService(repo, manager, scoring, cfg.MetadataTTL, cfg.StaleWindow, logger)
}

// ProvideErrorHandler creates the HTTP error handler
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *apperrors.ErrorHandler {
	return apperrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideArticleHandler creates the article HTTP handler
func ProvideArticleHandler(
	articles *services.ArticleService,
	errorHandler *apperrors.ErrorHandler,
	logger *zap.Logger,
) *handlers.ArticleHandler {
	return handlers.NewArticleHandler(articles, errorHandler, logger)
}

// ProvideTrendingHandler creates the trending HTTP handler
func ProvideTrendingHandler(
	trending *services.TrendingService,
	errorHandler *apperrors.ErrorHandler,
	logger *zap.Logger,
) *handlers.TrendingHandler {
	return handlers.NewTrendingHandler(trending, errorHandler, logger)
}

// ProvideAdminHandler creates the cache admin HTTP handler
func ProvideAdminHandler(
	articles *services.ArticleService,
	errorHandler *apperrors.ErrorHandler,
	cfg *config.Config,
	logger *zap.Logger,
) *handlers.AdminHandler {
	return handlers.NewAdminHandler(articles, errorHandler, logger, cfg.WarmupTopN, cfg.WarmupConcurrency)
}

// ProvideRouter assembles the HTTP router
func ProvideRouter(
	articleHandler *handlers.ArticleHandler,
	trendingHandler *handlers.TrendingHandler,
	adminHandler *handlers.AdminHandler,
	metrics *observability.Collector,
	cfg *config.Config,
	logger *zap.Logger,
) http.Handler {
	return rest.NewRouter(articleHandler, trendingHandler, adminHandler, metrics, cfg, logger).Setup()
}
