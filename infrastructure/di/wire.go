//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"newsdesk-backend/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideCollector,
	ProvideGormDB,
	ProvideRedisClient,
	ProvideStore,
	ProvideKeyBuilder,
	ProvideTTLPolicy,
	ProvideCacheManager,
	ProvideScoringProvider,
	ProvideArticleRepository,
	ProvideTagRepository,
	ProvideArticleService,
	ProvideTrendingService,
	ProvideErrorHandler,
	ProvideArticleHandler,
	ProvideTrendingHandler,
	ProvideAdminHandler,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
