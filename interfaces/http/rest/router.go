package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"newsdesk-backend/infrastructure/config"
	"newsdesk-backend/interfaces/http/rest/handlers"
	"newsdesk-backend/interfaces/http/rest/middleware"
	"newsdesk-backend/pkg/observability"
)

// Router creates and configures the HTTP router
type Router struct {
	articles *handlers.ArticleHandler
	trending *handlers.TrendingHandler
	admin    *handlers.AdminHandler
	metrics  *observability.Collector
	cfg      *config.Config
	logger   *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	articles *handlers.ArticleHandler,
	trending *handlers.TrendingHandler,
	admin *handlers.AdminHandler,
	metrics *observability.Collector,
	cfg *config.Config,
	logger *zap.Logger,
) *Router {
	return &Router{
		articles: articles,
		trending: trending,
		admin:    admin,
		metrics:  metrics,
		cfg:      cfg,
		logger:   logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.cfg.EnableMetrics && rt.metrics != nil {
		router.Use(middleware.Metrics(rt.metrics))
	}

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.newsdesk.example"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check and metrics
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.cfg.EnableMetrics && rt.metrics != nil {
		router.Handle("/metrics", rt.metrics.Handler())
	}

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/articles", func(r chi.Router) {
			r.Get("/{articleID}", rt.articles.GetArticle)
			r.Get("/{articleID}/content", rt.articles.GetContent)
			r.Get("/{articleID}/related", rt.articles.GetRelated)
			r.Put("/{articleID}", rt.articles.SaveArticle)
			r.Delete("/{articleID}", rt.articles.DeleteArticle)
		})

		r.Get("/categories", rt.articles.ListCategories)

		r.Route("/trending", func(r chi.Router) {
			r.Get("/keywords", rt.trending.Keywords)
			r.Get("/wordcloud", rt.trending.WordCloud)
			r.Get("/analytics", rt.trending.Analytics)
			r.Post("/extract", rt.trending.ExtractKeywords)
		})

		r.Route("/admin/cache", func(r chi.Router) {
			r.Post("/invalidate/{articleID}", rt.admin.InvalidateArticle)
			r.Post("/warmup", rt.admin.WarmUp)
			r.Get("/stats", rt.admin.CacheStats)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
