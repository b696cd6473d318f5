package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"newsdesk-backend/application/services"
	"newsdesk-backend/pkg/common"
	apperrors "newsdesk-backend/pkg/errors"
)

// AdminHandler exposes cache operations for operators: invalidation and
// warm-up. These endpoints are for the internal network, not readers.
type AdminHandler struct {
	articles *services.ArticleService
	errors   *apperrors.ErrorHandler
	logger   *zap.Logger

	warmupTopN        int
	warmupConcurrency int
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	articles *services.ArticleService,
	errorHandler *apperrors.ErrorHandler,
	logger *zap.Logger,
	warmupTopN, warmupConcurrency int,
) *AdminHandler {
	return &AdminHandler{
		articles:          articles,
		errors:            errorHandler,
		logger:            logger,
		warmupTopN:        warmupTopN,
		warmupConcurrency: warmupConcurrency,
	}
}

// InvalidateArticle handles POST /admin/cache/invalidate/{articleID}
func (h *AdminHandler) InvalidateArticle(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "articleID")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		h.errors.Handle(w, r, apperrors.NewValidationError("article id must be a positive integer"))
		return
	}

	h.articles.InvalidateArticle(r.Context(), uint(id))
	h.logger.Info("cache invalidated by operator", zap.String("article_id", raw))
	common.RespondJSON(w, http.StatusOK, map[string]string{"invalidated": raw})
}

// CacheStats handles GET /admin/cache/stats
func (h *AdminHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	stats, tracked := h.articles.CacheManager().StoreStats()
	if !tracked {
		common.RespondJSON(w, http.StatusOK, map[string]string{
			"store": "redis",
			"note":  "store counters are exposed on /metrics",
		})
		return
	}
	common.RespondJSON(w, http.StatusOK, stats)
}

// WarmUp handles POST /admin/cache/warmup
func (h *AdminHandler) WarmUp(w http.ResponseWriter, r *http.Request) {
	result, err := h.articles.WarmTopArticles(r.Context(), h.warmupTopN, h.warmupConcurrency)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}
