package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"newsdesk-backend/application/services"
	"newsdesk-backend/pkg/common"
	apperrors "newsdesk-backend/pkg/errors"
	"newsdesk-backend/pkg/utils"
)

// defaultTrendingLimit applies when the limit query parameter is absent
const defaultTrendingLimit = 20

// TrendingHandler handles popularity and keyword HTTP requests
type TrendingHandler struct {
	trending *services.TrendingService
	errors   *apperrors.ErrorHandler
	logger   *zap.Logger
}

// NewTrendingHandler creates a new trending handler
func NewTrendingHandler(
	trending *services.TrendingService,
	errorHandler *apperrors.ErrorHandler,
	logger *zap.Logger,
) *TrendingHandler {
	return &TrendingHandler{
		trending: trending,
		errors:   errorHandler,
		logger:   logger,
	}
}

// Keywords handles GET /trending/keywords
func (h *TrendingHandler) Keywords(w http.ResponseWriter, r *http.Request) {
	keywords, err := h.trending.TrendingKeywords(r.Context(), limitParam(r))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, keywords)
}

// WordCloud handles GET /trending/wordcloud
func (h *TrendingHandler) WordCloud(w http.ResponseWriter, r *http.Request) {
	entries, err := h.trending.WordCloud(r.Context(), limitParam(r))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, entries)
}

// Analytics handles GET /trending/analytics
func (h *TrendingHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.trending.Analytics(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, analytics)
}

// ExtractKeywordsRequest represents the request body for keyword extraction
type ExtractKeywordsRequest struct {
	Text string `json:"text" validate:"required"`
}

// ExtractKeywords handles POST /trending/extract
func (h *TrendingHandler) ExtractKeywords(w http.ResponseWriter, r *http.Request) {
	var req ExtractKeywordsRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body").WithCause(err))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	keywords := h.trending.ExtractKeywords(req.Text)
	common.RespondJSON(w, http.StatusOK, map[string]any{"keywords": keywords})
}

func limitParam(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultTrendingLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return defaultTrendingLimit
	}
	return limit
}
