package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"newsdesk-backend/application/services"
	"newsdesk-backend/domain/core/entities"
	"newsdesk-backend/pkg/common"
	apperrors "newsdesk-backend/pkg/errors"
	"newsdesk-backend/pkg/utils"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// ArticleHandler handles article-related HTTP requests
type ArticleHandler struct {
	articles *services.ArticleService
	errors   *apperrors.ErrorHandler
	logger   *zap.Logger
}

// NewArticleHandler creates a new article handler
func NewArticleHandler(
	articles *services.ArticleService,
	errorHandler *apperrors.ErrorHandler,
	logger *zap.Logger,
) *ArticleHandler {
	return &ArticleHandler{
		articles: articles,
		errors:   errorHandler,
		logger:   logger,
	}
}

// SaveArticleRequest represents the request body for creating or updating
// an article.
type SaveArticleRequest struct {
	Title      string `json:"title" validate:"required,min=1,max=512"`
	Slug       string `json:"slug" validate:"required,min=1,max=512"`
	Summary    string `json:"summary,omitempty"`
	Status     string `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
	CategoryID uint   `json:"category_id" validate:"required"`
	AuthorID   uint   `json:"author_id" validate:"required"`
}

// GetArticle handles GET /articles/{articleID}
func (h *ArticleHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.articleID(w, r)
	if !ok {
		return
	}

	article, err := h.articles.GetArticle(r.Context(), id)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, article)
}

// GetContent handles GET /articles/{articleID}/content
func (h *ArticleHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.articleID(w, r)
	if !ok {
		return
	}

	content, err := h.articles.GetContent(r.Context(), id)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, content)
}

// GetRelated handles GET /articles/{articleID}/related
func (h *ArticleHandler) GetRelated(w http.ResponseWriter, r *http.Request) {
	id, ok := h.articleID(w, r)
	if !ok {
		return
	}

	related, err := h.articles.GetRelated(r.Context(), id)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, related)
}

// SaveArticle handles PUT /articles/{articleID}
func (h *ArticleHandler) SaveArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.articleID(w, r)
	if !ok {
		return
	}

	var req SaveArticleRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body").WithCause(err))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	status := entities.ArticleStatus(req.Status)
	if req.Status == "" {
		status = entities.ArticleStatusDraft
	}

	article := &entities.Article{
		ID:         id,
		Title:      req.Title,
		Slug:       req.Slug,
		Summary:    req.Summary,
		Status:     status,
		CategoryID: req.CategoryID,
		AuthorID:   req.AuthorID,
		UpdatedAt:  time.Now(),
	}
	if err := h.articles.SaveArticle(r.Context(), article); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, article)
}

// DeleteArticle handles DELETE /articles/{articleID}
func (h *ArticleHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.articleID(w, r)
	if !ok {
		return
	}

	if err := h.articles.DeleteArticle(r.Context(), id); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCategories handles GET /categories
func (h *ArticleHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.articles.ListCategories(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, categories)
}

// articleID parses the path parameter, responding with a validation error
// on garbage input.
func (h *ArticleHandler) articleID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "articleID")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		h.errors.Handle(w, r, apperrors.NewValidationError("article id must be a positive integer"))
		return 0, false
	}
	return uint(id), true
}
