// Package validators holds domain rule checks that go beyond struct tags.
package validators

import (
	"fmt"
	"regexp"
	"strings"

	"newsdesk-backend/domain/core/entities"
	apperrors "newsdesk-backend/pkg/errors"
)

// ArticleValidator validates article-related domain rules
type ArticleValidator struct {
	titleMaxLength   int
	summaryMaxLength int
	slugPattern      *regexp.Regexp
}

// NewArticleValidator creates a validator with the default rules
func NewArticleValidator() *ArticleValidator {
	return &ArticleValidator{
		titleMaxLength:   512,
		summaryMaxLength: 2000,
		slugPattern:      regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`),
	}
}

// ValidateArticle checks an article against the domain rules
func (v *ArticleValidator) ValidateArticle(article *entities.Article) error {
	title := strings.TrimSpace(article.Title)
	if title == "" {
		return apperrors.NewValidationError("article title is required")
	}
	if len(title) > v.titleMaxLength {
		return apperrors.NewValidationError("article title too long").WithDetails(map[string]interface{}{
			"actual_length": len(title),
			"max_length":    v.titleMaxLength,
		})
	}

	if err := v.validateSlug(article.Slug); err != nil {
		return err
	}

	if len(article.Summary) > v.summaryMaxLength {
		return apperrors.NewValidationError("article summary too long").WithDetails(map[string]interface{}{
			"actual_length": len(article.Summary),
			"max_length":    v.summaryMaxLength,
		})
	}

	switch article.Status {
	case entities.ArticleStatusDraft, entities.ArticleStatusPublished, entities.ArticleStatusArchived:
	default:
		return apperrors.NewValidationError(fmt.Sprintf("unknown article status %q", article.Status))
	}

	if article.CategoryID == 0 {
		return apperrors.NewValidationError("article category is required")
	}
	return nil
}

// validateSlug checks the URL slug shape: lowercase words joined by single
// hyphens, no leading or trailing hyphen.
func (v *ArticleValidator) validateSlug(slug string) error {
	if slug == "" {
		return apperrors.NewValidationError("article slug is required")
	}
	if !v.slugPattern.MatchString(slug) {
		return apperrors.NewValidationError("article slug must be lowercase words separated by hyphens").
			WithDetails(map[string]interface{}{"slug": slug})
	}
	return nil
}
