package validators

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"newsdesk-backend/domain/core/entities"
	apperrors "newsdesk-backend/pkg/errors"
)

func validArticle() *entities.Article {
	return &entities.Article{
		ID:         1,
		Title:      "Budget vote passes",
		Slug:       "budget-vote-passes",
		Status:     entities.ArticleStatusPublished,
		CategoryID: 2,
	}
}

func TestValidateArticle(t *testing.T) {
	v := NewArticleValidator()

	tests := []struct {
		name    string
		mutate  func(a *entities.Article)
		wantErr bool
	}{
		{"valid article", func(a *entities.Article) {}, false},
		{"missing title", func(a *entities.Article) { a.Title = "  " }, true},
		{"title too long", func(a *entities.Article) { a.Title = strings.Repeat("x", 600) }, true},
		{"missing slug", func(a *entities.Article) { a.Slug = "" }, true},
		{"uppercase slug", func(a *entities.Article) { a.Slug = "Budget-Vote" }, true},
		{"slug with spaces", func(a *entities.Article) { a.Slug = "budget vote" }, true},
		{"slug trailing hyphen", func(a *entities.Article) { a.Slug = "budget-" }, true},
		{"unknown status", func(a *entities.Article) { a.Status = "pending" }, true},
		{"missing category", func(a *entities.Article) { a.CategoryID = 0 }, true},
		{"draft status ok", func(a *entities.Article) { a.Status = entities.ArticleStatusDraft }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			article := validArticle()
			tt.mutate(article)

			err := v.ValidateArticle(article)

			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, apperrors.IsValidation(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
