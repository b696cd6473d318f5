package entities

import (
	"time"
)

// ArticleStatus represents the publication state of an article
type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPublished ArticleStatus = "published"
	ArticleStatusArchived  ArticleStatus = "archived"
)

// Article represents a news article managed by the CMS.
// Metadata fields (counts, status) change often; the body rarely changes
// after publication, which is why the two are cached separately.
type Article struct {
	ID          uint          `json:"id" gorm:"column:id;primaryKey"`
	Title       string        `json:"title" gorm:"column:title;type:varchar(512);not null"`
	Slug        string        `json:"slug" gorm:"column:slug;type:varchar(512);uniqueIndex;not null"`
	Summary     string        `json:"summary" gorm:"column:summary;type:text"`
	Status      ArticleStatus `json:"status" gorm:"column:status;type:varchar(32);default:draft"`
	CategoryID  uint          `json:"category_id" gorm:"column:category_id;index"`
	AuthorID    uint          `json:"author_id" gorm:"column:author_id;index"`
	ViewCount   int           `json:"view_count" gorm:"column:view_count;default:0"`
	LikeCount   int           `json:"like_count" gorm:"column:like_count;default:0"`
	PublishedAt *time.Time    `json:"published_at,omitempty" gorm:"column:published_at"`
	CreatedAt   time.Time     `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time     `json:"updated_at" gorm:"column:updated_at"`
}

// TableName returns the database table name
func (Article) TableName() string {
	return "articles"
}

// IsPublished reports whether the article is visible to readers
func (a *Article) IsPublished() bool {
	return a.Status == ArticleStatusPublished
}

// ArticleContent is the large body payload of an article, stored and
// cached separately from the metadata row.
type ArticleContent struct {
	ArticleID uint      `json:"article_id" gorm:"column:article_id;primaryKey"`
	Body      string    `json:"body" gorm:"column:body;type:longtext"`
	WordCount int       `json:"word_count" gorm:"column:word_count;default:0"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// TableName returns the database table name
func (ArticleContent) TableName() string {
	return "article_contents"
}

// Category is static reference data; it changes rarely and caches long.
type Category struct {
	ID        uint      `json:"id" gorm:"column:id;primaryKey"`
	Name      string    `json:"name" gorm:"column:name;type:varchar(255);uniqueIndex;not null"`
	Slug      string    `json:"slug" gorm:"column:slug;type:varchar(255);uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

// TableName returns the database table name
func (Category) TableName() string {
	return "categories"
}
