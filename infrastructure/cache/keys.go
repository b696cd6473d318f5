package cache

import (
	"fmt"
	"time"
)

// SchemaVersion is the cache payload version. Bumping it changes every key,
// which retires entries written under the previous payload shape without a
// manual flush.
const SchemaVersion = 2

// TTLPolicy holds the per-entity-type cache lifetimes. Metadata is short
// because counts and status change often; content is long because bodies
// rarely change after publish; related lists sit in between; reference
// data (categories, authors) changes rarest of all.
type TTLPolicy struct {
	Metadata  time.Duration
	Content   time.Duration
	Related   time.Duration
	Reference time.Duration
}

// DefaultTTLPolicy returns the production cache lifetimes
func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{
		Metadata:  2 * time.Minute,
		Content:   15 * time.Minute,
		Related:   10 * time.Minute,
		Reference: 1 * time.Hour,
	}
}

// KeyBuilder produces namespaced cache keys of the form
// <entity-type>:<entity-id>:v<schema-version>.
type KeyBuilder struct {
	version int
}

// NewKeyBuilder creates a key builder pinned to the current schema version
func NewKeyBuilder() *KeyBuilder {
	return &KeyBuilder{version: SchemaVersion}
}

// Meta returns the key for an article's metadata entry
func (b *KeyBuilder) Meta(articleID string) string {
	return fmt.Sprintf("article:meta:%s:v%d", articleID, b.version)
}

// Content returns the key for an article's body entry
func (b *KeyBuilder) Content(articleID string) string {
	return fmt.Sprintf("article:content:%s:v%d", articleID, b.version)
}

// Related returns the key for an article's related-articles list
func (b *KeyBuilder) Related(articleID string) string {
	return fmt.Sprintf("article:related:%s:v%d", articleID, b.version)
}

// Reference returns the key for static reference data such as the
// category list.
func (b *KeyBuilder) Reference(name string) string {
	return fmt.Sprintf("ref:%s:v%d", name, b.version)
}

// Trending returns the key for a computed trending snapshot
func (b *KeyBuilder) Trending(name string) string {
	return fmt.Sprintf("trending:%s:v%d", name, b.version)
}

// ArticlePattern returns the glob matching every cache entry of one article
func (b *KeyBuilder) ArticlePattern(articleID string) string {
	return fmt.Sprintf("article:*:%s:v%d", articleID, b.version)
}
