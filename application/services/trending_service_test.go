package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"newsdesk-backend/domain/core/entities"
	domainsvc "newsdesk-backend/domain/services"
	"newsdesk-backend/infrastructure/cache"
)

type fakeTagRepo struct {
	tags      []entities.Tag
	listCalls atomic.Int64
	fail      bool
}

func (f *fakeTagRepo) List(ctx context.Context) ([]entities.Tag, error) {
	f.listCalls.Add(1)
	if f.fail {
		return nil, errors.New("db down")
	}
	return f.tags, nil
}

func (f *fakeTagRepo) TopByRecentUsage(ctx context.Context, limit int) ([]entities.Tag, error) {
	if f.fail {
		return nil, errors.New("db down")
	}
	tags := f.tags
	if len(tags) > limit {
		tags = tags[:limit]
	}
	return tags, nil
}

type fixedScoring struct {
	cfg domainsvc.ScoringConfig
}

func (s fixedScoring) Current() domainsvc.ScoringConfig { return s.cfg }

func newTrendingService(t *testing.T, repo *fakeTagRepo) *TrendingService {
	t.Helper()
	manager := cache.NewManager(
		cache.NewMemoryStore(100, 0, nil),
		cache.NewKeyBuilder(),
		cache.DefaultManagerConfig(),
		zap.NewNop(),
		nil,
	)
	t.Cleanup(manager.Close)

	svc := NewTrendingService(
		repo,
		manager,
		fixedScoring{cfg: domainsvc.DefaultScoringConfig()},
		2*time.Minute,
		time.Minute,
		zap.NewNop(),
	)
	svc.now = func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) }
	return svc
}

func recentTag(name string, articles, views int) entities.Tag {
	return entities.Tag{
		Name:         name,
		ArticleCount: articles,
		TotalViews:   views,
		RecentUsage:  articles,
		LastUsedAt:   time.Date(2026, 8, 31, 11, 0, 0, 0, time.UTC),
		Priority:     5,
	}
}

func TestTrendingKeywordsRankedByScore(t *testing.T) {
	// Arrange
	repo := &fakeTagRepo{tags: []entities.Tag{
		recentTag("local", 2, 50),
		recentTag("election", 40, 5000),
		recentTag("weather", 10, 800),
	}}
	svc := newTrendingService(t, repo)

	// Act
	keywords, err := svc.TrendingKeywords(context.Background(), 0)

	// Assert
	require.NoError(t, err)
	require.Len(t, keywords, 3)
	assert.Equal(t, "election", keywords[0].Name)
	assert.Equal(t, "weather", keywords[1].Name)
	assert.Equal(t, "local", keywords[2].Name)
	for i := 1; i < len(keywords); i++ {
		assert.GreaterOrEqual(t, keywords[i-1].Score, keywords[i].Score)
	}
}

func TestTrendingKeywordsLimitClipsList(t *testing.T) {
	repo := &fakeTagRepo{tags: []entities.Tag{
		recentTag("a", 5, 100),
		recentTag("b", 10, 200),
		recentTag("c", 15, 300),
	}}
	svc := newTrendingService(t, repo)

	keywords, err := svc.TrendingKeywords(context.Background(), 2)

	require.NoError(t, err)
	assert.Len(t, keywords, 2)
}

func TestTrendingSnapshotIsCached(t *testing.T) {
	repo := &fakeTagRepo{tags: []entities.Tag{recentTag("cached", 8, 400)}}
	svc := newTrendingService(t, repo)

	_, err := svc.TrendingKeywords(context.Background(), 0)
	require.NoError(t, err)
	_, err = svc.TrendingKeywords(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, int64(1), repo.listCalls.Load(), "second call must hit the snapshot cache")
}

func TestWordCloudResolvesDisplayAttributes(t *testing.T) {
	repo := &fakeTagRepo{tags: []entities.Tag{
		recentTag("huge", 200, 20000),
		recentTag("tiny", 1, 10),
	}}
	svc := newTrendingService(t, repo)

	entries, err := svc.WordCloud(context.Background(), 0)

	require.NoError(t, err)
	require.Len(t, entries, 2)

	huge, tiny := entries[0], entries[1]
	assert.Equal(t, "huge", huge.Text)
	assert.Greater(t, huge.Size, tiny.Size)
	assert.Equal(t, domainsvc.PopularityVeryHigh, huge.Level)
	assert.Equal(t, "#dc2626", huge.Color)
	assert.Equal(t, domainsvc.PopularityRare, tiny.Level)
	assert.GreaterOrEqual(t, tiny.Size, wordCloudMinSize)
	assert.LessOrEqual(t, huge.Size, wordCloudMaxSize)
}

func TestAnalyticsAggregatesScoredTags(t *testing.T) {
	repo := &fakeTagRepo{tags: []entities.Tag{
		recentTag("one", 100, 10000),
		recentTag("two", 1, 10),
	}}
	svc := newTrendingService(t, repo)

	analytics, err := svc.Analytics(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, analytics.Count)
	assert.Equal(t, 101, analytics.TotalUsage)
	assert.Equal(t, 10010, analytics.TotalViews)
	assert.Equal(t, 1, analytics.TierCounts[domainsvc.PopularityVeryHigh])
	assert.Equal(t, 1, analytics.TierCounts[domainsvc.PopularityRare])
}

func TestAnalyticsEmptyCorpus(t *testing.T) {
	svc := newTrendingService(t, &fakeTagRepo{})

	analytics, err := svc.Analytics(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, analytics.Count)
	assert.Zero(t, analytics.AvgPopularity)
	assert.NotNil(t, analytics.TierCounts)
}

func TestExtractKeywordsUsesDomainExtractor(t *testing.T) {
	svc := newTrendingService(t, &fakeTagRepo{})

	keywords := svc.ExtractKeywords("<p>Breaking: election results are in!</p>")

	assert.Equal(t, []string{"breaking", "election", "results"}, keywords)
}
