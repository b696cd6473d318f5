package services

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"newsdesk-backend/application/ports"
	domainsvc "newsdesk-backend/domain/services"
	"newsdesk-backend/infrastructure/cache"
	apperrors "newsdesk-backend/pkg/errors"
)

// Word-cloud font bounds in points
const (
	wordCloudMinSize = 12
	wordCloudMaxSize = 48
)

// ScoringSource supplies the active scoring weights. The dynamic config
// provider implements it; tests pin fixed weights.
type ScoringSource interface {
	Current() domainsvc.ScoringConfig
}

// KeywordScore is one ranked keyword in the trending list
type KeywordScore struct {
	Name         string                   `json:"name"`
	Score        float64                  `json:"score"`
	Tier         domainsvc.PopularityTier `json:"tier"`
	GrowthRate   float64                  `json:"growth_rate"`
	ArticleCount int                      `json:"article_count"`
	TotalViews   int                      `json:"total_views"`
}

// WordCloudEntry is one word-cloud item with display attributes resolved
type WordCloudEntry struct {
	Text  string                    `json:"text"`
	Size  int                       `json:"size"`
	Color string                    `json:"color"`
	Level domainsvc.PopularityLevel `json:"level"`
	Score float64                   `json:"score"`
}

// TrendingService computes popularity rankings over the tag corpus. The
// computed snapshots are cached; scoring itself is pure domain logic.
type TrendingService struct {
	tags        ports.TagRepository
	cache       *cache.Manager
	scoring     ScoringSource
	extractor   *domainsvc.KeywordExtractor
	snapshotTTL time.Duration
	staleWindow time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

// NewTrendingService creates the trending application service
func NewTrendingService(
	tags ports.TagRepository,
	cacheManager *cache.Manager,
	scoring ScoringSource,
	snapshotTTL, staleWindow time.Duration,
	logger *zap.Logger,
) *TrendingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrendingService{
		tags:        tags,
		cache:       cacheManager,
		scoring:     scoring,
		extractor:   domainsvc.NewKeywordExtractor(),
		snapshotTTL: snapshotTTL,
		staleWindow: staleWindow,
		logger:      logger,
		now:         time.Now,
	}
}

type keywordSnapshot struct {
	Items []KeywordScore `json:"items"`
}

type wordCloudSnapshot struct {
	Items []WordCloudEntry `json:"items"`
}

// TrendingKeywords returns the highest scoring keywords, best first
func (s *TrendingService) TrendingKeywords(ctx context.Context, limit int) ([]KeywordScore, error) {
	key := s.cache.Keys().Trending("keywords")
	snap, err := cache.GetOrFetchAs(ctx, s.cache, key, func(ctx context.Context) (*keywordSnapshot, error) {
		scored, err := s.scoreAll(ctx)
		if err != nil {
			return nil, err
		}
		return &keywordSnapshot{Items: scored}, nil
	}, s.snapshotTTL, s.staleWindow)
	if err != nil {
		return nil, apperrors.NewDatabaseError("trending keywords", err)
	}
	if snap == nil {
		return []KeywordScore{}, nil
	}
	return clip(snap.Items, limit), nil
}

// WordCloud returns keywords with display size and color resolved for the
// front page word cloud.
func (s *TrendingService) WordCloud(ctx context.Context, limit int) ([]WordCloudEntry, error) {
	key := s.cache.Keys().Trending("wordcloud")
	snap, err := cache.GetOrFetchAs(ctx, s.cache, key, func(ctx context.Context) (*wordCloudSnapshot, error) {
		scored, err := s.scoreAll(ctx)
		if err != nil {
			return nil, err
		}
		entries := make([]WordCloudEntry, len(scored))
		for i, kw := range scored {
			entries[i] = WordCloudEntry{
				Text:  kw.Name,
				Size:  domainsvc.ComputeDisplaySize(kw.Score, wordCloudMinSize, wordCloudMaxSize),
				Color: kw.Tier.Color,
				Level: kw.Tier.Level,
				Score: kw.Score,
			}
		}
		return &wordCloudSnapshot{Items: entries}, nil
	}, s.snapshotTTL, s.staleWindow)
	if err != nil {
		return nil, apperrors.NewDatabaseError("word cloud", err)
	}
	if snap == nil {
		return []WordCloudEntry{}, nil
	}
	return clip(snap.Items, limit), nil
}

// Analytics returns aggregate statistics over all scored tags
func (s *TrendingService) Analytics(ctx context.Context) (domainsvc.TagAnalytics, error) {
	key := s.cache.Keys().Trending("analytics")
	snap, err := cache.GetOrFetchAs(ctx, s.cache, key, func(ctx context.Context) (*domainsvc.TagAnalytics, error) {
		scored, err := s.scoreAll(ctx)
		if err != nil {
			return nil, err
		}
		analytics := domainsvc.AggregateAnalytics(toTagScores(scored))
		return &analytics, nil
	}, s.snapshotTTL, s.staleWindow)
	if err != nil {
		return domainsvc.TagAnalytics{}, apperrors.NewDatabaseError("tag analytics", err)
	}
	if snap == nil {
		return domainsvc.AggregateAnalytics(nil), nil
	}
	return *snap, nil
}

// ExtractKeywords runs the keyword extractor over free text
func (s *TrendingService) ExtractKeywords(text string) []string {
	return s.extractor.Extract(text)
}

// scoreAll scores every tag with the active weights, best first
func (s *TrendingService) scoreAll(ctx context.Context) ([]KeywordScore, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, err
	}

	cfg := s.scoring.Current()
	now := s.now()

	scored := make([]KeywordScore, 0, len(tags))
	for _, tag := range tags {
		metrics := domainsvc.TagMetrics{
			ArticleCount:     tag.ArticleCount,
			TotalViews:       tag.TotalViews,
			RecentUsage:      tag.RecentUsage,
			GrowthRate:       tag.GrowthRate(),
			AgeInDays:        tag.AgeInDays(now),
			Priority:         tag.Priority,
			InteractionCount: tag.InteractionCount,
			ClickCount:       tag.ClickCount,
		}
		score := domainsvc.ComputePopularityScore(metrics, cfg)
		scored = append(scored, KeywordScore{
			Name:         tag.Name,
			Score:        score,
			Tier:         domainsvc.ClassifyPopularity(score),
			GrowthRate:   metrics.GrowthRate,
			ArticleCount: tag.ArticleCount,
			TotalViews:   tag.TotalViews,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored, nil
}

func toTagScores(scored []KeywordScore) []domainsvc.TagScore {
	out := make([]domainsvc.TagScore, len(scored))
	for i, kw := range scored {
		out[i] = domainsvc.TagScore{
			Name:            kw.Name,
			PopularityScore: kw.Score,
			GrowthRate:      kw.GrowthRate,
			TotalUsage:      kw.ArticleCount,
			Views:           kw.TotalViews,
		}
	}
	return out
}

func clip[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
