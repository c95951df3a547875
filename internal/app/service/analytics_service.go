package service

import (
	"context"

	"go.uber.org/zap"

	"content-intel-service/internal/domain"
)

// AnalyticsConfig holds tag-analytics settings. ClusterThreshold is the
// operator default used when a request omits its own.
type AnalyticsConfig struct {
	ClusterThreshold float64
}

// AnalyticsService computes tag usage statistics and clusters over a
// caller-supplied bookmark corpus. It holds no state between requests.
type AnalyticsService struct {
	tagging *TaggingService
	cfg     AnalyticsConfig
	logger  *zap.Logger
}

// NewAnalyticsService creates a new AnalyticsService. The tagging service
// powers improvement suggestions.
func NewAnalyticsService(tagging *TaggingService, cfg AnalyticsConfig, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		tagging: tagging,
		cfg:     cfg,
		logger:  logger,
	}
}

// AnalyzeUsage computes per-tag usage counts and co-occurrence pairs.
func (s *AnalyticsService) AnalyzeUsage(records []domain.BookmarkTags) (*domain.TagUsageAnalytics, error) {
	analytics, err := domain.AnalyzeTagUsage(records)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("tag usage analyzed",
		zap.Int("bookmarks", analytics.TotalBookmarks),
		zap.Int("distinct_tags", analytics.TotalTags),
	)

	return analytics, nil
}

// BuildClusters derives co-occurrence clusters from usage analytics.
// threshold <= 0 selects the configured default, then the documented one.
func (s *AnalyticsService) BuildClusters(analytics *domain.TagUsageAnalytics, threshold float64) []domain.TagCluster {
	if threshold <= 0 {
		threshold = s.cfg.ClusterThreshold
	}

	clusters := domain.BuildClusters(analytics, threshold)

	s.logger.Debug("tag clusters built",
		zap.Int("clusters", len(clusters)),
	)

	return clusters
}

// SuggestInput is one bookmark whose tags should be improved.
type SuggestInput struct {
	ID           string
	Title        string
	URL          string
	Content      string
	Description  string
	ExistingTags []string
}

// SuggestImprovements reuses the tagging engine on the bookmark's signals
// and returns tags not already present on it.
func (s *AnalyticsService) SuggestImprovements(ctx context.Context, bookmark SuggestInput, opts domain.TagOptions) ([]domain.Tag, error) {
	tags, err := s.tagging.GenerateTags(ctx, domain.TagRequest{
		Title:       bookmark.Title,
		URL:         bookmark.URL,
		Content:     bookmark.Content,
		Description: bookmark.Description,
	}, opts)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]bool, len(bookmark.ExistingTags))
	for _, t := range bookmark.ExistingTags {
		existing[domain.CanonicalTag(t)] = true
	}

	suggestions := make([]domain.Tag, 0, len(tags))
	for _, t := range tags {
		if !existing[domain.CanonicalTag(t.Name)] {
			suggestions = append(suggestions, t)
		}
	}

	return suggestions, nil
}
