package dto

import (
	"content-intel-service/internal/app/service"
	"content-intel-service/internal/domain"
)

// TagResponse represents a single generated tag.
type TagResponse struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
	Category   string  `json:"category,omitempty"`
	Color      string  `json:"color,omitempty"`
}

// FromDomainTag converts domain.Tag to TagResponse.
func FromDomainTag(t domain.Tag) TagResponse {
	return TagResponse{
		Name:       t.Name,
		Confidence: t.Confidence,
		Source:     string(t.Source),
		Category:   t.Category,
		Color:      t.Color,
	}
}

// FromDomainTags converts a tag slice, never returning null JSON.
func FromDomainTags(tags []domain.Tag) []TagResponse {
	out := make([]TagResponse, len(tags))
	for i, t := range tags {
		out[i] = FromDomainTag(t)
	}

	return out
}

// TagsResponse wraps a generated tag list.
type TagsResponse struct {
	Tags []TagResponse `json:"tags"`
}

// BatchItemResponse carries one bookmark's tagging outcome.
type BatchItemResponse struct {
	ID    string        `json:"id"`
	Tags  []TagResponse `json:"tags,omitempty"`
	Error string        `json:"error,omitempty"`
}

// BatchTagsResponse is the mixed-result batch response. The batch itself
// is always HTTP 200; failures live in the per-item entries.
type BatchTagsResponse struct {
	Results []BatchItemResponse `json:"results"`
	Summary BatchSummary        `json:"summary"`
}

// BatchSummary counts batch outcomes.
type BatchSummary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// FromBatchResults converts service batch results to the response shape.
func FromBatchResults(results []service.BatchItemResult) BatchTagsResponse {
	resp := BatchTagsResponse{
		Results: make([]BatchItemResponse, len(results)),
		Summary: BatchSummary{Total: len(results)},
	}

	for i, r := range results {
		item := BatchItemResponse{ID: r.ID}
		if r.Err != nil {
			item.Error = r.Err.Error()
			resp.Summary.Failed++
		} else {
			item.Tags = FromDomainTags(r.Tags)
			resp.Summary.Succeeded++
		}
		resp.Results[i] = item
	}

	return resp
}

// UsageAnalyticsResponse wraps tag usage statistics.
type UsageAnalyticsResponse struct {
	TotalBookmarks int                       `json:"totalBookmarks"`
	TotalTags      int                       `json:"totalTags"`
	UsageCounts    map[string]int            `json:"usageCounts"`
	CoOccurrence   map[string]map[string]int `json:"coOccurrence"`
}

// FromUsageAnalytics converts domain analytics to the response shape.
func FromUsageAnalytics(a *domain.TagUsageAnalytics) UsageAnalyticsResponse {
	return UsageAnalyticsResponse{
		TotalBookmarks: a.TotalBookmarks,
		TotalTags:      a.TotalTags,
		UsageCounts:    a.UsageCounts,
		CoOccurrence:   a.CoOccurrence,
	}
}

// ClusterResponse represents one tag cluster.
type ClusterResponse struct {
	ClusterID         string   `json:"clusterId"`
	Tags              []string `json:"tags"`
	RepresentativeTag string   `json:"representativeTag"`
}

// ClustersResponse wraps the cluster list.
type ClustersResponse struct {
	Clusters []ClusterResponse `json:"clusters"`
}

// FromClusters converts domain clusters to the response shape.
func FromClusters(clusters []domain.TagCluster) ClustersResponse {
	out := ClustersResponse{Clusters: make([]ClusterResponse, len(clusters))}
	for i, c := range clusters {
		out.Clusters[i] = ClusterResponse{
			ClusterID:         c.ClusterID,
			Tags:              c.Tags,
			RepresentativeTag: c.RepresentativeTag,
		}
	}

	return out
}

// SuggestionsResponse carries per-bookmark tag improvement suggestions.
type SuggestionsResponse struct {
	Suggestions []BookmarkSuggestions `json:"suggestions"`
}

// BookmarkSuggestions holds suggested additions for one bookmark.
type BookmarkSuggestions struct {
	ID    string        `json:"id"`
	Tags  []TagResponse `json:"tags,omitempty"`
	Error string        `json:"error,omitempty"`
}

// ExtractResponse is the extraction-only endpoint response.
type ExtractResponse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	BodyText    string `json:"bodyText"`
	WordCount   int    `json:"wordCount"`
	URL         string `json:"url"`
	Language    string `json:"language,omitempty"`
	Fallback    bool   `json:"fallback"`
}

// FromExtractedContent converts extracted content to the response shape.
func FromExtractedContent(c *domain.ExtractedContent) ExtractResponse {
	return ExtractResponse{
		Title:       c.Title,
		Description: c.Description,
		BodyText:    c.BodyText,
		WordCount:   c.WordCount,
		URL:         c.URL,
		Language:    c.Language,
		Fallback:    c.Fallback,
	}
}

// HealthResponse represents health check response.
type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp string            `json:"timestamp"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}
