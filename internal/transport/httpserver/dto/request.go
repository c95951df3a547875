// Package dto provides Data Transfer Objects for HTTP requests and responses.
package dto

import (
	"content-intel-service/internal/app/service"
	"content-intel-service/internal/domain"
)

// AnalyzeRequest is the body of POST /api/v1/analysis.
// Unknown fields are ignored by the JSON decoder, not misapplied.
type AnalyzeRequest struct {
	URL         string              `json:"url" validate:"required,max=2048"`
	Title       string              `json:"title" validate:"omitempty,max=500"`
	Description string              `json:"description" validate:"omitempty,max=2000"`
	Content     string              `json:"content" validate:"omitempty,max=200000"`
	HTML        string              `json:"html" validate:"omitempty,max=2000000"`
	UserID      string              `json:"userId" validate:"required,max=100"`
	Preferences *PreferencesRequest `json:"preferences" validate:"omitempty"`
}

// PreferencesRequest toggles optional analysis sections. Omitted toggles
// default to enabled.
type PreferencesRequest struct {
	Depth              string `json:"depth" validate:"omitempty,oneof=basic standard deep"`
	IncludeKeywords    *bool  `json:"includeKeywords"`
	IncludeSentiment   *bool  `json:"includeSentiment"`
	IncludeTopics      *bool  `json:"includeTopics"`
	IncludeReadingTime *bool  `json:"includeReadingTime"`
	Language           string `json:"language" validate:"omitempty,len=2"`
}

// ToDomain converts AnalyzeRequest to domain.AnalysisRequest.
func (r *AnalyzeRequest) ToDomain() domain.AnalysisRequest {
	prefs := domain.DefaultPreferences()
	if p := r.Preferences; p != nil {
		if p.Depth != "" {
			prefs.Depth = p.Depth
		}
		if p.IncludeKeywords != nil {
			prefs.IncludeKeywords = *p.IncludeKeywords
		}
		if p.IncludeSentiment != nil {
			prefs.IncludeSentiment = *p.IncludeSentiment
		}
		if p.IncludeTopics != nil {
			prefs.IncludeTopics = *p.IncludeTopics
		}
		if p.IncludeReadingTime != nil {
			prefs.IncludeReadingTime = *p.IncludeReadingTime
		}
		prefs.Language = p.Language
	}

	return domain.AnalysisRequest{
		URL:         r.URL,
		Title:       r.Title,
		Description: r.Description,
		Content:     r.Content,
		HTML:        r.HTML,
		UserID:      r.UserID,
		Preferences: prefs,
	}
}

// TagOptionsRequest configures tag generation. Every recognized option
// has a documented default; unrecognized JSON fields are dropped.
type TagOptionsRequest struct {
	MaxTags            int      `json:"maxTags" validate:"omitempty,min=1,max=20"`
	MinConfidence      *float64 `json:"minConfidence" validate:"omitempty"`
	IncludeAITags      *bool    `json:"includeAiTags"`
	IncludeContentTags *bool    `json:"includeContentTags"`
	IncludeURLTags     *bool    `json:"includeUrlTags"`
}

// ToDomain converts TagOptionsRequest to domain.TagOptions. MaxTags and
// MinConfidence stay zero when the request omits them; the tagging service
// fills those from its configured defaults.
func (r *TagOptionsRequest) ToDomain() domain.TagOptions {
	opts := domain.TagOptions{
		IncludeAITags:      true,
		IncludeContentTags: true,
		IncludeURLTags:     true,
	}
	if r == nil {
		return opts
	}

	if r.MaxTags > 0 {
		opts.MaxTags = r.MaxTags
	}
	if r.MinConfidence != nil && *r.MinConfidence > 0 && *r.MinConfidence <= 1 {
		opts.MinConfidence = *r.MinConfidence
	}
	if r.IncludeAITags != nil {
		opts.IncludeAITags = *r.IncludeAITags
	}
	if r.IncludeContentTags != nil {
		opts.IncludeContentTags = *r.IncludeContentTags
	}
	if r.IncludeURLTags != nil {
		opts.IncludeURLTags = *r.IncludeURLTags
	}

	return opts
}

// GenerateTagsRequest is the body of POST /api/v1/tags/generate and /quick.
type GenerateTagsRequest struct {
	Title       string             `json:"title" validate:"omitempty,max=500"`
	URL         string             `json:"url" validate:"required,max=2048"`
	Content     string             `json:"content" validate:"omitempty,max=200000"`
	Description string             `json:"description" validate:"omitempty,max=2000"`
	Options     *TagOptionsRequest `json:"options" validate:"omitempty"`
}

// ToDomain converts GenerateTagsRequest to domain.TagRequest.
func (r *GenerateTagsRequest) ToDomain() domain.TagRequest {
	return domain.TagRequest{
		Title:       r.Title,
		URL:         r.URL,
		Content:     r.Content,
		Description: r.Description,
	}
}

// BatchBookmark is one entry of a batch tagging request.
type BatchBookmark struct {
	ID          string `json:"id" validate:"required,max=100"`
	Title       string `json:"title" validate:"omitempty,max=500"`
	URL         string `json:"url" validate:"omitempty,max=2048"`
	Content     string `json:"content" validate:"omitempty,max=200000"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

// BatchTagsRequest is the body of POST /api/v1/tags/batch.
// Per-item URL problems are reported per item, not rejected here.
type BatchTagsRequest struct {
	Bookmarks []BatchBookmark    `json:"bookmarks" validate:"required,min=1,max=100,dive"`
	Options   *TagOptionsRequest `json:"options" validate:"omitempty"`
}

// ToItems converts the request bookmarks into service batch items.
func (r *BatchTagsRequest) ToItems() []service.BatchItem {
	items := make([]service.BatchItem, len(r.Bookmarks))
	for i, b := range r.Bookmarks {
		items[i] = service.BatchItem{
			ID:          b.ID,
			Title:       b.Title,
			URL:         b.URL,
			Content:     b.Content,
			Description: b.Description,
		}
	}

	return items
}

// AnalyticsBookmark is one already-tagged bookmark in an analytics request.
type AnalyticsBookmark struct {
	ID          string   `json:"id" validate:"required,max=100"`
	Tags        []string `json:"tags"`
	Title       string   `json:"title" validate:"omitempty,max=500"`
	URL         string   `json:"url" validate:"omitempty,max=2048"`
	Content     string   `json:"content" validate:"omitempty,max=200000"`
	Description string   `json:"description" validate:"omitempty,max=2000"`
}

// TagAnalyticsRequest is the body of POST /api/v1/tags/analytics.
type TagAnalyticsRequest struct {
	Bookmarks []AnalyticsBookmark `json:"bookmarks" validate:"required,min=1,dive"`
	Action    string              `json:"action" validate:"required,oneof=analyze cluster improve"`
	Threshold float64             `json:"threshold" validate:"omitempty,gt=0,lte=1"`
	Options   *TagOptionsRequest  `json:"options" validate:"omitempty"`
}

// ToRecords converts the request bookmarks into domain analytics records.
func (r *TagAnalyticsRequest) ToRecords() []domain.BookmarkTags {
	records := make([]domain.BookmarkTags, len(r.Bookmarks))
	for i, b := range r.Bookmarks {
		records[i] = domain.BookmarkTags{ID: b.ID, Tags: b.Tags}
	}

	return records
}

// ExtractRequest holds the query parameters of GET /api/v1/extract.
type ExtractRequest struct {
	URL string `query:"url" validate:"required,public_url,max=2048"`
}
