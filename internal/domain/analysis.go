// Package domain contains the core business logic and entities.
// This package has no external dependencies (only stdlib).
package domain

import "strings"

// Sentiment represents the overall tone of a page.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Complexity represents the target audience level of a page.
type Complexity string

const (
	ComplexityBeginner     Complexity = "beginner"
	ComplexityIntermediate Complexity = "intermediate"
	ComplexityAdvanced     Complexity = "advanced"
)

// ContentType classifies what kind of resource a URL points at.
type ContentType string

const (
	ContentTypeArticle       ContentType = "article"
	ContentTypeVideo         ContentType = "video"
	ContentTypeTool          ContentType = "tool"
	ContentTypeDocumentation ContentType = "documentation"
	ContentTypeSocial        ContentType = "social"
	ContentTypeOther         ContentType = "other"
)

// Category is the closed set of bookmark categories.
type Category string

const (
	CategoryTechnology    Category = "technology"
	CategoryProgramming   Category = "programming"
	CategoryBusiness      Category = "business"
	CategoryScience       Category = "science"
	CategoryHealth        Category = "health"
	CategoryEducation     Category = "education"
	CategoryEntertainment Category = "entertainment"
	CategoryNews          Category = "news"
	CategoryFinance       Category = "finance"
	CategoryLifestyle     Category = "lifestyle"
	CategoryTravel        Category = "travel"
	CategorySports        Category = "sports"
	CategoryOther         Category = "other"
)

// ResultSource marks which pipeline produced an analysis result.
// The external JSON shape is identical for both; callers use this
// to distinguish confidence tiers.
type ResultSource string

const (
	SourceAI        ResultSource = "ai"
	SourceHeuristic ResultSource = "heuristic"
)

// AnalysisRequest is the input to content analysis. Immutable once constructed.
type AnalysisRequest struct {
	URL         string
	Title       string
	Description string
	Content     string // pre-extracted body text, skips the fetch when set
	HTML        string // raw markup, parsed instead of fetching when set
	UserID      string // opaque caller identity, not interpreted here
	Preferences AnalysisPreferences
}

// AnalysisPreferences toggles optional analysis sections. Disabled sections
// stay present in the result with neutral defaults; they are never removed.
type AnalysisPreferences struct {
	Depth              string // basic, standard, deep
	IncludeKeywords    bool
	IncludeSentiment   bool
	IncludeTopics      bool
	IncludeReadingTime bool
	Language           string // target language hint, ISO code
}

// DefaultPreferences returns preferences with every section enabled.
func DefaultPreferences() AnalysisPreferences {
	return AnalysisPreferences{
		Depth:              "standard",
		IncludeKeywords:    true,
		IncludeSentiment:   true,
		IncludeTopics:      true,
		IncludeReadingTime: true,
	}
}

// Validate checks the request's required fields and the URL safety policy.
func (r *AnalysisRequest) Validate() error {
	if r.UserID == "" {
		return ErrInvalidRequest
	}

	return CheckURL(r.URL)
}

// AnalysisResult is the output of content analysis. Every field is always
// present and type-correct, even when the AI backend omits or mangles it.
type AnalysisResult struct {
	Summary         string      `json:"summary"`
	Tags            []string    `json:"tags"`
	Category        Category    `json:"category"`
	Topics          []string    `json:"topics"`
	Sentiment       Sentiment   `json:"sentiment"`
	ReadingTime     int         `json:"readingTime"` // minutes, >= 0
	Complexity      Complexity  `json:"complexity"`
	QualityScore    int         `json:"qualityScore"` // 0-10
	KeyPoints       []string    `json:"keyPoints"`
	RelatedKeywords []string    `json:"relatedKeywords"`
	ContentType     ContentType `json:"contentType"`
	Language        string      `json:"language"`
	Source          ResultSource `json:"source"`
}

// NewAnalysisResult returns a result with every field set to its
// documented default.
func NewAnalysisResult() *AnalysisResult {
	return &AnalysisResult{
		Summary:         "",
		Tags:            []string{},
		Category:        CategoryOther,
		Topics:          []string{},
		Sentiment:       SentimentNeutral,
		ReadingTime:     0,
		Complexity:      ComplexityIntermediate,
		QualityScore:    5,
		KeyPoints:       []string{},
		RelatedKeywords: []string{},
		ContentType:     ContentTypeOther,
		Language:        "en",
		Source:          SourceHeuristic,
	}
}

// ApplyPreferences resets disabled sections to neutral defaults.
// The result shape never changes, only the values.
func (r *AnalysisResult) ApplyPreferences(p AnalysisPreferences) {
	if !p.IncludeKeywords {
		r.RelatedKeywords = []string{}
	}
	if !p.IncludeSentiment {
		r.Sentiment = SentimentNeutral
	}
	if !p.IncludeTopics {
		r.Topics = []string{}
	}
	if !p.IncludeReadingTime {
		r.ReadingTime = 0
	}
}

// ParseCategory maps an arbitrary string into the closed category set,
// falling back to "other" for unknown values.
func ParseCategory(s string) Category {
	switch Category(normalizeEnum(s)) {
	case CategoryTechnology, CategoryProgramming, CategoryBusiness, CategoryScience,
		CategoryHealth, CategoryEducation, CategoryEntertainment, CategoryNews,
		CategoryFinance, CategoryLifestyle, CategoryTravel, CategorySports:
		return Category(normalizeEnum(s))
	default:
		return CategoryOther
	}
}

// ParseSentiment maps an arbitrary string into the sentiment set,
// falling back to neutral.
func ParseSentiment(s string) Sentiment {
	switch Sentiment(normalizeEnum(s)) {
	case SentimentPositive, SentimentNegative:
		return Sentiment(normalizeEnum(s))
	default:
		return SentimentNeutral
	}
}

// ParseComplexity maps an arbitrary string into the complexity set,
// falling back to intermediate.
func ParseComplexity(s string) Complexity {
	switch Complexity(normalizeEnum(s)) {
	case ComplexityBeginner, ComplexityAdvanced:
		return Complexity(normalizeEnum(s))
	default:
		return ComplexityIntermediate
	}
}

// ParseContentType maps an arbitrary string into the content type set,
// falling back to "other".
func ParseContentType(s string) ContentType {
	switch ContentType(normalizeEnum(s)) {
	case ContentTypeArticle, ContentTypeVideo, ContentTypeTool,
		ContentTypeDocumentation, ContentTypeSocial:
		return ContentType(normalizeEnum(s))
	default:
		return ContentTypeOther
	}
}

// normalizeEnum lowercases and trims a value coming back from the AI
// backend before matching it against a closed enum.
func normalizeEnum(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ClampQuality bounds a quality score to the documented 0-10 range.
func ClampQuality(score int) int {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}

	return score
}
