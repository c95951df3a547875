package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"content-intel-service/internal/domain"
)

// fakeExtractor returns canned content or an error.
type fakeExtractor struct {
	content  *domain.ExtractedContent
	err      error
	extracts int
}

func (f *fakeExtractor) Extract(_ context.Context, rawURL string, _ domain.ExtractOptions) (*domain.ExtractedContent, error) {
	f.extracts++
	if f.err != nil {
		return nil, f.err
	}

	c := *f.content
	c.URL = rawURL

	return &c, nil
}

func (f *fakeExtractor) Parse(rawURL string, _ string, _ domain.ExtractOptions) (*domain.ExtractedContent, error) {
	if f.err != nil {
		return nil, f.err
	}

	c := *f.content
	c.URL = rawURL

	return &c, nil
}

// fakeCompleter returns a canned raw payload or an error.
type fakeCompleter struct {
	raw   string
	err   error
	calls int
	last  domain.CompletionRequest
}

func (f *fakeCompleter) Complete(_ context.Context, req domain.CompletionRequest) (json.RawMessage, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return nil, f.err
	}

	return json.RawMessage(f.raw), nil
}

// fakeCache is an in-memory domain.Cache.
type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.data[key], nil
}

func (f *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value

	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)

	return nil
}

func (f *fakeCache) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data = make(map[string][]byte)

	return nil
}

func articleContent() *domain.ExtractedContent {
	return &domain.ExtractedContent{
		Title:       "Concurrent Pipelines in Go",
		Description: "Fan-out patterns with channels.",
		BodyText:    strings.Repeat("pipeline stages own their channels ", 120),
		WordCount:   600,
		Language:    "en",
	}
}

const aiAnalysisPayload = `{
	"summary": "A guide to pipeline concurrency in Go.",
	"tags": ["go", "concurrency"],
	"category": "programming",
	"topics": ["channels", "worker pools"],
	"sentiment": "positive",
	"readingTime": 4,
	"complexity": "advanced",
	"qualityScore": 9,
	"keyPoints": ["close channels from the sender"],
	"relatedKeywords": ["golang", "parallelism"],
	"contentType": "article",
	"language": "en"
}`

func validRequest() domain.AnalysisRequest {
	return domain.AnalysisRequest{
		URL:         "https://blog.example.com/posts/go-pipelines",
		UserID:      "user-1",
		Preferences: domain.DefaultPreferences(),
	}
}

// TestAnalyze_AIResult tests the happy path with a live AI backend.
func TestAnalyze_AIResult(t *testing.T) {
	extractor := &fakeExtractor{content: articleContent()}
	completer := &fakeCompleter{raw: aiAnalysisPayload}
	svc := NewAnalysisService(extractor, completer, nil, AnalysisConfig{Model: "test-model"}, zap.NewNop())

	result, err := svc.Analyze(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, domain.SourceAI, result.Source)
	assert.Equal(t, "A guide to pipeline concurrency in Go.", result.Summary)
	assert.Equal(t, domain.CategoryProgramming, result.Category)
	assert.Equal(t, domain.SentimentPositive, result.Sentiment)
	assert.Equal(t, domain.ComplexityAdvanced, result.Complexity)
	assert.Equal(t, 9, result.QualityScore)
	assert.Equal(t, 4, result.ReadingTime)
	assert.Equal(t, []string{"go", "concurrency"}, result.Tags)
	assert.Equal(t, 1, completer.calls)
	assert.True(t, completer.last.JSONMode)
}

// TestAnalyze_HeuristicFallback tests degradation when the AI backend is down.
func TestAnalyze_HeuristicFallback(t *testing.T) {
	extractor := &fakeExtractor{content: articleContent()}
	completer := &fakeCompleter{err: domain.ErrAITimeout}
	svc := NewAnalysisService(extractor, completer, nil, AnalysisConfig{}, zap.NewNop())

	result, err := svc.Analyze(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, domain.SourceHeuristic, result.Source)
	// 600 words: reading time 3 minutes, quality tier 6.
	assert.Equal(t, 3, result.ReadingTime)
	assert.Equal(t, 6, result.QualityScore)
	assert.Equal(t, "Fan-out patterns with channels.", result.Summary)
	assert.Equal(t, domain.ContentTypeArticle, result.ContentType)
}

// TestAnalyze_NoCompleter tests heuristics-only operation with no AI configured.
func TestAnalyze_NoCompleter(t *testing.T) {
	extractor := &fakeExtractor{content: articleContent()}
	svc := NewAnalysisService(extractor, nil, nil, AnalysisConfig{}, zap.NewNop())

	result, err := svc.Analyze(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, domain.SourceHeuristic, result.Source)
}

// TestAnalyze_InvalidRequest tests that validation errors propagate.
func TestAnalyze_InvalidRequest(t *testing.T) {
	extractor := &fakeExtractor{content: articleContent()}
	svc := NewAnalysisService(extractor, nil, nil, AnalysisConfig{}, zap.NewNop())

	tests := []struct {
		name    string
		req     domain.AnalysisRequest
		wantErr error
	}{
		{
			name:    "missing user",
			req:     domain.AnalysisRequest{URL: "https://example.com"},
			wantErr: domain.ErrInvalidRequest,
		},
		{
			name:    "unsafe url",
			req:     domain.AnalysisRequest{URL: "http://127.0.0.1/", UserID: "user-1"},
			wantErr: domain.ErrUnsafeURL,
		},
		{
			name:    "malformed url",
			req:     domain.AnalysisRequest{URL: "", UserID: "user-1"},
			wantErr: domain.ErrMalformedURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Analyze(context.Background(), tt.req)

			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, result)
			assert.Equal(t, 0, extractor.extracts)
		})
	}
}

// TestAnalyze_SuppliedContentSkipsFetch tests that caller-supplied body text
// bypasses the extractor entirely.
func TestAnalyze_SuppliedContentSkipsFetch(t *testing.T) {
	extractor := &fakeExtractor{content: articleContent()}
	svc := NewAnalysisService(extractor, nil, nil, AnalysisConfig{}, zap.NewNop())

	req := validRequest()
	req.Title = "My Notes"
	req.Content = strings.Repeat("note ", 250)

	result, err := svc.Analyze(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 0, extractor.extracts)
	assert.Equal(t, 1, result.ReadingTime) // 250 words
	assert.Equal(t, 5, result.QualityScore)
}

// TestAnalyze_MalformedAIPayload tests that unusable AI fields keep their
// heuristic values instead of zeroing the result.
func TestAnalyze_MalformedAIPayload(t *testing.T) {
	extractor := &fakeExtractor{content: articleContent()}
	completer := &fakeCompleter{raw: `{
		"summary": 42,
		"category": "astrology",
		"qualityScore": "not a number",
		"sentiment": "positive"
	}`}
	svc := NewAnalysisService(extractor, completer, nil, AnalysisConfig{}, zap.NewNop())

	result, err := svc.Analyze(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, domain.SourceAI, result.Source)
	assert.Equal(t, domain.CategoryOther, result.Category) // unknown value falls back
	assert.Equal(t, domain.SentimentPositive, result.Sentiment)
	assert.Equal(t, 6, result.QualityScore) // heuristic tier survives
	// Non-string summary is ignored; heuristic summary survives.
	assert.Equal(t, "Fan-out patterns with channels.", result.Summary)
}

// TestAnalyze_Preferences tests that disabled sections are reset to neutral.
func TestAnalyze_Preferences(t *testing.T) {
	extractor := &fakeExtractor{content: articleContent()}
	completer := &fakeCompleter{raw: aiAnalysisPayload}
	svc := NewAnalysisService(extractor, completer, nil, AnalysisConfig{}, zap.NewNop())

	req := validRequest()
	req.Preferences = domain.AnalysisPreferences{
		Depth:              "basic",
		IncludeKeywords:    false,
		IncludeSentiment:   false,
		IncludeTopics:      true,
		IncludeReadingTime: true,
	}

	result, err := svc.Analyze(context.Background(), req)

	require.NoError(t, err)
	assert.Empty(t, result.RelatedKeywords)
	assert.Equal(t, domain.SentimentNeutral, result.Sentiment)
	assert.Equal(t, []string{"channels", "worker pools"}, result.Topics)
	assert.Equal(t, 4, result.ReadingTime)
}

// TestAnalyze_CachesAIResults tests that AI results are cached and reused.
func TestAnalyze_CachesAIResults(t *testing.T) {
	extractor := &fakeExtractor{content: articleContent()}
	completer := &fakeCompleter{raw: aiAnalysisPayload}
	cache := newFakeCache()
	svc := NewAnalysisService(extractor, completer, cache, AnalysisConfig{CacheTTL: time.Hour}, zap.NewNop())

	first, err := svc.Analyze(context.Background(), validRequest())
	require.NoError(t, err)

	second, err := svc.Analyze(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, completer.calls)
	assert.Equal(t, 1, extractor.extracts)
	assert.Equal(t, first.Summary, second.Summary)
}

// TestAnalyze_HeuristicResultsNotCached tests that degraded results are
// recomputed so later calls can pick up a recovered backend.
func TestAnalyze_HeuristicResultsNotCached(t *testing.T) {
	extractor := &fakeExtractor{content: articleContent()}
	completer := &fakeCompleter{err: errors.New("backend down")}
	cache := newFakeCache()
	svc := NewAnalysisService(extractor, completer, cache, AnalysisConfig{CacheTTL: time.Hour}, zap.NewNop())

	_, err := svc.Analyze(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Empty(t, cache.data)

	_, err = svc.Analyze(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, completer.calls)
}

// TestAnalyze_SuppliedContentBypassesCache tests that requests carrying
// their own content never read or write the cache.
func TestAnalyze_SuppliedContentBypassesCache(t *testing.T) {
	extractor := &fakeExtractor{content: articleContent()}
	completer := &fakeCompleter{raw: aiAnalysisPayload}
	cache := newFakeCache()
	svc := NewAnalysisService(extractor, completer, cache, AnalysisConfig{CacheTTL: time.Hour}, zap.NewNop())

	req := validRequest()
	req.Content = "caller supplied body"

	_, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, cache.data)
}

func TestGuessContentType(t *testing.T) {
	tests := []struct {
		url      string
		expected domain.ContentType
	}{
		{"https://www.youtube.com/watch?v=abc", domain.ContentTypeVideo},
		{"https://vimeo.com/12345", domain.ContentTypeVideo},
		{"https://github.com/user/repo", domain.ContentTypeTool},
		{"https://docs.python.org/3/", domain.ContentTypeDocumentation},
		{"https://example.com/docs/setup", domain.ContentTypeDocumentation},
		{"https://twitter.com/someone/status/1", domain.ContentTypeSocial},
		{"https://reddit.com/r/golang", domain.ContentTypeSocial},
		{"https://blog.example.com/post", domain.ContentTypeArticle},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, guessContentType(tt.url))
		})
	}
}

// TestAnalyze_EmptyAIPayload tests that a payload contributing no usable
// fields keeps the heuristic label and stays out of the cache.
func TestAnalyze_EmptyAIPayload(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"valid json but not an object", `[]`},
		{"empty object", `{}`},
		{"object with only junk fields", `{"summary": 42, "unknown": true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := &fakeExtractor{content: articleContent()}
			completer := &fakeCompleter{raw: tt.raw}
			cache := newFakeCache()
			svc := NewAnalysisService(extractor, completer, cache, AnalysisConfig{}, zap.NewNop())

			result, err := svc.Analyze(context.Background(), validRequest())

			require.NoError(t, err)
			assert.Equal(t, domain.SourceHeuristic, result.Source)
			assert.Equal(t, 1, completer.calls)
			assert.Empty(t, cache.data, "a heuristic-labeled result must not be cached")
		})
	}
}
