// Package service provides application use cases.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"content-intel-service/internal/domain"
)

// AnalysisConfig holds content-analysis settings.
type AnalysisConfig struct {
	Model        string
	MaxTokens    int
	MaxBodyWords int
	CacheTTL     time.Duration
}

// AnalysisService orchestrates extraction and AI analysis into a
// ContentAnalysisResult. It never fails solely because the AI backend is
// unavailable; in that case the result is derived from heuristics alone.
type AnalysisService struct {
	extractor domain.Extractor
	completer domain.Completer
	cache     domain.Cache // nil when caching is disabled
	cfg       AnalysisConfig
	logger    *zap.Logger
}

// NewAnalysisService creates a new AnalysisService. cache may be nil.
func NewAnalysisService(
	extractor domain.Extractor,
	completer domain.Completer,
	cache domain.Cache,
	cfg AnalysisConfig,
	logger *zap.Logger,
) *AnalysisService {
	if cfg.MaxBodyWords <= 0 {
		cfg.MaxBodyWords = domain.DefaultExtractOptions().MaxBodyWords
	}

	return &AnalysisService{
		extractor: extractor,
		completer: completer,
		cache:     cache,
		cfg:       cfg,
		logger:    logger,
	}
}

// Analyze runs the full content-analysis pipeline for one request.
//
// Validation errors (bad URL, missing user) propagate; upstream failures
// degrade: a dead page analyzes its fallback metadata, a dead AI backend
// yields a heuristic-only result with Source set accordingly.
func (s *AnalysisService) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if cached := s.cachedResult(ctx, req); cached != nil {
		return cached, nil
	}

	extracted, err := s.gather(ctx, req)
	if err != nil {
		return nil, err
	}

	result := s.heuristicResult(req, extracted)

	if s.completer != nil {
		if aiResult := s.aiAnalyze(ctx, extracted, result); aiResult != nil {
			result = aiResult
		}
	}

	result.ApplyPreferences(req.Preferences)
	s.storeResult(ctx, req, result)

	s.logger.Debug("analysis completed",
		zap.String("url", req.URL),
		zap.String("source", string(result.Source)),
		zap.String("category", string(result.Category)),
		zap.Int("tags", len(result.Tags)),
	)

	return result, nil
}

// gather resolves the extracted content: caller-supplied body text wins,
// then caller-supplied HTML, then a bounded network fetch.
func (s *AnalysisService) gather(ctx context.Context, req domain.AnalysisRequest) (*domain.ExtractedContent, error) {
	// MaxBytes stays zero so the extractor's configured cap governs.
	opts := domain.ExtractOptions{MaxBodyWords: s.cfg.MaxBodyWords}

	if req.Content != "" {
		words := strings.Fields(req.Content)
		body := req.Content
		if len(words) > opts.MaxBodyWords {
			body = strings.Join(words[:opts.MaxBodyWords], " ")
		}

		return &domain.ExtractedContent{
			Title:       req.Title,
			Description: req.Description,
			BodyText:    body,
			WordCount:   len(words),
			URL:         req.URL,
		}, nil
	}

	if req.HTML != "" {
		extracted, err := s.extractor.Parse(req.URL, req.HTML, opts)
		if err != nil {
			return nil, err
		}
		if req.Title != "" {
			extracted.Title = req.Title
		}

		return extracted, nil
	}

	return s.extractor.Extract(ctx, req.URL, opts)
}

// aiAnalyze asks the AI backend for a structured analysis and coerces the
// response over the heuristic base. Returns nil when the backend cannot
// produce usable output, leaving the heuristic result in place.
func (s *AnalysisService) aiAnalyze(ctx context.Context, extracted *domain.ExtractedContent, base *domain.AnalysisResult) *domain.AnalysisResult {
	raw, err := s.completer.Complete(ctx, domain.CompletionRequest{
		Model:     s.cfg.Model,
		MaxTokens: s.cfg.MaxTokens,
		JSONMode:  true,
		Messages: []domain.Message{
			{Role: "system", Content: analysisSystemPrompt},
			{Role: "user", Content: analysisUserPrompt(
				extracted.Title, extracted.Description, extracted.BodyText, s.cfg.MaxBodyWords,
			)},
		},
	})
	if err != nil {
		s.logger.Warn("ai analysis unavailable, keeping heuristic result",
			zap.String("url", extracted.URL),
			zap.Error(err),
		)

		return nil
	}

	result := *base
	if !coerceAnalysis(raw, &result) {
		s.logger.Warn("ai response carried no usable fields, keeping heuristic result",
			zap.String("url", extracted.URL),
		)

		return nil
	}
	result.Source = domain.SourceAI

	// Reading time from the backend is advisory; an absent or zero value
	// falls back to the word-count estimate already in the base.
	if result.ReadingTime == 0 {
		result.ReadingTime = base.ReadingTime
	}

	return &result
}

// heuristicResult builds an analysis from extracted signals alone.
func (s *AnalysisService) heuristicResult(req domain.AnalysisRequest, extracted *domain.ExtractedContent) *domain.AnalysisResult {
	result := domain.NewAnalysisResult()
	result.Source = domain.SourceHeuristic
	result.ReadingTime = domain.ReadingTimeFromWords(extracted.WordCount)
	result.QualityScore = domain.HeuristicQualityScore(extracted.WordCount)
	result.ContentType = guessContentType(req.URL)

	if extracted.Description != "" {
		result.Summary = truncateString(extracted.Description, maxSummaryLength)
	} else if extracted.BodyText != "" {
		result.Summary = truncateString(extracted.BodyText, 200)
	}

	if extracted.Language != "" {
		result.Language = extracted.Language
	}
	if req.Preferences.Language != "" {
		result.Language = req.Preferences.Language
	}

	return result
}

// guessContentType infers the resource kind from well-known hosts and
// path markers. Everything unrecognized is an article when it has a path,
// otherwise other.
func guessContentType(rawURL string) domain.ContentType {
	u := strings.ToLower(rawURL)

	switch {
	case strings.Contains(u, "youtube.com") || strings.Contains(u, "vimeo.com") || strings.Contains(u, "youtu.be"):
		return domain.ContentTypeVideo
	case strings.Contains(u, "github.com") || strings.Contains(u, "gitlab.com"):
		return domain.ContentTypeTool
	case strings.Contains(u, "/docs/") || strings.Contains(u, "docs."):
		return domain.ContentTypeDocumentation
	case strings.Contains(u, "twitter.com") || strings.Contains(u, "x.com/") || strings.Contains(u, "reddit.com"):
		return domain.ContentTypeSocial
	default:
		return domain.ContentTypeArticle
	}
}

// cachedResult returns a previously stored result for an identical request,
// or nil. Requests carrying caller-supplied content bypass the cache since
// the same URL may arrive with different bodies.
func (s *AnalysisService) cachedResult(ctx context.Context, req domain.AnalysisRequest) *domain.AnalysisResult {
	if s.cache == nil || req.Content != "" || req.HTML != "" {
		return nil
	}

	data, err := s.cache.Get(ctx, analysisCacheKey(req))
	if err != nil || data == nil {
		return nil
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}

	s.logger.Debug("analysis cache hit", zap.String("url", req.URL))

	return &result
}

func (s *AnalysisService) storeResult(ctx context.Context, req domain.AnalysisRequest, result *domain.AnalysisResult) {
	if s.cache == nil || req.Content != "" || req.HTML != "" {
		return
	}

	// Heuristic-only results are not cached; the AI backend may recover
	// before the TTL expires.
	if result.Source != domain.SourceAI {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, analysisCacheKey(req), data, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("analysis cache store failed", zap.String("url", req.URL), zap.Error(err))
	}
}

// analysisCacheKey hashes the URL and preference toggles.
func analysisCacheKey(req domain.AnalysisRequest) string {
	h := sha256.New()
	h.Write([]byte(req.URL))
	prefs, _ := json.Marshal(req.Preferences)
	h.Write(prefs)

	return "analysis:" + hex.EncodeToString(h.Sum(nil))[:32]
}
