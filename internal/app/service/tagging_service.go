package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"content-intel-service/internal/domain"
)

// MaxBatchSize caps how many bookmarks one batch call may carry.
const MaxBatchSize = 100

// maxKeywordCandidates bounds the content-heuristic source.
const maxKeywordCandidates = 10

// TaggingConfig holds tag-generation settings. MaxTags and MinConfidence
// are the operator defaults used when a request leaves them unset.
type TaggingConfig struct {
	Model         string
	MaxTokens     int
	MaxBodyWords  int
	MaxTags       int
	MinConfidence float64
}

// TaggingService generates tags from three failure-isolated sources:
// the AI backend, content keyword heuristics, and URL token heuristics.
// A source failing produces an empty candidate list, never a call failure.
type TaggingService struct {
	completer domain.Completer
	cfg       TaggingConfig
	logger    *zap.Logger
}

// NewTaggingService creates a new TaggingService. completer may be nil,
// in which case only heuristic sources run.
func NewTaggingService(completer domain.Completer, cfg TaggingConfig, logger *zap.Logger) *TaggingService {
	if cfg.MaxBodyWords <= 0 {
		cfg.MaxBodyWords = 1500
	}

	return &TaggingService{
		completer: completer,
		cfg:       cfg,
		logger:    logger,
	}
}

// GenerateTags runs collect -> merge -> validate -> rank -> truncate.
// The enabled sources run concurrently; one source's failure does not
// cancel the others. Only input validation can fail this call.
//
// Options the request leaves unset are filled from the configured
// defaults first, and only then from the documented fallbacks.
func (s *TaggingService) GenerateTags(ctx context.Context, req domain.TagRequest, opts domain.TagOptions) ([]domain.Tag, error) {
	if opts.MaxTags <= 0 {
		opts.MaxTags = s.cfg.MaxTags
	}
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = s.cfg.MinConfidence
	}
	opts.Normalize()

	if err := domain.CheckURL(req.URL); err != nil {
		return nil, err
	}

	sources := s.collect(ctx, req, opts)

	merged := domain.MergeCandidates(sources)
	merged = domain.MergeSimilarTags(merged)
	ranked := domain.RankTags(merged, opts.MinConfidence, opts.MaxTags)

	s.logger.Debug("tags generated",
		zap.String("url", req.URL),
		zap.Int("candidates", len(sources)),
		zap.Int("returned", len(ranked)),
	)

	return ranked, nil
}

// GenerateQuickTags is the fast path: heuristic sources only, no AI call.
func (s *TaggingService) GenerateQuickTags(ctx context.Context, req domain.TagRequest, opts domain.TagOptions) ([]domain.Tag, error) {
	opts.IncludeAITags = false

	return s.GenerateTags(ctx, req, opts)
}

// collect fans out to the enabled candidate sources and waits for all of
// them. Source errors are logged and swallowed (failure isolation).
func (s *TaggingService) collect(ctx context.Context, req domain.TagRequest, opts domain.TagOptions) []domain.TagCandidate {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []domain.TagCandidate
	)

	add := func(candidates []domain.TagCandidate) {
		mu.Lock()
		results = append(results, candidates...)
		mu.Unlock()
	}

	if opts.IncludeAITags && s.completer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			add(s.aiCandidates(ctx, req))
		}()
	}

	if opts.IncludeContentTags {
		wg.Add(1)
		go func() {
			defer wg.Done()
			text := req.Title + " " + req.Description + " " + truncateWords(req.Content, s.cfg.MaxBodyWords)
			add(domain.ExtractKeywords(text, maxKeywordCandidates))
		}()
	}

	if opts.IncludeURLTags {
		wg.Add(1)
		go func() {
			defer wg.Done()
			add(domain.URLTagCandidates(req.URL))
		}()
	}

	wg.Wait()

	return results
}

// aiCandidates asks the AI backend for tag suggestions. Any failure
// yields an empty list so the heuristic sources still produce output.
func (s *TaggingService) aiCandidates(ctx context.Context, req domain.TagRequest) []domain.TagCandidate {
	raw, err := s.completer.Complete(ctx, domain.CompletionRequest{
		Model:     s.cfg.Model,
		MaxTokens: s.cfg.MaxTokens,
		JSONMode:  true,
		Messages: []domain.Message{
			{Role: "system", Content: taggingSystemPrompt},
			{Role: "user", Content: taggingUserPrompt(
				req.Title, req.URL, req.Description, req.Content, s.cfg.MaxBodyWords,
			)},
		},
	})
	if err != nil {
		s.logger.Warn("ai tag source unavailable, continuing with heuristics",
			zap.String("url", req.URL),
			zap.Error(err),
		)

		return nil
	}

	return coerceTagCandidates(raw)
}

// BatchItem is one bookmark in a batch tagging request.
type BatchItem struct {
	ID          string
	Title       string
	URL         string
	Content     string
	Description string
}

// BatchItemResult carries one bookmark's outcome. Err is set when that
// item failed; the rest of the batch is unaffected.
type BatchItemResult struct {
	ID   string
	Tags []domain.Tag
	Err  error
}

// GenerateBatch tags up to MaxBatchSize bookmarks concurrently with
// per-item failure capture. The batch as a whole only fails on oversize
// input or a cancelled context.
func (s *TaggingService) GenerateBatch(ctx context.Context, items []BatchItem, opts domain.TagOptions) ([]BatchItemResult, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: empty batch", domain.ErrInvalidInput)
	}
	if len(items) > MaxBatchSize {
		return nil, fmt.Errorf("%w: batch size %d exceeds limit %d", domain.ErrInvalidInput, len(items), MaxBatchSize)
	}

	results := make([]BatchItemResult, len(items))
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		go func(idx int, it BatchItem) {
			defer wg.Done()
			results[idx] = s.tagOne(ctx, it, opts)
		}(i, item)
	}

	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	s.logger.Info("batch tagging completed",
		zap.Int("items", len(items)),
		zap.Int("failed", failed),
	)

	return results, ctx.Err()
}

func (s *TaggingService) tagOne(ctx context.Context, item BatchItem, opts domain.TagOptions) BatchItemResult {
	result := BatchItemResult{ID: item.ID}

	if item.URL == "" {
		result.Err = fmt.Errorf("%w: bookmark %q has no url", domain.ErrInvalidInput, item.ID)

		return result
	}

	tags, err := s.GenerateTags(ctx, domain.TagRequest{
		Title:       item.Title,
		URL:         item.URL,
		Content:     item.Content,
		Description: item.Description,
	}, opts)
	if err != nil {
		result.Err = err

		return result
	}

	result.Tags = tags

	return result
}
