package domain

import (
	"context"
	"encoding/json"
	"time"
)

// ExtractedContent is the intermediate produced by the content extractor.
// It exists per extraction call and is folded into an analysis request.
type ExtractedContent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	BodyText    string `json:"bodyText"` // truncated to the analysis window
	WordCount   int    `json:"wordCount"`
	URL         string `json:"url"` // final URL after redirects
	Language    string `json:"language,omitempty"`
	Fallback    bool   `json:"fallback"` // true when the fetch failed and only host metadata is available
}

// ExtractOptions bounds a single extraction call.
type ExtractOptions struct {
	Timeout       time.Duration
	MaxBytes      int64
	MaxBodyWords  int
	IncludeImages bool
	IncludeLinks  bool
}

// DefaultExtractOptions returns the documented extraction bounds.
func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{
		Timeout:      8 * time.Second,
		MaxBytes:     2 << 20, // 2MB
		MaxBodyWords: 3000,
	}
}

// Extractor fetches and parses a page into structured signals.
// Implementations: internal/infra/extractor
type Extractor interface {
	// Extract fetches url within the given bounds. On unreachable pages it
	// returns best-effort fallback content rather than an error; hard errors
	// are reserved for cancelled contexts and unusable input.
	Extract(ctx context.Context, url string, opts ExtractOptions) (*ExtractedContent, error)

	// Parse extracts signals from caller-supplied raw HTML without fetching.
	Parse(url string, html string, opts ExtractOptions) (*ExtractedContent, error)
}

// Message is one turn of a chat-completion conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the generic chat-completion contract. The core is
// agnostic to which backend serves it as long as JSON mode is supported.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	JSONMode    bool
}

// Completer wraps a single chat-completion call.
// Implementations: internal/infra/ai
type Completer interface {
	// Complete returns the assistant message content. In JSON mode the
	// content is validated to be parseable JSON; ErrMalformedResponse is
	// returned otherwise so callers can fall back to heuristics.
	Complete(ctx context.Context, req CompletionRequest) (json.RawMessage, error)
}

// Cache defines the interface for caching operations.
// Implementations: internal/infra/redis
type Cache interface {
	// Get retrieves a value by key. Returns nil if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Clear removes all cached values.
	Clear(ctx context.Context) error
}
