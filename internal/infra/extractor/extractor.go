// Package extractor implements the content extractor over HTTP.
// It fetches pages within strict bounds and distills title, description,
// and readable body text from raw HTML.
package extractor

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/go-resty/resty/v2"
	"github.com/pemistahl/lingua-go"
	"go.uber.org/zap"

	"content-intel-service/internal/domain"
)

// UserAgent identifies outbound page fetches.
const UserAgent = "content-intel-service/1.0 (+bookmark content analysis)"

// maxRedirects bounds redirect chains on page fetches.
const maxRedirects = 3

// Config holds extractor settings. Zeroed fields fall back to the
// documented extraction bounds.
type Config struct {
	Timeout      time.Duration
	MaxBytes     int64
	MaxBodyWords int
}

// Extractor implements domain.Extractor using a bounded HTTP client.
type Extractor struct {
	client       *resty.Client
	detector     lingua.LanguageDetector
	logger       *zap.Logger
	maxBytes     int64
	maxBodyWords int
}

// New creates an Extractor. The language detector is built once here;
// it is expensive to construct and safe for concurrent use.
func New(cfg Config, logger *zap.Logger) *Extractor {
	defaults := domain.DefaultExtractOptions()
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = defaults.MaxBytes
	}
	if cfg.MaxBodyWords <= 0 {
		cfg.MaxBodyWords = defaults.MaxBodyWords
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(maxRedirects)).
		SetHeader("User-Agent", UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml")

	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.English, lingua.Spanish, lingua.French, lingua.German,
			lingua.Portuguese, lingua.Italian, lingua.Dutch, lingua.Japanese,
		).
		Build()

	return &Extractor{
		client:       client,
		detector:     detector,
		logger:       logger,
		maxBytes:     cfg.MaxBytes,
		maxBodyWords: cfg.MaxBodyWords,
	}
}

// Extract fetches a URL and parses it into structured signals.
//
// Unreachable pages and non-2xx responses degrade to fallback metadata
// (title = hostname, description = "Link from <hostname>") instead of
// failing, so a dead link never blocks the analysis pipeline. Cancelled
// contexts do fail, since the caller explicitly gave up.
func (e *Extractor) Extract(ctx context.Context, rawURL string, opts domain.ExtractOptions) (*domain.ExtractedContent, error) {
	if err := domain.CheckURL(rawURL); err != nil {
		return nil, err
	}

	// The response is read manually through a LimitReader so a hostile
	// page can never stream more than the byte cap off the socket.
	req := e.client.R().SetContext(ctx).SetDoNotParseResponse(true)

	resp, err := req.Get(rawURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrFetchTimeout, ctx.Err())
		}

		e.logger.Warn("page fetch failed, using fallback metadata",
			zap.String("url", rawURL),
			zap.Error(err),
		)

		return fallbackContent(rawURL), nil
	}
	defer func() { _ = resp.RawBody().Close() }()

	if resp.IsError() {
		e.logger.Debug("page returned error status, using fallback metadata",
			zap.String("url", rawURL),
			zap.Int("status", resp.StatusCode()),
		)

		return fallbackContent(rawURL), nil
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType != "" && !isTextual(contentType) {
		e.logger.Debug("non-text content type, using fallback metadata",
			zap.String("url", rawURL),
			zap.String("content_type", contentType),
		)

		return fallbackContent(rawURL), nil
	}

	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = e.maxBytes
	}

	body, err := io.ReadAll(io.LimitReader(resp.RawBody(), maxBytes))
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrFetchTimeout, ctx.Err())
		}

		e.logger.Warn("page body read failed, using fallback metadata",
			zap.String("url", rawURL),
			zap.Error(err),
		)

		return fallbackContent(rawURL), nil
	}

	finalURL := rawURL
	if resp.RawResponse != nil && resp.RawResponse.Request != nil {
		finalURL = resp.RawResponse.Request.URL.String()
	}

	content, err := e.Parse(finalURL, string(body), opts)
	if err != nil {
		e.logger.Warn("html parse failed, using fallback metadata",
			zap.String("url", rawURL),
			zap.Error(err),
		)

		return fallbackContent(rawURL), nil
	}

	return content, nil
}

// Parse distills signals from raw HTML without any network access.
//
// Title precedence: og:title > <title> > hostname.
// Description precedence: og:description > meta description > empty.
// Body text comes from readability's main-content extraction, falling
// back to a stripped full-document text walk.
func (e *Extractor) Parse(rawURL string, html string, opts domain.ExtractOptions) (*domain.ExtractedContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParseFailed, err)
	}

	host := hostnameOf(rawURL)

	title := strings.TrimSpace(doc.Find(`meta[property="og:title"]`).AttrOr("content", ""))
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if title == "" {
		title = host
	}

	description := strings.TrimSpace(doc.Find(`meta[property="og:description"]`).AttrOr("content", ""))
	if description == "" {
		description = strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", ""))
	}

	bodyText := e.readableText(rawURL, html)
	if bodyText == "" {
		bodyText = strippedText(doc)
	}

	words := strings.Fields(bodyText)
	wordCount := len(words)

	window := opts.MaxBodyWords
	if window <= 0 {
		window = e.maxBodyWords
	}
	if len(words) > window {
		bodyText = strings.Join(words[:window], " ")
	}

	return &domain.ExtractedContent{
		Title:       collapseWhitespace(title),
		Description: collapseWhitespace(description),
		BodyText:    bodyText,
		WordCount:   wordCount,
		URL:         rawURL,
		Language:    e.detectLanguage(bodyText),
	}, nil
}

// readableText runs go-readability over the document and returns the
// main article text, or empty when nothing useful was found.
func (e *Extractor) readableText(rawURL, html string) string {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(html), pageURL)
	if err != nil {
		return ""
	}

	return collapseWhitespace(article.TextContent)
}

// detectLanguage returns the ISO 639-1 code of the body text, defaulting
// to "en" when detection is not confident or the text is too short.
func (e *Extractor) detectLanguage(text string) string {
	const sampleLimit = 1000

	if len(text) < 40 {
		return "en"
	}
	if len(text) > sampleLimit {
		text = truncateToRune(text, sampleLimit)
	}

	if lang, ok := e.detector.DetectLanguageOf(text); ok {
		return strings.ToLower(lang.IsoCode639_1().String())
	}

	return "en"
}

// fallbackContent builds best-effort metadata from the URL alone.
func fallbackContent(rawURL string) *domain.ExtractedContent {
	host := hostnameOf(rawURL)

	return &domain.ExtractedContent{
		Title:       host,
		Description: "Link from " + host,
		URL:         rawURL,
		Language:    "en",
		Fallback:    true,
	}
}

// strippedText walks the document body with script/style/nav removed.
func strippedText(doc *goquery.Document) string {
	clone := doc.Clone()
	clone.Find("script, style, noscript, nav, header, footer, iframe").Remove()

	return collapseWhitespace(clone.Find("body").Text())
}

// truncateToRune cuts s at max bytes, backing off so the cut never lands
// inside a multi-byte rune.
func truncateToRune(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}

	return s[:max]
}

// collapseWhitespace squashes all runs of whitespace to a single space.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// isTextual reports whether a Content-Type header is worth parsing.
func isTextual(contentType string) bool {
	ct := strings.ToLower(contentType)

	return strings.HasPrefix(ct, "text/") ||
		strings.Contains(ct, "xhtml") ||
		strings.Contains(ct, "application/xml")
}

// hostnameOf extracts the hostname, returning the raw input when
// parsing fails so the fallback is never empty.
func hostnameOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return rawURL
	}

	return u.Hostname()
}
