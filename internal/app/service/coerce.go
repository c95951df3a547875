package service

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"

	"content-intel-service/internal/domain"
)

// The AI backend's JSON is untrusted input. Fields are coerced one at a
// time so a single malformed field never discards the rest of the payload.

const (
	maxSummaryLength = 500
	maxListEntries   = 10
)

// coerceAnalysis folds a raw AI payload into an AnalysisResult, field by
// field. The base result already carries every documented default; only
// fields the payload supplies in a usable form are overwritten. Reports
// whether any field actually applied, so callers can tell a real AI
// analysis from a payload that contributed nothing.
func coerceAnalysis(raw json.RawMessage, result *domain.AnalysisResult) bool {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return false
	}

	applied := false

	if s, ok := coerceString(fields["summary"]); ok {
		result.Summary = truncateString(s, maxSummaryLength)
		applied = true
	}
	if tags, ok := coerceStringSlice(fields["tags"]); ok {
		result.Tags = normalizeTagNames(tags)
		applied = true
	}
	if s, ok := coerceString(fields["category"]); ok {
		result.Category = domain.ParseCategory(s)
		applied = true
	}
	if topics, ok := coerceStringSlice(fields["topics"]); ok {
		result.Topics = topics
		applied = true
	}
	if s, ok := coerceString(fields["sentiment"]); ok {
		result.Sentiment = domain.ParseSentiment(s)
		applied = true
	}
	if n, ok := coerceInt(fields["readingTime"]); ok && n >= 0 {
		result.ReadingTime = n
		applied = true
	}
	if s, ok := coerceString(fields["complexity"]); ok {
		result.Complexity = domain.ParseComplexity(s)
		applied = true
	}
	if n, ok := coerceInt(fields["qualityScore"]); ok {
		result.QualityScore = domain.ClampQuality(n)
		applied = true
	}
	if points, ok := coerceStringSlice(fields["keyPoints"]); ok {
		result.KeyPoints = points
		applied = true
	}
	if keywords, ok := coerceStringSlice(fields["relatedKeywords"]); ok {
		result.RelatedKeywords = keywords
		applied = true
	}
	if s, ok := coerceString(fields["contentType"]); ok {
		result.ContentType = domain.ParseContentType(s)
		applied = true
	}
	if s, ok := coerceString(fields["language"]); ok && len(s) >= 2 {
		result.Language = strings.ToLower(s[:2])
		applied = true
	}

	return applied
}

// coerceTagCandidates reads AI tag suggestions, tolerating both the
// requested {"tags":[{"tag","confidence"}]} shape and a bare string array.
func coerceTagCandidates(raw json.RawMessage) []domain.TagCandidate {
	var envelope struct {
		Tags json.RawMessage `json:"tags"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Tags == nil {
		// Some models return the array directly.
		envelope.Tags = raw
	}

	var structured []struct {
		Tag        string  `json:"tag"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal(envelope.Tags, &structured); err == nil {
		candidates := make([]domain.TagCandidate, 0, len(structured))
		for _, t := range structured {
			if t.Tag == "" {
				continue
			}
			confidence := t.Confidence
			if confidence <= 0 || confidence > 1 {
				confidence = 0.8
			}
			candidates = append(candidates, domain.TagCandidate{
				Tag:        t.Tag,
				Confidence: confidence,
				Source:     domain.TagSourceAI,
			})
		}

		return candidates
	}

	names, ok := coerceStringSlice(envelope.Tags)
	if !ok {
		return nil
	}

	candidates := make([]domain.TagCandidate, 0, len(names))
	for _, name := range names {
		candidates = append(candidates, domain.TagCandidate{
			Tag:        name,
			Confidence: 0.8,
			Source:     domain.TagSourceAI,
		})
	}

	return candidates
}

func coerceString(raw json.RawMessage) (string, bool) {
	if raw == nil {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)

	return s, s != ""
}

// coerceStringSlice accepts an array, skipping non-string elements.
func coerceStringSlice(raw json.RawMessage) ([]string, bool) {
	if raw == nil {
		return nil, false
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, false
	}

	out := make([]string, 0, len(elements))
	for _, el := range elements {
		if s, ok := coerceString(el); ok {
			out = append(out, s)
		}
		if len(out) == maxListEntries {
			break
		}
	}

	return out, true
}

// coerceInt accepts JSON numbers and numeric strings, truncating floats.
func coerceInt(raw json.RawMessage) (int, bool) {
	if raw == nil {
		return 0, false
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int(f), true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n, true
		}
	}

	return 0, false
}

// normalizeTagNames canonicalizes and deduplicates raw tag strings.
func normalizeTagNames(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		n := domain.CanonicalTag(t)
		if ok, _ := domain.ValidateTag(n); !ok || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}

	return out
}

// truncateString cuts s at max bytes without splitting a multi-byte rune,
// so truncated summaries stay valid UTF-8.
func truncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}

	return strings.TrimSpace(s[:max])
}
