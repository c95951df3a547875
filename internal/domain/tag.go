package domain

import (
	"sort"
	"strings"
	"unicode"
)

// Tag length bounds apply after normalization.
const (
	MinTagLength = 2
	MaxTagLength = 30
)

// TagSource identifies which generation source proposed a tag.
type TagSource string

const (
	TagSourceAI      TagSource = "ai"
	TagSourceContent TagSource = "content"
	TagSourceURL     TagSource = "url"
)

// Priority orders sources for rank tie-breaking: ai > content > url.
func (s TagSource) Priority() int {
	switch s {
	case TagSourceAI:
		return 3
	case TagSourceContent:
		return 2
	case TagSourceURL:
		return 1
	default:
		return 0
	}
}

// TagCandidate is a transient proposal from a single generation source.
type TagCandidate struct {
	Tag        string
	Confidence float64 // 0..1
	Source     TagSource
}

// Tag is a merged, validated tag ready to attach to a bookmark.
type Tag struct {
	Name       string    `json:"name"`
	Confidence float64   `json:"confidence"`
	Source     TagSource `json:"source"`
	Category   string    `json:"category,omitempty"`
	Color      string    `json:"color,omitempty"`
}

// TagRequest holds the bookmark signals tag generation works from.
type TagRequest struct {
	Title       string
	URL         string
	Content     string
	Description string
}

// TagOptions configures a single tag-generation call.
// Unknown caller options are ignored at the DTO layer; every recognized
// option has a documented default.
type TagOptions struct {
	MaxTags            int     // default 5
	MinConfidence      float64 // default 0.7
	IncludeAITags      bool    // default true
	IncludeContentTags bool    // default true
	IncludeURLTags     bool    // default true
}

// DefaultTagOptions returns the documented defaults.
func DefaultTagOptions() TagOptions {
	return TagOptions{
		MaxTags:            5,
		MinConfidence:      0.7,
		IncludeAITags:      true,
		IncludeContentTags: true,
		IncludeURLTags:     true,
	}
}

// Normalize fills zeroed fields with defaults and bounds the rest.
func (o *TagOptions) Normalize() {
	if o.MaxTags <= 0 {
		o.MaxTags = 5
	}
	if o.MaxTags > 20 {
		o.MaxTags = 20
	}
	if o.MinConfidence <= 0 {
		o.MinConfidence = 0.7
	}
	if o.MinConfidence > 1 {
		o.MinConfidence = 1
	}
}

// tagAliases collapses well-known abbreviations onto their canonical spelling.
var tagAliases = map[string]string{
	"js":     "javascript",
	"ts":     "typescript",
	"py":     "python",
	"golang": "go",
	"k8s":    "kubernetes",
	"ml":     "machine-learning",
	"html5":  "html",
	"css3":   "css",
}

// tagStoplist holds words that are never useful as tags.
var tagStoplist = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "this": {}, "that": {},
	"from": {}, "have": {}, "more": {}, "your": {}, "about": {}, "when": {},
	"what": {}, "where": {}, "which": {}, "will": {}, "would": {}, "there": {},
	"their": {}, "been": {}, "into": {}, "also": {}, "some": {}, "then": {},
	"than": {}, "only": {}, "over": {}, "very": {}, "just": {}, "like": {},
	"http": {}, "https": {}, "www": {}, "com": {}, "org": {}, "net": {},
	"html": {}, "page": {}, "pages": {}, "site": {}, "website": {}, "link": {},
	"links": {}, "click": {}, "here": {}, "home": {}, "index": {}, "misc": {},
	"other": {}, "stuff": {}, "thing": {}, "things": {}, "item": {}, "items": {},
}

// NormalizeTag canonicalizes a tag to lower-kebab-case: lowercased, trimmed,
// punctuation and whitespace collapsed to single hyphens.
func NormalizeTag(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	b.Grow(len(s))
	pendingHyphen := false

	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	return b.String()
}

// CanonicalTag normalizes a tag and resolves known aliases.
func CanonicalTag(s string) string {
	t := NormalizeTag(s)
	if alias, ok := tagAliases[t]; ok {
		return alias
	}

	return t
}

// singularize strips a trivial plural suffix so "tutorials" and "tutorial"
// compare equal during merge. Short words and -ss endings are left alone.
func singularize(t string) string {
	if len(t) > 3 && strings.HasSuffix(t, "s") && !strings.HasSuffix(t, "ss") {
		return t[:len(t)-1]
	}

	return t
}

// ValidateTag checks a tag against the validity policy. The returned reason
// is empty when the tag is valid.
func ValidateTag(tag string) (bool, string) {
	t := NormalizeTag(tag)

	if t == "" {
		return false, "tag is empty after normalization"
	}
	if len(t) < MinTagLength {
		return false, "tag is too short"
	}
	if len(t) > MaxTagLength {
		return false, "tag exceeds maximum length"
	}
	if isNumeric(strings.ReplaceAll(t, "-", "")) {
		return false, "tag is purely numeric"
	}
	if _, ok := tagStoplist[t]; ok {
		return false, "tag is a stop word"
	}

	return true, ""
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// MergeCandidates deduplicates candidates on their canonical name.
// When several sources propose the same tag, the maximum confidence wins
// and the highest-priority source is recorded.
func MergeCandidates(candidates []TagCandidate) []Tag {
	type entry struct {
		tag   Tag
		order int
	}

	merged := make(map[string]*entry, len(candidates))
	order := 0

	for _, c := range candidates {
		name := CanonicalTag(c.Tag)
		if ok, _ := ValidateTag(name); !ok {
			continue
		}

		e, exists := merged[name]
		if !exists {
			merged[name] = &entry{
				tag:   Tag{Name: name, Confidence: c.Confidence, Source: c.Source},
				order: order,
			}
			order++
			continue
		}

		if c.Confidence > e.tag.Confidence {
			e.tag.Confidence = c.Confidence
		}
		if c.Source.Priority() > e.tag.Source.Priority() {
			e.tag.Source = c.Source
		}
	}

	out := make([]entry, 0, len(merged))
	for _, e := range merged {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].order < out[j].order })

	tags := make([]Tag, len(out))
	for i, e := range out {
		tags[i] = e.tag
	}

	return tags
}

// MergeSimilarTags collapses near-duplicate spellings and plurals.
// Tags whose canonical singular forms are equal merge into one entry,
// keeping the highest confidence and the first occurrence's position.
func MergeSimilarTags(tags []Tag) []Tag {
	seen := make(map[string]int, len(tags))
	out := make([]Tag, 0, len(tags))

	for _, t := range tags {
		key := singularize(CanonicalTag(t.Name))
		if key == "" {
			continue
		}

		if idx, ok := seen[key]; ok {
			if t.Confidence > out[idx].Confidence {
				out[idx].Confidence = t.Confidence
			}
			if t.Source.Priority() > out[idx].Source.Priority() {
				out[idx].Source = t.Source
			}
			continue
		}

		seen[key] = len(out)
		t.Name = CanonicalTag(t.Name)
		out = append(out, t)
	}

	return out
}

// RankTags filters by minimum confidence, sorts by confidence descending
// with source priority then name as tie-breaks, and truncates to maxTags.
// The ordering is deterministic for deterministic inputs.
func RankTags(tags []Tag, minConfidence float64, maxTags int) []Tag {
	ranked := make([]Tag, 0, len(tags))
	for _, t := range tags {
		if t.Confidence >= minConfidence {
			ranked = append(ranked, t)
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Confidence != ranked[j].Confidence {
			return ranked[i].Confidence > ranked[j].Confidence
		}
		if ranked[i].Source.Priority() != ranked[j].Source.Priority() {
			return ranked[i].Source.Priority() > ranked[j].Source.Priority()
		}

		return ranked[i].Name < ranked[j].Name
	})

	if maxTags > 0 && len(ranked) > maxTags {
		ranked = ranked[:maxTags]
	}

	return ranked
}
