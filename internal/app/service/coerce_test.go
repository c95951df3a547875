package service

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content-intel-service/internal/domain"
)

func TestCoerceTagCandidates_StructuredShape(t *testing.T) {
	raw := json.RawMessage(`{"tags": [
		{"tag": "go", "confidence": 0.9},
		{"tag": "api", "confidence": 0.6},
		{"tag": "", "confidence": 0.8}
	]}`)

	candidates := coerceTagCandidates(raw)

	require.Len(t, candidates, 2)
	assert.Equal(t, "go", candidates[0].Tag)
	assert.Equal(t, 0.9, candidates[0].Confidence)
	assert.Equal(t, domain.TagSourceAI, candidates[0].Source)
	assert.Equal(t, 0.6, candidates[1].Confidence)
}

func TestCoerceTagCandidates_BareStringArray(t *testing.T) {
	raw := json.RawMessage(`["go", "api", "backend"]`)

	candidates := coerceTagCandidates(raw)

	require.Len(t, candidates, 3)
	for _, c := range candidates {
		assert.Equal(t, 0.8, c.Confidence)
		assert.Equal(t, domain.TagSourceAI, c.Source)
	}
}

func TestCoerceTagCandidates_OutOfRangeConfidence(t *testing.T) {
	raw := json.RawMessage(`{"tags": [
		{"tag": "go", "confidence": 7.5},
		{"tag": "api", "confidence": -1},
		{"tag": "web"}
	]}`)

	candidates := coerceTagCandidates(raw)

	require.Len(t, candidates, 3)
	for _, c := range candidates {
		assert.Equal(t, 0.8, c.Confidence, "out-of-range confidence falls back")
	}
}

func TestCoerceTagCandidates_Garbage(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `this is prose`},
		{"object without tags", `{"labels": ["go"]}`},
		{"number", `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, coerceTagCandidates(json.RawMessage(tt.raw)))
		})
	}
}

func TestCoerceAnalysis_PartialPayload(t *testing.T) {
	result := domain.NewAnalysisResult()
	result.ReadingTime = 3
	result.QualityScore = 6

	coerceAnalysis(json.RawMessage(`{"summary": "Short take.", "category": "science"}`), result)

	assert.Equal(t, "Short take.", result.Summary)
	assert.Equal(t, domain.CategoryScience, result.Category)
	// Untouched fields keep their values.
	assert.Equal(t, 3, result.ReadingTime)
	assert.Equal(t, 6, result.QualityScore)
}

func TestCoerceAnalysis_NumericStrings(t *testing.T) {
	result := domain.NewAnalysisResult()

	coerceAnalysis(json.RawMessage(`{"readingTime": "12", "qualityScore": 14.7}`), result)

	assert.Equal(t, 12, result.ReadingTime)
	assert.Equal(t, 10, result.QualityScore) // clamped
}

func TestCoerceAnalysis_ListsCapped(t *testing.T) {
	items := make([]string, 25)
	for i := range items {
		items[i] = "topic"
	}
	raw, err := json.Marshal(map[string]any{"topics": items})
	require.NoError(t, err)

	result := domain.NewAnalysisResult()
	coerceAnalysis(raw, result)

	assert.Len(t, result.Topics, maxListEntries)
}

func TestCoerceAnalysis_TagNormalization(t *testing.T) {
	result := domain.NewAnalysisResult()

	coerceAnalysis(json.RawMessage(`{"tags": ["Go", "JS", "javascript", "the", "2024"]}`), result)

	assert.Equal(t, []string{"go", "javascript"}, result.Tags)
}

func TestCoerceAnalysis_NotAnObject(t *testing.T) {
	result := domain.NewAnalysisResult()
	before := *result

	coerceAnalysis(json.RawMessage(`["unexpected", "array"]`), result)

	assert.Equal(t, before, *result)
}

func TestCoerceAnalysis_ReportsApplied(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		applied bool
	}{
		{"object with usable field", `{"summary": "Short take."}`, true},
		{"object with only unusable fields", `{"summary": 42, "qualityScore": "high"}`, false},
		{"empty object", `{}`, false},
		{"array", `["not", "an", "object"]`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := domain.NewAnalysisResult()

			assert.Equal(t, tt.applied, coerceAnalysis(json.RawMessage(tt.raw), result))
		})
	}
}

func TestTruncateString_RuneBoundary(t *testing.T) {
	s := strings.Repeat("世", 200) // 3-byte runes, so byte 500 lands mid-rune

	out := truncateString(s, maxSummaryLength)

	assert.True(t, utf8.ValidString(out), "truncation must not split a rune")
	assert.LessOrEqual(t, len(out), maxSummaryLength)
}
