package service

import (
	"fmt"
	"strings"
)

// Prompt builders for the AI backend. Body excerpts are word-bounded
// before interpolation so token cost stays predictable.

const analysisSystemPrompt = `You are a bookmark content analyst. Respond with a single JSON object ` +
	`and nothing else. The object must have exactly these keys: ` +
	`"summary" (string, max 2 sentences), "tags" (array of up to 8 short lowercase strings), ` +
	`"category" (one of: technology, programming, business, science, health, education, ` +
	`entertainment, news, finance, lifestyle, travel, sports, other), ` +
	`"topics" (array of strings), "sentiment" (positive, neutral, or negative), ` +
	`"readingTime" (integer minutes), "complexity" (beginner, intermediate, or advanced), ` +
	`"qualityScore" (integer 0-10), "keyPoints" (array of strings), ` +
	`"relatedKeywords" (array of strings), ` +
	`"contentType" (one of: article, video, tool, documentation, social, other), ` +
	`"language" (ISO 639-1 code).`

const taggingSystemPrompt = `You suggest tags for bookmarked web pages. Respond with a single JSON ` +
	`object and nothing else, shaped as {"tags": [{"tag": "short-lowercase-tag", "confidence": 0.0}]}. ` +
	`Suggest at most 10 tags. Confidence is between 0 and 1.`

// analysisUserPrompt assembles the page signals for content analysis.
func analysisUserPrompt(title, description, body string, maxBodyWords int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze this web page.\n\nTitle: %s\n", title)
	if description != "" {
		fmt.Fprintf(&b, "Description: %s\n", description)
	}
	if body != "" {
		fmt.Fprintf(&b, "\nContent:\n%s\n", truncateWords(body, maxBodyWords))
	}

	return b.String()
}

// taggingUserPrompt assembles the page signals for tag suggestion.
func taggingUserPrompt(title, url, description, body string, maxBodyWords int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Suggest tags for this bookmark.\n\nTitle: %s\nURL: %s\n", title, url)
	if description != "" {
		fmt.Fprintf(&b, "Description: %s\n", description)
	}
	if body != "" {
		fmt.Fprintf(&b, "\nContent excerpt:\n%s\n", truncateWords(body, maxBodyWords))
	}

	return b.String()
}

// truncateWords bounds text to at most max words.
func truncateWords(s string, max int) string {
	if max <= 0 {
		return s
	}

	words := strings.Fields(s)
	if len(words) <= max {
		return s
	}

	return strings.Join(words[:max], " ")
}
