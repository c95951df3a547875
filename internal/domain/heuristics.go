package domain

import (
	"net/url"
	"sort"
	"strings"
	"unicode"
)

// WordsPerMinute is the fixed reading speed used when computing reading
// time without the AI backend.
const WordsPerMinute = 200

// ReadingTimeFromWords converts a word count into whole minutes.
// Non-empty content always reads as at least one minute.
func ReadingTimeFromWords(words int) int {
	if words <= 0 {
		return 0
	}

	minutes := words / WordsPerMinute
	if minutes < 1 {
		return 1
	}

	return minutes
}

// HeuristicQualityScore derives a 0-10 quality score from word count alone.
//
//	>= 2000 words: 8
//	>= 1000 words: 7
//	>=  500 words: 6
//	>=  200 words: 5
//	>     0 words: 3
//	      0 words: 1
func HeuristicQualityScore(words int) int {
	switch {
	case words >= 2000:
		return 8
	case words >= 1000:
		return 7
	case words >= 500:
		return 6
	case words >= 200:
		return 5
	case words > 0:
		return 3
	default:
		return 1
	}
}

// ExtractKeywords produces content-source tag candidates from body text
// using stopword-filtered word frequency. Confidence scales with relative
// frequency: 0.5 base up to 0.9 for the most frequent term.
func ExtractKeywords(text string, max int) []TagCandidate {
	if max <= 0 || text == "" {
		return nil
	}

	counts := make(map[string]int)
	for _, w := range splitWords(text) {
		if len(w) < 3 || len(w) > MaxTagLength {
			continue
		}
		if _, stopped := tagStoplist[w]; stopped {
			continue
		}
		if isNumeric(w) {
			continue
		}
		counts[w]++
	}
	if len(counts) == 0 {
		return nil
	}

	type freq struct {
		word  string
		count int
	}
	ranked := make([]freq, 0, len(counts))
	maxCount := 0
	for w, c := range counts {
		ranked = append(ranked, freq{w, c})
		if c > maxCount {
			maxCount = c
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}

		return ranked[i].word < ranked[j].word
	})

	if len(ranked) > max {
		ranked = ranked[:max]
	}

	candidates := make([]TagCandidate, 0, len(ranked))
	for _, f := range ranked {
		confidence := 0.5 + 0.4*float64(f.count)/float64(maxCount)
		candidates = append(candidates, TagCandidate{
			Tag:        f.word,
			Confidence: confidence,
			Source:     TagSourceContent,
		})
	}

	return candidates
}

// URLTagCandidates produces url-source candidates from the hostname and
// path segments, e.g. "https://github.com/foo/bar" yields github, foo, bar.
func URLTagCandidates(raw string) []TagCandidate {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return nil
	}

	var candidates []TagCandidate

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if parts := strings.Split(host, "."); len(parts) >= 2 {
		domainToken := parts[len(parts)-2]
		if ok, _ := ValidateTag(domainToken); ok {
			candidates = append(candidates, TagCandidate{
				Tag:        domainToken,
				Confidence: 0.8,
				Source:     TagSourceURL,
			})
		}
	}

	for _, segment := range strings.Split(u.Path, "/") {
		for _, token := range splitWords(segment) {
			if len(token) < 3 {
				continue
			}
			if ok, _ := ValidateTag(token); !ok {
				continue
			}
			candidates = append(candidates, TagCandidate{
				Tag:        token,
				Confidence: 0.75,
				Source:     TagSourceURL,
			})
		}
	}

	return candidates
}

// splitWords tokenizes on any non-letter, non-digit rune and lowercases.
func splitWords(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
