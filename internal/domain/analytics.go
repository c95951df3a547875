package domain

import (
	"fmt"
	"sort"
)

// DefaultClusterThreshold is the minimum co-occurrence ratio for two tags
// to land in the same cluster: cooccur(a,b) / min(usage(a), usage(b)).
const DefaultClusterThreshold = 0.4

// BookmarkTags is a caller-supplied record of an already-tagged bookmark.
type BookmarkTags struct {
	ID   string
	Tags []string
}

// TagUsageAnalytics aggregates usage and co-occurrence over a bookmark corpus.
// It is recomputed per request and never persisted here.
type TagUsageAnalytics struct {
	TotalBookmarks int                       `json:"totalBookmarks"`
	TotalTags      int                       `json:"totalTags"` // distinct tags
	UsageCounts    map[string]int            `json:"usageCounts"`
	CoOccurrence   map[string]map[string]int `json:"coOccurrence"`
}

// TagCluster groups tags that frequently appear together.
type TagCluster struct {
	ClusterID         string   `json:"clusterId"`
	Tags              []string `json:"tags"`
	RepresentativeTag string   `json:"representativeTag"`
}

// AnalyzeTagUsage computes per-tag usage counts and pairwise co-occurrence.
// Every record must carry a non-empty ID and a non-nil tag slice (empty is
// fine); anything else is ErrInvalidInput. Tags are normalized and
// deduplicated per bookmark before counting.
func AnalyzeTagUsage(records []BookmarkTags) (*TagUsageAnalytics, error) {
	analytics := &TagUsageAnalytics{
		TotalBookmarks: len(records),
		UsageCounts:    make(map[string]int),
		CoOccurrence:   make(map[string]map[string]int),
	}

	for i, record := range records {
		if record.ID == "" {
			return nil, fmt.Errorf("%w: record %d has no id", ErrInvalidInput, i)
		}
		if record.Tags == nil {
			return nil, fmt.Errorf("%w: record %q has no tags field", ErrInvalidInput, record.ID)
		}

		tags := normalizedUnique(record.Tags)
		for _, t := range tags {
			analytics.UsageCounts[t]++
		}

		for a := 0; a < len(tags); a++ {
			for b := a + 1; b < len(tags); b++ {
				incrCoOccurrence(analytics.CoOccurrence, tags[a], tags[b])
				incrCoOccurrence(analytics.CoOccurrence, tags[b], tags[a])
			}
		}
	}

	analytics.TotalTags = len(analytics.UsageCounts)

	return analytics, nil
}

// BuildClusters greedily groups tags by co-occurrence similarity.
// Tags are processed in descending usage order (lexicographic tie-break);
// each unclustered tag pulls in all of its sufficiently similar unclustered
// neighbors. The representative is the cluster's most-used tag. Output is
// deterministic for identical input. Singletons are not reported.
func BuildClusters(analytics *TagUsageAnalytics, threshold float64) []TagCluster {
	if analytics == nil || len(analytics.UsageCounts) == 0 {
		return []TagCluster{}
	}
	if threshold <= 0 {
		threshold = DefaultClusterThreshold
	}

	ordered := make([]string, 0, len(analytics.UsageCounts))
	for t := range analytics.UsageCounts {
		ordered = append(ordered, t)
	}
	sort.Slice(ordered, func(i, j int) bool {
		ui, uj := analytics.UsageCounts[ordered[i]], analytics.UsageCounts[ordered[j]]
		if ui != uj {
			return ui > uj
		}

		return ordered[i] < ordered[j]
	})

	clustered := make(map[string]bool, len(ordered))
	clusters := []TagCluster{}

	for _, seed := range ordered {
		if clustered[seed] {
			continue
		}

		members := []string{seed}
		for _, other := range ordered {
			if other == seed || clustered[other] {
				continue
			}
			if similarity(analytics, seed, other) >= threshold {
				members = append(members, other)
			}
		}

		if len(members) < 2 {
			continue
		}

		for _, m := range members {
			clustered[m] = true
		}

		clusters = append(clusters, TagCluster{
			ClusterID:         fmt.Sprintf("cluster-%d", len(clusters)+1),
			Tags:              members,
			RepresentativeTag: representative(analytics, members),
		})
	}

	return clusters
}

// similarity is a Jaccard-like ratio: co-occurrence count over the smaller
// of the two usage counts.
func similarity(analytics *TagUsageAnalytics, a, b string) float64 {
	pairs, ok := analytics.CoOccurrence[a]
	if !ok {
		return 0
	}
	together := pairs[b]
	if together == 0 {
		return 0
	}

	smaller := analytics.UsageCounts[a]
	if analytics.UsageCounts[b] < smaller {
		smaller = analytics.UsageCounts[b]
	}
	if smaller == 0 {
		return 0
	}

	return float64(together) / float64(smaller)
}

// representative picks the most-used member, lexicographic on ties.
func representative(analytics *TagUsageAnalytics, members []string) string {
	best := members[0]
	for _, m := range members[1:] {
		um, ub := analytics.UsageCounts[m], analytics.UsageCounts[best]
		if um > ub || (um == ub && m < best) {
			best = m
		}
	}

	return best
}

func incrCoOccurrence(co map[string]map[string]int, a, b string) {
	if co[a] == nil {
		co[a] = make(map[string]int)
	}
	co[a][b]++
}

// normalizedUnique normalizes a bookmark's tags and drops duplicates
// while preserving first-seen order.
func normalizedUnique(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		n := NormalizeTag(t)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}

	return out
}
