package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestAnalyzeTagUsage(t *testing.T) {
	records := []BookmarkTags{
		{ID: "b1", Tags: []string{"go", "backend", "go"}}, // duplicate deduped
		{ID: "b2", Tags: []string{"Go", "api"}},           // normalized to "go"
		{ID: "b3", Tags: []string{"backend", "api"}},
	}

	analytics, err := AnalyzeTagUsage(records)
	if err != nil {
		t.Fatalf("AnalyzeTagUsage() error = %v", err)
	}

	if analytics.TotalBookmarks != 3 {
		t.Errorf("TotalBookmarks = %d, want 3", analytics.TotalBookmarks)
	}
	if analytics.TotalTags != 3 {
		t.Errorf("TotalTags = %d, want 3", analytics.TotalTags)
	}

	expectedUsage := map[string]int{"go": 2, "backend": 2, "api": 2}
	if !reflect.DeepEqual(analytics.UsageCounts, expectedUsage) {
		t.Errorf("UsageCounts = %v, want %v", analytics.UsageCounts, expectedUsage)
	}

	// Co-occurrence is symmetric.
	if analytics.CoOccurrence["go"]["backend"] != 1 {
		t.Errorf("CoOccurrence[go][backend] = %d, want 1", analytics.CoOccurrence["go"]["backend"])
	}
	if analytics.CoOccurrence["backend"]["go"] != 1 {
		t.Errorf("CoOccurrence[backend][go] = %d, want 1", analytics.CoOccurrence["backend"]["go"])
	}
	if analytics.CoOccurrence["backend"]["api"] != 1 {
		t.Errorf("CoOccurrence[backend][api] = %d, want 1", analytics.CoOccurrence["backend"]["api"])
	}
}

func TestAnalyzeTagUsage_EmptyCorpus(t *testing.T) {
	analytics, err := AnalyzeTagUsage([]BookmarkTags{})
	if err != nil {
		t.Fatalf("AnalyzeTagUsage() error = %v", err)
	}
	if analytics.TotalBookmarks != 0 || analytics.TotalTags != 0 {
		t.Errorf("expected empty analytics, got %+v", analytics)
	}
}

func TestAnalyzeTagUsage_InvalidRecords(t *testing.T) {
	tests := []struct {
		name    string
		records []BookmarkTags
	}{
		{"missing id", []BookmarkTags{{ID: "", Tags: []string{"go"}}}},
		{"nil tags", []BookmarkTags{{ID: "b1", Tags: nil}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AnalyzeTagUsage(tt.records)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("AnalyzeTagUsage() = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestAnalyzeTagUsage_EmptyTagListAllowed(t *testing.T) {
	analytics, err := AnalyzeTagUsage([]BookmarkTags{{ID: "b1", Tags: []string{}}})
	if err != nil {
		t.Fatalf("AnalyzeTagUsage() error = %v", err)
	}
	if analytics.TotalBookmarks != 1 || analytics.TotalTags != 0 {
		t.Errorf("TotalBookmarks = %d, TotalTags = %d, want 1 and 0",
			analytics.TotalBookmarks, analytics.TotalTags)
	}
}

func TestBuildClusters(t *testing.T) {
	// go+backend always appear together; photography stands alone.
	records := []BookmarkTags{
		{ID: "b1", Tags: []string{"go", "backend"}},
		{ID: "b2", Tags: []string{"go", "backend"}},
		{ID: "b3", Tags: []string{"go", "api"}},
		{ID: "b4", Tags: []string{"photography"}},
	}

	analytics, err := AnalyzeTagUsage(records)
	if err != nil {
		t.Fatalf("AnalyzeTagUsage() error = %v", err)
	}

	clusters := BuildClusters(analytics, 0.4)

	if len(clusters) != 1 {
		t.Fatalf("BuildClusters() returned %d clusters, want 1: %v", len(clusters), clusters)
	}

	cluster := clusters[0]
	if cluster.ClusterID != "cluster-1" {
		t.Errorf("ClusterID = %q, want %q", cluster.ClusterID, "cluster-1")
	}
	// Seed is "go" (usage 3); backend (2/2 = 1.0) and api (1/1 = 1.0) join.
	expectedTags := []string{"go", "backend", "api"}
	if !reflect.DeepEqual(cluster.Tags, expectedTags) {
		t.Errorf("Tags = %v, want %v", cluster.Tags, expectedTags)
	}
	if cluster.RepresentativeTag != "go" {
		t.Errorf("RepresentativeTag = %q, want %q", cluster.RepresentativeTag, "go")
	}
}

func TestBuildClusters_NoPairsAboveThreshold(t *testing.T) {
	records := []BookmarkTags{
		{ID: "b1", Tags: []string{"go"}},
		{ID: "b2", Tags: []string{"rust"}},
		{ID: "b3", Tags: []string{"python"}},
	}

	analytics, err := AnalyzeTagUsage(records)
	if err != nil {
		t.Fatalf("AnalyzeTagUsage() error = %v", err)
	}

	clusters := BuildClusters(analytics, 0.4)
	if len(clusters) != 0 {
		t.Errorf("BuildClusters() returned %d clusters, want 0", len(clusters))
	}
}

func TestBuildClusters_NilAnalytics(t *testing.T) {
	clusters := BuildClusters(nil, 0.4)
	if len(clusters) != 0 {
		t.Errorf("BuildClusters(nil) returned %d clusters, want 0", len(clusters))
	}
}

func TestBuildClusters_Deterministic(t *testing.T) {
	records := []BookmarkTags{
		{ID: "b1", Tags: []string{"go", "backend", "api"}},
		{ID: "b2", Tags: []string{"go", "backend"}},
		{ID: "b3", Tags: []string{"react", "frontend"}},
		{ID: "b4", Tags: []string{"react", "frontend", "css"}},
	}

	analytics, err := AnalyzeTagUsage(records)
	if err != nil {
		t.Fatalf("AnalyzeTagUsage() error = %v", err)
	}

	first := BuildClusters(analytics, 0.4)
	for i := 0; i < 10; i++ {
		again := BuildClusters(analytics, 0.4)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("BuildClusters() is not deterministic: %v vs %v", first, again)
		}
	}
}
