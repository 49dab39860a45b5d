package stats

import (
	"testing"

	"github.com/barekit/adscope/pkg/keyword"
)

func TestCompute_EmptyRecordSet(t *testing.T) {
	got := Compute(nil)

	if len(got) != 1 {
		t.Fatalf("expected only total_keywords, got %v", got)
	}
	if got["total_keywords"] != 0 {
		t.Errorf("total_keywords = %v, want 0", got["total_keywords"])
	}
}

func TestCompute_MeanAndMedianSearchVolume(t *testing.T) {
	volumes := []int64{100, 200, 300, 400, 500}
	records := make([]keyword.Record, len(volumes))
	for i, v := range volumes {
		records[i] = keyword.Record{Term: "kw", SearchVolume: v, Competition: keyword.CompetitionMedium}
	}

	got := Compute(records)

	if got["total_keywords"] != 5 {
		t.Errorf("total_keywords = %v, want 5", got["total_keywords"])
	}
	if got["avg_search_volume"] != 300.0 {
		t.Errorf("avg_search_volume = %v, want 300", got["avg_search_volume"])
	}
	if got["median_search_volume"] != 300.0 {
		t.Errorf("median_search_volume = %v, want 300", got["median_search_volume"])
	}
}

func TestCompute_CompetitionAndThresholds(t *testing.T) {
	records := []keyword.Record{
		{Term: "a", SearchVolume: 50000, Competition: keyword.CompetitionLow, CPCHigh: 1.0},
		{Term: "b", SearchVolume: 10000, Competition: keyword.CompetitionLow, CPCHigh: 2.0},
		{Term: "c", SearchVolume: 10001, Competition: keyword.CompetitionHigh, CPCHigh: 3.0},
		{Term: "d", SearchVolume: 200, Competition: keyword.CompetitionMedium, CPCHigh: 6.0},
	}

	got := Compute(records)

	// Strictly above the threshold: 50000 and 10001, not 10000
	if got["high_volume_keywords"] != 2 {
		t.Errorf("high_volume_keywords = %v, want 2", got["high_volume_keywords"])
	}
	if got["low_competition_keywords"] != 2 {
		t.Errorf("low_competition_keywords = %v, want 2", got["low_competition_keywords"])
	}
	if got["avg_cpc"] != 3.0 {
		t.Errorf("avg_cpc = %v, want 3.0", got["avg_cpc"])
	}

	dist, ok := got["competition_distribution"].(map[string]int)
	if !ok {
		t.Fatalf("competition_distribution has unexpected type %T", got["competition_distribution"])
	}
	if dist["LOW"] != 2 || dist["HIGH"] != 1 || dist["MEDIUM"] != 1 {
		t.Errorf("competition_distribution = %v", dist)
	}
}
