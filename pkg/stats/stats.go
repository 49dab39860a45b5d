// Package stats computes descriptive statistics over keyword records.
package stats

import (
	"github.com/barekit/adscope/pkg/keyword"
	"github.com/montanaflynn/stats"
)

// HighVolumeThreshold is the monthly search volume above which a keyword
// counts as high-volume.
const HighVolumeThreshold = 10000

// Compute returns named statistics for a record set. An empty set yields
// only {"total_keywords": 0}.
func Compute(records []keyword.Record) map[string]any {
	if len(records) == 0 {
		return map[string]any{"total_keywords": 0}
	}

	volumes := make([]float64, len(records))
	cpcs := make([]float64, len(records))
	distribution := make(map[string]int)
	highVolume := 0
	lowCompetition := 0

	for i, rec := range records {
		volumes[i] = float64(rec.SearchVolume)
		cpcs[i] = rec.CPCHigh
		distribution[string(rec.Competition)]++
		if rec.SearchVolume > HighVolumeThreshold {
			highVolume++
		}
		if rec.Competition == keyword.CompetitionLow {
			lowCompetition++
		}
	}

	// stats errors only on empty input, which is handled above
	avgVolume, _ := stats.Mean(volumes)
	medianVolume, _ := stats.Median(volumes)
	avgCPC, _ := stats.Mean(cpcs)

	return map[string]any{
		"total_keywords":           len(records),
		"avg_search_volume":        avgVolume,
		"median_search_volume":     medianVolume,
		"avg_cpc":                  avgCPC,
		"competition_distribution": distribution,
		"high_volume_keywords":     highVolume,
		"low_competition_keywords": lowCompetition,
	}
}
