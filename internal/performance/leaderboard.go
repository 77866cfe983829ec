package performance

import (
	"sort"

	"tableside/internal/domain"
)

// Rank orders performance records by points descending, ties broken by
// orders completed descending then chef id ascending, and annotates
// each entry with its 1-based rank.
func Rank(records []domain.ChefPerformance) []domain.LeaderboardEntry {
	sorted := make([]domain.ChefPerformance, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.OrdersCompleted != b.OrdersCompleted {
			return a.OrdersCompleted > b.OrdersCompleted
		}
		return a.ChefID < b.ChefID
	})

	entries := make([]domain.LeaderboardEntry, len(sorted))
	for i, rec := range sorted {
		entries[i] = domain.LeaderboardEntry{Rank: i + 1, ChefPerformance: rec}
	}
	return entries
}
