package performance

import (
	"testing"

	"tableside/internal/domain"
)

func TestRankOrderingAndTies(t *testing.T) {
	records := []domain.ChefPerformance{
		{ChefID: "A", Points: 300, OrdersCompleted: 20},
		{ChefID: "B", Points: 300, OrdersCompleted: 25},
		{ChefID: "C", Points: 150, OrdersCompleted: 10},
	}

	entries := Rank(records)
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	wantOrder := []string{"B", "A", "C"}
	for i, want := range wantOrder {
		if entries[i].ChefID != want {
			t.Fatalf("position %d = %s, want %s", i, entries[i].ChefID, want)
		}
		if entries[i].Rank != i+1 {
			t.Fatalf("rank at position %d = %d, want %d", i, entries[i].Rank, i+1)
		}
	}
	// input slice is left untouched
	if records[0].ChefID != "A" {
		t.Fatalf("input mutated: %v", records)
	}
}

func TestRankFullTieBreaksOnChefID(t *testing.T) {
	entries := Rank([]domain.ChefPerformance{
		{ChefID: "z", Points: 100, OrdersCompleted: 5},
		{ChefID: "a", Points: 100, OrdersCompleted: 5},
	})
	if entries[0].ChefID != "a" || entries[1].ChefID != "z" {
		t.Fatalf("tie not broken by chef id ascending: %s, %s", entries[0].ChefID, entries[1].ChefID)
	}
}

func TestRankEmpty(t *testing.T) {
	if got := Rank(nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}
