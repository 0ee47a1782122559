package services

import (
	"context"
	"testing"

	"github.com/codyseavey/cardwatch/internal/models"
)

func TestIndexFromSumsTodayAndYesterday(t *testing.T) {
	h := models.History{
		"1": {ProductID: 1, History: []models.HistoryEntry{
			{Date: "2024-01-30", MarketPrice: 4.00},
			{Date: "2024-01-31", MarketPrice: 5.00},
		}},
		"2": {ProductID: 2, History: []models.HistoryEntry{
			{Date: "2024-01-30", MarketPrice: 7.00},
			{Date: "2024-01-31", MarketPrice: 7.50},
		}},
	}
	tr := newTestTracker(&fakeSource{}, &memoryStore{}, nil, day("2024-01-31"))

	idx := tr.indexFrom(h, models.RarityUltra, "Evolving Skies", []int{1, 2}, day("2024-01-31"))
	if idx.Total != 12.50 {
		t.Errorf("Total = %v, want 12.50", idx.Total)
	}
	if idx.Average != 6.25 {
		t.Errorf("Average = %v, want 6.25", idx.Average)
	}
	if idx.DailyChange != 1.50 {
		t.Errorf("DailyChange = %v, want 1.50", idx.DailyChange)
	}
}

func TestIndexFromMissingRecordStillDividesByMembership(t *testing.T) {
	h := models.History{
		"1": {ProductID: 1, History: []models.HistoryEntry{{Date: "2024-01-31", MarketPrice: 6.00}}},
		"2": {ProductID: 2, History: []models.HistoryEntry{{Date: "2024-01-31", MarketPrice: 6.00}}},
	}
	tr := newTestTracker(&fakeSource{}, &memoryStore{}, nil, day("2024-01-31"))

	idx := tr.indexFrom(h, models.RarityUltra, "A", []int{1, 2, 3}, day("2024-01-31"))
	if idx.Total != 12.00 {
		t.Errorf("Total = %v, want 12.00", idx.Total)
	}
	if idx.Average != 4.00 {
		t.Errorf("Average = %v, want 4.00 (membership of 3)", idx.Average)
	}
}

func TestIndexFromEmptyMembership(t *testing.T) {
	tr := newTestTracker(&fakeSource{}, &memoryStore{}, nil, day("2024-01-31"))

	idx := tr.indexFrom(models.History{}, models.RaritySecret, "A", nil, day("2024-01-31"))
	if idx.Total != 0 || idx.Average != 0 || idx.DailyChange != 0 {
		t.Errorf("got %+v, want all zeros", idx)
	}
}

func TestIndexResolvesMembershipWhenEmpty(t *testing.T) {
	source := &fakeSource{
		searchIDs: map[string][]int{"A-Secret Rare": {1}},
	}
	store := &memoryStore{h: models.History{
		"1": {ProductID: 1, History: []models.HistoryEntry{{Date: "2024-01-31", MarketPrice: 9.00}}},
	}}
	tr := newTestTracker(source, store, nil, day("2024-01-31"))

	idx, err := tr.Index(context.Background(), models.RaritySecret, "A", nil)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if source.searchCalls != 1 {
		t.Errorf("searchCalls = %d, want 1", source.searchCalls)
	}
	if idx.Total != 9.00 {
		t.Errorf("Total = %v, want 9.00", idx.Total)
	}
}
