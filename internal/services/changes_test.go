package services

import (
	"testing"

	"github.com/codyseavey/cardwatch/internal/models"
)

func TestComputeChangeGapHistory(t *testing.T) {
	// Entries on the 1st, 8th, and 31st. On the 31st the weekly window
	// (the 24th through the 30th) is empty and yesterday is missing, so the
	// weekly reference degrades to today; the monthly scan reaches back to
	// the 1st.
	rec := &models.ProductRecord{
		Name:      "Charizard VMAX",
		Set:       "Darkness Ablaze",
		ProductID: 1,
		History: []models.HistoryEntry{
			{Date: "2024-01-01", MarketPrice: 10.00},
			{Date: "2024-01-08", MarketPrice: 12.00},
			{Date: "2024-01-31", MarketPrice: 9.00},
		},
	}
	tr := newTestTracker(&fakeSource{}, &memoryStore{}, nil, day("2024-01-31"))

	c := tr.computeChange(rec, nil, day("2024-01-31"))
	if c == nil {
		t.Fatal("expected a change for a record with an entry today")
	}
	if c.TodaysPrice != 9.00 {
		t.Errorf("TodaysPrice = %v, want 9.00", c.TodaysPrice)
	}
	if c.YesterdaysPrice != nil || c.DailyChange != nil {
		t.Error("expected no yesterday data")
	}
	if c.WeeklyRefPrice != 9.00 || c.WeeklyRefDate != "2024-01-31" || c.WeeklyChange != 0 {
		t.Errorf("weekly = (%v, %s, %v), want (9.00, 2024-01-31, 0)",
			c.WeeklyRefPrice, c.WeeklyRefDate, c.WeeklyChange)
	}
	if c.MonthlyRefPrice != 10.00 || c.MonthlyRefDate != "2024-01-01" || c.MonthlyChange != -1.00 {
		t.Errorf("monthly = (%v, %s, %v), want (10.00, 2024-01-01, -1.00)",
			c.MonthlyRefPrice, c.MonthlyRefDate, c.MonthlyChange)
	}
	if c.WeeklyPercent != 0 {
		t.Errorf("WeeklyPercent = %v, want 0", c.WeeklyPercent)
	}
	if c.MonthlyPercent != -10 {
		t.Errorf("MonthlyPercent = %v, want -10", c.MonthlyPercent)
	}
}

func TestComputeChangeStaleRecordExcluded(t *testing.T) {
	rec := &models.ProductRecord{
		ProductID: 1,
		History:   []models.HistoryEntry{{Date: "2024-01-30", MarketPrice: 5.00}},
	}
	tr := newTestTracker(&fakeSource{}, &memoryStore{}, nil, day("2024-01-31"))

	if c := tr.computeChange(rec, nil, day("2024-01-31")); c != nil {
		t.Errorf("expected nil for a record without an entry today, got %+v", c)
	}
}

func TestComputeChangeWeeklyPrefersMostDistantDay(t *testing.T) {
	rec := &models.ProductRecord{
		ProductID: 1,
		History: []models.HistoryEntry{
			{Date: "2024-01-25", MarketPrice: 6.00}, // 6 days back
			{Date: "2024-01-28", MarketPrice: 7.00}, // 3 days back
			{Date: "2024-01-31", MarketPrice: 8.00},
		},
	}
	tr := newTestTracker(&fakeSource{}, &memoryStore{}, nil, day("2024-01-31"))

	c := tr.computeChange(rec, nil, day("2024-01-31"))
	if c.WeeklyRefDate != "2024-01-25" {
		t.Errorf("WeeklyRefDate = %s, want 2024-01-25 (most distant in window)", c.WeeklyRefDate)
	}
	if c.WeeklyChange != 2.00 {
		t.Errorf("WeeklyChange = %v, want 2.00", c.WeeklyChange)
	}

	// With only the 3-days-back entry in the window, the scan walks down to it.
	sparse := &models.ProductRecord{
		ProductID: 2,
		History: []models.HistoryEntry{
			{Date: "2024-01-28", MarketPrice: 7.00},
			{Date: "2024-01-31", MarketPrice: 8.00},
		},
	}
	c = tr.computeChange(sparse, nil, day("2024-01-31"))
	if c.WeeklyRefDate != "2024-01-28" || c.WeeklyChange != 1.00 {
		t.Errorf("sparse weekly = (%s, %v), want (2024-01-28, 1.00)", c.WeeklyRefDate, c.WeeklyChange)
	}
}

func TestComputeChangeMonthlyCascadesToWeekly(t *testing.T) {
	rec := &models.ProductRecord{
		ProductID: 1,
		History: []models.HistoryEntry{
			{Date: "2024-01-30", MarketPrice: 4.00},
			{Date: "2024-01-31", MarketPrice: 5.00},
		},
	}
	tr := newTestTracker(&fakeSource{}, &memoryStore{}, nil, day("2024-01-31"))

	c := tr.computeChange(rec, nil, day("2024-01-31"))
	// Yesterday is inside both windows, so both resolve to it.
	if c.WeeklyRefDate != "2024-01-30" || c.MonthlyRefDate != "2024-01-30" {
		t.Errorf("ref dates = (%s, %s), want both 2024-01-30", c.WeeklyRefDate, c.MonthlyRefDate)
	}
	if c.MonthlyChange != c.WeeklyChange {
		t.Errorf("MonthlyChange = %v, WeeklyChange = %v, want equal", c.MonthlyChange, c.WeeklyChange)
	}
}

func TestComputeChangeSingleEntryFallsBackToToday(t *testing.T) {
	rec := &models.ProductRecord{
		ProductID: 1,
		History:   []models.HistoryEntry{{Date: "2024-01-31", MarketPrice: 5.00}},
	}
	tr := newTestTracker(&fakeSource{}, &memoryStore{}, nil, day("2024-01-31"))

	c := tr.computeChange(rec, nil, day("2024-01-31"))
	if c.WeeklyRefPrice != 5.00 || c.WeeklyRefDate != "2024-01-31" || c.WeeklyChange != 0 {
		t.Errorf("weekly = (%v, %s, %v), want (5.00, 2024-01-31, 0)",
			c.WeeklyRefPrice, c.WeeklyRefDate, c.WeeklyChange)
	}
	if c.MonthlyRefPrice != 5.00 || c.MonthlyRefDate != "2024-01-31" || c.MonthlyChange != 0 {
		t.Errorf("monthly = (%v, %s, %v), want (5.00, 2024-01-31, 0)",
			c.MonthlyRefPrice, c.MonthlyRefDate, c.MonthlyChange)
	}
}

func TestComputeChangeProfit(t *testing.T) {
	rec := &models.ProductRecord{
		ProductID: 1,
		History:   []models.HistoryEntry{{Date: "2024-01-31", MarketPrice: 15.00}},
	}
	tr := newTestTracker(&fakeSource{}, &memoryStore{}, nil, day("2024-01-31"))

	c := tr.computeChange(rec, ptr(10.00), day("2024-01-31"))
	if c.Profit != 5.00 {
		t.Errorf("Profit = %v, want 5.00", c.Profit)
	}
	if c.ProfitPercent != 50 {
		t.Errorf("ProfitPercent = %v, want 50", c.ProfitPercent)
	}
}

func TestPercentOf(t *testing.T) {
	tests := []struct {
		name        string
		change, ref float64
		want        float64
	}{
		{"zero change", 0, 10, 0},
		{"zero reference", 5, 0, 0},
		{"half", 5, 10, 50},
		{"negative", -1, 10, -10},
		{"rounds", 1, 3, 33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := percentOf(tt.change, tt.ref); got != tt.want {
				t.Errorf("percentOf(%v, %v) = %v, want %v", tt.change, tt.ref, got, tt.want)
			}
		})
	}
}

func TestChangesFromRanking(t *testing.T) {
	h := models.History{}
	add := func(id int, yesterday, today float64) {
		h[models.ProductKey(id)] = &models.ProductRecord{
			ProductID: id,
			History: []models.HistoryEntry{
				{Date: "2024-01-30", MarketPrice: yesterday},
				{Date: "2024-01-31", MarketPrice: today},
			},
		}
	}
	add(1, 10.00, 11.00) // +10%
	add(2, 10.00, 15.00) // +50%
	add(3, 10.00, 9.00)  // -10%
	tr := newTestTracker(&fakeSource{}, &memoryStore{}, nil, day("2024-01-31"))

	changes := tr.changesFrom(h, ChangeQuery{
		IDs:  []int{1, 2, 3},
		Sort: models.HorizonDaily,
	}, day("2024-01-31"))
	if len(changes) != 3 {
		t.Fatalf("got %d changes, want 3", len(changes))
	}
	if changes[0].ProductID != 2 || changes[1].ProductID != 1 || changes[2].ProductID != 3 {
		t.Errorf("order = %d, %d, %d, want 2, 1, 3",
			changes[0].ProductID, changes[1].ProductID, changes[2].ProductID)
	}

	limited := tr.changesFrom(h, ChangeQuery{
		IDs:   []int{1, 2, 3},
		Sort:  models.HorizonDaily,
		Limit: 1,
	}, day("2024-01-31"))
	if len(limited) != 1 || limited[0].ProductID != 2 {
		t.Errorf("limited = %+v, want just product 2", limited)
	}
}

func TestChangesFromMinPrice(t *testing.T) {
	h := models.History{
		"1": {ProductID: 1, History: []models.HistoryEntry{{Date: "2024-01-31", MarketPrice: 3.00}}},
		"2": {ProductID: 2, History: []models.HistoryEntry{{Date: "2024-01-31", MarketPrice: 5.00}}},
		"3": {ProductID: 3, History: []models.HistoryEntry{{Date: "2024-01-31", MarketPrice: 5.01}}},
	}
	tr := newTestTracker(&fakeSource{}, &memoryStore{}, nil, day("2024-01-31"))

	changes := tr.changesFrom(h, ChangeQuery{
		IDs:      []int{1, 2, 3},
		MinPrice: 5.00,
	}, day("2024-01-31"))
	// Strictly greater than the threshold.
	if len(changes) != 1 || changes[0].ProductID != 3 {
		t.Errorf("got %+v, want just product 3", changes)
	}
}

func TestChangesFromSkipsUnknownProducts(t *testing.T) {
	h := models.History{
		"1": {ProductID: 1, History: []models.HistoryEntry{{Date: "2024-01-31", MarketPrice: 3.00}}},
	}
	tr := newTestTracker(&fakeSource{}, &memoryStore{}, nil, day("2024-01-31"))

	changes := tr.changesFrom(h, ChangeQuery{IDs: []int{1, 99}}, day("2024-01-31"))
	if len(changes) != 1 || changes[0].ProductID != 1 {
		t.Errorf("got %+v, want just product 1", changes)
	}
}
