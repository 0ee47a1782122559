package services

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/codyseavey/cardwatch/internal/models"
)

// Totals builds the per-set overview for every catalog set released within
// the last maxMonths months. Each set's ultra rare and secret rare
// memberships are resolved, ingested into the ledger for today, indexed, and
// summarized; the ledger is saved once after all sets are processed so a
// failure partway loses at most today's unsaved entries.
func (t *Tracker) Totals(ctx context.Context, maxMonths int, cardType models.CardType, sortKey models.SetSortKey) ([]models.SetTotal, error) {
	now := t.now()
	cutoff := now.AddDate(0, -maxMonths, 0)

	h, err := t.store.Load()
	if err != nil {
		return nil, err
	}

	var totals []models.SetTotal
	for _, set := range t.sets {
		released, err := time.Parse(dayLayout, set.Date)
		if err != nil {
			log.Printf("Totals: set %q has unparseable date %q, skipping", set.Name, set.Date)
			continue
		}
		if released.Before(cutoff) {
			continue
		}

		st, err := t.setTotal(ctx, h, set, cardType, now)
		if err != nil {
			return nil, err
		}
		totals = append(totals, st)
	}

	if err := t.store.Save(h); err != nil {
		return nil, err
	}

	sortSetTotals(totals, sortKey)
	return totals, nil
}

// setTotal summarizes one set against the shared ledger, appending today's
// entries for any of its cards not yet recorded.
func (t *Tracker) setTotal(ctx context.Context, h models.History, set models.Set, cardType models.CardType, now time.Time) (models.SetTotal, error) {
	ultraIDs, err := t.source.SearchIDs(ctx, models.RarityUltra, set.Name)
	if err != nil {
		return models.SetTotal{}, err
	}
	secretIDs, err := t.source.SearchIDs(ctx, models.RaritySecret, set.Name)
	if err != nil {
		return models.SetTotal{}, err
	}

	allIDs := make([]int, 0, len(ultraIDs)+len(secretIDs))
	allIDs = append(allIDs, ultraIDs...)
	allIDs = append(allIDs, secretIDs...)

	cards := make([]models.CardRef, len(allIDs))
	for i, id := range allIDs {
		cards[i] = models.CardRef{ID: id, Set: set.Name}
	}
	if _, err := t.ingestInto(ctx, h, cards, cardType, now); err != nil {
		return models.SetTotal{}, err
	}

	ultraIdx := t.indexFrom(h, models.RarityUltra, set.Name, ultraIDs, now)
	secretIdx := t.indexFrom(h, models.RaritySecret, set.Name, secretIDs, now)

	changes := t.changesFrom(h, ChangeQuery{IDs: allIDs}, now)

	var monthChange, weekChange, dayChange float64
	for _, c := range changes {
		monthChange += c.MonthlyChange
		weekChange += c.WeeklyChange
		if c.DailyChange != nil {
			dayChange += *c.DailyChange
		}
	}

	total := round2(ultraIdx.Total + secretIdx.Total)
	st := models.SetTotal{
		Set:     set.Name,
		SetLink: "/api/sets/" + models.SetSlug(set.Name),
		Date:    set.Date,
		UltraRares: models.RarityTotal{
			Count:        len(ultraIDs),
			TotalPrice:   ultraIdx.Total,
			AveragePrice: ultraIdx.Average,
		},
		SecretRares: models.RarityTotal{
			Count:        len(secretIDs),
			TotalPrice:   secretIdx.Total,
			AveragePrice: secretIdx.Average,
		},
		AllCards: models.RarityTotal{
			Count:      len(allIDs),
			TotalPrice: total,
		},
		MonthChange: round2(monthChange),
		WeekChange:  round2(weekChange),
		DayChange:   round2(dayChange),
	}
	if len(allIDs) > 0 {
		st.AllCards.AveragePrice = round2(total / float64(len(allIDs)))
	}
	if months := monthsFromDate(set.Date, now); months > 0 {
		st.AverageMonthlyIncrease = round2(total / float64(months))
	}
	return st, nil
}

// sortSetTotals orders totals descending by the selected metric.
func sortSetTotals(totals []models.SetTotal, key models.SetSortKey) {
	value := func(st models.SetTotal) float64 {
		switch key {
		case models.SortTotalCost:
			return st.AllCards.TotalPrice
		case models.SortWeeklyChange:
			return st.WeekChange
		case models.SortDailyChange:
			return st.DayChange
		case models.SortMonthlyAverageChange:
			return st.AverageMonthlyIncrease
		case models.SortAllAverage:
			return st.AllCards.AveragePrice
		case models.SortUltraRareTotal:
			return st.UltraRares.TotalPrice
		case models.SortUltraRareAverage:
			return st.UltraRares.AveragePrice
		case models.SortSecretRareTotal:
			return st.SecretRares.TotalPrice
		case models.SortSecretRareAverage:
			return st.SecretRares.AveragePrice
		default:
			return st.MonthChange
		}
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return value(totals[i]) > value(totals[j])
	})
}
