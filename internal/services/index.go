package services

import (
	"context"
	"log"
	"time"

	"github.com/codyseavey/cardwatch/internal/models"
)

// Index sums today's recorded prices across one set/rarity's cards into an
// aggregate value with day-over-day movement. When cardIDs is empty the
// membership is resolved through the data source.
func (t *Tracker) Index(ctx context.Context, rarity models.Rarity, set string, cardIDs []int) (models.SetIndex, error) {
	ids := cardIDs
	if len(ids) == 0 {
		var err error
		ids, err = t.source.SearchIDs(ctx, rarity, set)
		if err != nil {
			return models.SetIndex{}, err
		}
	}
	h, err := t.store.Load()
	if err != nil {
		return models.SetIndex{}, err
	}
	return t.indexFrom(h, rarity, set, ids, t.now()), nil
}

// indexFrom computes the index against an already-loaded ledger. Cards
// without a ledger record are noted and skipped; the average still divides
// by the requested membership size.
func (t *Tracker) indexFrom(h models.History, rarity models.Rarity, set string, ids []int, ref time.Time) models.SetIndex {
	today := DayString(ref)
	yesterday := daysAgo(ref, 1)

	var todayTotal, yesterdayTotal float64
	for _, id := range ids {
		rec := h.Record(id)
		if rec == nil {
			log.Printf("Index: no ledger record for product %d (%s %s)", id, set, rarity)
			continue
		}
		if e := rec.EntryOn(today); e != nil {
			todayTotal += e.MarketPrice
		}
		if e := rec.EntryOn(yesterday); e != nil {
			yesterdayTotal += e.MarketPrice
		}
	}

	idx := models.SetIndex{
		Set:         set,
		Rarity:      rarity,
		Total:       round2(todayTotal),
		DailyChange: round2(todayTotal - yesterdayTotal),
	}
	if len(ids) > 0 {
		idx.Average = round2(todayTotal / float64(len(ids)))
	}
	return idx
}
