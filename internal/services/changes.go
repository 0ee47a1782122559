package services

import (
	"log"
	"sort"
	"time"

	"github.com/codyseavey/cardwatch/internal/models"
)

// ChangeQuery selects and ranks change results.
type ChangeQuery struct {
	IDs       []int
	BuyPrices []float64 // parallel to IDs; shorter is fine
	MinPrice  float64   // when > 0, keep only todaysPrice > MinPrice
	Sort      models.ChangeHorizon
	Limit     int // 0 = unlimited
}

// Changes computes ranked price changes for the queried products against the
// current ledger. Products without a ledger record or without a price
// recorded today contribute nothing.
func (t *Tracker) Changes(q ChangeQuery) ([]models.Change, error) {
	h, err := t.store.Load()
	if err != nil {
		return nil, err
	}
	return t.changesFrom(h, q, t.now()), nil
}

// changesFrom is the pure core of Changes, computed against an
// already-loaded ledger and an explicit reference date.
func (t *Tracker) changesFrom(h models.History, q ChangeQuery, ref time.Time) []models.Change {
	changes := make([]models.Change, 0, len(q.IDs))
	notFound := 0
	for i, id := range q.IDs {
		rec := h.Record(id)
		if rec == nil {
			notFound++
			continue
		}
		var buy *float64
		if i < len(q.BuyPrices) {
			buy = &q.BuyPrices[i]
		}
		c := t.computeChange(rec, buy, ref)
		if c == nil {
			continue
		}
		changes = append(changes, *c)
	}
	if notFound > 0 {
		log.Printf("Changes: %d of %d products have no ledger record", notFound, len(q.IDs))
	}
	return rankChanges(changes, q)
}

// computeChange derives today's, yesterday's, weekly, and monthly movement
// for one product record. Returns nil when no price is recorded for the
// reference day: a stale record is deliberately excluded rather than
// reported with old data.
func (t *Tracker) computeChange(rec *models.ProductRecord, buy *float64, ref time.Time) *models.Change {
	today := rec.EntryOn(DayString(ref))
	if today == nil {
		return nil
	}

	c := &models.Change{
		ProductID:   rec.ProductID,
		Name:        rec.Name,
		Set:         rec.Set,
		TodaysPrice: today.MarketPrice,
		BuyPrice:    buy,
	}
	if set := models.FindSet(t.sets, rec.Set); set != nil {
		c.SetDate = set.Date
	}

	if y := rec.EntryOn(daysAgo(ref, 1)); y != nil {
		yp := y.MarketPrice
		c.YesterdaysPrice = &yp
		d := round2(today.MarketPrice - yp)
		c.DailyChange = &d
	}

	// Weekly reference: most distant available day within 7 days back wins.
	wp, wd, wc, ok := scanBack(rec, ref, 7, today.MarketPrice)
	if !ok {
		// The scan window includes yesterday, so reaching this point means
		// yesterday is missing too and the reference degrades to today.
		if c.YesterdaysPrice != nil {
			wp, wd = *c.YesterdaysPrice, daysAgo(ref, 1)
			wc = *c.DailyChange
		} else {
			wp, wd, wc = today.MarketPrice, today.Date, 0
		}
	}
	c.WeeklyRefPrice, c.WeeklyRefDate, c.WeeklyChange = wp, wd, wc

	mp, md, mc, ok := scanBack(rec, ref, 31, today.MarketPrice)
	if !ok {
		// Cascade: no entry in the monthly window falls back to the weekly
		// reference, whatever that resolved to.
		mp, md, mc = wp, wd, wc
	}
	c.MonthlyRefPrice, c.MonthlyRefDate, c.MonthlyChange = mp, md, mc

	if buy != nil {
		c.Profit = round2(today.MarketPrice - *buy)
		c.ProfitPercent = percentOf(today.MarketPrice-*buy, *buy)
	}
	if c.DailyChange != nil && c.YesterdaysPrice != nil {
		c.DailyPercent = percentOf(*c.DailyChange, *c.YesterdaysPrice)
	}
	c.WeeklyPercent = percentOf(c.WeeklyChange, c.WeeklyRefPrice)
	c.MonthlyPercent = percentOf(c.MonthlyChange, c.MonthlyRefPrice)

	return c
}

// scanBack searches offsets maxDays down to 1 for a prior entry, taking the
// first hit so the most distant day within the window wins. It scans the
// record's entries rather than indexing because history order is not
// guaranteed sorted.
func scanBack(rec *models.ProductRecord, ref time.Time, maxDays int, todayPrice float64) (price float64, date string, change float64, ok bool) {
	for off := maxDays; off >= 1; off-- {
		if e := rec.EntryOn(daysAgo(ref, off)); e != nil {
			return e.MarketPrice, e.Date, round2(todayPrice - e.MarketPrice), true
		}
	}
	return 0, "", 0, false
}

// rankChanges filters by minimum price, sorts by the selected horizon's
// change-to-reference ratio descending, and truncates to the limit.
func rankChanges(changes []models.Change, q ChangeQuery) []models.Change {
	if q.MinPrice > 0 {
		kept := changes[:0]
		for _, c := range changes {
			if c.TodaysPrice > q.MinPrice {
				kept = append(kept, c)
			}
		}
		changes = kept
	}

	horizon := q.Sort
	if horizon == "" {
		horizon = models.HorizonMonthly
	}
	ratio := func(c models.Change) float64 {
		switch horizon {
		case models.HorizonDaily:
			if c.DailyChange == nil || c.YesterdaysPrice == nil ||
				*c.DailyChange == 0 || *c.YesterdaysPrice == 0 {
				return 0
			}
			return *c.DailyChange / *c.YesterdaysPrice
		case models.HorizonWeekly:
			if c.WeeklyChange == 0 || c.WeeklyRefPrice == 0 {
				return 0
			}
			return c.WeeklyChange / c.WeeklyRefPrice
		default:
			if c.MonthlyChange == 0 || c.MonthlyRefPrice == 0 {
				return 0
			}
			return c.MonthlyChange / c.MonthlyRefPrice
		}
	}
	sort.SliceStable(changes, func(i, j int) bool {
		return ratio(changes[i]) > ratio(changes[j])
	})

	if q.Limit > 0 && len(changes) > q.Limit {
		changes = changes[:q.Limit]
	}
	return changes
}
