package services

import (
	"context"
	"log"
	"time"

	"github.com/codyseavey/cardwatch/internal/metrics"
	"github.com/codyseavey/cardwatch/internal/models"
)

// Ingest fetches current prices and product metadata for the given cards and
// appends at most one ledger entry per product for asOf's calendar day.
// Products missing either a price or a product result are skipped silently;
// an upstream fetch failure aborts the whole call. The full ledger is
// persisted once per call. The updated in-memory ledger is returned.
func (t *Tracker) Ingest(ctx context.Context, cards []models.CardRef, cardType models.CardType, asOf time.Time) (models.History, error) {
	h, err := t.store.Load()
	if err != nil {
		return nil, err
	}
	if _, err := t.ingestInto(ctx, h, cards, cardType, asOf); err != nil {
		return nil, err
	}
	if err := t.store.Save(h); err != nil {
		return nil, err
	}
	return h, nil
}

// ingestInto merges freshly fetched data for cards into an already-loaded
// ledger without saving, so callers processing several batches can persist
// once at the end. Returns the number of entries appended.
func (t *Tracker) ingestInto(ctx context.Context, h models.History, cards []models.CardRef, cardType models.CardType, asOf time.Time) (int, error) {
	start := time.Now()
	ids := make([]int, len(cards))
	for i, card := range cards {
		ids[i] = card.ID
	}

	prices, err := t.source.GetPriceInfo(ctx, ids, cardType)
	if err != nil {
		return 0, err
	}
	products, err := t.source.GetProductInfo(ctx, ids)
	if err != nil {
		return 0, err
	}

	priceByID := make(map[int]models.PriceInfo, len(prices))
	for _, p := range prices {
		if _, ok := priceByID[p.ProductID]; !ok {
			priceByID[p.ProductID] = p
		}
	}
	productByID := make(map[int]models.ProductInfo, len(products))
	for _, p := range products {
		if _, ok := productByID[p.ProductID]; !ok {
			productByID[p.ProductID] = p
		}
	}

	day := DayString(asOf)
	added := 0
	for _, card := range cards {
		price, havePrice := priceByID[card.ID]
		product, haveProduct := productByID[card.ID]
		if !havePrice || !haveProduct {
			continue
		}

		rec := h.Record(card.ID)
		if rec == nil {
			rec = &models.ProductRecord{
				Name:      product.Name,
				Set:       card.Set,
				ProductID: card.ID,
			}
			h[models.ProductKey(card.ID)] = rec
		}
		// Back-fill a missing set, but never overwrite one already assigned.
		if rec.Set == "" {
			rec.Set = card.Set
		}
		if rec.HasDate(day) {
			continue
		}
		rec.History = append(rec.History, models.HistoryEntry{
			Date:        day,
			MarketPrice: price.MarketPrice,
			CardType:    cardType,
		})
		added++
	}

	if added > 0 {
		log.Printf("Ingest: appended %d entries for %s (%d cards requested)", added, day, len(cards))
	}
	metrics.EntriesAppendedTotal.Add(float64(added))
	metrics.IngestBatchDuration.Observe(time.Since(start).Seconds())
	return added, nil
}
