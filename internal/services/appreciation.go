package services

import (
	"context"
	"log"
	"sort"

	"github.com/codyseavey/cardwatch/internal/models"
)

// BestAppreciation ranks products across all catalog sets whose age in
// months falls within [minMonths, maxMonths] by market price normalized to
// months since the owning set's release. Normalizing by age lets an
// expensive old card and a cheap new card compete fairly. Results are
// deduplicated by product id (first occurrence wins), sorted descending by
// increase per month, and truncated to limit when nonzero.
func (t *Tracker) BestAppreciation(ctx context.Context, minMonths, maxMonths int, rarity models.Rarity, cardType models.CardType, limit int, minPrice float64) ([]models.MarketInfo, error) {
	var all []models.MarketInfo
	for _, set := range t.sets {
		months := monthsFromDate(set.Date, t.now())
		if months < minMonths || months > maxMonths {
			continue
		}
		info, err := t.aggregatePrices(ctx, set.Name, rarity, cardType, minPrice)
		if err != nil {
			return nil, err
		}
		all = append(all, info...)
	}

	seen := make(map[int]bool, len(all))
	unique := all[:0]
	for _, mi := range all {
		if seen[mi.ProductID] {
			continue
		}
		seen[mi.ProductID] = true
		unique = append(unique, mi)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].IncreasePerMonth > unique[j].IncreasePerMonth
	})
	if limit > 0 && len(unique) > limit {
		unique = unique[:limit]
	}
	return unique, nil
}

// aggregatePrices fetches the market info for every card of a rarity within
// one set, filtered to price > minPrice when minPrice is positive.
func (t *Tracker) aggregatePrices(ctx context.Context, set string, rarity models.Rarity, cardType models.CardType, minPrice float64) ([]models.MarketInfo, error) {
	setData := models.FindSet(t.sets, set)
	if setData == nil {
		log.Printf("Appreciation: set %q not in catalog, skipping", set)
		return nil, nil
	}
	months := monthsFromDate(setData.Date, t.now())
	if months <= 0 {
		// A set released under ~15 days ago has no meaningful per-month rate.
		log.Printf("Appreciation: set %q too recent for a monthly rate, skipping", set)
		return nil, nil
	}

	ids, err := t.source.SearchIDs(ctx, rarity, set)
	if err != nil {
		return nil, err
	}
	products, err := t.source.GetProductInfo(ctx, ids)
	if err != nil {
		return nil, err
	}
	prices, err := t.source.GetPriceInfo(ctx, ids, cardType)
	if err != nil {
		return nil, err
	}

	productByID := make(map[int]models.ProductInfo, len(products))
	for _, p := range products {
		productByID[p.ProductID] = p
	}
	priceByID := make(map[int]models.PriceInfo, len(prices))
	for _, p := range prices {
		priceByID[p.ProductID] = p
	}

	var info []models.MarketInfo
	var total float64
	for _, id := range ids {
		product, haveProduct := productByID[id]
		price, havePrice := priceByID[id]
		if !haveProduct || !havePrice {
			continue
		}
		if minPrice > 0 && price.MarketPrice <= minPrice {
			continue
		}
		info = append(info, models.MarketInfo{
			ProductID:        id,
			Name:             product.Name,
			Set:              set,
			MarketPrice:      price.MarketPrice,
			MonthsFromToday:  months,
			IncreasePerMonth: price.MarketPrice / float64(months),
		})
		total += price.MarketPrice
	}

	if len(info) > 0 {
		log.Printf("Appreciation: %s %s: %d cards, total $%.2f, average $%.2f",
			set, rarity, len(info), round2(total), round2(total/float64(len(info))))
	}
	return info, nil
}
