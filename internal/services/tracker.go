package services

import (
	"context"
	"time"

	"github.com/codyseavey/cardwatch/internal/history"
	"github.com/codyseavey/cardwatch/internal/models"
)

// PriceSource is the upstream product/price data source. Implementations
// batch id lookups and throttle outbound calls; a fetch error is fatal to
// the operation that triggered it.
type PriceSource interface {
	SearchIDs(ctx context.Context, rarity models.Rarity, set string) ([]int, error)
	GetProductInfo(ctx context.Context, ids []int) ([]models.ProductInfo, error)
	GetPriceInfo(ctx context.Context, ids []int, cardType models.CardType) ([]models.PriceInfo, error)
}

// Tracker accumulates the price ledger and derives change, appreciation,
// and index metrics from it.
type Tracker struct {
	source PriceSource
	store  history.Store
	sets   []models.Set
	now    func() time.Time
}

// NewTracker creates a tracker over the given data source, ledger store, and
// set catalog.
func NewTracker(source PriceSource, store history.Store, sets []models.Set) *Tracker {
	return &Tracker{
		source: source,
		store:  store,
		sets:   sets,
		now:    time.Now,
	}
}

// Sets returns the set catalog the tracker was built with.
func (t *Tracker) Sets() []models.Set {
	return t.sets
}

// SearchIDs resolves one set/rarity's product ids through the data source.
func (t *Tracker) SearchIDs(ctx context.Context, rarity models.Rarity, set string) ([]int, error) {
	return t.source.SearchIDs(ctx, rarity, set)
}
