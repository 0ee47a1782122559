package services

import (
	"context"
	"time"

	"github.com/codyseavey/cardwatch/internal/models"
)

// fakeSource serves canned search, product, and price data.
type fakeSource struct {
	searchIDs map[string][]int // keyed set + "-" + rarity
	products  map[int]models.ProductInfo
	prices    map[int]models.PriceInfo

	searchErr  error
	productErr error
	priceErr   error

	searchCalls  int
	productCalls int
	priceCalls   int
}

func (f *fakeSource) SearchIDs(_ context.Context, rarity models.Rarity, set string) ([]int, error) {
	f.searchCalls++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchIDs[set+"-"+string(rarity)], nil
}

func (f *fakeSource) GetProductInfo(_ context.Context, ids []int) ([]models.ProductInfo, error) {
	f.productCalls++
	if f.productErr != nil {
		return nil, f.productErr
	}
	var out []models.ProductInfo
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeSource) GetPriceInfo(_ context.Context, ids []int, cardType models.CardType) ([]models.PriceInfo, error) {
	f.priceCalls++
	if f.priceErr != nil {
		return nil, f.priceErr
	}
	var out []models.PriceInfo
	for _, id := range ids {
		p, ok := f.prices[id]
		if !ok {
			continue
		}
		if cardType != "" && p.SubTypeName != cardType {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// memoryStore keeps the ledger in memory and counts persistence calls.
type memoryStore struct {
	h       models.History
	loadErr error
	saveErr error
	saves   int
}

func (s *memoryStore) Load() (models.History, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.h == nil {
		s.h = models.History{}
	}
	return s.h, nil
}

func (s *memoryStore) Save(h models.History) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.h = h
	s.saves++
	return nil
}

func newTestTracker(source *fakeSource, store *memoryStore, sets []models.Set, now time.Time) *Tracker {
	tr := NewTracker(source, store, sets)
	tr.now = func() time.Time { return now }
	return tr
}

func day(s string) time.Time {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr(v float64) *float64 { return &v }
