package models

import (
	"strconv"
	"strings"
)

// HistoryEntry is one recorded market price for a product on a calendar day.
// Date is a YYYY-MM-DD day string in the configured reference timezone.
type HistoryEntry struct {
	Date        string   `json:"date"`
	MarketPrice float64  `json:"marketPrice"`
	CardType    CardType `json:"cardType"`
}

// ProductRecord is the durable per-product price ledger. Name and Set are
// assigned on creation; Set may be back-filled if empty but is never
// overwritten once present. History holds at most one entry per date, in
// ingestion order. Callers must not assume the slice is sorted by date.
type ProductRecord struct {
	Name      string         `json:"name"`
	Set       string         `json:"set"`
	ProductID int            `json:"productId"`
	History   []HistoryEntry `json:"history"`
}

// EntryOn returns the history entry for the given day string, or nil.
func (r *ProductRecord) EntryOn(date string) *HistoryEntry {
	for i := range r.History {
		if r.History[i].Date == date {
			return &r.History[i]
		}
	}
	return nil
}

// HasDate reports whether an entry for the given day already exists.
func (r *ProductRecord) HasDate(date string) bool {
	return r.EntryOn(date) != nil
}

// History is the full price ledger keyed by product id string.
type History map[string]*ProductRecord

// ProductKey converts a numeric product id to its canonical ledger key.
func ProductKey(id int) string {
	return strconv.Itoa(id)
}

// Record returns the ledger record for a product id, or nil.
func (h History) Record(id int) *ProductRecord {
	return h[ProductKey(id)]
}

// NormalizeKeys migrates legacy composite keys ("<id>-<cardType>") to the
// canonical plain product-id scheme. Entries from a legacy record are
// appended to the canonical record, skipping dates already present; name and
// set are taken from the legacy record only when the canonical one is empty.
func (h History) NormalizeKeys() {
	for key, rec := range h {
		dash := strings.IndexByte(key, '-')
		if dash < 0 {
			continue
		}
		idPart := key[:dash]
		if _, err := strconv.Atoi(idPart); err != nil {
			continue
		}
		canonical, ok := h[idPart]
		if !ok {
			canonical = &ProductRecord{Name: rec.Name, Set: rec.Set, ProductID: rec.ProductID}
			h[idPart] = canonical
		}
		if canonical.Name == "" {
			canonical.Name = rec.Name
		}
		if canonical.Set == "" {
			canonical.Set = rec.Set
		}
		for _, entry := range rec.History {
			if !canonical.HasDate(entry.Date) {
				canonical.History = append(canonical.History, entry)
			}
		}
		delete(h, key)
	}
}
