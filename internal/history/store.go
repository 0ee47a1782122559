// Package history persists the per-product price ledger. The contract is
// load-wholesale / save-wholesale with last-writer-wins: the ledger is read
// into memory, mutated by ingestion, and written back in a single save.
// Idempotent per-day appends are enforced by the ingestion layer; both
// backends preserve them at rest.
package history

import "github.com/codyseavey/cardwatch/internal/models"

// Store is the ledger persistence abstraction. Implementations assume a
// single process and a single run at a time; there is no cross-process
// locking.
type Store interface {
	Load() (models.History, error)
	Save(models.History) error
}
