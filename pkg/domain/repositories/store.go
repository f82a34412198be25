package repositories

import "context"

// Store groups the repositories of one datastore.
type Store interface {
	PartRepository
	BOMRepository
	InventoryRepository
	BuildRepository

	// WithinTx runs fn against a transactional view of the store. Every write
	// made through tx is discarded when fn returns an error.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
