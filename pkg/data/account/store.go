package account

import (
	"context"
)

type Store interface {
	// Save upserts the provided account records atomically. Either every
	// record is persisted or none are; a partially applied batch is never
	// observable.
	Save(ctx context.Context, records ...*Record) error

	// GetByAddress gets an account record by its address
	GetByAddress(ctx context.Context, address string) (*Record, error)

	// GetAllByOwner gets all account records owned by the provided program
	// or authority. ErrNotFound is returned if there are none.
	GetAllByOwner(ctx context.Context, owner string) ([]*Record, error)

	// CountByOwner gets the count of account records owned by the provided
	// program or authority
	CountByOwner(ctx context.Context, owner string) (uint64, error)
}
