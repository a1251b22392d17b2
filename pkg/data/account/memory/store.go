package memory

import (
	"context"
	"sync"
	"time"

	"github.com/code-payments/vault-server/pkg/data/account"
)

type store struct {
	mu      sync.Mutex
	records []*account.Record
	last    uint64
}

// New returns a new in memory account.Store
func New() account.Store {
	return &store{}
}

// Save implements account.Store.Save
func (s *store) Save(_ context.Context, records ...*account.Record) error {
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Validation passed for the entire batch, so every update below succeeds
	// and the batch applies atomically under the lock.
	for _, record := range records {
		if item := s.find(record.Address); item != nil {
			item.Owner = record.Owner
			item.Lamports = record.Lamports
			item.Data = make([]byte, len(record.Data))
			copy(item.Data, record.Data)
			item.LastUpdatedAt = time.Now()

			item.CopyTo(record)
		} else {
			s.last++
			if record.Id == 0 {
				record.Id = s.last
			}
			record.LastUpdatedAt = time.Now()
			s.records = append(s.records, record.Clone())
		}
	}

	return nil
}

// GetByAddress implements account.Store.GetByAddress
func (s *store) GetByAddress(_ context.Context, address string) (*account.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item := s.find(address); item != nil {
		return item.Clone(), nil
	}
	return nil, account.ErrNotFound
}

// GetAllByOwner implements account.Store.GetAllByOwner
func (s *store) GetAllByOwner(_ context.Context, owner string) ([]*account.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res []*account.Record
	for _, item := range s.records {
		if item.Owner == owner {
			res = append(res, item.Clone())
		}
	}

	if len(res) == 0 {
		return nil, account.ErrNotFound
	}
	return res, nil
}

// CountByOwner implements account.Store.CountByOwner
func (s *store) CountByOwner(_ context.Context, owner string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count uint64
	for _, item := range s.records {
		if item.Owner == owner {
			count++
		}
	}
	return count, nil
}

func (s *store) find(address string) *account.Record {
	for _, item := range s.records {
		if item.Address == address {
			return item
		}
	}
	return nil
}

func (s *store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.last = 0
}
