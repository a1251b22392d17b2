package account

import (
	"time"

	"github.com/pkg/errors"
)

var (
	ErrNotFound = errors.New("no account records could be found")

	ErrInvalidRecord = errors.New("invalid account record")
)

// Record is the persisted state of a single on-chain account: its lamport
// balance plus its raw data payload. The program's instruction processor
// reads and writes these records; each instruction's full write set is saved
// in one atomic batch.
type Record struct {
	Id uint64

	Address string
	Owner   string

	Lamports uint64
	Data     []byte

	LastUpdatedAt time.Time
}

func (r *Record) Validate() error {
	if len(r.Address) == 0 {
		return errors.Wrap(ErrInvalidRecord, "address is required")
	}

	if len(r.Owner) == 0 {
		return errors.Wrap(ErrInvalidRecord, "owner is required")
	}

	return nil
}

func (r *Record) Clone() *Record {
	data := make([]byte, len(r.Data))
	copy(data, r.Data)

	return &Record{
		Id: r.Id,

		Address: r.Address,
		Owner:   r.Owner,

		Lamports: r.Lamports,
		Data:     data,

		LastUpdatedAt: r.LastUpdatedAt,
	}
}

func (r *Record) CopyTo(dst *Record) {
	dst.Id = r.Id

	dst.Address = r.Address
	dst.Owner = r.Owner

	dst.Lamports = r.Lamports
	dst.Data = make([]byte, len(r.Data))
	copy(dst.Data, r.Data)

	dst.LastUpdatedAt = r.LastUpdatedAt
}
