// Package curve defines the pricing strategies injected into the token vault
// instruction processor. The program leaves the bonding curve formula
// pluggable; implementations only need to honor the monotonicity contract
// below.
package curve

import "github.com/pkg/errors"

var (
	ErrZeroAmount     = errors.New("amount must be positive")
	ErrAmountTooLarge = errors.New("amount overflows pricing math")
)

// State is a snapshot of the balances a curve may price against, taken at
// the start of the instruction being priced.
type State struct {
	// VaultTokenBalance is the tradable supply remaining in the vault.
	VaultTokenBalance uint64

	// EscrowLamports is the lamport balance of the bonding curve escrow.
	EscrowLamports uint64
}

// Curve prices buys and sells. Both methods are monotonic in amount: a
// larger amount never yields a smaller total. CostToBuy and ProceedsFromSell
// need not be inverses, which allows asymmetric spreads.
type Curve interface {
	// CostToBuy returns the lamports a buyer pays for amount tokens.
	CostToBuy(state State, amount uint64) (uint64, error)

	// ProceedsFromSell returns the lamports a seller receives for amount
	// tokens. The quote may exceed the escrow balance; enforcing liquidity
	// is the processor's job.
	ProceedsFromSell(state State, amount uint64) (uint64, error)
}
