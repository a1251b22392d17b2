package curve

import "math/bits"

// Rate is a lamports-per-tokens exchange rate expressed as a fraction, so
// sub-lamport per-token prices remain exact.
type Rate struct {
	Lamports uint64
	Tokens   uint64
}

// FixedRatio is a linear curve with independent buy and sell rates. It
// models the original program's hard-coded exchange rate (1 SOL = 100,000
// tokens) and supports a spread by pricing the two sides differently.
//
// Buys round up and sells round down, so rounding never drains the escrow.
type FixedRatio struct {
	BuyRate  Rate
	SellRate Rate
}

// NewFixedRatio returns a symmetric fixed-ratio curve.
func NewFixedRatio(rate Rate) *FixedRatio {
	return &FixedRatio{
		BuyRate:  rate,
		SellRate: rate,
	}
}

func (c *FixedRatio) CostToBuy(_ State, amount uint64) (uint64, error) {
	if amount == 0 {
		return 0, ErrZeroAmount
	}
	return mulDiv(amount, c.BuyRate.Lamports, c.BuyRate.Tokens, true)
}

func (c *FixedRatio) ProceedsFromSell(_ State, amount uint64) (uint64, error) {
	if amount == 0 {
		return 0, ErrZeroAmount
	}
	return mulDiv(amount, c.SellRate.Lamports, c.SellRate.Tokens, false)
}

func mulDiv(amount, num, den uint64, roundUp bool) (uint64, error) {
	hi, lo := bits.Mul64(amount, num)
	if hi >= den {
		return 0, ErrAmountTooLarge
	}

	quo, rem := bits.Div64(hi, lo, den)
	if roundUp && rem > 0 {
		if quo == 1<<64-1 {
			return 0, ErrAmountTooLarge
		}
		quo++
	}
	return quo, nil
}
