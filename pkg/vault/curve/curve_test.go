package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedRatio_HappyPath(t *testing.T) {
	// 2 lamports per token on the buy side, 1 on the sell side
	c := &FixedRatio{
		BuyRate:  Rate{Lamports: 2, Tokens: 1},
		SellRate: Rate{Lamports: 1, Tokens: 1},
	}

	cost, err := c.CostToBuy(State{}, 1_000_000)
	require.NoError(t, err)
	assert.EqualValues(t, 2_000_000, cost)

	proceeds, err := c.ProceedsFromSell(State{}, 1_000_000)
	require.NoError(t, err)
	assert.EqualValues(t, 1_000_000, proceeds)
}

func TestFixedRatio_Rounding(t *testing.T) {
	// 1 SOL = 100,000 tokens, the original program's hard-coded rate
	c := NewFixedRatio(Rate{Lamports: 1_000_000_000, Tokens: 100_000})

	cost, err := c.CostToBuy(State{}, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 10_000, cost)

	// A sub-lamport quote rounds up for buys and down for sells
	c = NewFixedRatio(Rate{Lamports: 1, Tokens: 3})

	cost, err = c.CostToBuy(State{}, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cost)

	proceeds, err := c.ProceedsFromSell(State{}, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 0, proceeds)
}

func TestFixedRatio_ZeroAmount(t *testing.T) {
	c := NewFixedRatio(Rate{Lamports: 2, Tokens: 1})

	_, err := c.CostToBuy(State{}, 0)
	assert.Equal(t, ErrZeroAmount, err)

	_, err = c.ProceedsFromSell(State{}, 0)
	assert.Equal(t, ErrZeroAmount, err)
}

func TestFixedRatio_Monotonicity(t *testing.T) {
	c := NewFixedRatio(Rate{Lamports: 7, Tokens: 3})

	var prevCost, prevProceeds uint64
	for amount := uint64(1); amount < 1_000; amount += 13 {
		cost, err := c.CostToBuy(State{}, amount)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, cost, prevCost)
		prevCost = cost

		proceeds, err := c.ProceedsFromSell(State{}, amount)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, proceeds, prevProceeds)
		prevProceeds = proceeds
	}
}

func TestExponential_Monotonicity(t *testing.T) {
	c := DefaultExponential()
	state := State{EscrowLamports: 5_000_000_000}

	var prevCost, prevProceeds uint64
	for _, amount := range []uint64{1_000_000_000, 10_000_000_000, 100_000_000_000, 1_000_000_000_000} {
		cost, err := c.CostToBuy(state, amount)
		require.NoError(t, err)
		assert.Greater(t, cost, prevCost)
		prevCost = cost

		proceeds, err := c.ProceedsFromSell(state, amount)
		require.NoError(t, err)
		assert.Greater(t, proceeds, prevProceeds)
		prevProceeds = proceeds
	}
}

func TestExponential_SpreadNeverFavorsRoundTrip(t *testing.T) {
	c := DefaultExponential()
	state := State{EscrowLamports: 1_000_000_000}

	// Buying then immediately selling the same amount never profits: the
	// sell is quoted against the pre-buy escrow, below the buy's cost.
	for _, amount := range []uint64{1_000_000_000, 50_000_000_000} {
		cost, err := c.CostToBuy(state, amount)
		require.NoError(t, err)

		proceeds, err := c.ProceedsFromSell(state, amount)
		require.NoError(t, err)

		assert.LessOrEqual(t, proceeds, cost)
	}
}

func TestExponential_PathIndependence(t *testing.T) {
	c := DefaultExponential()

	// One buy of 2x must cost the same as two consecutive buys of x,
	// modulo the per-instruction round-up.
	state := State{EscrowLamports: 0}
	const x = uint64(25_000_000_000)

	oneShot, err := c.CostToBuy(state, 2*x)
	require.NoError(t, err)

	first, err := c.CostToBuy(state, x)
	require.NoError(t, err)
	second, err := c.CostToBuy(State{EscrowLamports: state.EscrowLamports + first}, x)
	require.NoError(t, err)

	assert.InDelta(t, float64(oneShot), float64(first+second), 2)
}
