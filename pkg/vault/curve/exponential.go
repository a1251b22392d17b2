package curve

import (
	"math"
	"math/big"
)

const (
	DefaultCurveAString     = "11400230149967394933471" // 11400.230149967394933471
	DefaultCurveBString     = "877175273521"            // 0.000000877175273521
	DefaultCurveScaleString = "1000000000000000000"     // 10^18

	defaultCurvePrec = 128
)

// Exponential prices against the spot curve p(s) = a*b*e^(c*s), where s is
// the supply sold so far. The supply is never tracked directly: the value
// locked in the escrow determines it, since v = (a*b/c)*(e^(c*s) - 1).
//
// Cost and proceeds are the exact integrals of the curve, so consecutive
// small buys cost the same as one large buy.
type Exponential struct {
	k *big.Float // a*b/c
	c *big.Float

	tokenScale *big.Float
	valueScale *big.Float
}

// NewExponential constructs a curve from raw parameters. tokenDecimals and
// valueDecimals scale base units into whole tokens and whole currency units
// before the curve math is applied.
func NewExponential(a, b, c *big.Float, tokenDecimals, valueDecimals int) *Exponential {
	k := new(big.Float).Quo(new(big.Float).Mul(a, b), c)
	return &Exponential{
		k:          k,
		c:          c,
		tokenScale: big.NewFloat(math.Pow10(tokenDecimals)).SetPrec(defaultCurvePrec),
		valueScale: big.NewFloat(math.Pow10(valueDecimals)).SetPrec(defaultCurvePrec),
	}
}

// DefaultExponential returns a curve using the default parameters, pricing
// 9-decimal tokens in lamports.
func DefaultExponential() *Exponential {
	scale, ok := new(big.Float).SetPrec(defaultCurvePrec).SetString(DefaultCurveScaleString)
	if !ok {
		panic("invalid scale string")
	}

	aInt, _ := new(big.Int).SetString(DefaultCurveAString, 10)
	bInt, _ := new(big.Int).SetString(DefaultCurveBString, 10)

	a := new(big.Float).Quo(new(big.Float).SetPrec(defaultCurvePrec).SetInt(aInt), scale)
	b := new(big.Float).Quo(new(big.Float).SetPrec(defaultCurvePrec).SetInt(bInt), scale)
	c := new(big.Float).Copy(b)

	return NewExponential(a, b, c, 9, 9)
}

func (curve *Exponential) CostToBuy(state State, amount uint64) (uint64, error) {
	if amount == 0 {
		return 0, ErrZeroAmount
	}

	v := curve.scaledValue(state.EscrowLamports)
	delta := new(big.Float).Quo(newFloat(amount), curve.tokenScale)

	// cost = (k + v) * (e^(c*delta) - 1)
	exp := expBig(new(big.Float).Mul(curve.c, delta))
	cost := new(big.Float).Mul(
		new(big.Float).Add(curve.k, v),
		new(big.Float).Sub(exp, big.NewFloat(1)),
	)

	return ceilUint64(new(big.Float).Mul(cost, curve.valueScale))
}

func (curve *Exponential) ProceedsFromSell(state State, amount uint64) (uint64, error) {
	if amount == 0 {
		return 0, ErrZeroAmount
	}

	v := curve.scaledValue(state.EscrowLamports)
	delta := new(big.Float).Quo(newFloat(amount), curve.tokenScale)

	// proceeds = (k + v) * (1 - e^(-c*delta))
	exp := expBig(new(big.Float).Neg(new(big.Float).Mul(curve.c, delta)))
	proceeds := new(big.Float).Mul(
		new(big.Float).Add(curve.k, v),
		new(big.Float).Sub(big.NewFloat(1), exp),
	)

	return floorUint64(new(big.Float).Mul(proceeds, curve.valueScale))
}

func (curve *Exponential) scaledValue(lamports uint64) *big.Float {
	return new(big.Float).Quo(newFloat(lamports), curve.valueScale)
}

func newFloat(v uint64) *big.Float {
	return new(big.Float).SetPrec(defaultCurvePrec).SetUint64(v)
}

func ceilUint64(f *big.Float) (uint64, error) {
	v, err := floorUint64(f)
	if err != nil {
		return 0, err
	}
	if f.Cmp(newFloat(v)) > 0 {
		v++
	}
	return v, nil
}

func floorUint64(f *big.Float) (uint64, error) {
	v, accuracy := f.Uint64()
	if v == math.MaxUint64 && accuracy == big.Below {
		return 0, ErrAmountTooLarge
	}
	return v, nil
}

func expBig(x *big.Float) *big.Float {
	prec := x.Prec()
	if prec == 0 {
		prec = defaultCurvePrec
	}
	result := big.NewFloat(1).SetPrec(prec)
	term := big.NewFloat(1).SetPrec(prec)
	for i := 1; i < 1000; i++ {
		term = term.Mul(term, x)
		term = term.Quo(term, big.NewFloat(float64(i)))
		old := new(big.Float).Copy(result)
		result = result.Add(result, term)
		if term.Cmp(new(big.Float).SetFloat64(0)) == 0 {
			break
		}
		if old.Cmp(result) == 0 {
			break
		}
	}
	return result
}
