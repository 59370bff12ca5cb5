package staking

import (
	"fmt"
	"math/big"
)

// rewards percent is a percent of the stake, so the rate is divided by 100 once more
const percentDenominator = 100

// Percent is mantissa x 10^exponent percent.
type Percent struct {
	Mantissa int64 `json:"mantissa"`
	Exponent int8  `json:"exponent"`
}

func (p Percent) Validate() error {
	if p.Mantissa < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Rat returns the exact rate per interval, 20% is 1/5.
func (p Percent) Rat() *big.Rat {
	num, den := p.fraction()
	return new(big.Rat).SetFrac(num, den)
}

// Apply returns trunc(amount x mantissa x 10^exponent x intervals / 100), truncated once.
func (p Percent) Apply(amount *big.Int, intervals uint64) *big.Int {
	num, den := p.fraction()
	num.Mul(num, amount)
	num.Mul(num, new(big.Int).SetUint64(intervals))
	return num.Quo(num, den)
}

func (p Percent) fraction() (num *big.Int, den *big.Int) {
	num = big.NewInt(p.Mantissa)
	den = big.NewInt(percentDenominator)

	exp := int64(p.Exponent)
	if exp < 0 {
		exp = -exp
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(exp), nil)
	if p.Exponent >= 0 {
		num.Mul(num, scale)
	} else {
		den.Mul(den, scale)
	}
	return num, den
}

func (p Percent) String() string {
	return fmt.Sprintf("%de%d%%", p.Mantissa, p.Exponent)
}
