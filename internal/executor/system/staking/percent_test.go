package staking

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercent_Apply(t *testing.T) {
	testcases := []struct {
		name      string
		percent   Percent
		amount    int64
		intervals uint64
		expected  string
	}{
		{name: "20 percent", percent: Percent{Mantissa: 2, Exponent: 1}, amount: 50, intervals: 1, expected: "10"},
		{name: "linear", percent: Percent{Mantissa: 2, Exponent: 1}, amount: 50, intervals: 4, expected: "40"},
		{name: "truncated once", percent: Percent{Mantissa: 5, Exponent: -2}, amount: 50, intervals: 100, expected: "2"},
		{name: "truncated to zero", percent: Percent{Mantissa: 2, Exponent: 1}, amount: 1, intervals: 1, expected: "0"},
		{name: "no interval", percent: Percent{Mantissa: 2, Exponent: 1}, amount: 50, intervals: 0, expected: "0"},
		{name: "zero percent", percent: Percent{}, amount: 50, intervals: 10, expected: "0"},
		{name: "fraction of percent", percent: Percent{Mantissa: 15, Exponent: -1}, amount: 1000, intervals: 3, expected: "45"},
		{name: "over hundred percent", percent: Percent{Mantissa: 3, Exponent: 2}, amount: 7, intervals: 2, expected: "42"},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.percent.Apply(big.NewInt(tc.amount), tc.intervals).String())
		})
	}
}

func TestPercent_Apply_LargeAmount(t *testing.T) {
	amount, ok := new(big.Int).SetString("1000000000000000000000000", 10)
	assert.True(t, ok)
	reward := Percent{Mantissa: 1, Exponent: -18}.Apply(amount, 1)
	assert.Equal(t, "10000", reward.String())
}

func TestPercent_Rat(t *testing.T) {
	assert.Equal(t, "1/5", Percent{Mantissa: 2, Exponent: 1}.Rat().String())
	assert.Equal(t, "1/2000", Percent{Mantissa: 5, Exponent: -2}.Rat().String())
	assert.Equal(t, "2e1%", Percent{Mantissa: 2, Exponent: 1}.String())

	assert.ErrorIs(t, Percent{Mantissa: -1}.Validate(), ErrInvalidAmount)
	assert.Nil(t, Percent{}.Validate())
}
