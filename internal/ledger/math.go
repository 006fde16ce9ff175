package ledger

import (
	"loanbook/core"

	"github.com/shopspring/decimal"
)

// Add checked addition, fails instead of exceeding MaxAmount
func Add(a, b decimal.Decimal) (decimal.Decimal, error) {
	sum := a.Add(b)
	if sum.GreaterThan(MaxAmount) {
		return decimal.Zero, core.ErrArithmeticOverflow
	}

	return sum, nil
}

// Sub checked subtraction, fails instead of going negative
func Sub(a, b decimal.Decimal) (decimal.Decimal, error) {
	if b.GreaterThan(a) {
		return decimal.Zero, core.ErrArithmeticOverflow
	}

	return a.Sub(b), nil
}

// MulBps a * bps / 10000, multiplication before division. Values are not
// balances, so no range check here.
func MulBps(a decimal.Decimal, bps int64) decimal.Decimal {
	return a.Mul(decimal.NewFromInt(bps)).Div(bpsBase).Truncate(MaxPrecision)
}
