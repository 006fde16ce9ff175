package ledger

import (
	"math"

	"github.com/shopspring/decimal"
)

// CollateralValue supplied * price * thresholdBps / 10000
func CollateralValue(supplied, price decimal.Decimal, thresholdBps int64) decimal.Decimal {
	return MulBps(supplied.Mul(price), thresholdBps)
}

// IsWithinLimit reports whether the position stays solvent under the given
// threshold. A position with no debt is always healthy.
func IsWithinLimit(supplied, borrowed, price decimal.Decimal, thresholdBps int64) bool {
	if !borrowed.IsPositive() {
		return true
	}

	return CollateralValue(supplied, price, thresholdBps).
		GreaterThanOrEqual(borrowed.Mul(price))
}

// HealthFactor collateralValue * 10000 / debtValue in basis points, 10000 is
// break-even. MaxHealthFactor when there is no debt.
func HealthFactor(supplied, borrowed, price decimal.Decimal, collateralFactorBps int64) int64 {
	if !borrowed.IsPositive() {
		return MaxHealthFactor
	}

	debtValue := borrowed.Mul(price)
	if !debtValue.IsPositive() {
		return MaxHealthFactor
	}

	factor := CollateralValue(supplied, price, collateralFactorBps).
		Mul(bpsBase).
		Div(debtValue).
		Floor()
	if !factor.LessThan(decimal.NewFromInt(math.MaxInt64)) {
		return MaxHealthFactor
	}

	return factor.IntPart()
}
