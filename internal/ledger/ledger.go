package ledger

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	// BpsBase basis-point scale, 10000 = 1.0
	BpsBase int64 = 10000
	// SecondsPerYear fixed year length for simple interest
	SecondsPerYear int64 = 365 * 86400
	// CollateralFactorMaxBps upper bound on the collateral factor
	CollateralFactorMaxBps int64 = 9000
	// LiquidationBonusBps liquidator premium over the repaid value
	LiquidationBonusBps int64 = 1000
	// MaxHealthFactor sentinel for positions with no debt
	MaxHealthFactor int64 = math.MaxInt64
	// Precision native token precision, balances are truncated to it
	Precision int32 = 8
	// MaxPrecision precision kept on intermediate values
	MaxPrecision int32 = 16
)

var (
	// MaxAmount largest representable balance; the decimal(20,8) storage
	// columns overflow past it
	MaxAmount = decimal.New(1, 12)

	bpsBase = decimal.NewFromInt(BpsBase)
)
