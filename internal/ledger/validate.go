package ledger

import (
	"loanbook/core"
)

// ValidateRiskParameters enforces the listing invariants:
// 0 <= borrowFactor <= collateralFactor <= 9000,
// collateralFactor < liquidationThreshold <= 10000.
func ValidateRiskParameters(params core.AssetParams) error {
	if params.CollateralFactorBps < 0 || params.CollateralFactorBps > CollateralFactorMaxBps {
		return core.ErrInvalidRiskParameters
	}

	if params.BorrowFactorBps < 0 || params.BorrowFactorBps > params.CollateralFactorBps {
		return core.ErrInvalidRiskParameters
	}

	if params.LiquidationThresholdBps <= params.CollateralFactorBps ||
		params.LiquidationThresholdBps > BpsBase {
		return core.ErrInvalidRiskParameters
	}

	if params.SupplyRateBpsPerYear < 0 || params.BorrowRateBpsPerYear < 0 {
		return core.ErrInvalidRiskParameters
	}

	return nil
}
