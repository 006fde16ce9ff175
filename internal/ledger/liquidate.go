package ledger

import (
	"loanbook/pkg/number"

	"github.com/shopspring/decimal"
)

// SeizeAmount collateral handed to the liquidator for repaying repayAmount of
// debt: the repaid value plus the liquidation bonus, denominated in the same
// asset so the price term cancels.
func SeizeAmount(repayAmount decimal.Decimal) decimal.Decimal {
	raw := repayAmount.
		Mul(decimal.NewFromInt(BpsBase + LiquidationBonusBps)).
		Div(bpsBase)

	return number.Floor(raw, Precision)
}
