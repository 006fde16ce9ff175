package ledger

import (
	"time"

	"loanbook/core"
	"loanbook/pkg/number"

	"github.com/shopspring/decimal"
)

// Accrue advances the position and the asset aggregates to now using simple
// interest. It mutates the passed records, so callers hand in clones and
// commit them only on success. The first observation of a position sets the
// accrual clock without minting interest; a second call with no elapsed time
// is a no-op.
func Accrue(asset *core.Asset, position *core.Position, now time.Time) error {
	ts := now.UTC().Unix()
	if position.LastAccrualTime == 0 {
		position.LastAccrualTime = ts
		return nil
	}

	elapsed := ts - position.LastAccrualTime
	if elapsed <= 0 {
		return nil
	}

	supplyInterest := interest(position.Supplied, asset.SupplyRateBpsPerYear, elapsed)
	borrowInterest := interest(position.Borrowed, asset.BorrowRateBpsPerYear, elapsed)

	var err error
	if supplyInterest.IsPositive() {
		if position.Supplied, err = Add(position.Supplied, supplyInterest); err != nil {
			return err
		}
		if asset.TotalSupplied, err = Add(asset.TotalSupplied, supplyInterest); err != nil {
			return err
		}
	}

	if borrowInterest.IsPositive() {
		// debt interest is backed by pool reserves, so accrual alone may
		// never push totalBorrowed past totalSupplied
		if liquidity := asset.Liquidity(); borrowInterest.GreaterThan(liquidity) {
			borrowInterest = liquidity
		}
	}

	if borrowInterest.IsPositive() {
		if position.Borrowed, err = Add(position.Borrowed, borrowInterest); err != nil {
			return err
		}
		if asset.TotalBorrowed, err = Add(asset.TotalBorrowed, borrowInterest); err != nil {
			return err
		}
	}

	position.LastAccrualTime = ts

	return nil
}

// interest = floor(balance * rateBps * elapsed / (10000 * secondsPerYear)),
// multiplications before the division
func interest(balance decimal.Decimal, rateBps, elapsed int64) decimal.Decimal {
	if !balance.IsPositive() || rateBps <= 0 {
		return decimal.Zero
	}

	raw := balance.
		Mul(decimal.NewFromInt(rateBps)).
		Mul(decimal.NewFromInt(elapsed)).
		Div(decimal.NewFromInt(BpsBase * SecondsPerYear))

	return number.Floor(raw, Precision)
}
