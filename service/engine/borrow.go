package engine

import (
	"context"

	"loanbook/core"
	"loanbook/internal/ledger"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// Borrow lends amount against the account's supplied collateral in the same
// asset and pays it out. The borrow must fit both the pool's liquidity and
// the collateral-factor limit after the new debt is counted.
func (e *Engine) Borrow(ctx context.Context, account, symbol string, amount decimal.Decimal) error {
	log := logger.FromContext(ctx).WithField("operation", "borrow")

	if err := e.acquire(); err != nil {
		return err
	}
	defer e.release()

	if !amount.IsPositive() {
		return core.ErrInvalidAmount
	}

	asset, err := e.activeAsset(symbol)
	if err != nil {
		return err
	}

	position := e.snapshotPosition(account, asset.Symbol)
	if err := ledger.Accrue(asset, position, e.now()); err != nil {
		return err
	}

	if amount.GreaterThan(asset.Liquidity()) {
		return core.ErrInsufficientLiquidity
	}

	if position.Borrowed, err = ledger.Add(position.Borrowed, amount); err != nil {
		return err
	}
	if asset.TotalBorrowed, err = ledger.Add(asset.TotalBorrowed, amount); err != nil {
		return err
	}

	price, err := e.price(ctx, asset)
	if err != nil {
		return err
	}

	if !ledger.IsWithinLimit(position.Supplied, position.Borrowed, price, asset.CollateralFactorBps) {
		return core.ErrHealthFactorTooLow
	}

	event := e.newPayoutEvent(core.EventBorrowed, core.TransferSourceBorrow, account, position, amount, nil)
	if err := e.transferOut(ctx, account, asset, amount, core.TransferSourceBorrow, event.TraceID); err != nil {
		return err
	}

	if err := e.commit(ctx, asset, []*core.Position{position}, event); err != nil {
		return err
	}

	log.Infof("%s borrowed %s %s", account, amount, asset.Symbol)
	return nil
}
