package engine

import (
	"context"

	"loanbook/core"
	"loanbook/internal/ledger"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// Withdraw debits amount from the account's supplied balance and pays it
// out. A withdrawal may not lend out reserves backing outstanding debt, and
// may not leave the account's own debt under-collateralized.
func (e *Engine) Withdraw(ctx context.Context, account, symbol string, amount decimal.Decimal) error {
	log := logger.FromContext(ctx).WithField("operation", "withdraw")

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

	if amount.GreaterThan(position.Supplied) {
		return core.ErrInsufficientSuppliedBalance
	}

	if amount.GreaterThan(asset.Liquidity()) {
		return core.ErrInsufficientLiquidity
	}

	if position.Supplied, err = ledger.Sub(position.Supplied, amount); err != nil {
		return err
	}
	if asset.TotalSupplied, err = ledger.Sub(asset.TotalSupplied, amount); err != nil {
		return err
	}

	if position.Borrowed.IsPositive() {
		price, err := e.price(ctx, asset)
		if err != nil {
			return err
		}

		if !ledger.IsWithinLimit(position.Supplied, position.Borrowed, price, asset.CollateralFactorBps) {
			return core.ErrHealthFactorTooLow
		}
	}

	event := e.newPayoutEvent(core.EventWithdrawn, core.TransferSourceWithdraw, account, position, amount, nil)
	if err := e.transferOut(ctx, account, asset, amount, core.TransferSourceWithdraw, event.TraceID); err != nil {
		return err
	}

	if err := e.commit(ctx, asset, []*core.Position{position}, event); err != nil {
		return err
	}

	log.Infof("%s withdrew %s %s", account, amount, asset.Symbol)
	return nil
}
