package engine

import (
	"context"

	"loanbook/core"
	"loanbook/internal/ledger"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

type liquidateExtra struct {
	Liquidator string `structs:"liquidator"`
	Seized     string `structs:"seized"`
	Requested  string `structs:"requested"`
}

// Liquidate lets a third party repay an unhealthy position's debt and seize
// the matching collateral plus the liquidation bonus. The position must sit
// below the liquidation threshold at the current price; the repayment is
// assumed already collected from the liquidator by the caller boundary.
func (e *Engine) Liquidate(ctx context.Context, liquidator, account, symbol string, amount decimal.Decimal) error {
	log := logger.FromContext(ctx).WithField("operation", "liquidate")

	if err := e.acquire(); err != nil {
		return err
	}
	defer e.release()

	if !amount.IsPositive() {
		return core.ErrInvalidAmount
	}

	asset, err := e.snapshotAsset(symbol)
	if err != nil {
		return err
	}

	position := e.snapshotPosition(account, asset.Symbol)
	if err := ledger.Accrue(asset, position, e.now()); err != nil {
		return err
	}

	if !position.Borrowed.IsPositive() {
		return core.ErrNoOutstandingDebt
	}

	price, err := e.price(ctx, asset)
	if err != nil {
		return err
	}

	if ledger.IsWithinLimit(position.Supplied, position.Borrowed, price, asset.LiquidationThresholdBps) {
		return core.ErrPositionHealthy
	}

	repayAmount := decimal.Min(amount, position.Borrowed)
	seized := ledger.SeizeAmount(repayAmount)

	if seized.GreaterThan(position.Supplied) {
		return core.ErrInsufficientCollateral
	}

	// the bonus part of the seizure is paid out of pool reserves
	if seized.Sub(repayAmount).GreaterThan(asset.Liquidity()) {
		return core.ErrInsufficientLiquidity
	}

	if position.Borrowed, err = ledger.Sub(position.Borrowed, repayAmount); err != nil {
		return err
	}
	if asset.TotalBorrowed, err = ledger.Sub(asset.TotalBorrowed, repayAmount); err != nil {
		return err
	}
	if position.Supplied, err = ledger.Sub(position.Supplied, seized); err != nil {
		return err
	}
	if asset.TotalSupplied, err = ledger.Sub(asset.TotalSupplied, seized); err != nil {
		return err
	}

	event := e.newPayoutEvent(core.EventLiquidated, core.TransferSourceSeize, liquidator, position, repayAmount, liquidateExtra{
		Liquidator: liquidator,
		Seized:     seized.String(),
		Requested:  amount.String(),
	})
	if err := e.transferOut(ctx, liquidator, asset, seized, core.TransferSourceSeize, event.TraceID); err != nil {
		return err
	}

	if err := e.commit(ctx, asset, []*core.Position{position}, event); err != nil {
		return err
	}

	log.Infof("%s liquidated %s %s of %s, seized %s", liquidator, repayAmount, asset.Symbol, account, seized)
	return nil
}
