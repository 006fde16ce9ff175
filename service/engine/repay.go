package engine

import (
	"context"

	"loanbook/core"
	"loanbook/internal/ledger"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

type repayExtra struct {
	Requested string `structs:"requested"`
}

// Repay settles debt up to the outstanding borrowed balance after accrual.
// An overpayment is clipped, never applied; repaying stays open on inactive
// assets so positions can always unwind.
func (e *Engine) Repay(ctx context.Context, account, symbol string, amount decimal.Decimal) error {
	log := logger.FromContext(ctx).WithField("operation", "repay")

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

	repayAmount := decimal.Min(amount, position.Borrowed)

	if position.Borrowed, err = ledger.Sub(position.Borrowed, repayAmount); err != nil {
		return err
	}
	if asset.TotalBorrowed, err = ledger.Sub(asset.TotalBorrowed, repayAmount); err != nil {
		return err
	}

	event := e.newEvent(core.EventRepaid, account, asset.Symbol, repayAmount, repayExtra{
		Requested: amount.String(),
	})
	if err := e.commit(ctx, asset, []*core.Position{position}, event); err != nil {
		return err
	}

	log.Infof("%s repaid %s %s", account, repayAmount, asset.Symbol)
	return nil
}
