package engine

import (
	"context"

	"loanbook/core"
	"loanbook/internal/ledger"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// Supply credits amount to the account's supplied balance. The funds are
// assumed already collected by the caller boundary.
func (e *Engine) Supply(ctx context.Context, account, symbol string, amount decimal.Decimal) error {
	log := logger.FromContext(ctx).WithField("operation", "supply")

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

	if position.Supplied, err = ledger.Add(position.Supplied, amount); err != nil {
		return err
	}
	if asset.TotalSupplied, err = ledger.Add(asset.TotalSupplied, amount); err != nil {
		return err
	}

	event := e.newEvent(core.EventSupplied, account, asset.Symbol, amount, nil)
	if err := e.commit(ctx, asset, []*core.Position{position}, event); err != nil {
		return err
	}

	log.Infof("%s supplied %s %s", account, amount, asset.Symbol)
	return nil
}
