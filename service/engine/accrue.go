package engine

import (
	"context"

	"loanbook/core"
	"loanbook/internal/ledger"
)

// Accrue settles pending interest on one position without moving principal.
// Every balance operation accrues on its own; this exists so idle positions
// still get touched by the sweep worker.
func (e *Engine) Accrue(ctx context.Context, account, symbol string) error {
	if err := e.acquire(); err != nil {
		return err
	}
	defer e.release()

	asset, err := e.snapshotAsset(symbol)
	if err != nil {
		return err
	}

	position := e.snapshotPosition(account, asset.Symbol)
	if position.ID == 0 && !position.Supplied.IsPositive() && !position.Borrowed.IsPositive() {
		return nil
	}

	before := *position
	if err := ledger.Accrue(asset, position, e.now()); err != nil {
		return err
	}

	if position.LastAccrualTime == before.LastAccrualTime &&
		position.Supplied.Equal(before.Supplied) &&
		position.Borrowed.Equal(before.Borrowed) {
		return nil
	}

	return e.commit(ctx, asset, []*core.Position{position}, nil)
}
