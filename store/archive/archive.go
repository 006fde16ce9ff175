package archive

import (
	"context"

	"loanbook/core"

	"github.com/fox-one/pkg/store/db"
)

type ledgerArchive struct {
	db            *db.DB
	assetStore    core.IAssetStore
	positionStore core.IPositionStore
	eventStore    core.IEventStore
}

// New ledger archive writing each change set in one transaction. A row that
// was never committed before is created, anything else goes through the
// versioned update.
func New(db *db.DB, assetStore core.IAssetStore, positionStore core.IPositionStore, eventStore core.IEventStore) core.ILedgerArchive {
	return &ledgerArchive{
		db:            db,
		assetStore:    assetStore,
		positionStore: positionStore,
		eventStore:    eventStore,
	}
}

func (a *ledgerArchive) Commit(ctx context.Context, set *core.ChangeSet) error {
	return a.db.Tx(func(tx *db.DB) error {
		if asset := set.Asset; asset != nil {
			if asset.ID == 0 {
				if err := a.assetStore.Save(ctx, tx, asset); err != nil {
					return err
				}
			} else {
				if err := a.assetStore.Update(ctx, tx, asset); err != nil {
					return err
				}
			}
		}

		for _, position := range set.Positions {
			if position.ID == 0 {
				if err := a.positionStore.Save(ctx, tx, position); err != nil {
					return err
				}
			} else {
				if err := a.positionStore.Update(ctx, tx, position); err != nil {
					return err
				}
			}
		}

		if set.Event != nil {
			if err := a.eventStore.Create(ctx, tx, set.Event); err != nil {
				return err
			}
		}

		return nil
	})
}
