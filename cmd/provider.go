package cmd

import (
	"time"

	"loanbook/core"
	"loanbook/service/engine"
	"loanbook/service/oracle"
	"loanbook/service/wallet"
	"loanbook/store/archive"
	"loanbook/store/asset"
	"loanbook/store/event"
	"loanbook/store/position"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideConfig() *core.Config {
	return &cfg
}

// ------------------store------------------------------------
func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

func provideAssetStore(db *db.DB) core.IAssetStore {
	return asset.New(db)
}

func providePositionStore(db *db.DB) core.IPositionStore {
	return position.New(db)
}

func provideEventStore(db *db.DB) core.IEventStore {
	return event.New(db)
}

func provideLedgerArchive(db *db.DB, assetStore core.IAssetStore, positionStore core.IPositionStore, eventStore core.IEventStore) core.ILedgerArchive {
	return archive.New(db, assetStore, positionStore, eventStore)
}

// ------------------service------------------------------------
func provideOracle() core.IPriceOracle {
	upstream := oracle.New(provideConfig())

	exp := time.Duration(cfg.Oracle.CacheSeconds) * time.Second
	if exp <= 0 {
		exp = 10 * time.Second
	}

	return oracle.Cache(upstream, exp)
}

func provideTransferService() core.ITransferService {
	return wallet.New(provideConfig())
}

func provideEngine(db *db.DB) core.ILendingEngine {
	assetStore := provideAssetStore(db)
	positionStore := providePositionStore(db)
	eventStore := provideEventStore(db)

	return engine.New(
		assetStore,
		positionStore,
		provideLedgerArchive(db, assetStore, positionStore, eventStore),
		provideOracle(),
		provideTransferService(),
	)
}
