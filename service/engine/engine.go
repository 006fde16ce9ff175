package engine

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"loanbook/core"
	"loanbook/internal/ledger"
	"loanbook/pkg/id"

	"github.com/fatih/structs"
	"github.com/fox-one/pkg/logger"
	foxuuid "github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"
)

type positionKey struct {
	account string
	symbol  string
}

// Engine owns the asset and position maps. All balance-mutating operations
// run under a call-scoped busy flag and commit through the archive before the
// in-memory state is swapped, so a failure at any point leaves both storage
// and memory untouched. Reads serve the latest committed state under a
// read lock only.
type Engine struct {
	assetStore    core.IAssetStore
	positionStore core.IPositionStore
	archive       core.ILedgerArchive
	oracle        core.IPriceOracle
	transfers     core.ITransferService

	mu        sync.RWMutex
	assets    map[string]*core.Asset
	order     []string
	positions map[positionKey]*core.Position

	busy int32
	now  func() time.Time
}

// New new lending engine
func New(
	assetStore core.IAssetStore,
	positionStore core.IPositionStore,
	archive core.ILedgerArchive,
	oracle core.IPriceOracle,
	transfers core.ITransferService,
) *Engine {
	return &Engine{
		assetStore:    assetStore,
		positionStore: positionStore,
		archive:       archive,
		oracle:        oracle,
		transfers:     transfers,
		assets:        make(map[string]*core.Asset),
		positions:     make(map[positionKey]*core.Position),
		now:           time.Now,
	}
}

// WithClock overrides the engine clock for deterministic tests.
func (e *Engine) WithClock(clock func() time.Time) *Engine {
	if clock != nil {
		e.now = clock
	}
	return e
}

// Load hydrates the maps from storage, assets in registration order.
func (e *Engine) Load(ctx context.Context) error {
	assets, err := e.assetStore.All(ctx)
	if err != nil {
		return err
	}

	positions, err := e.positionStore.All(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.assets = make(map[string]*core.Asset, len(assets))
	e.order = make([]string, 0, len(assets))
	for _, asset := range assets {
		e.assets[asset.Symbol] = asset
		e.order = append(e.order, asset.Symbol)
	}

	e.positions = make(map[positionKey]*core.Position, len(positions))
	for _, position := range positions {
		e.positions[positionKey{position.Account, position.Symbol}] = position
	}

	return nil
}

func (e *Engine) ListAssetIDs(ctx context.Context) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ids := make([]string, len(e.order))
	copy(ids, e.order)
	return ids
}

func (e *Engine) GetAsset(ctx context.Context, symbol string) (*core.Asset, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	asset, ok := e.assets[normalize(symbol)]
	if !ok {
		return nil, core.ErrUnknownAsset
	}

	return asset.Clone(), nil
}

// GetPosition returns the stored balances. A pair that was never touched
// reads as an empty position, not an error.
func (e *Engine) GetPosition(ctx context.Context, account, symbol string) (*core.Position, error) {
	symbol = normalize(symbol)

	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, ok := e.assets[symbol]; !ok {
		return nil, core.ErrUnknownAsset
	}

	if position, ok := e.positions[positionKey{account, symbol}]; ok {
		return position.Clone(), nil
	}

	return &core.Position{Account: account, Symbol: symbol}, nil
}

func (e *Engine) GetHealthFactor(ctx context.Context, account, symbol string) (int64, error) {
	symbol = normalize(symbol)

	e.mu.RLock()
	asset, ok := e.assets[symbol]
	if ok {
		asset = asset.Clone()
	}
	position, haspos := e.positions[positionKey{account, symbol}]
	if haspos {
		position = position.Clone()
	}
	e.mu.RUnlock()

	if !ok {
		return 0, core.ErrUnknownAsset
	}

	if !haspos || !position.Borrowed.IsPositive() {
		return ledger.MaxHealthFactor, nil
	}

	price, err := e.price(ctx, asset)
	if err != nil {
		return 0, err
	}

	return ledger.HealthFactor(position.Supplied, position.Borrowed, price, asset.CollateralFactorBps), nil
}

// acquire rejects any second balance-mutating entry, re-entrant or
// concurrent, while a call is in flight.
func (e *Engine) acquire() error {
	if !atomic.CompareAndSwapInt32(&e.busy, 0, 1) {
		return core.ErrReentrantCall
	}
	return nil
}

func (e *Engine) release() {
	atomic.StoreInt32(&e.busy, 0)
}

// snapshotAsset clone of a listed asset
func (e *Engine) snapshotAsset(symbol string) (*core.Asset, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	asset, ok := e.assets[normalize(symbol)]
	if !ok {
		return nil, core.ErrUnknownAsset
	}

	return asset.Clone(), nil
}

// activeAsset clone of a listed asset open for supply/borrow/withdraw
func (e *Engine) activeAsset(symbol string) (*core.Asset, error) {
	asset, err := e.snapshotAsset(symbol)
	if err != nil {
		return nil, err
	}

	if !asset.IsActive {
		return nil, core.ErrInactiveAsset
	}

	return asset, nil
}

// snapshotPosition clone of the stored position, or a fresh zero position
func (e *Engine) snapshotPosition(account, symbol string) *core.Position {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if position, ok := e.positions[positionKey{account, symbol}]; ok {
		return position.Clone()
	}

	return &core.Position{Account: account, Symbol: symbol}
}

func (e *Engine) price(ctx context.Context, asset *core.Asset) (decimal.Decimal, error) {
	price, err := e.oracle.GetPrice(ctx, asset.PriceFeedRef)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("oracle.GetPrice", asset.PriceFeedRef)
		return decimal.Zero, core.ErrPriceUnavailable
	}

	if !price.IsPositive() {
		return decimal.Zero, core.ErrPriceUnavailable
	}

	return price, nil
}

// transferOut pays the underlying token out. The trace id is derived from
// the event trace, so a retried operation maps to the same transfer on the
// custodian side.
func (e *Engine) transferOut(ctx context.Context, opponent string, asset *core.Asset, amount decimal.Decimal, source core.TransferSource, eventTrace string) error {
	transfer := &core.Transfer{
		TraceID:  foxuuid.Modify(eventTrace, string(source)),
		Opponent: opponent,
		AssetRef: asset.UnderlyingRef,
		Amount:   amount,
		Source:   source,
	}

	if err := e.transfers.Transfer(ctx, transfer); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("transfers.Transfer", transfer.TraceID)
		return core.ErrTransferFailed
	}

	return nil
}

// commit archives the change set, then swaps the clones into the maps.
func (e *Engine) commit(ctx context.Context, asset *core.Asset, positions []*core.Position, event *core.Event) error {
	set := &core.ChangeSet{
		Asset:     asset,
		Positions: positions,
		Event:     event,
	}

	if err := e.archive.Commit(ctx, set); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("archive.Commit")
		return err
	}

	e.mu.Lock()
	if asset != nil {
		if _, ok := e.assets[asset.Symbol]; !ok {
			e.order = append(e.order, asset.Symbol)
		}
		e.assets[asset.Symbol] = asset
	}
	for _, position := range positions {
		e.positions[positionKey{position.Account, position.Symbol}] = position
	}
	e.mu.Unlock()

	return nil
}

// newPayoutEvent derives the event trace from the pre-commit position
// version instead of minting a random one. A call retried after a failed
// commit sees the same version and produces the same trace, so the
// custodian-side idempotency collapses the duplicate payout.
func (e *Engine) newPayoutEvent(typ core.EventType, source core.TransferSource, opponent string, position *core.Position, amount decimal.Decimal, extra interface{}) *core.Event {
	event := e.newEvent(typ, position.Account, position.Symbol, amount, extra)
	event.TraceID = id.TraceIDFrom("%s:%s:%s:%s:%s:%d", source, opponent, position.Account, position.Symbol, amount, position.Version)
	return event
}

func (e *Engine) newEvent(typ core.EventType, account, symbol string, amount decimal.Decimal, extra interface{}) *core.Event {
	event := &core.Event{
		Type:      typ,
		TraceID:   id.GenTraceID(),
		Account:   account,
		Symbol:    symbol,
		Amount:    amount,
		CreatedAt: e.now(),
	}

	if extra != nil {
		event.SetExtra(structs.Map(extra))
	}

	return event
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
