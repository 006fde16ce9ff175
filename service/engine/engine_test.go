package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"loanbook/core"
	"loanbook/internal/ledger"
	"loanbook/pkg/id"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAssetStore struct {
	assets []*core.Asset
}

func (s *fakeAssetStore) Save(ctx context.Context, tx *db.DB, asset *core.Asset) error {
	s.assets = append(s.assets, asset)
	return nil
}

func (s *fakeAssetStore) Find(ctx context.Context, symbol string) (*core.Asset, error) {
	for _, asset := range s.assets {
		if asset.Symbol == symbol {
			return asset, nil
		}
	}
	return nil, core.ErrUnknownAsset
}

func (s *fakeAssetStore) All(ctx context.Context) ([]*core.Asset, error) {
	return s.assets, nil
}

func (s *fakeAssetStore) Update(ctx context.Context, tx *db.DB, asset *core.Asset) error {
	return nil
}

type fakePositionStore struct {
	positions []*core.Position
}

func (s *fakePositionStore) Save(ctx context.Context, tx *db.DB, position *core.Position) error {
	s.positions = append(s.positions, position)
	return nil
}

func (s *fakePositionStore) Find(ctx context.Context, account, symbol string) (*core.Position, error) {
	for _, position := range s.positions {
		if position.Account == account && position.Symbol == symbol {
			return position, nil
		}
	}
	return &core.Position{Account: account, Symbol: symbol}, nil
}

func (s *fakePositionStore) FindByAccount(ctx context.Context, account string) ([]*core.Position, error) {
	var out []*core.Position
	for _, position := range s.positions {
		if position.Account == account {
			out = append(out, position)
		}
	}
	return out, nil
}

func (s *fakePositionStore) All(ctx context.Context) ([]*core.Position, error) {
	return s.positions, nil
}

func (s *fakePositionStore) Update(ctx context.Context, tx *db.DB, position *core.Position) error {
	return nil
}

type fakeArchive struct {
	commits []*core.ChangeSet
	fail    error
}

func (a *fakeArchive) Commit(ctx context.Context, set *core.ChangeSet) error {
	if a.fail != nil {
		return a.fail
	}
	// committed records pick up a version bump, as the stores do
	if set.Asset != nil {
		set.Asset.Version++
	}
	for _, position := range set.Positions {
		position.Version++
	}
	a.commits = append(a.commits, set)
	return nil
}

func (a *fakeArchive) lastEvent() *core.Event {
	for i := len(a.commits) - 1; i >= 0; i-- {
		if a.commits[i].Event != nil {
			return a.commits[i].Event
		}
	}
	return nil
}

type fakeOracle struct {
	price decimal.Decimal
	err   error
}

func (o *fakeOracle) GetPrice(ctx context.Context, feedRef string) (decimal.Decimal, error) {
	return o.price, o.err
}

type fakeTransfers struct {
	transfers []*core.Transfer
	hook      func(ctx context.Context, transfer *core.Transfer) error
}

func (s *fakeTransfers) Transfer(ctx context.Context, transfer *core.Transfer) error {
	if s.hook != nil {
		if err := s.hook(ctx, transfer); err != nil {
			return err
		}
	}
	s.transfers = append(s.transfers, transfer)
	return nil
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type testEnv struct {
	eng       *Engine
	archive   *fakeArchive
	oracle    *fakeOracle
	transfers *fakeTransfers
	clock     *testClock
}

func newTestEnv(t *testing.T) *testEnv {
	archive := &fakeArchive{}
	oracle := &fakeOracle{price: decimal.New(1, 0)}
	transfers := &fakeTransfers{}
	clock := &testClock{now: time.Unix(1700000000, 0)}

	eng := New(&fakeAssetStore{}, &fakePositionStore{}, archive, oracle, transfers).WithClock(clock.Now)
	require.NoError(t, eng.Load(context.Background()))

	return &testEnv{
		eng:       eng,
		archive:   archive,
		oracle:    oracle,
		transfers: transfers,
		clock:     clock,
	}
}

func testAssetParams(symbol string) core.AssetParams {
	return core.AssetParams{
		Symbol:                  symbol,
		UnderlyingRef:           id.GenTraceID(),
		PriceFeedRef:            id.GenTraceID(),
		CollateralFactorBps:     7500,
		BorrowFactorBps:         7000,
		LiquidationThresholdBps: 8500,
		SupplyRateBpsPerYear:    500,
		BorrowRateBpsPerYear:    1000,
		IsActive:                true,
	}
}

func (env *testEnv) mustRegister(t *testing.T, params core.AssetParams) *core.Asset {
	asset, err := env.eng.RegisterAsset(context.Background(), params)
	require.NoError(t, err)
	return asset
}

func TestRegisterAsset(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	asset := env.mustRegister(t, testAssetParams("btc"))
	assert.Equal(t, "BTC", asset.Symbol)
	assert.True(t, asset.IsActive)

	_, err := env.eng.RegisterAsset(ctx, testAssetParams("BTC"))
	assert.Equal(t, core.ErrDuplicateAsset, err)

	bad := testAssetParams("ETH")
	bad.CollateralFactorBps = 9500
	_, err = env.eng.RegisterAsset(ctx, bad)
	assert.Equal(t, core.ErrInvalidRiskParameters, err)

	_, err = env.eng.RegisterAsset(ctx, testAssetParams("  "))
	assert.Equal(t, core.ErrInvalidSymbol, err)

	env.mustRegister(t, testAssetParams("ETH"))
	assert.Equal(t, []string{"BTC", "ETH"}, env.eng.ListAssetIDs(ctx))

	found, err := env.eng.GetAsset(ctx, " btc ")
	require.NoError(t, err)
	assert.Equal(t, "BTC", found.Symbol)

	event := env.archive.lastEvent()
	require.NotNil(t, event)
	assert.Equal(t, core.EventAssetRegistered, event.Type)
}

func TestUpdateAsset(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.mustRegister(t, testAssetParams("BTC"))

	params := testAssetParams("BTC")
	params.CollateralFactorBps = 6000
	params.LiquidationThresholdBps = 7000
	params.BorrowFactorBps = 5500
	asset, err := env.eng.UpdateAsset(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, int64(6000), asset.CollateralFactorBps)

	_, err = env.eng.UpdateAsset(ctx, testAssetParams("DOGE"))
	assert.Equal(t, core.ErrUnknownAsset, err)
}

func TestSupplyWithdraw(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.mustRegister(t, testAssetParams("BTC"))

	require.NoError(t, env.eng.Supply(ctx, "alice", "BTC", decimal.NewFromInt(100)))

	position, err := env.eng.GetPosition(ctx, "alice", "BTC")
	require.NoError(t, err)
	assert.Equal(t, "100", position.Supplied.String())

	asset, err := env.eng.GetAsset(ctx, "BTC")
	require.NoError(t, err)
	assert.Equal(t, "100", asset.TotalSupplied.String())

	require.NoError(t, env.eng.Withdraw(ctx, "alice", "BTC", decimal.NewFromInt(40)))

	position, _ = env.eng.GetPosition(ctx, "alice", "BTC")
	assert.Equal(t, "60", position.Supplied.String())

	require.Len(t, env.transfers.transfers, 1)
	transfer := env.transfers.transfers[0]
	assert.Equal(t, core.TransferSourceWithdraw, transfer.Source)
	assert.Equal(t, "alice", transfer.Opponent)
	assert.Equal(t, "40", transfer.Amount.String())

	err = env.eng.Withdraw(ctx, "alice", "BTC", decimal.NewFromInt(100))
	assert.Equal(t, core.ErrInsufficientSuppliedBalance, err)

	err = env.eng.Withdraw(ctx, "alice", "BTC", decimal.Zero)
	assert.Equal(t, core.ErrInvalidAmount, err)

	err = env.eng.Supply(ctx, "alice", "DOGE", decimal.NewFromInt(1))
	assert.Equal(t, core.ErrUnknownAsset, err)
}

func TestBorrow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.mustRegister(t, testAssetParams("BTC"))

	require.NoError(t, env.eng.Supply(ctx, "alice", "BTC", decimal.NewFromInt(100)))
	require.NoError(t, env.eng.Borrow(ctx, "alice", "BTC", decimal.NewFromInt(70)))

	hf, err := env.eng.GetHealthFactor(ctx, "alice", "BTC")
	require.NoError(t, err)
	assert.Equal(t, int64(10714), hf)

	// 75 of borrowing power, 70 used
	err = env.eng.Borrow(ctx, "alice", "BTC", decimal.NewFromInt(10))
	assert.Equal(t, core.ErrHealthFactorTooLow, err)

	position, _ := env.eng.GetPosition(ctx, "alice", "BTC")
	assert.Equal(t, "70", position.Borrowed.String())

	// only 30 left in the pool
	err = env.eng.Borrow(ctx, "alice", "BTC", decimal.NewFromInt(40))
	assert.Equal(t, core.ErrInsufficientLiquidity, err)

	hf, err = env.eng.GetHealthFactor(ctx, "bob", "BTC")
	require.NoError(t, err)
	assert.Equal(t, int64(ledger.MaxHealthFactor), hf)
}

func TestWithdrawGuards(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.mustRegister(t, testAssetParams("BTC"))

	require.NoError(t, env.eng.Supply(ctx, "alice", "BTC", decimal.NewFromInt(100)))
	require.NoError(t, env.eng.Supply(ctx, "bob", "BTC", decimal.NewFromInt(100)))
	require.NoError(t, env.eng.Borrow(ctx, "bob", "BTC", decimal.NewFromInt(70)))

	// bob's debt must stay covered by his remaining collateral
	err := env.eng.Withdraw(ctx, "bob", "BTC", decimal.NewFromInt(50))
	assert.Equal(t, core.ErrHealthFactorTooLow, err)

	require.NoError(t, env.eng.Withdraw(ctx, "alice", "BTC", decimal.NewFromInt(100)))

	// 30 of cash left, bob's 70 is lent out
	err = env.eng.Withdraw(ctx, "bob", "BTC", decimal.NewFromInt(100))
	assert.Equal(t, core.ErrInsufficientLiquidity, err)
}

func TestRepay(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.mustRegister(t, testAssetParams("BTC"))

	require.NoError(t, env.eng.Supply(ctx, "alice", "BTC", decimal.NewFromInt(100)))
	require.NoError(t, env.eng.Borrow(ctx, "alice", "BTC", decimal.NewFromInt(50)))

	// overpayment is clipped to the outstanding debt
	require.NoError(t, env.eng.Repay(ctx, "alice", "BTC", decimal.NewFromInt(80)))

	position, _ := env.eng.GetPosition(ctx, "alice", "BTC")
	assert.True(t, position.Borrowed.IsZero())

	asset, _ := env.eng.GetAsset(ctx, "BTC")
	assert.True(t, asset.TotalBorrowed.IsZero())

	event := env.archive.lastEvent()
	require.NotNil(t, event)
	assert.Equal(t, core.EventRepaid, event.Type)
	assert.Equal(t, "50", event.Amount.String())

	err := env.eng.Repay(ctx, "alice", "BTC", decimal.NewFromInt(1))
	assert.Equal(t, core.ErrNoOutstandingDebt, err)
}

func TestAccrualOnTouch(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.mustRegister(t, testAssetParams("BTC"))

	require.NoError(t, env.eng.Supply(ctx, "alice", "BTC", decimal.NewFromInt(1000)))
	require.NoError(t, env.eng.Borrow(ctx, "alice", "BTC", decimal.NewFromInt(500)))

	env.clock.Advance(365 * 24 * time.Hour)

	// 5% on 1000 supplied, 10% on 500 borrowed
	require.NoError(t, env.eng.Accrue(ctx, "alice", "BTC"))

	position, _ := env.eng.GetPosition(ctx, "alice", "BTC")
	assert.Equal(t, "1050", position.Supplied.String())
	assert.Equal(t, "550", position.Borrowed.String())

	asset, _ := env.eng.GetAsset(ctx, "BTC")
	assert.Equal(t, "1050", asset.TotalSupplied.String())
	assert.Equal(t, "550", asset.TotalBorrowed.String())

	// same second again is a no-op and commits nothing
	commits := len(env.archive.commits)
	require.NoError(t, env.eng.Accrue(ctx, "alice", "BTC"))
	assert.Len(t, env.archive.commits, commits)

	// untouched pair commits nothing either
	require.NoError(t, env.eng.Accrue(ctx, "bob", "BTC"))
	assert.Len(t, env.archive.commits, commits)
}

func TestLiquidate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	params := testAssetParams("BTC")
	params.SupplyRateBpsPerYear = 0
	params.BorrowRateBpsPerYear = 2000
	env.mustRegister(t, params)

	require.NoError(t, env.eng.Supply(ctx, "bob", "BTC", decimal.NewFromInt(100)))
	require.NoError(t, env.eng.Supply(ctx, "alice", "BTC", decimal.NewFromInt(100)))
	require.NoError(t, env.eng.Borrow(ctx, "alice", "BTC", decimal.NewFromInt(70)))

	err := env.eng.Liquidate(ctx, "carol", "alice", "BTC", decimal.NewFromInt(10))
	assert.Equal(t, core.ErrPositionHealthy, err)

	// two years at 20% takes the debt to 98, past the 85 threshold value
	env.clock.Advance(2 * 365 * 24 * time.Hour)

	require.NoError(t, env.eng.Liquidate(ctx, "carol", "alice", "BTC", decimal.NewFromInt(40)))

	position, _ := env.eng.GetPosition(ctx, "alice", "BTC")
	assert.Equal(t, "58", position.Borrowed.String())
	assert.Equal(t, "56", position.Supplied.String())

	asset, _ := env.eng.GetAsset(ctx, "BTC")
	assert.Equal(t, "156", asset.TotalSupplied.String())
	assert.Equal(t, "58", asset.TotalBorrowed.String())
	assert.True(t, asset.TotalSupplied.GreaterThanOrEqual(asset.TotalBorrowed))

	require.NotEmpty(t, env.transfers.transfers)
	transfer := env.transfers.transfers[len(env.transfers.transfers)-1]
	assert.Equal(t, core.TransferSourceSeize, transfer.Source)
	assert.Equal(t, "carol", transfer.Opponent)
	assert.Equal(t, "44", transfer.Amount.String())

	event := env.archive.lastEvent()
	require.NotNil(t, event)
	assert.Equal(t, core.EventLiquidated, event.Type)
	var extra struct {
		Liquidator string `json:"liquidator"`
		Seized     string `json:"seized"`
	}
	require.NoError(t, event.UnmarshalExtra(&extra))
	assert.Equal(t, "carol", extra.Liquidator)
	assert.Equal(t, "44", extra.Seized)

	// clipping the repay to the full remaining debt would need 63.8 of
	// collateral against 56 held
	err = env.eng.Liquidate(ctx, "carol", "alice", "BTC", decimal.NewFromInt(1000))
	assert.Equal(t, core.ErrInsufficientCollateral, err)

	err = env.eng.Liquidate(ctx, "carol", "bob", "BTC", decimal.NewFromInt(10))
	assert.Equal(t, core.ErrNoOutstandingDebt, err)
}

func TestPriceUnavailable(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.mustRegister(t, testAssetParams("BTC"))

	require.NoError(t, env.eng.Supply(ctx, "alice", "BTC", decimal.NewFromInt(100)))

	env.oracle.err = errors.New("feed down")
	err := env.eng.Borrow(ctx, "alice", "BTC", decimal.NewFromInt(10))
	assert.Equal(t, core.ErrPriceUnavailable, err)

	env.oracle.err = nil
	env.oracle.price = decimal.Zero
	err = env.eng.Borrow(ctx, "alice", "BTC", decimal.NewFromInt(10))
	assert.Equal(t, core.ErrPriceUnavailable, err)

	position, _ := env.eng.GetPosition(ctx, "alice", "BTC")
	assert.True(t, position.Borrowed.IsZero())
}

func TestInactiveAssetGates(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.mustRegister(t, testAssetParams("BTC"))

	require.NoError(t, env.eng.Supply(ctx, "alice", "BTC", decimal.NewFromInt(100)))
	require.NoError(t, env.eng.Borrow(ctx, "alice", "BTC", decimal.NewFromInt(50)))

	params := testAssetParams("BTC")
	params.IsActive = false
	_, err := env.eng.UpdateAsset(ctx, params)
	require.NoError(t, err)

	err = env.eng.Supply(ctx, "alice", "BTC", decimal.NewFromInt(1))
	assert.Equal(t, core.ErrInactiveAsset, err)
	err = env.eng.Borrow(ctx, "alice", "BTC", decimal.NewFromInt(1))
	assert.Equal(t, core.ErrInactiveAsset, err)
	err = env.eng.Withdraw(ctx, "alice", "BTC", decimal.NewFromInt(1))
	assert.Equal(t, core.ErrInactiveAsset, err)

	// unwinding stays open
	require.NoError(t, env.eng.Repay(ctx, "alice", "BTC", decimal.NewFromInt(10)))
	err = env.eng.Liquidate(ctx, "carol", "alice", "BTC", decimal.NewFromInt(10))
	assert.Equal(t, core.ErrPositionHealthy, err)
}

func TestTransferFailureLeavesLedgerUntouched(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.mustRegister(t, testAssetParams("BTC"))

	require.NoError(t, env.eng.Supply(ctx, "alice", "BTC", decimal.NewFromInt(100)))
	commits := len(env.archive.commits)

	env.transfers.hook = func(ctx context.Context, transfer *core.Transfer) error {
		return errors.New("custodian down")
	}

	err := env.eng.Withdraw(ctx, "alice", "BTC", decimal.NewFromInt(40))
	assert.Equal(t, core.ErrTransferFailed, err)

	position, _ := env.eng.GetPosition(ctx, "alice", "BTC")
	assert.Equal(t, "100", position.Supplied.String())
	assert.Len(t, env.archive.commits, commits)
}

func TestArchiveFailureLeavesLedgerUntouched(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.mustRegister(t, testAssetParams("BTC"))

	require.NoError(t, env.eng.Supply(ctx, "alice", "BTC", decimal.NewFromInt(100)))

	env.archive.fail = errors.New("db down")
	err := env.eng.Supply(ctx, "alice", "BTC", decimal.NewFromInt(50))
	assert.Error(t, err)

	position, _ := env.eng.GetPosition(ctx, "alice", "BTC")
	assert.Equal(t, "100", position.Supplied.String())
}

func TestWithdrawRetryReusesTransferTrace(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.mustRegister(t, testAssetParams("BTC"))

	require.NoError(t, env.eng.Supply(ctx, "alice", "BTC", decimal.NewFromInt(100)))

	// payout went through but the journal write did not
	env.archive.fail = errors.New("db down")
	err := env.eng.Withdraw(ctx, "alice", "BTC", decimal.NewFromInt(40))
	assert.Error(t, err)
	require.Len(t, env.transfers.transfers, 1)

	// the retry maps to the same custodian transfer, so it dedupes there
	env.archive.fail = nil
	require.NoError(t, env.eng.Withdraw(ctx, "alice", "BTC", decimal.NewFromInt(40)))
	require.Len(t, env.transfers.transfers, 2)
	assert.Equal(t, env.transfers.transfers[0].TraceID, env.transfers.transfers[1].TraceID)

	// a withdrawal against the committed state gets a fresh trace
	require.NoError(t, env.eng.Withdraw(ctx, "alice", "BTC", decimal.NewFromInt(40)))
	require.Len(t, env.transfers.transfers, 3)
	assert.NotEqual(t, env.transfers.transfers[1].TraceID, env.transfers.transfers[2].TraceID)
}

func TestReentrantCallRejected(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.mustRegister(t, testAssetParams("BTC"))

	require.NoError(t, env.eng.Supply(ctx, "alice", "BTC", decimal.NewFromInt(100)))

	var inner error
	env.transfers.hook = func(ctx context.Context, transfer *core.Transfer) error {
		inner = env.eng.Supply(ctx, "mallory", "BTC", decimal.NewFromInt(1))
		return inner
	}

	err := env.eng.Withdraw(ctx, "alice", "BTC", decimal.NewFromInt(40))
	assert.Equal(t, core.ErrTransferFailed, err)
	assert.Equal(t, core.ErrReentrantCall, inner)

	// the flag is released once the outer call returns
	env.transfers.hook = nil
	require.NoError(t, env.eng.Withdraw(ctx, "alice", "BTC", decimal.NewFromInt(40)))
}

func TestLoadHydratesFromStorage(t *testing.T) {
	ctx := context.Background()

	assetStore := &fakeAssetStore{assets: []*core.Asset{
		{ID: 1, Symbol: "BTC", TotalSupplied: decimal.NewFromInt(100), IsActive: true, CollateralFactorBps: 7500, LiquidationThresholdBps: 8500},
		{ID: 2, Symbol: "ETH", IsActive: true, CollateralFactorBps: 7500, LiquidationThresholdBps: 8500},
	}}
	positionStore := &fakePositionStore{positions: []*core.Position{
		{ID: 1, Account: "alice", Symbol: "BTC", Supplied: decimal.NewFromInt(100)},
	}}

	eng := New(assetStore, positionStore, &fakeArchive{}, &fakeOracle{price: decimal.New(1, 0)}, &fakeTransfers{})
	require.NoError(t, eng.Load(ctx))

	assert.Equal(t, []string{"BTC", "ETH"}, eng.ListAssetIDs(ctx))

	position, err := eng.GetPosition(ctx, "alice", "BTC")
	require.NoError(t, err)
	assert.Equal(t, "100", position.Supplied.String())
}
