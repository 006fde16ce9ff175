package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// ILendingEngine ledger orchestrator. Write operations run the full
// accrue -> validate -> mutate -> solvency check -> settle -> event sequence
// atomically; any failure leaves the ledger untouched. Reads serve the latest
// committed state without acquiring the call lock.
type ILendingEngine interface {
	// Load hydrates the in-memory ledger from storage. Call once before serving.
	Load(ctx context.Context) error

	ListAssetIDs(ctx context.Context) []string
	GetAsset(ctx context.Context, symbol string) (*Asset, error)
	GetPosition(ctx context.Context, account, symbol string) (*Position, error)
	// GetHealthFactor basis-point scaled, 10000 is break-even, sentinel max when no debt
	GetHealthFactor(ctx context.Context, account, symbol string) (int64, error)

	RegisterAsset(ctx context.Context, params AssetParams) (*Asset, error)
	UpdateAsset(ctx context.Context, params AssetParams) (*Asset, error)

	Supply(ctx context.Context, account, symbol string, amount decimal.Decimal) error
	Withdraw(ctx context.Context, account, symbol string, amount decimal.Decimal) error
	Borrow(ctx context.Context, account, symbol string, amount decimal.Decimal) error
	Repay(ctx context.Context, account, symbol string, amount decimal.Decimal) error
	Liquidate(ctx context.Context, liquidator, account, symbol string, amount decimal.Decimal) error

	// Accrue applies pending interest for one position and commits it. Used by
	// the sweep worker; every write operation accrues on its own regardless.
	Accrue(ctx context.Context, account, symbol string) error
}
