package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// TransferSource why the funds move
type TransferSource string

const (
	// TransferSourceWithdraw supplied collateral paid back out
	TransferSourceWithdraw TransferSource = "withdraw"
	// TransferSourceBorrow borrowed funds paid out
	TransferSourceBorrow TransferSource = "borrow"
	// TransferSourceSeize seized collateral paid to the liquidator
	TransferSourceSeize TransferSource = "seize"
)

// Transfer outbound movement of the underlying token. Inbound funds (supply,
// repay, the liquidator's payment) are collected and verified by the caller
// boundary before the engine is invoked.
type Transfer struct {
	TraceID  string          `json:"trace_id"`
	Opponent string          `json:"opponent"`
	AssetRef string          `json:"asset_ref"`
	Amount   decimal.Decimal `json:"amount"`
	Source   TransferSource  `json:"source"`
	Memo     string          `json:"memo,omitempty"`
}

// ITransferService custodian collaborator moving the underlying token
type ITransferService interface {
	Transfer(ctx context.Context, transfer *Transfer) error
}
