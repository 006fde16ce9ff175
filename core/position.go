package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Position per (account, asset) balances. Created on first supply or borrow,
// never deleted, only zeroed.
type Position struct {
	ID       uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Account  string          `sql:"size:36;unique_index:position_idx" json:"account"`
	Symbol   string          `sql:"size:20;unique_index:position_idx" json:"symbol"`
	Supplied decimal.Decimal `sql:"type:decimal(20,8)" json:"supplied"`
	Borrowed decimal.Decimal `sql:"type:decimal(20,8)" json:"borrowed"`
	// LastAccrualTime unix seconds of the last interest application, 0 means never
	LastAccrualTime int64     `sql:"default:0" json:"last_accrual_time"`
	Version         int64     `sql:"default:0" json:"version"`
	CreatedAt       time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Clone returns a copy safe to mutate before commit
func (p *Position) Clone() *Position {
	c := *p
	return &c
}

// IPositionStore position store interface
type IPositionStore interface {
	Save(ctx context.Context, tx *db.DB, position *Position) error
	Find(ctx context.Context, account, symbol string) (*Position, error)
	FindByAccount(ctx context.Context, account string) ([]*Position, error)
	All(ctx context.Context) ([]*Position, error)
	Update(ctx context.Context, tx *db.DB, position *Position) error
}
