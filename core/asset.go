package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Asset listed asset and its risk parameters
type Asset struct {
	ID     uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Symbol string `sql:"size:20;unique_index:symbol_idx" json:"symbol"`
	// UnderlyingRef opaque reference to the transferable token
	UnderlyingRef string `sql:"size:36" json:"underlying_ref"`
	// PriceFeedRef opaque reference resolved by the price oracle
	PriceFeedRef string `sql:"size:36" json:"price_feed_ref"`
	// CollateralFactorBps fraction of supplied value usable as borrowing power, at most 9000
	CollateralFactorBps int64 `sql:"default:0" json:"collateral_factor_bps"`
	// BorrowFactorBps at most CollateralFactorBps
	BorrowFactorBps int64 `sql:"default:0" json:"borrow_factor_bps"`
	// LiquidationThresholdBps strictly greater than CollateralFactorBps
	LiquidationThresholdBps int64           `sql:"default:0" json:"liquidation_threshold_bps"`
	SupplyRateBpsPerYear    int64           `sql:"default:0" json:"supply_rate_bps_per_year"`
	BorrowRateBpsPerYear    int64           `sql:"default:0" json:"borrow_rate_bps_per_year"`
	TotalSupplied           decimal.Decimal `sql:"type:decimal(20,8)" json:"total_supplied"`
	TotalBorrowed           decimal.Decimal `sql:"type:decimal(20,8)" json:"total_borrowed"`
	// IsActive gates new supply/borrow/withdraw; repay and liquidation stay open to unwind
	IsActive  bool      `sql:"default:1" json:"is_active"`
	Version   int64     `sql:"default:0" json:"version"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Liquidity cash not lent out
func (a *Asset) Liquidity() decimal.Decimal {
	return a.TotalSupplied.Sub(a.TotalBorrowed)
}

// Clone returns a copy safe to mutate before commit
func (a *Asset) Clone() *Asset {
	c := *a
	return &c
}

// AssetParams risk parameters submitted on register/update
type AssetParams struct {
	Symbol                  string `json:"symbol" valid:"required"`
	UnderlyingRef           string `json:"underlying_ref" valid:"uuid,required"`
	PriceFeedRef            string `json:"price_feed_ref" valid:"uuid,required"`
	CollateralFactorBps     int64  `json:"collateral_factor_bps"`
	BorrowFactorBps         int64  `json:"borrow_factor_bps"`
	LiquidationThresholdBps int64  `json:"liquidation_threshold_bps"`
	SupplyRateBpsPerYear    int64  `json:"supply_rate_bps_per_year"`
	BorrowRateBpsPerYear    int64  `json:"borrow_rate_bps_per_year"`
	IsActive                bool   `json:"is_active"`
}

// IAssetStore asset store interface
type IAssetStore interface {
	Save(ctx context.Context, tx *db.DB, asset *Asset) error
	Find(ctx context.Context, symbol string) (*Asset, error)
	// All returns assets in registration order
	All(ctx context.Context) ([]*Asset, error)
	Update(ctx context.Context, tx *db.DB, asset *Asset) error
}
