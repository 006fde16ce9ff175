package engine

import (
	"context"

	"loanbook/core"
	"loanbook/internal/ledger"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

type assetExtra struct {
	CollateralFactorBps     int64 `structs:"collateral_factor_bps"`
	BorrowFactorBps         int64 `structs:"borrow_factor_bps"`
	LiquidationThresholdBps int64 `structs:"liquidation_threshold_bps"`
	SupplyRateBpsPerYear    int64 `structs:"supply_rate_bps"`
	BorrowRateBpsPerYear    int64 `structs:"borrow_rate_bps"`
	IsActive                bool  `structs:"is_active"`
}

// RegisterAsset lists a new asset. The symbol is the ledger key and must be
// unused; risk parameters are validated before anything is written.
func (e *Engine) RegisterAsset(ctx context.Context, params core.AssetParams) (*core.Asset, error) {
	log := logger.FromContext(ctx).WithField("operation", "register_asset")

	if err := e.acquire(); err != nil {
		return nil, err
	}
	defer e.release()

	if err := ledger.ValidateRiskParameters(params); err != nil {
		return nil, err
	}

	symbol := normalize(params.Symbol)
	if symbol == "" {
		return nil, core.ErrInvalidSymbol
	}

	if _, err := e.snapshotAsset(symbol); err == nil {
		return nil, core.ErrDuplicateAsset
	}

	asset := &core.Asset{
		Symbol:                  symbol,
		UnderlyingRef:           params.UnderlyingRef,
		PriceFeedRef:            params.PriceFeedRef,
		CollateralFactorBps:     params.CollateralFactorBps,
		BorrowFactorBps:         params.BorrowFactorBps,
		LiquidationThresholdBps: params.LiquidationThresholdBps,
		SupplyRateBpsPerYear:    params.SupplyRateBpsPerYear,
		BorrowRateBpsPerYear:    params.BorrowRateBpsPerYear,
		IsActive:                true,
		CreatedAt:               e.now(),
		UpdatedAt:               e.now(),
	}

	event := e.newEvent(core.EventAssetRegistered, "", symbol, decimal.Zero, assetExtra{
		CollateralFactorBps:     asset.CollateralFactorBps,
		BorrowFactorBps:         asset.BorrowFactorBps,
		LiquidationThresholdBps: asset.LiquidationThresholdBps,
		SupplyRateBpsPerYear:    asset.SupplyRateBpsPerYear,
		BorrowRateBpsPerYear:    asset.BorrowRateBpsPerYear,
		IsActive:                asset.IsActive,
	})

	if err := e.commit(ctx, asset, nil, event); err != nil {
		return nil, err
	}

	log.Infoln("asset registered:", symbol)
	return asset.Clone(), nil
}

// UpdateAsset replaces the risk parameters and active flag of a listed
// asset. Balances and totals are untouched; positions opened under the old
// parameters are simply judged by the new ones from here on.
func (e *Engine) UpdateAsset(ctx context.Context, params core.AssetParams) (*core.Asset, error) {
	log := logger.FromContext(ctx).WithField("operation", "update_asset")

	if err := e.acquire(); err != nil {
		return nil, err
	}
	defer e.release()

	if err := ledger.ValidateRiskParameters(params); err != nil {
		return nil, err
	}

	asset, err := e.snapshotAsset(params.Symbol)
	if err != nil {
		return nil, err
	}

	if params.UnderlyingRef != "" {
		asset.UnderlyingRef = params.UnderlyingRef
	}
	if params.PriceFeedRef != "" {
		asset.PriceFeedRef = params.PriceFeedRef
	}
	asset.CollateralFactorBps = params.CollateralFactorBps
	asset.BorrowFactorBps = params.BorrowFactorBps
	asset.LiquidationThresholdBps = params.LiquidationThresholdBps
	asset.SupplyRateBpsPerYear = params.SupplyRateBpsPerYear
	asset.BorrowRateBpsPerYear = params.BorrowRateBpsPerYear
	asset.IsActive = params.IsActive
	asset.UpdatedAt = e.now()

	event := e.newEvent(core.EventAssetUpdated, "", asset.Symbol, decimal.Zero, assetExtra{
		CollateralFactorBps:     asset.CollateralFactorBps,
		BorrowFactorBps:         asset.BorrowFactorBps,
		LiquidationThresholdBps: asset.LiquidationThresholdBps,
		SupplyRateBpsPerYear:    asset.SupplyRateBpsPerYear,
		BorrowRateBpsPerYear:    asset.BorrowRateBpsPerYear,
		IsActive:                asset.IsActive,
	})

	if err := e.commit(ctx, asset, nil, event); err != nil {
		return nil, err
	}

	log.Infoln("asset updated:", asset.Symbol)
	return asset.Clone(), nil
}
