package views

import (
	"loanbook/core"

	"github.com/shopspring/decimal"
)

// Asset asset view
type Asset struct {
	core.Asset
	Liquidity decimal.Decimal `json:"liquidity"`
}

// NewAsset asset view with derived fields filled in
func NewAsset(asset *core.Asset) *Asset {
	return &Asset{
		Asset:     *asset,
		Liquidity: asset.Liquidity(),
	}
}
