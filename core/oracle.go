package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// IPriceOracle external price collaborator. Implementations must return
// ErrPriceUnavailable whenever they cannot produce a positive quote.
type IPriceOracle interface {
	GetPrice(ctx context.Context, feedRef string) (decimal.Decimal, error)
}
