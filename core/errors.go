package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unknown
	ErrUnknown ErrorCode = 100000
	// ErrUnauthorized operation requires an administrator
	ErrUnauthorized ErrorCode = 100001
	// ErrReentrantCall a balance-mutating call is already in flight
	ErrReentrantCall ErrorCode = 100002
	// ErrArithmeticOverflow checked arithmetic overflow or underflow
	ErrArithmeticOverflow ErrorCode = 100003

	// ErrUnknownAsset no such asset
	ErrUnknownAsset ErrorCode = 100100
	// ErrDuplicateAsset asset already registered
	ErrDuplicateAsset ErrorCode = 100101
	// ErrInactiveAsset asset closed for new supply/borrow/withdraw
	ErrInactiveAsset ErrorCode = 100102
	// ErrInvalidRiskParameters risk parameter invariants violated
	ErrInvalidRiskParameters ErrorCode = 100103
	// ErrInvalidSymbol empty or unusable asset symbol
	ErrInvalidSymbol ErrorCode = 100104

	// ErrInvalidAmount invalid amount
	ErrInvalidAmount ErrorCode = 100200
	// ErrInsufficientSuppliedBalance withdraw exceeds supplied balance
	ErrInsufficientSuppliedBalance ErrorCode = 100201
	// ErrInsufficientLiquidity pool cash cannot cover the request
	ErrInsufficientLiquidity ErrorCode = 100202
	// ErrInsufficientCollateral seizure exceeds supplied collateral
	ErrInsufficientCollateral ErrorCode = 100203
	// ErrNoOutstandingDebt nothing to repay or liquidate
	ErrNoOutstandingDebt ErrorCode = 100204
	// ErrHealthFactorTooLow operation would leave the position under-collateralized
	ErrHealthFactorTooLow ErrorCode = 100205
	// ErrPositionHealthy position is above the liquidation threshold
	ErrPositionHealthy ErrorCode = 100206

	// ErrPriceUnavailable oracle produced no positive quote
	ErrPriceUnavailable ErrorCode = 100300
	// ErrTransferFailed custodian refused the settlement transfer
	ErrTransferFailed ErrorCode = 100301
)

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}
