package views

import (
	"loanbook/core"
)

// Position position view
type Position struct {
	core.Position
	HealthFactorBps int64 `json:"health_factor_bps"`
}

// NewPosition position view with the health factor attached
func NewPosition(position *core.Position, healthFactorBps int64) *Position {
	return &Position{
		Position:        *position,
		HealthFactorBps: healthFactorBps,
	}
}
