package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// EventType domain event type
type EventType string

const (
	// EventAssetRegistered a new asset was listed
	EventAssetRegistered EventType = "asset_registered"
	// EventAssetUpdated asset risk parameters changed
	EventAssetUpdated EventType = "asset_updated"
	// EventSupplied collateral deposited
	EventSupplied EventType = "supplied"
	// EventWithdrawn collateral withdrawn
	EventWithdrawn EventType = "withdrawn"
	// EventBorrowed debt drawn
	EventBorrowed EventType = "borrowed"
	// EventRepaid debt repaid
	EventRepaid EventType = "repaid"
	// EventLiquidated insolvent position partially closed
	EventLiquidated EventType = "liquidated"
)

// Event domain event journal row, one per committed write operation
type Event struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Type      EventType       `sql:"size:36;index:idx_events_type" json:"type"`
	TraceID   string          `sql:"size:36;unique_index:trace_idx" json:"trace_id"`
	Account   string          `sql:"size:36;index:idx_events_account" json:"account"`
	Symbol    string          `sql:"size:20" json:"symbol"`
	Amount    decimal.Decimal `sql:"type:decimal(20,8)" json:"amount"`
	Data      []byte          `sql:"type:TEXT" json:"data"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// SetExtra marshal extra payload into Data
func (e *Event) SetExtra(v interface{}) *Event {
	data, _ := json.Marshal(v)
	e.Data = data
	return e
}

// UnmarshalExtra decode Data into v
func (e *Event) UnmarshalExtra(v interface{}) error {
	if len(e.Data) == 0 {
		return nil
	}
	return json.Unmarshal(e.Data, v)
}

// IEventStore event store interface
type IEventStore interface {
	Create(ctx context.Context, tx *db.DB, event *Event) error
	List(ctx context.Context, fromID uint64, limit int) ([]*Event, error)
	FindByAccount(ctx context.Context, account string, limit int) ([]*Event, error)
}

// ChangeSet everything one committed operation wrote. Archived atomically.
type ChangeSet struct {
	Asset     *Asset
	Positions []*Position
	Event     *Event
}

// ILedgerArchive persists a committed change set in one transaction
type ILedgerArchive interface {
	Commit(ctx context.Context, set *ChangeSet) error
}
