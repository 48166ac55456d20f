package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderEventStatus describes the ingestion lifecycle of a received
// order-paid event.
type OrderEventStatus string

const (
	OrderEventStatusNew        OrderEventStatus = "NEW"
	OrderEventStatusProcessing OrderEventStatus = "PROCESSING"
	OrderEventStatusApplied    OrderEventStatus = "APPLIED"
	OrderEventStatusInvalid    OrderEventStatus = "INVALID"
)

// OrderEvent is one order-paid notification from the commerce platform.
// The source delivers at least once; OrderID is the deduplication key.
type OrderEvent struct {
	ID         int64
	OrderID    string
	CustomerID string
	Total      decimal.Decimal
	Currency   string
	OrderAt    time.Time
	Status     OrderEventStatus
	ReceivedAt time.Time
	UpdatedAt  time.Time
}
