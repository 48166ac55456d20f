package repository

import (
	"context"

	"github.com/merchware/creditledger/internal/domain/model"
)

// OrderEventRepository is the at-least-once inbox for order-paid
// notifications awaiting ledger application.
type OrderEventRepository interface {
	// Enqueue stores a received event. Returns whether the event was
	// newly created; redelivery of a known order returns the stored
	// event with created=false.
	Enqueue(ctx context.Context, event model.OrderEvent) (*model.OrderEvent, bool, error)

	// SelectBatchForProcessing claims up to limit pending events,
	// marking them PROCESSING so concurrent pollers skip them.
	SelectBatchForProcessing(ctx context.Context, limit int) ([]model.OrderEvent, error)

	// UpdateStatus persists the terminal status of an event.
	UpdateStatus(ctx context.Context, eventID int64, status model.OrderEventStatus) error
}
