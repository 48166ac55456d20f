package usecase

import (
	"context"

	domainErrors "github.com/merchware/creditledger/internal/domain/errors"
	"github.com/merchware/creditledger/internal/domain/model"
	"github.com/merchware/creditledger/internal/domain/repository"
)

// OrderEventUseCase manages the order-paid event inbox.
type OrderEventUseCase struct {
	events repository.OrderEventRepository
}

// NewOrderEventUseCase constructs OrderEventUseCase.
func NewOrderEventUseCase(events repository.OrderEventRepository) *OrderEventUseCase {
	return &OrderEventUseCase{events: events}
}

// Enqueue validates and stores a received event. Returns whether the
// event was newly created; a redelivered order id comes back with
// created=false so the transport can acknowledge the duplicate.
func (u *OrderEventUseCase) Enqueue(ctx context.Context, event model.OrderEvent) (*model.OrderEvent, bool, error) {
	if event.OrderID == "" {
		return nil, false, domainErrors.ErrInvalidOrderID
	}
	if event.CustomerID == "" {
		return nil, false, domainErrors.ErrNoCustomer
	}
	if event.Total.IsNegative() {
		return nil, false, domainErrors.ErrInvalidOrderAmount
	}
	return u.events.Enqueue(ctx, event)
}

// SelectBatchForProcessing claims pending events for application.
func (u *OrderEventUseCase) SelectBatchForProcessing(ctx context.Context, limit int) ([]model.OrderEvent, error) {
	return u.events.SelectBatchForProcessing(ctx, limit)
}

// UpdateStatus persists the terminal status of an event.
func (u *OrderEventUseCase) UpdateStatus(ctx context.Context, eventID int64, status model.OrderEventStatus) error {
	return u.events.UpdateStatus(ctx, eventID, status)
}
