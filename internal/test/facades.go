package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/merchware/creditledger/internal/domain/model"
)

// WebhookFacadeStub provides controllable behaviour for webhook endpoints.
type WebhookFacadeStub struct {
	EnqueueFn func(context.Context, model.OrderEvent) (*model.OrderEvent, bool, error)
}

// EnqueueOrderEvent delegates to provided function or accepts the event.
func (s WebhookFacadeStub) EnqueueOrderEvent(ctx context.Context, event model.OrderEvent) (*model.OrderEvent, bool, error) {
	if s.EnqueueFn != nil {
		return s.EnqueueFn(ctx, event)
	}
	event.ID = 1
	event.Status = model.OrderEventStatusNew
	return &event, true, nil
}

// CheckoutFacadeStub simulates quote and redemption operations.
type CheckoutFacadeStub struct {
	QuoteFn  func(context.Context, string, decimal.Decimal, time.Time) (*model.RedemptionResult, error)
	RedeemFn func(context.Context, string, decimal.Decimal, string, time.Time) error
}

// Quote returns configured result or a zero quote.
func (s CheckoutFacadeStub) Quote(ctx context.Context, customerID string, subtotal decimal.Decimal, now time.Time) (*model.RedemptionResult, error) {
	if s.QuoteFn != nil {
		return s.QuoteFn(ctx, customerID, subtotal, now)
	}
	return &model.RedemptionResult{}, nil
}

// Redeem executes configured redemption handler.
func (s CheckoutFacadeStub) Redeem(ctx context.Context, customerID string, amount decimal.Decimal, orderNumber string, now time.Time) error {
	if s.RedeemFn != nil {
		return s.RedeemFn(ctx, customerID, amount, orderNumber, now)
	}
	return nil
}

// LedgerFacadeStub serves configurable customer credit state.
type LedgerFacadeStub struct {
	BalanceFn     func(context.Context, string, time.Time) (*model.BalanceSummary, error)
	EntriesFn     func(context.Context, string) ([]model.LedgerEntry, error)
	RedemptionsFn func(context.Context, string) ([]model.Redemption, error)
}

// Balance returns stored summary or empty data.
func (s LedgerFacadeStub) Balance(ctx context.Context, customerID string, asOf time.Time) (*model.BalanceSummary, error) {
	if s.BalanceFn != nil {
		return s.BalanceFn(ctx, customerID, asOf)
	}
	return &model.BalanceSummary{}, nil
}

// LedgerEntries returns preconfigured entries.
func (s LedgerFacadeStub) LedgerEntries(ctx context.Context, customerID string) ([]model.LedgerEntry, error) {
	if s.EntriesFn != nil {
		return s.EntriesFn(ctx, customerID)
	}
	return nil, nil
}

// Redemptions returns preconfigured history.
func (s LedgerFacadeStub) Redemptions(ctx context.Context, customerID string) ([]model.Redemption, error) {
	if s.RedemptionsFn != nil {
		return s.RedemptionsFn(ctx, customerID)
	}
	return nil, nil
}

// CreditFacadeStub aggregates facade dependencies for HTTP layer tests.
type CreditFacadeStub struct {
	WebhookFacadeStub
	CheckoutFacadeStub
	LedgerFacadeStub
}

// EventStatusUpdate stores information about UpdateEventStatus invocations.
type EventStatusUpdate struct {
	EventID int64
	Status  model.OrderEventStatus
}

// WorkerFacadeStub mimics worker interactions with the credit facade.
type WorkerFacadeStub struct {
	Batches  [][]model.OrderEvent
	EventsFn func(context.Context, int) ([]model.OrderEvent, error)
	ApplyFn  func(context.Context, model.OrderEvent) (bool, error)
	UpdateFn func(context.Context, int64, model.OrderEventStatus) error
	Updates  []EventStatusUpdate

	mu              sync.Mutex
	eventsCallCount int32
}

// Lock exposes internal mutex for external synchronization.
func (s *WorkerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *WorkerFacadeStub) Unlock() { s.mu.Unlock() }

// EventsForProcessing returns batches from configured queue.
func (s *WorkerFacadeStub) EventsForProcessing(ctx context.Context, limit int) ([]model.OrderEvent, error) {
	if s.EventsFn != nil {
		return s.EventsFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.eventsCallCount, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// ApplyOrderEvent returns configured outcome or reports a fresh apply.
func (s *WorkerFacadeStub) ApplyOrderEvent(ctx context.Context, event model.OrderEvent) (bool, error) {
	if s.ApplyFn != nil {
		return s.ApplyFn(ctx, event)
	}
	return true, nil
}

// UpdateEventStatus records update requests.
func (s *WorkerFacadeStub) UpdateEventStatus(ctx context.Context, eventID int64, status model.OrderEventStatus) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, eventID, status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Updates = append(s.Updates, EventStatusUpdate{EventID: eventID, Status: status})
	return nil
}

// PlatformNotifierStub records redemption reports.
type PlatformNotifierStub struct {
	ReportFn func(context.Context, string, string, decimal.Decimal) error
	Reports  []PlatformReport
	Err      error
}

// PlatformReport captures one ReportRedemption invocation.
type PlatformReport struct {
	CustomerID  string
	OrderNumber string
	Amount      decimal.Decimal
}

// ReportRedemption stores the report or returns the configured error.
func (s *PlatformNotifierStub) ReportRedemption(ctx context.Context, customerID, orderNumber string, amount decimal.Decimal) error {
	if s.ReportFn != nil {
		return s.ReportFn(ctx, customerID, orderNumber, amount)
	}
	if s.Err != nil {
		return s.Err
	}
	s.Reports = append(s.Reports, PlatformReport{CustomerID: customerID, OrderNumber: orderNumber, Amount: amount})
	return nil
}

// HealthCheckerStub reports configurable storage health.
type HealthCheckerStub struct {
	Err error
}

// HealthCheck returns the configured error.
func (s HealthCheckerStub) HealthCheck(ctx context.Context) error {
	return s.Err
}
