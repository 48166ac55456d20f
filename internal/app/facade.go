package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/merchware/creditledger/internal/domain/model"
	"github.com/merchware/creditledger/internal/usecase"
)

// PlatformNotifier reports committed redemptions to the commerce
// platform.
type PlatformNotifier interface {
	ReportRedemption(ctx context.Context, customerID, orderNumber string, amount decimal.Decimal) error
}

// CreditFacade aggregates the credit ledger use cases behind one
// surface consumed by HTTP handlers and the ingestion worker.
type CreditFacade struct {
	ledger      *usecase.LedgerUseCase
	events      *usecase.OrderEventUseCase
	redemptions *usecase.RedemptionUseCase
	platform    PlatformNotifier
	logger      *slog.Logger
}

func NewCreditFacade(ledger *usecase.LedgerUseCase, events *usecase.OrderEventUseCase, redemptions *usecase.RedemptionUseCase, platform PlatformNotifier, logger *slog.Logger) *CreditFacade {
	return &CreditFacade{ledger: ledger, events: events, redemptions: redemptions, platform: platform, logger: logger}
}

// EnqueueOrderEvent stores a webhook-delivered order event for
// asynchronous application.
func (f *CreditFacade) EnqueueOrderEvent(ctx context.Context, event model.OrderEvent) (*model.OrderEvent, bool, error) {
	return f.events.Enqueue(ctx, event)
}

// EventsForProcessing claims pending order events.
func (f *CreditFacade) EventsForProcessing(ctx context.Context, limit int) ([]model.OrderEvent, error) {
	return f.events.SelectBatchForProcessing(ctx, limit)
}

// ApplyOrderEvent records one claimed event against the ledger.
// Returns whether the order was newly applied; replays return false.
func (f *CreditFacade) ApplyOrderEvent(ctx context.Context, event model.OrderEvent) (bool, error) {
	return f.ledger.RecordOrder(ctx, event.OrderID, event.CustomerID, event.Total, event.OrderAt)
}

// UpdateEventStatus persists the terminal status of an event.
func (f *CreditFacade) UpdateEventStatus(ctx context.Context, eventID int64, status model.OrderEventStatus) error {
	return f.events.UpdateStatus(ctx, eventID, status)
}

// Balance returns the customer's credit summary as of the given time.
func (f *CreditFacade) Balance(ctx context.Context, customerID string, asOf time.Time) (*model.BalanceSummary, error) {
	return f.ledger.Summary(ctx, customerID, asOf)
}

// LedgerEntries returns the per-month ledger, ascending by month.
func (f *CreditFacade) LedgerEntries(ctx context.Context, customerID string) ([]model.LedgerEntry, error) {
	return f.ledger.Entries(ctx, customerID)
}

// Quote computes the redeemable discount for a cart without mutating
// the ledger.
func (f *CreditFacade) Quote(ctx context.Context, customerID string, subtotal decimal.Decimal, now time.Time) (*model.RedemptionResult, error) {
	return f.redemptions.ComputeRedemption(ctx, customerID, subtotal, now)
}

// Redeem commits a confirmed redemption and reports it to the platform.
// The ledger commit is authoritative; a failed platform report is
// logged and does not undo the commit.
func (f *CreditFacade) Redeem(ctx context.Context, customerID string, amount decimal.Decimal, orderNumber string, now time.Time) error {
	if err := f.ledger.RecordRedemption(ctx, customerID, amount, now, orderNumber); err != nil {
		return err
	}

	if err := f.platform.ReportRedemption(ctx, customerID, orderNumber, amount); err != nil {
		f.logger.Warn("platform redemption report failed",
			slog.String("customer", customerID),
			slog.String("order", orderNumber),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// Redemptions returns the customer's redemption history.
func (f *CreditFacade) Redemptions(ctx context.Context, customerID string) ([]model.Redemption, error) {
	return f.redemptions.History(ctx, customerID)
}
