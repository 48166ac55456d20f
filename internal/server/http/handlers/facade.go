package handlers

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/merchware/creditledger/internal/domain/model"
)

// WebhookFacade receives order events from the commerce platform.
type WebhookFacade interface {
	EnqueueOrderEvent(ctx context.Context, event model.OrderEvent) (*model.OrderEvent, bool, error)
}

// CheckoutFacade serves redemption quotes and commits.
type CheckoutFacade interface {
	Quote(ctx context.Context, customerID string, subtotal decimal.Decimal, now time.Time) (*model.RedemptionResult, error)
	Redeem(ctx context.Context, customerID string, amount decimal.Decimal, orderNumber string, now time.Time) error
}

// LedgerFacade provides read access to customer credit state.
type LedgerFacade interface {
	Balance(ctx context.Context, customerID string, asOf time.Time) (*model.BalanceSummary, error)
	LedgerEntries(ctx context.Context, customerID string) ([]model.LedgerEntry, error)
	Redemptions(ctx context.Context, customerID string) ([]model.Redemption, error)
}

// CreditFacade aggregates the full set of operations used across handlers.
type CreditFacade interface {
	WebhookFacade
	CheckoutFacade
	LedgerFacade
}

// HealthChecker reports storage connectivity.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
