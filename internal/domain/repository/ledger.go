package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/merchware/creditledger/internal/domain/model"
)

// LedgerRepository persists per-customer monthly credit aggregates. It
// owns serialization: mutating methods run their callback inside a
// transaction holding row locks on the touched entries, so concurrent
// updates for one customer never lose writes.
type LedgerRepository interface {
	// ApplyOrder records orderID as applied and runs apply against the
	// (customerID, month) entry under an exclusive lock, persisting the
	// returned entry. When orderID was already applied nothing changes,
	// apply is not invoked and errors.ErrDuplicateOrder is returned.
	ApplyOrder(ctx context.Context, orderID, customerID string, total decimal.Decimal, orderAt time.Time, month model.MonthKey, apply func(model.LedgerEntry) (model.LedgerEntry, error)) (bool, error)

	// Months returns the customer's ledger entries in ascending month
	// order. Customers without history yield an empty slice.
	Months(ctx context.Context, customerID string) ([]model.LedgerEntry, error)

	// ApplyRedemption locks the customer's entries for months strictly
	// before asOf, passes them to plan in ascending order, persists the
	// entries plan returns and records the redemption of amount.
	ApplyRedemption(ctx context.Context, customerID string, asOf model.MonthKey, amount decimal.Decimal, orderNumber string, plan func([]model.LedgerEntry) ([]model.LedgerEntry, error)) error
}
