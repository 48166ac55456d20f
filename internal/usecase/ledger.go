package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/merchware/creditledger/internal/domain/errors"
	"github.com/merchware/creditledger/internal/domain/model"
	"github.com/merchware/creditledger/internal/domain/repository"
	"github.com/merchware/creditledger/internal/ledger"
)

// LedgerUseCase owns the per-customer credit ledger: order accrual,
// maturation queries and redemption commits.
type LedgerUseCase struct {
	store repository.LedgerRepository
	tiers model.TierTable
}

// NewLedgerUseCase constructs LedgerUseCase.
func NewLedgerUseCase(store repository.LedgerRepository, tiers model.TierTable) *LedgerUseCase {
	return &LedgerUseCase{store: store, tiers: tiers}
}

// RecordOrder applies one paid order to the month of its own timestamp.
// Returns whether the order was newly applied; a replayed orderID is a
// no-op success with applied=false.
func (u *LedgerUseCase) RecordOrder(ctx context.Context, orderID, customerID string, total decimal.Decimal, orderAt time.Time) (bool, error) {
	if customerID == "" {
		return false, domainErrors.ErrNoCustomer
	}
	if orderID == "" {
		return false, domainErrors.ErrInvalidOrderID
	}
	if total.IsNegative() {
		return false, domainErrors.ErrInvalidOrderAmount
	}

	month := model.MonthOf(orderAt)
	applied, err := u.store.ApplyOrder(ctx, orderID, customerID, total, orderAt, month, func(entry model.LedgerEntry) (model.LedgerEntry, error) {
		return ledger.Accrue(entry, u.tiers, total)
	})
	if errors.Is(err, domainErrors.ErrDuplicateOrder) {
		return false, nil
	}
	return applied, err
}

// RedeemableBalance returns the matured credit as of the given date.
// Credit earned in the asOf month is never included.
func (u *LedgerUseCase) RedeemableBalance(ctx context.Context, customerID string, asOf time.Time) (decimal.Decimal, error) {
	if customerID == "" {
		return decimal.Zero, domainErrors.ErrNoCustomer
	}
	entries, err := u.store.Months(ctx, customerID)
	if err != nil {
		return decimal.Zero, err
	}
	return ledger.MaturedBalance(entries, model.MonthOf(asOf)), nil
}

// Summary aggregates matured, pending and lifetime credit totals.
func (u *LedgerUseCase) Summary(ctx context.Context, customerID string, asOf time.Time) (*model.BalanceSummary, error) {
	if customerID == "" {
		return nil, domainErrors.ErrNoCustomer
	}
	entries, err := u.store.Months(ctx, customerID)
	if err != nil {
		return nil, err
	}
	summary := ledger.Summarize(entries, model.MonthOf(asOf))
	return &summary, nil
}

// Entries returns the customer's monthly ledger, ascending by month.
func (u *LedgerUseCase) Entries(ctx context.Context, customerID string) ([]model.LedgerEntry, error) {
	if customerID == "" {
		return nil, domainErrors.ErrNoCustomer
	}
	return u.store.Months(ctx, customerID)
}

// RecordRedemption commits a confirmed redemption, deducting from
// matured months oldest first. The caller quotes separately; this is
// the at-most-once commit the checkout flow triggers on completion.
func (u *LedgerUseCase) RecordRedemption(ctx context.Context, customerID string, amount decimal.Decimal, asOf time.Time, orderNumber string) error {
	if customerID == "" {
		return domainErrors.ErrNoCustomer
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return domainErrors.ErrInvalidAmount
	}

	month := model.MonthOf(asOf)
	return u.store.ApplyRedemption(ctx, customerID, month, amount, orderNumber, func(entries []model.LedgerEntry) ([]model.LedgerEntry, error) {
		return ledger.Deduct(entries, month, amount)
	})
}
