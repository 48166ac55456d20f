package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/merchware/creditledger/internal/domain/errors"
	"github.com/merchware/creditledger/internal/domain/model"
	"github.com/merchware/creditledger/internal/domain/repository"
	"github.com/merchware/creditledger/internal/ledger"
)

// RedemptionUseCase computes redemption quotes and serves the history.
type RedemptionUseCase struct {
	store   repository.LedgerRepository
	history repository.RedemptionRepository
	capRate decimal.Decimal
}

// NewRedemptionUseCase constructs RedemptionUseCase. A non-positive
// capRate falls back to the default 20% cap.
func NewRedemptionUseCase(store repository.LedgerRepository, history repository.RedemptionRepository, capRate decimal.Decimal) *RedemptionUseCase {
	if capRate.LessThanOrEqual(decimal.Zero) {
		capRate = ledger.DefaultCapRate
	}
	return &RedemptionUseCase{store: store, history: history, capRate: capRate}
}

// ComputeRedemption quotes the discount redeemable against an order.
// Pure read: the ledger is not mutated, so checkout may re-quote freely
// and commit via LedgerUseCase.RecordRedemption once the discount is
// confirmed applied.
func (u *RedemptionUseCase) ComputeRedemption(ctx context.Context, customerID string, subtotal decimal.Decimal, now time.Time) (*model.RedemptionResult, error) {
	if customerID == "" {
		return &model.RedemptionResult{
			Amount:          decimal.Zero,
			EligibleBalance: decimal.Zero,
			Reason:          "no customer",
		}, nil
	}
	if subtotal.IsNegative() {
		return nil, domainErrors.ErrInvalidAmount
	}

	entries, err := u.store.Months(ctx, customerID)
	if err != nil {
		return nil, err
	}

	eligible := ledger.MaturedBalance(entries, model.MonthOf(now))
	result := ledger.Quote(eligible, subtotal, u.capRate)
	return &result, nil
}

// History returns committed redemptions sorted by time.
func (u *RedemptionUseCase) History(ctx context.Context, customerID string) ([]model.Redemption, error) {
	if customerID == "" {
		return nil, domainErrors.ErrNoCustomer
	}
	return u.history.ListByCustomer(ctx, customerID)
}
