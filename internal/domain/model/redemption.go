package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Redemption is one committed spend of matured credits.
type Redemption struct {
	ID          int64
	CustomerID  string
	Amount      decimal.Decimal
	OrderNumber string
	ProcessedAt time.Time
}

// RedemptionResult is the outcome of a redemption quote. Amount is zero
// when nothing can be redeemed, with Reason saying why.
type RedemptionResult struct {
	Amount          decimal.Decimal
	EligibleBalance decimal.Decimal
	Reason          string
}

// BalanceSummary aggregates a customer's credit position: matured
// spendable credit, immature credit still locked to its accrual month,
// and the lifetime totals.
type BalanceSummary struct {
	Eligible       decimal.Decimal
	Pending        decimal.Decimal
	LifetimeEarned decimal.Decimal
	Redeemed       decimal.Decimal
}
