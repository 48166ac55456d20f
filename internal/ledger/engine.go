// Package ledger holds the pure credit math: per-order accrual against
// the tier table, maturation of monthly credit, oldest-first deduction
// and redemption quoting. Functions here never touch storage; they are
// handed entries and return new state, leaving persistence and locking
// to the repository layer.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	domainErrors "github.com/merchware/creditledger/internal/domain/errors"
	"github.com/merchware/creditledger/internal/domain/model"
)

// DefaultCapRate limits a redemption to 20% of the order subtotal.
var DefaultCapRate = decimal.New(20, -2)

// minRedeemable is one minor currency unit; quotes below it collapse
// to zero rather than producing sub-cent discounts.
var minRedeemable = decimal.New(1, -2)

// Accrue applies one order's total to its month entry. Revenue grows by
// total, and the rebate rate is looked up against the cumulative revenue
// after this order. The rate applies to this order's contribution only;
// earlier orders in the month keep the rate they earned at their time.
func Accrue(entry model.LedgerEntry, tiers model.TierTable, total decimal.Decimal) (model.LedgerEntry, error) {
	if total.IsNegative() {
		return entry, domainErrors.ErrInvalidOrderAmount
	}

	entry.Revenue = entry.Revenue.Add(total)
	rate := tiers.RateFor(entry.Revenue)
	entry.Earned = entry.Earned.Add(total.Mul(rate))
	return entry, nil
}

// MaturedBalance sums the unspent credit of every month strictly earlier
// than asOf. Credit earned in the asOf month is never included, whatever
// the day within that month.
func MaturedBalance(entries []model.LedgerEntry, asOf model.MonthKey) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.Month.Before(asOf) {
			total = total.Add(e.Remaining())
		}
	}
	return total
}

// Summarize aggregates entries into a balance summary as of the given
// month: matured credit, credit still locked to its accrual month, and
// lifetime earned/redeemed totals.
func Summarize(entries []model.LedgerEntry, asOf model.MonthKey) model.BalanceSummary {
	summary := model.BalanceSummary{
		Eligible:       decimal.Zero,
		Pending:        decimal.Zero,
		LifetimeEarned: decimal.Zero,
		Redeemed:       decimal.Zero,
	}
	for _, e := range entries {
		summary.LifetimeEarned = summary.LifetimeEarned.Add(e.Earned)
		summary.Redeemed = summary.Redeemed.Add(e.Redeemed)
		if e.Month.Before(asOf) {
			summary.Eligible = summary.Eligible.Add(e.Remaining())
		} else {
			summary.Pending = summary.Pending.Add(e.Remaining())
		}
	}
	return summary
}

// Deduct spends amount from matured months, oldest first, and returns
// the entries whose Redeemed changed. Months at or after asOf are never
// touched and no month's balance goes negative. Amounts exceeding the
// matured total fail with ErrInsufficientBalance and change nothing.
func Deduct(entries []model.LedgerEntry, asOf model.MonthKey, amount decimal.Decimal) ([]model.LedgerEntry, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domainErrors.ErrInvalidAmount
	}
	if amount.GreaterThan(MaturedBalance(entries, asOf)) {
		return nil, domainErrors.ErrInsufficientBalance
	}

	matured := make([]model.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if e.Month.Before(asOf) {
			matured = append(matured, e)
		}
	}
	sort.Slice(matured, func(i, j int) bool {
		return matured[i].Month.Before(matured[j].Month)
	})

	remaining := amount
	var changed []model.LedgerEntry
	for _, e := range matured {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		available := e.Remaining()
		if available.LessThanOrEqual(decimal.Zero) {
			continue
		}
		take := decimal.Min(available, remaining)
		e.Redeemed = e.Redeemed.Add(take)
		remaining = remaining.Sub(take)
		changed = append(changed, e)
	}
	return changed, nil
}

// Quote computes the redeemable discount for an order: the matured
// balance clipped by capRate of the subtotal, dropped to zero when the
// result is below one minor unit. Quote is a pure read; committing the
// spend is a separate Deduct once checkout confirms the discount.
func Quote(eligible, subtotal, capRate decimal.Decimal) model.RedemptionResult {
	if eligible.LessThanOrEqual(decimal.Zero) {
		return model.RedemptionResult{
			Amount:          decimal.Zero,
			EligibleBalance: decimal.Zero,
			Reason:          "no matured credits",
		}
	}

	cap := subtotal.Mul(capRate)
	amount := decimal.Min(eligible, cap)
	if amount.LessThan(minRedeemable) {
		return model.RedemptionResult{
			Amount:          decimal.Zero,
			EligibleBalance: eligible,
			Reason:          "amount below minimum",
		}
	}

	return model.RedemptionResult{Amount: amount, EligibleBalance: eligible}
}
