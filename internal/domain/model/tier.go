package model

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Tier maps a monthly spend threshold to a rebate rate. Thresholds are
// expressed in minor currency units (cents), rates in basis points.
type Tier struct {
	ThresholdMinor  int64 `json:"threshold_minor"`
	RateBasisPoints int64 `json:"rate_basis_points"`
}

// Threshold returns the spend threshold in major currency units.
func (t Tier) Threshold() decimal.Decimal {
	return decimal.New(t.ThresholdMinor, -2)
}

// Rate returns the rebate rate as a fraction (350bp -> 0.035).
func (t Tier) Rate() decimal.Decimal {
	return decimal.New(t.RateBasisPoints, -4)
}

// TierTable is the static spend-to-rebate schedule, held descending by
// threshold. It is loaded once at process start and never mutated.
type TierTable []Tier

// NewTierTable copies tiers into descending threshold order. On equal
// thresholds the higher rate sorts first, so it wins the lookup.
func NewTierTable(tiers []Tier) TierTable {
	table := make(TierTable, len(tiers))
	copy(table, tiers)
	sort.SliceStable(table, func(i, j int) bool {
		if table[i].ThresholdMinor == table[j].ThresholdMinor {
			return table[i].RateBasisPoints > table[j].RateBasisPoints
		}
		return table[i].ThresholdMinor > table[j].ThresholdMinor
	})
	return table
}

// RateFor returns the rebate rate for the given cumulative monthly
// revenue: the highest threshold not exceeding revenue wins. Revenue
// below every threshold earns the zero catch-all rate.
func (t TierTable) RateFor(revenue decimal.Decimal) decimal.Decimal {
	for _, tier := range t {
		if revenue.GreaterThanOrEqual(tier.Threshold()) {
			return tier.Rate()
		}
	}
	return decimal.Zero
}

// DefaultTierTable returns the built-in schedule: 2% from $10k monthly
// spend, 3.5% from $20k, 4% from $50k, nothing below.
func DefaultTierTable() TierTable {
	return NewTierTable([]Tier{
		{ThresholdMinor: 0, RateBasisPoints: 0},
		{ThresholdMinor: 1_000_000, RateBasisPoints: 200},
		{ThresholdMinor: 2_000_000, RateBasisPoints: 350},
		{ThresholdMinor: 5_000_000, RateBasisPoints: 400},
	})
}
