package model

import "github.com/shopspring/decimal"

// LedgerEntry is the monthly aggregate for one customer: revenue
// attributed to the month, credits earned from it and credits already
// redeemed against it. Revenue and Earned only grow while the month is
// current; Redeemed grows as matured credits are spent.
type LedgerEntry struct {
	CustomerID string
	Month      MonthKey
	Revenue    decimal.Decimal
	Earned     decimal.Decimal
	Redeemed   decimal.Decimal
}

// Remaining returns the unspent credit held by this month.
func (e LedgerEntry) Remaining() decimal.Decimal {
	return e.Earned.Sub(e.Redeemed)
}
