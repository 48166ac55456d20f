package dto

// BalanceResponse summarizes a customer's credit position. Amounts are
// serialized as strings to preserve decimal precision.
type BalanceResponse struct {
	Eligible       string `json:"eligible"`
	Pending        string `json:"pending"`
	LifetimeEarned string `json:"lifetime_earned"`
	Redeemed       string `json:"redeemed"`
}

// LedgerEntryResponse is one month of the customer's ledger.
type LedgerEntryResponse struct {
	Month    string `json:"month"`
	Revenue  string `json:"revenue"`
	Earned   string `json:"earned"`
	Redeemed string `json:"redeemed"`
}
