package dto

import "time"

// QuoteRequest asks how much credit may be redeemed against a cart.
type QuoteRequest struct {
	CustomerID string `json:"customer_id"`
	Subtotal   string `json:"subtotal"`
}

// QuoteResponse carries the computed redemption quote.
type QuoteResponse struct {
	Amount          string `json:"amount"`
	EligibleBalance string `json:"eligible_balance"`
	Reason          string `json:"reason,omitempty"`
}

// RedeemRequest commits a confirmed redemption.
type RedeemRequest struct {
	CustomerID  string `json:"customer_id"`
	Amount      string `json:"amount"`
	OrderNumber string `json:"order_number"`
}

// RedemptionResponse describes one redemption history entry.
type RedemptionResponse struct {
	Amount      string    `json:"amount"`
	OrderNumber string    `json:"order_number,omitempty"`
	ProcessedAt time.Time `json:"processed_at"`
}
