package dto

import "time"

// OrderEventRequest mirrors the order-paid webhook payload. Monetary
// amounts arrive as strings, commerce-platform style.
type OrderEventRequest struct {
	OrderID     string    `json:"order_id"`
	CustomerID  string    `json:"customer_id"`
	Total       string    `json:"total"`
	Currency    string    `json:"currency"`
	ProcessedAt time.Time `json:"processed_at"`
}

// OrderEventResponse acknowledges a received order event.
type OrderEventResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}
