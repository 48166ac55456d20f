package errors

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrNoCustomer          = errors.New("no customer")
	ErrInvalidOrderID      = errors.New("invalid order id")
	ErrInvalidOrderAmount  = errors.New("invalid order amount")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrDuplicateOrder      = errors.New("duplicate order")
	ErrLedgerCorruption    = errors.New("ledger corruption")
)
