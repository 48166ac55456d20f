package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestSentinelErrorsWrap(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"not found", ErrNotFound},
		{"no customer", ErrNoCustomer},
		{"invalid order id", ErrInvalidOrderID},
		{"invalid order amount", ErrInvalidOrderAmount},
		{"invalid amount", ErrInvalidAmount},
		{"insufficient balance", ErrInsufficientBalance},
		{"duplicate order", ErrDuplicateOrder},
		{"ledger corruption", ErrLedgerCorruption},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tc.err)
			if !stdErrors.Is(wrapped, tc.err) {
				t.Fatalf("expected wrapped error to match %v", tc.err)
			}
		})
	}
}
