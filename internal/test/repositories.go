package test

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/merchware/creditledger/internal/domain/errors"
	"github.com/merchware/creditledger/internal/domain/model"
)

// LedgerRepositoryStub keeps ledger entries in-memory with the same
// callback semantics as the SQL implementation.
type LedgerRepositoryStub struct {
	Entries map[string][]model.LedgerEntry
	Applied map[string]struct{}

	ApplyOrderErr      error
	MonthsErr          error
	ApplyRedemptionErr error

	Redemptions []RedemptionCall
}

// RedemptionCall captures one ApplyRedemption invocation.
type RedemptionCall struct {
	CustomerID  string
	AsOf        model.MonthKey
	Amount      decimal.Decimal
	OrderNumber string
}

// NewLedgerRepositoryStub constructs stub repository with initialized maps.
func NewLedgerRepositoryStub() *LedgerRepositoryStub {
	return &LedgerRepositoryStub{
		Entries: make(map[string][]model.LedgerEntry),
		Applied: make(map[string]struct{}),
	}
}

// ApplyOrder deduplicates by order identifier and runs apply against the
// stored month entry.
func (s *LedgerRepositoryStub) ApplyOrder(ctx context.Context, orderID, customerID string, total decimal.Decimal, orderAt time.Time, month model.MonthKey, apply func(model.LedgerEntry) (model.LedgerEntry, error)) (bool, error) {
	if s.ApplyOrderErr != nil {
		return false, s.ApplyOrderErr
	}
	if _, done := s.Applied[orderID]; done {
		return false, domainErrors.ErrDuplicateOrder
	}

	entries := s.Entries[customerID]
	idx := -1
	for i, e := range entries {
		if e.Month == month {
			idx = i
			break
		}
	}

	entry := model.LedgerEntry{CustomerID: customerID, Month: month}
	if idx >= 0 {
		entry = entries[idx]
	}

	updated, err := apply(entry)
	if err != nil {
		return false, err
	}

	if idx >= 0 {
		entries[idx] = updated
	} else {
		entries = append(entries, updated)
		sort.Slice(entries, func(i, j int) bool { return entries[i].Month.Before(entries[j].Month) })
	}
	s.Entries[customerID] = entries
	s.Applied[orderID] = struct{}{}
	return true, nil
}

// Months returns stored entries in ascending month order.
func (s *LedgerRepositoryStub) Months(ctx context.Context, customerID string) ([]model.LedgerEntry, error) {
	if s.MonthsErr != nil {
		return nil, s.MonthsErr
	}
	entries := s.Entries[customerID]
	out := make([]model.LedgerEntry, len(entries))
	copy(out, entries)
	return out, nil
}

// ApplyRedemption passes matured entries to plan and stores the result.
func (s *LedgerRepositoryStub) ApplyRedemption(ctx context.Context, customerID string, asOf model.MonthKey, amount decimal.Decimal, orderNumber string, plan func([]model.LedgerEntry) ([]model.LedgerEntry, error)) error {
	if s.ApplyRedemptionErr != nil {
		return s.ApplyRedemptionErr
	}

	entries := s.Entries[customerID]
	matured := make([]model.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if e.Month.Before(asOf) {
			matured = append(matured, e)
		}
	}

	changed, err := plan(matured)
	if err != nil {
		return err
	}

	for _, c := range changed {
		for i, e := range entries {
			if e.Month == c.Month {
				entries[i] = c
				break
			}
		}
	}
	s.Entries[customerID] = entries
	s.Redemptions = append(s.Redemptions, RedemptionCall{
		CustomerID:  customerID,
		AsOf:        asOf,
		Amount:      amount,
		OrderNumber: orderNumber,
	})
	return nil
}

// OrderEventRepositoryStub is an in-memory order event inbox.
type OrderEventRepositoryStub struct {
	EnqueueFn     func(context.Context, model.OrderEvent) (*model.OrderEvent, bool, error)
	SelectBatchFn func(context.Context, int) ([]model.OrderEvent, error)
	UpdateFn      func(context.Context, int64, model.OrderEventStatus) error

	Events      []model.OrderEvent
	Next        int64
	StatusCalls []EventStatusCall
}

// EventStatusCall stores information about UpdateStatus invocations.
type EventStatusCall struct {
	EventID int64
	Status  model.OrderEventStatus
}

// Enqueue stores the event unless its order is already known.
func (s *OrderEventRepositoryStub) Enqueue(ctx context.Context, event model.OrderEvent) (*model.OrderEvent, bool, error) {
	if s.EnqueueFn != nil {
		return s.EnqueueFn(ctx, event)
	}
	for _, existing := range s.Events {
		if existing.OrderID == event.OrderID {
			stored := existing
			return &stored, false, nil
		}
	}
	if s.Next == 0 {
		s.Next = 1
	}
	event.ID = s.Next
	event.Status = model.OrderEventStatusNew
	s.Next++
	s.Events = append(s.Events, event)
	stored := event
	return &stored, true, nil
}

// SelectBatchForProcessing returns NEW events and marks them PROCESSING.
func (s *OrderEventRepositoryStub) SelectBatchForProcessing(ctx context.Context, limit int) ([]model.OrderEvent, error) {
	if s.SelectBatchFn != nil {
		return s.SelectBatchFn(ctx, limit)
	}
	var claimed []model.OrderEvent
	for i := range s.Events {
		if len(claimed) == limit {
			break
		}
		if s.Events[i].Status == model.OrderEventStatusNew {
			s.Events[i].Status = model.OrderEventStatusProcessing
			claimed = append(claimed, s.Events[i])
		}
	}
	return claimed, nil
}

// UpdateStatus records the status transition.
func (s *OrderEventRepositoryStub) UpdateStatus(ctx context.Context, eventID int64, status model.OrderEventStatus) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, eventID, status)
	}
	for i := range s.Events {
		if s.Events[i].ID == eventID {
			s.Events[i].Status = status
			break
		}
	}
	s.StatusCalls = append(s.StatusCalls, EventStatusCall{EventID: eventID, Status: status})
	return nil
}

// RedemptionRepositoryStub stores redemption history for tests.
type RedemptionRepositoryStub struct {
	ListFn func(context.Context, string) ([]model.Redemption, error)
	Items  []model.Redemption
}

// ListByCustomer returns configured redemptions.
func (s *RedemptionRepositoryStub) ListByCustomer(ctx context.Context, customerID string) ([]model.Redemption, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, customerID)
	}
	return s.Items, nil
}
