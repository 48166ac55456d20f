package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestMonthKeyOrdering(t *testing.T) {
	cases := []struct {
		name    string
		a, b    MonthKey
		compare int
	}{
		{"same month", NewMonthKey(2024, time.March), NewMonthKey(2024, time.March), 0},
		{"earlier month same year", NewMonthKey(2024, time.February), NewMonthKey(2024, time.March), -1},
		{"earlier year later month", NewMonthKey(2023, time.December), NewMonthKey(2024, time.January), -1},
		{"later year", NewMonthKey(2025, time.January), NewMonthKey(2024, time.December), 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Compare(tc.b); got != tc.compare {
				t.Fatalf("expected compare %d, got %d", tc.compare, got)
			}
			if got := tc.a.Before(tc.b); got != (tc.compare < 0) {
				t.Fatalf("unexpected Before result %v", got)
			}
		})
	}
}

func TestMonthKeyNext(t *testing.T) {
	if got := NewMonthKey(2024, time.December).Next(); got != NewMonthKey(2025, time.January) {
		t.Fatalf("expected 2025-01, got %s", got)
	}
	if got := NewMonthKey(2024, time.May).Next(); got != NewMonthKey(2024, time.June) {
		t.Fatalf("expected 2024-06, got %s", got)
	}
}

func TestMonthOf(t *testing.T) {
	ts := time.Date(2024, time.July, 31, 23, 59, 59, 0, time.UTC)
	if got := MonthOf(ts); got != NewMonthKey(2024, time.July) {
		t.Fatalf("expected 2024-07, got %s", got)
	}
}

func TestMonthKeyString(t *testing.T) {
	if got := NewMonthKey(2024, time.July).String(); got != "2024-07" {
		t.Fatalf("unexpected string %q", got)
	}
}

func TestTierTableRateFor(t *testing.T) {
	table := DefaultTierTable()

	cases := []struct {
		revenue string
		rate    string
	}{
		{"0", "0"},
		{"9999.99", "0"},
		{"10000", "0.02"},
		{"19999.99", "0.02"},
		{"20000", "0.035"},
		{"50000", "0.04"},
		{"1000000", "0.04"},
	}

	for _, tc := range cases {
		revenue, _ := decimal.NewFromString(tc.revenue)
		want, _ := decimal.NewFromString(tc.rate)
		if got := table.RateFor(revenue); !got.Equal(want) {
			t.Fatalf("revenue %s: expected rate %s, got %s", tc.revenue, tc.rate, got)
		}
	}
}

func TestTierTableEqualThresholdsPreferHigherRate(t *testing.T) {
	table := NewTierTable([]Tier{
		{ThresholdMinor: 100_000, RateBasisPoints: 100},
		{ThresholdMinor: 100_000, RateBasisPoints: 250},
	})

	got := table.RateFor(decimal.NewFromInt(1000))
	want := decimal.New(250, -4)
	if !got.Equal(want) {
		t.Fatalf("expected higher rate %s to win, got %s", want, got)
	}
}

func TestTierTableAcceptsAnyInputOrder(t *testing.T) {
	ascending := NewTierTable([]Tier{
		{ThresholdMinor: 0, RateBasisPoints: 0},
		{ThresholdMinor: 1_000_000, RateBasisPoints: 200},
		{ThresholdMinor: 5_000_000, RateBasisPoints: 400},
	})

	revenue := decimal.NewFromInt(60000)
	if got := ascending.RateFor(revenue); !got.Equal(decimal.New(400, -4)) {
		t.Fatalf("expected top tier rate, got %s", got)
	}
}

func TestLedgerEntryRemaining(t *testing.T) {
	entry := LedgerEntry{
		Earned:   decimal.NewFromInt(100),
		Redeemed: decimal.NewFromInt(40),
	}
	if got := entry.Remaining(); !got.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected 60, got %s", got)
	}
}
