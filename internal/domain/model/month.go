package model

import (
	"fmt"
	"time"
)

// MonthKey identifies one calendar month. Keys are totally ordered by
// (year, month) and index every monthly aggregate in the ledger.
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthOf returns the key for the calendar month containing t.
func MonthOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// NewMonthKey builds a key from explicit components.
func NewMonthKey(year int, month time.Month) MonthKey {
	return MonthKey{Year: year, Month: month}
}

// Before reports whether k is strictly earlier than other.
func (k MonthKey) Before(other MonthKey) bool {
	return k.index() < other.index()
}

// Compare returns -1, 0 or 1 ordering k against other.
func (k MonthKey) Compare(other MonthKey) int {
	switch {
	case k.index() < other.index():
		return -1
	case k.index() > other.index():
		return 1
	default:
		return 0
	}
}

// Next returns the key of the following calendar month.
func (k MonthKey) Next() MonthKey {
	if k.Month == time.December {
		return MonthKey{Year: k.Year + 1, Month: time.January}
	}
	return MonthKey{Year: k.Year, Month: k.Month + 1}
}

// IsZero reports whether the key is uninitialized.
func (k MonthKey) IsZero() bool {
	return k.Year == 0 && k.Month == 0
}

func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

func (k MonthKey) index() int {
	return k.Year*12 + int(k.Month) - 1
}
