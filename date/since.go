package date

import (
	"fmt"
	"strings"
	"time"
)

// Since selects the dates on or after a start day computed relative to today.
type Since string

// Known Since values.
const (
	All          Since = "all"
	CurrentMonth Since = "current-month"
	LastMonth    Since = "last-month"
	CurrentYear  Since = "current-year"
	LastYear     Since = "last-year"
)

// ParseSince parses one of the known Since values. The empty string is All.
func ParseSince(s string) (Since, error) {
	switch v := Since(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return All, nil
	case All, CurrentMonth, LastMonth, CurrentYear, LastYear:
		return v, nil
	default:
		return All, fmt.Errorf("unknown date range %q", s)
	}
}

// Start returns the first day selected relative to today. All returns the
// zero Date which is before any real day.
func (s Since) Start(today Date) Date {
	switch s {
	case CurrentMonth:
		return today.StartOf(Monthly)
	case LastMonth:
		return New(today.Year(), today.Month()-1, 1)
	case CurrentYear:
		return today.StartOf(Yearly)
	case LastYear:
		return New(today.Year()-1, time.January, 1)
	default:
		return Date{}
	}
}

// Range returns the open ended range starting on the start day relative to today.
func (s Since) Range(today Date) Range { return Range{From: s.Start(today)} }

// Includes reports whether d is on or after the start day relative to today.
func (s Since) Includes(today, d Date) bool { return s.Range(today).Contains(d) }
