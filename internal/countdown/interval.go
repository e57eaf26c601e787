// Package countdown turns day deltas into the numbers shown to users:
// inclusive interval progress and the 365/30/7 countdown breakdown.
package countdown

import (
	"math"

	"github.com/zapponejosh/countdown-api/internal/calendar"
)

// Interval is an inclusive date range. Start <= End is expected; callers
// validate that when the interval is configured. With End before Start the
// arithmetic stays defined and Span is simply negative.
type Interval struct {
	Start calendar.Date `json:"start"`
	End   calendar.Date `json:"end"`
}

// DaysUntilStart is Start - today. Negative once the interval has started.
func (iv Interval) DaysUntilStart(today calendar.Date) int {
	return calendar.DayDifference(today, iv.Start)
}

// DaysUntilEnd is End - today. Negative once the interval is over.
func (iv Interval) DaysUntilEnd(today calendar.Date) int {
	return calendar.DayDifference(today, iv.End)
}

// IsActive reports whether Start <= today <= End.
func (iv Interval) IsActive(today calendar.Date) bool {
	return today.InRange(iv.Start, iv.End)
}

// StartsToday reports whether today is the first day. For a single-day
// interval StartsToday and EndsToday are both true on that day.
func (iv Interval) StartsToday(today calendar.Date) bool {
	return today.Equal(iv.Start)
}

// EndsToday reports whether today is the last day.
func (iv Interval) EndsToday(today calendar.Date) bool {
	return today.Equal(iv.End)
}

// Span is End - Start in days. It is zero for a single-day interval.
func (iv Interval) Span() int {
	return calendar.DayDifference(iv.Start, iv.End)
}

// TotalDays counts the days of the interval, both ends included.
func (iv Interval) TotalDays() int {
	return iv.Span() + 1
}

// RemainingDays counts the days left including today while the interval
// is active, and is 0 otherwise.
func (iv Interval) RemainingDays(today calendar.Date) int {
	if !iv.IsActive(today) {
		return 0
	}
	return iv.DaysUntilEnd(today) + 1
}

// RemainingPercent is the share of the interval still ahead, 100 before it
// starts and 0 after it ends, rounded to one decimal.
func (iv Interval) RemainingPercent(today calendar.Date) float64 {
	switch {
	case today.Before(iv.Start):
		return 100
	case today.After(iv.End):
		return 0
	}

	span := iv.Span()
	if span <= 0 {
		return 100
	}

	elapsed := calendar.DayDifference(iv.Start, today)
	p := 100 - float64(elapsed)/float64(span)*100
	p = math.Max(0, math.Min(100, p))
	// Ties go to the even tenth: 81.25 is 81.2.
	return math.RoundToEven(p*10) / 10
}
