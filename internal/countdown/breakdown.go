package countdown

import "github.com/zapponejosh/countdown-api/internal/calendar"

// Bucket widths of a Breakdown. These approximate calendar units and are
// part of the observable output.
const (
	DaysPerYear  = 365
	DaysPerMonth = 30
	DaysPerWeek  = 7
)

// Breakdown splits a day count into years, months, weeks and days using
// fixed-width buckets, largest first.
type Breakdown struct {
	Years  int `json:"years" msgpack:"y"`
	Months int `json:"months" msgpack:"m"`
	Weeks  int `json:"weeks" msgpack:"w"`
	Days   int `json:"days" msgpack:"d"`
}

// NewBreakdown decomposes delta. Zero and negative deltas yield the zero
// Breakdown.
func NewBreakdown(delta int) Breakdown {
	if delta <= 0 {
		return Breakdown{}
	}

	var b Breakdown
	b.Years, delta = delta/DaysPerYear, delta%DaysPerYear
	b.Months, delta = delta/DaysPerMonth, delta%DaysPerMonth
	b.Weeks, b.Days = delta/DaysPerWeek, delta%DaysPerWeek
	return b
}

// Between is the breakdown of the days from today until target.
func Between(today, target calendar.Date) Breakdown {
	return NewBreakdown(calendar.DayDifference(today, target))
}

// IsZero reports whether every component is zero.
func (b Breakdown) IsZero() bool {
	return b == Breakdown{}
}

// TotalDays reassembles the day count.
func (b Breakdown) TotalDays() int {
	return b.Years*DaysPerYear + b.Months*DaysPerMonth + b.Weeks*DaysPerWeek + b.Days
}
