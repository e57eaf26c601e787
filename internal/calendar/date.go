// Package calendar provides date arithmetic and recurrence calculations
// on the proleptic Gregorian calendar.
//
// Everything in this package is a pure function of its inputs. Nothing here
// reads the wall clock, logs, or holds mutable state, so every function is
// safe for concurrent use.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// Error conditions reported by this package. Callers match them with
// errors.Is.
var (
	// ErrInvalidDate is returned when a (year, month, day) triple does not
	// name a real calendar day.
	ErrInvalidDate = errors.New("invalid calendar date")

	// ErrMalformedDate is returned when a string is not a canonical
	// YYYY-MM-DD date.
	ErrMalformedDate = errors.New("malformed date string")

	// ErrUnknownRule is returned when a rule identifier is not in the catalog.
	ErrUnknownRule = errors.New("unknown recurrence rule")

	// ErrInvalidRule is returned when a rule's parameters cannot produce a
	// date (month 13, 6th Sunday of a month, 5th Advent, ...).
	ErrInvalidRule = errors.New("invalid recurrence rule")
)

// DateError describes an impossible (year, month, day) triple.
type DateError struct {
	Year  int
	Month time.Month
	Day   int
}

func (e *DateError) Error() string {
	return fmt.Sprintf("invalid calendar date %04d-%02d-%02d", e.Year, int(e.Month), e.Day)
}

// Unwrap lets errors.Is(err, ErrInvalidDate) match.
func (e *DateError) Unwrap() error {
	return ErrInvalidDate
}

const secondsPerDay = 24 * 60 * 60

// Date is a validated calendar day. Values are immutable; all arithmetic
// returns a new Date.
//
// The zero Date is not a valid day and is only useful as a placeholder.
type Date struct {
	year  int
	month time.Month
	day   int
}

// NewDate builds a Date, failing with a *DateError (matching ErrInvalidDate)
// when the triple does not exist. It never clamps.
func NewDate(year int, month time.Month, day int) (Date, error) {
	if !IsValid(year, month, day) {
		return Date{}, &DateError{Year: year, Month: month, Day: day}
	}
	return Date{year: year, month: month, day: day}, nil
}

// MustDate is like NewDate but panics on an invalid triple. Use it only for
// compile-time constants such as the rule catalog.
func MustDate(year int, month time.Month, day int) Date {
	d, err := NewDate(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// FromTime returns the calendar day of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{year: y, month: m, day: d}
}

// IsValid reports whether year/month/day names a real Gregorian day.
func IsValid(year int, month time.Month, day int) bool {
	if month < time.January || month > time.December {
		return false
	}
	return day >= 1 && day <= DaysIn(year, month)
}

// IsLeapYear reports whether year has a February 29.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysIn returns the number of days in the given month. It returns 0 for a
// month outside 1..12.
func DaysIn(year int, month time.Month) int {
	switch month {
	case time.January, time.March, time.May, time.July,
		time.August, time.October, time.December:
		return 31
	case time.April, time.June, time.September, time.November:
		return 30
	case time.February:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	}
	return 0
}

// Year returns the year of d.
func (d Date) Year() int { return d.year }

// Month returns the month of d.
func (d Date) Month() time.Month { return d.month }

// Day returns the day of the month of d.
func (d Date) Day() int { return d.day }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// dayNumber counts days since 1970-01-01. time.Duration saturates after
// ~292 years, so differences are taken on Unix seconds instead. Midnight UTC
// is always an exact multiple of a day.
func (d Date) dayNumber() int64 {
	return d.Time().Unix() / secondsPerDay
}

// AddDays returns d shifted by n days (n may be negative).
func (d Date) AddDays(n int) Date {
	return FromTime(time.Date(d.year, d.month, d.day+n, 0, 0, 0, 0, time.UTC))
}

// DayDifference returns b - a in whole days; positive when b is later.
func DayDifference(a, b Date) int {
	return int(b.dayNumber() - a.dayNumber())
}

// AddDays returns d shifted by n days.
func AddDays(d Date, n int) Date {
	return d.AddDays(n)
}

// Weekday returns the day of the week of d (Monday = 0 ... Sunday = 6).
func (d Date) Weekday() Weekday {
	return weekdayFromTime(d.Time().Weekday())
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after other.
func (d Date) Compare(other Date) int {
	switch {
	case d.year != other.year:
		return cmpInt(d.year, other.year)
	case d.month != other.month:
		return cmpInt(int(d.month), int(other.month))
	default:
		return cmpInt(d.day, other.day)
	}
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

// Equal reports whether d and other are the same day.
func (d Date) Equal(other Date) bool { return d == other }

// InRange reports whether from <= d <= to.
func (d Date) InRange(from, to Date) bool {
	return !d.Before(from) && !to.Before(d)
}

// MinDate returns the earlier of a and b.
func MinDate(a, b Date) Date {
	if b.Before(a) {
		return b
	}
	return a
}

// MaxDate returns the later of a and b.
func MaxDate(a, b Date) Date {
	if b.After(a) {
		return b
	}
	return a
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
