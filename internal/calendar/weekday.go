package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Weekday numbers days of the week starting at Monday = 0. This differs
// from time.Weekday (Sunday = 0) and is the convention every rule uses.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// Last selects the final matching weekday of a month in NthWeekday rules.
const Last = -1

func weekdayFromTime(w time.Weekday) Weekday {
	return Weekday((int(w) + 6) % 7)
}

// TimeWeekday converts w to the standard library numbering.
func (w Weekday) TimeWeekday() time.Weekday {
	return time.Weekday((int(w) + 1) % 7)
}

// String returns the English day name.
func (w Weekday) String() string {
	if w < Monday || w > Sunday {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return w.TimeWeekday().String()
}

// ParseWeekday accepts an English day name, case-insensitively.
func ParseWeekday(s string) (Weekday, error) {
	for w := Monday; w <= Sunday; w++ {
		if strings.EqualFold(s, w.String()) {
			return w, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// NthWeekdayOfMonth returns the n-th (1-based) given weekday of a month,
// e.g. the 2nd Sunday of March. n == Last selects the final one.
//
// An n that would leave the month (the 5th Sunday of a month with four)
// fails with ErrInvalidRule.
func NthWeekdayOfMonth(year int, month time.Month, weekday Weekday, n int) (Date, error) {
	if month < time.January || month > time.December {
		return Date{}, fmt.Errorf("%w: month %d", ErrInvalidRule, int(month))
	}
	if weekday < Monday || weekday > Sunday {
		return Date{}, fmt.Errorf("%w: weekday %d", ErrInvalidRule, int(weekday))
	}
	if n == Last {
		return LastWeekdayOfMonth(year, month, weekday), nil
	}
	if n < 1 {
		return Date{}, fmt.Errorf("%w: occurrence %d", ErrInvalidRule, n)
	}

	first := MustDate(year, month, 1)
	daysUntilFirst := (int(weekday) - int(first.Weekday()) + 7) % 7
	result := first.AddDays(daysUntilFirst + (n-1)*7)

	if result.Month() != month || result.Year() != year {
		return Date{}, fmt.Errorf("%w: no %s %s in %s %d",
			ErrInvalidRule, ordinalLabel(n), weekday, month, year)
	}
	return result, nil
}

// LastWeekdayOfMonth returns the final given weekday of a month, e.g. the
// last Sunday of October.
func LastWeekdayOfMonth(year int, month time.Month, weekday Weekday) Date {
	lastDay := MustDate(year, month, DaysIn(year, month))
	daysBack := (int(lastDay.Weekday()) - int(weekday) + 7) % 7
	return lastDay.AddDays(-daysBack)
}

// CalculateAdvent returns the n-th Sunday of Advent (n = 1..4).
//
// The 4th Advent is the last Sunday on or before December 24; the others
// follow at one-week steps backwards.
func CalculateAdvent(year, n int) (Date, error) {
	if n < 1 || n > 4 {
		return Date{}, fmt.Errorf("%w: advent sunday %d", ErrInvalidRule, n)
	}

	christmasEve := MustDate(year, time.December, 24)
	daysBack := (int(christmasEve.Weekday()) - int(Sunday) + 7) % 7
	fourth := christmasEve.AddDays(-daysBack)

	return fourth.AddDays(-7 * (4 - n)), nil
}

func monthOf(m int) time.Month {
	return time.Month(m)
}
