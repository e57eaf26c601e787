package calendar

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Rule is a yearly recurrence definition. The set of implementations is
// closed: Fixed, MovableFeast, NthAdventSunday and NthWeekday. Resolve
// switches over exactly these.
type Rule interface {
	fmt.Stringer
	isRule()
}

// Fixed recurs on the same month and day every year. February 29 falls
// back to February 28 in non-leap years.
type Fixed struct {
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

// MovableFeast recurs a fixed number of days from Easter Sunday.
type MovableFeast struct {
	Offset int `json:"offset"`
}

// NthAdventSunday recurs on the N-th Sunday of Advent (1..4).
type NthAdventSunday struct {
	N int `json:"n"`
}

// NthWeekday recurs on the Occurrence-th Weekday of Month. Occurrence is
// 1-based or Last.
type NthWeekday struct {
	Month      time.Month `json:"month"`
	Weekday    Weekday    `json:"weekday"`
	Occurrence int        `json:"occurrence"`
}

func (Fixed) isRule()           {}
func (MovableFeast) isRule()    {}
func (NthAdventSunday) isRule() {}
func (NthWeekday) isRule()      {}

func (r Fixed) String() string {
	return fmt.Sprintf("%s %d", r.Month, r.Day)
}

func (r MovableFeast) String() string {
	switch {
	case r.Offset == 0:
		return "Easter Sunday"
	case r.Offset > 0:
		return fmt.Sprintf("Easter + %d days", r.Offset)
	default:
		return fmt.Sprintf("Easter - %d days", -r.Offset)
	}
}

func (r NthAdventSunday) String() string {
	return fmt.Sprintf("%s Sunday of Advent", ordinalLabel(r.N))
}

func (r NthWeekday) String() string {
	return fmt.Sprintf("%s %s of %s", ordinalLabel(r.Occurrence), r.Weekday, r.Month)
}

func ordinalLabel(n int) string {
	if n == Last {
		return "last"
	}
	return humanize.Ordinal(n)
}

// Resolve returns the date rule produces in year.
//
// A Fixed rule for February 29 resolves to February 28 in a non-leap year;
// that is the documented fallback, not an error. Rules whose parameters can
// never produce a date fail with ErrInvalidRule.
func Resolve(rule Rule, year int) (Date, error) {
	switch r := rule.(type) {
	case Fixed:
		return resolveFixed(r, year)
	case MovableFeast:
		if year < 1 {
			return Date{}, fmt.Errorf("%w: no Easter date for year %d", ErrInvalidRule, year)
		}
		return CalculateFeast(year, r.Offset), nil
	case NthAdventSunday:
		return CalculateAdvent(year, r.N)
	case NthWeekday:
		return NthWeekdayOfMonth(year, r.Month, r.Weekday, r.Occurrence)
	case nil:
		return Date{}, fmt.Errorf("%w: nil rule", ErrInvalidRule)
	default:
		return Date{}, fmt.Errorf("%w: unsupported rule type %T", ErrInvalidRule, rule)
	}
}

func resolveFixed(r Fixed, year int) (Date, error) {
	if r.Month == time.February && r.Day == 29 && !IsLeapYear(year) {
		return MustDate(year, time.February, 28), nil
	}
	// Validate against a leap year so Feb 29 itself is accepted as a rule.
	if !IsValid(2000, r.Month, r.Day) {
		return Date{}, fmt.Errorf("%w: no day %d in month %d", ErrInvalidRule, r.Day, int(r.Month))
	}
	return MustDate(year, r.Month, r.Day), nil
}

// ValidateRule checks that rule can be resolved in every year.
func ValidateRule(rule Rule) error {
	switch r := rule.(type) {
	case Fixed:
		_, err := resolveFixed(r, 2000)
		return err
	case MovableFeast:
		return nil
	case NthAdventSunday:
		_, err := CalculateAdvent(2000, r.N)
		return err
	case NthWeekday:
		// No month holds fewer than four of any weekday.
		if r.Occurrence != Last && r.Occurrence > 4 {
			return fmt.Errorf("%w: occurrence %d is not present every year", ErrInvalidRule, r.Occurrence)
		}
		_, err := NthWeekdayOfMonth(2000, r.Month, r.Weekday, r.Occurrence)
		return err
	default:
		_, err := Resolve(rule, 2000)
		return err
	}
}

// Anniversary is the Fixed rule that repeats original every year.
func Anniversary(original Date) Fixed {
	return Fixed{Month: original.Month(), Day: original.Day()}
}

// AnniversaryFor returns the anniversary of original in year, applying the
// February 29 fallback.
func AnniversaryFor(original Date, year int) Date {
	d, err := resolveFixed(Anniversary(original), year)
	if err != nil {
		// original is a valid Date, so its month/day is always resolvable.
		panic(err)
	}
	return d
}
