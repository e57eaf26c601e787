package calendar

import (
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the canonical ISO-8601 calendar date layout.
const DateLayout = "2006-01-02"

// ParseDate parses a canonical YYYY-MM-DD string.
//
// Strings of the wrong length, with the wrong separators or with non-digit
// fields fail with ErrMalformedDate. Well-formed strings naming a day that
// does not exist (2025-02-30, 2025-13-01) fail with ErrInvalidDate.
func ParseDate(s string) (Date, error) {
	if len(s) != len(DateLayout) {
		return Date{}, fmt.Errorf("%w: %q: want %d characters", ErrMalformedDate, s, len(DateLayout))
	}
	if s[4] != '-' || s[7] != '-' {
		return Date{}, fmt.Errorf("%w: %q: want YYYY-MM-DD", ErrMalformedDate, s)
	}

	year, err := parseDigits(s[0:4])
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q: year: %v", ErrMalformedDate, s, err)
	}
	month, err := parseDigits(s[5:7])
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q: month: %v", ErrMalformedDate, s, err)
	}
	day, err := parseDigits(s[8:10])
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q: day: %v", ErrMalformedDate, s, err)
	}

	return NewDate(year, time.Month(month), day)
}

// MustParseDate is like ParseDate but panics on error. Intended for tests
// and fixed tables.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// parseDigits accepts only ASCII digits; strconv.Atoi alone would also take
// a leading sign.
func parseDigits(field string) (int, error) {
	for i := 0; i < len(field); i++ {
		if field[i] < '0' || field[i] > '9' {
			return 0, fmt.Errorf("non-numeric field %q", field)
		}
	}
	return strconv.Atoi(field)
}

// String formats d as YYYY-MM-DD. Years outside 0..9999 use the ISO-8601
// expanded form with an explicit sign.
func (d Date) String() string {
	if d.year < 0 || d.year > 9999 {
		return fmt.Sprintf("%+05d-%02d-%02d", d.year, int(d.month), d.day)
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler using the ISO form.
func (d Date) MarshalBinary() ([]byte, error) {
	return d.MarshalText()
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (d *Date) UnmarshalBinary(b []byte) error {
	return d.UnmarshalText(b)
}
