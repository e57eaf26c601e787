package calendar

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDate_Valid(t *testing.T) {
	d, err := NewDate(2024, time.February, 29)
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.February, d.Month())
	assert.Equal(t, 29, d.Day())
}

func TestNewDate_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		day   int
	}{
		{"month 13", 2025, 13, 1},
		{"month 0", 2025, 0, 1},
		{"day 32", 2025, time.January, 32},
		{"day 0", 2025, time.January, 0},
		{"feb 30", 2024, time.February, 30},
		{"feb 29 non-leap", 2023, time.February, 29},
		{"april 31", 2025, time.April, 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDate(tt.year, tt.month, tt.day)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDate)

			var de *DateError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tt.day, de.Day)
		})
	}
}

func TestIsLeapYear(t *testing.T) {
	tests := []struct {
		year int
		want bool
	}{
		{2024, true},
		{2023, false},
		{1900, false},
		{2000, true},
		{2100, false},
		{2400, true},
		{1600, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsLeapYear(tt.year), "IsLeapYear(%d)", tt.year)
	}
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 29, DaysIn(2024, time.February))
	assert.Equal(t, 28, DaysIn(1900, time.February))
	assert.Equal(t, 30, DaysIn(2025, time.November))
	assert.Equal(t, 31, DaysIn(2025, time.December))
	assert.Equal(t, 0, DaysIn(2025, 13))
}

func TestAddDays_Identity(t *testing.T) {
	for _, s := range []string{"2024-02-29", "1900-03-01", "0001-01-01", "9999-12-31", "2025-06-15"} {
		d := MustParseDate(s)
		assert.Equal(t, d, d.AddDays(0), s)
		assert.Equal(t, d, AddDays(d, 0), s)
	}
}

func TestDayDifference_InverseOfAddDays(t *testing.T) {
	bases := []Date{
		MustDate(2025, time.June, 15),
		MustDate(2024, time.February, 29),
		MustDate(1600, time.January, 1),
		MustDate(1, time.January, 1),
	}
	deltas := []int{0, 1, -1, 28, 365, -366, 1461, 36524, -36524, 146097, 3_000_000}

	for _, base := range bases {
		for _, n := range deltas {
			shifted := base.AddDays(n)
			assert.Equal(t, n, DayDifference(base, shifted), "%s %+d", base, n)
			assert.Equal(t, -n, DayDifference(shifted, base), "%s %+d reversed", base, n)
		}
	}
}

func TestDayDifference_CenturiesApart(t *testing.T) {
	a := MustDate(1700, time.January, 1)
	b := MustDate(2300, time.January, 1)
	// 1700, 1800, 1900, 2100 and 2200 are not leap years.
	assert.Equal(t, 600*365+145, DayDifference(a, b))
}

func TestAddDays_CrossesBoundaries(t *testing.T) {
	assert.Equal(t, MustDate(2024, time.March, 1), MustDate(2024, time.February, 28).AddDays(2))
	assert.Equal(t, MustDate(2023, time.March, 1), MustDate(2023, time.February, 28).AddDays(1))
	assert.Equal(t, MustDate(2026, time.January, 1), MustDate(2025, time.December, 31).AddDays(1))
	assert.Equal(t, MustDate(2024, time.December, 31), MustDate(2025, time.January, 1).AddDays(-1))
}

func TestWeekday(t *testing.T) {
	tests := []struct {
		date string
		want Weekday
	}{
		{"1970-01-01", Thursday},
		{"2025-06-15", Sunday},
		{"2026-08-15", Saturday},
		{"2024-02-29", Thursday},
		{"2000-01-03", Monday},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MustParseDate(tt.date).Weekday(), tt.date)
	}
}

func TestCompare(t *testing.T) {
	a := MustDate(2025, time.December, 31)
	b := MustDate(2026, time.January, 1)

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Before(a))
	assert.False(t, a.After(a))
	assert.True(t, a.Equal(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.True(t, a.InRange(a, b))
	assert.True(t, b.InRange(a, b))
	assert.False(t, b.AddDays(1).InRange(a, b))
	assert.Equal(t, a, MinDate(a, b))
	assert.Equal(t, b, MaxDate(a, b))
}

func TestParseDate_RoundTrip(t *testing.T) {
	start := MustDate(1999, time.January, 1)
	for i := 0; i < 3*366; i++ {
		d := start.AddDays(i)
		s := d.String()
		parsed, err := ParseDate(s)
		require.NoError(t, err, s)
		assert.Equal(t, d, parsed)
		assert.Equal(t, s, parsed.String())
	}
}

func TestParseDate_Malformed(t *testing.T) {
	tests := []string{
		"",
		"2025-6-15",
		"2025/06/15",
		"20250615",
		"2025-06-15T00:00:00",
		"abcd-06-15",
		"2025-0a-15",
		"2025-06-1x",
		"+025-06-15",
		"2025--6-15",
		" 2025-06-1",
	}

	for _, s := range tests {
		_, err := ParseDate(s)
		assert.ErrorIs(t, err, ErrMalformedDate, "%q", s)
		assert.NotErrorIs(t, err, ErrInvalidDate, "%q", s)
	}
}

func TestParseDate_ImpossibleDay(t *testing.T) {
	for _, s := range []string{"2025-02-30", "2025-13-01", "2025-00-10", "2023-02-29", "2025-04-31"} {
		_, err := ParseDate(s)
		assert.ErrorIs(t, err, ErrInvalidDate, "%q", s)
		assert.NotErrorIs(t, err, ErrMalformedDate, "%q", s)
	}
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		When Date  `json:"when"`
		Opt  *Date `json:"opt"`
	}

	in := payload{When: MustDate(2026, time.August, 15)}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"when":"2026-08-15","opt":null}`, string(data))

	var out payload
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in.When, out.When)

	err = json.Unmarshal([]byte(`{"when":"2026-02-30"}`), &out)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDate_StringExpandedYears(t *testing.T) {
	assert.Equal(t, "0001-01-01", MustDate(1, time.January, 1).String())
	assert.Equal(t, "+10000-01-01", MustDate(9999, time.December, 31).AddDays(1).String())
}

func TestFromTime(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	tm := time.Date(2025, time.December, 31, 23, 30, 0, 0, time.UTC).In(loc)
	assert.Equal(t, MustDate(2026, time.January, 1), FromTime(tm))
}
