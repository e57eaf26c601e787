package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/zapponejosh/countdown-api/internal/calendar"
	"github.com/zapponejosh/countdown-api/internal/countdown"
)

func day(s string) calendar.Date {
	return calendar.MustParseDate(s)
}

func TestEvaluate_Interval(t *testing.T) {
	ev, err := NewSingleInterval(day("2026-07-01"), day("2026-07-11"))
	require.NoError(t, err)

	snap, err := Evaluate(ev, day("2026-06-17"), nil)
	require.NoError(t, err)
	assert.Equal(t, KindInterval, snap.Kind)
	require.NotNil(t, snap.Interval)
	assert.Nil(t, snap.Date)

	assert.Equal(t, 14, snap.Interval.DaysUntil)
	assert.Equal(t, 24, snap.Interval.DaysUntilEnd)
	assert.Equal(t, 11, snap.Interval.TotalDays)
	assert.False(t, snap.Interval.Active)
	assert.Equal(t, 100.0, snap.Interval.RemainingPercent)
	assert.Equal(t, countdown.Breakdown{Weeks: 2}, snap.Countdown)
	assert.Equal(t, "2 weeks", snap.CountdownText)

	snap, err = Evaluate(ev, day("2026-07-04"), nil)
	require.NoError(t, err)
	assert.True(t, snap.Interval.Active)
	assert.Equal(t, 8, snap.Interval.RemainingDays)
	assert.Equal(t, 70.0, snap.Interval.RemainingPercent)
	assert.True(t, snap.Countdown.IsZero(), "countdown stops once started")
	assert.Equal(t, "0 days", snap.CountdownText)
}

func TestEvaluate_SingleDayInterval(t *testing.T) {
	ev, err := NewSingleInterval(day("2026-08-15"), day("2026-08-15"))
	require.NoError(t, err)

	snap, err := Evaluate(ev, day("2026-08-15"), nil)
	require.NoError(t, err)
	assert.True(t, snap.Interval.StartsToday)
	assert.True(t, snap.Interval.EndsToday)
	assert.True(t, snap.Interval.Active)
	assert.Equal(t, 1, snap.Interval.RemainingDays)
	assert.Equal(t, 100.0, snap.Interval.RemainingPercent)
}

func TestEvaluate_SingleDate(t *testing.T) {
	ev := SingleDate{Date: day("2026-12-01")}

	snap, err := Evaluate(ev, day("2025-11-01"), countdown.NewFormatter(language.German))
	require.NoError(t, err)
	assert.Equal(t, 395, snap.Date.DaysUntil)
	assert.False(t, snap.Date.IsToday)
	assert.Equal(t, countdown.Breakdown{Years: 1, Months: 1}, snap.Countdown)
	assert.Equal(t, "1 Jahr, 1 Monat", snap.CountdownText)

	snap, err = Evaluate(ev, day("2026-12-03"), nil)
	require.NoError(t, err)
	assert.Equal(t, -2, snap.Date.DaysUntil)
	assert.True(t, snap.Countdown.IsZero())
}

func TestEvaluate_Yearly(t *testing.T) {
	ev := YearlyRecurring{Original: day("2020-06-15")}

	snap, err := Evaluate(ev, day("2025-06-15"), nil)
	require.NoError(t, err)
	y := snap.Yearly
	require.NotNil(t, y)
	assert.Equal(t, day("2025-06-15"), y.Next)
	require.NotNil(t, y.Last)
	assert.Equal(t, day("2025-06-15"), *y.Last)
	assert.True(t, y.IsToday)
	assert.Equal(t, 6, y.OccurrenceCount)
	assert.Equal(t, 5, y.YearsOnNext)
	require.NotNil(t, y.DaysSinceLast)
	assert.Equal(t, 0, *y.DaysSinceLast)

	snap, err = Evaluate(ev, day("2025-06-16"), nil)
	require.NoError(t, err)
	assert.Equal(t, day("2026-06-15"), snap.Yearly.Next)
	assert.Equal(t, 364, snap.Yearly.DaysUntilNext)
	assert.Equal(t, 6, snap.Yearly.YearsOnNext)
	assert.Equal(t, 1, *snap.Yearly.DaysSinceLast)
}

func TestEvaluate_YearlyNotStarted(t *testing.T) {
	ev := YearlyRecurring{Original: day("2030-01-01")}

	snap, err := Evaluate(ev, day("2025-06-15"), nil)
	require.NoError(t, err)
	assert.Nil(t, snap.Yearly.Last)
	assert.Nil(t, snap.Yearly.DaysSinceLast)
	assert.Equal(t, 0, snap.Yearly.OccurrenceCount)
	// Next follows the per-year resolution and lands before the series starts.
	assert.Equal(t, day("2026-01-01"), snap.Yearly.Next)
	assert.Equal(t, 200, snap.Yearly.DaysUntilNext)
	assert.Equal(t, -4, snap.Yearly.YearsOnNext)
}

func TestEvaluate_Rule(t *testing.T) {
	ev, err := NewRuleRecurring(calendar.DefaultCatalog(), "christmas_day")
	require.NoError(t, err)

	snap, err := Evaluate(ev, day("2026-12-11"), nil)
	require.NoError(t, err)
	r := snap.Rule
	require.NotNil(t, r)
	assert.Equal(t, "christmas_day", r.RuleID)
	assert.Equal(t, day("2026-12-25"), r.Next)
	assert.Equal(t, day("2025-12-25"), r.Last)
	assert.Equal(t, 14, r.DaysUntil)
	assert.Equal(t, 351, r.DaysSinceLast)
	assert.Nil(t, r.DSTActive)
	assert.Equal(t, "2 weeks", snap.CountdownText)
}

func TestEvaluate_DSTRule(t *testing.T) {
	ev, err := NewRuleRecurring(calendar.DefaultCatalog(), "dst_eu_winter")
	require.NoError(t, err)

	snap, err := Evaluate(ev, day("2026-10-17"), nil)
	require.NoError(t, err)
	assert.Equal(t, day("2026-10-25"), snap.Rule.Next)
	require.NotNil(t, snap.Rule.DSTActive)
	assert.True(t, *snap.Rule.DSTActive)
	assert.Equal(t, "1 week, 1 day", snap.CountdownText)
}

func TestEvaluate_InvalidRule(t *testing.T) {
	ev := RuleRecurring{Entry: calendar.Entry{ID: "broken", Rule: calendar.NthAdventSunday{N: 7}}}

	_, err := Evaluate(ev, day("2026-01-01"), nil)
	assert.ErrorIs(t, err, calendar.ErrInvalidRule)

	_, err = Evaluate(nil, day("2026-01-01"), nil)
	assert.ErrorIs(t, err, ErrInvalidDefinition)
}

func TestEvaluate_Idempotent(t *testing.T) {
	ev := YearlyRecurring{Original: day("2020-02-29")}
	today := day("2025-03-01")

	a, err := Evaluate(ev, today, nil)
	require.NoError(t, err)
	b, err := Evaluate(ev, today, nil)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, day("2026-02-28"), a.Yearly.Next)
}
