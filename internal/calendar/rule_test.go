package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
		year int
		want string
	}{
		{"christmas", Fixed{Month: time.December, Day: 25}, 2025, "2025-12-25"},
		{"leap day in leap year", Fixed{Month: time.February, Day: 29}, 2024, "2024-02-29"},
		{"leap day falls back", Fixed{Month: time.February, Day: 29}, 2025, "2025-02-28"},
		{"leap day falls back in 1900", Fixed{Month: time.February, Day: 29}, 1900, "1900-02-28"},
		{"easter", MovableFeast{Offset: OffsetEasterSunday}, 2026, "2026-04-05"},
		{"good friday", MovableFeast{Offset: OffsetGoodFriday}, 2026, "2026-04-03"},
		{"first advent", NthAdventSunday{N: 1}, 2025, "2025-11-30"},
		{"eu summer time", NthWeekday{Month: time.March, Weekday: Sunday, Occurrence: Last}, 2026, "2026-03-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.rule, tt.year)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestResolve_InvalidRules(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
	}{
		{"nil", nil},
		{"month 13", Fixed{Month: 13, Day: 1}},
		{"february 30", Fixed{Month: time.February, Day: 30}},
		{"fifth advent", NthAdventSunday{N: 5}},
		{"zeroth weekday", NthWeekday{Month: time.May, Weekday: Sunday, Occurrence: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.rule, 2025)
			assert.ErrorIs(t, err, ErrInvalidRule)
			assert.ErrorIs(t, ValidateRule(tt.rule), ErrInvalidRule)
		})
	}
}

func TestResolve_EasterBeforeYearOne(t *testing.T) {
	for _, year := range []int{0, -49} {
		_, err := Resolve(MovableFeast{Offset: OffsetPentecost}, year)
		assert.ErrorIs(t, err, ErrInvalidRule, "year %d", year)
	}

	got, err := Resolve(MovableFeast{Offset: OffsetEasterSunday}, 1)
	require.NoError(t, err)
	assert.Equal(t, Sunday, got.Weekday())
}

func TestValidateRule_FifthWeekday(t *testing.T) {
	// Resolvable in some years, but not in all of them.
	rule := NthWeekday{Month: time.March, Weekday: Sunday, Occurrence: 5}
	assert.ErrorIs(t, ValidateRule(rule), ErrInvalidRule)
	assert.NoError(t, ValidateRule(Fixed{Month: time.February, Day: 29}))
}

func TestRule_String(t *testing.T) {
	assert.Equal(t, "December 25", Fixed{Month: time.December, Day: 25}.String())
	assert.Equal(t, "Easter Sunday", MovableFeast{}.String())
	assert.Equal(t, "Easter - 2 days", MovableFeast{Offset: -2}.String())
	assert.Equal(t, "Easter + 49 days", MovableFeast{Offset: 49}.String())
	assert.Equal(t, "1st Sunday of Advent", NthAdventSunday{N: 1}.String())
	assert.Equal(t, "2nd Sunday of March", NthWeekday{Month: time.March, Weekday: Sunday, Occurrence: 2}.String())
	assert.Equal(t, "last Sunday of October", NthWeekday{Month: time.October, Weekday: Sunday, Occurrence: Last}.String())
}

func TestNextOccurrence(t *testing.T) {
	easter := MovableFeast{Offset: OffsetEasterSunday}
	christmas := Fixed{Month: time.December, Day: 25}
	leapDay := Fixed{Month: time.February, Day: 29}

	tests := []struct {
		name  string
		rule  Rule
		today string
		want  string
	}{
		{"before this year", christmas, "2025-06-15", "2025-12-25"},
		{"on the day", christmas, "2025-12-25", "2025-12-25"},
		{"just after", christmas, "2025-12-26", "2026-12-25"},
		{"easter rolls to next computus", easter, "2025-04-21", "2026-04-05"},
		{"leap day next year falls back", leapDay, "2025-03-01", "2026-02-28"},
		{"leap day fallback this year", leapDay, "2025-01-10", "2025-02-28"},
		{"advent after first sunday", NthAdventSunday{N: 1}, "2025-12-01", "2026-11-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextOccurrence(tt.rule, MustParseDate(tt.today))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestLastOccurrence(t *testing.T) {
	easter := MovableFeast{Offset: OffsetEasterSunday}

	got, err := LastOccurrence(easter, MustParseDate("2025-04-19"))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-31", got.String())

	got, err = LastOccurrence(easter, MustParseDate("2025-04-20"))
	require.NoError(t, err)
	assert.Equal(t, "2025-04-20", got.String())

	got, err = LastOccurrence(Fixed{Month: time.February, Day: 29}, MustParseDate("2025-02-27"))
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", got.String())
}

func TestOccurrences_Bracket(t *testing.T) {
	rules := []Rule{
		Fixed{Month: time.January, Day: 1},
		Fixed{Month: time.February, Day: 29},
		Fixed{Month: time.December, Day: 31},
		MovableFeast{Offset: OffsetCarnival},
		MovableFeast{Offset: OffsetPentecostMonday},
		NthAdventSunday{N: 4},
		NthWeekday{Month: time.October, Weekday: Sunday, Occurrence: Last},
	}

	// Easter moves within a 35-day window, so gaps exceed a year.
	const maxGap = 366 + 34

	start := MustDate(2023, time.December, 20)
	for i := 0; i < 800; i += 3 {
		today := start.AddDays(i)
		for _, rule := range rules {
			occ, err := Occurrences(rule, today)
			require.NoError(t, err)
			require.NotNil(t, occ.Last)

			assert.False(t, occ.Last.After(today), "%s on %s", rule, today)
			assert.False(t, occ.Next.Before(today), "%s on %s", rule, today)
			assert.LessOrEqual(t, DayDifference(today, occ.Next), maxGap, "%s on %s", rule, today)
			assert.LessOrEqual(t, DayDifference(*occ.Last, today), maxGap, "%s on %s", rule, today)
		}
	}
}

func TestAnniversaries(t *testing.T) {
	original := MustParseDate("2020-02-29")
	today := MustParseDate("2025-03-01")

	occ := AnniversaryOccurrences(original, today)
	assert.Equal(t, "2026-02-28", occ.Next.String())
	require.NotNil(t, occ.Last)
	assert.Equal(t, "2025-02-28", occ.Last.String())
	assert.Equal(t, 6, OccurrenceCount(original, today))

	assert.Equal(t, "2024-02-29", AnniversaryFor(original, 2024).String())
}

func TestAnniversaries_NotStarted(t *testing.T) {
	original := MustParseDate("2030-01-01")
	today := MustParseDate("2025-06-15")

	occ := AnniversaryOccurrences(original, today)
	assert.Equal(t, MustParseDate("2026-01-01"), occ.Next)
	assert.Nil(t, occ.Last)
	assert.Equal(t, 0, OccurrenceCount(original, today))
}

func TestOccurrenceCount(t *testing.T) {
	original := MustParseDate("2020-06-15")

	tests := []struct {
		today string
		want  int
	}{
		{"2020-06-14", 0},
		{"2020-06-15", 1},
		{"2021-06-14", 1},
		{"2025-06-14", 5},
		{"2025-06-15", 6},
		{"2025-12-31", 6},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, OccurrenceCount(original, MustParseDate(tt.today)), tt.today)
	}
}
