package ics

import (
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teambition/rrule-go"

	"github.com/zapponejosh/countdown-api/internal/calendar"
	"github.com/zapponejosh/countdown-api/internal/tracker"
)

func TestRRule(t *testing.T) {
	tests := []struct {
		name  string
		rule  calendar.Rule
		parts []string
		ok    bool
	}{
		{"fixed", calendar.Fixed{Month: time.December, Day: 25}, []string{"FREQ=YEARLY", "BYMONTH=12", "BYMONTHDAY=25"}, true},
		{"last sunday", calendar.NthWeekday{Month: time.March, Weekday: calendar.Sunday, Occurrence: calendar.Last}, []string{"FREQ=YEARLY", "BYMONTH=3", "BYDAY=-1SU"}, true},
		{"2nd sunday", calendar.NthWeekday{Month: time.March, Weekday: calendar.Sunday, Occurrence: 2}, []string{"FREQ=YEARLY", "BYMONTH=3", "2SU"}, true},
		{"feb 29", calendar.Fixed{Month: time.February, Day: 29}, nil, false},
		{"easter", calendar.MovableFeast{Offset: calendar.OffsetEasterSunday}, nil, false},
		{"advent", calendar.NthAdventSunday{N: 1}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RRule(tt.rule)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				assert.Empty(t, got)
				return
			}
			for _, part := range tt.parts {
				assert.Contains(t, got, part)
			}
		})
	}
}

// Every catalog rule that exports as an RRULE must expand to the same dates
// the resolver produces.
func TestRRule_AgreesWithResolver(t *testing.T) {
	for _, entry := range calendar.DefaultCatalog().Entries() {
		s, ok := RRule(entry.Rule)
		if !ok {
			continue
		}
		first, err := calendar.Resolve(entry.Rule, 2020)
		require.NoError(t, err)

		opt, err := rrule.StrToROption(s)
		require.NoError(t, err, entry.ID)
		opt.Dtstart = first.Time()
		opt.Count = 20
		r, err := rrule.NewRRule(*opt)
		require.NoError(t, err, entry.ID)

		for _, occ := range r.All() {
			want, err := calendar.Resolve(entry.Rule, occ.Year())
			require.NoError(t, err)
			assert.Equal(t, want, calendar.FromTime(occ), "%s in %d", entry.ID, occ.Year())
		}
	}
}

func buildItems(t *testing.T) []Item {
	t.Helper()
	cat := calendar.DefaultCatalog()

	trip, err := tracker.NewSingleInterval(calendar.MustParseDate("2026-12-20"), calendar.MustParseDate("2027-01-03"))
	require.NoError(t, err)
	easter, err := tracker.NewRuleRecurring(cat, "easter")
	require.NoError(t, err)
	xmas, err := tracker.NewRuleRecurring(cat, "christmas_day")
	require.NoError(t, err)

	return []Item{
		{ID: "trip", Name: "Winter trip", Event: trip},
		{ID: "launch", Name: "Launch", Event: tracker.SingleDate{Date: calendar.MustParseDate("2027-05-01")}},
		{ID: "wedding", Name: "Wedding", Event: tracker.YearlyRecurring{Original: calendar.MustParseDate("2015-06-20")}},
		{ID: "leap", Name: "Leap birthday", Event: tracker.YearlyRecurring{Original: calendar.MustParseDate("2000-02-29")}},
		{ID: "easter", Name: "Easter", Event: easter},
		{ID: "xmas", Name: "Christmas", Event: xmas},
	}
}

func TestBuild_ParsesBack(t *testing.T) {
	out, err := Build(buildItems(t), Options{
		From:  calendar.MustParseDate("2026-10-17"),
		Years: 3,
		Stamp: time.Date(2026, time.October, 17, 12, 0, 0, 0, time.UTC),
		Name:  "Countdowns",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "PRODID:"+ProductID)

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)

	byID := make(map[string]*ical.VEvent)
	for _, ev := range cal.Events() {
		byID[ev.Id()] = ev
	}
	// trip, launch, wedding, xmas plus three expanded years each of leap and easter
	assert.Len(t, byID, 10)

	start := func(id string) string {
		ev, ok := byID[id]
		require.True(t, ok, "missing %s", id)
		tm, err := ev.GetAllDayStartAt()
		require.NoError(t, err)
		return tm.Format("2006-01-02")
	}
	rruleOf := func(id string) string {
		p := byID[id].GetProperty(ical.ComponentPropertyRrule)
		if p == nil {
			return ""
		}
		return p.Value
	}

	assert.Equal(t, "2026-12-20", start("trip"))
	endAt, err := byID["trip"].GetAllDayEndAt()
	require.NoError(t, err)
	assert.Equal(t, "2027-01-04", endAt.Format("2006-01-02"))
	assert.Empty(t, rruleOf("trip"))

	assert.Equal(t, "2027-05-01", start("launch"))

	assert.Equal(t, "2015-06-20", start("wedding"))
	assert.Contains(t, rruleOf("wedding"), "BYMONTHDAY=20")

	assert.Equal(t, "2026-02-28", start("leap-2026"))
	assert.Equal(t, "2028-02-29", start("leap-2028"))
	assert.Empty(t, rruleOf("leap-2027"))

	assert.Equal(t, "2026-04-05", start("easter-2026"))
	assert.Equal(t, "2027-03-28", start("easter-2027"))
	assert.Equal(t, "2028-04-16", start("easter-2028"))

	assert.Equal(t, "2026-12-25", start("xmas"))
	assert.Contains(t, rruleOf("xmas"), "BYMONTH=12")
}

func TestBuild_SkipsYearsBeforeOriginal(t *testing.T) {
	items := []Item{{ID: "leap", Name: "Leap", Event: tracker.YearlyRecurring{Original: calendar.MustParseDate("2028-02-29")}}}
	out, err := Build(items, Options{From: calendar.MustParseDate("2026-01-01"), Years: 4})
	require.NoError(t, err)

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	assert.Len(t, cal.Events(), 2)
}

func TestBuild_Empty(t *testing.T) {
	out, err := Build(nil, Options{From: calendar.MustParseDate("2026-01-01")})
	require.NoError(t, err)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.NotContains(t, out, "BEGIN:VEVENT")
}
