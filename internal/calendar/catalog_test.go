package calendar

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog_Lookup(t *testing.T) {
	cat := DefaultCatalog()

	entry, err := cat.Lookup("easter")
	require.NoError(t, err)
	assert.Equal(t, "Easter Sunday", entry.Name)
	assert.Equal(t, CategoryTraditional, entry.Category)

	got, err := Resolve(entry.Rule, 2025)
	require.NoError(t, err)
	assert.Equal(t, "2025-04-20", got.String())

	_, err = cat.Lookup("festivus")
	assert.ErrorIs(t, err, ErrUnknownRule)
}

func TestDefaultCatalog_Contents(t *testing.T) {
	cat := DefaultCatalog()

	for _, id := range []string{
		"christmas_eve", "christmas_day", "boxing_day", "halloween", "nikolaus",
		"carnival", "ash_wednesday", "good_friday", "easter", "easter_monday",
		"ascension", "pentecost", "pentecost_monday",
		"advent_1", "advent_2", "advent_3", "advent_4",
		"new_year", "new_years_eve",
		"spring_start", "summer_start", "autumn_start", "winter_start",
		"dst_eu_summer", "dst_eu_winter", "dst_usa_summer", "dst_usa_winter",
		"dst_australia_summer", "dst_australia_winter",
		"dst_new_zealand_summer", "dst_new_zealand_winter",
	} {
		_, err := cat.Lookup(id)
		assert.NoError(t, err, id)
	}
	assert.Equal(t, 31, cat.Len())

	ids := cat.IDs()
	assert.True(t, sort.StringsAreSorted(ids))
	assert.Len(t, ids, cat.Len())
}

func TestDefaultCatalog_ResolvesEveryYear(t *testing.T) {
	for _, entry := range DefaultCatalog().Entries() {
		for year := 1900; year <= 2100; year++ {
			_, err := Resolve(entry.Rule, year)
			require.NoError(t, err, "%s in %d", entry.ID, year)
		}
	}
}

func TestDefaultCatalog_DSTEntries(t *testing.T) {
	entry, err := DefaultCatalog().Lookup("dst_usa_summer")
	require.NoError(t, err)
	assert.Equal(t, CategoryDST, entry.Category)
	assert.Equal(t, "usa", entry.Region)
	assert.Equal(t, "2nd Sunday of March", entry.Describe())
}

func TestCatalog_EntriesAreCopies(t *testing.T) {
	cat := DefaultCatalog()
	entries := cat.Entries()
	entries[0].Name = "changed"

	first, err := cat.Lookup(entries[0].ID)
	require.NoError(t, err)
	assert.NotEqual(t, "changed", first.Name)
}

func TestNewCatalog_Rejects(t *testing.T) {
	christmas := Fixed{Month: time.December, Day: 25}

	_, err := NewCatalog([]Entry{
		{ID: "a", Rule: christmas},
		{ID: "a", Rule: christmas},
	})
	assert.ErrorContains(t, err, "duplicate id")

	_, err = NewCatalog([]Entry{{ID: "", Rule: christmas}})
	assert.ErrorContains(t, err, "empty id")

	_, err = NewCatalog([]Entry{{ID: "bad", Rule: Fixed{Month: time.April, Day: 31}}})
	assert.ErrorIs(t, err, ErrInvalidRule)

	cat, err := NewCatalog([]Entry{{ID: "xmas", Name: "Christmas", Rule: christmas}})
	require.NoError(t, err)
	assert.Equal(t, 1, cat.Len())
}
