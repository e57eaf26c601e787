package calendar

import (
	"fmt"
	"sort"
	"time"
)

// Category groups catalog entries for display.
type Category string

const (
	CategoryTraditional  Category = "traditional"
	CategoryCalendar     Category = "calendar"
	CategoryAstronomical Category = "astronomical"
	CategoryDST          Category = "dst"
)

// Entry is one named rule in a Catalog. Region is set for DST transition
// rules only.
type Entry struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Rule     Rule     `json:"-"`
	Region   string   `json:"region,omitempty"`
}

// Describe returns a human-readable form of the entry's rule.
func (e Entry) Describe() string {
	if e.Rule == nil {
		return ""
	}
	return e.Rule.String()
}

// Catalog is an immutable registry of named rules. Build one with
// NewCatalog or use DefaultCatalog.
type Catalog struct {
	entries []Entry
	byID    map[string]int
}

// NewCatalog validates entries and indexes them by ID. Duplicate IDs and
// unresolvable rules are rejected.
func NewCatalog(entries []Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Entry, len(entries)),
		byID:    make(map[string]int, len(entries)),
	}
	copy(c.entries, entries)

	for i, e := range c.entries {
		if e.ID == "" {
			return nil, fmt.Errorf("catalog entry %d: empty id", i)
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, fmt.Errorf("catalog entry %q: duplicate id", e.ID)
		}
		if err := ValidateRule(e.Rule); err != nil {
			return nil, fmt.Errorf("catalog entry %q: %w", e.ID, err)
		}
		c.byID[e.ID] = i
	}
	return c, nil
}

// Lookup returns the entry registered under id, or ErrUnknownRule.
func (c *Catalog) Lookup(id string) (Entry, error) {
	i, ok := c.byID[id]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownRule, id)
	}
	return c.entries[i], nil
}

// Entries returns all entries in registration order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// IDs returns the registered identifiers, sorted.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

var defaultCatalog = mustCatalog(builtinEntries())

// DefaultCatalog returns the process-wide built-in catalog: traditional
// holidays, calendar holidays, approximate season starts and DST
// transitions for every region in Regions.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

func mustCatalog(entries []Entry) *Catalog {
	c, err := NewCatalog(entries)
	if err != nil {
		panic(err)
	}
	return c
}

func builtinEntries() []Entry {
	entries := []Entry{
		// Traditional holidays
		{ID: "christmas_eve", Name: "Christmas Eve", Category: CategoryTraditional, Rule: Fixed{Month: time.December, Day: 24}},
		{ID: "christmas_day", Name: "Christmas Day", Category: CategoryTraditional, Rule: Fixed{Month: time.December, Day: 25}},
		{ID: "boxing_day", Name: "Boxing Day", Category: CategoryTraditional, Rule: Fixed{Month: time.December, Day: 26}},
		{ID: "halloween", Name: "Halloween", Category: CategoryTraditional, Rule: Fixed{Month: time.October, Day: 31}},
		{ID: "nikolaus", Name: "St. Nicholas Day", Category: CategoryTraditional, Rule: Fixed{Month: time.December, Day: 6}},
		{ID: "carnival", Name: "Carnival", Category: CategoryTraditional, Rule: MovableFeast{Offset: OffsetCarnival}},
		{ID: "ash_wednesday", Name: "Ash Wednesday", Category: CategoryTraditional, Rule: MovableFeast{Offset: OffsetAshWednesday}},
		{ID: "good_friday", Name: "Good Friday", Category: CategoryTraditional, Rule: MovableFeast{Offset: OffsetGoodFriday}},
		{ID: "easter", Name: "Easter Sunday", Category: CategoryTraditional, Rule: MovableFeast{Offset: OffsetEasterSunday}},
		{ID: "easter_monday", Name: "Easter Monday", Category: CategoryTraditional, Rule: MovableFeast{Offset: OffsetEasterMonday}},
		{ID: "ascension", Name: "Ascension Day", Category: CategoryTraditional, Rule: MovableFeast{Offset: OffsetAscension}},
		{ID: "pentecost", Name: "Pentecost Sunday", Category: CategoryTraditional, Rule: MovableFeast{Offset: OffsetPentecost}},
		{ID: "pentecost_monday", Name: "Pentecost Monday", Category: CategoryTraditional, Rule: MovableFeast{Offset: OffsetPentecostMonday}},
		{ID: "advent_1", Name: "1st Advent", Category: CategoryTraditional, Rule: NthAdventSunday{N: 1}},
		{ID: "advent_2", Name: "2nd Advent", Category: CategoryTraditional, Rule: NthAdventSunday{N: 2}},
		{ID: "advent_3", Name: "3rd Advent", Category: CategoryTraditional, Rule: NthAdventSunday{N: 3}},
		{ID: "advent_4", Name: "4th Advent", Category: CategoryTraditional, Rule: NthAdventSunday{N: 4}},

		// Calendar holidays
		{ID: "new_year", Name: "New Year's Day", Category: CategoryCalendar, Rule: Fixed{Month: time.January, Day: 1}},
		{ID: "new_years_eve", Name: "New Year's Eve", Category: CategoryCalendar, Rule: Fixed{Month: time.December, Day: 31}},

		// Season starts, approximated to a fixed day
		{ID: "spring_start", Name: "Start of Spring", Category: CategoryAstronomical, Rule: Fixed{Month: time.March, Day: 20}},
		{ID: "summer_start", Name: "Start of Summer", Category: CategoryAstronomical, Rule: Fixed{Month: time.June, Day: 21}},
		{ID: "autumn_start", Name: "Start of Autumn", Category: CategoryAstronomical, Rule: Fixed{Month: time.September, Day: 23}},
		{ID: "winter_start", Name: "Start of Winter", Category: CategoryAstronomical, Rule: Fixed{Month: time.December, Day: 21}},
	}

	for _, region := range Regions() {
		entries = append(entries,
			Entry{
				ID:       DSTRuleID(region.ID, Summer),
				Name:     region.Name + " summer time",
				Category: CategoryDST,
				Rule:     region.Summer,
				Region:   region.ID,
			},
			Entry{
				ID:       DSTRuleID(region.ID, Winter),
				Name:     region.Name + " winter time",
				Category: CategoryDST,
				Rule:     region.Winter,
				Region:   region.ID,
			},
		)
	}
	return entries
}
