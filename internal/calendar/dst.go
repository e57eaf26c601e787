package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownRegion is returned for a DST region id or time zone that has no
// transition rules.
var ErrUnknownRegion = errors.New("unknown DST region")

// Season selects one of the two yearly DST transitions.
type Season string

const (
	Summer Season = "summer"
	Winter Season = "winter"
)

// Region holds the yearly transition rules of one daylight-saving region.
// Summer is the switch to daylight time, Winter the switch back.
type Region struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Summer NthWeekday `json:"summer"`
	Winter NthWeekday `json:"winter"`
}

var regions = []Region{
	{
		ID:     "eu",
		Name:   "EU",
		Summer: NthWeekday{Month: time.March, Weekday: Sunday, Occurrence: Last},
		Winter: NthWeekday{Month: time.October, Weekday: Sunday, Occurrence: Last},
	},
	{
		ID:     "usa",
		Name:   "USA",
		Summer: NthWeekday{Month: time.March, Weekday: Sunday, Occurrence: 2},
		Winter: NthWeekday{Month: time.November, Weekday: Sunday, Occurrence: 1},
	},
	{
		ID:     "australia",
		Name:   "Australia",
		Summer: NthWeekday{Month: time.October, Weekday: Sunday, Occurrence: 1},
		Winter: NthWeekday{Month: time.April, Weekday: Sunday, Occurrence: 1},
	},
	{
		ID:     "new_zealand",
		Name:   "New Zealand",
		Summer: NthWeekday{Month: time.September, Weekday: Sunday, Occurrence: Last},
		Winter: NthWeekday{Month: time.April, Weekday: Sunday, Occurrence: 1},
	},
}

// timezonePrefixes maps IANA zone names (or prefixes ending in "/") to
// region ids. Exact names are checked before prefixes.
var timezonePrefixes = []struct {
	zone   string
	region string
}{
	{"America/New_York", "usa"},
	{"America/Chicago", "usa"},
	{"America/Denver", "usa"},
	{"America/Los_Angeles", "usa"},
	{"America/Toronto", "usa"},
	{"Pacific/Auckland", "new_zealand"},
	{"Europe/", "eu"},
	{"Australia/", "australia"},
}

// Regions returns all known DST regions.
func Regions() []Region {
	out := make([]Region, len(regions))
	copy(out, regions)
	return out
}

// LookupRegion returns the region with the given id.
func LookupRegion(id string) (Region, error) {
	for _, r := range regions {
		if r.ID == id {
			return r, nil
		}
	}
	return Region{}, fmt.Errorf("%w: %q", ErrUnknownRegion, id)
}

// RegionForTimezone picks the DST region for an IANA time zone name.
func RegionForTimezone(tz string) (Region, error) {
	for _, p := range timezonePrefixes {
		if tz == p.zone || (strings.HasSuffix(p.zone, "/") && strings.HasPrefix(tz, p.zone)) {
			return LookupRegion(p.region)
		}
	}
	return Region{}, fmt.Errorf("%w: no region for time zone %q", ErrUnknownRegion, tz)
}

// DSTRuleID is the catalog id of a region's transition rule.
func DSTRuleID(regionID string, season Season) string {
	return "dst_" + regionID + "_" + string(season)
}

// Rule returns the transition rule for season.
func (r Region) Rule(season Season) NthWeekday {
	if season == Winter {
		return r.Winter
	}
	return r.Summer
}

// NextChange returns the next transition of either kind on or after today.
func (r Region) NextChange(today Date) (Date, Season, error) {
	summer, err := NextOccurrence(r.Summer, today)
	if err != nil {
		return Date{}, "", err
	}
	winter, err := NextOccurrence(r.Winter, today)
	if err != nil {
		return Date{}, "", err
	}
	if winter.Before(summer) {
		return winter, Winter, nil
	}
	return summer, Summer, nil
}

// LastChange returns the most recent transition of either kind on or before
// today. A transition day counts as already happened.
func (r Region) LastChange(today Date) (Date, Season, error) {
	summer, err := LastOccurrence(r.Summer, today)
	if err != nil {
		return Date{}, "", err
	}
	winter, err := LastOccurrence(r.Winter, today)
	if err != nil {
		return Date{}, "", err
	}
	if winter.After(summer) {
		return winter, Winter, nil
	}
	return summer, Summer, nil
}

// IsDSTActive reports whether daylight time is in effect on today, i.e.
// whether the last summer transition is more recent than the last winter
// one. This holds in both hemispheres.
func (r Region) IsDSTActive(today Date) (bool, error) {
	_, season, err := r.LastChange(today)
	if err != nil {
		return false, err
	}
	return season == Summer, nil
}
