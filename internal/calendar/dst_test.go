package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegion_NextChange(t *testing.T) {
	tests := []struct {
		region string
		today  string
		want   string
		season Season
	}{
		{"eu", "2026-10-17", "2026-10-25", Winter},
		{"eu", "2026-10-25", "2026-10-25", Winter},
		{"eu", "2026-10-26", "2027-03-28", Summer},
		{"eu", "2026-01-15", "2026-03-29", Summer},
		{"usa", "2026-01-15", "2026-03-08", Summer},
		{"usa", "2026-03-09", "2026-11-01", Winter},
		{"australia", "2026-01-15", "2026-04-05", Winter},
	}

	for _, tt := range tests {
		region, err := LookupRegion(tt.region)
		require.NoError(t, err)

		got, season, err := region.NextChange(MustParseDate(tt.today))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.String(), "%s on %s", tt.region, tt.today)
		assert.Equal(t, tt.season, season, "%s on %s", tt.region, tt.today)
	}
}

func TestRegion_IsDSTActive(t *testing.T) {
	tests := []struct {
		region string
		today  string
		want   bool
	}{
		{"eu", "2026-01-15", false},
		{"eu", "2026-03-29", true},
		{"eu", "2026-10-17", true},
		{"eu", "2026-10-25", false},
		{"usa", "2026-07-04", true},
		{"usa", "2026-12-01", false},
		// Southern hemisphere: daylight time spans the new year.
		{"australia", "2026-01-15", true},
		{"australia", "2026-06-15", false},
		{"new_zealand", "2026-12-25", true},
	}

	for _, tt := range tests {
		region, err := LookupRegion(tt.region)
		require.NoError(t, err)

		got, err := region.IsDSTActive(MustParseDate(tt.today))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s on %s", tt.region, tt.today)
	}
}

func TestRegion_LastChange(t *testing.T) {
	eu, err := LookupRegion("eu")
	require.NoError(t, err)

	got, season, err := eu.LastChange(MustParseDate("2026-01-15"))
	require.NoError(t, err)
	assert.Equal(t, "2025-10-26", got.String())
	assert.Equal(t, Winter, season)
}

func TestRegionForTimezone(t *testing.T) {
	tests := map[string]string{
		"Europe/Berlin":       "eu",
		"Europe/London":       "eu",
		"America/New_York":    "usa",
		"America/Los_Angeles": "usa",
		"Australia/Sydney":    "australia",
		"Pacific/Auckland":    "new_zealand",
	}

	for tz, want := range tests {
		region, err := RegionForTimezone(tz)
		require.NoError(t, err, tz)
		assert.Equal(t, want, region.ID, tz)
	}

	_, err := RegionForTimezone("Asia/Tokyo")
	assert.ErrorIs(t, err, ErrUnknownRegion)

	_, err = LookupRegion("mars")
	assert.ErrorIs(t, err, ErrUnknownRegion)
}

func TestDSTRuleID(t *testing.T) {
	assert.Equal(t, "dst_eu_summer", DSTRuleID("eu", Summer))
	assert.Equal(t, "dst_new_zealand_winter", DSTRuleID("new_zealand", Winter))
}
