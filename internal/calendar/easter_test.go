package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateEaster(t *testing.T) {
	tests := []struct {
		year int
		want string
	}{
		{2025, "2025-04-20"},
		{2026, "2026-04-05"},
		{2027, "2027-03-28"},
		{2024, "2024-03-31"},
		{2019, "2019-04-21"},
		{2000, "2000-04-23"},
		{1961, "1961-04-02"},
		{2038, "2038-04-25"}, // latest possible
		{2285, "2285-03-22"}, // earliest possible
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CalculateEaster(tt.year).String(), "year %d", tt.year)
	}
}

func TestCalculateEaster_AlwaysSundayInWindow(t *testing.T) {
	earliest := time.March*100 + 22
	latest := time.April*100 + 25

	for year := 1583; year <= 4099; year++ {
		e := CalculateEaster(year)
		assert.Equal(t, Sunday, e.Weekday(), "year %d", year)

		key := e.Month()*100 + time.Month(e.Day())
		assert.True(t, key >= earliest && key <= latest, "year %d: %s", year, e)
	}
}

func TestMovableFeasts_Offsets(t *testing.T) {
	easter := CalculateEaster(2025)

	tests := []struct {
		name string
		got  Date
		want string
	}{
		{"ash wednesday", CalculateAshWednesday(2025), "2025-03-05"},
		{"ascension", CalculateAscension(2025), "2025-05-29"},
		{"pentecost", CalculatePentecost(2025), "2025-06-08"},
		{"good friday", CalculateFeast(2025, OffsetGoodFriday), "2025-04-18"},
		{"carnival", CalculateFeast(2025, OffsetCarnival), "2025-03-03"},
		{"pentecost monday", CalculateFeast(2025, OffsetPentecostMonday), "2025-06-09"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.got.String(), tt.name)
	}
	assert.Equal(t, 49, DayDifference(easter, CalculatePentecost(2025)))
	assert.Equal(t, Thursday, CalculateAscension(2025).Weekday())
	assert.Equal(t, Wednesday, CalculateAshWednesday(2025).Weekday())
}

func TestMovableFeasts_Ordered(t *testing.T) {
	feasts := MovableFeasts(2026)
	assert.Len(t, feasts, 8)

	for i := 1; i < len(feasts); i++ {
		assert.True(t, feasts[i-1].Date.Before(feasts[i].Date),
			"%s should precede %s", feasts[i-1].Name, feasts[i].Name)
	}
	assert.Equal(t, "Easter Sunday", feasts[3].Name)
	assert.Equal(t, "2026-04-05", feasts[3].Date.String())
}
