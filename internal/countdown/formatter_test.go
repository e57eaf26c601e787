package countdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestTextFormatter_English(t *testing.T) {
	f := NewFormatter(language.English)

	tests := []struct {
		b    Breakdown
		want string
	}{
		{Breakdown{}, "0 days"},
		{Breakdown{Days: 1}, "1 day"},
		{Breakdown{Weeks: 2}, "2 weeks"},
		{Breakdown{Years: 1, Months: 1, Days: 5}, "1 year, 1 month, 5 days"},
		{Breakdown{Years: 3, Months: 2, Weeks: 1, Days: 1}, "3 years, 2 months, 1 week, 1 day"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Format(tt.b))
	}
}

func TestTextFormatter_German(t *testing.T) {
	f := NewFormatter(language.German)

	assert.Equal(t, "0 Tage", f.Format(Breakdown{}))
	assert.Equal(t, "1 Tag", f.Format(Breakdown{Days: 1}))
	assert.Equal(t, "2 Jahre, 1 Monat, 3 Wochen", f.Format(Breakdown{Years: 2, Months: 1, Weeks: 3}))
	assert.Equal(t, "1 Jahr, 2 Monate, 1 Woche, 4 Tage", f.Format(Breakdown{Years: 1, Months: 2, Weeks: 1, Days: 4}))
}

func TestNewFormatter_Fallback(t *testing.T) {
	assert.Equal(t, language.English, NewFormatter(language.Japanese).Locale())
	assert.Equal(t, language.German, NewFormatter(language.MustParse("de-AT")).Locale())
}

func TestParseLocale(t *testing.T) {
	f, err := ParseLocale("de")
	require.NoError(t, err)
	assert.Equal(t, "2 Wochen", f.Format(NewBreakdown(14)))

	_, err = ParseLocale("not a locale!")
	assert.Error(t, err)
}

func TestFormatter_Interface(t *testing.T) {
	var f Formatter = NewFormatter(language.English)
	assert.Equal(t, "1 year", f.Format(NewBreakdown(365)))
}
