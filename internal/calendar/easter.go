package calendar

// Offsets, in days from Easter Sunday, of the movable feasts derived from it.
const (
	OffsetCarnival        = -48
	OffsetAshWednesday    = -46
	OffsetGoodFriday      = -2
	OffsetEasterSunday    = 0
	OffsetEasterMonday    = 1
	OffsetAscension       = 39
	OffsetPentecost       = 49
	OffsetPentecostMonday = 50
)

// Feast is a named movable feast resolved for one year.
type Feast struct {
	Name   string `json:"name"`
	Offset int    `json:"offset"`
	Date   Date   `json:"date"`
}

// movableFeasts lists the Easter-relative feasts in calendar order.
var movableFeasts = []struct {
	name   string
	offset int
}{
	{"Carnival", OffsetCarnival},
	{"Ash Wednesday", OffsetAshWednesday},
	{"Good Friday", OffsetGoodFriday},
	{"Easter Sunday", OffsetEasterSunday},
	{"Easter Monday", OffsetEasterMonday},
	{"Ascension", OffsetAscension},
	{"Pentecost", OffsetPentecost},
	{"Pentecost Monday", OffsetPentecostMonday},
}

// CalculateEaster calculates the date of Easter Sunday for a given year
// using the Gauss/Meeus computus for the Gregorian calendar.
//
// The result always lies between March 22 and April 25. The computus is
// only meaningful for years from 1 on; Resolve rejects earlier years.
func CalculateEaster(year int) Date {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return MustDate(year, monthOf(month), day)
}

// CalculateFeast returns Easter Sunday of year shifted by offset days.
func CalculateFeast(year, offset int) Date {
	return CalculateEaster(year).AddDays(offset)
}

// CalculateAshWednesday calculates Ash Wednesday for a given year.
// Ash Wednesday is 46 days before Easter (40 days of Lent + 6 Sundays).
func CalculateAshWednesday(year int) Date {
	return CalculateFeast(year, OffsetAshWednesday)
}

// CalculateAscension calculates Ascension Day (always a Thursday).
func CalculateAscension(year int) Date {
	return CalculateFeast(year, OffsetAscension)
}

// CalculatePentecost calculates Pentecost Sunday, seven weeks after Easter.
func CalculatePentecost(year int) Date {
	return CalculateFeast(year, OffsetPentecost)
}

// MovableFeasts returns every Easter-relative feast of year in calendar order.
func MovableFeasts(year int) []Feast {
	easter := CalculateEaster(year)
	feasts := make([]Feast, 0, len(movableFeasts))
	for _, f := range movableFeasts {
		feasts = append(feasts, Feast{
			Name:   f.name,
			Offset: f.offset,
			Date:   easter.AddDays(f.offset),
		})
	}
	return feasts
}
