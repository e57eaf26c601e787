package calendar

// Occurrence is the pair of dates around a reference day. Last is nil only
// when the series has not started yet.
type Occurrence struct {
	Next Date  `json:"next"`
	Last *Date `json:"last"`
}

// NextOccurrence returns the first date produced by rule on or after today.
//
// Resolution is redone for the following year rather than adding a year to
// this year's date, so a fallback that shifts the day (Feb 29 -> Feb 28) or
// a movable feast is always computed from scratch.
func NextOccurrence(rule Rule, today Date) (Date, error) {
	thisYear, err := Resolve(rule, today.Year())
	if err != nil {
		return Date{}, err
	}
	if !thisYear.Before(today) {
		return thisYear, nil
	}
	return Resolve(rule, today.Year()+1)
}

// LastOccurrence returns the latest date produced by rule on or before
// today. A date equal to today counts as having happened.
func LastOccurrence(rule Rule, today Date) (Date, error) {
	thisYear, err := Resolve(rule, today.Year())
	if err != nil {
		return Date{}, err
	}
	if !thisYear.After(today) {
		return thisYear, nil
	}
	return Resolve(rule, today.Year()-1)
}

// Occurrences returns both the next and the last occurrence of rule.
func Occurrences(rule Rule, today Date) (Occurrence, error) {
	next, err := NextOccurrence(rule, today)
	if err != nil {
		return Occurrence{}, err
	}
	last, err := LastOccurrence(rule, today)
	if err != nil {
		return Occurrence{}, err
	}
	return Occurrence{Next: next, Last: &last}, nil
}

// NextAnniversary returns the next anniversary of original on or after
// today. The year is taken from today, not from original, so before the
// series starts the result can precede original.
func NextAnniversary(original, today Date) Date {
	thisYear := AnniversaryFor(original, today.Year())
	if !thisYear.Before(today) {
		return thisYear
	}
	return AnniversaryFor(original, today.Year()+1)
}

// LastAnniversary returns the most recent anniversary on or before today.
// ok is false when original is still in the future.
func LastAnniversary(original, today Date) (last Date, ok bool) {
	if original.After(today) {
		return Date{}, false
	}
	thisYear := AnniversaryFor(original, today.Year())
	if !thisYear.After(today) {
		return thisYear, true
	}
	return AnniversaryFor(original, today.Year()-1), true
}

// AnniversaryOccurrences returns next and last anniversaries of original.
func AnniversaryOccurrences(original, today Date) Occurrence {
	occ := Occurrence{Next: NextAnniversary(original, today)}
	if last, ok := LastAnniversary(original, today); ok {
		occ.Last = &last
	}
	return occ
}

// OccurrenceCount counts how many times original has occurred by today,
// the original date itself included. An anniversary falling on today
// counts.
func OccurrenceCount(original, today Date) int {
	if original.After(today) {
		return 0
	}
	count := 1 + today.Year() - original.Year()
	if AnniversaryFor(original, today.Year()).After(today) {
		count--
	}
	return count
}
