package tracker

import (
	"fmt"

	"golang.org/x/text/language"

	"github.com/zapponejosh/countdown-api/internal/calendar"
	"github.com/zapponejosh/countdown-api/internal/countdown"
)

// Snapshot is the state of one Event on one day. Exactly one of the
// per-kind sections is set, matching Kind.
type Snapshot struct {
	Kind          Kind                `json:"kind" msgpack:"kind"`
	Today         calendar.Date       `json:"today" msgpack:"today"`
	Countdown     countdown.Breakdown `json:"countdown" msgpack:"countdown"`
	CountdownText string              `json:"countdown_text" msgpack:"countdown_text"`

	Interval *IntervalState `json:"interval,omitempty" msgpack:"interval,omitempty"`
	Date     *DateState     `json:"date,omitempty" msgpack:"date,omitempty"`
	Yearly   *YearlyState   `json:"yearly,omitempty" msgpack:"yearly,omitempty"`
	Rule     *RuleState     `json:"rule,omitempty" msgpack:"rule,omitempty"`
}

// IntervalState describes a SingleInterval. The countdown runs to Start and
// is zero once the interval has started.
type IntervalState struct {
	Start            calendar.Date `json:"start" msgpack:"start"`
	End              calendar.Date `json:"end" msgpack:"end"`
	DaysUntil        int           `json:"days_until" msgpack:"days_until"`
	DaysUntilEnd     int           `json:"days_until_end" msgpack:"days_until_end"`
	RemainingDays    int           `json:"remaining_days" msgpack:"remaining_days"`
	RemainingPercent float64       `json:"remaining_percent" msgpack:"remaining_percent"`
	TotalDays        int           `json:"total_days" msgpack:"total_days"`
	StartsToday      bool          `json:"starts_today" msgpack:"starts_today"`
	Active           bool          `json:"active" msgpack:"active"`
	EndsToday        bool          `json:"ends_today" msgpack:"ends_today"`
}

// DateState describes a SingleDate.
type DateState struct {
	Date      calendar.Date `json:"date" msgpack:"date"`
	DaysUntil int           `json:"days_until" msgpack:"days_until"`
	IsToday   bool          `json:"is_today" msgpack:"is_today"`
}

// YearlyState describes a YearlyRecurring event. Last and DaysSinceLast
// are nil until the original date has been reached.
//
// Next is the anniversary for the current (or following) year even before
// the series starts, so for a future Original it can precede Original and
// YearsOnNext is then negative.
type YearlyState struct {
	Original        calendar.Date  `json:"original" msgpack:"original"`
	Next            calendar.Date  `json:"next" msgpack:"next"`
	Last            *calendar.Date `json:"last" msgpack:"last"`
	DaysUntilNext   int            `json:"days_until_next" msgpack:"days_until_next"`
	DaysSinceLast   *int           `json:"days_since_last" msgpack:"days_since_last"`
	OccurrenceCount int            `json:"occurrence_count" msgpack:"occurrence_count"`
	YearsOnNext     int            `json:"years_on_next" msgpack:"years_on_next"`
	IsToday         bool           `json:"is_today" msgpack:"is_today"`
}

// RuleState describes a RuleRecurring event. DSTActive is set only for
// daylight-saving transition rules.
type RuleState struct {
	RuleID        string        `json:"rule_id" msgpack:"rule_id"`
	Name          string        `json:"name" msgpack:"name"`
	Next          calendar.Date `json:"next" msgpack:"next"`
	Last          calendar.Date `json:"last" msgpack:"last"`
	DaysUntil     int           `json:"days_until" msgpack:"days_until"`
	DaysSinceLast int           `json:"days_since_last" msgpack:"days_since_last"`
	IsToday       bool          `json:"is_today" msgpack:"is_today"`
	DSTActive     *bool         `json:"dst_active,omitempty" msgpack:"dst_active,omitempty"`
}

var defaultFormatter = countdown.NewFormatter(language.English)

// Evaluate computes the Snapshot of ev on today. A nil formatter uses
// English text. Errors come only from rule resolution and are returned
// unchanged in kind (calendar.ErrInvalidRule, calendar.ErrUnknownRegion).
func Evaluate(ev Event, today calendar.Date, f countdown.Formatter) (Snapshot, error) {
	if f == nil {
		f = defaultFormatter
	}

	snap := Snapshot{Today: today}
	var target calendar.Date

	switch e := ev.(type) {
	case SingleInterval:
		snap.Interval = evaluateInterval(e, today)
		target = e.Start

	case SingleDate:
		snap.Date = &DateState{
			Date:      e.Date,
			DaysUntil: calendar.DayDifference(today, e.Date),
			IsToday:   today.Equal(e.Date),
		}
		target = e.Date

	case YearlyRecurring:
		snap.Yearly = evaluateYearly(e, today)
		target = snap.Yearly.Next

	case RuleRecurring:
		state, err := evaluateRule(e, today)
		if err != nil {
			return Snapshot{}, err
		}
		snap.Rule = state
		target = state.Next

	case nil:
		return Snapshot{}, fmt.Errorf("%w: nil event", ErrInvalidDefinition)
	default:
		return Snapshot{}, fmt.Errorf("%w: unsupported event type %T", ErrInvalidDefinition, ev)
	}

	snap.Kind = ev.Kind()
	snap.Countdown = countdown.Between(today, target)
	snap.CountdownText = f.Format(snap.Countdown)
	return snap, nil
}

func evaluateInterval(e SingleInterval, today calendar.Date) *IntervalState {
	return &IntervalState{
		Start:            e.Start,
		End:              e.End,
		DaysUntil:        e.DaysUntilStart(today),
		DaysUntilEnd:     e.DaysUntilEnd(today),
		RemainingDays:    e.RemainingDays(today),
		RemainingPercent: e.RemainingPercent(today),
		TotalDays:        e.TotalDays(),
		StartsToday:      e.StartsToday(today),
		Active:           e.IsActive(today),
		EndsToday:        e.EndsToday(today),
	}
}

func evaluateYearly(e YearlyRecurring, today calendar.Date) *YearlyState {
	occ := calendar.AnniversaryOccurrences(e.Original, today)
	state := &YearlyState{
		Original:        e.Original,
		Next:            occ.Next,
		Last:            occ.Last,
		DaysUntilNext:   calendar.DayDifference(today, occ.Next),
		OccurrenceCount: calendar.OccurrenceCount(e.Original, today),
		YearsOnNext:     occ.Next.Year() - e.Original.Year(),
		IsToday:         today.Equal(occ.Next),
	}
	if occ.Last != nil {
		since := calendar.DayDifference(*occ.Last, today)
		state.DaysSinceLast = &since
	}
	return state
}

func evaluateRule(e RuleRecurring, today calendar.Date) (*RuleState, error) {
	occ, err := calendar.Occurrences(e.Entry.Rule, today)
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", e.Entry.ID, err)
	}

	state := &RuleState{
		RuleID:        e.Entry.ID,
		Name:          e.Entry.Name,
		Next:          occ.Next,
		Last:          *occ.Last,
		DaysUntil:     calendar.DayDifference(today, occ.Next),
		DaysSinceLast: calendar.DayDifference(*occ.Last, today),
		IsToday:       today.Equal(occ.Next),
	}

	if e.Entry.Region != "" {
		region, err := calendar.LookupRegion(e.Entry.Region)
		if err != nil {
			return nil, err
		}
		active, err := region.IsDSTActive(today)
		if err != nil {
			return nil, err
		}
		state.DSTActive = &active
	}
	return state, nil
}
