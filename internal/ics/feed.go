// Package ics exports tracked events as an iCalendar feed.
package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/zapponejosh/countdown-api/internal/calendar"
	"github.com/zapponejosh/countdown-api/internal/tracker"
)

// ProductID identifies the generator in the PRODID property.
const ProductID = "-//countdown-api//Countdown Feed//EN"

// Item is one event to export.
type Item struct {
	ID    string
	Name  string
	Event tracker.Event
}

// Options controls feed generation.
type Options struct {
	// From is the first day of the horizon; its year is the first year
	// expanded for rules that cannot be written as an RRULE.
	From calendar.Date
	// Years is the number of years expanded. Values below 1 mean 1.
	Years int
	// Stamp is written as DTSTAMP on every VEVENT.
	Stamp time.Time
	// Name is the calendar display name.
	Name string
}

var rruleWeekdays = [...]rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU}

// RRule returns the RFC 5545 recurrence for rule when one exists. Fixed
// dates (except February 29, whose fallback RRULE cannot express) and
// nth-weekday rules have one; Easter-relative and Advent rules do not.
func RRule(rule calendar.Rule) (string, bool) {
	switch r := rule.(type) {
	case calendar.Fixed:
		if r.Month == time.February && r.Day == 29 {
			return "", false
		}
		opt := rrule.ROption{
			Freq:       rrule.YEARLY,
			Bymonth:    []int{int(r.Month)},
			Bymonthday: []int{r.Day},
		}
		return opt.RRuleString(), true

	case calendar.NthWeekday:
		if r.Weekday < calendar.Monday || r.Weekday > calendar.Sunday {
			return "", false
		}
		n := r.Occurrence
		if n == calendar.Last {
			n = -1
		}
		opt := rrule.ROption{
			Freq:      rrule.YEARLY,
			Bymonth:   []int{int(r.Month)},
			Byweekday: []rrule.Weekday{rruleWeekdays[r.Weekday].Nth(n)},
		}
		return opt.RRuleString(), true
	}
	return "", false
}

// Build renders items as a VCALENDAR document.
func Build(items []Item, opts Options) (string, error) {
	if opts.Years < 1 {
		opts.Years = 1
	}
	if opts.Stamp.IsZero() {
		opts.Stamp = opts.From.Time()
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)
	if opts.Name != "" {
		cal.SetXWRCalName(opts.Name)
	}

	for _, item := range items {
		if err := addItem(cal, item, opts); err != nil {
			return "", fmt.Errorf("event %s: %w", item.ID, err)
		}
	}
	return cal.Serialize(), nil
}

func addItem(cal *ical.Calendar, item Item, opts Options) error {
	switch e := item.Event.(type) {
	case tracker.SingleInterval:
		addAllDay(cal, item.ID, item.Name, e.Start, e.End, "", opts.Stamp)

	case tracker.SingleDate:
		addAllDay(cal, item.ID, item.Name, e.Date, e.Date, "", opts.Stamp)

	case tracker.YearlyRecurring:
		anniversary := calendar.Anniversary(e.Original)
		if rule, ok := RRule(anniversary); ok {
			addAllDay(cal, item.ID, item.Name, e.Original, e.Original, rule, opts.Stamp)
			return nil
		}
		for year := opts.From.Year(); year < opts.From.Year()+opts.Years; year++ {
			if year < e.Original.Year() {
				continue
			}
			d := calendar.AnniversaryFor(e.Original, year)
			addAllDay(cal, occurrenceID(item.ID, year), item.Name, d, d, "", opts.Stamp)
		}

	case tracker.RuleRecurring:
		first, err := calendar.Resolve(e.Entry.Rule, opts.From.Year())
		if err != nil {
			return err
		}
		if rule, ok := RRule(e.Entry.Rule); ok {
			addAllDay(cal, item.ID, item.Name, first, first, rule, opts.Stamp)
			return nil
		}
		for year := opts.From.Year(); year < opts.From.Year()+opts.Years; year++ {
			d, err := calendar.Resolve(e.Entry.Rule, year)
			if err != nil {
				return err
			}
			addAllDay(cal, occurrenceID(item.ID, year), item.Name, d, d, "", opts.Stamp)
		}

	default:
		return fmt.Errorf("unsupported event type %T", item.Event)
	}
	return nil
}

// addAllDay adds a VEVENT covering start..end inclusive. DTEND is
// exclusive in iCalendar, hence the extra day.
func addAllDay(cal *ical.Calendar, uid, summary string, start, end calendar.Date, rule string, stamp time.Time) {
	ev := cal.AddEvent(uid)
	ev.SetSummary(summary)
	ev.SetDtStampTime(stamp)
	ev.SetAllDayStartAt(start.Time())
	ev.SetAllDayEndAt(end.AddDays(1).Time())
	if rule != "" {
		ev.AddRrule(rule)
	}
}

func occurrenceID(id string, year int) string {
	return fmt.Sprintf("%s-%d", id, year)
}
