// Package tracker models the user-defined items being counted down to and
// evaluates them against a reference day.
package tracker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zapponejosh/countdown-api/internal/calendar"
	"github.com/zapponejosh/countdown-api/internal/countdown"
)

var (
	// ErrInvalidInterval is returned when an interval ends before it starts.
	ErrInvalidInterval = errors.New("interval ends before it starts")

	// ErrInvalidDefinition is returned for a Definition that cannot be
	// turned into an Event.
	ErrInvalidDefinition = errors.New("invalid event definition")
)

// Kind names the variant of an Event.
type Kind string

const (
	KindInterval   Kind = "interval"
	KindSingleDate Kind = "single_date"
	KindYearly     Kind = "yearly"
	KindRule       Kind = "rule"
)

var kindAliases = map[string]Kind{
	"interval":    KindInterval,
	"trip":        KindInterval,
	"single_date": KindSingleDate,
	"milestone":   KindSingleDate,
	"yearly":      KindYearly,
	"anniversary": KindYearly,
	"rule":        KindRule,
	"special":     KindRule,
}

// ParseKind accepts a kind name or one of its aliases (trip, milestone,
// anniversary, special).
func ParseKind(s string) (Kind, error) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidDefinition, s)
	}
	return k, nil
}

// Event is one tracked item. The implementations are SingleInterval,
// SingleDate, YearlyRecurring and RuleRecurring; Evaluate switches over
// exactly these. Events are immutable: a configuration change builds a new
// Event.
type Event interface {
	Kind() Kind
	isEvent()
}

// SingleInterval is a trip-like range, both ends inclusive.
type SingleInterval struct {
	countdown.Interval
}

// SingleDate is a one-off milestone.
type SingleDate struct {
	Date calendar.Date
}

// YearlyRecurring repeats every year on the anniversary of Original.
type YearlyRecurring struct {
	Original calendar.Date
}

// RuleRecurring repeats every year per a catalog rule.
type RuleRecurring struct {
	Entry calendar.Entry
}

func (SingleInterval) Kind() Kind  { return KindInterval }
func (SingleDate) Kind() Kind      { return KindSingleDate }
func (YearlyRecurring) Kind() Kind { return KindYearly }
func (RuleRecurring) Kind() Kind   { return KindRule }

func (SingleInterval) isEvent()  {}
func (SingleDate) isEvent()      {}
func (YearlyRecurring) isEvent() {}
func (RuleRecurring) isEvent()   {}

// NewSingleInterval validates start <= end. A single-day interval has
// start == end.
func NewSingleInterval(start, end calendar.Date) (SingleInterval, error) {
	if end.Before(start) {
		return SingleInterval{}, fmt.Errorf("%w: %s > %s", ErrInvalidInterval, start, end)
	}
	return SingleInterval{Interval: countdown.Interval{Start: start, End: end}}, nil
}

// NewRuleRecurring looks up ruleID in cat. Unknown ids fail with
// calendar.ErrUnknownRule; there is no default rule.
func NewRuleRecurring(cat *calendar.Catalog, ruleID string) (RuleRecurring, error) {
	entry, err := cat.Lookup(ruleID)
	if err != nil {
		return RuleRecurring{}, err
	}
	return RuleRecurring{Entry: entry}, nil
}
