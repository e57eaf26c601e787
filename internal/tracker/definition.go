package tracker

import (
	"fmt"
	"strings"

	"github.com/zapponejosh/countdown-api/internal/calendar"
)

// Definition is the persisted, user-facing form of an Event: ISO date
// strings and a rule identifier. Which fields are used depends on Kind.
type Definition struct {
	Name      string `json:"name" yaml:"name"`
	Kind      Kind   `json:"kind" yaml:"kind"`
	StartDate string `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	Date      string `json:"date,omitempty" yaml:"date,omitempty"`
	RuleID    string `json:"rule_id,omitempty" yaml:"rule_id,omitempty"`
}

// Build validates d and returns the Event it describes. Date fields must be
// canonical YYYY-MM-DD; rule ids must exist in cat.
func (d Definition) Build(cat *calendar.Catalog) (Event, error) {
	if strings.TrimSpace(d.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidDefinition)
	}
	kind, err := ParseKind(string(d.Kind))
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindInterval:
		start, err := parseField("start_date", d.StartDate)
		if err != nil {
			return nil, err
		}
		end, err := parseField("end_date", d.EndDate)
		if err != nil {
			return nil, err
		}
		iv, err := NewSingleInterval(start, end)
		if err != nil {
			return nil, err
		}
		return iv, nil

	case KindSingleDate:
		date, err := parseField("date", d.Date)
		if err != nil {
			return nil, err
		}
		return SingleDate{Date: date}, nil

	case KindYearly:
		date, err := parseField("date", d.Date)
		if err != nil {
			return nil, err
		}
		return YearlyRecurring{Original: date}, nil

	case KindRule:
		if d.RuleID == "" {
			return nil, fmt.Errorf("%w: rule_id is required", ErrInvalidDefinition)
		}
		rr, err := NewRuleRecurring(cat, d.RuleID)
		if err != nil {
			return nil, err
		}
		return rr, nil
	}
	return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidDefinition, d.Kind)
}

// Normalize returns d with the kind alias resolved and fields unused by
// that kind cleared.
func (d Definition) Normalize() (Definition, error) {
	kind, err := ParseKind(string(d.Kind))
	if err != nil {
		return d, err
	}

	out := Definition{Name: strings.TrimSpace(d.Name), Kind: kind}
	switch kind {
	case KindInterval:
		out.StartDate, out.EndDate = d.StartDate, d.EndDate
	case KindSingleDate, KindYearly:
		out.Date = d.Date
	case KindRule:
		out.RuleID = d.RuleID
	}
	return out, nil
}

// DefinitionOf is the inverse of Build.
func DefinitionOf(name string, ev Event) Definition {
	d := Definition{Name: name, Kind: ev.Kind()}
	switch e := ev.(type) {
	case SingleInterval:
		d.StartDate, d.EndDate = e.Start.String(), e.End.String()
	case SingleDate:
		d.Date = e.Date.String()
	case YearlyRecurring:
		d.Date = e.Original.String()
	case RuleRecurring:
		d.RuleID = e.Entry.ID
	}
	return d
}

func parseField(name, value string) (calendar.Date, error) {
	if value == "" {
		return calendar.Date{}, fmt.Errorf("%w: %s is required", ErrInvalidDefinition, name)
	}
	date, err := calendar.ParseDate(value)
	if err != nil {
		return calendar.Date{}, fmt.Errorf("%s: %w", name, err)
	}
	return date, nil
}
