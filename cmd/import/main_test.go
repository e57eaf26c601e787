package main

import (
	"strings"
	"testing"

	"github.com/zapponejosh/countdown-api/internal/calendar"
	"github.com/zapponejosh/countdown-api/internal/tracker"
)

func TestValidate(t *testing.T) {
	cat := calendar.DefaultCatalog()

	good := []tracker.Definition{
		{Name: "Rome", Kind: "trip", StartDate: "2026-07-01", EndDate: "2026-07-11"},
		{Name: "Easter", Kind: "special", RuleID: "easter"},
	}
	if err := validate(good, cat); err != nil {
		t.Fatalf("validate(good) error = %v", err)
	}

	bad := []tracker.Definition{
		{Name: "Rome", Kind: "trip", StartDate: "2026-07-11", EndDate: "2026-07-01"},
		{Name: "Groundhog", Kind: "rule", RuleID: "groundhog_day"},
		{Name: "Rome", Kind: "milestone", Date: "2027-01-01"},
	}
	err := validate(bad, cat)
	if err == nil {
		t.Fatal("validate(bad) expected error")
	}

	msg := err.Error()
	for _, want := range []string{"event 1", "event 2", "duplicate of event 1"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %q", msg, want)
		}
	}
}
