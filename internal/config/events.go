package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zapponejosh/countdown-api/internal/tracker"
)

// EventsFile is the YAML layout of a tracked-events file:
//
//	events:
//	  - name: Rome
//	    kind: trip
//	    start_date: 2026-07-01
//	    end_date: 2026-07-11
//	  - name: Easter
//	    kind: special
//	    rule_id: easter
type EventsFile struct {
	Events []tracker.Definition `yaml:"events"`
}

// LoadEvents reads tracked-event definitions from a YAML file. Unknown keys
// are rejected so typos surface at load time. The definitions are not yet
// validated against the rule catalog.
func LoadEvents(path string) ([]tracker.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read events file: %w", err)
	}
	defs, err := ParseEvents(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return defs, nil
}

// ParseEvents decodes the YAML body of an events file.
func ParseEvents(data []byte) ([]tracker.Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file EventsFile
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse events: %w", err)
	}
	return file.Events, nil
}
