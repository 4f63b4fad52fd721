// Package scenario replays scripted events against a machine. Scripts are
// YAML documents naming each event by kind name, with its fields under
// "with" and optionally the state the machine must be in afterwards:
//
//	machine: lock
//	steps:
//	  - event: LockEvent
//	    with: {newKey: 1234}
//	    expect: LockedState
package scenario

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/amp-labs/amp-fsm/fsm"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownEvent is returned for event names the machine does not declare.
	ErrUnknownEvent = errors.New("unknown event")
	// ErrUnknownState is returned for expected states the machine does not declare.
	ErrUnknownState = errors.New("unknown state")
	// ErrExpectation is returned when the machine ends a step in an unexpected state.
	ErrExpectation = errors.New("unexpected state")
	// ErrMachineMismatch is returned when a script is run against the wrong machine.
	ErrMachineMismatch = errors.New("script targets another machine")
)

// Scenario is a parsed script.
type Scenario struct {
	Machine string `yaml:"machine"`
	Steps   []Step `yaml:"steps"`
}

// Step is one event delivery.
type Step struct {
	Event  string    `yaml:"event"`
	With   yaml.Node `yaml:"with,omitempty"`
	Expect string    `yaml:"expect,omitempty"`
}

// Result records what one step did.
type Result struct {
	Step  int
	Event string
	From  string
	To    string
}

// Load reads a script. Unknown top-level or step fields are rejected.
func Load(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}

	return &s, nil
}

// LoadFile reads a script from path.
func LoadFile(path string) (*Scenario, error) {
	f, err := os.Open(path) //nolint:gosec // Path supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to open scenario: %w", err)
	}

	defer f.Close() //nolint:errcheck

	return Load(f)
}

// DecodeEvent builds the event value of the kind called name from node.
// An empty node yields the zero value.
func DecodeEvent(def *fsm.Definition, name string, node *yaml.Node) (any, error) {
	kind, ok := def.EventKind(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q in machine %s", ErrUnknownEvent, name, def.Name())
	}

	ptr := kind.New()

	if node != nil && !node.IsZero() {
		if err := node.Decode(ptr); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", name, err)
		}
	}

	return reflect.ValueOf(ptr).Elem().Interface(), nil
}

// Events decodes every step's event without running anything.
func (s *Scenario) Events(def *fsm.Definition) ([]any, error) {
	events := make([]any, len(s.Steps))

	for i, step := range s.Steps {
		event, err := DecodeEvent(def, step.Event, &step.With)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}

		events[i] = event
	}

	return events, nil
}

// Run delivers every step to m in order, checking expectations as it goes.
// It stops at the first failing step and returns the results so far.
func (s *Scenario) Run(ctx context.Context, m *fsm.Machine) ([]Result, error) {
	def := m.Definition()

	if s.Machine != "" && s.Machine != def.Name() {
		return nil, fmt.Errorf("%w: script is for %s, machine is %s", ErrMachineMismatch, s.Machine, def.Name())
	}

	events, err := s.Events(def)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(events))

	for i, event := range events {
		step := s.Steps[i]
		from := m.CurrentKind().Name()

		if err := m.Handle(ctx, event); err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		results = append(results, Result{
			Step:  i + 1,
			Event: step.Event,
			From:  from,
			To:    m.CurrentKind().Name(),
		})

		if err := expect(def, m, step.Expect); err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
	}

	return results, nil
}

func expect(def *fsm.Definition, m *fsm.Machine, want string) error {
	if want == "" {
		return nil
	}

	if _, ok := def.StateKind(want); !ok {
		return fmt.Errorf("%w: %q in machine %s", ErrUnknownState, want, def.Name())
	}

	if got := m.CurrentKind().Name(); got != want {
		return fmt.Errorf("%w: want %s, got %s", ErrExpectation, want, got)
	}

	return nil
}
