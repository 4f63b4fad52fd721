package fsm

import (
	"fmt"
	"reflect"

	"github.com/amp-labs/amp-fsm/kinds"
)

// cell is the frozen contract of one (state, event) pair.
type cell struct {
	kind     ActionKind
	produce  producer
	explicit bool
}

// Definition is the frozen, validated registry of a machine: its state and
// event universes, the action kind and producer for every pair, and the
// lifecycle hooks. It is immutable and safe to share between goroutines and
// machines. Both the dispatcher and the resolver read it.
type Definition struct {
	name   string
	states kinds.Set[kinds.Kind]
	events kinds.Set[kinds.Kind]

	// Dense tables indexed by state*len(events)+event.
	cells []cell
	enter []hookFunc
	leave []hookFunc
}

// Name of the machine.
func (d *Definition) Name() string {
	return d.name
}

// States is the state universe in declaration order.
func (d *Definition) States() kinds.Set[kinds.Kind] {
	return d.states
}

// Events is the event universe in declaration order.
func (d *Definition) Events() kinds.Set[kinds.Kind] {
	return d.events
}

// Initial is the kind every new machine starts in: the first declared state.
func (d *Definition) Initial() kinds.Kind {
	return d.states.At(0)
}

// Lookup returns the declared action kind for state and event.
func (d *Definition) Lookup(state, event kinds.Kind) (ActionKind, bool) {
	si, ei, ok := d.indices(state, event)
	if !ok {
		return ActionKind{}, false
	}

	return d.cells[d.slot(si, ei)].kind, true
}

// Handles reports whether state declares its own handler for event, as
// opposed to falling back on its default.
func (d *Definition) Handles(state, event kinds.Kind) bool {
	si, ei, ok := d.indices(state, event)

	return ok && d.cells[d.slot(si, ei)].explicit
}

// StateKind finds a state kind by name.
func (d *Definition) StateKind(name string) (kinds.Kind, bool) {
	return findByName(d.states, name)
}

// EventKind finds an event kind by name.
func (d *Definition) EventKind(name string) (kinds.Kind, bool) {
	return findByName(d.events, name)
}

// Dispatch asks state which action it takes for event, without executing
// it. state may be a value or a pointer of a declared state kind. This is
// the same producer Machine.Handle runs.
func (d *Definition) Dispatch(state any, event any) (Action, error) { //nolint:ireturn
	si, ok := d.states.IndexOf(kinds.OfValue(state))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUndeclaredState, kinds.OfValue(state).Name())
	}

	ref, err := d.eventRef(event)
	if err != nil {
		return nil, err
	}

	return d.dispatch(si, ref, ownedCopy(state))
}

func (d *Definition) dispatch(si int, event eventRef, state any) (Action, error) { //nolint:ireturn
	c := d.cells[d.slot(si, event.index)]

	raw := c.produce(state, event.value)

	action, ok := conform(c.kind, raw)
	if !ok {
		produced := "nil"
		if raw != nil {
			produced = raw.Kind().String()
		}

		return nil, fmt.Errorf("%w: declared %s, got %s", ErrActionKindMismatch, c.kind, produced)
	}

	return action, nil
}

// eventRef normalizes an event value: pointers are dereferenced and the
// kind must belong to the event universe.
func (d *Definition) eventRef(event any) (eventRef, error) {
	if event == nil {
		return eventRef{}, ErrNilEvent
	}

	value := reflect.ValueOf(event)
	if value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return eventRef{}, ErrNilEvent
		}

		event = value.Elem().Interface()
	}

	kind := kinds.OfValue(event)

	ei, ok := d.events.IndexOf(kind)
	if !ok {
		return eventRef{kind: kind}, fmt.Errorf("%w: %s", ErrUndeclaredEvent, kind.Name())
	}

	return eventRef{index: ei, kind: kind, value: event}, nil
}

func (d *Definition) indices(state, event kinds.Kind) (int, int, bool) {
	si, ok := d.states.IndexOf(state)
	if !ok {
		return 0, 0, false
	}

	ei, ok := d.events.IndexOf(event)
	if !ok {
		return 0, 0, false
	}

	return si, ei, true
}

func (d *Definition) slot(si, ei int) int {
	return si*d.events.Len() + ei
}

func findByName(set kinds.Set[kinds.Kind], name string) (kinds.Kind, bool) {
	for kind := range set.Values() {
		if kind.Name() == name {
			return kind, true
		}
	}

	return kinds.Kind{}, false
}

// ownedCopy returns a fresh pointer holding a copy of v, which may be a
// value or a pointer. A nil pointer copies as the zero value.
func ownedCopy(v any) any {
	value := reflect.ValueOf(v)
	if value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return reflect.New(value.Type().Elem()).Interface()
		}

		value = value.Elem()
	}

	out := reflect.New(value.Type())
	out.Elem().Set(value)

	return out.Interface()
}
