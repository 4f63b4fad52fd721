package fsm

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/amp-labs/amp-fsm/kinds"
)

// Builder collects the declarations of one machine. Problems are collected
// as they are found and reported together by Build.
type Builder struct {
	name   string
	states []kinds.Kind
	events []kinds.Kind
	decls  map[kinds.Kind][]Declaration
}

// NewBuilder creates an empty builder for a machine called name.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:  name,
		decls: make(map[kinds.Kind][]Declaration),
	}
}

// State declares a state kind along with its handler contract. States are
// kept in declaration order; the first one is the initial state.
func (b *Builder) State(kind kinds.Kind, decls ...Declaration) *Builder {
	b.states = append(b.states, kind)
	b.decls[kind] = append(b.decls[kind], decls...)

	return b
}

// Events declares event kinds, in order.
func (b *Builder) Events(events ...kinds.Kind) *Builder {
	b.events = append(b.events, events...)

	return b
}

// AddState is State for a state type known at compile time.
func AddState[S any](b *Builder, decls ...Declaration) *Builder {
	return b.State(kinds.Of[S](), decls...)
}

// AddEvent is Events for a single event type known at compile time.
func AddEvent[E any](b *Builder) *Builder {
	return b.Events(kinds.Of[E]())
}

// Build validates the declarations and freezes them into a Definition.
// Every problem found is returned, joined.
func (b *Builder) Build() (*Definition, error) {
	var errs []error

	states, err := kinds.NewSet(b.states...)
	if err != nil {
		errs = append(errs, fmt.Errorf("states: %w", err))
	}

	events, err := kinds.NewSet(b.events...)
	if err != nil {
		errs = append(errs, fmt.Errorf("events: %w", err))
	}

	if len(b.states) == 0 {
		errs = append(errs, ErrNoStates)
	}

	if len(b.events) == 0 {
		errs = append(errs, ErrNoEvents)
	}

	errs = append(errs, checkKinds("states", b.states)...)
	errs = append(errs, checkKinds("events", b.events)...)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	def := &Definition{
		name:   b.name,
		states: states,
		events: events,
		cells:  make([]cell, states.Len()*events.Len()),
		enter:  make([]hookFunc, states.Len()*events.Len()),
		leave:  make([]hookFunc, states.Len()*events.Len()),
	}

	for si, state := range states.All() {
		errs = append(errs, b.register(def, si, state)...)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return def, nil
}

// register fills the row of one state: explicit handlers first, then the
// default for every remaining event.
func (b *Builder) register(def *Definition, si int, state kinds.Kind) []error {
	var (
		errs     []error
		fallback *Declaration
	)

	fail := func(event kinds.Kind, err error) {
		errs = append(errs, &DeclarationError{State: state.Name(), Event: event.Name(), Err: err})
	}

	for _, decl := range b.decls[state] {
		if isPointer(decl.state) || isPointer(decl.event) {
			fail(decl.event, ErrPointerKind)

			continue
		}

		if !decl.state.IsZero() && decl.state != state {
			fail(decl.event, fmt.Errorf("%w: typed for %s", ErrStateMismatch, decl.state.Name()))

			continue
		}

		if !decl.valid() {
			fail(decl.event, ErrInvalidDeclaration)

			continue
		}

		if decl.kind == declDefault {
			if fallback != nil {
				fail(kinds.Kind{}, ErrConflictingDefault)

				continue
			}

			if err := checkTargets(def, decl.action); err != nil {
				fail(kinds.Kind{}, err)

				continue
			}

			fallback = &decl

			continue
		}

		ei, ok := def.events.IndexOf(decl.event)
		if !ok {
			fail(decl.event, ErrUndeclaredEvent)

			continue
		}

		slot := def.slot(si, ei)

		switch decl.kind {
		case declHandler:
			if def.cells[slot].produce != nil {
				fail(decl.event, ErrConflictingHandler)

				continue
			}

			if err := checkTargets(def, decl.action); err != nil {
				fail(decl.event, err)

				continue
			}

			def.cells[slot] = cell{kind: decl.action, produce: decl.produce, explicit: true}
		case declEnter:
			if def.enter[slot] != nil {
				fail(decl.event, fmt.Errorf("%w: enter", ErrDuplicateHook))

				continue
			}

			def.enter[slot] = decl.hook
		case declLeave:
			if def.leave[slot] != nil {
				fail(decl.event, fmt.Errorf("%w: leave", ErrDuplicateHook))

				continue
			}

			def.leave[slot] = decl.hook
		case declDefault:
		}
	}

	rest := cell{kind: NothingKind(), produce: constant(Nothing())}
	if fallback != nil {
		rest = cell{kind: fallback.action, produce: fallback.produce}
	}

	for ei := range def.events.Len() {
		if slot := def.slot(si, ei); def.cells[slot].produce == nil {
			def.cells[slot] = rest
		}
	}

	return errs
}

func checkKinds(what string, ks []kinds.Kind) []error {
	var errs []error

	for _, k := range ks {
		switch {
		case k.IsZero():
			errs = append(errs, fmt.Errorf("%s: %w: kind without a type", what, ErrInvalidDeclaration))
		case isPointer(k):
			errs = append(errs, fmt.Errorf("%s: %w: %s", what, ErrPointerKind, k.Name()))
		}
	}

	return errs
}

func isPointer(k kinds.Kind) bool {
	return !k.IsZero() && k.Type().Kind() == reflect.Pointer
}

func checkTargets(def *Definition, kind ActionKind) error {
	if !kind.satisfiable() {
		return fmt.Errorf("%w: %s admits no action", ErrInvalidDeclaration, kind)
	}

	for _, target := range kind.Targets() {
		if !def.states.Contains(target) {
			return fmt.Errorf("%w: %s is not a state of %s", ErrUndeclaredState, target.Name(), def.name)
		}
	}

	return nil
}
