package fsm

import (
	"context"
	"fmt"

	"github.com/amp-labs/amp-fsm/kinds"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"
)

// eventRef is an event value resolved against the event universe.
type eventRef struct {
	index int
	kind  kinds.Kind
	value any
}

// Machine owns exactly one instance of every state kind of its Definition
// and selects one of them as current. A Machine is not safe for concurrent
// Handle calls; Stats may be read from any goroutine.
type Machine struct {
	def     *Definition
	id      string
	slots   []any
	current int

	logger Logger
	tracer trace.Tracer
	stats  counters
}

type counters struct {
	handled     atomic.Uint64
	transitions atomic.Uint64
	ignored     atomic.Uint64
	failures    atomic.Uint64
}

// Stats is a snapshot of a machine's counters.
type Stats struct {
	Handled     uint64
	Transitions uint64
	Ignored     uint64
	Failures    uint64
}

// New creates a machine in the initial state.
func (d *Definition) New(opts ...Option) (*Machine, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	if o.id == "" {
		o.id = uuid.NewString()
	}

	if o.logger == nil {
		o.logger = NewDefaultLogger()
	}

	if o.tracerProvider == nil {
		o.tracerProvider = otel.GetTracerProvider()
	}

	slots, err := d.instances(o)
	if err != nil {
		return nil, err
	}

	return &Machine{
		def:    d,
		id:     o.id,
		slots:  slots,
		logger: o.logger,
		tracer: o.tracerProvider.Tracer(tracerName),
	}, nil
}

func (d *Definition) instances(o options) ([]any, error) {
	slots := make([]any, d.states.Len())

	if !o.statesGiven {
		for i, kind := range d.states.All() {
			slots[i] = kind.New()
		}

		return slots, nil
	}

	if len(o.states) != d.states.Len() {
		return nil, fmt.Errorf("%w: %s declares %d states, got %d",
			ErrStateCount, d.name, d.states.Len(), len(o.states))
	}

	for i, kind := range d.states.All() {
		got := kinds.OfValue(o.states[i])
		if got != kind {
			return nil, fmt.Errorf("%w: position %d wants %s, got %s", ErrStateKind, i, kind.Name(), got.Name())
		}

		slots[i] = ownedCopy(o.states[i])
	}

	return slots, nil
}

// ID is the machine's instance id.
func (m *Machine) ID() string {
	return m.id
}

// Definition returns the declarations the machine runs.
func (m *Machine) Definition() *Definition {
	return m.def
}

// Current returns a pointer to the current state instance.
func (m *Machine) Current() any {
	return m.slots[m.current]
}

// CurrentKind returns the kind of the current state.
func (m *Machine) CurrentKind() kinds.Kind {
	return m.def.states.At(m.current)
}

// State returns a pointer to the owned instance of kind, current or not.
func (m *Machine) State(kind kinds.Kind) (any, bool) {
	idx, ok := m.def.states.IndexOf(kind)
	if !ok {
		return nil, false
	}

	return m.slots[idx], true
}

// StateOf returns the machine's instance of S, or nil when S is not one of
// its states.
func StateOf[S any](m *Machine) *S {
	state, ok := m.State(kinds.Of[S]())
	if !ok {
		return nil
	}

	return state.(*S) //nolint:forcetypeassert
}

// Is reports whether S is the current state.
func Is[S any](m *Machine) bool {
	return m.CurrentKind() == kinds.Of[S]()
}

// Stats returns a snapshot of the machine's counters.
func (m *Machine) Stats() Stats {
	return Stats{
		Handled:     m.stats.handled.Load(),
		Transitions: m.stats.transitions.Load(),
		Ignored:     m.stats.ignored.Load(),
		Failures:    m.stats.failures.Load(),
	}
}

// Handle delivers event to the current state and executes the action it
// answers with. Events a state has no reason to act on are not errors: they
// resolve to nothing. Handle fails only for events outside the machine's
// event universe and for handlers breaking their declared action kind.
func (m *Machine) Handle(ctx context.Context, event any) (err error) {
	from := m.CurrentKind()

	ctx, span := startHandleSpan(ctx, m.tracer, m, from)
	defer func() {
		endHandleSpan(span, err)
	}()

	ref, err := m.def.eventRef(event)
	if err != nil {
		return m.fail(ctx, from, ref.kind, err)
	}

	span.SetAttributes(eventAttribute(ref.kind))

	action, err := m.def.dispatch(m.current, ref, m.slots[m.current])
	if err != nil {
		return m.fail(ctx, from, ref.kind, err)
	}

	effective := Effective(action).Kind()
	span.SetAttributes(actionAttribute(effective))

	m.stats.handled.Inc()

	if effective.IsNothing() {
		m.stats.ignored.Inc()
	}

	recordEvent(m.def.name, from, ref.kind, effective)
	m.logger.EventHandled(ctx, EventRecord{
		MachineID: m.id,
		Machine:   m.def.name,
		State:     from.Name(),
		Event:     ref.kind.Name(),
		Action:    effective.String(),
	})

	if err := action.execute(ctx, m, ref); err != nil {
		return m.fail(ctx, from, ref.kind, err)
	}

	return nil
}

// transition runs the leave hook of the current state, moves the selector
// to target, then runs target's enter hook. Only actions call it.
func (m *Machine) transition(ctx context.Context, target kinds.Kind, event eventRef) error {
	to, ok := m.def.states.IndexOf(target)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUndeclaredState, target.Name())
	}

	from := m.current

	if leave := m.def.leave[m.def.slot(from, event.index)]; leave != nil {
		leave(m.slots[from], event.value)
	}

	m.current = to

	if enter := m.def.enter[m.def.slot(to, event.index)]; enter != nil {
		enter(m.slots[to], event.value)
	}

	fromKind := m.def.states.At(from)

	m.stats.transitions.Inc()
	recordTransition(m.def.name, fromKind, target)
	m.logger.TransitionExecuted(ctx, TransitionRecord{
		MachineID: m.id,
		Machine:   m.def.name,
		From:      fromKind.Name(),
		To:        target.Name(),
		Event:     event.kind.Name(),
	})

	return nil
}

func (m *Machine) fail(ctx context.Context, state, event kinds.Kind, err error) error {
	m.stats.failures.Inc()
	recordFailure(m.def.name, err)

	wrapped := WrapHandleError(m.def.name, state.Name(), event.Name(), err)
	m.logger.HandleFailed(ctx, EventRecord{
		MachineID: m.id,
		Machine:   m.def.name,
		State:     state.Name(),
		Event:     event.Name(),
	}, wrapped)

	return wrapped
}
