// Package fsmtest provides testing utilities for machines declared with fsm.
package fsmtest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/amp-labs/amp-fsm/fsm"
	"github.com/amp-labs/amp-fsm/kinds"
	"github.com/stretchr/testify/require"
)

// Recorder collects a trace of steps, usually appended from hooks and
// handlers, so tests can assert on ordering.
type Recorder struct {
	mu      sync.Mutex
	entries []string
}

// Record appends a formatted entry.
func (r *Recorder) Record(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, fmt.Sprintf(format, args...))
}

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.entries...)
}

// Reset forgets all entries.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
}

// Logger is an fsm.Logger keeping every record in memory.
type Logger struct {
	mu          sync.Mutex
	Events      []fsm.EventRecord
	Transitions []fsm.TransitionRecord
	Failures    []error
}

var _ fsm.Logger = (*Logger)(nil)

func (l *Logger) EventHandled(_ context.Context, rec fsm.EventRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.Events = append(l.Events, rec)
}

func (l *Logger) TransitionExecuted(_ context.Context, rec fsm.TransitionRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.Transitions = append(l.Transitions, rec)
}

func (l *Logger) HandleFailed(_ context.Context, _ fsm.EventRecord, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.Failures = append(l.Failures, err)
}

// Path lists the states visited through recorded transitions, starting
// with the source of the first one.
func (l *Logger) Path() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.Transitions) == 0 {
		return nil
	}

	path := []string{l.Transitions[0].From}
	for _, tr := range l.Transitions {
		path = append(path, tr.To)
	}

	return path
}

// NewMachine builds a machine from def and fails the test on error.
func NewMachine(t testing.TB, def *fsm.Definition, opts ...fsm.Option) *fsm.Machine {
	t.Helper()

	m, err := def.New(opts...)
	require.NoError(t, err, "failed to create machine")

	return m
}

// Send delivers events in order and fails the test on the first error.
func Send(t testing.TB, m *fsm.Machine, events ...any) {
	t.Helper()

	for _, event := range events {
		require.NoError(t, m.Handle(t.Context(), event), "handling %T", event)
	}
}

// RequireIn fails the test unless S is the current state.
func RequireIn[S any](t testing.TB, m *fsm.Machine) {
	t.Helper()

	require.Equal(t, kinds.Of[S]().Name(), m.CurrentKind().Name(), "unexpected current state")
}

// RequireAgreement checks that for every state and event of def, the action
// a default-valued state produces for a zero-valued event is admitted by the
// kind the resolver reports.
func RequireAgreement(t testing.TB, def *fsm.Definition) {
	t.Helper()

	resolved := fsm.Resolve(def)

	for si, state := range resolved.States {
		for ei, event := range resolved.Events {
			action, err := def.Dispatch(state.New(), event.New())
			require.NoError(t, err, "dispatching %s in %s", event, state)

			want := resolved.Cell(si, ei)
			require.True(t, want.Admits(action.Kind()),
				"%s/%s: resolver says %s, handler produced %s", state, event, want, action.Kind())
		}
	}
}
