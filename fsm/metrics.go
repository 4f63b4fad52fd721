package fsm

import (
	"errors"

	"github.com/amp-labs/amp-fsm/kinds"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric definitions. Label values come from the closed state, event and
// action universes of each machine, so cardinality stays bounded.
var (
	// eventsHandledTotal counts handled events by machine, state, event and the action that ran.
	eventsHandledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fsm_events_handled_total",
		Help: "Total number of events handled by machine, state, event, and executed action",
	}, []string{"machine", "state", "event", "action"})

	// transitionsTotal counts executed transitions.
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fsm_transitions_total",
		Help: "Total number of state transitions by machine, from, and to",
	}, []string{"machine", "from", "to"})

	// handleErrorsTotal counts rejected events by reason.
	handleErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fsm_handle_errors_total",
		Help: "Total number of rejected events by machine and reason",
	}, []string{"machine", "reason"})
)

func recordEvent(machine string, state, event kinds.Kind, action ActionKind) {
	eventsHandledTotal.WithLabelValues(sanitizeMachine(machine), state.Name(), event.Name(), action.String()).Inc()
}

func recordTransition(machine string, from, to kinds.Kind) {
	transitionsTotal.WithLabelValues(sanitizeMachine(machine), from.Name(), to.Name()).Inc()
}

func recordFailure(machine string, err error) {
	handleErrorsTotal.WithLabelValues(sanitizeMachine(machine), failureReason(err)).Inc()
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrUndeclaredEvent):
		return "undeclared_event"
	case errors.Is(err, ErrNilEvent):
		return "nil_event"
	case errors.Is(err, ErrActionKindMismatch):
		return "action_kind_mismatch"
	case errors.Is(err, ErrUndeclaredState):
		return "undeclared_state"
	default:
		return "other"
	}
}

func sanitizeMachine(machine string) string {
	if machine == "" {
		return "unknown"
	}

	return machine
}
