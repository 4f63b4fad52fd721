package validator

import (
	"fmt"

	"github.com/amp-labs/amp-fsm/fsm"
	"github.com/amp-labs/amp-fsm/kinds"
)

// Severity defines the severity level of an issue.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Rule checks a table for one kind of problem.
type Rule interface {
	Name() string
	Severity() Severity
	Check(t fsm.TransitionTable) []Issue
}

// DefaultRules returns the standard set of rules.
func DefaultRules() []Rule {
	return []Rule{
		&unreachableStateRule{},
		&unhandledEventRule{},
		&deadEndRule{},
	}
}

// unreachableStateRule reports states no sequence of events can reach from
// the initial state.
type unreachableStateRule struct{}

func (r *unreachableStateRule) Name() string {
	return "UnreachableState"
}

func (r *unreachableStateRule) Severity() Severity {
	return SeverityError
}

func (r *unreachableStateRule) Check(t fsm.TransitionTable) []Issue {
	if len(t.States) == 0 {
		return nil
	}

	next := make(map[kinds.Kind][]kinds.Kind)
	for _, edge := range t.Edges() {
		next[edge.From] = append(next[edge.From], edge.To)
	}

	reached := map[kinds.Kind]bool{t.States[0]: true}
	queue := []kinds.Kind{t.States[0]}

	for len(queue) > 0 {
		state := queue[0]
		queue = queue[1:]

		for _, to := range next[state] {
			if !reached[to] {
				reached[to] = true
				queue = append(queue, to)
			}
		}
	}

	var issues []Issue

	for _, state := range t.States {
		if !reached[state] {
			issues = append(issues, Issue{
				Code:    "UNREACHABLE_STATE",
				Message: fmt.Sprintf("state %s cannot be reached from %s", state.Name(), t.States[0].Name()),
				State:   state.Name(),
			})
		}
	}

	return issues
}

// unhandledEventRule reports events every state answers with nothing.
type unhandledEventRule struct{}

func (r *unhandledEventRule) Name() string {
	return "UnhandledEvent"
}

func (r *unhandledEventRule) Severity() Severity {
	return SeverityWarning
}

func (r *unhandledEventRule) Check(t fsm.TransitionTable) []Issue {
	var issues []Issue

	for ei, event := range t.Events {
		used := false

		for si := range t.States {
			if !t.Cell(si, ei).IsNothing() {
				used = true

				break
			}
		}

		if !used {
			issues = append(issues, Issue{
				Code:    "UNHANDLED_EVENT",
				Message: fmt.Sprintf("no state reacts to event %s", event.Name()),
				Event:   event.Name(),
			})
		}
	}

	return issues
}

// deadEndRule reports states with no transition to any other state.
type deadEndRule struct{}

func (r *deadEndRule) Name() string {
	return "DeadEnd"
}

func (r *deadEndRule) Severity() Severity {
	return SeverityWarning
}

func (r *deadEndRule) Check(t fsm.TransitionTable) []Issue {
	exits := make(map[kinds.Kind]bool)

	for _, edge := range t.Edges() {
		if edge.To != edge.From {
			exits[edge.From] = true
		}
	}

	var issues []Issue

	for _, state := range t.States {
		if !exits[state] {
			issues = append(issues, Issue{
				Code:    "DEAD_END",
				Message: fmt.Sprintf("state %s never transitions to another state", state.Name()),
				State:   state.Name(),
			})
		}
	}

	return issues
}
