package fsm

import (
	"context"
	"fmt"

	"github.com/amp-labs/amp-fsm/kinds"
)

// Action is the value a state handler returns: a declarative description of
// what should happen next. The set of actions is closed; build them with
// Nothing, TransitionTo, Transition, OneOf and Maybe.
type Action interface {
	Kind() ActionKind

	execute(ctx context.Context, m *Machine, event eventRef) error
}

type nothingAction struct{}

// Nothing returns the action that leaves the machine untouched.
func Nothing() Action { //nolint:ireturn
	return nothingAction{}
}

func (nothingAction) Kind() ActionKind { return NothingKind() }

func (nothingAction) execute(context.Context, *Machine, eventRef) error {
	return nil
}

type transitionAction struct {
	target kinds.Kind
}

// TransitionTo returns the action that makes T's instance the current state.
func TransitionTo[T any]() Action { //nolint:ireturn
	return transitionAction{target: kinds.Of[T]()}
}

// Transition is TransitionTo for a kind known only at runtime.
func Transition(target kinds.Kind) Action { //nolint:ireturn
	return transitionAction{target: target}
}

func (a transitionAction) Kind() ActionKind { return TransitionKind(a.target) }

func (a transitionAction) execute(ctx context.Context, m *Machine, event eventRef) error {
	return m.transition(ctx, a.target, event)
}

// choiceAction is a one_of or maybe that has already been resolved to one of
// its alternatives.
type choiceAction struct {
	menu   ActionKind
	chosen Action
}

// OneOf resolves the choice kind menu to chosen. It fails with ErrNotInMenu
// when menu is not a choice kind or does not admit chosen.
func OneOf(menu ActionKind, chosen Action) (Action, error) { //nolint:ireturn
	if chosen == nil {
		chosen = Nothing()
	}

	if !menu.IsChoice() || !menu.Admits(chosen.Kind()) {
		return nil, fmt.Errorf("%w: %s is not an alternative of %s", ErrNotInMenu, chosen.Kind(), menu)
	}

	return choiceAction{menu: menu, chosen: chosen}, nil
}

// Maybe is one_of<inner, nothing>: inner when ok, nothing otherwise. The
// resulting kind is always maybe<inner's kind>.
func Maybe(inner Action, ok bool) Action { //nolint:ireturn
	if ok {
		return choiceAction{menu: MaybeKind(inner.Kind()), chosen: inner}
	}

	return choiceAction{menu: MaybeKind(inner.Kind()), chosen: Nothing()}
}

func (a choiceAction) Kind() ActionKind { return a.menu }

func (a choiceAction) execute(ctx context.Context, m *Machine, event eventRef) error {
	return a.chosen.execute(ctx, m, event)
}

// Effective unwraps resolved choices down to the action that actually runs.
func Effective(action Action) Action { //nolint:ireturn
	for {
		choice, ok := action.(choiceAction)
		if !ok {
			return action
		}

		action = choice.chosen
	}
}

// conform checks a produced action against the kind its handler declared.
// An action of a different kind that the declared choice admits is wrapped
// so it executes as the declared kind.
func conform(declared ActionKind, action Action) (Action, bool) { //nolint:ireturn
	if action == nil {
		action = Nothing()
	}

	if declared.Equal(action.Kind()) {
		return action, true
	}

	if declared.IsChoice() && declared.Admits(action.Kind()) {
		return choiceAction{menu: declared, chosen: action}, true
	}

	if choice, ok := action.(choiceAction); ok {
		return conform(declared, choice.chosen)
	}

	return nil, false
}
