package fsm

import (
	"github.com/amp-labs/amp-fsm/kinds"
)

type declKind uint8

const (
	declDefault declKind = iota
	declHandler
	declEnter
	declLeave
)

// producer computes the action for a state instance (always a pointer) and
// an event value.
type producer func(state any, event any) Action

// hookFunc is an enter or leave hook.
type hookFunc func(state any, event any)

// Declaration is one entry of a state's handler contract: its default, a
// handler for one event kind, or a lifecycle hook. Build them with
// ByDefault, On, HandleFunc, HandleMaybe, OnEnter and OnLeave.
type Declaration struct {
	kind    declKind
	state   kinds.Kind
	event   kinds.Kind
	action  ActionKind
	produce producer
	hook    hookFunc
}

// ByDefault sets the action for every event the state has no handler for.
// A state without a default does nothing on such events.
func ByDefault(action Action) Declaration {
	return Declaration{
		kind:    declDefault,
		action:  kindOf(action),
		produce: constant(action),
	}
}

// On declares that the state answers events of kind E with action.
func On[E any](action Action) Declaration {
	return Declaration{
		kind:    declHandler,
		event:   kinds.Of[E](),
		action:  kindOf(action),
		produce: constant(action),
	}
}

// HandleFunc declares a handler computing its action from the state and the
// event. Whatever fn returns must be admitted by kind.
func HandleFunc[S, E any](kind ActionKind, fn func(state *S, event E) Action) Declaration {
	decl := Declaration{
		kind:   declHandler,
		state:  kinds.Of[S](),
		event:  kinds.Of[E](),
		action: kind,
	}

	if fn != nil {
		decl.produce = func(state any, event any) Action {
			return fn(state.(*S), event.(E)) //nolint:forcetypeassert
		}
	}

	return decl
}

// HandleMaybe declares a maybe<action> handler: action when guard holds,
// nothing otherwise.
func HandleMaybe[S, E any](action Action, guard func(state *S, event E) bool) Declaration {
	decl := Declaration{
		kind:   declHandler,
		state:  kinds.Of[S](),
		event:  kinds.Of[E](),
		action: MaybeKind(kindOf(action)),
	}

	if action != nil && guard != nil {
		decl.produce = func(state any, event any) Action {
			return Maybe(action, guard(state.(*S), event.(E))) //nolint:forcetypeassert
		}
	}

	return decl
}

// OnEnter declares a hook run on S's instance right after a transition into
// S triggered by an event of kind E.
func OnEnter[S, E any](fn func(state *S, event E)) Declaration {
	return hook[S, E](declEnter, fn)
}

// OnLeave declares a hook run on S's instance right before a transition out
// of S triggered by an event of kind E.
func OnLeave[S, E any](fn func(state *S, event E)) Declaration {
	return hook[S, E](declLeave, fn)
}

func hook[S, E any](kind declKind, fn func(state *S, event E)) Declaration {
	decl := Declaration{
		kind:  kind,
		state: kinds.Of[S](),
		event: kinds.Of[E](),
	}

	if fn != nil {
		decl.hook = func(state any, event any) {
			fn(state.(*S), event.(E)) //nolint:forcetypeassert
		}
	}

	return decl
}

func constant(action Action) producer {
	if action == nil {
		return nil
	}

	return func(any, any) Action {
		return action
	}
}

func kindOf(action Action) ActionKind {
	if action == nil {
		return NothingKind()
	}

	return action.Kind()
}

func (d Declaration) valid() bool {
	switch d.kind {
	case declDefault, declHandler:
		return d.produce != nil
	case declEnter, declLeave:
		return d.hook != nil
	}

	return false
}
