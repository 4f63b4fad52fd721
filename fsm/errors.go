package fsm

import (
	"errors"
	"fmt"
)

// Declaration errors, reported by Builder.Build before any machine exists.
var (
	// ErrNoStates indicates that a machine declares no state kinds.
	ErrNoStates = errors.New("at least one state is required")
	// ErrNoEvents indicates that a machine declares no event kinds.
	ErrNoEvents = errors.New("at least one event is required")
	// ErrConflictingHandler indicates two handlers for the same state and event.
	ErrConflictingHandler = errors.New("conflicting handlers for event")
	// ErrConflictingDefault indicates two default actions for the same state.
	ErrConflictingDefault = errors.New("conflicting default actions")
	// ErrDuplicateHook indicates two enter or two leave hooks for the same state and event.
	ErrDuplicateHook = errors.New("duplicate hook")
	// ErrStateMismatch indicates a declaration typed for a different state than the one it was given to.
	ErrStateMismatch = errors.New("declaration belongs to another state")
	// ErrInvalidDeclaration indicates a declaration missing its action or function,
	// or declaring a choice with no alternatives.
	ErrInvalidDeclaration = errors.New("invalid declaration")
	// ErrPointerKind indicates a pointer type used as a state or event kind. Kinds
	// are always the element type; pointers are accepted as values only.
	ErrPointerKind = errors.New("pointer types cannot be kinds")
)

// Runtime errors.
var (
	// ErrUndeclaredEvent indicates an event kind outside the machine's event universe.
	ErrUndeclaredEvent = errors.New("undeclared event")
	// ErrUndeclaredState indicates a state kind outside the machine's state universe.
	ErrUndeclaredState = errors.New("undeclared state")
	// ErrNilEvent indicates a nil event value.
	ErrNilEvent = errors.New("nil event")
	// ErrActionKindMismatch indicates a handler returned an action its declared kind does not admit.
	ErrActionKindMismatch = errors.New("action does not match declared kind")
	// ErrNotInMenu indicates a choice resolved to an action outside its alternatives.
	ErrNotInMenu = errors.New("action is not an alternative")
	// ErrStateCount indicates the wrong number of state instances was supplied.
	ErrStateCount = errors.New("wrong number of state instances")
	// ErrStateKind indicates a supplied state instance is not of the declared kind at its position.
	ErrStateKind = errors.New("state instance has the wrong kind")
)

// DeclarationError wraps a builder problem with the state and event it concerns.
type DeclarationError struct {
	State string
	Event string
	Err   error
}

func (e *DeclarationError) Error() string {
	if e.Event == "" {
		return fmt.Sprintf("state %s: %v", e.State, e.Err)
	}

	return fmt.Sprintf("state %s, event %s: %v", e.State, e.Event, e.Err)
}

func (e *DeclarationError) Unwrap() error {
	return e.Err
}

// HandleError wraps a dispatch failure with machine context.
type HandleError struct {
	Machine string
	State   string
	Event   string
	Err     error
}

func (e *HandleError) Error() string {
	return fmt.Sprintf("machine %s in %s handling %s: %v", e.Machine, e.State, e.Event, e.Err)
}

func (e *HandleError) Unwrap() error {
	return e.Err
}

// WrapHandleError wraps err with machine context.
func WrapHandleError(machine, state, event string, err error) error {
	if err == nil {
		return nil
	}

	return &HandleError{
		Machine: machine,
		State:   state,
		Event:   event,
		Err:     err,
	}
}
