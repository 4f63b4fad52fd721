// Package lock declares a door with a combination lock: it can be opened,
// closed, locked with a new key and unlocked only with the matching key.
package lock

import (
	"sync"

	"github.com/amp-labs/amp-fsm/fsm"
	"github.com/amp-labs/amp-fsm/kinds"
)

// Name is the machine name.
const Name = "lock"

// ClosedState is the initial state: closed but not locked.
type ClosedState struct{}

// OpenState is an open door.
type OpenState struct{}

// LockedState is a locked door remembering its key.
type LockedState struct {
	key uint32
}

// NewLockedState returns a locked state holding key.
func NewLockedState(key uint32) LockedState {
	return LockedState{key: key}
}

// Key returns the key currently required to unlock.
func (s LockedState) Key() uint32 {
	return s.key
}

// OpenEvent opens a closed door.
type OpenEvent struct{}

// CloseEvent closes an open door.
type CloseEvent struct{}

// LockEvent locks a closed door with a new key.
type LockEvent struct {
	NewKey uint32 `json:"newKey" yaml:"newKey"`
}

// UnlockEvent tries to unlock with Key.
type UnlockEvent struct {
	Key uint32 `json:"key" yaml:"key"`
}

func (s *LockedState) rekey(event LockEvent) {
	s.key = event.NewKey
}

func (s *LockedState) matches(event UnlockEvent) bool {
	return event.Key == s.key
}

// Definition returns the lock machine's declarations.
var Definition = sync.OnceValue(func() *fsm.Definition {
	def, err := Build()
	if err != nil {
		panic(err)
	}

	return def
})

// Build declares the lock machine.
func Build() (*fsm.Definition, error) {
	b := fsm.NewBuilder(Name).Events(
		kinds.Of[OpenEvent](),
		kinds.Of[CloseEvent](),
		kinds.Of[LockEvent](),
		kinds.Of[UnlockEvent](),
	)

	fsm.AddState[ClosedState](b,
		fsm.ByDefault(fsm.Nothing()),
		fsm.On[LockEvent](fsm.TransitionTo[LockedState]()),
		fsm.On[OpenEvent](fsm.TransitionTo[OpenState]()),
	)

	fsm.AddState[OpenState](b,
		fsm.ByDefault(fsm.Nothing()),
		fsm.On[CloseEvent](fsm.TransitionTo[ClosedState]()),
	)

	fsm.AddState[LockedState](b,
		fsm.ByDefault(fsm.Nothing()),
		fsm.OnEnter(func(s *LockedState, e LockEvent) {
			s.rekey(e)
		}),
		fsm.HandleMaybe(fsm.TransitionTo[ClosedState](), func(s *LockedState, e UnlockEvent) bool {
			return s.matches(e)
		}),
	)

	return b.Build()
}

// New creates a lock machine in ClosedState with the locked state's key set
// to key.
func New(key uint32, opts ...fsm.Option) (*fsm.Machine, error) {
	opts = append([]fsm.Option{fsm.WithStates(ClosedState{}, OpenState{}, NewLockedState(key))}, opts...)

	return Definition().New(opts...)
}
