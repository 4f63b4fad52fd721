// Package door declares the smallest useful machine: a door that can be
// opened and closed. Opening an open door or closing a closed one does
// nothing.
package door

import (
	"sync"

	"github.com/amp-labs/amp-fsm/fsm"
	"github.com/amp-labs/amp-fsm/kinds"
)

// Name is the machine name.
const Name = "door"

// Closed is the initial state. It counts how often the door was shut.
type Closed struct {
	Closings int
}

// Open counts how often the door was opened.
type Open struct {
	Openings int
}

// OpenDoor is the Open event.
type OpenDoor struct{}

func (OpenDoor) KindName() string { return "Open" }

// CloseDoor is the Close event.
type CloseDoor struct{}

func (CloseDoor) KindName() string { return "Close" }

// Definition returns the door machine's declarations.
var Definition = sync.OnceValue(func() *fsm.Definition {
	def, err := fsm.NewBuilder(Name).
		Events(kinds.Of[OpenDoor](), kinds.Of[CloseDoor]()).
		State(kinds.Of[Closed](),
			fsm.ByDefault(fsm.Nothing()),
			fsm.On[OpenDoor](fsm.TransitionTo[Open]()),
			fsm.OnEnter(func(s *Closed, _ CloseDoor) { s.Closings++ }),
		).
		State(kinds.Of[Open](),
			fsm.ByDefault(fsm.Nothing()),
			fsm.On[CloseDoor](fsm.TransitionTo[Closed]()),
			fsm.OnEnter(func(s *Open, _ OpenDoor) { s.Openings++ }),
		).
		Build()
	if err != nil {
		panic(err)
	}

	return def
})
