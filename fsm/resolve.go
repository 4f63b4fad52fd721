package fsm

import (
	"github.com/amp-labs/amp-fsm/kinds"
)

// TransitionTable is the resolved action kind of every (state, event) pair
// of a machine. Rows follow state declaration order, columns event
// declaration order. It is plain data with no link back to any machine.
type TransitionTable struct {
	Name   string
	States []kinds.Kind
	Events []kinds.Kind
	Cells  [][]ActionKind
}

// Edge is one possible transition: in From, an event of kind Event may move
// the machine to To.
type Edge struct {
	From   kinds.Kind
	To     kinds.Kind
	Event  kinds.Kind
	Action ActionKind
}

// Resolve computes the transition table of d from its declarations alone.
// No machine, state instance or event value is created.
func Resolve(d *Definition) TransitionTable {
	cells := kinds.MapJoin(d.states, kinds.Appending[[]ActionKind](), func(state kinds.Kind) [][]ActionKind {
		si, _ := d.states.IndexOf(state)

		row := make([]ActionKind, d.events.Len())
		for ei := range row {
			row[ei] = d.cells[d.slot(si, ei)].kind
		}

		return [][]ActionKind{row}
	})

	return TransitionTable{
		Name:   d.name,
		States: d.states.Slice(),
		Events: d.events.Slice(),
		Cells:  cells,
	}
}

// Cell returns the action kind at row si, column ei.
func (t TransitionTable) Cell(si, ei int) ActionKind {
	return t.Cells[si][ei]
}

// Lookup finds the action kind for a state and an event by kind.
func (t TransitionTable) Lookup(state, event kinds.Kind) (ActionKind, bool) {
	for si, s := range t.States {
		if s != state {
			continue
		}

		for ei, e := range t.Events {
			if e == event {
				return t.Cells[si][ei], true
			}
		}
	}

	return ActionKind{}, false
}

// ActionNames lists the distinct rendered action names, in row-major
// first-seen order.
func (t TransitionTable) ActionNames() []string {
	var names []string

	seen := make(map[string]bool)

	for _, row := range t.Cells {
		for _, kind := range row {
			name := kind.String()
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}

	return names
}

// Edges lists every transition the table allows, row-major.
func (t TransitionTable) Edges() []Edge {
	var edges []Edge

	for si, row := range t.Cells {
		for ei, kind := range row {
			for _, target := range kind.Targets() {
				edges = append(edges, Edge{
					From:   t.States[si],
					To:     target,
					Event:  t.Events[ei],
					Action: kind,
				})
			}
		}
	}

	return edges
}
