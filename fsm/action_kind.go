package fsm

import (
	"strings"

	"github.com/amp-labs/amp-fsm/kinds"
)

type op uint8

const (
	opNothing op = iota
	opTransition
	opOneOf
	opMaybe
)

// ActionKind is the structural description of an action: what a handler
// may do, known without running it. The zero value is the nothing kind.
type ActionKind struct {
	op     op
	target kinds.Kind
	alts   []ActionKind
}

// NothingKind describes an action with no effect.
func NothingKind() ActionKind {
	return ActionKind{op: opNothing}
}

// TransitionKind describes a move to the state of kind target.
func TransitionKind(target kinds.Kind) ActionKind {
	return ActionKind{op: opTransition, target: target}
}

// OneOfKind describes a runtime choice among the listed alternatives.
func OneOfKind(alts ...ActionKind) ActionKind {
	return ActionKind{op: opOneOf, alts: append([]ActionKind(nil), alts...)}
}

// MaybeKind is one_of<inner, nothing>, kept distinct so it renders as maybe<inner>.
func MaybeKind(inner ActionKind) ActionKind {
	return ActionKind{op: opMaybe, alts: []ActionKind{inner}}
}

// IsNothing reports whether k is the nothing kind.
func (k ActionKind) IsNothing() bool { return k.op == opNothing }

// IsTransition reports whether k is transition_to<T>.
func (k ActionKind) IsTransition() bool { return k.op == opTransition }

// IsChoice reports whether k is one_of or maybe.
func (k ActionKind) IsChoice() bool { return k.op == opOneOf || k.op == opMaybe }

// Target is the destination of a transition kind, zero for other kinds.
func (k ActionKind) Target() kinds.Kind {
	return k.target
}

// Alternatives lists the kinds a choice may resolve to. maybe<A> yields A
// followed by nothing; non-choice kinds yield nil.
func (k ActionKind) Alternatives() []ActionKind {
	switch k.op {
	case opOneOf:
		return append([]ActionKind(nil), k.alts...)
	case opMaybe:
		return []ActionKind{k.alts[0], NothingKind()}
	case opNothing, opTransition:
	}

	return nil
}

// satisfiable reports whether every choice inside k offers at least one
// alternative.
func (k ActionKind) satisfiable() bool {
	if k.op == opOneOf && len(k.alts) == 0 {
		return false
	}

	for _, alt := range k.alts {
		if !alt.satisfiable() {
			return false
		}
	}

	return true
}

// Equal is structural equality.
func (k ActionKind) Equal(other ActionKind) bool {
	if k.op != other.op || k.target != other.target || len(k.alts) != len(other.alts) {
		return false
	}

	for i := range k.alts {
		if !k.alts[i].Equal(other.alts[i]) {
			return false
		}
	}

	return true
}

// Admits reports whether an action of kind chosen is a legal value for a
// handler declared with kind k: either the same kind, or something one of
// k's alternatives admits.
func (k ActionKind) Admits(chosen ActionKind) bool {
	if k.Equal(chosen) {
		return true
	}

	for _, alt := range k.Alternatives() {
		if alt.Admits(chosen) {
			return true
		}
	}

	return false
}

// Targets lists every state kind k can transition to, without duplicates,
// in first-seen order.
func (k ActionKind) Targets() []kinds.Kind {
	var out []kinds.Kind

	seen := make(map[kinds.Kind]bool)

	var walk func(ActionKind)

	walk = func(kind ActionKind) {
		if kind.op == opTransition && !seen[kind.target] {
			seen[kind.target] = true
			out = append(out, kind.target)
		}

		for _, alt := range kind.alts {
			walk(alt)
		}
	}

	walk(k)

	return out
}

// String renders the kind the way transition tables print it:
// nothing, transition_to<T>, one_of<A, B>, maybe<A>.
func (k ActionKind) String() string {
	var sb strings.Builder

	k.write(&sb)

	return sb.String()
}

func (k ActionKind) write(sb *strings.Builder) {
	switch k.op {
	case opNothing:
		sb.WriteString("nothing")
	case opTransition:
		sb.WriteString("transition_to<")
		sb.WriteString(k.target.Name())
		sb.WriteString(">")
	case opMaybe:
		sb.WriteString("maybe<")
		k.alts[0].write(sb)
		sb.WriteString(">")
	case opOneOf:
		sb.WriteString("one_of<")

		for i, alt := range k.alts {
			if i > 0 {
				sb.WriteString(", ")
			}

			alt.write(sb)
		}

		sb.WriteString(">")
	}
}
