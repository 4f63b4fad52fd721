// Package table renders resolved transition tables as text: the plain and
// pretty grids, Mermaid diagrams, and structured YAML/JSON exports.
package table

import (
	"strings"

	"github.com/amp-labs/amp-fsm/fsm"
	"github.com/amp-labs/amp-fsm/kinds"
)

// Separator sits between the cells of a row.
const Separator = " | "

// Mode selects how cells are laid out.
type Mode string

const (
	// ModePlain writes every cell as is.
	ModePlain Mode = "plain"
	// ModePretty pads every cell to the widest name in the table.
	ModePretty Mode = "pretty"
)

// Options configures Render.
type Options struct {
	Mode Mode
}

// DefaultOptions renders plain tables.
func DefaultOptions() Options {
	return Options{Mode: ModePlain}
}

// WithMode sets the layout mode.
func (o Options) WithMode(mode Mode) Options {
	o.Mode = mode

	return o
}

// Plain renders t with unpadded cells: a header row of event names after an
// empty corner cell, then one row per state.
func Plain(t fsm.TransitionTable) string {
	return render(t, func(s string) string { return s })
}

// Pretty renders t with every cell, the empty corner included, right-padded
// with spaces to the widest state, event or action name in the table.
func Pretty(t fsm.TransitionTable) string {
	width := MaxWidth(t)

	return render(t, func(s string) string { return Pad(s, width) })
}

// Render renders t in the mode opts selects. Unknown modes render plain.
func Render(t fsm.TransitionTable, opts Options) string {
	if opts.Mode == ModePretty {
		return Pretty(t)
	}

	return Plain(t)
}

// MaxWidth is the printable width of the widest state, event or resolved
// action name of t.
func MaxWidth(t fsm.TransitionTable) int {
	names := make([]string, 0, len(t.States)+len(t.Events))
	names = append(names, kindNames(t.States)...)
	names = append(names, kindNames(t.Events)...)
	names = append(names, t.ActionNames()...)

	return kinds.MapJoin(distinct(names), kinds.Maximum(), Width)
}

func kindNames(ks []kinds.Kind) []string {
	out := make([]string, len(ks))
	for i, k := range ks {
		out[i] = k.Name()
	}

	return out
}

func distinct(names []string) kinds.Set[string] {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))

	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}

	return kinds.MustSet(out...)
}

func render(t fsm.TransitionTable, cell func(string) string) string {
	var sb strings.Builder

	row := func(first string, rest []string) {
		sb.WriteString(cell(first))

		for _, name := range rest {
			sb.WriteString(Separator)
			sb.WriteString(cell(name))
		}

		sb.WriteString("\n")
	}

	row("", kindNames(t.Events))

	for si, state := range t.States {
		actions := make([]string, len(t.Events))
		for ei := range t.Events {
			actions[ei] = t.Cell(si, ei).String()
		}

		row(state.Name(), actions)
	}

	return sb.String()
}
