package table

import (
	"fmt"
	"strings"

	"github.com/amp-labs/amp-fsm/fsm"
)

// MermaidOptions configures the Mermaid state diagram.
type MermaidOptions struct {
	// Direction is the diagram flow: "TB", "LR", ... Empty keeps Mermaid's default.
	Direction string

	// ShowActions labels choice edges with their action kind, e.g. maybe<...>.
	ShowActions bool

	// Highlight marks one state, typically the current one, with a highlight class.
	Highlight string

	// Fenced wraps the diagram in a ```mermaid code block.
	Fenced bool
}

// DefaultMermaidOptions returns fenced, left-to-right diagrams with action labels.
func DefaultMermaidOptions() MermaidOptions {
	return MermaidOptions{
		Direction:   "LR",
		ShowActions: true,
		Fenced:      true,
	}
}

// WithDirection sets the diagram direction.
func (o MermaidOptions) WithDirection(direction string) MermaidOptions {
	o.Direction = direction

	return o
}

// WithShowActions enables/disables action labels on choice edges.
func (o MermaidOptions) WithShowActions(show bool) MermaidOptions {
	o.ShowActions = show

	return o
}

// WithHighlight sets the state to highlight.
func (o MermaidOptions) WithHighlight(state string) MermaidOptions {
	o.Highlight = state

	return o
}

// WithFenced enables/disables the code fence.
func (o MermaidOptions) WithFenced(fenced bool) MermaidOptions {
	o.Fenced = fenced

	return o
}

// Mermaid draws every transition t allows as a Mermaid state diagram. The
// first state is marked initial. Pairs resolving to nothing draw no edge.
func Mermaid(t fsm.TransitionTable, opts MermaidOptions) string {
	var sb strings.Builder

	if opts.Fenced {
		sb.WriteString("```mermaid\n")
	}

	sb.WriteString("stateDiagram-v2\n")

	if opts.Direction != "" {
		sb.WriteString(fmt.Sprintf("    direction %s\n", opts.Direction))
	}

	if len(t.States) > 0 {
		sb.WriteString(fmt.Sprintf("    [*] --> %s\n", t.States[0].Name()))
	}

	for _, edge := range t.Edges() {
		label := edge.Event.Name()
		if opts.ShowActions && edge.Action.IsChoice() {
			label += " / " + edge.Action.String()
		}

		sb.WriteString(fmt.Sprintf("    %s --> %s: %s\n", edge.From.Name(), edge.To.Name(), escapeLabel(label)))
	}

	if opts.Highlight != "" {
		sb.WriteString("    classDef highlight fill:#ff9,stroke:#333,stroke-width:2px\n")
		sb.WriteString(fmt.Sprintf("    class %s highlight\n", opts.Highlight))
	}

	if opts.Fenced {
		sb.WriteString("```\n")
	}

	return sb.String()
}

// escapeLabel keeps angle brackets from being read as markup.
func escapeLabel(label string) string {
	return strings.NewReplacer("<", "#lt;", ">", "#gt;").Replace(label)
}
