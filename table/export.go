package table

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/amp-labs/amp-fsm/fsm"
	"gopkg.in/yaml.v3"
)

// Document is the structured form of a transition table.
type Document struct {
	Machine string   `json:"machine" yaml:"machine"`
	States  []string `json:"states"  yaml:"states"`
	Events  []string `json:"events"  yaml:"events"`
	Rows    []Row    `json:"rows"    yaml:"rows"`
}

// Row is one state's resolved actions, in event order.
type Row struct {
	State string `json:"state" yaml:"state"`
	Cells []Cell `json:"cells" yaml:"cells"`
}

// Cell is the resolved action for one event.
type Cell struct {
	Event  string `json:"event"  yaml:"event"`
	Action string `json:"action" yaml:"action"`
}

// NewDocument converts t to its structured form.
func NewDocument(t fsm.TransitionTable) Document {
	doc := Document{
		Machine: t.Name,
		States:  kindNames(t.States),
		Events:  kindNames(t.Events),
		Rows:    make([]Row, len(t.States)),
	}

	for si, state := range t.States {
		row := Row{State: state.Name(), Cells: make([]Cell, len(t.Events))}
		for ei, event := range t.Events {
			row.Cells[ei] = Cell{Event: event.Name(), Action: t.Cell(si, ei).String()}
		}

		doc.Rows[si] = row
	}

	return doc
}

// MarshalYAML encodes t as YAML.
func MarshalYAML(t fsm.TransitionTable) ([]byte, error) {
	out, err := yaml.Marshal(NewDocument(t))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal table %s: %w", t.Name, err)
	}

	return out, nil
}

// MarshalJSON encodes t as indented JSON. Angle brackets in action names
// are written as is.
func MarshalJSON(t fsm.TransitionTable) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(NewDocument(t)); err != nil {
		return nil, fmt.Errorf("failed to marshal table %s: %w", t.Name, err)
	}

	return buf.Bytes(), nil
}
