// Package demo collects the example machines shipped with the tools.
package demo

import (
	"errors"
	"fmt"

	"facette.io/natsort"
	"github.com/amp-labs/amp-fsm/demo/door"
	"github.com/amp-labs/amp-fsm/demo/lock"
	"github.com/amp-labs/amp-fsm/fsm"
)

// ErrUnknownMachine is returned for names outside the catalog.
var ErrUnknownMachine = errors.New("unknown machine")

// Catalog maps machine names to their definitions.
func Catalog() map[string]func() *fsm.Definition {
	return map[string]func() *fsm.Definition{
		lock.Name: lock.Definition,
		door.Name: door.Definition,
	}
}

// Names lists the catalog in natural order.
func Names() []string {
	catalog := Catalog()

	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}

	natsort.Sort(names)

	return names
}

// Lookup returns the definition named name.
func Lookup(name string) (*fsm.Definition, error) {
	def, ok := Catalog()[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownMachine, name, Names())
	}

	return def(), nil
}
