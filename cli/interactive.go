// Package cli drives a machine interactively from a terminal.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/amp-labs/amp-fsm/fsm"
	"github.com/amp-labs/amp-fsm/kinds"
	"github.com/amp-labs/amp-fsm/scenario"
	"github.com/manifoldco/promptui"
	"gopkg.in/yaml.v3"
)

// Quit is the menu entry ending an interactive session.
const Quit = "[Quit]"

// Prompter asks the user questions.
type Prompter interface {
	// Select returns the index of the chosen item.
	Select(label string, items []string) (int, error)
	// Prompt reads one line of text, offering def as the default.
	Prompt(label, def string) (string, error)
}

// Terminal is a Prompter backed by promptui.
type Terminal struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

func (t Terminal) Select(label string, items []string) (int, error) {
	sel := &promptui.Select{
		Label:  label,
		Items:  items,
		Size:   len(items),
		Stdin:  t.Stdin,
		Stdout: t.Stdout,
		Searcher: func(input string, index int) bool {
			return strings.HasPrefix(strings.ToLower(items[index]), strings.ToLower(input))
		},
	}

	idx, _, err := sel.Run()

	return idx, err
}

func (t Terminal) Prompt(label, def string) (string, error) {
	prompt := promptui.Prompt{
		Label:     label,
		Default:   def,
		AllowEdit: true,
		Validate: func(s string) error {
			var node yaml.Node

			return yaml.Unmarshal([]byte(s), &node)
		},
		Stdin:  t.Stdin,
		Stdout: t.Stdout,
	}

	return prompt.Run()
}

// Interactive lets the user pick events for m until they quit or ctx ends.
// Every step is reported on out.
func Interactive(ctx context.Context, m *fsm.Machine, p Prompter, out io.Writer) error {
	def := m.Definition()

	items := make([]string, 0, def.Events().Len()+1)
	for event := range def.Events().Values() {
		items = append(items, event.Name())
	}

	items = append(items, Quit)

	for ctx.Err() == nil {
		idx, err := p.Select(fmt.Sprintf("%s is in %s, send", def.Name(), m.CurrentKind().Name()), items)
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return nil
			}

			return err
		}

		if items[idx] == Quit {
			return nil
		}

		event, err := readEvent(p, def, def.Events().At(idx))
		if err != nil {
			fmt.Fprintf(out, "! %v\n", err)

			continue
		}

		from := m.CurrentKind().Name()

		if err := m.Handle(ctx, event); err != nil {
			return err
		}

		fmt.Fprintf(out, "%s --%s--> %s\n", from, def.Events().At(idx).Name(), m.CurrentKind().Name())
	}

	return ctx.Err()
}

// readEvent builds an event of kind, asking for its fields as inline YAML
// when it has any.
func readEvent(p Prompter, def *fsm.Definition, kind kinds.Kind) (any, error) {
	if kind.Type().Kind() != reflect.Struct || kind.Type().NumField() == 0 {
		return scenario.DecodeEvent(def, kind.Name(), nil)
	}

	template, err := yaml.Marshal(reflect.Zero(kind.Type()).Interface())
	if err != nil {
		return nil, fmt.Errorf("failed to describe %s: %w", kind.Name(), err)
	}

	flow := strings.TrimSpace(strings.ReplaceAll(strings.TrimSpace(string(template)), "\n", ", "))

	answer, err := p.Prompt(kind.Name(), "{"+flow+"}")
	if err != nil {
		return nil, err
	}

	var node yaml.Node
	if err := yaml.Unmarshal([]byte(answer), &node); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", kind.Name(), err)
	}

	if len(node.Content) == 0 {
		return scenario.DecodeEvent(def, kind.Name(), nil)
	}

	return scenario.DecodeEvent(def, kind.Name(), node.Content[0])
}
