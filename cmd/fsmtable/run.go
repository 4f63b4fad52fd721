package main

import (
	"cmp"
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/amp-labs/amp-fsm/cli"
	"github.com/amp-labs/amp-fsm/config"
	"github.com/amp-labs/amp-fsm/demo"
	"github.com/amp-labs/amp-fsm/fsm"
	"github.com/amp-labs/amp-fsm/logger"
	"github.com/amp-labs/amp-fsm/scenario"
	"github.com/amp-labs/amp-fsm/table"
	"github.com/amp-labs/amp-fsm/validator"
)

//go:embed scenarios/*.yaml
var scenarios embed.FS

type options struct {
	machine     string
	mode        string
	script      string
	noReplay    bool
	interactive bool
	check       string
	fingerprint bool
	list        bool
	validate    bool
	strict      bool
}

func run(ctx context.Context, cfg config.Config, opts options, out io.Writer, prompter cli.Prompter) error {
	if opts.list {
		for _, name := range demo.Names() {
			fmt.Fprintln(out, name)
		}

		return nil
	}

	mode := cmp.Or(opts.mode, cfg.Tool.Mode)
	if err := config.ValidateMode(mode); err != nil {
		return err
	}

	def, err := demo.Lookup(cmp.Or(opts.machine, cfg.Tool.Machine))
	if err != nil {
		return err
	}

	ctx = logger.With(ctx, "machine", def.Name())

	if opts.validate {
		return validate(ctx, def, opts.strict, out)
	}

	text, err := render(fsm.Resolve(def), mode)
	if err != nil {
		return err
	}

	if opts.check != "" {
		if err := table.Verify(text, opts.check); err != nil {
			return err
		}

		logger.Get(ctx).Info("Table fingerprint verified", "fingerprint", opts.check)
	}

	fmt.Fprint(out, text)

	if opts.fingerprint {
		fmt.Fprintln(out, table.Fingerprint(text))
	}

	switch {
	case opts.interactive:
		m, err := def.New()
		if err != nil {
			return err
		}

		return cli.Interactive(ctx, m, prompter, out)
	case opts.noReplay:
		return nil
	default:
		return replay(ctx, def, opts.script, out)
	}
}

func render(t fsm.TransitionTable, mode string) (string, error) {
	switch mode {
	case "plain":
		return table.Plain(t), nil
	case "pretty":
		return table.Pretty(t), nil
	case "mermaid":
		return table.Mermaid(t, table.DefaultMermaidOptions()), nil
	case "yaml":
		data, err := table.MarshalYAML(t)

		return string(data), err
	case "json":
		data, err := table.MarshalJSON(t)

		return string(data), err
	default:
		return table.Plain(t) + "\n" + table.Pretty(t), nil
	}
}

func validate(ctx context.Context, def *fsm.Definition, strict bool, out io.Writer) error {
	result := validator.Validate(def)
	if strict {
		result = validator.ValidateStrict(def)
	}

	for _, issue := range result.Errors {
		fmt.Fprintf(out, "error: %s\n", issue)
	}

	for _, issue := range result.Warnings {
		fmt.Fprintf(out, "warning: %s\n", issue)
	}

	if result.Valid {
		fmt.Fprintf(out, "%s is valid\n", def.Name())
	}

	logger.Get(ctx).Debug("Validation finished",
		"errors", len(result.Errors), "warnings", len(result.Warnings))

	return result.Err()
}

// replay runs the scenario at path, or the built-in one for def when path is
// empty. Machines without a built-in scenario are left alone.
func replay(ctx context.Context, def *fsm.Definition, path string, out io.Writer) error {
	s, err := loadScenario(def, path)
	if err != nil || s == nil {
		return err
	}

	m, err := def.New()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nreplaying %d steps on %s\n", len(s.Steps), def.Name())

	results, err := s.Run(ctx, m)
	for _, result := range results {
		fmt.Fprintf(out, "%d. %s --%s--> %s\n", result.Step, result.From, result.Event, result.To)
	}

	return err
}

func loadScenario(def *fsm.Definition, path string) (*scenario.Scenario, error) {
	if path != "" {
		return scenario.LoadFile(path)
	}

	f, err := scenarios.Open("scenarios/" + def.Name() + ".yaml")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil //nolint:nilnil
	}

	if err != nil {
		return nil, err
	}

	defer f.Close() //nolint:errcheck

	return scenario.Load(f)
}
