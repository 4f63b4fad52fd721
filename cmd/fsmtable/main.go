// Command fsmtable prints the transition table of a demo machine and replays
// a scenario against it.
//
// Usage:
//
//	fsmtable [-machine lock] [-mode both] [-script file.yaml] [-no-replay]
//	fsmtable -interactive
//	fsmtable -mode plain -check <fingerprint>
//	fsmtable -validate [-strict]
//	fsmtable -list
//
// FSM_MACHINE and FSM_TABLE_MODE provide the defaults for -machine and -mode.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/amp-labs/amp-fsm/cli"
	"github.com/amp-labs/amp-fsm/config"
	"github.com/amp-labs/amp-fsm/script"
)

//nolint:gochecknoglobals
var (
	machineFlag     = flag.String("machine", "", "machine to use (default $FSM_MACHINE)")
	modeFlag        = flag.String("mode", "", "table format: plain, pretty, both, mermaid, yaml or json (default $FSM_TABLE_MODE)")
	scriptFlag      = flag.String("script", "", "YAML scenario to replay instead of the built-in one")
	noReplayFlag    = flag.Bool("no-replay", false, "print the table only")
	interactiveFlag = flag.Bool("interactive", false, "pick events from a menu after printing the table")
	checkFlag       = flag.String("check", "", "fail unless the rendered table has this fingerprint")
	fingerprintFlag = flag.Bool("fingerprint", false, "print the rendered table's fingerprint")
	listFlag        = flag.Bool("list", false, "list the known machines and exit")
	validateFlag    = flag.Bool("validate", false, "check the machine for structural problems and exit")
	strictFlag      = flag.Bool("strict", false, "with -validate, treat warnings as errors")
)

func main() {
	script.New("fsmtable").Run(func(ctx context.Context, cfg config.Config) error {
		opts := options{
			machine:     *machineFlag,
			mode:        *modeFlag,
			script:      *scriptFlag,
			noReplay:    *noReplayFlag,
			interactive: *interactiveFlag,
			check:       *checkFlag,
			fingerprint: *fingerprintFlag,
			list:        *listFlag,
			validate:    *validateFlag,
			strict:      *strictFlag,
		}

		return run(ctx, cfg, opts, os.Stdout, cli.Terminal{Stdin: os.Stdin, Stdout: os.Stdout})
	})
}
