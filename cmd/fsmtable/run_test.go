package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/amp-labs/amp-fsm/cli"
	"github.com/amp-labs/amp-fsm/config"
	"github.com/amp-labs/amp-fsm/demo"
	"github.com/amp-labs/amp-fsm/demo/lock"
	"github.com/amp-labs/amp-fsm/fsm"
	"github.com/amp-labs/amp-fsm/scenario"
	"github.com/amp-labs/amp-fsm/table"
	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lockPlain = ` | OpenEvent | CloseEvent | LockEvent | UnlockEvent
ClosedState | transition_to<OpenState> | nothing | transition_to<LockedState> | nothing
OpenState | nothing | transition_to<ClosedState> | nothing | nothing
LockedState | nothing | nothing | nothing | maybe<transition_to<ClosedState>>
`

func defaultConfig(t *testing.T) config.Config {
	t.Helper()

	cfg, err := config.LoadFrom(map[string]string{})
	require.NoError(t, err)

	return cfg
}

// quitter ends every interactive session at once.
type quitter struct{}

func (quitter) Select(string, []string) (int, error) { return 0, promptui.ErrEOF }

func (quitter) Prompt(string, string) (string, error) { return "", promptui.ErrEOF }

func TestRunDefaultPrintsBothTablesAndReplaysLock(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	require.NoError(t, run(t.Context(), defaultConfig(t), options{}, &out, quitter{}))

	lockTable := fsm.Resolve(lock.Definition())
	want := lockPlain + "\n" + table.Pretty(lockTable) +
		"\nreplaying 3 steps on lock\n" +
		"1. ClosedState --LockEvent--> LockedState\n" +
		"2. LockedState --UnlockEvent--> LockedState\n" +
		"3. LockedState --UnlockEvent--> ClosedState\n"

	assert.Equal(t, want, out.String())
}

func TestRunModes(t *testing.T) {
	t.Parallel()

	lockTable := fsm.Resolve(lock.Definition())

	yamlDoc, err := table.MarshalYAML(lockTable)
	require.NoError(t, err)

	jsonDoc, err := table.MarshalJSON(lockTable)
	require.NoError(t, err)

	tests := []struct {
		mode string
		want string
	}{
		{mode: "plain", want: lockPlain},
		{mode: "pretty", want: table.Pretty(lockTable)},
		{mode: "mermaid", want: table.Mermaid(lockTable, table.DefaultMermaidOptions())},
		{mode: "yaml", want: string(yamlDoc)},
		{mode: "json", want: string(jsonDoc)},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer

			err := run(t.Context(), defaultConfig(t), options{mode: tt.mode, noReplay: true}, &out, quitter{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestRunRejectsUnknownModeAndMachine(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	err := run(t.Context(), defaultConfig(t), options{mode: "html"}, &out, quitter{})
	require.ErrorIs(t, err, config.ErrInvalidMode)

	err = run(t.Context(), defaultConfig(t), options{machine: "vending"}, &out, quitter{})
	require.ErrorIs(t, err, demo.ErrUnknownMachine)
	assert.Empty(t, out.String())
}

func TestRunMachineFromConfig(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadFrom(map[string]string{"FSM_MACHINE": "door", "FSM_TABLE_MODE": "plain"})
	require.NoError(t, err)

	var out bytes.Buffer

	require.NoError(t, run(t.Context(), cfg, options{}, &out, quitter{}))

	assert.Equal(t, ` | Open | Close
Closed | transition_to<Open> | nothing
Open | nothing | transition_to<Closed>

replaying 4 steps on door
1. Closed --Close--> Closed
2. Closed --Open--> Open
3. Open --Open--> Open
4. Open --Close--> Closed
`, out.String())
}

func TestRunFingerprint(t *testing.T) {
	t.Parallel()

	sum := table.Fingerprint(lockPlain)

	var out bytes.Buffer

	opts := options{mode: "plain", noReplay: true, check: sum, fingerprint: true}
	require.NoError(t, run(t.Context(), defaultConfig(t), opts, &out, quitter{}))
	assert.Equal(t, lockPlain+sum+"\n", out.String())

	out.Reset()

	opts.check = "0000000000000000"
	err := run(t.Context(), defaultConfig(t), opts, &out, quitter{})
	require.ErrorIs(t, err, table.ErrFingerprintMismatch)
	assert.Empty(t, out.String())
}

func TestRunScriptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "lock.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`machine: lock
steps:
  - event: OpenEvent
  - event: LockEvent
    with: {newKey: 1}
    expect: LockedState
`), 0o600))

	var out bytes.Buffer

	err := run(t.Context(), defaultConfig(t), options{mode: "plain", script: path}, &out, quitter{})
	require.ErrorIs(t, err, scenario.ErrExpectation)
	assert.Contains(t, out.String(), "1. ClosedState --OpenEvent--> OpenState\n")
	assert.Contains(t, out.String(), "2. OpenState --LockEvent--> OpenState\n")
}

func TestRunValidate(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	require.NoError(t, run(t.Context(), defaultConfig(t), options{validate: true}, &out, quitter{}))
	assert.Contains(t, out.String(), "lock is valid\n")

	out.Reset()

	require.NoError(t, run(t.Context(), defaultConfig(t), options{machine: "door", validate: true, strict: true}, &out, quitter{}))
	assert.Equal(t, "door is valid\n", out.String())
}

func TestRunList(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	require.NoError(t, run(t.Context(), defaultConfig(t), options{list: true}, &out, quitter{}))
	assert.Equal(t, "door\nlock\n", out.String())
}

func TestRunInteractive(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	require.NoError(t, run(t.Context(), defaultConfig(t), options{mode: "plain", interactive: true}, &out, quitter{}))
	assert.Equal(t, lockPlain, out.String())
}

var _ cli.Prompter = quitter{}
