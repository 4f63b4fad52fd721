package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/amp-labs/amp-fsm/demo/lock"
	"github.com/amp-labs/amp-fsm/fsm"
	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTTY = errors.New("no tty")

// scripted answers prompts from fixed lists.
type scripted struct {
	picks   []string
	answers []string
	labels  []string
	hints   []string
}

func (s *scripted) Select(label string, items []string) (int, error) {
	s.labels = append(s.labels, label)

	if len(s.picks) == 0 {
		return 0, promptui.ErrEOF
	}

	pick := s.picks[0]
	s.picks = s.picks[1:]

	for i, item := range items {
		if item == pick {
			return i, nil
		}
	}

	return 0, errTTY
}

func (s *scripted) Prompt(_ string, def string) (string, error) {
	s.hints = append(s.hints, def)

	answer := s.answers[0]
	s.answers = s.answers[1:]

	return answer, nil
}

func TestInteractiveLock(t *testing.T) {
	t.Parallel()

	m, err := lock.New(0, fsm.WithLogger(fsm.NopLogger()))
	require.NoError(t, err)

	p := &scripted{
		picks:   []string{"LockEvent", "UnlockEvent", "UnlockEvent", "UnlockEvent", Quit},
		answers: []string{"{newKey: 42}", "{key: 1}", "not: [valid", "{key: 42}"},
	}

	var out bytes.Buffer

	require.NoError(t, Interactive(t.Context(), m, p, &out))

	assert.True(t, fsm.Is[lock.ClosedState](m))
	assert.Equal(t, "lock is in ClosedState, send", p.labels[0])
	assert.Equal(t, "{newKey: 0}", p.hints[0])
	assert.Equal(t, "{key: 0}", p.hints[1])
	assert.Contains(t, out.String(), "ClosedState --LockEvent--> LockedState\n")
	assert.Contains(t, out.String(), "LockedState --UnlockEvent--> LockedState\n")
	assert.Contains(t, out.String(), "! invalid UnlockEvent")
	assert.Contains(t, out.String(), "LockedState --UnlockEvent--> ClosedState\n")
}

func TestInteractiveFieldlessEvents(t *testing.T) {
	t.Parallel()

	m, err := lock.New(0, fsm.WithLogger(fsm.NopLogger()))
	require.NoError(t, err)

	p := &scripted{picks: []string{"OpenEvent"}}

	var out bytes.Buffer

	require.NoError(t, Interactive(t.Context(), m, p, &out))
	assert.True(t, fsm.Is[lock.OpenState](m))
	assert.Empty(t, p.hints)
	assert.Equal(t, "ClosedState --OpenEvent--> OpenState\n", out.String())
}

func TestInteractivePropagatesPromptErrors(t *testing.T) {
	t.Parallel()

	m, err := lock.New(0, fsm.WithLogger(fsm.NopLogger()))
	require.NoError(t, err)

	err = Interactive(t.Context(), m, &scripted{picks: []string{"Missing"}}, &bytes.Buffer{})
	require.ErrorIs(t, err, errTTY)
}
