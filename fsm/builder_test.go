package fsm_test

import (
	"errors"
	"testing"

	"github.com/amp-labs/amp-fsm/fsm"
	"github.com/amp-labs/amp-fsm/kinds"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ping struct{}

type pong struct{}

type stray struct{}

type labeled struct{}

func (labeled) KindName() string { return "Labeled" }

func TestBuildRejectsBadDeclarations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		declare func(b *fsm.Builder)
		wantErr error
	}{
		{
			name:    "no states",
			declare: func(b *fsm.Builder) { fsm.AddEvent[ping](b) },
			wantErr: fsm.ErrNoStates,
		},
		{
			name:    "no events",
			declare: func(b *fsm.Builder) { fsm.AddState[red](b) },
			wantErr: fsm.ErrNoEvents,
		},
		{
			name: "duplicate state",
			declare: func(b *fsm.Builder) {
				fsm.AddEvent[ping](b)
				fsm.AddState[red](b)
				fsm.AddState[red](b)
			},
			wantErr: kinds.ErrDuplicate,
		},
		{
			name: "duplicate event",
			declare: func(b *fsm.Builder) {
				b.Events(kinds.Of[ping](), kinds.Of[ping]())
				fsm.AddState[red](b)
			},
			wantErr: kinds.ErrDuplicate,
		},
		{
			name: "conflicting handlers",
			declare: func(b *fsm.Builder) {
				fsm.AddEvent[ping](b)
				fsm.AddState[red](b,
					fsm.On[ping](fsm.Nothing()),
					fsm.On[ping](fsm.TransitionTo[red]()),
				)
			},
			wantErr: fsm.ErrConflictingHandler,
		},
		{
			name: "conflicting defaults",
			declare: func(b *fsm.Builder) {
				fsm.AddEvent[ping](b)
				fsm.AddState[red](b,
					fsm.ByDefault(fsm.Nothing()),
					fsm.ByDefault(fsm.Nothing()),
				)
			},
			wantErr: fsm.ErrConflictingDefault,
		},
		{
			name: "duplicate enter hook",
			declare: func(b *fsm.Builder) {
				fsm.AddEvent[ping](b)
				fsm.AddState[red](b,
					fsm.OnEnter(func(*red, ping) {}),
					fsm.OnEnter(func(*red, ping) {}),
				)
			},
			wantErr: fsm.ErrDuplicateHook,
		},
		{
			name: "handler for undeclared event",
			declare: func(b *fsm.Builder) {
				fsm.AddEvent[ping](b)
				fsm.AddState[red](b, fsm.On[stray](fsm.Nothing()))
			},
			wantErr: fsm.ErrUndeclaredEvent,
		},
		{
			name: "hook for undeclared event",
			declare: func(b *fsm.Builder) {
				fsm.AddEvent[ping](b)
				fsm.AddState[red](b, fsm.OnLeave(func(*red, stray) {}))
			},
			wantErr: fsm.ErrUndeclaredEvent,
		},
		{
			name: "transition to undeclared state",
			declare: func(b *fsm.Builder) {
				fsm.AddEvent[ping](b)
				fsm.AddState[red](b, fsm.On[ping](fsm.TransitionTo[green]()))
			},
			wantErr: fsm.ErrUndeclaredState,
		},
		{
			name: "default to undeclared state",
			declare: func(b *fsm.Builder) {
				fsm.AddEvent[ping](b)
				fsm.AddState[red](b, fsm.ByDefault(fsm.Maybe(fsm.TransitionTo[green](), true)))
			},
			wantErr: fsm.ErrUndeclaredState,
		},
		{
			name: "declaration typed for another state",
			declare: func(b *fsm.Builder) {
				fsm.AddEvent[ping](b)
				fsm.AddState[green](b)
				fsm.AddState[red](b, fsm.OnEnter(func(*green, ping) {}))
			},
			wantErr: fsm.ErrStateMismatch,
		},
		{
			name: "pointer event kind",
			declare: func(b *fsm.Builder) {
				b.Events(kinds.Of[*ping]())
				fsm.AddState[red](b)
			},
			wantErr: fsm.ErrPointerKind,
		},
		{
			name: "pointer state kind",
			declare: func(b *fsm.Builder) {
				fsm.AddEvent[ping](b)
				fsm.AddState[*red](b)
			},
			wantErr: fsm.ErrPointerKind,
		},
		{
			name: "handler for pointer event",
			declare: func(b *fsm.Builder) {
				fsm.AddEvent[ping](b)
				fsm.AddState[red](b, fsm.On[*ping](fsm.TransitionTo[red]()))
			},
			wantErr: fsm.ErrPointerKind,
		},
		{
			name: "hook for pointer event",
			declare: func(b *fsm.Builder) {
				fsm.AddEvent[ping](b)
				fsm.AddState[red](b, fsm.OnEnter(func(*red, *ping) {}))
			},
			wantErr: fsm.ErrPointerKind,
		},
		{
			name: "handler typed for pointer state",
			declare: func(b *fsm.Builder) {
				fsm.AddEvent[ping](b)
				fsm.AddState[red](b, fsm.HandleFunc[*red, ping](fsm.NothingKind(), func(**red, ping) fsm.Action {
					return fsm.Nothing()
				}))
			},
			wantErr: fsm.ErrPointerKind,
		},
		{
			name: "pointer kind with a value-receiver name",
			declare: func(b *fsm.Builder) {
				b.Events(kinds.Of[*labeled]())
				fsm.AddState[red](b)
			},
			wantErr: fsm.ErrPointerKind,
		},
		{
			name: "kind without a type",
			declare: func(b *fsm.Builder) {
				b.Events(kinds.Kind{})
				fsm.AddState[red](b)
			},
			wantErr: fsm.ErrInvalidDeclaration,
		},
		{
			name: "empty one_of",
			declare: func(b *fsm.Builder) {
				fsm.AddEvent[ping](b)
				fsm.AddState[red](b, fsm.HandleFunc[red, ping](fsm.OneOfKind(), func(*red, ping) fsm.Action {
					return fsm.Nothing()
				}))
			},
			wantErr: fsm.ErrInvalidDeclaration,
		},
		{
			name: "maybe of empty one_of",
			declare: func(b *fsm.Builder) {
				fsm.AddEvent[ping](b)
				fsm.AddState[red](b, fsm.HandleFunc[red, ping](fsm.MaybeKind(fsm.OneOfKind()), func(*red, ping) fsm.Action {
					return fsm.Nothing()
				}))
			},
			wantErr: fsm.ErrInvalidDeclaration,
		},
		{
			name: "nil handler function",
			declare: func(b *fsm.Builder) {
				fsm.AddEvent[ping](b)
				fsm.AddState[red](b, fsm.HandleFunc[red, ping](fsm.NothingKind(), nil))
			},
			wantErr: fsm.ErrInvalidDeclaration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := fsm.NewBuilder("broken")
			tt.declare(b)

			def, err := b.Build()
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, def)
		})
	}
}

func TestBuildReportsEveryProblem(t *testing.T) {
	t.Parallel()

	b := fsm.NewBuilder("broken").Events(kinds.Of[ping]())
	fsm.AddState[red](b,
		fsm.On[ping](fsm.Nothing()),
		fsm.On[ping](fsm.Nothing()),
	)
	fsm.AddState[green](b, fsm.On[stray](fsm.Nothing()))

	_, err := b.Build()
	require.ErrorIs(t, err, fsm.ErrConflictingHandler)
	require.ErrorIs(t, err, fsm.ErrUndeclaredEvent)

	var declErr *fsm.DeclarationError
	require.ErrorAs(t, err, &declErr)
	assert.Equal(t, "red", declErr.State)
	assert.Equal(t, "ping", declErr.Event)
}

func TestBuildFillsDefaults(t *testing.T) {
	t.Parallel()

	b := fsm.NewBuilder("defaults").Events(kinds.Of[ping](), kinds.Of[pong]())
	fsm.AddState[red](b, fsm.On[ping](fsm.TransitionTo[green]()))
	fsm.AddState[green](b, fsm.ByDefault(fsm.TransitionTo[red]()))

	def, err := b.Build()
	require.NoError(t, err)

	tests := []struct {
		state    kinds.Kind
		event    kinds.Kind
		expected string
		explicit bool
	}{
		{kinds.Of[red](), kinds.Of[ping](), "transition_to<green>", true},
		{kinds.Of[red](), kinds.Of[pong](), "nothing", false},
		{kinds.Of[green](), kinds.Of[ping](), "transition_to<red>", false},
		{kinds.Of[green](), kinds.Of[pong](), "transition_to<red>", false},
	}

	for _, tt := range tests {
		kind, ok := def.Lookup(tt.state, tt.event)
		require.True(t, ok)
		assert.Equal(t, tt.expected, kind.String(), "%s/%s", tt.state, tt.event)
		assert.Equal(t, tt.explicit, def.Handles(tt.state, tt.event), "%s/%s", tt.state, tt.event)
	}

	_, ok := def.Lookup(kinds.Of[amber](), kinds.Of[ping]())
	assert.False(t, ok)

	assert.Equal(t, "defaults", def.Name())
	assert.Equal(t, kinds.Of[red](), def.Initial())

	kind, ok := def.EventKind("pong")
	assert.True(t, ok)
	assert.Equal(t, kinds.Of[pong](), kind)

	kind, ok = def.StateKind("green")
	assert.True(t, ok)
	assert.Equal(t, kinds.Of[green](), kind)

	_, ok = def.StateKind("amber")
	assert.False(t, ok)
}

func TestDeclarationErrorMessage(t *testing.T) {
	t.Parallel()

	err := &fsm.DeclarationError{State: "red", Err: fsm.ErrConflictingDefault}
	assert.Equal(t, "state red: conflicting default actions", err.Error())
	assert.True(t, errors.Is(err, fsm.ErrConflictingDefault))

	err = &fsm.DeclarationError{State: "red", Event: "ping", Err: fsm.ErrConflictingHandler}
	assert.Equal(t, "state red, event ping: conflicting handlers for event", err.Error())
}
