package kinds

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type alpha struct{}

type beta struct{ n int }

type renamed struct{}

func (renamed) KindName() string { return "Custom" }

func TestKindNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		kind     Kind
		expected string
	}{
		{"plain struct", Of[alpha](), "alpha"},
		{"namer", Of[renamed](), "Custom"},
		{"builtin", Of[int](), "int"},
		{"unnamed", Of[[]string](), "[]string"},
		{"zero", Kind{}, ""},
		{"pointer", Of[*alpha](), "*alpha"},
		{"pointer to namer", Of[*renamed](), "*Custom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, tt.kind.Name())
			assert.Equal(t, tt.expected, tt.kind.String())
		})
	}
}

func TestOfValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Of[beta](), OfValue(beta{n: 1}))
	assert.Equal(t, Of[beta](), OfValue(&beta{n: 1}))
	assert.True(t, OfValue(nil).IsZero())
	assert.NotEqual(t, Of[alpha](), Of[beta]())
}

func TestKindNew(t *testing.T) {
	t.Parallel()

	v := Of[beta]().New()

	ptr, ok := v.(*beta)
	require.True(t, ok)
	assert.Equal(t, 0, ptr.n)
}

func TestNewSetRejectsDuplicates(t *testing.T) {
	t.Parallel()

	_, err := NewSet(Of[alpha](), Of[beta](), Of[alpha]())
	require.ErrorIs(t, err, ErrDuplicate)

	set, err := NewSet(Of[alpha](), Of[beta]())
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, Of[beta](), set.At(1))
}

func TestMustSetPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { MustSet(1, 1) })
	assert.NotPanics(t, func() { MustSet(1, 2) })
}

func TestSetLookups(t *testing.T) {
	t.Parallel()

	set := MustSet("c", "a", "b")

	idx, ok := set.IndexOf("a")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = set.IndexOf("z")
	assert.False(t, ok)
	assert.True(t, set.Contains("b"))
	assert.False(t, set.Contains("z"))
	assert.Equal(t, []string{"c", "a", "b"}, set.Slice())

	var seen []string
	for i, v := range set.All() {
		seen = append(seen, strings.Repeat(v, i+1))
	}

	assert.Equal(t, []string{"c", "aa", "bbb"}, seen)
}

func TestZeroSet(t *testing.T) {
	t.Parallel()

	var set Set[int]

	assert.Equal(t, 0, set.Len())
	assert.False(t, set.Contains(1))
	assert.Empty(t, set.Slice())
}

func TestConcat(t *testing.T) {
	t.Parallel()

	joined, err := Concat(MustSet(1, 2), MustSet(3))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, joined.Slice())

	_, err = Concat(MustSet(1, 2), MustSet(2, 3))
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestCross(t *testing.T) {
	t.Parallel()

	product := Cross(MustSet("s1", "s2"), MustSet(1, 2, 3))
	require.Equal(t, 6, product.Len())

	first := product.At(0)
	assert.Equal(t, "s1", first.First())
	assert.Equal(t, 1, first.Second())

	fourth := product.At(3)
	assert.Equal(t, "s2", fourth.First())
	assert.Equal(t, 1, fourth.Second())

	idx, ok := product.IndexOf(NewPair("s2", 3))
	assert.True(t, ok)
	assert.Equal(t, 5, idx)

	assert.Equal(t, 0, Cross(MustSet[string](), MustSet(1)).Len())
}

func TestMapJoin(t *testing.T) {
	t.Parallel()

	words := MustSet("ab", "c", "defg")

	joined := MapJoin(words, Concatenation(), func(s string) string { return "[" + s + "]" })
	assert.Equal(t, "[ab][c][defg]", joined)

	longest := MapJoin(words, Maximum(), func(s string) int { return len(s) })
	assert.Equal(t, 4, longest)

	lengths := MapJoin(words, Appending[int](), func(s string) []int { return []int{len(s)} })
	assert.Equal(t, []int{2, 1, 4}, lengths)

	assert.Equal(t, 0, MapJoin(MustSet[string](), Maximum(), func(s string) int { return len(s) }))
}
