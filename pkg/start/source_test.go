package start

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const memoText = "123456\n12345\n\n123456789\n123"

func TestPositionMemo(t *testing.T) {
	for _, tc := range []struct {
		offset    int
		line, col int
	}{
		{0, 0, 0},
		{1, 0, 1},
		{7, 1, 0},
		{9, 1, 2},
		{22, 3, 8},
		{12, 1, 5},
		{13, 2, 0},
		{26, 4, 2},
	} {
		// one memo for the whole table: later queries go backwards
		line, col := sharedMemo.Position(tc.offset)
		assert.Equal(t, [2]int{tc.line, tc.col}, [2]int{line, col}, "offset %d", tc.offset)
	}
}

var sharedMemo = NewPositionMemo(memoText)

func TestPositionMemoCountsRunes(t *testing.T) {
	m := NewPositionMemo("é\nàb")
	line, col := m.Position(len("é\nà"))
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	id := FileSource("a.st")

	first := reg.Register(id, "Eval 1.")
	assert.Same(t, first, reg.Register(id, "Eval 1."))
	assert.Equal(t, "Eval 1.", reg.Text(id))

	reg.Register(id, "Eval 2.")
	assert.Equal(t, "Eval 2.", reg.Text(id))

	_, ok := reg.Lookup(URISource("file:///nope.st"))
	assert.False(t, ok)
	assert.Equal(t, "", reg.Text(URISource("file:///nope.st")))
}

func TestRegistryAppend(t *testing.T) {
	reg := NewRegistry()
	id := REPLSource("")

	require.Equal(t, 0, reg.Append(id, "Eval 1.\n"))
	line, _ := reg.Position(id, 7)
	assert.Equal(t, 0, line)

	off := reg.Append(id, "Eval 2.\n")
	assert.Equal(t, 8, off)
	line, col := reg.Position(id, off+5)
	assert.Equal(t, 1, line)
	assert.Equal(t, 5, col)
}

func TestLocationUnion(t *testing.T) {
	a := Location{Source: StdlibSource(), Start: 4, End: 6}
	b := Location{Source: StdlibSource(), Start: 1, End: 3}
	assert.Equal(t, Location{Source: StdlibSource(), Start: 1, End: 6}, a.Union(b))
	assert.True(t, a.Contains(5))
	assert.False(t, a.Contains(6))
	assert.Equal(t, "<stdlib>", StdlibSource().String())
}
