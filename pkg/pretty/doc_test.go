package pretty_test

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vito/start/pkg/pretty"
)

func words(ws ...string) []pretty.Doc {
	docs := make([]pretty.Doc, len(ws))
	for i, w := range ws {
		docs[i] = pretty.Text(w)
	}
	return docs
}

func TestGroupFits(t *testing.T) {
	d := pretty.Group(pretty.Intersperse(words("Definition", "a", ":=", "42."), pretty.Line()))
	assert.Equal(t, "Definition a := 42.", pretty.String(d, 80))
}

func TestGroupBreaks(t *testing.T) {
	d := pretty.Group(pretty.Concat(
		pretty.Text("Definition"),
		pretty.Nest(2, pretty.Concat(pretty.Line(), pretty.Text("a"), pretty.Line(), pretty.Text("42."))),
	))
	assert.Equal(t, "Definition\n  a\n  42.", pretty.String(d, 8))
}

func TestSoftLine(t *testing.T) {
	d := pretty.Group(pretty.Concat(pretty.Text("("), pretty.SoftLine(), pretty.Text("x"), pretty.SoftLine(), pretty.Text(")")))
	assert.Equal(t, "(x)", pretty.String(d, 80))
	assert.Equal(t, "(\nx\n)", pretty.String(d, 2))
}

func TestHardLineForcesBreak(t *testing.T) {
	d := pretty.Group(pretty.Concat(pretty.Text("a"), pretty.Line(), pretty.Text("b"), pretty.HardLine(), pretty.Text("c")))
	assert.Equal(t, "a\nb\nc", pretty.String(d, 80))
}

func TestNestedGroupStaysFlat(t *testing.T) {
	inner := pretty.Group(pretty.Concat(pretty.Text("x"), pretty.Line(), pretty.Text("y")))
	d := pretty.Group(pretty.Concat(
		pretty.Text("aaaa"),
		pretty.Nest(2, pretty.Concat(pretty.Line(), inner)),
	))
	assert.Equal(t, "aaaa\n  x y", pretty.String(d, 5))
}

func TestNoTrailingIndentOnBlankLines(t *testing.T) {
	d := pretty.Nest(4, pretty.Concat(pretty.Text("a"), pretty.HardLine(), pretty.HardLine(), pretty.Text("b")))
	assert.Equal(t, "a\n\n    b", pretty.String(d, 80))
}

func TestLines(t *testing.T) {
	assert.Equal(t, "one\ntwo", pretty.String(pretty.Lines("one\ntwo"), 80))
}

func TestAnnotationsIgnoredWhenPlain(t *testing.T) {
	red := pretty.Style{Foreground: "1", Bold: true}
	d := pretty.Annotate(red, pretty.Text("hello"))
	assert.Equal(t, "hello", pretty.String(d, 80))
}

func TestAnnotationsNest(t *testing.T) {
	outer := pretty.Style{Foreground: "1"}
	inner := pretty.Style{Italic: true}
	d := pretty.Annotate(outer, pretty.Concat(
		pretty.Text("a"),
		pretty.Annotate(inner, pretty.Text("b")),
		pretty.Text("c"),
	))
	styled := pretty.StyledString(d, 80)
	require.Equal(t, "abc", ansi.Strip(styled))
	assert.True(t, strings.Contains(styled, "\x1b["))

	// the inner segment keeps the outer color
	composed := inner.Over(outer)
	assert.Equal(t, "1", composed.Foreground)
	assert.True(t, composed.Italic)
}

func TestClearStyle(t *testing.T) {
	outer := pretty.Style{Foreground: "1", Bold: true}
	cleared := pretty.Style{Clear: true, Italic: true}.Over(outer)
	assert.Equal(t, pretty.Style{Italic: true}, cleared)
}

func TestAnnotationsSurviveLineBreaks(t *testing.T) {
	st := pretty.Style{Underline: true}
	d := pretty.Group(pretty.Annotate(st, pretty.Concat(pretty.Text("aaa"), pretty.Line(), pretty.Text("bbb"))))
	styled := pretty.StyledString(d, 4)
	lines := strings.Split(styled, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "bbb", ansi.Strip(lines[1]))
	assert.NotEqual(t, "bbb", lines[1])
}
