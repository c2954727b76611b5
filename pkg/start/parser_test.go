package start

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOne(t *testing.T, text string) Command {
	t.Helper()
	res, diags := Parse(lexOne(t, text))
	require.Empty(t, diags)
	require.NotNil(t, res.Command)
	return res.Command
}

func TestParseDefinition(t *testing.T) {
	cmd := parseOne(t, "Definition a : N0 := (42 : Nat).")
	def, ok := cmd.(*DefinitionCommand)
	require.True(t, ok)

	pat, ok := def.Pattern.(*VarPattern)
	require.True(t, ok)
	assert.Equal(t, "a", pat.Name.Name())
	require.NotNil(t, def.Colon)
	assert.Equal(t, "N0", def.Annotation.(*VarTypeExpr).Name.Name())

	paren, ok := def.Body.(*ParenExpr)
	require.True(t, ok)
	restrict, ok := paren.Inner.(*RestrictExpr)
	require.True(t, ok)
	assert.Equal(t, "42", restrict.Expr.(*ConstExpr).Token.Text)
	assert.Equal(t, "Nat", restrict.Type.(*VarTypeExpr).Name.Name())

	assert.Equal(t, 0, def.Span().Start)
	assert.Equal(t, len("Definition a : N0 := (42 : Nat)."), def.Span().End)
}

func TestParseDefinitionWithoutAnnotation(t *testing.T) {
	def := parseOne(t, "Definition b := a.").(*DefinitionCommand)
	assert.Nil(t, def.Colon)
	assert.Nil(t, def.Annotation)
	assert.Equal(t, "a", def.Body.(*VarExpr).Name.Name())
}

func TestParseCommands(t *testing.T) {
	assert.IsType(t, &TypeCommand{}, parseOne(t, "Type N0 := __Type_Nat__."))
	assert.IsType(t, &EvalCommand{}, parseOne(t, "Eval 'z'."))
	assert.IsType(t, &EvalCommand{}, parseOne(t, "$ 'z'."))
	assert.IsType(t, &TypeOfCommand{}, parseOne(t, "TypeOf (a : N0)."))
	assert.IsType(t, &TypeOfCommand{}, parseOne(t, "?: a."))
	assert.IsType(t, &HelpCommand{}, parseOne(t, "Help a."))
	assert.IsType(t, &HelpCommand{}, parseOne(t, "? a."))

	set := parseOne(t, "Set DebugTyper.").(*SetCommand)
	assert.True(t, set.Value)
	unset := parseOne(t, "UnSet DebugTyper.").(*SetCommand)
	assert.False(t, unset.Value)
	assert.Equal(t, "DebugTyper", unset.Name.Name())
}

func TestParseEnd(t *testing.T) {
	res, diags := Parse(lexOne(t, "  (* only a comment *)\n"))
	require.Empty(t, diags)
	assert.Nil(t, res.Command)
	require.NotNil(t, res.End)
	assert.Len(t, res.End.Leading, 1)
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		text string
		body string
	}{
		{"Definition a 42.", `Found number 42, expected ":" or ":=".`},
		{"Definition a : N0 42.", `Found number 42, expected ":=".`},
		{"Eval .", `Found ".", expected number or character or identifier or "(".`},
		{"Eval (1.", `Found ".", expected ")".`},
		{"Eval _.", `Found wildcard _, expected identifier.`},
		{"Type N0 := 1.", `Found number 1, expected identifier.`},
		{"a := 1.", `Found identifier a, expected Definition or Type or Eval or TypeOf or Help or Set or UnSet or "$" or "?:" or "?".`},
		{"Eval 1", `Found end of input, expected ".".`},
	} {
		t.Run(tc.text, func(t *testing.T) {
			res, diags := Parse(lexOne(t, tc.text))
			assert.Nil(t, res.Command)
			require.Len(t, diags, 1)
			assert.Equal(t, CodeParserExpected, diags[0].Code)
			assert.Equal(t, tc.body, diags[0].Body.String())
		})
	}
}

func TestParseWildcardPatternBindsNothing(t *testing.T) {
	def := parseOne(t, "Definition _ := 1.").(*DefinitionCommand)
	assert.Empty(t, def.Pattern.Variables())
}

func TestParseFile(t *testing.T) {
	file, diags := ParseFile(FileSource("test.st"), "Eval 1.\nEval 2.\n(* bye *)\n")
	require.Empty(t, diags)
	assert.Len(t, file.Commands, 2)
	assert.Equal(t, TokenEOF, file.End.Kind)
	require.Len(t, file.End.Leading, 1)
	assert.Equal(t, []string{"bye"}, file.End.Leading[0].Lines)
}

func TestIncomplete(t *testing.T) {
	assert.True(t, Incomplete(lexOne(t, "Definition a :=\n")))
	assert.False(t, Incomplete(lexOne(t, "Definition a := 1.")))
	assert.False(t, Incomplete(lexOne(t, "  ")))
}
