package start

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalDefinitions(t *testing.T) {
	typer := NewTyper()
	vm := NewVM()

	file, diags := ParseFile(FileSource("test.st"), "Definition a := 0x1_0000_0000_0000_0000.\nDefinition b := (a).\nDefinition c := '\\t'.")
	require.Empty(t, diags)
	for _, cmd := range file.Commands {
		def, diags := typer.ExpressionDefinition(cmd.(*DefinitionCommand), nil)
		require.Empty(t, diags)
		vm.AddDefinition(def)
	}

	b, ok := typer.LookupVariable("b")
	require.True(t, ok)
	v := vm.Eval(&Variable{Ident: b.Ident, Ty: b.Type})

	want, _ := new(big.Int).SetString("18446744073709551616", 10)
	assert.True(t, ValuesEqual(NatValue{N: want}, v))
	assert.Equal(t, "18_446_744_073_709_551_616", v.String())

	c, _ := typer.LookupVariable("c")
	v = vm.Eval(&Variable{Ident: c.Ident, Ty: c.Type})
	assert.Equal(t, `'\t'`, v.String())
}

func TestEvalIsDeterministic(t *testing.T) {
	typer := NewTyper()
	e, diags := typeExpr(t, typer, "(1_000 : __Type_Nat__)")
	require.Empty(t, diags)
	first := NewVM().Eval(e)
	for range 5 {
		assert.True(t, ValuesEqual(first, NewVM().Eval(e)))
	}
}

func TestEvalMissingBindingPanics(t *testing.T) {
	typer := NewTyper()
	require.Empty(t, typeAll(t, typer, "Definition a := 1."))
	a, ok := typer.LookupVariable("a")
	require.True(t, ok)

	ref := &Variable{Ident: a.Ident, Ty: a.Type, Loc: Location{Source: FileSource("test.st"), Start: 5, End: 6}}
	assert.PanicsWithValue(t, InternalError{
		Message: "variable a#0 has no value",
		Loc:     ref.Loc,
	}, func() {
		NewVM().Eval(ref)
	})
}

func TestValueDisplay(t *testing.T) {
	assert.Equal(t, "1_000_000", NewNat(1000000).String())
	assert.Equal(t, "999", NewNat(999).String())
	assert.Equal(t, "true", BoolValue(true).String())
	assert.Equal(t, `'\''`, CharValue('\'').String())
	assert.Equal(t, `'\\'`, CharValue('\\').String())
	assert.Equal(t, "'z'", CharValue('z').String())
	assert.Equal(t, `'\x07'`, CharValue(0x07).String())
	assert.Equal(t, `'\x7f'`, CharValue(0x7f).String())
	assert.Equal(t, `'\u{200b}'`, CharValue(0x200b).String())
}
