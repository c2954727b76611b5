package start

import "fmt"

type BuiltinKind int

const (
	BuiltinNat BuiltinKind = iota
	BuiltinBool
	BuiltinChar
)

// Reserved spellings of the builtin types and constants.
const (
	NatTypeName   = "__Type_Nat__"
	BoolTypeName  = "__Type_Bool__"
	CharTypeName  = "__Type_Char__"
	TrueConstant  = "__Constant_true__"
	FalseConstant = "__Constant_false__"
)

var builtinNames = map[string]BuiltinKind{
	NatTypeName:  BuiltinNat,
	BoolTypeName: BuiltinBool,
	CharTypeName: BuiltinChar,
}

func (k BuiltinKind) String() string {
	switch k {
	case BuiltinNat:
		return NatTypeName
	case BuiltinBool:
		return BoolTypeName
	case BuiltinChar:
		return CharTypeName
	}
	return fmt.Sprintf("BuiltinKind(%d)", int(k))
}

// Type is a resolved type: a builtin or an alias of another type.
type Type interface {
	fmt.Stringer
	// Builtin unfolds aliases down to the builtin type.
	Builtin() BuiltinKind
	isType()
}

type BuiltinType struct {
	Kind BuiltinKind
}

var (
	NatType  Type = BuiltinType{Kind: BuiltinNat}
	BoolType Type = BuiltinType{Kind: BuiltinBool}
	CharType Type = BuiltinType{Kind: BuiltinChar}
)

func (t BuiltinType) String() string       { return t.Kind.String() }
func (t BuiltinType) Builtin() BuiltinKind { return t.Kind }
func (BuiltinType) isType()                {}

// AliasType is a named type introduced by `Type Name := Target.`
type AliasType struct {
	Name   Identifier
	Target Type
}

func (t AliasType) String() string       { return t.Name.Name }
func (t AliasType) Builtin() BuiltinKind { return t.Target.Builtin() }
func (AliasType) isType()                {}

// TypesEqual reports whether two types unfold to the same builtin.
func TypesEqual(a, b Type) bool {
	return a.Builtin() == b.Builtin()
}

// Unfolded describes the whole alias chain, e.g. "A := B := __Type_Nat__".
func Unfolded(t Type) string {
	s := t.String()
	for {
		alias, ok := t.(AliasType)
		if !ok {
			return s
		}
		t = alias.Target
		s += " := " + t.String()
	}
}
