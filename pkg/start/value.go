package start

import (
	"math/big"

	"github.com/vito/start/pkg/pretty"
)

// Value is the result of evaluating an expression. Values are immutable.
type Value interface {
	Type() Type
	String() string
	// Doc renders the value for display.
	Doc(t *Theme) pretty.Doc
}

// NatValue is an arbitrary-precision natural number.
type NatValue struct {
	N *big.Int
}

type BoolValue bool

type CharValue rune

func NewNat(n int64) NatValue {
	return NatValue{N: big.NewInt(n)}
}

func (v NatValue) Type() Type              { return NatType }
func (v NatValue) String() string          { return groupDigits(v.N.String()) }
func (v NatValue) Doc(t *Theme) pretty.Doc { return t.Number(v.N) }

func (v BoolValue) Type() Type              { return BoolType }
func (v BoolValue) Doc(t *Theme) pretty.Doc { return t.Boolean(bool(v)) }

func (v BoolValue) String() string {
	if v {
		return "true"
	}
	return "false"
}

func (v CharValue) Type() Type              { return CharType }
func (v CharValue) String() string          { return quoteChar(rune(v)) }
func (v CharValue) Doc(t *Theme) pretty.Doc { return t.Character(rune(v)) }

// ValuesEqual compares two values structurally.
func ValuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case NatValue:
		bv, ok := b.(NatValue)
		return ok && av.N.Cmp(bv.N) == 0
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av == bv
	case CharValue:
		bv, ok := b.(CharValue)
		return ok && av == bv
	}
	return false
}
