package start

import (
	"fmt"
	"strings"
)

// TypedExpr is an expression after typing. Every typed expression has
// exactly one type.
type TypedExpr interface {
	Type() Type
	Span() Location
	fmt.Stringer
	typedExpr()
}

// Constant is a literal with its value.
type Constant struct {
	Value Value
	Loc   Location
}

// Variable is a reference to an interned binding.
type Variable struct {
	Ident Identifier
	Ty    Type
	Loc   Location
}

// Restriction is `e : T`. Its type is T, so aliases are kept for display.
type Restriction struct {
	Expr TypedExpr
	Ty   Type
	Loc  Location
}

func (c *Constant) Type() Type        { return c.Value.Type() }
func (c *Constant) Span() Location    { return c.Loc }
func (c *Constant) String() string    { return c.Value.String() }
func (v *Variable) Type() Type        { return v.Ty }
func (v *Variable) Span() Location    { return v.Loc }
func (v *Variable) String() string    { return v.Ident.String() }
func (r *Restriction) Type() Type     { return r.Ty }
func (r *Restriction) Span() Location { return r.Loc }

func (r *Restriction) String() string {
	return fmt.Sprintf("(%s : %s)", r.Expr, r.Ty)
}

func (*Constant) typedExpr()    {}
func (*Variable) typedExpr()    {}
func (*Restriction) typedExpr() {}

// Definition is a typed `Definition`. Vars are the identifiers the pattern
// binds, all of type Ty.
type Definition struct {
	Vars []Identifier
	Ty   Type
	Body TypedExpr
	Doc  []string
	Loc  Location
}

func (d *Definition) String() string {
	names := make([]string, len(d.Vars))
	for i, v := range d.Vars {
		names[i] = v.String()
	}
	if len(names) == 0 {
		names = append(names, "_")
	}
	return fmt.Sprintf("Definition %s : %s := %s : %s", strings.Join(names, ", "), d.Ty, d.Body, d.Body.Type())
}

// TypeDefinition is a typed `Type` command.
type TypeDefinition struct {
	Ident  Identifier
	Target Type
	Doc    []string
	Loc    Location
}

func (d *TypeDefinition) String() string {
	return fmt.Sprintf("Type %s := %s", d.Ident, Unfolded(d.Target))
}

type HelpKind int

const (
	HelpVariable HelpKind = iota
	HelpAlias
	HelpBuiltin
)

// HelpInfo is the answer to `Help name.`
type HelpInfo struct {
	Name string
	Kind HelpKind
	// Type is the variable's type, the alias target, or the builtin type.
	Type Type
	Doc  []string
	Def  Location
}
