package start

import (
	"log/slog"
)

// Typer turns CST commands into typed nodes, keeping the variable and type
// alias environments.
type Typer struct {
	state *typerState
}

func NewTyper() *Typer {
	return &Typer{state: newTyperState()}
}

// Variables lists every variable binding in definition order, including
// shadowed ones.
func (t *Typer) Variables() []VarInfo {
	return sortedVars(t.state.vars)
}

// Aliases lists every type alias in definition order.
func (t *Typer) Aliases() []AliasInfo {
	return sortedAliases(t.state.aliases)
}

// LookupVariable returns the binding currently visible under name.
func (t *Typer) LookupVariable(name string) (VarInfo, bool) {
	id, ok := t.state.exprNames.Lookup(name)
	if !ok {
		return VarInfo{}, false
	}
	info, ok := t.state.vars[id.ID]
	return info, ok
}

// LookupAlias returns the alias currently visible under name.
func (t *Typer) LookupAlias(name string) (AliasInfo, bool) {
	id, ok := t.state.typeNames.Lookup(name)
	if !ok {
		return AliasInfo{}, false
	}
	info, ok := t.state.aliases[id.ID]
	return info, ok
}

// atomically runs f against a copy of the state, keeping the copy only if f
// reports no diagnostics.
func (t *Typer) atomically(f func() []Diagnostic) []Diagnostic {
	saved := t.state
	t.state = saved.snapshot()
	if diags := f(); len(diags) > 0 {
		t.state = saved
		return diags
	}
	return nil
}

// Constant types a literal.
func (t *Typer) Constant(c *ConstExpr) *Constant {
	var v Value
	if c.Token.Kind == TokenChar {
		v = CharValue(c.Token.Char)
	} else {
		v = NatValue{N: c.Token.Number}
	}
	return &Constant{Value: v, Loc: c.Token.Loc}
}

// Type resolves a type expression.
func (t *Typer) Type(te TypeExpr) (Type, []Diagnostic) {
	switch ty := te.(type) {
	case *VarTypeExpr:
		name := ty.Name.Name()
		if kind, ok := builtinNames[name]; ok {
			return BuiltinType{Kind: kind}, nil
		}
		id, ok := t.state.typeNames.Lookup(name)
		if ok {
			if info, found := t.state.aliases[id.ID]; found {
				t.state.addAliasRef(id, ty.Name.Loc)
				return AliasType{Name: id, Target: info.Target}, nil
			}
		}
		return nil, []Diagnostic{ErrUnknownType(name, ty.Name.Loc)}
	}
	return nil, []Diagnostic{ErrInternal("unknown type expression", te.Span())}
}

// Expression types an expression.
func (t *Typer) Expression(e Expr) (TypedExpr, []Diagnostic) {
	switch ex := e.(type) {
	case *ConstExpr:
		return t.Constant(ex), nil
	case *VarExpr:
		return t.variable(ex.Name)
	case *ParenExpr:
		return t.Expression(ex.Inner)
	case *RestrictExpr:
		inner, diags := t.Expression(ex.Expr)
		ty, tyDiags := t.Type(ex.Type)
		diags = append(diags, tyDiags...)
		if len(diags) > 0 {
			return nil, diags
		}
		if !TypesEqual(inner.Type(), ty) {
			return nil, []Diagnostic{t.mismatch(ty, inner, ex.Span())}
		}
		return &Restriction{Expr: inner, Ty: ty, Loc: ex.Span()}, nil
	}
	return nil, []Diagnostic{ErrInternal("unknown expression", e.Span())}
}

func (t *Typer) variable(name Ident) (TypedExpr, []Diagnostic) {
	switch name.Name() {
	case TrueConstant:
		return &Constant{Value: BoolValue(true), Loc: name.Loc}, nil
	case FalseConstant:
		return &Constant{Value: BoolValue(false), Loc: name.Loc}, nil
	}
	id := t.state.exprNames.Get(name.Name())
	info, ok := t.state.vars[id.ID]
	if !ok {
		return nil, []Diagnostic{ErrUnknownVariable(name.Name(), name.Loc)}
	}
	t.state.addVarRef(id, name.Loc)
	return &Variable{Ident: id, Ty: info.Type, Loc: name.Loc}, nil
}

// mismatch reports that got was found where expected is required, pointing
// back to the definition of a variable when there is one.
func (t *Typer) mismatch(expected Type, got TypedExpr, loc Location, labels ...Label) Diagnostic {
	if v, ok := unparen(got).(*Variable); ok {
		if info, found := t.state.vars[v.Ident.ID]; found && info.Def != (Location{}) {
			labels = append(labels, Label{
				Loc:     info.Def,
				Message: Message{}.Emph(v.Ident.Name).Plain(" is defined here with type ").Emph(info.Type.String()),
			})
		}
	}
	return ErrUnexpectedType(expected, got.Type(), loc, labels...)
}

func unparen(e TypedExpr) TypedExpr {
	if r, ok := e.(*Restriction); ok {
		return unparen(r.Expr)
	}
	return e
}

// ExpressionDefinition types a definition and, on success, binds its
// variables. An annotation fixes the type the body must have.
func (t *Typer) ExpressionDefinition(def *DefinitionCommand, doc []string) (*Definition, []Diagnostic) {
	var typed *Definition
	diags := t.atomically(func() []Diagnostic {
		var diags []Diagnostic
		var annotation Type
		if def.Annotation != nil {
			annotation, diags = t.Type(def.Annotation)
		}

		// The body is typed before the pattern is bound, so it cannot
		// refer to the variables it defines.
		body, bodyDiags := t.Expression(def.Body)
		diags = append(diags, bodyDiags...)
		if len(diags) > 0 {
			return diags
		}

		ty := body.Type()
		if annotation != nil {
			if !TypesEqual(annotation, ty) {
				return []Diagnostic{t.mismatch(annotation, body, def.Body.Span(), Label{
					Loc:     def.Annotation.Span(),
					Message: Plain("expected because of this annotation"),
				})}
			}
			ty = annotation
		}

		vars := t.bind(def.Pattern, ty, doc)
		typed = &Definition{Vars: vars, Ty: ty, Body: body, Doc: doc, Loc: def.Span()}
		return nil
	})
	if len(diags) > 0 {
		return nil, diags
	}
	slog.Debug("typed definition", "def", typed.String())
	return typed, nil
}

// bind creates fresh identifiers for the pattern's variables.
func (t *Typer) bind(pat Pattern, ty Type, doc []string) []Identifier {
	var ids []Identifier
	for _, name := range pat.Variables() {
		id := t.state.exprNames.Build(name.Name())
		t.state.vars[id.ID] = VarInfo{Ident: id, Type: ty, Doc: doc, Def: name.Loc}
		ids = append(ids, id)
	}
	return ids
}

// TypeDefinition registers a type alias.
func (t *Typer) TypeDefinition(def *TypeCommand, doc []string) (*TypeDefinition, []Diagnostic) {
	var typed *TypeDefinition
	diags := t.atomically(func() []Diagnostic {
		target, diags := t.Type(def.Target)
		if len(diags) > 0 {
			return diags
		}
		id := t.state.typeNames.Build(def.Name.Name())
		t.state.aliases[id.ID] = AliasInfo{Ident: id, Target: target, Doc: doc, Def: def.Name.Loc}
		typed = &TypeDefinition{Ident: id, Target: target, Doc: doc, Loc: def.Span()}
		return nil
	})
	if len(diags) > 0 {
		return nil, diags
	}
	return typed, nil
}

// Help describes a name. A name bound both as a variable and as a type
// alias describes the variable.
func (t *Typer) Help(name Ident) (*HelpInfo, []Diagnostic) {
	n := name.Name()
	if info, ok := t.LookupVariable(n); ok {
		t.state.addVarRef(info.Ident, name.Loc)
		return &HelpInfo{Name: n, Kind: HelpVariable, Type: info.Type, Doc: info.Doc, Def: info.Def}, nil
	}
	if info, ok := t.LookupAlias(n); ok {
		t.state.addAliasRef(info.Ident, name.Loc)
		return &HelpInfo{Name: n, Kind: HelpAlias, Type: info.Target, Doc: info.Doc, Def: info.Def}, nil
	}
	if kind, ok := builtinNames[n]; ok {
		return &HelpInfo{Name: n, Kind: HelpBuiltin, Type: BuiltinType{Kind: kind}}, nil
	}
	switch n {
	case TrueConstant, FalseConstant:
		return &HelpInfo{Name: n, Kind: HelpBuiltin, Type: BoolType}, nil
	}
	return nil, []Diagnostic{ErrUnknownVariable(n, name.Loc)}
}
