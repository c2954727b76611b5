package start

import "fmt"

// InternalError is raised, as a panic, when evaluation meets a state the
// typer should have ruled out.
type InternalError struct {
	Message string
	Loc     Location
}

func (e InternalError) Error() string {
	return fmt.Sprintf("internal error at %s: %s", e.Loc, e.Message)
}

// VM evaluates typed expressions against an environment of values.
type VM struct {
	env map[int]Value
}

func NewVM() *VM {
	return &VM{env: map[int]Value{}}
}

// Eval computes the value of e. A variable with no value panics with an
// InternalError.
func (vm *VM) Eval(e TypedExpr) Value {
	switch ex := e.(type) {
	case *Constant:
		return ex.Value
	case *Variable:
		v, ok := vm.env[ex.Ident.ID]
		if !ok {
			panic(InternalError{
				Message: fmt.Sprintf("variable %s has no value", ex.Ident),
				Loc:     ex.Loc,
			})
		}
		return v
	case *Restriction:
		return vm.Eval(ex.Expr)
	}
	panic(InternalError{Message: fmt.Sprintf("cannot evaluate %T", e), Loc: e.Span()})
}

// AddDefinition evaluates the body of def and binds its variables.
func (vm *VM) AddDefinition(def *Definition) {
	v := vm.Eval(def.Body)
	for _, id := range def.Vars {
		vm.env[id.ID] = v
	}
}
