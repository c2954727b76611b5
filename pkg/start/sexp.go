package start

import "strings"

// S-expression forms printed by the DebugSexp switch, e.g.
//
//	(define a N0 42)
//	(eval (: a N0))

func listSexp(head string, items ...string) string {
	return "(" + head + " " + strings.Join(items, " ") + ")"
}

func exprSexp(e TypedExpr) string {
	switch ex := e.(type) {
	case *Constant:
		switch v := ex.Value.(type) {
		case NatValue:
			return v.N.String()
		default:
			return v.String()
		}
	case *Variable:
		return ex.Ident.Name
	case *Restriction:
		return listSexp(":", exprSexp(ex.Expr), ex.Ty.String())
	}
	return "?"
}

func defineSexp(def *Definition) string {
	names := make([]string, len(def.Vars))
	for i, v := range def.Vars {
		names[i] = v.Name
	}
	pattern := "_"
	switch len(names) {
	case 0:
	case 1:
		pattern = names[0]
	default:
		pattern = "(" + strings.Join(names, " ") + ")"
	}
	return listSexp("define", pattern, def.Ty.String(), exprSexp(def.Body))
}

func typeDefSexp(def *TypeDefinition) string {
	return listSexp("type", def.Ident.Name, def.Target.String())
}
