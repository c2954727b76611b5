package start

import (
	"github.com/vito/start/pkg/pretty"
)

// cstPrinter renders CST nodes back to source, highlighting tokens with a
// theme.
type cstPrinter struct {
	theme *Theme
}

// FileDoc renders a whole file: commands one per line, comments on their own
// lines before the command they precede, and at most one blank line between
// paragraphs.
func (t *Theme) FileDoc(file *File) pretty.Doc {
	p := cstPrinter{theme: t}
	var docs []pretty.Doc
	emitted := false
	for _, cmd := range file.Commands {
		docs = append(docs, p.leading(cmd.KeywordToken().Leading, &emitted, true)...)
		docs = append(docs, p.command(cmd), pretty.HardLine())
		emitted = true
	}
	docs = append(docs, p.leading(file.End.Leading, &emitted, false)...)
	return pretty.Concat(docs...)
}

// leading renders top-level trivia. Blank lines collapse to a single blank
// line, and are dropped at the start of the file. Trailing blank lines are
// kept only when something follows them.
func (p cstPrinter) leading(trivia []Trivia, emitted *bool, beforeCommand bool) []pretty.Doc {
	var docs []pretty.Doc
	blank := false
	for _, item := range trivia {
		if item.Kind == TriviaBlankLines {
			blank = *emitted
			continue
		}
		if blank {
			docs = append(docs, pretty.HardLine())
			blank = false
		}
		docs = append(docs, p.comment(item), pretty.HardLine())
		*emitted = true
	}
	if blank && beforeCommand {
		docs = append(docs, pretty.HardLine())
	}
	return docs
}

func (p cstPrinter) comment(item Trivia) pretty.Doc {
	open := "(*"
	role := RoleComment
	if item.Kind == TriviaDoc {
		open = "(**"
		role = RoleDocumentation
	}
	if len(item.Lines) == 0 {
		return p.theme.Annotate(role, pretty.Text(open+" *)"))
	}
	lines := make([]pretty.Doc, len(item.Lines))
	for i, l := range item.Lines {
		lines[i] = pretty.Text(l)
	}
	body := pretty.Nest(len(open)+1, pretty.Intersperse(lines, pretty.HardLine()))
	return p.theme.Annotate(role, pretty.Concat(pretty.Text(open+" "), body, pretty.Text(" *)")))
}

// token renders a token preceded by any comments found before it. Comments
// inside a command stay inline.
func (p cstPrinter) token(tok Token, role Role) pretty.Doc {
	var docs []pretty.Doc
	for _, item := range tok.Leading {
		if item.Kind == TriviaBlankLines {
			continue
		}
		docs = append(docs, p.comment(item), pretty.Space())
	}
	docs = append(docs, p.theme.Annotate(role, pretty.Text(tok.Text)))
	return pretty.Concat(docs...)
}

// closing renders a token that ends a construct, such as `.` or `)`.
// Comments before it stay on the side of what they follow.
func (p cstPrinter) closing(tok Token) pretty.Doc {
	var docs []pretty.Doc
	for _, item := range tok.Leading {
		if item.Kind == TriviaBlankLines {
			continue
		}
		docs = append(docs, pretty.Space(), p.comment(item))
	}
	docs = append(docs, p.theme.Annotate(RoleOperator, pretty.Text(tok.Text)))
	return pretty.Concat(docs...)
}

func (p cstPrinter) keyword(tok Token) pretty.Doc {
	// the command's own leading trivia is rendered by FileDoc
	return p.theme.Annotate(RoleKeyword, pretty.Text(tok.Text))
}

func (p cstPrinter) op(tok Token) pretty.Doc {
	return p.token(tok, RoleOperator)
}

func (p cstPrinter) command(cmd Command) pretty.Doc {
	switch c := cmd.(type) {
	case *DefinitionCommand:
		head := []pretty.Doc{p.keyword(c.Keyword), pretty.Space(), p.pattern(c.Pattern)}
		if c.Colon != nil {
			head = append(head, pretty.Space(), p.op(*c.Colon), pretty.Space(), p.typeExpr(c.Annotation))
		}
		head = append(head, pretty.Space(), p.op(c.DefEq))
		return p.layout(pretty.Concat(head...), p.expr(c.Body), c.Dot)
	case *TypeCommand:
		head := pretty.Concat(
			p.keyword(c.Keyword), pretty.Space(), p.token(c.Name.Token, RoleDefVar),
			pretty.Space(), p.op(c.DefEq),
		)
		return p.layout(head, p.typeExpr(c.Target), c.Dot)
	case *EvalCommand:
		return p.layout(p.keyword(c.Keyword), p.expr(c.Expr), c.Dot)
	case *TypeOfCommand:
		return p.layout(p.keyword(c.Keyword), p.expr(c.Expr), c.Dot)
	case *HelpCommand:
		return p.layout(p.keyword(c.Keyword), p.token(c.Name.Token, RoleExprVar), c.Dot)
	case *SetCommand:
		return p.layout(p.keyword(c.Keyword), p.token(c.Name.Token, RoleExprVar), c.Dot)
	}
	return pretty.Nil()
}

// layout puts body after head, breaking onto an indented line when the
// command does not fit.
func (p cstPrinter) layout(head, body pretty.Doc, dot Token) pretty.Doc {
	return pretty.Group(pretty.Concat(
		head,
		pretty.Nest(2, pretty.Concat(pretty.Line(), body)),
		p.closing(dot),
	))
}

func (p cstPrinter) pattern(pat Pattern) pretty.Doc {
	switch pt := pat.(type) {
	case *VarPattern:
		return p.token(pt.Name.Token, RoleDefVar)
	}
	return pretty.Nil()
}

func (p cstPrinter) expr(e Expr) pretty.Doc {
	switch ex := e.(type) {
	case *ConstExpr:
		if ex.Token.Kind == TokenChar {
			return p.token(ex.Token, RoleCharacter)
		}
		return p.token(ex.Token, RoleNumber)
	case *VarExpr:
		return p.token(ex.Name.Token, RoleExprVar)
	case *ParenExpr:
		return pretty.Concat(p.op(ex.LParen), p.expr(ex.Inner), p.closing(ex.RParen))
	case *RestrictExpr:
		return pretty.Concat(p.expr(ex.Expr), pretty.Space(), p.op(ex.Colon), pretty.Space(), p.typeExpr(ex.Type))
	}
	return pretty.Nil()
}

func (p cstPrinter) typeExpr(t TypeExpr) pretty.Doc {
	switch ty := t.(type) {
	case *VarTypeExpr:
		return p.token(ty.Name.Token, RoleTyVar)
	}
	return pretty.Nil()
}
