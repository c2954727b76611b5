package start

// Parse turns the tokens of one command, as returned by Lex, into a CST
// command. A token list holding only EOF parses to the end of input.
//
// There is no recovery within a command: the first mismatch is reported and
// the command is abandoned.
func Parse(tokens []Token) (CommandOrEnd, []Diagnostic) {
	p := &parser{tokens: tokens}
	if p.peek().Kind == TokenEOF {
		end := p.peek()
		return CommandOrEnd{End: &end}, nil
	}
	cmd, ok := p.command()
	if !ok {
		return CommandOrEnd{}, p.diags
	}
	return CommandOrEnd{Command: cmd}, nil
}

// ParseFile lexes and parses a whole source.
func ParseFile(id SourceID, text string) (*File, []Diagnostic) {
	tokens, diags := LexAll(id, text)
	if len(diags) > 0 {
		return nil, diags
	}
	file := &File{}
	p := &parser{tokens: tokens}
	for p.peek().Kind != TokenEOF {
		cmd, ok := p.command()
		if !ok {
			return nil, p.diags
		}
		file.Commands = append(file.Commands, cmd)
	}
	file.End = p.peek()
	return file, nil
}

// Incomplete reports whether tokens stop at the end of input in the middle of
// a command, meaning more input could complete it.
func Incomplete(tokens []Token) bool {
	return len(tokens) > 1 && tokens[len(tokens)-1].Kind == TokenEOF
}

// NeedsMoreInput reports whether text stops in the middle of a command or
// of a comment, so a line-oriented front-end should read another line
// before running it.
func NeedsMoreInput(text string) bool {
	id := REPLSource("")
	offset := 0
	for offset < len(text) {
		tokens, next, diags := Lex(id, offset, text[offset:])
		if len(tokens) > 0 && tokens[len(tokens)-1].Kind == TokenEOF {
			if Incomplete(tokens) {
				return true
			}
			for _, d := range diags {
				if d.Code == CodeLexerExpected && d.Loc.End >= len(text) {
					return true
				}
			}
			return false
		}
		if next <= offset {
			return false
		}
		offset = next
	}
	return false
}

var commandStarts = []TokenKind{
	TokenDefinition, TokenType, TokenEval, TokenTypeOf, TokenHelp, TokenSet, TokenUnSet,
	TokenDollar, TokenTypeOfOp, TokenQuestion,
}

type parser struct {
	tokens []Token
	pos    int
	diags  []Diagnostic
}

func (p *parser) peek() Token {
	if p.pos >= len(p.tokens) {
		var loc Location
		if len(p.tokens) > 0 {
			last := p.tokens[len(p.tokens)-1].Loc
			loc = Location{Source: last.Source, Start: last.End, End: last.End}
		}
		return Token{Kind: TokenEOF, Loc: loc}
	}
	return p.tokens[p.pos]
}

func (p *parser) next() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *parser) unexpected(expected ...TokenKind) {
	names := make([]string, len(expected))
	for i, k := range expected {
		names[i] = k.String()
	}
	found := p.peek()
	p.diags = append(p.diags, ErrParserExpected(names, found.Describe(), found.Loc))
}

func (p *parser) expect(kind TokenKind) (Token, bool) {
	if p.peek().Kind != kind {
		p.unexpected(kind)
		return Token{}, false
	}
	return p.next(), true
}

// name parses an identifier that must not be the wildcard.
func (p *parser) name() (Ident, bool) {
	tok, ok := p.expect(TokenIdent)
	if !ok {
		return Ident{}, false
	}
	id := Ident{tok}
	if id.IsWildcard() {
		p.diags = append(p.diags, ErrParserExpected([]string{TokenIdent.String()}, "wildcard _", tok.Loc))
		return Ident{}, false
	}
	return id, true
}

func (p *parser) command() (Command, bool) {
	kw := p.peek()
	switch kw.Kind {
	case TokenDefinition:
		return p.definition()
	case TokenType:
		return p.typeDefinition()
	case TokenEval, TokenDollar:
		p.next()
		e, ok := p.expr()
		if !ok {
			return nil, false
		}
		dot, ok := p.expect(TokenCommandEnd)
		if !ok {
			return nil, false
		}
		return &EvalCommand{CommandBase: CommandBase{Keyword: kw, Dot: dot}, Expr: e}, true
	case TokenTypeOf, TokenTypeOfOp:
		p.next()
		e, ok := p.expr()
		if !ok {
			return nil, false
		}
		dot, ok := p.expect(TokenCommandEnd)
		if !ok {
			return nil, false
		}
		return &TypeOfCommand{CommandBase: CommandBase{Keyword: kw, Dot: dot}, Expr: e}, true
	case TokenHelp, TokenQuestion:
		p.next()
		name, dot, ok := p.nameCommand()
		if !ok {
			return nil, false
		}
		return &HelpCommand{CommandBase: CommandBase{Keyword: kw, Dot: dot}, Name: name}, true
	case TokenSet, TokenUnSet:
		p.next()
		name, dot, ok := p.nameCommand()
		if !ok {
			return nil, false
		}
		return &SetCommand{CommandBase: CommandBase{Keyword: kw, Dot: dot}, Name: name, Value: kw.Kind == TokenSet}, true
	}
	p.unexpected(commandStarts...)
	return nil, false
}

func (p *parser) nameCommand() (Ident, Token, bool) {
	name, ok := p.name()
	if !ok {
		return Ident{}, Token{}, false
	}
	dot, ok := p.expect(TokenCommandEnd)
	return name, dot, ok
}

func (p *parser) definition() (Command, bool) {
	def := &DefinitionCommand{}
	def.Keyword = p.next()

	tok, ok := p.expect(TokenIdent)
	if !ok {
		return nil, false
	}
	def.Pattern = &VarPattern{Name: Ident{tok}}

	if p.peek().Kind == TokenColon {
		colon := p.next()
		def.Colon = &colon
		if def.Annotation, ok = p.typeExpr(); !ok {
			return nil, false
		}
	}

	if p.peek().Kind != TokenDefEq {
		if def.Colon == nil {
			p.unexpected(TokenColon, TokenDefEq)
		} else {
			p.unexpected(TokenDefEq)
		}
		return nil, false
	}
	def.DefEq = p.next()

	if def.Body, ok = p.expr(); !ok {
		return nil, false
	}
	if def.Dot, ok = p.expect(TokenCommandEnd); !ok {
		return nil, false
	}
	return def, true
}

func (p *parser) typeDefinition() (Command, bool) {
	def := &TypeCommand{}
	def.Keyword = p.next()

	var ok bool
	if def.Name, ok = p.name(); !ok {
		return nil, false
	}
	if def.DefEq, ok = p.expect(TokenDefEq); !ok {
		return nil, false
	}
	if def.Target, ok = p.typeExpr(); !ok {
		return nil, false
	}
	if def.Dot, ok = p.expect(TokenCommandEnd); !ok {
		return nil, false
	}
	return def, true
}

// expr parses `E0 (: T)?`.
func (p *parser) expr() (Expr, bool) {
	e, ok := p.atom()
	if !ok {
		return nil, false
	}
	if p.peek().Kind != TokenColon {
		return e, true
	}
	colon := p.next()
	ty, ok := p.typeExpr()
	if !ok {
		return nil, false
	}
	return &RestrictExpr{Expr: e, Colon: colon, Type: ty}, true
}

func (p *parser) atom() (Expr, bool) {
	switch p.peek().Kind {
	case TokenNumber, TokenChar:
		return &ConstExpr{Token: p.next()}, true
	case TokenIdent:
		name, ok := p.name()
		if !ok {
			return nil, false
		}
		return &VarExpr{Name: name}, true
	case TokenLParen:
		lparen := p.next()
		inner, ok := p.expr()
		if !ok {
			return nil, false
		}
		rparen, ok := p.expect(TokenRParen)
		if !ok {
			return nil, false
		}
		return &ParenExpr{LParen: lparen, Inner: inner, RParen: rparen}, true
	}
	p.unexpected(TokenNumber, TokenChar, TokenIdent, TokenLParen)
	return nil, false
}

func (p *parser) typeExpr() (TypeExpr, bool) {
	name, ok := p.name()
	if !ok {
		return nil, false
	}
	return &VarTypeExpr{Name: name}, true
}
