package start

// Node is any concrete syntax node.
type Node interface {
	Span() Location
}

// Ident is an identifier token used as a name.
type Ident struct {
	Token
}

func (i Ident) Name() string   { return i.Token.Ident }
func (i Ident) Span() Location { return i.Loc }

// IsWildcard reports whether the identifier is the bare "_" spelling.
func (i Ident) IsWildcard() bool { return i.Token.Ident == "_" }

// Command is a top-level directive ending with a dot.
type Command interface {
	Node
	KeywordToken() Token
	EndToken() Token
	// Doc is the documentation comment attached to the keyword.
	Doc() ([]string, bool)
	command()
}

// CommandBase holds the tokens every command starts and ends with.
type CommandBase struct {
	// Keyword is the leading keyword or its operator shorthand.
	Keyword Token
	Dot     Token
}

func (c *CommandBase) KeywordToken() Token   { return c.Keyword }
func (c *CommandBase) EndToken() Token       { return c.Dot }
func (c *CommandBase) Span() Location        { return c.Keyword.Loc.Union(c.Dot.Loc) }
func (c *CommandBase) Doc() ([]string, bool) { return c.Keyword.Doc() }
func (c *CommandBase) command()              {}

// DefinitionCommand is `Definition p (: T)? := e.`
type DefinitionCommand struct {
	CommandBase
	Pattern    Pattern
	Colon      *Token
	Annotation TypeExpr
	DefEq      Token
	Body       Expr
}

// TypeCommand is `Type N := T.`
type TypeCommand struct {
	CommandBase
	Name   Ident
	DefEq  Token
	Target TypeExpr
}

// EvalCommand is `Eval e.` or `$ e.`
type EvalCommand struct {
	CommandBase
	Expr Expr
}

// TypeOfCommand is `TypeOf e.` or `?: e.`
type TypeOfCommand struct {
	CommandBase
	Expr Expr
}

// HelpCommand is `Help x.` or `? x.`
type HelpCommand struct {
	CommandBase
	Name Ident
}

// SetCommand is `Set Option.` or, with Value false, `UnSet Option.`
type SetCommand struct {
	CommandBase
	Name  Ident
	Value bool
}

// Pattern is the left-hand side of a definition.
type Pattern interface {
	Node
	// Variables lists the names the pattern binds.
	Variables() []Ident
	pattern()
}

type VarPattern struct {
	Name Ident
}

func (p *VarPattern) Span() Location { return p.Name.Loc }
func (p *VarPattern) pattern()       {}

func (p *VarPattern) Variables() []Ident {
	if p.Name.IsWildcard() {
		return nil
	}
	return []Ident{p.Name}
}

// Expr is an expression.
type Expr interface {
	Node
	expr()
}

// ConstExpr is a number or character literal.
type ConstExpr struct {
	Token Token
}

// VarExpr is a variable reference.
type VarExpr struct {
	Name Ident
}

type ParenExpr struct {
	LParen Token
	Inner  Expr
	RParen Token
}

// RestrictExpr is a type restriction `e : T`.
type RestrictExpr struct {
	Expr  Expr
	Colon Token
	Type  TypeExpr
}

func (e *ConstExpr) Span() Location    { return e.Token.Loc }
func (e *VarExpr) Span() Location      { return e.Name.Loc }
func (e *ParenExpr) Span() Location    { return e.LParen.Loc.Union(e.RParen.Loc) }
func (e *RestrictExpr) Span() Location { return e.Expr.Span().Union(e.Type.Span()) }

func (*ConstExpr) expr()    {}
func (*VarExpr) expr()      {}
func (*ParenExpr) expr()    {}
func (*RestrictExpr) expr() {}

// TypeExpr is a type expression. Types are atomic names.
type TypeExpr interface {
	Node
	typeExpr()
}

type VarTypeExpr struct {
	Name Ident
}

func (t *VarTypeExpr) Span() Location { return t.Name.Loc }
func (*VarTypeExpr) typeExpr()        {}

// File is a whole parsed source.
type File struct {
	Commands []Command
	// End carries the trivia after the last command.
	End Token
}

// CommandOrEnd is the result of parsing one command's tokens: either a
// command or the end of the input.
type CommandOrEnd struct {
	Command Command
	End     *Token
}
