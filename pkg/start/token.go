package start

import (
	"fmt"
	"math/big"
	"strings"
)

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenIdent
	TokenNumber
	TokenChar

	TokenDefinition
	TokenType
	TokenEval
	TokenTypeOf
	TokenHelp
	TokenSet
	TokenUnSet

	TokenColon      // :
	TokenDefEq      // :=
	TokenLParen     // (
	TokenRParen     // )
	TokenDollar     // $
	TokenQuestion   // ?
	TokenTypeOfOp   // ?:
	TokenCommandEnd // .
)

var keywords = map[string]TokenKind{
	"Definition": TokenDefinition,
	"Type":       TokenType,
	"Eval":       TokenEval,
	"TypeOf":     TokenTypeOf,
	"Help":       TokenHelp,
	"Set":        TokenSet,
	"UnSet":      TokenUnSet,
}

var operators = map[TokenKind]string{
	TokenColon:      ":",
	TokenDefEq:      ":=",
	TokenLParen:     "(",
	TokenRParen:     ")",
	TokenDollar:     "$",
	TokenQuestion:   "?",
	TokenTypeOfOp:   "?:",
	TokenCommandEnd: ".",
}

// String is the name used for the kind in "expected" lists.
func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of input"
	case TokenIdent:
		return "identifier"
	case TokenNumber:
		return "number"
	case TokenChar:
		return "character"
	}
	if op, ok := operators[k]; ok {
		return `"` + op + `"`
	}
	for spelling, kw := range keywords {
		if kw == k {
			return spelling
		}
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

func (k TokenKind) IsKeyword() bool {
	return k >= TokenDefinition && k <= TokenUnSet
}

type TriviaKind int

const (
	TriviaComment TriviaKind = iota
	TriviaDoc
	TriviaBlankLines
)

// Trivia is a comment or a group of blank lines found before a token.
type Trivia struct {
	Kind TriviaKind
	// Lines holds the trimmed, non-empty lines of a comment.
	Lines []string
	Loc   Location
}

// Token is a lexeme together with the trivia that precedes it.
type Token struct {
	Kind TokenKind
	// Text is the exact source spelling.
	Text string
	Loc  Location

	Leading []Trivia
	// LeadingText is the raw source between the previous token and this
	// one: whitespace and comments.
	LeadingText string

	Ident  string
	Number *big.Int
	Base   int
	Char   rune
}

// Doc returns the documentation comment attached to the token, if the last
// trivia item before it is one.
func (t Token) Doc() ([]string, bool) {
	if len(t.Leading) == 0 {
		return nil, false
	}
	last := t.Leading[len(t.Leading)-1]
	if last.Kind != TriviaDoc {
		return nil, false
	}
	return last.Lines, true
}

// Describe names the token in parse errors.
func (t Token) Describe() string {
	switch t.Kind {
	case TokenEOF:
		return "end of input"
	case TokenIdent:
		return "identifier " + t.Text
	case TokenNumber:
		return "number " + t.Text
	case TokenChar:
		return "character " + t.Text
	}
	if t.Kind.IsKeyword() {
		return "keyword " + t.Text
	}
	return `"` + t.Text + `"`
}

// DebugString is the form printed by the DebugLexer switch.
func (t Token) DebugString() string {
	switch t.Kind {
	case TokenEOF:
		return "[EOF]"
	case TokenIdent:
		return "[IDENTIFIER(" + t.Ident + ")]"
	case TokenNumber:
		return fmt.Sprintf("[NUMBER(%s, base %d)]", t.Number, t.Base)
	case TokenChar:
		return "[CHARACTER(" + quoteChar(t.Char) + ")]"
	case TokenCommandEnd:
		return "[END]"
	}
	if t.Kind.IsKeyword() {
		return "[KEYWORD(" + t.Text + ")]"
	}
	return "[OPERATOR(" + t.Text + ")]"
}

// DebugTokens joins the debug forms of tokens with spaces.
func DebugTokens(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.DebugString()
	}
	return strings.Join(parts, " ")
}
