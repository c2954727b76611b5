package start

import (
	"math/big"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lex scans one command from text, which starts at offset in the source id.
//
// It returns the tokens up to and including the next CommandEnd, or every
// token up to the end of text followed by an EOF token carrying the trailing
// trivia. next is the source offset just past the last consumed byte.
//
// On failure the scan keeps going until the next CommandEnd so that every
// error of the command is reported, and next points past that dot.
func Lex(id SourceID, offset int, text string) (tokens []Token, next int, diags []Diagnostic) {
	l := &lexer{id: id, base: offset, text: text}
	l.run()
	return l.tokens, offset + l.pos, l.diags
}

// LexAll scans every command in text. It is used by the formatter, which
// needs the whole file.
func LexAll(id SourceID, text string) ([]Token, []Diagnostic) {
	var all []Token
	var diags []Diagnostic
	offset := 0
	for {
		tokens, next, errs := Lex(id, offset, text[offset:])
		all = append(all, tokens...)
		diags = append(diags, errs...)
		if len(tokens) == 0 || tokens[len(tokens)-1].Kind == TokenEOF || next >= len(text) {
			if len(tokens) > 0 && tokens[len(tokens)-1].Kind != TokenEOF {
				all = append(all, Token{
					Kind: TokenEOF,
					Loc:  Location{Source: id, Start: next, End: next},
				})
			}
			return all, diags
		}
		offset = next
	}
}

type lexer struct {
	id   SourceID
	base int
	text string
	pos  int

	tokens []Token
	diags  []Diagnostic
}

func (l *lexer) loc(start, end int) Location {
	return Location{Source: l.id, Start: l.base + start, End: l.base + end}
}

func (l *lexer) fail(d Diagnostic) {
	l.diags = append(l.diags, d)
}

func (l *lexer) peek() rune {
	if l.pos >= len(l.text) {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(l.text[l.pos:])
	return r
}

func (l *lexer) peekAt(i int) byte {
	if l.pos+i >= len(l.text) {
		return 0
	}
	return l.text[l.pos+i]
}

func (l *lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.text[l.pos:])
	l.pos += size
	return r
}

// found describes what sits at the current position for error messages.
func (l *lexer) found() string {
	if l.pos >= len(l.text) {
		return "end of input"
	}
	return string(l.peek())
}

func (l *lexer) run() {
	for {
		triviaStart := l.pos
		trivia := l.trivia()
		leading := l.text[triviaStart:l.pos]

		if l.pos >= len(l.text) {
			l.tokens = append(l.tokens, Token{
				Kind:        TokenEOF,
				Loc:         l.loc(l.pos, l.pos),
				Leading:     trivia,
				LeadingText: leading,
			})
			return
		}

		tok, ok := l.token()
		if !ok {
			continue
		}
		tok.Leading = trivia
		tok.LeadingText = leading
		l.tokens = append(l.tokens, tok)
		if tok.Kind == TokenCommandEnd {
			return
		}
	}
}

// trivia consumes whitespace and comments.
func (l *lexer) trivia() []Trivia {
	var items []Trivia
	for l.pos < len(l.text) {
		start := l.pos
		newlines := 0
		for l.pos < len(l.text) {
			c := l.text[l.pos]
			if c == '\n' {
				newlines++
			} else if c != ' ' && c != '\t' && c != '\r' {
				break
			}
			l.pos++
		}
		if newlines >= 2 && (len(items) == 0 || items[len(items)-1].Kind != TriviaBlankLines) {
			items = append(items, Trivia{Kind: TriviaBlankLines, Loc: l.loc(start, l.pos)})
		}
		if !strings.HasPrefix(l.text[l.pos:], "(*") {
			break
		}
		items = append(items, l.comment())
	}
	return items
}

func (l *lexer) comment() Trivia {
	start := l.pos
	l.pos += len("(*")
	kind := TriviaComment
	if l.peekAt(0) == '*' && l.peekAt(1) != ')' {
		kind = TriviaDoc
		l.pos++
	}
	bodyStart := l.pos
	end := strings.Index(l.text[l.pos:], "*)")
	if end < 0 {
		l.pos = len(l.text)
		l.fail(ErrLexerExpected("*)", "end of input", l.loc(start, l.pos)))
		return Trivia{Kind: kind, Lines: commentLines(l.text[bodyStart:]), Loc: l.loc(start, l.pos)}
	}
	body := l.text[bodyStart : l.pos+end]
	l.pos += end + len("*)")
	return Trivia{Kind: kind, Lines: commentLines(body), Loc: l.loc(start, l.pos)}
}

func commentLines(body string) []string {
	var lines []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// token scans a single token. It returns false after reporting an error,
// having skipped the offending input.
func (l *lexer) token() (Token, bool) {
	start := l.pos
	r := l.peek()
	switch {
	case r == '_' || unicode.IsLetter(r):
		return l.identifier()
	case r >= '0' && r <= '9':
		return l.number(), true
	case r == '\'':
		return l.character()
	}

	kind := TokenEOF
	switch r {
	case ':':
		kind = TokenColon
		if l.peekAt(1) == '=' {
			kind = TokenDefEq
		}
	case '?':
		kind = TokenQuestion
		if l.peekAt(1) == ':' {
			kind = TokenTypeOfOp
		}
	case '(':
		kind = TokenLParen
	case ')':
		kind = TokenRParen
	case '$':
		kind = TokenDollar
	case '.':
		kind = TokenCommandEnd
	default:
		l.advance()
		l.fail(ErrLexerUnknown(l.text[start:l.pos], l.loc(start, l.pos)))
		return Token{}, false
	}
	l.pos += len(operators[kind])
	return Token{Kind: kind, Text: l.text[start:l.pos], Loc: l.loc(start, l.pos)}, true
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// identifier scans `_* letter (letter | digit | _)* '*`, or the bare
// wildcard `_`.
func (l *lexer) identifier() (Token, bool) {
	start := l.pos
	for l.pos < len(l.text) && l.text[l.pos] == '_' {
		l.pos++
	}
	if !unicode.IsLetter(l.peek()) {
		if l.pos-start == 1 && !isIdentRune(l.peek()) {
			return Token{Kind: TokenIdent, Text: "_", Loc: l.loc(start, l.pos), Ident: "_"}, true
		}
		found := l.found()
		for l.pos < len(l.text) && isIdentRune(l.peek()) {
			l.advance()
		}
		l.fail(ErrLexerExpected("letter", found, l.loc(start, l.pos)))
		return Token{}, false
	}
	for l.pos < len(l.text) && isIdentRune(l.peek()) {
		l.advance()
	}
	for l.pos < len(l.text) && l.text[l.pos] == '\'' {
		l.pos++
	}
	text := l.text[start:l.pos]
	tok := Token{Kind: TokenIdent, Text: text, Loc: l.loc(start, l.pos), Ident: text}
	if kw, ok := keywords[text]; ok {
		tok.Kind = kw
	}
	return tok, true
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return 99
}

func basePrefix(c byte) int {
	switch c {
	case 'x', 'X':
		return 16
	case 'o', 'O':
		return 8
	case 'b', 'B':
		return 2
	}
	return 0
}

func (l *lexer) number() Token {
	start := l.pos
	base := 10
	digitsStart := l.pos
	if l.peekAt(0) == '0' {
		if b := basePrefix(l.peekAt(1)); b != 0 && digitValue(l.peekAt(2)) < b {
			base = b
			l.pos += 2
			digitsStart = l.pos
		}
	}

	lastDigit := l.pos
	for l.pos < len(l.text) {
		c := l.text[l.pos]
		if c == '_' {
			l.pos++
			continue
		}
		if digitValue(c) >= base {
			break
		}
		l.pos++
		lastDigit = l.pos
	}
	// underscores must sit between digits
	l.pos = lastDigit

	digits := strings.ReplaceAll(l.text[digitsStart:l.pos], "_", "")
	n, _ := new(big.Int).SetString(digits, base)
	return Token{
		Kind:   TokenNumber,
		Text:   l.text[start:l.pos],
		Loc:    l.loc(start, l.pos),
		Number: n,
		Base:   base,
	}
}

func (l *lexer) character() (Token, bool) {
	start := l.pos
	l.pos++ // opening quote

	if l.pos >= len(l.text) || l.peek() == '\n' {
		l.fail(ErrLexerExpected("character", l.found(), l.loc(start, l.pos)))
		return Token{}, false
	}

	var c rune
	if l.peekAt(0) == '\\' {
		var ok bool
		c, ok = l.escape()
		if !ok {
			return Token{}, false
		}
	} else {
		c = l.advance()
		if c == '\'' {
			l.fail(ErrLexerExpected("character", "'", l.loc(start, l.pos)))
			return Token{}, false
		}
	}

	if l.peekAt(0) != '\'' {
		found := l.found()
		l.fail(ErrLexerExpected("'", found, l.loc(start, min(l.pos+len(found), len(l.text)))))
		return Token{}, false
	}
	l.pos++
	return Token{Kind: TokenChar, Text: l.text[start:l.pos], Loc: l.loc(start, l.pos), Char: c}, true
}

func (l *lexer) escape() (rune, bool) {
	start := l.pos
	l.pos++ // backslash
	if l.pos >= len(l.text) {
		l.fail(ErrLexerExpected("escape sequence", "end of input", l.loc(start, l.pos)))
		return 0, false
	}
	c := l.advance()
	switch c {
	case '\\', '"', '\'':
		return c, true
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 't':
		return '\t', true
	case 'x':
		return l.codepoint(start, 16, 2, 2)
	case 'o':
		return l.codepoint(start, 8, 3, 3)
	case 'u':
		if l.peekAt(0) != '{' {
			l.fail(ErrLexerExpected("{", l.found(), l.loc(start, l.pos)))
			return 0, false
		}
		l.pos++
		r, ok := l.codepoint(start, 16, 1, 6)
		if !ok {
			return 0, false
		}
		if l.peekAt(0) != '}' {
			l.fail(ErrLexerExpected("}", l.found(), l.loc(start, l.pos)))
			return 0, false
		}
		l.pos++
		return r, true
	}
	if c >= '0' && c <= '9' {
		l.pos--
		return l.codepoint(start, 10, 3, 3)
	}
	l.fail(ErrLexerExpected("escape sequence", `\`+string(c), l.loc(start, l.pos)))
	return 0, false
}

// codepoint reads between minDigits and maxDigits digits of base.
func (l *lexer) codepoint(start, base, minDigits, maxDigits int) (rune, bool) {
	digitsStart := l.pos
	for l.pos-digitsStart < maxDigits && l.pos < len(l.text) && digitValue(l.text[l.pos]) < base {
		l.pos++
	}
	digits := l.text[digitsStart:l.pos]
	if len(digits) < minDigits {
		l.fail(ErrLexerExpected("digit", l.found(), l.loc(start, l.pos)))
		return 0, false
	}
	v, err := strconv.ParseUint(digits, base, 32)
	if err != nil || v > unicode.MaxRune {
		l.fail(ErrLexerExpected("code point", l.text[start:l.pos], l.loc(start, l.pos)))
		return 0, false
	}
	return rune(v), true
}
