package start

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexOne(t *testing.T, text string) []Token {
	t.Helper()
	tokens, _, diags := Lex(FileSource("test.st"), 0, text)
	require.Empty(t, diags)
	return tokens
}

func kinds(tokens []Token) []TokenKind {
	ks := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		ks[i] = tok.Kind
	}
	return ks
}

func TestLexDefinition(t *testing.T) {
	tokens := lexOne(t, "Definition a : N0 := 42.")
	assert.Equal(t, []TokenKind{
		TokenDefinition, TokenIdent, TokenColon, TokenIdent, TokenDefEq, TokenNumber, TokenCommandEnd,
	}, kinds(tokens))
	assert.Equal(t, "a", tokens[1].Ident)
	assert.Equal(t, "42", tokens[5].Number.String())
	assert.Equal(t, Location{Source: FileSource("test.st"), Start: 21, End: 23}, tokens[5].Loc)
}

func TestLexStopsAtCommandEnd(t *testing.T) {
	text := "Eval a. Eval b."
	tokens, next, diags := Lex(FileSource("test.st"), 0, text)
	require.Empty(t, diags)
	assert.Len(t, tokens, 3)
	assert.Equal(t, 7, next)

	tokens, next, diags = Lex(FileSource("test.st"), next, text[next:])
	require.Empty(t, diags)
	require.Len(t, tokens, 3)
	assert.Equal(t, "b", tokens[1].Ident)
	assert.Equal(t, 13, tokens[1].Loc.Start)
	assert.Equal(t, len(text), next)
}

func TestLexIncompleteCommandEndsWithEOF(t *testing.T) {
	tokens := lexOne(t, "Eval a (* trailing *)")
	assert.Equal(t, []TokenKind{TokenEval, TokenIdent, TokenEOF}, kinds(tokens))
	eof := tokens[2]
	require.Len(t, eof.Leading, 1)
	assert.Equal(t, []string{"trailing"}, eof.Leading[0].Lines)
}

func TestLexKeywordsNeedExactSpelling(t *testing.T) {
	tokens := lexOne(t, "Definitions Eval' TypeOf eval.")
	assert.Equal(t, []TokenKind{TokenIdent, TokenIdent, TokenTypeOf, TokenIdent, TokenCommandEnd}, kinds(tokens))
	assert.Equal(t, "Eval'", tokens[1].Ident)
}

func TestLexOperators(t *testing.T) {
	tokens := lexOne(t, "?: ? := : $ ( ) .")
	assert.Equal(t, []TokenKind{
		TokenTypeOfOp, TokenQuestion, TokenDefEq, TokenColon, TokenDollar, TokenLParen, TokenRParen, TokenCommandEnd,
	}, kinds(tokens))
}

func TestLexNumbers(t *testing.T) {
	for _, tc := range []struct {
		text  string
		value string
		base  int
	}{
		{"0", "0", 10},
		{"1_000_000", "1000000", 10},
		{"0xff", "255", 16},
		{"0XDead_Beef", "3735928559", 16},
		{"0o17", "15", 8},
		{"0b1010", "10", 2},
		{"123456789012345678901234567890", "123456789012345678901234567890", 10},
	} {
		t.Run(tc.text, func(t *testing.T) {
			tokens := lexOne(t, "Eval "+tc.text+".")
			require.Equal(t, TokenNumber, tokens[1].Kind)
			assert.Equal(t, tc.value, tokens[1].Number.String())
			assert.Equal(t, tc.base, tokens[1].Base)
			assert.Equal(t, tc.text, tokens[1].Text)
		})
	}
}

func TestLexTrailingUnderscoreIsNotPartOfNumber(t *testing.T) {
	tokens := lexOne(t, "Eval 12_.")
	assert.Equal(t, []TokenKind{TokenEval, TokenNumber, TokenIdent, TokenCommandEnd}, kinds(tokens))
	assert.Equal(t, "12", tokens[1].Text)
	assert.Equal(t, "_", tokens[2].Ident)
}

func TestLexIdentifiersNeedALetter(t *testing.T) {
	tokens := lexOne(t, "Eval __Type_Nat__ _a1' _.")
	assert.Equal(t, []TokenKind{TokenEval, TokenIdent, TokenIdent, TokenIdent, TokenCommandEnd}, kinds(tokens))
	assert.Equal(t, "__Type_Nat__", tokens[1].Ident)
	assert.Equal(t, "_a1'", tokens[2].Ident)
	assert.Equal(t, "_", tokens[3].Ident)

	for _, text := range []string{"Eval _1.", "Eval __."} {
		_, next, diags := Lex(FileSource("test.st"), 0, text)
		require.Len(t, diags, 1, text)
		assert.Equal(t, CodeLexerExpected, diags[0].Code)
		assert.Equal(t, 5, diags[0].Loc.Start)
		assert.Equal(t, 7, diags[0].Loc.End)
		assert.Equal(t, len(text), next)
	}
}

func TestLexCharacters(t *testing.T) {
	for _, tc := range []struct {
		text string
		char rune
	}{
		{`'z'`, 'z'},
		{`'é'`, 'é'},
		{`'\n'`, '\n'},
		{`'\''`, '\''},
		{`'\\'`, '\\'},
		{`'\x41'`, 'A'},
		{`'\o101'`, 'A'},
		{`'\065'`, 'A'},
		{`'\u{1F600}'`, '\U0001F600'},
	} {
		t.Run(tc.text, func(t *testing.T) {
			tokens := lexOne(t, "Eval "+tc.text+".")
			require.Equal(t, TokenChar, tokens[1].Kind)
			assert.Equal(t, tc.char, tokens[1].Char)
		})
	}
}

func TestLexQuotedCharacters(t *testing.T) {
	for _, c := range []rune{'z', '\n', '\'', 0x00, 0x07, 0x1b, 0x7f, 0x85, 0x200b, 0xfeff} {
		text := quoteChar(c)
		tokens := lexOne(t, "Eval "+text+".")
		require.Equal(t, TokenChar, tokens[1].Kind, text)
		assert.Equal(t, c, tokens[1].Char, text)
	}
}

func TestLexTrivia(t *testing.T) {
	text := "Eval a.\n\n\n(* one\n   two *)\n(** doc *)\nDefinition b := 1."
	_, next, _ := Lex(FileSource("test.st"), 0, text)
	tokens := lexOne(t, text[next:])

	kw := tokens[0]
	require.Equal(t, TokenDefinition, kw.Kind)
	require.Len(t, kw.Leading, 3)
	assert.Equal(t, TriviaBlankLines, kw.Leading[0].Kind)
	assert.Equal(t, TriviaComment, kw.Leading[1].Kind)
	assert.Equal(t, []string{"one", "two"}, kw.Leading[1].Lines)
	assert.Equal(t, TriviaDoc, kw.Leading[2].Kind)

	doc, ok := kw.Doc()
	require.True(t, ok)
	assert.Equal(t, []string{"doc"}, doc)
}

func TestLexDocDetachedByLaterComment(t *testing.T) {
	tokens := lexOne(t, "(** doc *) (* note *) Definition a := 1.")
	_, ok := tokens[0].Doc()
	assert.False(t, ok)
}

func TestLexEmptyCommentIsNotDoc(t *testing.T) {
	tokens := lexOne(t, "(**) Eval 1.")
	require.Len(t, tokens[0].Leading, 1)
	assert.Equal(t, TriviaComment, tokens[0].Leading[0].Kind)
	assert.Empty(t, tokens[0].Leading[0].Lines)
}

func TestLexPartitionsSource(t *testing.T) {
	text := "(** doc *)\nType N0 := __Type_Nat__.\n\n(* c *)  Definition   a : N0 := 0x2a.\nEval 'x'.  (* end *)\n"
	tokens, diags := LexAll(FileSource("test.st"), text)
	require.Empty(t, diags)

	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.LeadingText)
		b.WriteString(tok.Text)
	}
	assert.Equal(t, text, b.String())
}

func TestLexErrorsAccumulateUntilCommandEnd(t *testing.T) {
	text := "Eval # 1 ~. Eval 2."
	_, next, diags := Lex(FileSource("test.st"), 0, text)
	require.Len(t, diags, 2)
	assert.Equal(t, CodeLexerUnknown, diags[0].Code)
	assert.Equal(t, 5, diags[0].Loc.Start)
	assert.Equal(t, 9, diags[1].Loc.Start)
	assert.Equal(t, 11, next)
}

func TestLexUnterminatedCharacter(t *testing.T) {
	_, _, diags := Lex(FileSource("test.st"), 0, "Eval 'ab'.")
	require.NotEmpty(t, diags)
	assert.Equal(t, CodeLexerExpected, diags[0].Code)
	assert.Equal(t, `Lexer expected "'", found "b".`, diags[0].Body.String())
}

func TestLexUnterminatedComment(t *testing.T) {
	_, _, diags := Lex(FileSource("test.st"), 0, "Eval 1 (* never closed")
	require.Len(t, diags, 1)
	assert.Equal(t, CodeLexerExpected, diags[0].Code)
}

func TestDebugTokens(t *testing.T) {
	tokens := lexOne(t, "Definition x := 'c'.")
	assert.Equal(t, "[KEYWORD(Definition)] [IDENTIFIER(x)] [OPERATOR(:=)] [CHARACTER('c')] [END]", DebugTokens(tokens))
}
