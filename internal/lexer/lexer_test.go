package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p4fc/p4fc/internal/token"
)

func collect(src string) []token.Token {
	l := New(src)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return toks
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	toks := collect("header control myHeader")
	require.Len(t, toks, 4)
	assert.Equal(t, token.KW_HEADER, toks[0].Type)
	assert.Equal(t, token.KW_CONTROL, toks[1].Type)
	assert.Equal(t, token.IDENT, toks[2].Type)
	assert.Equal(t, "myHeader", toks[2].Lexeme)
	assert.Equal(t, token.EOF, toks[3].Type)
}

func TestDontCareIsDistinctFromIdent(t *testing.T) {
	toks := collect("_ foo_bar")
	assert.Equal(t, token.KW_DONTCARE, toks[0].Type)
	assert.Equal(t, token.IDENT, toks[1].Type)
}

func TestBooleanLiterals(t *testing.T) {
	toks := collect("true false")
	assert.Equal(t, token.BOOL_LITERAL, toks[0].Type)
	assert.Equal(t, token.BOOL_LITERAL, toks[1].Type)
}

func TestIntegerLiteralWidthSuffix(t *testing.T) {
	toks := collect("8w255 16s10 42")
	require.GreaterOrEqual(t, len(toks), 3)

	a := toks[0]
	assert.Equal(t, token.INT_LITERAL, a.Type)
	assert.True(t, a.IntHasWidth)
	assert.Equal(t, 8, a.IntWidth)
	assert.False(t, a.IntSigned)

	b := toks[1]
	assert.True(t, b.IntHasWidth)
	assert.Equal(t, 16, b.IntWidth)
	assert.True(t, b.IntSigned)

	c := toks[2]
	assert.False(t, c.IntHasWidth)
}

func TestHexOctBinPrefixes(t *testing.T) {
	toks := collect("0xFF 0o17 0b1010")
	for i := 0; i < 3; i++ {
		assert.Equal(t, token.INT_LITERAL, toks[i].Type, "token %d", i)
	}
	assert.Equal(t, "0xFF", toks[0].Lexeme)
}

func TestDigitsFollowedByLetterSplitIntoTwoTokens(t *testing.T) {
	// "x" is not a width marker (only w/s are), so "8x10" is the integer
	// literal "8" followed by the identifier "x10", not one token.
	toks := collect("8x10")
	require.Len(t, toks, 3)
	assert.Equal(t, token.INT_LITERAL, toks[0].Type)
	assert.Equal(t, "8", toks[0].Lexeme)
	assert.Equal(t, token.IDENT, toks[1].Type)
	assert.Equal(t, "x10", toks[1].Lexeme)
}

func TestStringLiteral(t *testing.T) {
	toks := collect(`"hello world"`)
	require.Equal(t, token.STRING_LITERAL, toks[0].Type)
	assert.Equal(t, "hello world", toks[0].Literal)
}

func TestUnterminatedStringIsIllegal(t *testing.T) {
	toks := collect(`"oops`)
	assert.Equal(t, token.ILLEGAL, toks[0].Type)
}

func TestLineAndBlockCommentsSkipped(t *testing.T) {
	toks := collect("a // comment\n/* block */ b")
	require.Len(t, toks, 3)
	assert.Equal(t, "a", toks[0].Lexeme)
	assert.Equal(t, "b", toks[1].Lexeme)
}

func TestMultiCharOperators(t *testing.T) {
	toks := collect("<= >= == != && || << >> ++ ...")
	want := []token.Type{
		token.LE, token.GE, token.EQ, token.NEQ, token.AND, token.OR,
		token.SHL, token.SHR, token.PLUSPLUS, token.DOTDOTDOT, token.EOF,
	}
	require.Len(t, toks, len(want))
	for i, w := range want {
		assert.Equal(t, w, toks[i].Type, "token %d", i)
	}
}

func TestPositionsTrackLineAndColumn(t *testing.T) {
	toks := collect("a\nb")
	assert.Equal(t, 1, toks[0].Pos.Line)
	assert.Equal(t, 2, toks[1].Pos.Line)
}

func TestIllegalCharacter(t *testing.T) {
	toks := collect("$")
	assert.Equal(t, token.ILLEGAL, toks[0].Type)
}
