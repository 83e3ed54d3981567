package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/lox/internal/token"
)

func typesOf(tokens []token.Token) []token.Type {
	out := make([]token.Type, len(tokens))
	for i, t := range tokens {
		out[i] = t.Type
	}
	return out
}

func TestScanTokensAlwaysEndsInEOF(t *testing.T) {
	tokens, errs := New("").ScanTokens()
	require.Empty(t, errs)
	require.Len(t, tokens, 1)
	assert.Equal(t, token.EOF, tokens[0].Type)
}

func TestScanSingleAndDoubleCharOperators(t *testing.T) {
	tokens, errs := New("! != = == < <= > >=").ScanTokens()
	require.Empty(t, errs)
	assert.Equal(t, []token.Type{
		token.BANG, token.BANG_EQUAL, token.EQUAL, token.EQUAL_EQUAL,
		token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL,
		token.EOF,
	}, typesOf(tokens))
}

func TestScanLineCommentsAreIgnored(t *testing.T) {
	tokens, errs := New("// a comment\nvar x = 1;").ScanTokens()
	require.Empty(t, errs)
	assert.Equal(t, []token.Type{token.VAR, token.IDENTIFIER, token.EQUAL, token.NUMBER, token.SEMICOLON, token.EOF}, typesOf(tokens))
	// the statement is on line 2 because the comment's newline was counted
	assert.Equal(t, 2, tokens[0].Line)
}

func TestScanNumberLiterals(t *testing.T) {
	tokens, errs := New("123 45.67").ScanTokens()
	require.Empty(t, errs)
	require.Len(t, tokens, 3)
	assert.Equal(t, float64(123), tokens[0].Literal)
	assert.Equal(t, 45.67, tokens[1].Literal)
}

func TestScanNumberDoesNotConsumeTrailingDotWithoutDigit(t *testing.T) {
	// `1.` is NUMBER(1) DOT, not a malformed number - Lox requires a digit
	// on both sides of the decimal point.
	tokens, errs := New("1.").ScanTokens()
	require.Empty(t, errs)
	assert.Equal(t, []token.Type{token.NUMBER, token.DOT, token.EOF}, typesOf(tokens))
}

func TestScanStringLiteral(t *testing.T) {
	tokens, errs := New(`"hello world"`).ScanTokens()
	require.Empty(t, errs)
	require.Len(t, tokens, 2)
	assert.Equal(t, "hello world", tokens[0].Literal)
}

func TestScanMultilineStringTracksLineNumber(t *testing.T) {
	tokens, errs := New("\"line1\nline2\" ;").ScanTokens()
	require.Empty(t, errs)
	require.Len(t, tokens, 3)
	assert.Equal(t, 2, tokens[1].Line)
}

func TestScanUnterminatedStringReportsError(t *testing.T) {
	_, errs := New(`"never closes`).ScanTokens()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "Unterminated string")
}

func TestScanIdentifiersAndKeywords(t *testing.T) {
	tokens, errs := New("class fun for_loop").ScanTokens()
	require.Empty(t, errs)
	assert.Equal(t, []token.Type{token.CLASS, token.FUN, token.IDENTIFIER, token.EOF}, typesOf(tokens))
	assert.Equal(t, "for_loop", tokens[2].Lexeme)
}

func TestScanKeywordLiteralValues(t *testing.T) {
	tokens, errs := New("true false nil").ScanTokens()
	require.Empty(t, errs)
	assert.Equal(t, true, tokens[0].Literal)
	assert.Equal(t, false, tokens[1].Literal)
	assert.Nil(t, tokens[2].Literal)
}

func TestScanUnknownCharacterReportsErrorAndContinues(t *testing.T) {
	tokens, errs := New("1 $ 2").ScanTokens()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "Unexpected character")
	// scanning continues past the bad character and still finds both numbers
	assert.Equal(t, []token.Type{token.NUMBER, token.NUMBER, token.EOF}, typesOf(tokens))
}
