package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTypes(tokens []Token) []TokenType {
	out := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func TestTokenize_SingleCharAndOperators(t *testing.T) {
	tokens, err := New("( ) { } ; - + / * % ! < > != == <= >=").Tokenize()
	require.NoError(t, err)
	assert.Equal(t, []TokenType{
		TokenLParen, TokenRParen, TokenLBrace, TokenRBrace, TokenSemicolon,
		TokenMinus, TokenPlus, TokenSlash, TokenStar, TokenPercent, TokenBang,
		TokenLess, TokenGreater, TokenBangEqual, TokenEqualEqual,
		TokenLessEqual, TokenGreaterEqual, TokenEnd,
	}, tokenTypes(tokens))
}

func TestTokenize_Keywords(t *testing.T) {
	tokens, err := New("var False True if else nil return print while expr").Tokenize()
	require.NoError(t, err)
	assert.Equal(t, []TokenType{
		TokenVar, TokenFalse, TokenTrue, TokenIf, TokenElse, TokenNil,
		TokenReturn, TokenPrint, TokenWhile, TokenExpr, TokenEnd,
	}, tokenTypes(tokens))
}

func TestTokenize_IdentifierAndNumber(t *testing.T) {
	tokens, err := New("x 42").Tokenize()
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, TokenIdentifier, tokens[0].Type)
	assert.Equal(t, "x", tokens[0].Lexeme)
	assert.Equal(t, TokenNumber, tokens[1].Type)
	assert.Equal(t, float64(42), tokens[1].Number)
}

func TestTokenize_String(t *testing.T) {
	tokens, err := New(`"hello"`).Tokenize()
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, TokenString, tokens[0].Type)
	assert.Equal(t, "hello", tokens[0].Lexeme)
}

func TestTokenize_UnterminatedStringErrors(t *testing.T) {
	_, err := New(`"oops`).Tokenize()
	require.Error(t, err)
	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
}

func TestTokenize_EmptyStringErrors(t *testing.T) {
	_, err := New(`""`).Tokenize()
	require.Error(t, err)
}

func TestTokenize_UnexpectedCharacterErrors(t *testing.T) {
	_, err := New("@").Tokenize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected character")
}

func TestTokenize_LineAndColumnTracking(t *testing.T) {
	tokens, err := New("var\nx = 1;").Tokenize()
	require.NoError(t, err)
	// "var" on line 1
	assert.Equal(t, 1, tokens[0].Line)
	// "x" starts line 2, column 1
	assert.Equal(t, 2, tokens[1].Line)
	assert.Equal(t, 1, tokens[1].Column)
}

func TestTokenize_EachBranchBuildsOneToken(t *testing.T) {
	// Regression against a shadowed-variable bug class: every token in a
	// run of distinct operators must come back with its own correct
	// lexeme, not a copy of a neighbor's.
	tokens, err := New("= == ! !=").Tokenize()
	require.NoError(t, err)
	require.Len(t, tokens, 5)
	assert.Equal(t, "=", tokens[0].Lexeme)
	assert.Equal(t, "==", tokens[1].Lexeme)
	assert.Equal(t, "!", tokens[2].Lexeme)
	assert.Equal(t, "!=", tokens[3].Lexeme)
}
