package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer_Call(t *testing.T) {
	tokens, err := NewLexer(`slider(label = "Speed", min = -1.5, max = 10)`).Tokenize()
	require.NoError(t, err)

	expected := []struct {
		typ TokenType
		lit string
	}{
		{TokenIdent, "slider"},
		{TokenLParen, "("},
		{TokenIdent, "label"},
		{TokenEQ, "="},
		{TokenString, "Speed"},
		{TokenComma, ","},
		{TokenIdent, "min"},
		{TokenEQ, "="},
		{TokenMinus, "-"},
		{TokenFloat, "1.5"},
		{TokenComma, ","},
		{TokenIdent, "max"},
		{TokenEQ, "="},
		{TokenInt, "10"},
		{TokenRParen, ")"},
		{TokenEOF, ""},
	}

	require.Len(t, tokens, len(expected))
	for i, exp := range expected {
		assert.Equal(t, exp.typ, tokens[i].Type, "token %d type", i)
		assert.Equal(t, exp.lit, tokens[i].Literal, "token %d literal", i)
	}
}

func TestLexer_StringLiterals(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"hello"`, "hello"},
		{`'world'`, "world"},
		{`"with \"escape\""`, `with "escape"`},
		{`"line\nbreak"`, "line\nbreak"},
		{`'it\'s'`, "it's"},
		{`""`, ""},
	}

	for _, tt := range tests {
		tokens, err := NewLexer(tt.input).Tokenize()
		require.NoError(t, err, tt.input)
		require.Equal(t, TokenString, tokens[0].Type)
		assert.Equal(t, tt.expected, tokens[0].Literal)
	}
}

func TestLexer_Numbers(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
	}{
		{"42", TokenInt},
		{"0x1F", TokenInt},
		{"1_000", TokenInt},
		{"0.0", TokenFloat},
		{".5", TokenFloat},
		{"1e3", TokenFloat},
		{"2.5E-2", TokenFloat},
	}

	for _, tt := range tests {
		tokens, err := NewLexer(tt.input).Tokenize()
		require.NoError(t, err, tt.input)
		require.Len(t, tokens, 2, tt.input)
		assert.Equal(t, tt.typ, tokens[0].Type, tt.input)
		assert.Equal(t, tt.input, tokens[0].Literal)
	}
}

func TestLexer_DottedIdent(t *testing.T) {
	tokens, err := NewLexer("widget.NoSelection").Tokenize()
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, TokenIdent, tokens[0].Type)
	assert.Equal(t, "widget.NoSelection", tokens[0].Literal)
}

func TestLexer_Positions(t *testing.T) {
	tokens, err := NewLexer("drag(\n  min = 1)").Tokenize()
	require.NoError(t, err)

	assert.Equal(t, 1, tokens[0].Line)
	assert.Equal(t, 1, tokens[0].Col)
	assert.Equal(t, 2, tokens[2].Line)
	assert.Equal(t, 3, tokens[2].Col)
	assert.Equal(t, 8, tokens[2].Pos)
}

func TestLexer_Errors(t *testing.T) {
	_, err := NewLexer(`label = "open`).Tokenize()
	require.Error(t, err)
	lexErr, ok := err.(*LexError)
	require.True(t, ok)
	assert.Equal(t, "unterminated string", lexErr.Message)
	assert.Equal(t, 9, lexErr.Tok.Col)

	_, err = NewLexer(`drag; slider`).Tokenize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected character ';'")
}
