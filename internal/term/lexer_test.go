package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLexer(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "empty input",
			input: "",
			expected: []Token{
				{Type: TokenEOF, Position: Position{Offset: 0, Line: 1, Col: 1}},
			},
		},
		{
			name:  "bare symbol",
			input: "?a",
			expected: []Token{
				{Type: TokenSymbol, Value: "?a", Position: Position{Offset: 0, Line: 1, Col: 1}},
				{Type: TokenEOF, Position: Position{Offset: 2, Line: 1, Col: 3}},
			},
		},
		{
			name:  "application",
			input: "(^-1 a)",
			expected: []Token{
				{Type: TokenLParen, Value: "(", Position: Position{Offset: 0, Line: 1, Col: 1}},
				{Type: TokenSymbol, Value: "^-1", Position: Position{Offset: 1, Line: 1, Col: 2}},
				{Type: TokenSymbol, Value: "a", Position: Position{Offset: 5, Line: 1, Col: 6}},
				{Type: TokenRParen, Value: ")", Position: Position{Offset: 6, Line: 1, Col: 7}},
				{Type: TokenEOF, Position: Position{Offset: 7, Line: 1, Col: 8}},
			},
		},
		{
			name:  "newlines advance line numbers",
			input: "(f\n  x)",
			expected: []Token{
				{Type: TokenLParen, Value: "(", Position: Position{Offset: 0, Line: 1, Col: 1}},
				{Type: TokenSymbol, Value: "f", Position: Position{Offset: 1, Line: 1, Col: 2}},
				{Type: TokenSymbol, Value: "x", Position: Position{Offset: 5, Line: 2, Col: 3}},
				{Type: TokenRParen, Value: ")", Position: Position{Offset: 6, Line: 2, Col: 4}},
				{Type: TokenEOF, Position: Position{Offset: 7, Line: 2, Col: 5}},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, NewLexer(tt.input).Tokenize())
		})
	}
}
