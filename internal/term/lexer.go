package term

import "unicode"

// TokenType defines different types of tokens that can be produced by the lexer.
type TokenType int

const (
	TokenSymbol TokenType = iota // operator, constant or variable name
	TokenLParen                  // '('
	TokenRParen                  // ')'
	TokenEOF                     // end of input
)

func (t TokenType) String() string {
	switch t {
	case TokenSymbol:
		return "symbol"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenEOF:
		return "end of input"
	default:
		return "unknown"
	}
}

// Position is a location in the input. Line and Col are 1-based.
type Position struct {
	Offset int
	Line   int
	Col    int
}

// Token represents a single lexical token with type, value, and position.
type Token struct {
	Type     TokenType
	Value    string
	Position Position
}

// Lexer is responsible for scanning the input string and producing tokens.
type Lexer struct {
	input    string
	position int
	line     int
	col      int
	tokens   []Token
}

// NewLexer returns a new Lexer with the given input and initializes state.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		line:   1,
		col:    1,
		tokens: make([]Token, 0),
	}
}

// Tokenize processes the entire input and produces the list of tokens.
// The last token is always TokenEOF.
func (l *Lexer) Tokenize() []Token {
	for l.position < len(l.input) {
		c := l.input[l.position]
		switch {
		case c == '(':
			l.addToken(TokenLParen, "(")
			l.advance()
		case c == ')':
			l.addToken(TokenRParen, ")")
			l.advance()
		case isWhitespace(c):
			l.advance()
		default:
			// position incrementing is handled inside `lexSymbol`
			l.lexSymbol()
		}
	}

	l.addToken(TokenEOF, "")
	return l.tokens
}

// lexSymbol scans consecutive non-paren, non-whitespace characters.
func (l *Lexer) lexSymbol() {
	start := l.pos()
	begin := l.position
	for l.position < len(l.input) {
		c := l.input[l.position]
		if c == '(' || c == ')' || isWhitespace(c) {
			break
		}
		l.advance()
	}
	l.tokens = append(l.tokens, Token{
		Type:     TokenSymbol,
		Value:    l.input[begin:l.position],
		Position: start,
	})
}

func (l *Lexer) advance() {
	if l.input[l.position] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.position++
}

func (l *Lexer) pos() Position {
	return Position{Offset: l.position, Line: l.line, Col: l.col}
}

// addToken is a helper to append a new token at the current position.
func (l *Lexer) addToken(tokenType TokenType, value string) {
	l.tokens = append(l.tokens, Token{
		Type:     tokenType,
		Value:    value,
		Position: l.pos(),
	})
}

// isWhitespace checks if the given byte is a space, tab, newline, etc. using unicode.IsSpace.
func isWhitespace(c byte) bool {
	return unicode.IsSpace(rune(c))
}
