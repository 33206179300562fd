package term

import "fmt"

// ParseError reports input that violates the expression grammar.
type ParseError struct {
	Input string
	Pos   Position
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d col %d: %s", e.Pos.Line, e.Pos.Col, e.Msg)
}

// Parser consumes tokens produced by the lexer and builds a Term.
type Parser struct {
	input   string
	tokens  []Token
	current int
}

// NewParser creates a new Parser over the tokens of input.
func NewParser(input string, tokens []Token) *Parser {
	return &Parser{
		input:  input,
		tokens: tokens,
	}
}

// Parse parses exactly one term. Trailing tokens are an error.
func (p *Parser) Parse() (Term, error) {
	t, err := p.parseTerm()
	if err != nil {
		return Term{}, err
	}
	if tok := p.peek(); tok.Type != TokenEOF {
		return Term{}, p.errorf(tok, "unexpected %s %q after expression", tok.Type, tok.Value)
	}
	return t, nil
}

func (p *Parser) parseTerm() (Term, error) {
	tok := p.next()
	switch tok.Type {
	case TokenSymbol:
		return Leaf(tok.Value), nil
	case TokenLParen:
		return p.parseApplication(tok)
	case TokenRParen:
		return Term{}, p.errorf(tok, "unexpected ')'")
	default:
		return Term{}, p.errorf(tok, "unexpected end of input")
	}
}

// parseApplication parses the remainder of "(op child...)" after the opening paren.
func (p *Parser) parseApplication(open Token) (Term, error) {
	head := p.next()
	switch head.Type {
	case TokenSymbol:
	case TokenRParen:
		return Term{}, p.errorf(open, "empty list '()'")
	case TokenEOF:
		return Term{}, p.errorf(open, "unclosed '('")
	default:
		return Term{}, p.errorf(head, "operator must be a symbol, found %s", head.Type)
	}

	t := Term{Op: head.Value}
	for {
		switch tok := p.peek(); tok.Type {
		case TokenRParen:
			p.next()
			return t, nil
		case TokenEOF:
			return Term{}, p.errorf(open, "unclosed '('")
		default:
			child, err := p.parseTerm()
			if err != nil {
				return Term{}, err
			}
			t.Children = append(t.Children, child)
		}
	}
}

func (p *Parser) next() Token {
	tok := p.tokens[p.current]
	if tok.Type != TokenEOF {
		p.current++
	}
	return tok
}

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

func (p *Parser) errorf(tok Token, format string, args ...any) *ParseError {
	return &ParseError{
		Input: p.input,
		Pos:   tok.Position,
		Msg:   fmt.Sprintf(format, args...),
	}
}

// Parse parses input as a single term.
func Parse(input string) (Term, error) {
	tokens := NewLexer(input).Tokenize()
	return NewParser(input, tokens).Parse()
}

// MustParse is like Parse but panics on malformed input.
// It is meant for terms written into source code.
func MustParse(input string) Term {
	t, err := Parse(input)
	if err != nil {
		panic(fmt.Sprintf("term: MustParse(%q): %v", input, err))
	}
	return t
}
