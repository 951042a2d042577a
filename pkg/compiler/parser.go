package compiler

import "strings"

// Parser converts an infix token slice into postfix order.
type Parser struct {
	tokens []Token
	pos    int
	out    []Token
	ops    []Token
}

func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// ToPostfix reorders tokens into Reverse-Polish order. A unary minus emits
// a 0 operand and is then pushed as an ordinary binary '-', so "-a * b"
// becomes "0 a b * -". A unary plus is dropped.
func ToPostfix(tokens []Token) ([]Token, error) {
	return NewParser(tokens).Parse()
}

func (p *Parser) Parse() ([]Token, error) {
	for p.pos = 0; p.pos < len(p.tokens); p.pos++ {
		tok := p.tokens[p.pos]

		switch {
		case tok.Type == VARIABLE || tok.Type == ZERO:
			p.out = append(p.out, tok)

		case tok.Type.IsOperator():
			if p.isUnaryPosition() && (tok.Type == PLUS || tok.Type == MINUS) {
				if err := p.unary(tok); err != nil {
					return nil, err
				}
				continue
			}
			p.popWhile(tok.Type.precedence())
			p.ops = append(p.ops, tok)

		case tok.Type == LPAREN:
			p.ops = append(p.ops, tok)

		case tok.Type == RPAREN:
			if err := p.closeParen(tok); err != nil {
				return nil, err
			}

		default:
			return nil, &Error{Kind: InvalidCharacter, Char: firstRune(tok.Lexeme), Pos: tok.Pos}
		}
	}

	for len(p.ops) > 0 {
		top := p.ops[len(p.ops)-1]
		p.ops = p.ops[:len(p.ops)-1]
		if top.Type == LPAREN {
			return nil, newError(UnmatchedOpenParen, top.Pos, "")
		}
		p.out = append(p.out, top)
	}

	if len(p.out) == 0 {
		return nil, newError(EmptyResult, -1, "")
	}
	return p.out, nil
}

// isUnaryPosition is true at the start, after '(' and after an operator.
func (p *Parser) isUnaryPosition() bool {
	if p.pos == 0 {
		return true
	}
	prev := p.tokens[p.pos-1].Type
	return prev == LPAREN || prev.IsOperator()
}

func (p *Parser) unary(tok Token) error {
	if p.pos+1 >= len(p.tokens) {
		return newError(DanglingUnaryOperator, tok.Pos, "nothing follows '"+tok.Lexeme+"'")
	}
	next := p.tokens[p.pos+1]
	if next.Type != VARIABLE && next.Type != LPAREN {
		return newError(DanglingUnaryOperator, tok.Pos, "'"+tok.Lexeme+"' followed by '"+next.Lexeme+"'")
	}
	if tok.Type == MINUS {
		p.out = append(p.out, zeroToken)
		p.ops = append(p.ops, tok)
	}
	return nil
}

// popWhile moves operators of precedence >= prec to the output, stopping at '('.
func (p *Parser) popWhile(prec int) {
	for len(p.ops) > 0 {
		top := p.ops[len(p.ops)-1]
		if top.Type == LPAREN || top.Type.precedence() < prec {
			return
		}
		p.out = append(p.out, top)
		p.ops = p.ops[:len(p.ops)-1]
	}
}

func (p *Parser) closeParen(tok Token) error {
	for len(p.ops) > 0 {
		top := p.ops[len(p.ops)-1]
		p.ops = p.ops[:len(p.ops)-1]
		if top.Type == LPAREN {
			return nil
		}
		p.out = append(p.out, top)
	}
	return newError(UnmatchedCloseParen, tok.Pos, "")
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

// FormatTokens joins lexemes with single spaces, e.g. "a b + c -".
func FormatTokens(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.Lexeme
	}
	return strings.Join(parts, " ")
}
