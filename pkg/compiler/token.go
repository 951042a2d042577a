package compiler

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	ILLEGAL TokenType = iota

	VARIABLE // one of a..g
	ZERO     // synthesized left operand of a unary minus

	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	PERCENT // %

	LPAREN // (
	RPAREN // )
)

var tokenNames = [...]string{
	ILLEGAL:  "ILLEGAL",
	VARIABLE: "VARIABLE",
	ZERO:     "ZERO",
	PLUS:     "PLUS",
	MINUS:    "MINUS",
	STAR:     "STAR",
	SLASH:    "SLASH",
	PERCENT:  "PERCENT",
	LPAREN:   "LPAREN",
	RPAREN:   "RPAREN",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// IsOperator reports whether tt is one of the five binary operators.
func (tt TokenType) IsOperator() bool {
	return tt >= PLUS && tt <= PERCENT
}

// precedence of binary operators; all are left-associative.
func (tt TokenType) precedence() int {
	switch tt {
	case PLUS, MINUS:
		return 1
	case STAR, SLASH, PERCENT:
		return 2
	}
	return 0
}

// Token is a single lexical unit. Tokens are values and are never mutated
// once produced.
type Token struct {
	Type   TokenType
	Lexeme string // source text; "0" for ZERO
	Pos    int    // 0-based offset in the expression, -1 when synthesized
}

func (t Token) String() string {
	return t.Lexeme
}

// Variables is the fixed operand namespace, in data-section order.
const Variables = "abcdefg"

func isVariable(r rune) bool {
	return r >= 'a' && r <= 'g'
}

var zeroToken = Token{Type: ZERO, Lexeme: "0", Pos: -1}
