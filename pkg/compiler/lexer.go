package compiler

import (
	"unicode"
	"unicode/utf8"
)

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src   string
	depth int // open parentheses
}

func newLexer(src string) *Lexer {
	return &Lexer{src: src}
}

var symbols = map[rune]TokenType{
	'+': PLUS,
	'-': MINUS,
	'*': STAR,
	'/': SLASH,
	'%': PERCENT,
	'(': LPAREN,
	')': RPAREN,
}

// Tokenize scans an expression (the text after "result =") into tokens.
func Tokenize(src string) ([]Token, error) {
	return newLexer(src).tokenize()
}

func (l *Lexer) tokenize() ([]Token, error) {
	var tokens []Token

	// i counts characters, not bytes.
	i := -1
	for off, r := range l.src {
		i++
		if unicode.IsSpace(r) {
			continue
		}
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(l.src[off:]); size == 1 {
				return nil, &Error{Kind: InvalidCharacter, Char: r, Pos: i, Detail: "invalid UTF-8"}
			}
		}

		if isVariable(r) {
			tokens = append(tokens, Token{Type: VARIABLE, Lexeme: string(r), Pos: i})
			continue
		}

		tt, ok := symbols[r]
		if !ok {
			return nil, &Error{Kind: InvalidCharacter, Char: r, Pos: i}
		}

		switch tt {
		case LPAREN:
			l.depth++
		case RPAREN:
			l.depth--
			if l.depth < 0 {
				return nil, newError(UnmatchedCloseParen, i, "")
			}
		}
		tokens = append(tokens, Token{Type: tt, Lexeme: string(r), Pos: i})
	}

	if l.depth != 0 {
		return nil, newError(UnmatchedOpenParen, -1, "")
	}
	if len(tokens) == 0 {
		return nil, newError(EmptyExpression, -1, "")
	}

	return tokens, nil
}
