package compiler

import "fmt"

// ErrorKind enumerates the structural failures of a compilation.
type ErrorKind int

const (
	InvalidCharacter ErrorKind = iota + 1
	UnmatchedCloseParen
	UnmatchedOpenParen
	EmptyExpression
	DanglingUnaryOperator
	EmptyResult
	MissingOperand
	UnbalancedExpression
	MissingAssignment
	EmptyRightHandSide
)

var kindNames = [...]string{
	InvalidCharacter:      "InvalidCharacter",
	UnmatchedCloseParen:   "UnmatchedCloseParen",
	UnmatchedOpenParen:    "UnmatchedOpenParen",
	EmptyExpression:       "EmptyExpression",
	DanglingUnaryOperator: "DanglingUnaryOperator",
	EmptyResult:           "EmptyResult",
	MissingOperand:        "MissingOperand",
	UnbalancedExpression:  "UnbalancedExpression",
	MissingAssignment:     "MissingAssignment",
	EmptyRightHandSide:    "EmptyRightHandSide",
}

func (k ErrorKind) String() string {
	if int(k) > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is a structural compile error. Pos is a 0-based character (rune)
// index into the right-hand side, or -1 when the failure has no single
// location.
type Error struct {
	Kind   ErrorKind
	Char   rune
	Pos    int
	Detail string
}

// Sentinels for errors.Is; any *Error of the same Kind matches.
var (
	ErrInvalidCharacter      = &Error{Kind: InvalidCharacter, Pos: -1}
	ErrUnmatchedCloseParen   = &Error{Kind: UnmatchedCloseParen, Pos: -1}
	ErrUnmatchedOpenParen    = &Error{Kind: UnmatchedOpenParen, Pos: -1}
	ErrEmptyExpression       = &Error{Kind: EmptyExpression, Pos: -1}
	ErrDanglingUnaryOperator = &Error{Kind: DanglingUnaryOperator, Pos: -1}
	ErrEmptyResult           = &Error{Kind: EmptyResult, Pos: -1}
	ErrMissingOperand        = &Error{Kind: MissingOperand, Pos: -1}
	ErrUnbalancedExpression  = &Error{Kind: UnbalancedExpression, Pos: -1}
	ErrMissingAssignment     = &Error{Kind: MissingAssignment, Pos: -1}
	ErrEmptyRightHandSide    = &Error{Kind: EmptyRightHandSide, Pos: -1}
)

func newError(kind ErrorKind, pos int, detail string) *Error {
	return &Error{Kind: kind, Pos: pos, Detail: detail}
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case InvalidCharacter:
		msg = fmt.Sprintf("invalid character %q", e.Char)
	case UnmatchedCloseParen:
		msg = "unmatched ')'"
	case UnmatchedOpenParen:
		msg = "unmatched '('"
	case EmptyExpression:
		msg = "empty expression"
	case DanglingUnaryOperator:
		msg = "unary operator without operand"
	case EmptyResult:
		msg = "expression has no operands"
	case MissingOperand:
		msg = "operator is missing an operand"
	case UnbalancedExpression:
		msg = "unbalanced expression"
	case MissingAssignment:
		msg = "expected 'result = <expression>'"
	case EmptyRightHandSide:
		msg = "empty right-hand side after '='"
	default:
		msg = e.Kind.String()
	}
	if e.Pos >= 0 {
		msg += fmt.Sprintf(" at position %d", e.Pos)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}
