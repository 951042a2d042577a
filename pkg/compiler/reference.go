package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

// Env binds source variables to 8-bit signed values. Missing names read as 0.
type Env map[string]int8

// ParseEnv reads assignments like "a=1,b=-2". Values must fit in a signed byte.
func ParseEnv(s string) (Env, error) {
	env := Env{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("assignment %q must be name=value", part)
		}
		name = strings.TrimSpace(name)
		if _, ok := VarSlot(name); !ok {
			return nil, fmt.Errorf("unknown variable %q (want one of %s)", name, Variables)
		}
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 8)
		if err != nil {
			return nil, fmt.Errorf("value of %s: %w", name, err)
		}
		env[name] = int8(n)
	}
	return env, nil
}

// Result is the pair of cells a compiled program leaves behind.
type Result struct {
	Value int8
	Error bool
}

func (r Result) String() string {
	e := 0
	if r.Error {
		e = 1
	}
	return fmt.Sprintf("result=%d error=%d", r.Value, e)
}

// Evaluate computes what the program compiled from src stores in result
// and error, without generating code.
func Evaluate(src string, env Env) (Result, error) {
	out, err := Compile(src)
	if err != nil {
		return Result{}, err
	}
	return EvaluatePostfix(out.Postfix, env)
}

// EvaluatePostfix runs the 8-bit semantics over a postfix sequence. The
// first flagged operation ends evaluation with result 0 and error set.
func EvaluatePostfix(postfix []Token, env Env) (Result, error) {
	var stack []int

	for _, tok := range postfix {
		switch {
		case tok.Type == VARIABLE:
			stack = append(stack, int(env[tok.Lexeme]))
		case tok.Type == ZERO:
			stack = append(stack, 0)
		case tok.Type.IsOperator():
			if len(stack) < 2 {
				return Result{}, newError(MissingOperand, tok.Pos, "")
			}
			x, y := stack[len(stack)-2], stack[len(stack)-1]
			stack = stack[:len(stack)-2]
			v, ok := applyOp(tok.Type, x, y)
			if !ok {
				return Result{Error: true}, nil
			}
			stack = append(stack, v)
		default:
			return Result{}, newError(UnbalancedExpression, tok.Pos, "")
		}
	}

	if len(stack) != 1 {
		return Result{}, newError(UnbalancedExpression, -1, fmt.Sprintf("%d values left on the stack", len(stack)))
	}
	return Result{Value: int8(stack[0])}, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func inRange(v int) bool { return v >= -128 && v <= 127 }

// applyOp returns false when the operation raises the error flag.
func applyOp(op TokenType, x, y int) (int, bool) {
	switch op {
	case PLUS:
		s := x + y
		return s, inRange(s)
	case MINUS:
		d := x - y
		return d, inRange(d)
	case STAR:
		p := abs(x) * abs(y)
		if p >= 128 {
			return 0, false
		}
		if (x < 0) != (y < 0) {
			p = -p
		}
		return p, true
	case SLASH:
		if y == 0 {
			return 0, false
		}
		q := abs(x) / abs(y)
		if (x < 0) != (y < 0) {
			q = -q
		}
		return int(int8(q)), true
	case PERCENT:
		if y == 0 {
			return 0, false
		}
		m := abs(y)
		return ((x % m) + m) % m, true
	}
	return 0, false
}
