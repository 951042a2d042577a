package compiler

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

const addAssembly = `DATA:
a 0
b 0
c 0
d 0
e 0
f 0
g 0
error 0
result 0
temp0 0
temp1 0
temp2 0

CODE:
MOV A, (a)
MOV (temp0), A
MOV A, (b)
MOV (temp1), A
MOV A, (temp0)
ADD A, (temp1)
MOV (temp2), A
MOV A, (temp0)
AND A, 128
MOV B, A
MOV A, (temp1)
AND A, 128
CMP A, B
JNE add_ok_0
MOV A, (temp2)
AND A, 128
CMP A, B
JEQ add_ok_0
MOV A, 1
MOV (error), A
MOV A, 0
MOV (temp2), A
add_ok_0:
MOV A, (temp2)
MOV B, (error)
CMP B, 1
JEQ end_program
MOV A, (temp2)
end_program:
MOV (result), A
`

func TestCompileAddGolden(t *testing.T) {
	out, err := Compile("result = a + b")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if out.Assembly != addAssembly {
		t.Errorf("assembly mismatch\n got:\n%s\nwant:\n%s", out.Assembly, addAssembly)
	}
	if out.Instructions != 30 {
		t.Errorf("Instructions = %d; want 30", out.Instructions)
	}
	if out.MemoryAccesses != 16 {
		t.Errorf("MemoryAccesses = %d; want 16", out.MemoryAccesses)
	}
	if len(out.Temps) != 3 {
		t.Errorf("Temps = %v; want 3 slots", out.Temps)
	}
}

func TestCompileAddSub(t *testing.T) {
	out, err := Compile("result = a + b - c")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if got := FormatTokens(out.Postfix); got != "a b + c -" {
		t.Errorf("postfix = %q", got)
	}

	code := strings.Split(strings.TrimSpace(out.Assembly[strings.Index(out.Assembly, "CODE:"):]), "\n")[1:]
	wantPrefix := []string{
		"MOV A, (a)",
		"MOV (temp0), A",
		"MOV A, (b)",
		"MOV (temp1), A",
		"MOV A, (temp0)",
		"ADD A, (temp1)",
		"MOV (temp2), A",
	}
	if !reflect.DeepEqual(code[:len(wantPrefix)], wantPrefix) {
		t.Errorf("code prefix = %q", code[:len(wantPrefix)])
	}
	if !strings.Contains(out.Assembly, "MOV A, (c)\nMOV (temp3), A\nMOV A, (temp2)\nSUB A, (temp3)\nMOV (temp4), A\n") {
		t.Errorf("missing subtraction of c:\n%s", out.Assembly)
	}
	wantSuffix := []string{"MOV A, (temp4)", "end_program:", "MOV (result), A"}
	if !reflect.DeepEqual(code[len(code)-3:], wantSuffix) {
		t.Errorf("code suffix = %q", code[len(code)-3:])
	}

	if out.Instructions != len(code) {
		t.Errorf("Instructions = %d; code has %d lines", out.Instructions, len(code))
	}
	if out.Instructions != 55 || out.MemoryAccesses != 28 {
		t.Errorf("stats = (%d, %d); want (55, 28)", out.Instructions, out.MemoryAccesses)
	}
}

func TestMemoryAccessCount(t *testing.T) {
	exprs := []string{"a", "a+b", "a*b", "a/b", "a%b", "-a", "a + b - c + (d - e) + f", "a*b/c%d-e"}
	for _, expr := range exprs {
		out, err := CompileExpression(expr)
		if err != nil {
			t.Fatalf("%q: %v", expr, err)
		}
		want := 0
		for _, line := range strings.Split(out.Assembly[strings.Index(out.Assembly, "CODE:"):], "\n") {
			if strings.Contains(line, "(") {
				want++
			}
		}
		if out.MemoryAccesses != want {
			t.Errorf("%q: MemoryAccesses = %d; want %d", expr, out.MemoryAccesses, want)
		}
		if out.Instructions != len(out.Code) {
			t.Errorf("%q: Instructions = %d; want %d", expr, out.Instructions, len(out.Code))
		}
	}
}

func TestUnaryMinusCompilesAsZeroMinus(t *testing.T) {
	unary, err := Compile("result = -a + b")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if got := FormatTokens(unary.Postfix); got != "0 a - b +" {
		t.Errorf("postfix = %q", got)
	}
	if !strings.HasPrefix(unary.Assembly[strings.Index(unary.Assembly, "CODE:"):], "CODE:\nMOV A, 0\nMOV (temp0), A\nMOV A, (a)\n") {
		t.Errorf("unary minus should start by storing 0:\n%s", unary.Assembly)
	}
}

func TestCompileDeterministic(t *testing.T) {
	exprs := []string{
		"result = a + b",
		"result = a * b / c % d",
		"result = -(a - b) * -c",
	}
	for _, src := range exprs {
		first, err := Compile(src)
		if err != nil {
			t.Fatalf("%q: %v", src, err)
		}
		// Interleave a different compilation to show no state leaks.
		if _, err := Compile("result = g % f * e"); err != nil {
			t.Fatal(err)
		}
		second, err := Compile(src)
		if err != nil {
			t.Fatalf("%q: %v", src, err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("%q: two compilations differ", src)
		}
	}
}

func TestLabelsAndTempsUnique(t *testing.T) {
	out, err := Compile("result = a*b/c%d*e/f%g + a*b")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	labels := map[string]bool{}
	for _, in := range out.Code {
		if !in.IsLabel() {
			continue
		}
		if labels[in.Label] {
			t.Errorf("duplicate label %s", in.Label)
		}
		labels[in.Label] = true
	}

	names := map[string]bool{}
	for _, s := range out.Temps {
		if names[s.Name()] {
			t.Errorf("duplicate temp %s", s.Name())
		}
		names[s.Name()] = true
	}

	if _, err := out.Assemble(); err != nil {
		t.Errorf("Assemble failed: %v", err)
	}
}

func TestDataSectionOrder(t *testing.T) {
	out, err := Compile("result = a % b")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	data := strings.Split(out.Assembly[:strings.Index(out.Assembly, "\n\nCODE:")], "\n")[1:]
	want := []string{"a 0", "b 0", "c 0", "d 0", "e 0", "f 0", "g 0", "error 0", "result 0"}
	for i := 0; i < len(out.Temps); i++ {
		want = append(want, out.Temps[i].Name()+" 0")
	}
	if !reflect.DeepEqual(data, want) {
		t.Errorf("data section = %q\nwant %q", data, want)
	}
	if out.Temps[0].Name() != "temp0" {
		t.Errorf("first temp = %s", out.Temps[0].Name())
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		src     string
		want    error
		wantPos int
	}{
		{"result = ", ErrEmptyRightHandSide, -1},
		{"result =   \t", ErrEmptyRightHandSide, -1},
		{"a + b", ErrMissingAssignment, -1},
		{"", ErrMissingAssignment, -1},
		{"result = (a+b", ErrUnmatchedOpenParen, -1},
		{"result = a+b)", ErrUnmatchedCloseParen, 3},
		{"result = a+", ErrMissingOperand, 1},
		{"result = *a", ErrMissingOperand, 0},
		{"result = a+-", ErrDanglingUnaryOperator, 2},
		{"result = -", ErrDanglingUnaryOperator, 0},
		{"result = a $ b", ErrInvalidCharacter, 2},
		{"result = ()", ErrEmptyResult, -1},
		{"result = a b", ErrUnbalancedExpression, -1},
		{"result = (a)(b)", ErrUnbalancedExpression, -1},
	}

	for _, tt := range tests {
		out, err := Compile(tt.src)
		if out != nil {
			t.Errorf("Compile(%q) returned partial output", tt.src)
		}
		if !errors.Is(err, tt.want) {
			t.Errorf("Compile(%q) error = %v; want kind %s", tt.src, err, tt.want.(*Error).Kind)
			continue
		}
		var ce *Error
		if !errors.As(err, &ce) {
			t.Fatalf("Compile(%q) error is %T", tt.src, err)
		}
		if ce.Pos != tt.wantPos {
			t.Errorf("Compile(%q) pos = %d; want %d", tt.src, ce.Pos, tt.wantPos)
		}
	}
}

func TestErrorMessages(t *testing.T) {
	_, err := Compile("result = a $ b")
	if err == nil || err.Error() != `invalid character '$' at position 2` {
		t.Errorf("message = %q", err)
	}
	if errors.Is(err, ErrEmptyExpression) {
		t.Errorf("kinds should not match across sentinels")
	}
	if MissingOperand.String() != "MissingOperand" {
		t.Errorf("kind name = %s", MissingOperand)
	}
}

func TestLeftHandSideIgnored(t *testing.T) {
	a, err := Compile("result = a + b")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Compile("x=a + b")
	if err != nil {
		t.Fatal(err)
	}
	if a.Assembly != b.Assembly {
		t.Errorf("left-hand side changed the output")
	}
}
