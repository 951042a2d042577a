package compiler

import (
	"fmt"
	"strings"

	"asuac/pkg/asm"
	"asuac/pkg/cpu"
)

// Output is the result of one compilation.
type Output struct {
	Assembly       string
	Instructions   int // code lines, labels included
	MemoryAccesses int // code lines naming a data cell

	Tokens  []Token
	Postfix []Token
	Code    []Instruction
	Temps   []Slot
}

// Compile translates "result = <expr>". Everything left of the first '='
// is ignored.
func Compile(src string) (*Output, error) {
	eq := strings.IndexByte(src, '=')
	if eq < 0 {
		return nil, newError(MissingAssignment, -1, fmt.Sprintf("%q", src))
	}
	rhs := strings.TrimSpace(src[eq+1:])
	if rhs == "" {
		return nil, newError(EmptyRightHandSide, -1, "")
	}
	return CompileExpression(rhs)
}

// CompileExpression compiles a bare right-hand side. Positions in returned
// errors are offsets into expr.
func CompileExpression(expr string) (*Output, error) {
	tokens, err := Tokenize(expr)
	if err != nil {
		return nil, err
	}

	postfix, err := ToPostfix(tokens)
	if err != nil {
		return nil, err
	}

	cg := newCodeGen()
	if err := cg.Generate(postfix); err != nil {
		return nil, err
	}

	temps := cg.Temps()
	return &Output{
		Assembly:       Emit(temps, cg.Code()),
		Instructions:   cg.Instructions(),
		MemoryAccesses: cg.MemoryAccesses(),
		Tokens:         tokens,
		Postfix:        postfix,
		Code:           cg.Code(),
		Temps:          temps,
	}, nil
}

// Assemble turns the emitted text into a loadable program.
func (o *Output) Assemble() (*asm.Program, error) {
	prog, err := asm.Assemble(o.Assembly)
	if err != nil {
		return nil, fmt.Errorf("assembly error: %w", err)
	}
	return prog, nil
}

// Execute assembles the program, stores env into the variable cells and
// runs it on a fresh machine for at most maxSteps steps.
func (o *Output) Execute(env Env, maxSteps int) (Result, *cpu.CPU, error) {
	prog, err := o.Assemble()
	if err != nil {
		return Result{}, nil, err
	}

	vm := cpu.NewCPU()
	prog.Load(vm)
	for name, v := range env {
		if err := prog.Poke(vm, name, v); err != nil {
			return Result{}, vm, err
		}
	}
	if err := vm.RunLimit(maxSteps); err != nil {
		return Result{}, vm, err
	}

	value, _ := prog.Peek(vm, ResultSlot.Name())
	flag, _ := prog.Peek(vm, ErrorSlot.Name())
	return Result{Value: value, Error: flag != 0}, vm, nil
}
