package compiler

import (
	"fmt"

	"asuac/pkg/cpu"
)

// EndLabel is the terminal label every error check jumps to.
const EndLabel = "end_program"

// CodeGen is the state of one compilation: the emitted code, the temp
// pool, the label counter and the running statistics. A CodeGen is used
// once and then discarded.
type CodeGen struct {
	code        []Instruction
	temps       TempPool
	nextID      int
	memAccesses int
}

func newCodeGen() *CodeGen {
	return &CodeGen{}
}

func (cg *CodeGen) newID() int {
	id := cg.nextID
	cg.nextID++
	return id
}

// newLabel returns prefix_N for a fresh N.
func (cg *CodeGen) newLabel(prefix string, id int) string {
	return fmt.Sprintf("%s_%d", prefix, id)
}

func (cg *CodeGen) emit(op cpu.Opcode, dst, src Operand) {
	in := Instruction{Op: op, Dst: dst, Src: src}
	if in.TouchesMemory() {
		cg.memAccesses++
	}
	cg.code = append(cg.code, in)
}

func (cg *CodeGen) jump(op cpu.Opcode, label string) {
	cg.emit(op, target(label), Operand{})
}

func (cg *CodeGen) label(name string) {
	cg.code = append(cg.code, Instruction{Label: name})
}

// load moves a slot into register A.
func (cg *CodeGen) load(s Slot) { cg.emit(cpu.OpMOV, regA, mem(s)) }

// store moves register A into a slot.
func (cg *CodeGen) store(s Slot) { cg.emit(cpu.OpMOV, mem(s), regA) }

// Generate walks a postfix sequence and emits code that leaves its value
// in the result cell.
func (cg *CodeGen) Generate(postfix []Token) error {
	var stack []Slot

	for _, tok := range postfix {
		switch {
		case tok.Type == VARIABLE:
			src, ok := VarSlot(tok.Lexeme)
			if !ok {
				return &Error{Kind: InvalidCharacter, Char: firstRune(tok.Lexeme), Pos: tok.Pos}
			}
			dst := cg.temps.Alloc()
			cg.load(src)
			cg.store(dst)
			stack = append(stack, dst)

		case tok.Type == ZERO:
			dst := cg.temps.Alloc()
			cg.emit(cpu.OpMOV, regA, imm(0))
			cg.store(dst)
			stack = append(stack, dst)

		case tok.Type.IsOperator():
			if len(stack) < 2 {
				return newError(MissingOperand, tok.Pos,
					fmt.Sprintf("'%s' needs 2 operands, have %d", tok.Lexeme, len(stack)))
			}
			right := stack[len(stack)-1]
			left := stack[len(stack)-2]
			stack = stack[:len(stack)-2]

			dst := cg.temps.Alloc()
			cg.apply(tok.Type, left, right, dst)
			cg.checkError(dst)
			stack = append(stack, dst)

		default:
			return newError(UnbalancedExpression, tok.Pos,
				fmt.Sprintf("unexpected %s in postfix sequence", tok.Type))
		}
	}

	if len(stack) != 1 {
		return newError(UnbalancedExpression, -1,
			fmt.Sprintf("%d values left on the stack", len(stack)))
	}

	cg.load(stack[0])
	cg.label(EndLabel)
	cg.store(ResultSlot)
	return nil
}

func (cg *CodeGen) apply(op TokenType, left, right, dst Slot) {
	switch op {
	case PLUS:
		cg.emitAdd(left, right, dst)
	case MINUS:
		cg.emitSub(left, right, dst)
	case STAR:
		cg.emitMul(left, right, dst)
	case SLASH:
		cg.emitDiv(left, right, dst)
	case PERCENT:
		cg.emitMod(left, right, dst)
	}
}

// checkError leaves slot in A and jumps to the final store if the error
// flag is raised. Faulting routines zero their slot first, so the stored
// result is 0.
func (cg *CodeGen) checkError(slot Slot) {
	cg.load(slot)
	cg.emit(cpu.OpMOV, regB, mem(ErrorSlot))
	cg.emit(cpu.OpCMP, regB, imm(1))
	cg.jump(cpu.OpJEQ, EndLabel)
}

// Code returns the emitted instructions.
func (cg *CodeGen) Code() []Instruction { return cg.code }

// Temps returns every temp slot allocated during generation.
func (cg *CodeGen) Temps() []Slot { return cg.temps.Slots() }

// Instructions counts code lines, labels included.
func (cg *CodeGen) Instructions() int { return len(cg.code) }

// MemoryAccesses counts code lines that name a data cell.
func (cg *CodeGen) MemoryAccesses() int { return cg.memAccesses }
