package cpu

import (
	"errors"
	"fmt"
)

// Opcode identifies one machine operation.
type Opcode uint8

const (
	OpMOV Opcode = iota + 1
	OpADD
	OpSUB
	OpAND
	OpOR
	OpXOR
	OpCMP
	OpJEQ
	OpJNE
	OpJLT
	OpJMP
)

var opNames = [...]string{
	OpMOV: "MOV",
	OpADD: "ADD",
	OpSUB: "SUB",
	OpAND: "AND",
	OpOR:  "OR",
	OpXOR: "XOR",
	OpCMP: "CMP",
	OpJEQ: "JEQ",
	OpJNE: "JNE",
	OpJLT: "JLT",
	OpJMP: "JMP",
}

func (op Opcode) String() string {
	if int(op) > 0 && int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("Opcode(%d)", int(op))
}

// IsJump reports whether op transfers control to a label.
func (op Opcode) IsJump() bool {
	return op >= OpJEQ && op <= OpJMP
}

// Mnemonics maps assembly text to opcodes.
var Mnemonics = map[string]Opcode{
	"MOV": OpMOV,
	"ADD": OpADD,
	"SUB": OpSUB,
	"AND": OpAND,
	"OR":  OpOR,
	"XOR": OpXOR,
	"CMP": OpCMP,
	"JEQ": OpJEQ,
	"JNE": OpJNE,
	"JLT": OpJLT,
	"JMP": OpJMP,
}

// Register selects one of the two working registers.
type Register uint8

const (
	RegA Register = 0
	RegB Register = 1
)

func (r Register) String() string {
	if r == RegB {
		return "B"
	}
	return "A"
}

type OperandKind uint8

const (
	OperandNone OperandKind = iota
	OperandReg
	OperandImm
	OperandMem
	OperandAddr // jump target, an instruction index
)

// Operand is a decoded instruction operand. Value holds the immediate or
// the memory address; Target holds the instruction index of a jump.
type Operand struct {
	Kind   OperandKind
	Reg    Register
	Value  uint8
	Target int
}

// Instruction is one decoded machine instruction.
type Instruction struct {
	Op  Opcode
	Dst Operand
	Src Operand
}

// MemorySize is the number of addressable data cells.
const MemorySize = 256

// ErrStepLimit is returned by RunLimit when the program does not halt in time.
var ErrStepLimit = errors.New("step limit exceeded")

type CPU struct {
	Regs [2]uint8

	PC int

	Z bool
	N bool
	C bool
	V bool

	Halted bool

	Memory  [MemorySize]byte
	Program []Instruction

	// Steps counts executed instructions; MemoryAccesses counts executed
	// instructions that read or wrote a data cell.
	Steps          int
	MemoryAccesses int
}

// NewCPU creates a machine with the given program loaded at PC 0.
func NewCPU(program ...Instruction) *CPU {
	c := &CPU{}
	c.Load(program)
	return c
}

// Load replaces the program and resets registers, flags and counters.
// Memory is left untouched so callers can seed data cells first.
func (c *CPU) Load(program []Instruction) {
	c.Program = program
	c.Regs = [2]uint8{}
	c.PC = 0
	c.Z, c.N, c.C, c.V = false, false, false, false
	c.Steps = 0
	c.MemoryAccesses = 0
	c.Halted = len(program) == 0
}

func (c *CPU) reg(r Register) *uint8 {
	if r == RegB {
		return &c.Regs[1]
	}
	return &c.Regs[0]
}

func (c *CPU) read(o Operand) uint8 {
	switch o.Kind {
	case OperandReg:
		return *c.reg(o.Reg)
	case OperandImm:
		return o.Value
	case OperandMem:
		return c.Memory[o.Value]
	}
	return 0
}

func (c *CPU) updateFlags(result uint8) {
	c.Z = result == 0
	c.N = result&0x80 != 0
}

func (c *CPU) add(a, b uint8) uint8 {
	res16 := uint16(a) + uint16(b)
	result := uint8(res16)
	c.C = res16 > 0xFF
	c.V = (a^result)&(b^result)&0x80 != 0
	c.updateFlags(result)
	return result
}

func (c *CPU) sub(a, b uint8) uint8 {
	result := a - b
	c.C = a < b
	c.V = (a^b)&(a^result)&0x80 != 0
	c.updateFlags(result)
	return result
}

// Step executes the instruction at PC.
func (c *CPU) Step() {
	if c.Halted {
		return
	}
	if c.PC < 0 || c.PC >= len(c.Program) {
		c.Halted = true
		return
	}

	in := c.Program[c.PC]
	c.PC++
	c.Steps++
	if in.Dst.Kind == OperandMem || in.Src.Kind == OperandMem {
		c.MemoryAccesses++
	}

	switch in.Op {
	case OpMOV:
		val := c.read(in.Src)
		if in.Dst.Kind == OperandMem {
			c.Memory[in.Dst.Value] = val
		} else {
			*c.reg(in.Dst.Reg) = val
		}

	case OpADD:
		r := c.reg(in.Dst.Reg)
		*r = c.add(*r, c.read(in.Src))

	case OpSUB:
		r := c.reg(in.Dst.Reg)
		*r = c.sub(*r, c.read(in.Src))

	case OpAND:
		r := c.reg(in.Dst.Reg)
		*r &= c.read(in.Src)
		c.updateFlags(*r)

	case OpOR:
		r := c.reg(in.Dst.Reg)
		*r |= c.read(in.Src)
		c.updateFlags(*r)

	case OpXOR:
		r := c.reg(in.Dst.Reg)
		*r ^= c.read(in.Src)
		c.updateFlags(*r)

	case OpCMP:
		c.sub(*c.reg(in.Dst.Reg), c.read(in.Src))

	case OpJEQ:
		if c.Z {
			c.PC = in.Dst.Target
		}

	case OpJNE:
		if !c.Z {
			c.PC = in.Dst.Target
		}

	case OpJLT:
		if c.N {
			c.PC = in.Dst.Target
		}

	case OpJMP:
		c.PC = in.Dst.Target
	}

	if c.PC >= len(c.Program) {
		c.Halted = true
	}
}

// Run executes until the program runs past its last instruction.
func (c *CPU) Run() {
	for !c.Halted {
		c.Step()
	}
}

// RunLimit executes at most maxSteps instructions.
func (c *CPU) RunLimit(maxSteps int) error {
	for i := 0; i < maxSteps; i++ {
		if c.Halted {
			return nil
		}
		c.Step()
	}
	if !c.Halted {
		return fmt.Errorf("%w: %d steps, PC=%d", ErrStepLimit, maxSteps, c.PC)
	}
	return nil
}

// Signed returns the value at addr interpreted as two's complement.
func (c *CPU) Signed(addr uint8) int8 {
	return int8(c.Memory[addr])
}
